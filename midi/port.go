package midi

import (
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Port is an opened output. It satisfies router.Output.
type Port struct {
	mu   sync.Mutex
	out  drivers.Out
	send func(msg gomidi.Message) error
}

// OpenPort opens out for sending
func OpenPort(out drivers.Out) (*Port, error) {
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, wrap(err, "open output "+out.String())
	}
	return &Port{out: out, send: send}, nil
}

func (p *Port) Name() string {
	return p.out.String()
}

func (p *Port) Send(msg gomidi.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.send == nil {
		return fault.New("port closed", fmsg.With(p.out.String()))
	}
	return p.send(msg)
}

func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.send == nil {
		return nil
	}
	p.send = nil
	return p.out.Close()
}

// Listen delivers every message from in to handler until stop is called.
// Sysex is delivered too.
func Listen(in drivers.In, handler func(msg []byte)) (stop func(), err error) {
	stop, err = gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		handler(msg.Bytes())
	}, gomidi.UseSysEx())
	if err != nil {
		return nil, wrap(err, "listen to "+in.String())
	}
	return stop, nil
}

func wrap(err error, msg string) error {
	return fault.Wrap(err, fmsg.With(msg))
}

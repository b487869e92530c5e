package midi

import (
	"strings"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// portTimeout bounds port enumeration (CoreMIDI can hang)
const portTimeout = 3 * time.Second

// Transport owns the rtmidi driver and every port opened through it
type Transport struct {
	drv *rtmididrv.Driver
}

// NewTransport opens the rtmidi driver
func NewTransport() (*Transport, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, wrap(err, "open rtmidi driver")
	}
	return &Transport{drv: drv}, nil
}

// Close closes the driver and all of its ports
func (t *Transport) Close() error {
	return t.drv.Close()
}

// Ports lists the current inputs and outputs
func (t *Transport) Ports() ([]drivers.In, []drivers.Out, error) {
	type portsResult struct {
		ins  []drivers.In
		outs []drivers.Out
		err  error
	}

	ch := make(chan portsResult, 1)
	go func() {
		ins, err := t.drv.Ins()
		if err != nil {
			ch <- portsResult{err: err}
			return
		}
		outs, err := t.drv.Outs()
		ch <- portsResult{ins: ins, outs: outs, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, nil, wrap(r.err, "list midi ports")
		}
		return r.ins, r.outs, nil
	case <-time.After(portTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, nil, fault.New("midi port enumeration timed out", ftag.With(ftag.Internal))
	}
}

// FindIn picks the controller input. An input matching preference wins; any
// input that is not the loopback comes next; the loopback itself is the last
// resort and is reported as such.
func (t *Transport) FindIn(preference, loopback string) (in drivers.In, isLoopback bool, err error) {
	ins, _, err := t.Ports()
	if err != nil {
		return nil, false, err
	}
	in, isLoopback = chooseIn(ins, preference, loopback)
	if in == nil {
		return nil, false, fault.New("no midi input",
			fmsg.WithDesc("no input ports", "Connect the controller and try again"),
			ftag.With(ftag.NotFound))
	}
	return in, isLoopback, nil
}

func chooseIn[P interface{ String() string }](ins []P, preference, loopback string) (P, bool) {
	var zero P
	if preference != "" {
		for _, in := range ins {
			if strings.Contains(in.String(), preference) {
				return in, false
			}
		}
	}
	for _, in := range ins {
		if loopback == "" || !strings.Contains(in.String(), loopback) {
			return in, false
		}
	}
	if loopback != "" {
		for _, in := range ins {
			if strings.Contains(in.String(), loopback) {
				return in, true
			}
		}
	}
	return zero, false
}

// FindOut returns the first output whose name contains pattern
func (t *Transport) FindOut(pattern string) (drivers.Out, error) {
	_, outs, err := t.Ports()
	if err != nil {
		return nil, err
	}
	for _, out := range outs {
		if strings.Contains(out.String(), pattern) {
			return out, nil
		}
	}
	return nil, fault.New("no midi output", fmsg.With("no output matching "+pattern), ftag.With(ftag.NotFound))
}

// OpenOut opens the first output whose name contains pattern
func (t *Transport) OpenOut(pattern string) (*Port, error) {
	out, err := t.FindOut(pattern)
	if err != nil {
		return nil, err
	}
	return OpenPort(out)
}

// OpenVirtualOut creates a named output other applications can connect to
func (t *Transport) OpenVirtualOut(name string) (*Port, error) {
	out, err := t.drv.OpenVirtualOut(name)
	if err != nil {
		return nil, wrap(err, "create virtual output "+name)
	}
	return OpenPort(out)
}

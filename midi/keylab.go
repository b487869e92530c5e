package midi

import (
	"sync/atomic"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"rigrouter/debug"
)

var sysexSendCount uint64

// Arturia sysex headers (F0 excluded, gomidi.SysEx adds it)
var (
	displayHeader = []byte{0x00, 0x20, 0x6B, 0x7F, 0x42, 0x04, 0x00, 0x60, 0x01}
	setupHeader   = []byte{0x00, 0x20, 0x6B, 0x7F, 0x42, 0x02, 0x00}
)

// Control modes of the KeyLab setup protocol
const (
	modeDisabled = 0
	modeCC       = 8
)

// SetupMessageCount is the length of the controller setup sequence
const SetupMessageCount = 60

// KeyLab drives an Arturia KeyLab's two-line display and control mapping
type KeyLab struct {
	name string
	send func(msg gomidi.Message) error
}

// NewKeyLab opens out as the controller's sysex port
func NewKeyLab(out drivers.Out) (*KeyLab, error) {
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, wrap(err, "open keylab output "+out.String())
	}
	return &KeyLab{name: out.String(), send: send}, nil
}

// NewKeyLabFunc builds a KeyLab over any send function
func NewKeyLabFunc(name string, send func(msg gomidi.Message) error) *KeyLab {
	return &KeyLab{name: name, send: send}
}

func (k *KeyLab) Name() string {
	return k.name
}

// Print shows two lines on the display. Lines are sent as given; callers fit
// them to the 16-character width.
func (k *KeyLab) Print(line1, line2 string) error {
	if k == nil || k.send == nil {
		return nil
	}
	atomic.AddUint64(&sysexSendCount, 1)
	return k.send(DisplayMessage(line1, line2))
}

// Setup maps the controller's knobs, sliders, pads and transport buttons
func (k *KeyLab) Setup() error {
	if k == nil || k.send == nil {
		return nil
	}
	for _, msg := range SetupMessages() {
		if err := k.send(msg); err != nil {
			return wrap(err, "send keylab setup")
		}
	}
	count := atomic.AddUint64(&sysexSendCount, SetupMessageCount)
	debug.Log("keylab", "setup sent (%d sysex total)", count)
	return nil
}

// DisplayMessage encodes the two display lines as one sysex. Characters
// outside printable ASCII are sent as '?', one per character.
func DisplayMessage(line1, line2 string) gomidi.Message {
	body := make([]byte, 0, len(displayHeader)+len(line1)+len(line2)+3)
	body = append(body, displayHeader...)
	body = appendText(body, line1)
	body = append(body, 0x00, 0x02)
	body = appendText(body, line2)
	body = append(body, 0x00)
	return gomidi.SysEx(body)
}

func appendText(body []byte, s string) []byte {
	for _, r := range s {
		if r < 0x20 || r > 0x7E {
			r = '?'
		}
		body = append(body, byte(r))
	}
	return body
}

// SetupMessages returns the controller setup sequence
func SetupMessages() []gomidi.Message {
	msgs := make([]gomidi.Message, 0, SetupMessageCount)
	for m := 0; m < SetupMessageCount; m++ {
		param, control, value := setupEntry(m)
		body := append(append([]byte{}, setupHeader...), param, control, value)
		msgs = append(msgs, gomidi.SysEx(body))
	}
	return msgs
}

// setupEntry is the (parameter, control, value) triple of setup message m.
// Parameter 1 sets a control's mode, 2 its channel, 3 its CC or note, 5 is
// the slider bank.
func setupEntry(m int) (param, control, value byte) {
	param, control, value = 3, 0, 0
	switch {
	case m == 0:
		control, value = 0x30, 9 // volume knob -> CC 9
	case m == 1:
		control, value = 0x01, 3 // knob 1 -> CC 3
	case m >= 2 && m <= 10:
		param, control, value = 1, byte(m), modeDisabled // knobs 2-10
	case m == 11:
		control, value = 0x0B, 9 // slider 1
	case m >= 12 && m <= 19:
		param, value = 5, 0
		if m < 15 {
			control = byte(m)
		} else {
			control = byte(m + 0x3C)
		}
	case m >= 20 && m <= 35:
		param, control, value = 2, byte(0x70+m-20), 0 // pads on channel 1
	case m >= 36 && m <= 51:
		control, value = byte(0x70+m-36), byte(0x15+m-36) // pad notes
	case m == 54:
		param, control, value = 1, 0x5B, modeCC
	case m == 55:
		control, value = 0x5B, 111 // rewind -> song back
	case m == 56:
		param, control, value = 1, 0x5C, modeCC
	case m == 57:
		control, value = 0x5C, 116 // forward -> song forward
	case m == 58:
		param, control, value = 1, 0x59, modeCC
	case m == 59:
		control, value = 0x59, 117 // stop -> power off
	}
	return param, control, value
}

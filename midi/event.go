package midi

import "fmt"

// Status nibbles used when describing traffic
const (
	NoteOff uint8 = 0x80
	NoteOn  uint8 = 0x90
	CC      uint8 = 0xB0
	Program uint8 = 0xC0
)

// Event is a decoded channel message, for display
type Event struct {
	Type    uint8 // NoteOn, NoteOff, CC, Program or another status nibble
	Channel uint8 // 0-15
	Data1   uint8
	Data2   uint8
}

// ParseEvent decodes a channel message. ok is false for sysex, realtime and
// truncated messages.
func ParseEvent(msg []byte) (ev Event, ok bool) {
	if len(msg) < 2 || msg[0] < 0x80 || msg[0] >= 0xF0 {
		return Event{}, false
	}
	ev = Event{Type: msg[0] & 0xF0, Channel: msg[0] & 0x0F, Data1: msg[1] & 0x7F}
	if len(msg) > 2 {
		ev.Data2 = msg[2] & 0x7F
	}
	return ev, true
}

func (e Event) String() string {
	switch e.Type {
	case NoteOn:
		return fmt.Sprintf("ch%-2d note-on  %3d vel %3d", e.Channel+1, e.Data1, e.Data2)
	case NoteOff:
		return fmt.Sprintf("ch%-2d note-off %3d", e.Channel+1, e.Data1)
	case CC:
		return fmt.Sprintf("ch%-2d cc %3d = %3d", e.Channel+1, e.Data1, e.Data2)
	case Program:
		return fmt.Sprintf("ch%-2d program %3d", e.Channel+1, e.Data1)
	}
	return fmt.Sprintf("ch%-2d %02X %3d %3d", e.Channel+1, e.Type, e.Data1, e.Data2)
}

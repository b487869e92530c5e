package router

// Channel message status nibbles
const (
	NoteOff         = 0x80
	NoteOn          = 0x90
	PolyKeyPressure = 0xA0
	ControlChange   = 0xB0
	ProgramChange   = 0xC0
	ChannelPressure = 0xD0
	PitchBend       = 0xE0
)

// Controller numbers with a fixed meaning on the rig
const (
	CCBankMSB       = 0x00
	CCModulation    = 0x01
	CCVolume        = 0x07
	CCGlobalVolume  = 0x09
	CCBankLSB       = 0x20
	CCSongBack      = 111
	CCSetDial       = 112
	CCSetLoad       = 113
	CCSongDial      = 114
	CCSongSelect    = 115
	CCSongForward   = 116
	CCPowerOff      = 117
	CCDefaultFilter = 3
)

// Rotary encoder relative values
const (
	EncoderDown = 0x3F
	EncoderUp   = 0x41
)

// decoded is one inbound channel message split into its fields
type decoded struct {
	status   int
	channel  int
	data1    int
	data2    int
	hasData2 bool
}

func decode(msg []byte) decoded {
	d := decoded{
		status:  int(msg[0] & 0xF0),
		channel: int(msg[0] & 0x0F),
		data1:   int(msg[1] & 0x7F),
	}
	if len(msg) > 2 {
		d.data2 = int(msg[2] & 0x7F)
		d.hasData2 = true
	}
	return d
}

func (d decoded) isCC(number int) bool {
	return d.status == ControlChange && d.data1 == number
}

// bytes re-encodes the message, keeping the original length
func (d decoded) bytes() []byte {
	b := []byte{byte(d.status | d.channel), byte(d.data1)}
	if d.hasData2 {
		b = append(b, byte(d.data2))
	}
	return b
}

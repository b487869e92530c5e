package router

import (
	gomidi "gitlab.com/gomidi/midi/v2"

	"rigrouter/debug"
)

// ArpeggiatorChannel marks a SceneMidi that feeds the rack's held-note table
// instead of a MIDI channel. Real channels are 0-15.
const ArpeggiatorChannel = 16

// NoNote is the empty value of SceneMidi.LastNote and SceneMidi.Program
const NoNote = -1

// Output is a destination port owned by its rack
type Output interface {
	Send(msg gomidi.Message) error
	Close() error
}

// SceneMidi is one routing rule of a rack for the active song
type SceneMidi struct {
	Channel     int
	Transpose   int
	Low, High   int // inclusive key bounds
	Bank        int
	Program     int
	Arpeggiator bool // plays held notes instead of receiving keys
	LastNote    int  // last arpeggiated note, NoNote when silent
}

// CatchAll routes every key to channel 0 untransposed
func CatchAll() SceneMidi {
	return SceneMidi{
		Channel:  0,
		Low:      0,
		High:     127,
		Program:  NoNote,
		LastNote: NoNote,
	}
}

// Contains reports whether key falls inside the entry's key range
func (s *SceneMidi) Contains(key int) bool {
	return key >= s.Low && key <= s.High
}

// Rack is one independently addressable output destination
type Rack struct {
	ID        int
	Name      string
	GroupName string
	Volume    float64
	Disabled  bool
	CCFilter  [128]bool
	Scenes    []SceneMidi
	Out       Output

	NotesDown       [128]bool
	AnyNotesDown    bool
	ArpeggiatorBeat int
}

// NewRack creates an enabled-on-demand rack with no routing
func NewRack(id int, name, group string, out Output) *Rack {
	return &Rack{
		ID:              id,
		Name:            name,
		GroupName:       group,
		Volume:          1,
		Disabled:        true,
		Out:             out,
		ArpeggiatorBeat: -1,
	}
}

// resetRouting clears everything the routing builder derives
func (r *Rack) resetRouting() {
	r.Disabled = true
	r.CCFilter = [128]bool{}
	r.CCFilter[CCDefaultFilter] = true
	r.Scenes = nil
}

// refreshNotesDown recomputes AnyNotesDown from the held-note table
func (r *Rack) refreshNotesDown() bool {
	r.AnyNotesDown = r.lowestNoteDown() >= 0
	return r.AnyNotesDown
}

// lowestNoteDown returns the lowest held note, or NoNote
func (r *Rack) lowestNoteDown() int {
	for n, down := range r.NotesDown {
		if down {
			return n
		}
	}
	return NoNote
}

// heldCount returns the number of held notes
func (r *Rack) heldCount() int {
	count := 0
	for _, down := range r.NotesDown {
		if down {
			count++
		}
	}
	return count
}

func (r *Rack) send(msg gomidi.Message) {
	if r.Out == nil {
		return
	}
	if err := r.Out.Send(msg); err != nil {
		debug.Log("route", "send to %s failed: %v", r.Name, err)
	}
}

// Close releases the rack's output port
func (r *Rack) Close() error {
	if r.Out == nil {
		return nil
	}
	err := r.Out.Close()
	r.Out = nil
	return err
}

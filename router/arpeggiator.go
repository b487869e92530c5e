package router

import (
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"rigrouter/debug"
)

// Scheduler drives the arpeggiator clock. Arm replaces any running clock;
// Disarm stops it without waiting for an in-flight fire to return.
type Scheduler interface {
	Arm(interval time.Duration, fire func())
	Disarm()
}

// TickerScheduler fires once immediately, then every interval, on its own
// goroutine.
type TickerScheduler struct {
	mu       sync.Mutex
	stopChan chan struct{}
}

func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

func (s *TickerScheduler) Arm(interval time.Duration, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopChan != nil {
		close(s.stopChan)
	}
	stop := make(chan struct{})
	s.stopChan = stop

	go func() {
		fire()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fire()
			}
		}
	}()
}

func (s *TickerScheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopChan != nil {
		close(s.stopChan)
		s.stopChan = nil
	}
}

// armArpeggiator (re)starts the clock at the current tempo. Must hold e.mu.
func (e *Engine) armArpeggiator() {
	e.arpGen++
	gen := e.arpGen
	e.arpArmed = true
	e.scheduler.Arm(ArpeggiatorInterval(e.tempo), func() { e.arpeggiatorTick(gen) })
}

// disarmArpeggiator stops the clock. Must hold e.mu.
func (e *Engine) disarmArpeggiator() {
	e.arpGen++
	if e.arpArmed {
		e.scheduler.Disarm()
	}
	e.arpArmed = false
}

func (e *Engine) arpeggiatorTick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// a tick from a clock that has since been re-armed or stopped
	if gen != e.arpGen || !e.arpArmed {
		return
	}
	e.tick()
}

// tick advances every rack's arpeggiator by one beat. Must hold e.mu.
// arpTraceEvery thins the per-tick trace; the clock runs at up to 16 ticks a beat
const arpTraceEvery = 16

func (e *Engine) tick() {
	if e.passThrough != nil {
		return
	}
	for _, r := range e.racks {
		sm := r.arpeggiatorEntry()
		if sm == nil {
			continue
		}
		e.silence(r, sm)

		n := r.lowestNoteDown()
		if n == NoNote {
			continue
		}
		r.ArpeggiatorBeat++
		note := n + 12*(r.ArpeggiatorBeat%3)
		if note > 127 {
			continue
		}
		r.send(gomidi.NoteOn(uint8(sm.Channel), uint8(note), 0x7F))
		sm.LastNote = note
		debug.LogEvery(arpTraceEvery, "arp", "rack %s beat %d note %d", r.Name, r.ArpeggiatorBeat, note)
	}
}

// silence releases the last arpeggiated note of an entry
func (e *Engine) silence(r *Rack, sm *SceneMidi) {
	if sm.LastNote == NoNote {
		return
	}
	r.send(gomidi.NoteOff(uint8(sm.Channel), uint8(sm.LastNote)))
	sm.LastNote = NoNote
}

// anyRackHolding reports whether any rack still holds arpeggiator notes
func (e *Engine) anyRackHolding() bool {
	for _, r := range e.racks {
		if r.AnyNotesDown {
			return true
		}
	}
	return false
}

// arpeggiatorEntry returns the rack's first arpeggiator entry, or nil
func (r *Rack) arpeggiatorEntry() *SceneMidi {
	for i := range r.Scenes {
		if r.Scenes[i].Arpeggiator {
			return &r.Scenes[i]
		}
	}
	return nil
}

// ArpeggiatorInterval is the tick period for a tempo, 15000/tempo ms
func ArpeggiatorInterval(tempo int) time.Duration {
	if tempo <= 0 {
		tempo = DefaultTempo
	}
	ms := 15000 / tempo
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// DefaultTempo is used until a mixer scene provides one
const DefaultTempo = 120

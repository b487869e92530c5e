package router

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"rigrouter/forte"
)

const gigYAML = `
rack:
  mixerScenes:
    - id: 1
      name: Song A|Verse
      tempo: {bpm: 120}
      inputGroups:
        - id: 1
          name: Piano
          gain: 0
          plugins:
            - name: Pianoteq
              midiFilterSet:
                filters:
                  - mapChannels:
                      - to: 1
                        key: {low: 0, high: 59, transpose: 0}
                      - to: 2
                        key: {low: 60, high: 127, transpose: 12}
                        ccs:
                          - {from: "64", to: Disabled}
              onSetScene:
                programChanges:
                  - {channel: 1, bank: 2, program: 5}
        - id: 2
          name: Pads
          gain: -10
          mute: true
          plugins:
            - name: Omnisphere
    - id: 2
      name: Song B
      tempo: {bpm: 60}
      inputGroups:
        - id: 1
          name: Piano
          plugins:
            - name: Pianoteq
        - id: 2
          name: Pads
          plugins:
            - name: Omnisphere
              midiFilterSet:
                virtualFilters:
                  - mapChannels:
                      - to: 3
                        key: {low: 0, high: 127}
        - id: 3
          name: Arpeggiator
          plugins:
            - name: Arp
              midiFilterSet:
                filters:
                  - mapChannels:
                      - to: 1
                        key: {low: 0, high: 127}
    - id: 3
      name: Song C
  setLists:
    active: 0
    lists:
      - name: Friday
        songRefs: [{id: 10}, {id: 11}, {id: 12}]
      - name: Encore
        songRefs: [{id: 12}]
    songs:
      - {id: 10, name: Song A, mixerSceneRefs: [{id: 1}]}
      - {id: 11, name: Song B, mixerSceneRefs: [{id: 2}]}
      - {id: 12, name: Song C, mixerSceneRefs: [{id: 3}]}
`

const (
	gigPath   = "/gigs/friday.yaml"
	emptyPath = "/gigs/empty.yaml"
)

// recorder is an Output that keeps everything sent to it
type recorder struct {
	name   string
	msgs   []gomidi.Message
	closed bool
}

func (r *recorder) Send(msg gomidi.Message) error {
	r.msgs = append(r.msgs, append(gomidi.Message(nil), msg...))
	return nil
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func (r *recorder) reset() {
	r.msgs = nil
}

// screen records every display update
type screen struct {
	lines [][2]string
}

func (s *screen) Print(line1, line2 string) error {
	s.lines = append(s.lines, [2]string{line1, line2})
	return nil
}

func (s *screen) last() [2]string {
	if len(s.lines) == 0 {
		return [2]string{}
	}
	return s.lines[len(s.lines)-1]
}

// manualScheduler only fires when the test says so
type manualScheduler struct {
	armed    bool
	interval time.Duration
	fire     func()
	arms     int
	disarms  int
}

func (s *manualScheduler) Arm(interval time.Duration, fire func()) {
	s.armed = true
	s.interval = interval
	s.fire = fire
	s.arms++
}

func (s *manualScheduler) Disarm() {
	s.armed = false
	s.disarms++
}

func (s *manualScheduler) tick() {
	if s.fire != nil {
		s.fire()
	}
}

type fakePlatform struct {
	shutdowns int
}

func (p *fakePlatform) Shutdown() error {
	p.shutdowns++
	return nil
}

func (p *fakePlatform) HostIdentity() (string, string) {
	return "stage-pc", "10.0.0.5"
}

// rig bundles an engine with its fakes
type rig struct {
	engine    *Engine
	outs      map[string]*recorder
	screen    *screen
	scheduler *manualScheduler
	platform  *fakePlatform
	through   *recorder
}

type rigOption func(*Options)

func withPassThrough(r *recorder) rigOption {
	return func(o *Options) { o.PassThrough = r }
}

func withVolumeFilter() rigOption {
	return func(o *Options) { o.FilterVolumeCC = true }
}

func loadFixture(path string) (*forte.File, error) {
	switch path {
	case gigPath:
		return forte.Parse([]byte(gigYAML), forte.FormatYAML)
	case emptyPath:
		return forte.Parse([]byte("rack: {}\n"), forte.FormatYAML)
	}
	return nil, fmt.Errorf("no fixture for %s", path)
}

func fixtureSets(t *testing.T) []Set {
	t.Helper()
	var sets []Set
	for _, path := range []string{gigPath, emptyPath} {
		doc, err := loadFixture(path)
		if err != nil {
			t.Fatalf("load fixture: %v", err)
		}
		sets = append(sets, SetsOf(path, doc)...)
	}
	return sets
}

func newRig(t *testing.T, options ...rigOption) *rig {
	t.Helper()
	r := &rig{
		outs:      make(map[string]*recorder),
		screen:    &screen{},
		scheduler: &manualScheduler{},
		platform:  &fakePlatform{},
	}
	opts := Options{
		Surface:   r.screen,
		Platform:  r.platform,
		Scheduler: r.scheduler,
		Load:      loadFixture,
		OpenRack: func(name string) (Output, error) {
			out := &recorder{name: name}
			r.outs[name] = out
			return out, nil
		},
	}
	for _, o := range options {
		o(&opts)
	}
	if p, ok := opts.PassThrough.(*recorder); ok {
		r.through = p
	}
	r.engine = NewEngine(fixtureSets(t), opts)
	return r
}

// loaded returns a rig with the first set loaded and output history cleared
func loaded(t *testing.T, options ...rigOption) *rig {
	t.Helper()
	r := newRig(t, options...)
	if err := r.engine.LoadSet(0); err != nil {
		t.Fatalf("LoadSet failed: %v", err)
	}
	r.clear()
	return r
}

func (r *rig) clear() {
	for _, out := range r.outs {
		out.reset()
	}
	if r.through != nil {
		r.through.reset()
	}
}

func (r *rig) send(msg ...byte) {
	r.engine.Process(msg)
}

func (r *rig) out(t *testing.T, name string) *recorder {
	t.Helper()
	out, ok := r.outs[name]
	if !ok {
		t.Fatalf("no output opened for rack %q", name)
	}
	return out
}

func expectMessages(t *testing.T, who string, got []gomidi.Message, want ...[]byte) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s received %d messages %v, expected %d %v", who, len(got), hexAll(got), len(want), want)
	}
	for i := range want {
		if !bytes.Equal(got[i], want[i]) {
			t.Fatalf("%s message %d = % X, expected % X", who, i, []byte(got[i]), want[i])
		}
	}
}

func hexAll(msgs []gomidi.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = fmt.Sprintf("% X", []byte(m))
	}
	return out
}

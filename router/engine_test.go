package router

import (
	"testing"

	"github.com/Southclaws/fault/ftag"

	"rigrouter/forte"
)

func TestLoadSetBuildsRacks(t *testing.T) {
	r := newRig(t)
	if err := r.engine.LoadSet(0); err != nil {
		t.Fatalf("LoadSet failed: %v", err)
	}

	st := r.engine.Status()
	if !st.SetLoaded || st.CurrentSet != 0 || len(st.Songs) != 3 {
		t.Fatalf("status = %+v", st)
	}
	if len(st.Racks) != 2 || st.Racks[0].Name != "Pianoteq" || st.Racks[1].Name != "Omnisphere" {
		t.Fatalf("racks = %+v", st.Racks)
	}
	if st.Racks[0].Disabled || st.Racks[0].Entries != 2 {
		t.Errorf("piano rack = %+v", st.Racks[0])
	}
	// muted group leaves the pads rack disabled with the catch-all entry
	if !st.Racks[1].Disabled || st.Racks[1].Entries != 1 {
		t.Errorf("pads rack = %+v", st.Racks[1])
	}
	if st.Tempo != 120 {
		t.Errorf("tempo = %d, expected 120", st.Tempo)
	}
	if got := r.screen.last(); got != [2]string{"Song A", "Verse"} {
		t.Errorf("display = %q", got)
	}

	expectMessages(t, "piano", r.out(t, "Pianoteq").msgs,
		[]byte{0xB0, 0x07, 100},
		[]byte{0xB1, 0x00, 0x00},
		[]byte{0xB1, 0x20, 0x02},
		[]byte{0xC1, 0x05},
	)
	expectMessages(t, "pads", r.out(t, "Omnisphere").msgs,
		[]byte{0xB0, 0x07, 0x00},
	)
}

func TestLoadSetErrors(t *testing.T) {
	r := newRig(t)
	err := r.engine.LoadSet(99)
	if ftag.Get(err) != ftag.NotFound {
		t.Fatalf("LoadSet(99) tag = %v, expected NotFound", ftag.Get(err))
	}

	e := NewEngine([]Set{{Path: "/gigs/missing.yaml", ShortName: "missing"}}, Options{
		Surface: r.screen,
		Load:    loadFixture,
	})
	if err := e.LoadSet(0); err == nil {
		t.Fatalf("expected load failure")
	}
	if got := r.screen.last(); got != [2]string{"Load failed", "missing"} {
		t.Errorf("display = %q", got)
	}
	if e.Status().SetLoaded {
		t.Errorf("failed load must not mark a set as loaded")
	}
}

func TestLoadEmptySetDisablesRacks(t *testing.T) {
	r := loaded(t)
	if err := r.engine.LoadSet(2); err != nil {
		t.Fatalf("LoadSet failed: %v", err)
	}

	st := r.engine.Status()
	if len(st.Racks) != 2 {
		t.Fatalf("racks must be kept, got %+v", st.Racks)
	}
	for _, rs := range st.Racks {
		if !rs.Disabled || rs.Entries != 0 {
			t.Errorf("rack %s = %+v", rs.Name, rs)
		}
	}
	expectMessages(t, "piano", r.out(t, "Pianoteq").msgs, []byte{0xB0, 0x07, 0x00})
	expectMessages(t, "pads", r.out(t, "Omnisphere").msgs, []byte{0xB0, 0x07, 0x00})

	// no songs: the display falls back to the host identity
	if got := r.screen.last(); got != [2]string{"stage-pc", "IP:10.0.0.5"} {
		t.Errorf("display = %q", got)
	}
}

func TestStartLoadsRunningSet(t *testing.T) {
	r := newRig(t)
	r.engine.Start(gigPath)

	st := r.engine.Status()
	if !st.SetLoaded || st.CurrentSet != 0 {
		t.Fatalf("running set not loaded: %+v", st)
	}
	if got := r.screen.last(); got != [2]string{"Engine Loaded", "Select setlist"} {
		t.Errorf("display = %q", got)
	}

	idle := newRig(t)
	idle.engine.Start("")
	if idle.engine.Status().SetLoaded {
		t.Errorf("nothing should load without a running file")
	}
}

func TestSetNavigationAndLoad(t *testing.T) {
	r := loaded(t)
	old := r.out(t, "Pianoteq")

	r.send(0xB0, CCSetDial, EncoderUp)
	if got := r.screen.last(); got != [2]string{"friday", "Encore"} {
		t.Errorf("display after set dial = %q", got)
	}
	if st := r.engine.Status(); st.CurrentSet != 0 || st.PendingSet != 1 {
		t.Errorf("dial must not load: %+v", st)
	}

	r.send(0xB0, CCSetLoad, 0)
	if r.engine.Status().CurrentSet != 0 {
		t.Errorf("release of load button must not load")
	}

	r.send(0xB0, CCSetLoad, 127)
	st := r.engine.Status()
	if st.CurrentSet != 1 || len(st.Songs) != 1 {
		t.Fatalf("after load status = %+v", st)
	}
	if st.Songs[0].Lines != [2]string{"Song C", " "} {
		t.Errorf("song lines = %q", st.Songs[0].Lines)
	}
	if !old.closed {
		t.Errorf("previous rack outputs must be closed on reload")
	}
}

func TestCloseReleasesPorts(t *testing.T) {
	through := &recorder{name: "through"}
	r := loaded(t, withPassThrough(through))
	if err := r.engine.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	for name, out := range r.outs {
		if !out.closed {
			t.Errorf("rack %s output still open", name)
		}
	}
	if !through.closed {
		t.Errorf("pass-through output still open")
	}
}

func TestUpdatesNotify(t *testing.T) {
	r := loaded(t)
	// drain anything queued by the load
	select {
	case <-r.engine.Updates():
	default:
	}

	r.send(0xB0, CCSongDial, EncoderUp)
	select {
	case <-r.engine.Updates():
	default:
		t.Fatalf("expected an update after navigation")
	}
}

const streamerYAML = `
rack:
  mixerScenes:
    - id: 1
      name: Intro Tape
      inputGroups:
        - id: 1
          name: Streamer
          plugins:
            - name: Wav
              onSetScene:
                programChanges:
                  - {channel: 0, bank: 1, program: 7}
`

func TestProgramReachesRackWithoutFilters(t *testing.T) {
	doc, err := forte.Parse([]byte(streamerYAML), forte.FormatYAML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	outs := make(map[string]*recorder)
	e := NewEngine(SetsOf("/gigs/tape.yaml", doc), Options{
		Scheduler: &manualScheduler{},
		Load:      func(string) (*forte.File, error) { return doc, nil },
		OpenRack: func(name string) (Output, error) {
			outs[name] = &recorder{name: name}
			return outs[name], nil
		},
	})
	if err := e.LoadSet(0); err != nil {
		t.Fatalf("LoadSet failed: %v", err)
	}

	wav, ok := outs["Wav"]
	if !ok {
		t.Fatalf("no output opened for the streamer rack")
	}
	expectMessages(t, "wav", wav.msgs,
		[]byte{0xB0, 0x07, 100},
		[]byte{0xB0, 0x00, 0x00},
		[]byte{0xB0, 0x20, 0x01},
		[]byte{0xC0, 0x07},
	)
	if st := e.Status(); st.Racks[0].Disabled || st.Racks[0].Entries != 1 {
		t.Errorf("streamer rack = %+v", st.Racks[0])
	}
}

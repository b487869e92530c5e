// Package router is the real-time routing engine: it redistributes one
// controller's MIDI to the racks of the current song, drives the controller
// display and runs the arpeggiator.
package router

import (
	"io"
	"strconv"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/charmbracelet/log"

	"rigrouter/forte"
)

// Surface is the controller display
type Surface interface {
	Print(line1, line2 string) error
}

// Platform is the operating system services the engine calls into
type Platform interface {
	Shutdown() error
	HostIdentity() (host, ip string)
}

// RackOpener opens the output port of a rack. It may return a nil Output for
// racks that have no port of their own.
type RackOpener func(rackName string) (Output, error)

// Loader reads a performance document
type Loader func(path string) (*forte.File, error)

// Options configures an Engine. Nil collaborators get no-op defaults.
type Options struct {
	Surface   Surface
	Platform  Platform
	Scheduler Scheduler
	OpenRack  RackOpener
	Load      Loader

	// PassThrough switches the engine to pass-through mode: navigation is
	// forwarded as program changes and everything else is sent verbatim.
	PassThrough Output

	// FilterVolumeCC swallows CC 7 from the controller, leaving rack volume
	// to the engine.
	FilterVolumeCC bool

	Logger *log.Logger
}

// Engine owns the racks, the navigation state and the display cache. One
// mutex guards all of it; both the MIDI input callback and the arpeggiator
// ticker take it.
type Engine struct {
	mu sync.Mutex

	surface        Surface
	platform       Platform
	scheduler      Scheduler
	openRack       RackOpener
	load           Loader
	passThrough    Output
	filterVolumeCC bool
	log            *log.Logger

	sets    []Set
	setNav  Navigator
	songNav Navigator

	doc   *forte.File
	perfs []forte.Performance
	songs []SongInfo
	racks []*Rack

	tempo           int
	globalVolume    float64
	shutdownPresses int
	arpGen          uint64
	arpArmed        bool
	display         [2]string

	updates chan struct{}
}

// NewEngine creates an engine over the given set catalogue
func NewEngine(sets []Set, opts Options) *Engine {
	e := &Engine{
		surface:        opts.Surface,
		platform:       opts.Platform,
		scheduler:      opts.Scheduler,
		openRack:       opts.OpenRack,
		load:           opts.Load,
		passThrough:    opts.PassThrough,
		filterVolumeCC: opts.FilterVolumeCC,
		log:            opts.Logger,
		sets:           sets,
		tempo:          DefaultTempo,
		globalVolume:   1,
		updates:        make(chan struct{}, 1),
	}
	if e.surface == nil {
		e.surface = nopSurface{}
	}
	if e.platform == nil {
		e.platform = nopPlatform{}
	}
	if e.scheduler == nil {
		e.scheduler = NewTickerScheduler()
	}
	if e.openRack == nil {
		e.openRack = func(string) (Output, error) { return nil, nil }
	}
	if e.load == nil {
		e.load = forte.Load
	}
	if e.log == nil {
		e.log = log.New(io.Discard)
	}
	e.setNav.Reset(len(sets))
	return e
}

// Start loads the set whose file is already running in the host (if any),
// then greets the operator.
func (e *Engine) Start(runningPath string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if runningPath != "" {
		for i, s := range e.sets {
			if s.Path == runningPath && s.SetListIndex == s.DefaultSetListIndex {
				if err := e.loadSet(i); err != nil {
					e.log.Error("load running set", "path", runningPath, "err", err)
				}
				break
			}
		}
	}
	e.print("Engine Loaded", "Select setlist")
}

// LoadSet loads the set at index and routes its first song
func (e *Engine) LoadSet(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadSet(index)
}

func (e *Engine) loadSet(index int) error {
	if index < 0 || index >= len(e.sets) {
		return fault.New("no such set", fmsg.With("set "+strconv.Itoa(index)), ftag.With(ftag.NotFound))
	}
	set := e.sets[index]
	e.print("Loading", set.ShortName)

	doc, err := e.load(set.Path)
	if err != nil {
		e.print("Load failed", set.ShortName)
		return fault.Wrap(err, fmsg.With("load set "+set.ShortName))
	}
	if set.SetListIndex >= 0 && set.SetListIndex < len(doc.Rack.SetLists.SetLists) {
		doc.Rack.SetLists.Active = set.SetListIndex
	}

	e.disarmArpeggiator()
	e.setNav.Jump(index)
	e.doc = doc
	e.perfs = doc.Resolve(doc.Rack.SetLists.Active)
	e.songs = SongInfos(e.perfs)
	e.songNav.Reset(len(e.songs))

	e.log.Info("set loaded", "file", set.ShortName, "setlist", set.SetListName, "songs", len(e.songs))

	if len(doc.Rack.MixerScenes) == 0 {
		// nothing to route: keep the ports, silence the racks
		for _, r := range e.racks {
			r.resetRouting()
			r.NotesDown = [128]bool{}
			r.AnyNotesDown = false
		}
		if e.passThrough == nil {
			e.applyVolumes()
		}
		e.redraw()
		e.notify()
		return nil
	}

	e.closeRacks()
	e.racks = e.buildRacks(&doc.Rack.MixerScenes[0])
	e.updateRouting()
	return nil
}

// buildRacks creates one rack per input group of the first mixer scene
func (e *Engine) buildRacks(scene *forte.MixerScene) []*Rack {
	racks := make([]*Rack, 0, len(scene.InputGroups))
	for i := range scene.InputGroups {
		g := &scene.InputGroups[i]
		name := ""
		if p := g.FirstPlugin(); p != nil {
			name = p.Name
		}
		out, err := e.openRack(name)
		if err != nil {
			e.log.Warn("open rack output", "rack", name, "err", err)
			out = nil
		}
		racks = append(racks, NewRack(g.ID, name, g.Name, out))
	}
	return racks
}

func (e *Engine) closeRacks() {
	for _, r := range e.racks {
		if err := r.Close(); err != nil {
			e.log.Warn("close rack output", "rack", r.Name, "err", err)
		}
	}
	e.racks = nil
}

// Close stops the arpeggiator and releases every port the engine owns
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disarmArpeggiator()
	e.closeRacks()
	if e.passThrough != nil {
		err := e.passThrough.Close()
		e.passThrough = nil
		return err
	}
	return nil
}

// print sends two lines to the display. Two blank lines show the host name
// and address instead.
func (e *Engine) print(line1, line2 string) {
	if line1 == " " && line2 == " " {
		host, ip := e.platform.HostIdentity()
		line1 = host
		line2 = ip
		if ip != "" && len(ip) <= DisplayWidth-3 {
			line2 = "IP:" + ip
		}
	}
	line1, line2 = FitLines(line1, line2)
	e.display = [2]string{line1, line2}
	if err := e.surface.Print(line1, line2); err != nil {
		e.log.Debug("display", "err", err)
	}
}

// redraw shows the pending song, or the host identity when there is none
func (e *Engine) redraw() {
	if len(e.songs) == 0 {
		e.print(" ", " ")
		return
	}
	song := e.songs[e.songNav.Pending()]
	e.print(song.Lines[0], song.Lines[1])
}

// notify wakes whoever watches Updates without blocking
func (e *Engine) notify() {
	select {
	case e.updates <- struct{}{}:
	default:
	}
}

// Updates signals state changes (navigation, routing, held notes)
func (e *Engine) Updates() <-chan struct{} {
	return e.updates
}

// RackStatus is a read-only view of one rack
type RackStatus struct {
	Name         string
	Group        string
	Disabled     bool
	Volume       float64
	Entries      int
	HeldNotes    int
	Arpeggiating bool
}

// Status is a read-only view of the engine
type Status struct {
	Sets        []Set
	CurrentSet  int
	PendingSet  int
	SetLoaded   bool
	Songs       []SongInfo
	CurrentSong int
	PendingSong int
	SongState   NavState
	Display     [2]string
	Tempo       int
	Volume      float64
	PassThrough bool
	Racks       []RackStatus
}

// Status snapshots the engine state
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Status{
		Sets:        e.sets,
		CurrentSet:  e.setNav.Current(),
		PendingSet:  e.setNav.Pending(),
		SetLoaded:   e.doc != nil,
		Songs:       append([]SongInfo(nil), e.songs...),
		CurrentSong: e.songNav.Current(),
		PendingSong: e.songNav.Pending(),
		SongState:   e.songNav.State(),
		Display:     e.display,
		Tempo:       e.tempo,
		Volume:      e.globalVolume,
		PassThrough: e.passThrough != nil,
	}
	for _, r := range e.racks {
		held := r.heldCount()
		s.Racks = append(s.Racks, RackStatus{
			Name:         r.Name,
			Group:        r.GroupName,
			Disabled:     r.Disabled,
			Volume:       r.Volume,
			Entries:      len(r.Scenes),
			HeldNotes:    held,
			Arpeggiating: e.arpArmed && held > 0,
		})
	}
	return s
}

type nopSurface struct{}

func (nopSurface) Print(string, string) error { return nil }

type nopPlatform struct{}

func (nopPlatform) Shutdown() error                { return nil }
func (nopPlatform) HostIdentity() (string, string) { return "", "" }

package router

import (
	"math"
	"strconv"

	gomidi "gitlab.com/gomidi/midi/v2"

	"rigrouter/debug"
	"rigrouter/forte"
)

// UpdateRouting rebuilds every rack's routing for the current song
func (e *Engine) UpdateRouting() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.updateRouting()
}

// updateRouting derives the SceneMidi lists, CC filters and volumes of all
// racks from the current song's mixer scene. Must hold e.mu.
func (e *Engine) updateRouting() {
	if e.doc == nil || len(e.doc.Rack.MixerScenes) == 0 || len(e.perfs) == 0 {
		return
	}

	for _, r := range e.racks {
		if sm := r.arpeggiatorEntry(); sm != nil && e.passThrough == nil {
			e.silence(r, sm)
		}
		r.resetRouting()
		r.NotesDown = [128]bool{}
		r.AnyNotesDown = false
	}

	current := e.songNav.Current()
	scene := e.perfs[current].Scene
	e.tempo = int(scene.Tempo.BPM)

	song := e.songs[current]
	e.log.Info("song", "index", current, "title", song.Lines[0], "part", song.Lines[1], "tempo", e.tempo)
	e.print(song.Lines[0], song.Lines[1])

	programs := make([][]forte.ProgramChange, len(e.racks))
	for ri, r := range e.racks {
		for i := range scene.InputGroups {
			g := &scene.InputGroups[i]
			if g.Mute {
				continue
			}
			arp := g.Name == forte.ArpeggiatorGroup
			if g.Name != r.GroupName && !arp {
				continue
			}
			programs[ri] = append(programs[ri], applyGroup(r, g, arp)...)
		}
	}
	for ri, r := range e.racks {
		if len(r.Scenes) == 0 {
			r.Scenes = append(r.Scenes, CatchAll())
		}
		// after the catch-all, so a rack without filters still gets its program
		backfillPrograms(r, programs[ri])
		debug.Log("route", "rack %s disabled=%v volume=%.2f entries=%d", r.Name, r.Disabled, r.Volume, len(r.Scenes))
	}

	if e.passThrough != nil {
		return
	}
	e.applyVolumes()
	e.disarmArpeggiator()
	e.sendPrograms()
}

// applyGroup merges one input group into a rack and returns the group's
// on-set program changes
func applyGroup(r *Rack, g *forte.InputGroup, arp bool) []forte.ProgramChange {
	r.Disabled = false
	r.Volume = math.Pow(10, g.Gain/10)

	p := g.FirstPlugin()
	if p == nil {
		return nil
	}

	if fs := p.MIDIFilterSet.Filters; len(fs) > 0 && !fs[0].Disabled {
		for _, mc := range fs[0].MapChannels {
			ch := mc.To - 1
			if arp {
				ch = ArpeggiatorChannel
			} else if ch < 0 || ch > 15 {
				continue
			}
			r.Scenes = append(r.Scenes, sceneMidi(mc, ch, false))
			applyCCMaps(r, mc.CCs)
		}
	}

	if vfs := p.MIDIFilterSet.VirtualFilters; len(vfs) > 0 && !vfs[0].Disabled {
		for _, mc := range vfs[0].MapChannels {
			ch := mc.To - 1
			if ch < 0 || ch > 15 {
				continue
			}
			r.Scenes = append(r.Scenes, sceneMidi(mc, ch, true))
			applyCCMaps(r, mc.CCs)
		}
	}

	return p.OnSetScene.ProgramChanges
}

// backfillPrograms gives each program change to the first entry on its channel
func backfillPrograms(r *Rack, pcs []forte.ProgramChange) {
	for _, pc := range pcs {
		for i := range r.Scenes {
			if r.Scenes[i].Channel == pc.Channel {
				r.Scenes[i].Program = pc.Program
				r.Scenes[i].Bank = pc.Bank
				break
			}
		}
	}
}

func sceneMidi(mc forte.MapChannel, channel int, arp bool) SceneMidi {
	return SceneMidi{
		Channel:     channel,
		Transpose:   mc.Key.Transpose,
		Low:         mc.Key.Low,
		High:        mc.Key.High,
		Program:     NoNote,
		Arpeggiator: arp,
		LastNote:    NoNote,
	}
}

// applyCCMaps updates the rack's CC filter from remap directives.
// "All" -> "Disabled" blocks everything; n -> "Disabled" blocks n; any other
// target unblocks n.
func applyCCMaps(r *Rack, maps []forte.CCMap) {
	for _, m := range maps {
		if m.From == "All" {
			if m.To == "Disabled" {
				for i := range r.CCFilter {
					r.CCFilter[i] = true
				}
			}
			continue
		}
		from, err := strconv.Atoi(m.From)
		if err != nil || from < 0 || from > 127 {
			continue
		}
		r.CCFilter[from] = m.To == "Disabled"
	}
}

// applyVolumes sends every rack its CC 7 level. Must hold e.mu.
func (e *Engine) applyVolumes() {
	for _, r := range e.racks {
		if r.Out == nil {
			continue
		}
		r.send(gomidi.ControlChange(0, CCVolume, volumeValue(r.Volume, e.globalVolume, r.Disabled)))
	}
}

func volumeValue(volume, global float64, disabled bool) uint8 {
	if disabled {
		return 0
	}
	v := volume * global * 100
	if v > 127 {
		v = 127
	}
	if v < 1 {
		v = 1
	}
	return uint8(v)
}

// sendPrograms selects bank and program for every entry that names one
func (e *Engine) sendPrograms() {
	for _, r := range e.racks {
		for _, sm := range r.Scenes {
			if sm.Program < 0 || sm.Channel < 0 || sm.Channel > 15 {
				continue
			}
			ch := uint8(sm.Channel)
			r.send(gomidi.ControlChange(ch, CCBankMSB, 0))
			r.send(gomidi.ControlChange(ch, CCBankLSB, uint8(sm.Bank&0x7F)))
			r.send(gomidi.ProgramChange(ch, uint8(sm.Program&0x7F)))
		}
	}
}

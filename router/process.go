package router

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Process handles one message from the controller. It is called from the
// MIDI input callback and holds the engine lock for the whole decision.
func (e *Engine) Process(msg []byte) {
	if len(msg) < 2 || msg[0] >= 0xF0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.notify()

	if e.passThrough == nil {
		for _, r := range e.racks {
			r.refreshNotesDown()
		}
	}

	d := decode(msg)
	e.guardShutdown(d)

	if d.status == NoteOn && d.data2 == 0 {
		d.status = NoteOff
	}

	switch {
	case d.isCC(CCBankMSB), d.isCC(CCBankLSB):
		// bank selects only come from the engine
	case d.status == ChannelPressure, d.status == PolyKeyPressure:
		// aftertouch is not routed
	case d.isCC(CCVolume) && e.filterVolumeCC:
		// rack volume is set by applyVolumes
	case d.isCC(CCGlobalVolume) && e.passThrough == nil:
		e.globalVolume = float64(d.data2) / 127
		e.applyVolumes()
		e.log.Info("volume", "percent", int(e.globalVolume*100))
	case d.status == ProgramChange:
		if e.songNav.Len() > 0 {
			e.songNav.Jump(d.data1 % e.songNav.Len())
		}
		if e.passThrough != nil {
			e.forward(d)
			e.redraw()
		} else {
			e.updateRouting()
		}
	case d.isCC(CCSongBack), d.isCC(CCSongForward):
		if d.data2 == 0 {
			e.redraw()
			break
		}
		delta := 1
		if d.data1 == CCSongBack {
			delta = -1
		}
		e.songNav.Step(delta)
		e.commitSong()
	case d.isCC(CCSongSelect):
		if d.data2 == 0 {
			e.redraw()
			break
		}
		e.songNav.Select()
		e.commitSong()
	case d.isCC(CCSongDial) && d.data2 == EncoderDown:
		e.songNav.Dial(-1)
		e.redraw()
	case d.isCC(CCSongDial) && d.data2 == EncoderUp:
		e.songNav.Dial(1)
		e.redraw()
	case d.isCC(CCSetLoad):
		if d.data2 == 0 {
			e.redraw()
			break
		}
		if err := e.loadSet(e.setNav.Pending()); err != nil {
			e.log.Error("load set", "err", err)
		}
	case d.isCC(CCSetDial) && d.data2 == EncoderDown:
		e.dialSet(-1)
	case d.isCC(CCSetDial) && d.data2 == EncoderUp:
		e.dialSet(1)
	case e.passThrough == nil && (d.status == NoteOn || d.status == NoteOff):
		e.routeNote(d)
	case e.passThrough != nil:
		e.forward(d)
	default:
		e.broadcast(d)
	}
}

// guardShutdown implements the two-press power off on CC 117
func (e *Engine) guardShutdown(d decoded) {
	if !d.isCC(CCPowerOff) {
		if e.shutdownPresses != 0 {
			e.redraw()
		}
		e.shutdownPresses = 0
		return
	}

	if d.data2 == 127 {
		e.shutdownPresses++
	}
	switch {
	case e.shutdownPresses == 1:
		e.print("Are you sure?", " ")
	case e.shutdownPresses > 1:
		e.print("Shutting Down", " ")
		e.log.Warn("power off requested from controller")
		if err := e.platform.Shutdown(); err != nil {
			e.log.Error("shutdown", "err", err)
		}
	}
}

// commitSong announces a committed song change and rebuilds routing
func (e *Engine) commitSong() {
	if e.passThrough != nil {
		e.sendPassThrough(gomidi.ProgramChange(0, uint8(e.songNav.Current())))
	}
	e.updateRouting()
}

func (e *Engine) dialSet(delta int) {
	e.setNav.Dial(delta)
	if len(e.sets) == 0 {
		return
	}
	set := e.sets[e.setNav.Pending()]
	e.print(set.ShortName, set.SetListName)
}

// routeNote sends a key to every entry whose range contains it
func (e *Engine) routeNote(d decoded) {
	for _, r := range e.racks {
		for i := range r.Scenes {
			sm := &r.Scenes[i]
			if sm.Arpeggiator || !sm.Contains(d.data1) {
				continue
			}
			note := d.data1 + sm.Transpose
			if note < 0 || note > 127 {
				continue
			}
			if sm.Channel == ArpeggiatorChannel {
				e.holdNote(r, note, d.status == NoteOn)
				continue
			}
			r.send(gomidi.Message{byte(d.status | sm.Channel), byte(note), byte(d.data2)})
		}
	}
}

// holdNote updates a rack's held-note table and starts or stops the clock
func (e *Engine) holdNote(r *Rack, note int, on bool) {
	if on && !r.AnyNotesDown {
		r.ArpeggiatorBeat = -1
		if !e.arpArmed {
			e.armArpeggiator()
		}
	}
	r.NotesDown[note] = on
	if on {
		r.AnyNotesDown = true
		return
	}
	if !r.refreshNotesDown() {
		if sm := r.arpeggiatorEntry(); sm != nil {
			e.silence(r, sm)
		}
		if !e.anyRackHolding() {
			e.disarmArpeggiator()
		}
	}
}

// forward sends the message verbatim to the pass-through output
func (e *Engine) forward(d decoded) {
	e.sendPassThrough(d.bytes())
}

func (e *Engine) sendPassThrough(msg gomidi.Message) {
	if err := e.passThrough.Send(msg); err != nil {
		e.log.Debug("pass-through send", "err", err)
	}
}

// broadcast sends the message to every rack, honouring CC filters
func (e *Engine) broadcast(d decoded) {
	msg := gomidi.Message{byte(d.status | d.channel), byte(d.data1), byte(d.data2)}
	for _, r := range e.racks {
		if r.Out == nil {
			continue
		}
		if d.status == ControlChange && r.CCFilter[d.data1] {
			continue
		}
		r.send(msg)
	}
}

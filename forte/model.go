// Package forte reads performance documents: the rack, mixer scene and set list
// tree exported by the Forte host, or the equivalent YAML rig description.
package forte

// ArpeggiatorGroup is the input group name that feeds every rack's arpeggiator.
const ArpeggiatorGroup = "Arpeggiator"

// SaveStateScene is the mixer scene the host writes for its own bookkeeping.
const SaveStateScene = "SaveState"

// File is a whole performance document
type File struct {
	Rack Rack `xml:"Rack" yaml:"rack"`
}

type Rack struct {
	MixerScenes []MixerScene `xml:"MixerScene" yaml:"mixerScenes"`
	SetLists    SetLists     `xml:"Setlists" yaml:"setLists"`
}

// SetLists holds the set lists and the song pool they reference
type SetLists struct {
	Active   int       `xml:"Active,attr" yaml:"active"`
	SetLists []SetList `xml:"Setlist" yaml:"lists"`
	Songs    []Song    `xml:"Song" yaml:"songs"`
}

type SetList struct {
	Name     string `xml:"Name,attr" yaml:"name"`
	SongRefs []Ref  `xml:"SongRef" yaml:"songRefs"`
}

// Ref points at a Song or MixerScene by ID
type Ref struct {
	ID int `xml:"ID,attr" yaml:"id"`
}

type Song struct {
	ID             int    `xml:"ID,attr" yaml:"id"`
	Name           string `xml:"Name,attr" yaml:"name"`
	MixerSceneRefs []Ref  `xml:"MixerSceneRef" yaml:"mixerSceneRefs"`
}

// MixerScene is the routing configuration for one song
type MixerScene struct {
	ID          int          `xml:"ID,attr" yaml:"id"`
	Name        string       `xml:"Name,attr" yaml:"name"`
	Tempo       Tempo        `xml:"Mixer>Tempo" yaml:"tempo"`
	InputGroups []InputGroup `xml:"Mixer>Group>InputGroup" yaml:"inputGroups"`
}

type Tempo struct {
	BPM float64 `xml:"BPM,attr" yaml:"bpm"`
}

// InputGroup is one mixer strip. Its name ties it to a rack.
type InputGroup struct {
	ID      int      `xml:"ID,attr" yaml:"id"`
	Name    string   `xml:"Name,attr" yaml:"name"`
	Gain    float64  `xml:"Gain,attr" yaml:"gain"` // dB
	Mute    bool     `xml:"Mute,attr" yaml:"mute"`
	Plugins []Plugin `xml:"PluginChain>PlugIn" yaml:"plugins"`
}

type Plugin struct {
	Name          string        `xml:"Name,attr" yaml:"name"`
	MIDIFilterSet MIDIFilterSet `xml:"MIDIFilterSet" yaml:"midiFilterSet"`
	OnSetScene    OnSetScene    `xml:"OnSetScene" yaml:"onSetScene"`
}

// MIDIFilterSet holds the keyboard filters and the virtual (arpeggiator) filters.
// Only the first of each is used.
type MIDIFilterSet struct {
	Filters        []MIDIFilter `xml:"MIDIFilter" yaml:"filters"`
	VirtualFilters []MIDIFilter `xml:"vMIDIFilter" yaml:"virtualFilters"`
}

type MIDIFilter struct {
	Disabled    bool         `xml:"Disabled,attr" yaml:"disabled"`
	MapChannels []MapChannel `xml:"MapChannel" yaml:"mapChannels"`
}

// MapChannel maps a key zone to a destination channel (1-based)
type MapChannel struct {
	To  int     `xml:"To,attr" yaml:"to"`
	Key Key     `xml:"Key" yaml:"key"`
	CCs []CCMap `xml:"CC" yaml:"ccs"`
}

type Key struct {
	Low       int `xml:"Low,attr" yaml:"low"`
	High      int `xml:"High,attr" yaml:"high"`
	Transpose int `xml:"Transpose,attr" yaml:"transpose"`
}

// CCMap is a controller remap directive. From is a CC number or "All",
// To is a CC number or "Disabled".
type CCMap struct {
	From string `xml:"From,attr" yaml:"from"`
	To   string `xml:"To,attr" yaml:"to"`
}

type OnSetScene struct {
	ProgramChanges []ProgramChange `xml:"ProgramChange" yaml:"programChanges"`
}

// ProgramChange is sent to a rack when its scene becomes active
type ProgramChange struct {
	Channel int `xml:"Channel,attr" yaml:"channel"`
	Bank    int `xml:"Bank,attr" yaml:"bank"`
	Program int `xml:"Program,attr" yaml:"program"`
}

// FirstPlugin returns the group's first plug-in, or nil
func (g *InputGroup) FirstPlugin() *Plugin {
	if len(g.Plugins) == 0 {
		return nil
	}
	return &g.Plugins[0]
}

// FindSong returns the song with the given ID, or nil
func (s *SetLists) FindSong(id int) *Song {
	for i := range s.Songs {
		if s.Songs[i].ID == id {
			return &s.Songs[i]
		}
	}
	return nil
}

// FindMixerScene returns the scene with the given ID, or nil
func (r *Rack) FindMixerScene(id int) *MixerScene {
	for i := range r.MixerScenes {
		if r.MixerScenes[i].ID == id {
			return &r.MixerScenes[i]
		}
	}
	return nil
}

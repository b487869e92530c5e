package forte

import "strings"

// Performance is one playable entry of a set list: a song paired with one of
// its mixer scenes. A song referencing several scenes yields several entries.
type Performance struct {
	SongName string
	Scene    *MixerScene
}

// Resolve flattens the set list at index into performances, in play order.
// References to missing songs or scenes are dropped.
func (f *File) Resolve(index int) []Performance {
	sl := &f.Rack.SetLists
	if index < 0 || index >= len(sl.SetLists) {
		return nil
	}

	var out []Performance
	for _, songRef := range sl.SetLists[index].SongRefs {
		song := sl.FindSong(songRef.ID)
		if song == nil {
			continue
		}
		for _, sceneRef := range song.MixerSceneRefs {
			scene := f.Rack.FindMixerScene(sceneRef.ID)
			if scene == nil {
				continue
			}
			out = append(out, Performance{SongName: song.Name, Scene: scene})
		}
	}
	return out
}

// Lines returns the raw two display lines: the song name, and the scene name
// after its first '|'. The second line is blank when it repeats the first.
func (p Performance) Lines() (string, string) {
	line1 := p.SongName
	line2 := ""
	if p.Scene != nil {
		line2 = p.Scene.Name
		if i := strings.Index(line2, "|"); i >= 0 {
			line2 = line2[i+1:]
		}
		line2 = strings.TrimRight(line2, " ")
	}
	if line1 == line2 {
		line2 = ""
	}
	return line1, line2
}

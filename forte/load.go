package forte

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a performance document
type Format int

const (
	FormatUnknown Format = iota
	FormatXML
	FormatYAML
)

// Extensions lists the file extensions the loader understands
var Extensions = []string{".rcf", ".xml", ".yaml", ".yml"}

// FormatOf picks the document format from a file name
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rcf", ".xml":
		return FormatXML
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatUnknown
}

// Load reads and normalises the performance document at path
func Load(path string) (*File, error) {
	format := FormatOf(path)
	if format == FormatUnknown {
		return nil, fault.New("unsupported performance file",
			fmsg.WithDesc("unknown extension "+filepath.Ext(path), "Performance files must be .rcf, .xml, .yaml or .yml"),
			ftag.With(ftag.InvalidArgument))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		kind := ftag.Internal
		if os.IsNotExist(err) {
			kind = ftag.NotFound
		}
		return nil, fault.Wrap(err, fmsg.With("read performance file"), ftag.With(kind))
	}

	f, err := Parse(data, format)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With(filepath.Base(path)))
	}
	return f, nil
}

// Parse decodes a document and normalises it
func Parse(data []byte, format Format) (*File, error) {
	f := &File{}
	switch format {
	case FormatXML:
		dec := xml.NewDecoder(bytes.NewReader(data))
		dec.Strict = false
		if err := dec.Decode(f); err != nil {
			return nil, fault.Wrap(err, fmsg.With("decode rcf document"), ftag.With(ftag.InvalidArgument))
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, f); err != nil {
			return nil, fault.Wrap(err, fmsg.With("decode yaml document"), ftag.With(ftag.InvalidArgument))
		}
	default:
		return nil, fault.New("unknown document format", ftag.With(ftag.InvalidArgument))
	}

	f.EnsureOneSetList()
	return f, nil
}

// EnsureOneSetList synthesises a set list with one song per mixer scene when the
// document has none, and clamps the active set list index.
func (f *File) EnsureOneSetList() {
	sl := &f.Rack.SetLists
	if len(sl.SetLists) == 0 {
		list := SetList{Name: " "}
		for i, scene := range f.Rack.MixerScenes {
			if scene.Name == SaveStateScene {
				continue
			}
			song := Song{
				ID:             i*1000 + 1000,
				Name:           scene.Name,
				MixerSceneRefs: []Ref{{ID: scene.ID}},
			}
			sl.Songs = append(sl.Songs, song)
			list.SongRefs = append(list.SongRefs, Ref{ID: song.ID})
		}
		sl.SetLists = append(sl.SetLists, list)
	}
	if sl.Active < 0 || sl.Active >= len(sl.SetLists) {
		sl.Active = 0
	}
}

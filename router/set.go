package router

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"rigrouter/forte"
)

// DisplayWidth is the number of characters per LCD line
const DisplayWidth = 16

// Set is one set list of one performance file
type Set struct {
	Path                string
	ShortName           string // file name without extension
	SetListIndex        int
	DefaultSetListIndex int
	SetListName         string
}

// SongInfo is a display-ready rendering of one playable song
type SongInfo struct {
	Lines [2]string
}

// SongInfos renders the performances of a set list for the display
func SongInfos(perfs []forte.Performance) []SongInfo {
	out := make([]SongInfo, 0, len(perfs))
	for _, p := range perfs {
		line1, line2 := p.Lines()
		line1, line2 = FitLines(line1, line2)
		out = append(out, SongInfo{Lines: [2]string{line1, line2}})
	}
	return out
}

func toASCII(r rune) rune {
	if r < 0x20 || r > 0x7E {
		return '?'
	}
	return r
}

// ASCII strips accents from s and replaces whatever is left outside 7-bit
// ASCII with '?', so the display sysex never carries a byte with the top bit set
func ASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), runes.Map(toASCII))
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.Map(toASCII, s)
	}
	return out
}

// FitLines makes two lines fit the display. Text is folded to ASCII first.
// When the second line is free the trailing words of the first wrap onto it;
// then spaces are squeezed out; then both lines are truncated. Empty lines
// become a single space.
func FitLines(line1, line2 string) (string, string) {
	line1, line2 = ASCII(line1), ASCII(line2)
	line2Free := line2 == ""
	for line2Free && len(line1) > DisplayWidth {
		i := strings.LastIndex(line1, " ")
		if i <= 0 {
			break
		}
		line2 = line1[i+1:] + " " + line2
		line1 = line1[:i]
	}
	line2 = strings.TrimRight(line2, " ")

	if len(line1) > DisplayWidth || len(line2) > DisplayWidth {
		line1 = strings.ReplaceAll(line1, " ", "")
		if line2Free {
			line2 = strings.ReplaceAll(line2, " ", "")
		}
	}

	if len(line1) > DisplayWidth {
		line1 = line1[:DisplayWidth]
	}
	if len(line2) > DisplayWidth {
		line2 = line2[:DisplayWidth]
	}
	if line1 == "" {
		line1 = " "
	}
	if line2 == "" {
		line2 = " "
	}
	return line1, line2
}

package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderLCDPadsLines(t *testing.T) {
	out := RenderLCD([2]string{"Song A", "Verse"}, lipgloss.Color("#ffffff"), lipgloss.Color("#000000"))
	if !strings.Contains(out, "Song A") || !strings.Contains(out, "Verse") {
		t.Fatalf("LCD missing text:\n%s", out)
	}
	if got := lipgloss.Height(out); got != 4 {
		t.Errorf("height = %d, expected two lines plus border", got)
	}
	if got := lipgloss.Width(out); got != LCDWidth+4 {
		t.Errorf("width = %d, expected %d", got, LCDWidth+4)
	}
}

func TestPadLine(t *testing.T) {
	if got := padLine("abc"); len(got) != LCDWidth || !strings.HasPrefix(got, "abc") {
		t.Errorf("padLine(abc) = %q", got)
	}
	if got := padLine("this line is much too long"); got != "this line is muc" {
		t.Errorf("padLine truncation = %q", got)
	}
}

func TestRenderMeter(t *testing.T) {
	c := lipgloss.Color("#ffffff")
	if got := lipgloss.Width(RenderMeter(0.5, 10, c, c)); got != 10 {
		t.Errorf("meter width = %d", got)
	}
	if got := RenderMeter(2, 4, c, c); strings.Contains(got, "░") {
		t.Errorf("overfull meter = %q", got)
	}
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{
		Title: "Songs",
		Keys:  []KeyBinding{{"enter", "select"}},
	}})
	if out != "Songs\n  enter        select" {
		t.Errorf("RenderKeyHelp = %q", out)
	}
}

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LCDWidth matches the controller's two 16 character lines
const LCDWidth = 16

// RenderLCD draws the two display lines inside a border, padded to the LCD width
func RenderLCD(lines [2]string, fg, border lipgloss.Color) string {
	style := lipgloss.NewStyle().
		Foreground(fg).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	return style.Render(padLine(lines[0]) + "\n" + padLine(lines[1]))
}

func padLine(s string) string {
	if len(s) > LCDWidth {
		s = s[:LCDWidth]
	}
	return s + strings.Repeat(" ", LCDWidth-len(s))
}

// RenderDot renders a single colored symbol
func RenderDot(symbol rune, color lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(color).Render(string(symbol))
}

// RenderMeter renders a level between 0 and 1 as a bar of width cells
func RenderMeter(level float64, width int, on, off lipgloss.Color) string {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	filled := int(level*float64(width) + 0.5)
	return lipgloss.NewStyle().Foreground(on).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(off).Render(strings.Repeat("░", width-filled))
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rigrouter/router"
	"rigrouter/theme"
	"rigrouter/widgets"
)

// Model mirrors the engine state and lets the keyboard stand in for the
// controller's navigation buttons
type Model struct {
	Engine   *router.Engine
	Theme    *theme.Theme
	quitting bool
	showHelp bool
}

type UpdateMsg struct{}

func NewModel(engine *router.Engine, th *theme.Theme) Model {
	return Model{
		Engine: engine,
		Theme:  th,
	}
}

func ListenForUpdates(engine *router.Engine) tea.Cmd {
	return func() tea.Msg {
		<-engine.Updates()
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Engine)
}

// keyMessages maps keys to the control changes the controller would send
var keyMessages = map[string][]byte{
	"left":  {0xB0, router.CCSongDial, router.EncoderDown},
	"right": {0xB0, router.CCSongDial, router.EncoderUp},
	"enter": {0xB0, router.CCSongSelect, 127},
	",":     {0xB0, router.CCSongBack, 127},
	".":     {0xB0, router.CCSongForward, 127},
	"up":    {0xB0, router.CCSetDial, router.EncoderUp},
	"down":  {0xB0, router.CCSetDial, router.EncoderDown},
	"l":     {0xB0, router.CCSetLoad, 127},
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "?":
			m.showHelp = !m.showHelp

		default:
			if cc, ok := keyMessages[key]; ok {
				m.Engine.Process(cc)
			}
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Engine)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Engine.Status()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	mode := "ROUTER"
	if st.PassThrough {
		mode = "THRU"
	}
	setName := "no set"
	if st.SetLoaded && st.CurrentSet < len(st.Sets) {
		s := st.Sets[st.CurrentSet]
		setName = s.ShortName + " / " + s.SetListName
	}
	header := headerStyle.Render(fmt.Sprintf("rigrouter  %s  %3dbpm  vol:%3.0f%%  %s",
		mode, st.Tempo, st.Volume*100, setName))

	lcd := widgets.RenderLCD(st.Display, m.Theme.Success(), m.Theme.Muted())

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, lcd, "  ", m.songList(st)))
	out.WriteString("\n\n")
	out.WriteString(m.rackTable(st))
	out.WriteString("\n")
	if pending := m.pendingSet(st); pending != "" {
		out.WriteString(dimStyle.Render(pending))
		out.WriteString("\n")
	}
	out.WriteString("\n")
	if m.showHelp {
		out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(helpSections)))
	} else {
		out.WriteString(dimStyle.Render("←/→:dial  enter:select  ,/.:step  ↑/↓:set  l:load  ?:help  q:quit"))
	}

	return out.String()
}

func (m Model) songList(st router.Status) string {
	if len(st.Songs) == 0 {
		return lipgloss.NewStyle().Foreground(m.Theme.Muted()).Render("no songs")
	}
	sym := m.Theme.Symbols
	var lines []string
	for i, s := range st.Songs {
		marker, color := sym.Blank, m.Theme.FG()
		switch {
		case i == st.CurrentSong:
			marker, color = sym.Current, m.Theme.Active()
		case i == st.PendingSong && st.SongState == router.Browsing:
			marker, color = sym.Pending, m.Theme.Cursor()
		}
		title := strings.TrimSpace(s.Lines[0] + " " + s.Lines[1])
		lines = append(lines, widgets.RenderDot(marker, color)+" "+
			lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%2d %s", i+1, title)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) rackTable(st router.Status) string {
	if len(st.Racks) == 0 {
		return lipgloss.NewStyle().Foreground(m.Theme.Muted()).Render("no racks")
	}
	sym := m.Theme.Symbols
	var lines []string
	for _, r := range st.Racks {
		state, color := sym.On, m.Theme.Success()
		if r.Disabled {
			state, color = sym.Off, m.Theme.Muted()
		}
		held := sym.Blank
		if r.HeldNotes > 0 {
			held = sym.Held
		}
		arp := sym.Blank
		if r.Arpeggiating {
			arp = sym.Arp
		}
		group := r.Group
		if group == "" {
			group = "-"
		}
		level := r.Volume * st.Volume
		if r.Disabled {
			level = 0
		}
		lines = append(lines, fmt.Sprintf("%s %-16s %-12s %s %2d %s %s",
			widgets.RenderDot(state, color),
			truncate(r.Name, 16),
			truncate(group, 12),
			widgets.RenderMeter(level, 10, m.Theme.Accent(), m.Theme.Surface()),
			r.Entries,
			widgets.RenderDot(held, m.Theme.Warning()),
			widgets.RenderDot(arp, m.Theme.Active()),
		))
	}
	return strings.Join(lines, "\n")
}

func (m Model) pendingSet(st router.Status) string {
	if st.PendingSet == st.CurrentSet || st.PendingSet >= len(st.Sets) {
		return ""
	}
	s := st.Sets[st.PendingSet]
	return fmt.Sprintf("%c %s / %s (l to load)", m.Theme.Symbols.Pending, s.ShortName, s.SetListName)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

var helpSections = []widgets.KeySection{
	{
		Title: "Songs",
		Keys: []widgets.KeyBinding{
			{Key: "←/→", Desc: "dial through songs"},
			{Key: "enter", Desc: "select the dialled song"},
			{Key: ",/.", Desc: "previous/next song"},
		},
	},
	{
		Title: "Sets",
		Keys: []widgets.KeyBinding{
			{Key: "↑/↓", Desc: "dial through set lists"},
			{Key: "l", Desc: "load the dialled set list"},
		},
	},
	{
		Keys: []widgets.KeyBinding{
			{Key: "?", Desc: "toggle help"},
			{Key: "q", Desc: "quit"},
		},
	},
}

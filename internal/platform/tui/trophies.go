package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zataralive/seraph-ultimo-login/internal/sim"
)

// TrophyKeyMap defines the key bindings for the trophy room.
type TrophyKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Tab  key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k TrophyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tab, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k TrophyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Tab}, {k.Back, k.Quit}}
}

// DefaultTrophyKeyMap returns default key bindings.
func DefaultTrophyKeyMap() TrophyKeyMap {
	sb := DefaultScoreboardKeyMap()
	return TrophyKeyMap{
		Up:   sb.Up,
		Down: sb.Down,
		Tab: key.NewBinding(
			key.WithKeys("tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "endings/staves"),
		),
		Back: sb.Back,
		Quit: sb.Quit,
	}
}

// TrophyModel lists every ending and staff with what the player has reached.
type TrophyModel struct {
	trophies  sim.Trophies
	loadErr   error
	staves    bool // showing the staves tab
	table     table.Model
	help      help.Model
	keys      TrophyKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewTrophyModel creates the trophy room. err is shown instead of the tables.
func NewTrophyModel(t sim.Trophies, err error, width, height int) TrophyModel {
	m := TrophyModel{
		trophies: t,
		loadErr:  err,
		help:     help.New(),
		keys:     DefaultTrophyKeyMap(),
		width:    width,
		height:   height,
	}
	m.rebuild()
	return m
}

// rebuild recreates the table for the current tab and size.
func (m *TrophyModel) rebuild() {
	var columns []table.Column
	var rows []table.Row

	if m.staves {
		columns = []table.Column{
			{Title: "", Width: 2},
			{Title: "Cajado", Width: 28},
			{Title: "ID", Width: 24},
		}
		for _, s := range m.trophies.Staves {
			mark, title := "·", "???"
			if s.Unlocked {
				mark, title = "✓", s.Title
			}
			rows = append(rows, table.Row{mark, title, s.ID})
		}
	} else {
		columns = []table.Column{
			{Title: "", Width: 2},
			{Title: "Caminho", Width: 16},
			{Title: "", Width: 2},
			{Title: "Final", Width: max(m.width-50, 24)},
			{Title: "Libera", Width: 20},
		}
		for _, e := range m.trophies.Endings {
			mark, title, unlocks := "·", "???", ""
			if e.Achieved {
				mark, title = "✓", e.Title
				unlocks = staffTitle(e.Unlocks)
			}
			rows = append(rows, table.Row{mark, e.Affinity.DisplayName(), string(e.Variant), title, unlocks})
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	m.table = t
}

// Init initializes the trophy model.
func (m TrophyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the trophy room.
func (m TrophyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.staves = !m.staves
			m.rebuild()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.rebuild()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the trophy room.
func (m TrophyModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Foreground(lipgloss.Color("229")).Render(centerText("SALA DE TROFÉUS", m.width)))
	b.WriteString("\n")

	endings := fmt.Sprintf(" Finais %d/%d ", m.trophies.AchievedCount(), len(m.trophies.Endings))
	staves := fmt.Sprintf(" Cajados %d/%d ", m.trophies.UnlockedCount(), len(m.trophies.Staves))
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	if m.staves {
		staves = active.Render(staves)
		endings = dimStyle.Render(endings)
	} else {
		endings = active.Render(endings)
		staves = dimStyle.Render(staves)
	}
	b.WriteString(centerText(endings+"  "+staves, m.width))
	b.WriteString("\n\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	if m.loadErr != nil {
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box.Render("Troféus indisponíveis:\n"+m.loadErr.Error())))
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box.Render(m.table.View())))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m TrophyModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m TrophyModel) IsQuitting() bool {
	return m.quitting
}

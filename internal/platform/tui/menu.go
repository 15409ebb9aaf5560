package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/registry"
	"github.com/zataralive/seraph-ultimo-login/internal/weapon"
)

// MenuItem represents a staff in the picker.
type MenuItem struct {
	StaffID string
	Title   string
	Locked  bool
}

// MenuModel is the Bubble Tea model for the staff picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	notice         string
	quitting       bool
	selected       *MenuItem // Set when user picks a staff
	openScoreboard bool      // True if user pressed Tab for the hall of fame
	openTrophies   bool      // True if user pressed T for the trophy room
}

// NewMenuModel creates a new menu model. Staves not in unlocked are shown
// but cannot be picked; a nil list unlocks only the default staff.
func NewMenuModel(unlocked []string, cfg core.RuntimeConfig) MenuModel {
	staves := registry.List()
	items := make([]MenuItem, 0, len(staves))

	for _, s := range staves {
		items = append(items, MenuItem{
			StaffID: s.ID,
			Title:   s.Title,
			Locked:  s.ID != weapon.DefaultID && !slices.Contains(unlocked, s.ID),
		})
	}
	// Default staff first, then unlocked, then locked.
	slices.SortStableFunc(items, func(a, b MenuItem) int {
		return menuRank(a) - menuRank(b)
	})

	return MenuModel{
		items:     items,
		cursor:    0,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

func menuRank(it MenuItem) int {
	switch {
	case it.StaffID == weapon.DefaultID:
		return 0
	case !it.Locked:
		return 1
	}
	return 2
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)
	m.notice = ""

	switch action {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		selected := m.items[m.cursor]
		if selected.Locked {
			m.notice = "Cajado bloqueado. Alcance o final que o liberta."
			return m, nil
		}
		m.selected = &selected
		return m, tea.Quit // Exit menu to start the run

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit

	case MenuActionTrophies:
		m.openTrophies = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
		Render("S E R A P H  ·  Último Login")
	b.WriteString("\n")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Escolha seu cajado", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		name := item.Title
		if item.Locked {
			name = dimStyle.Render("??? (bloqueado)")
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, name), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(centerText(m.notice, m.width))
		b.WriteString("\n")
	}
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Hall da Fama  |  T: Troféus  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested the hall of fame.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// WantsTrophies returns true if user requested the trophy room.
func (m MenuModel) WantsTrophies() bool {
	return m.openTrophies
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width. Styled text is measured by
// its printed width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

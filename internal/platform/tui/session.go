package tui

import (
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/zataralive/seraph-ultimo-login/internal/content"
	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/sim"
	"github.com/zataralive/seraph-ultimo-login/internal/weapon"
)

// errNoStore is shown where the score database is needed but unavailable.
var errNoStore = errors.New("placar indisponível")

// SessionOptions configure a player session.
type SessionOptions struct {
	// Game is the template of every run. Staff, Seed and Unlocked are set
	// per run.
	Game   sim.Options
	Config core.RuntimeConfig
	Deps   Deps

	// Staff starts a run with this staff right away instead of the menu.
	Staff string
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScores
	screenTrophies
)

// startRunMsg starts a run from Init, which cannot change the model.
type startRunMsg struct {
	staff string
}

// SessionModel manages the full session flow: menu -> run -> menu, plus the
// hall of fame and the trophy room. It backs both local play and SSH sessions.
type SessionModel struct {
	opts     SessionOptions
	config   core.RuntimeConfig
	log      *log.Logger
	current  sessionScreen
	menu     MenuModel
	game     *Model
	scores   ScoreboardModel
	trophies TrophyModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions) (SessionModel, error) {
	if opts.Game.Content == nil {
		b, err := content.Default()
		if err != nil {
			return SessionModel{}, fmt.Errorf("tui: %w", err)
		}
		opts.Game.Content = b
	}
	if opts.Config.TickRate <= 0 {
		opts.Config.TickRate = core.DefaultConfig().TickRate
	}
	if opts.Deps.Logger == nil {
		opts.Deps.Logger = log.New(io.Discard)
	}

	m := SessionModel{
		opts:   opts,
		config: opts.Config,
		log:    opts.Deps.Logger,
	}
	m.menu = NewMenuModel(m.unlocked(), m.config)
	return m, nil
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.opts.Staff != "" {
		staff := m.opts.Staff
		return func() tea.Msg { return startRunMsg{staff: staff} }
	}
	return m.menu.Init()
}

// unlocked returns the staves the player may equip. Without a store only the
// default staff is available.
func (m SessionModel) unlocked() []string {
	if m.opts.Deps.Store == nil {
		return []string{weapon.DefaultID}
	}
	u, err := sim.LoadUnlocked(m.opts.Deps.Store)
	if err != nil {
		m.log.Warn("could not load unlocked staves", "err", err)
		return []string{weapon.DefaultID}
	}
	return u
}

func (m SessionModel) loadTrophies() (sim.Trophies, error) {
	if m.opts.Deps.Store == nil {
		return sim.Trophies{}, errNoStore
	}
	return sim.LoadTrophies(m.opts.Deps.Store, m.opts.Game.Content.Endings)
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}
	if s, ok := msg.(startRunMsg); ok {
		return m.startRun(s.staff)
	}

	switch m.current {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	case screenTrophies:
		return m.updateTrophies(msg)
	}
	return m.updateMenu(msg)
}

// startRun creates a run with staff and switches to it.
func (m SessionModel) startRun(staff string) (tea.Model, tea.Cmd) {
	opts := m.opts.Game
	opts.Staff = staff
	opts.Unlocked = m.unlocked()
	opts.Seed = m.config.Seed
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = m.log
	}

	g, err := sim.New(opts)
	if err != nil {
		m.log.Error("could not start run", "staff", staff, "err", err)
		m.current = screenMenu
		m.menu.notice = err.Error()
		return m, nil
	}

	gm := NewModel(g, m.config, m.opts.Deps)
	m.game = &gm
	m.current = screenGame
	return m, m.game.Init()
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.opts.Deps.Store, m.config.ScreenW, m.config.ScreenH)
		m.current = screenScores
		return m, m.scores.Init()

	case m.menu.WantsTrophies():
		t, err := m.loadTrophies()
		m.trophies = NewTrophyModel(t, err, m.config.ScreenW, m.config.ScreenH)
		m.current = screenTrophies
		return m, m.trophies.Init()

	case m.menu.Selected() != nil:
		return m.startRun(m.menu.Selected().StaffID)
	}

	return m, cmd
}

// backToMenu rebuilds the menu so new unlocks show up.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.current = screenMenu
	m.game = nil
	m.menu = NewMenuModel(m.unlocked(), m.config)
	return m, m.menu.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.BackToMenu() {
		return m.backToMenu()
	}
	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scores = sb
	}
	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateTrophies(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.trophies.Update(msg)
	if tm, ok := newModel.(TrophyModel); ok {
		m.trophies = tm
	}
	switch {
	case m.trophies.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.trophies.IsGoingBack():
		return m.backToMenu()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.current {
	case screenGame:
		if m.game != nil {
			return m.game.View()
		}
	case screenScores:
		return m.scores.View()
	case screenTrophies:
		return m.trophies.View()
	}
	return m.menu.View()
}

// Run starts a local session in the terminal.
func Run(opts SessionOptions) error {
	model, err := NewSessionModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Aim with the mouse
	)

	_, err = p.Run()
	return err
}

package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/zataralive/seraph-ultimo-login/internal/audio"
	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/sim"
	"github.com/zataralive/seraph-ultimo-login/internal/spectate"
	"github.com/zataralive/seraph-ultimo-login/internal/storage"
)

// Deps are the collaborators a run talks to. Every field is optional.
type Deps struct {
	Store  *storage.Store
	Audio  *audio.Player
	Hub    *spectate.Hub
	Logger *log.Logger

	// Session is the hub session frames are published to.
	Session string
}

// nameLimit bounds the hall of fame name.
const nameLimit = 24

// Model is the Bubble Tea model for one Seraph run.
type Model struct {
	game        *sim.Game
	screen      *core.Screen
	deps        Deps
	config      core.RuntimeConfig
	keyMapper   *KeyMapper
	keys        GameKeyMap
	help        help.Model
	inputFrame  core.InputFrame
	held        map[core.Action]int // ticks each held action stays down
	prompt      textinput.Model
	naming      bool
	saved       string // outcome of the last submission
	lastPublish time.Time
	quitting    bool
	backToMenu  bool
}

// NewModel creates a new Bubble Tea model for the given run.
func NewModel(game *sim.Game, cfg core.RuntimeConfig, deps Deps) Model {
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}

	ti := textinput.New()
	ti.Placeholder = sim.AnonymousName
	ti.CharLimit = nameLimit
	ti.Width = nameLimit
	ti.Prompt = "Nome: "

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		deps:       deps,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		keys:       DefaultGameKeyMap(),
		help:       h,
		inputFrame: core.NewInputFrame(),
		held:       make(map[core.Action]int),
		prompt:     ti,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	if m.naming {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// holdTicks is how long a key press keeps its action down. Terminals send no
// key release, so a held key is the stream of its repeats.
func (m Model) holdTicks() int {
	return max(m.config.TickRate/5, 1)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.naming {
		return m.handleNameKey(msg)
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	state := m.game.State()
	switch action {
	case core.ActionBack:
		if state.GameOver || state.Paused {
			m.backToMenu = true
			return m, nil
		}
		action = core.ActionPause
	case core.ActionConfirm:
		action = core.ActionNone
	}

	switch action {
	case core.ActionNone:
	case core.ActionPause:
		if state.Paused {
			// The tick loop is stopped while paused; resuming restarts it.
			m.game.SetPaused(false)
			return m, tickCmd(m.config.TickRate)
		}
		m.inputFrame.Set(action)
	case core.ActionLeft:
		delete(m.held, core.ActionRight)
		m.held[action] = m.holdTicks()
	case core.ActionRight:
		delete(m.held, core.ActionLeft)
		m.held[action] = m.holdTicks()
	case core.ActionShoot:
		m.inputFrame.HasPointer = false
		m.held[action] = m.holdTicks()
	case core.ActionJump:
		m.held[action] = m.holdTicks()
	default:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleNameKey feeds the name prompt. Enter records the run, Esc records it
// anonymously.
func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "enter", "esc":
		name := m.prompt.Value()
		if msg.String() == "esc" {
			name = ""
		}
		m.naming = false
		m.prompt.Blur()
		if err := m.game.Finalize(m.deps.Store, name); err != nil {
			m.deps.Logger.Error("could not record run", "run", m.game.RunID(), "err", err)
			m.saved = "Não foi possível registrar: " + err.Error()
		} else {
			m.saved = "Registrado no Hall da Fama."
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handleMouse aims at the pointer; a left press fires.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	w := m.game.World()
	a := NewArena(m.screen.Width(), m.screen.Height(), w.Width, w.Height)
	m.inputFrame.Aim(a.World(msg.X, msg.Y))

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.held[core.ActionShoot] = m.holdTicks()
	case msg.Action == tea.MouseActionRelease:
		delete(m.held, core.ActionShoot)
	}
	return m, nil
}

// handleResize processes window resize events. The world keeps its size;
// only the arena scale changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-1, 1))
	m.help.Width = msg.Width
	return m, nil
}

// applyHeld presses every held action for this tick.
func (m *Model) applyHeld() {
	for a, n := range m.held {
		if n <= 0 {
			delete(m.held, a)
			continue
		}
		m.inputFrame.Set(a)
		if a == core.ActionShoot {
			m.inputFrame.ShotRequested = true
		}
		m.held[a] = n - 1
	}
}

// handleTick processes simulation ticks.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.applyHeld()
	result := m.game.Step(m.inputFrame, 1/float64(m.config.TickRate))
	m.inputFrame.Clear()

	m.playSounds()
	m.publish(now)

	if result.State.Paused {
		clear(m.held)
		return m, nil
	}

	if !result.State.GameOver {
		if m.saved != "" {
			// A new run started.
			m.saved = ""
			m.prompt.Reset()
		}
		return m, tickCmd(m.config.TickRate)
	}

	if !m.naming && m.saved == "" {
		if _, ok := m.game.Pending(); ok {
			if m.deps.Store == nil {
				m.saved = "Placar indisponível: a execução não foi registrada."
				return m, tickCmd(m.config.TickRate)
			}
			m.naming = true
			clear(m.held)
			focus := m.prompt.Focus()
			return m, tea.Batch(focus, textinput.Blink, tickCmd(m.config.TickRate))
		}
	}
	return m, tickCmd(m.config.TickRate)
}

// playSounds hands the tick's sound intents to the audio player, or drops them.
func (m Model) playSounds() {
	if m.deps.Audio != nil {
		m.deps.Audio.Consume(m.game.Sounds())
		return
	}
	m.game.Sounds().Drain()
}

// publish sends a snapshot to spectators at most once per hub interval.
func (m *Model) publish(now time.Time) {
	if m.deps.Hub == nil || m.deps.Session == "" {
		return
	}
	if now.Sub(m.lastPublish) < spectate.DefaultInterval {
		return
	}
	m.lastPublish = now
	if err := m.deps.Hub.Publish(m.deps.Session, m.game.Snapshot()); err != nil {
		m.deps.Logger.Debug("publish failed", "session", m.deps.Session, "err", err)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			MarginRight(1)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.game.Phase() {
	case sim.PhaseDecision:
		body = m.place(m.decisionView())
	case sim.PhaseEnding, sim.PhaseDead:
		body = m.place(m.endView())
	default:
		DrawSnapshot(m.screen, m.game.Snapshot())
		body = RenderScreen(m.screen)
	}

	return body + "\n" + helpStyle.Render(m.help.View(m.keys))
}

func (m Model) place(s string) string {
	return lipgloss.Place(m.screen.Width(), m.screen.Height(), lipgloss.Center, lipgloss.Center, s)
}

// decisionView renders the node preamble and one card per choice.
func (m Model) decisionView() string {
	node, ok := m.game.Node()
	if !ok {
		return ""
	}
	accent := lipglossColor(ThemeColor(m.game.Machine().Theme()))

	var b strings.Builder
	b.WriteString(titleStyle.Foreground(accent).Render(node.Title))
	b.WriteString("\n")
	for _, line := range node.Preamble {
		if node.Speaker != "" {
			line = node.Speaker + ": " + line
		}
		b.WriteString(lipgloss.NewStyle().Width(min(m.screen.Width()-4, 80)).Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	opts := m.game.Options()
	if len(opts) == 0 {
		return b.String()
	}
	cardW := core.Clamp((m.screen.Width()-4)/len(opts)-4, 16, 34)
	cards := make([]string, len(opts))
	for i, c := range opts {
		var body strings.Builder
		fmt.Fprintf(&body, "[%d] %s", i+1, c.Text)
		if c.Description != "" {
			body.WriteString("\n\n" + c.Description)
		}
		if keys := c.Affinity.Keys(); len(keys) > 0 {
			names := make([]string, len(keys))
			for j, a := range keys {
				names[j] = "+" + a.DisplayName()
			}
			body.WriteString("\n\n" + dimStyle.Render(strings.Join(names, " ")))
		}
		cards[i] = cardStyle.BorderForeground(accent).Width(cardW).Render(body.String())
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if lipgloss.Width(row) > m.screen.Width() {
		row = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	b.WriteString(row)
	return b.String()
}

// endView renders the ending or death screen with the name prompt.
func (m Model) endView() string {
	width := min(m.screen.Width()-4, 64)
	accent := lipglossColor(ThemeColor(m.game.Machine().Theme()))

	var b strings.Builder
	if e, ok := m.game.Ending(); ok {
		b.WriteString(titleStyle.Foreground(accent).Render(e.Title))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(e.Description))
		if e.Unlocks != "" && !e.Incomplete {
			b.WriteString("\n\n" + dimStyle.Render("Desbloqueia: "+e.Unlocks))
		}
	} else {
		b.WriteString(titleStyle.Foreground(lipglossColor(core.ColorBrightRed)).Render("SISTEMA ENCERRADO"))
		if node, ok := m.game.Node(); ok {
			b.WriteString("\n" + dimStyle.Render("Caído em: "+node.Title))
		}
	}

	st := m.game.Stats()
	fmt.Fprintf(&b, "\n\nPontuação final: %d\n", m.game.Score())
	b.WriteString(dimStyle.Render(fmt.Sprintf("Abates %d · Chefes %d · Críticos %d · Dano sofrido %.0f",
		st.Kills, st.BossKills, st.Crits, st.DamageTaken)))
	b.WriteString("\n\n")

	switch {
	case m.naming:
		b.WriteString(m.prompt.View())
		b.WriteString("\n" + dimStyle.Render("Enter: registrar · Esc: anônimo"))
	case m.saved != "":
		b.WriteString(m.saved)
		b.WriteString("\n\n" + dimStyle.Render("R: nova execução · Esc: menu · Q: sair"))
	}
	return b.String()
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Game returns the run behind the model.
func (m Model) Game() *sim.Game {
	return m.game
}

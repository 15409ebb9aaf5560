package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/sim"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	g, err := sim.New(sim.Options{Seed: 3})
	if err != nil {
		t.Fatalf("sim.New() failed: %v", err)
	}
	return NewModel(g, core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 60}, Deps{})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return nm, cmd
}

func TestPauseStopsTickLoop(t *testing.T) {
	m := newTestModel(t)
	now := time.Now()

	m, _ = update(t, m, runeKey("p"))
	m, cmd := update(t, m, TickMsg(now))
	if !m.Game().State().Paused {
		t.Fatal("Expected the run to be paused")
	}
	if cmd != nil {
		t.Error("Expected no tick while paused")
	}
	tick := m.Game().Tick()

	m, cmd = update(t, m, runeKey("p"))
	if m.Game().State().Paused {
		t.Error("Expected p to resume")
	}
	if cmd == nil {
		t.Error("Expected resuming to restart the tick loop")
	}
	if m.Game().Tick() != tick {
		t.Error("Expected no simulation while paused")
	}
}

func TestBackPausesThenLeaves(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = update(t, m, TickMsg(time.Now()))
	if !m.Game().State().Paused {
		t.Fatal("Expected esc to pause a running game")
	}
	if m.BackToMenu() {
		t.Fatal("Expected the first esc not to leave")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("Expected esc while paused to go back to the menu")
	}
}

func TestHeldKeysExpire(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, runeKey("a"))
	if m.held[core.ActionLeft] != m.holdTicks() {
		t.Fatalf("Expected left held for %d ticks, got %d", m.holdTicks(), m.held[core.ActionLeft])
	}
	m, _ = update(t, m, runeKey("d"))
	if _, ok := m.held[core.ActionLeft]; ok {
		t.Error("Expected right to cancel left")
	}

	now := time.Now()
	for i := 0; i <= m.holdTicks(); i++ {
		m, _ = update(t, m, TickMsg(now))
	}
	if len(m.held) != 0 {
		t.Errorf("Expected held keys to expire, got %v", m.held)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	m, cmd := update(t, m, runeKey("q"))
	if !m.IsQuitting() || cmd == nil {
		t.Error("Expected q to quit")
	}
}

func TestViewShowsHelp(t *testing.T) {
	m := newTestModel(t)
	if v := m.View(); !strings.Contains(v, "quit") && !strings.Contains(v, "sair") {
		t.Errorf("Expected the help bar in the view, got %q", v)
	}
}

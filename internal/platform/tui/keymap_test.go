package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zataralive/seraph-ultimo-login/internal/core"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"a moves left", runeKey("a"), core.ActionLeft, false},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"space jumps", tea.KeyMsg{Type: tea.KeySpace}, core.ActionJump, false},
		{"up jumps", tea.KeyMsg{Type: tea.KeyUp}, core.ActionJump, false},
		{"f shoots", runeKey("f"), core.ActionShoot, false},
		{"esc backs", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{"p pauses", runeKey("p"), core.ActionPause, false},
		{"3 picks", runeKey("3"), core.ActionChoice3, false},
		{"4 picks", runeKey("4"), core.ActionChoice4, false},
		{"q quits", runeKey("q"), core.ActionQuit, true},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unknown", runeKey("z"), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = (%v, %v), expected (%v, %v)", tt.msg.String(), action, quit, tt.action, tt.quit)
			}
		})
	}
}

func TestMapKeyToFrameRequestsShot(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if km.MapKeyToFrame(runeKey("j"), &frame) {
		t.Fatal("Expected j not to quit")
	}
	if !frame.Has(core.ActionShoot) || !frame.ShotRequested {
		t.Errorf("Expected a shot request, got %+v", frame)
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runeKey("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey("t"), MenuActionTrophies},
		{runeKey("q"), MenuActionQuit},
	}
	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
		}
	}
}

package core

// Action represents a semantic game action, abstracted from physical key presses.
// The input collaborator fills these in; the simulation only reads them.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, Left arrow - move left (held)
	ActionRight          // D, Right arrow - move right (held)
	ActionJump           // Space, W, Up - jump (held; the simulation detects the rising edge)
	ActionShoot          // F, mouse button - fire the equipped staff (held)
	ActionConfirm        // Enter - confirm selection in menus
	ActionBack           // B, Escape - go back
	ActionRestart        // R key - new run after game over
	ActionQuit           // Q, Ctrl+C - exit
	ActionPause          // P - pause/unpause
	ActionChoice1        // 1 - first narrative choice
	ActionChoice2        // 2 - second narrative choice
	ActionChoice3        // 3 - third narrative choice
	ActionChoice4        // 4 - extra calibration choice
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionShoot:
		return "Shoot"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	case ActionChoice1:
		return "Choice1"
	case ActionChoice2:
		return "Choice2"
	case ActionChoice3:
		return "Choice3"
	case ActionChoice4:
		return "Choice4"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state during one simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they are active this frame.
	Actions map[Action]bool

	// Pointer is the aim target in world coordinates. Valid only when HasPointer is set;
	// without a pointer the simulation aims at the nearest enemy.
	Pointer    Vec
	HasPointer bool

	// ShotRequested is the latch the input collaborator sets on a click or fire key.
	// It stays set while the fire control is held.
	ShotRequested bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as active for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action is active this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Aim points the frame at a world position.
func (f *InputFrame) Aim(p Vec) {
	f.Pointer = p
	f.HasPointer = true
}

// Clear resets all actions and the shot latch for the next frame.
// The pointer position is kept: it is a level, not an event.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.ShotRequested = false
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.Pointer = f.Pointer
	clone.HasPointer = f.HasPointer
	clone.ShotRequested = f.ShotRequested
	return clone
}

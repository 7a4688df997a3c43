package core

// Action is a semantic input, independent of the physical key that caused
// it. Key mapping lives in the platform layer.
type Action int

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionSoftDrop
	ActionHardDrop
	ActionRotateCW
	ActionRotateCCW
	ActionHold1
	ActionHold2
	ActionExchange
	ActionClearRow
	ActionPause
	ActionRestart
	ActionQuit
)

// actionNames is indexed by Action.
var actionNames = [...]string{
	ActionNone:      "None",
	ActionLeft:      "Left",
	ActionRight:     "Right",
	ActionSoftDrop:  "SoftDrop",
	ActionHardDrop:  "HardDrop",
	ActionRotateCW:  "RotateCW",
	ActionRotateCCW: "RotateCCW",
	ActionHold1:     "Hold1",
	ActionHold2:     "Hold2",
	ActionExchange:  "Exchange",
	ActionClearRow:  "ClearRow",
	ActionPause:     "Pause",
	ActionRestart:   "Restart",
	ActionQuit:      "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Unknown"
	}
	return actionNames[a]
}

// InputFrame is the set of actions triggered during one simulation tick.
// Count records repeats so two key presses in one frame move twice.
type InputFrame struct {
	Actions map[Action]int
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]int)}
}

// Set records one occurrence of an action.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]int)
	}
	f.Actions[a]++
}

// Has reports whether the action occurred this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a] > 0
}

// Count returns how many times the action occurred this frame.
func (f InputFrame) Count(a Action) int {
	return f.Actions[a]
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

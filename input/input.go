// Package input holds per-frame input edge state. The embedding platform
// layer feeds presses in; the frame controller clears edge flags at the end
// of every frame so "just pressed" is only visible for a single frame.
package input

// Button is a logical input button. The engine core does not enumerate
// bindings; embedders map physical keys onto these.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonUp
	ButtonDown
	ButtonJump
	ButtonAction
	ButtonPause
	buttonCount
)

// State tracks held and just-pressed buttons plus the pointer position.
type State struct {
	held        [buttonCount]bool
	justPressed [buttonCount]bool

	MouseX float64
	MouseY float64
}

// NewState creates an empty input state.
func NewState() *State {
	return &State{}
}

// Press records b as held, setting the just-pressed edge if it was up.
func (s *State) Press(b Button) {
	if b < 0 || b >= buttonCount {
		return
	}
	if !s.held[b] {
		s.justPressed[b] = true
	}
	s.held[b] = true
}

// Release records b as no longer held.
func (s *State) Release(b Button) {
	if b < 0 || b >= buttonCount {
		return
	}
	s.held[b] = false
}

// Held reports whether b is currently down.
func (s *State) Held(b Button) bool {
	if b < 0 || b >= buttonCount {
		return false
	}
	return s.held[b]
}

// JustPressed reports whether b went down since the last ClearEdges.
func (s *State) JustPressed(b Button) bool {
	if b < 0 || b >= buttonCount {
		return false
	}
	return s.justPressed[b]
}

// ClearEdges drops the just-pressed flags. Held state is unaffected.
func (s *State) ClearEdges() {
	for i := range s.justPressed {
		s.justPressed[i] = false
	}
}

package components

// UIState represents the pointer state of a clickable element.
type UIState int

const (
	// UINormal indicates the element is in its default state.
	UINormal UIState = iota
	// UIHovered indicates the mouse cursor is over the element.
	UIHovered
	// UIClicked indicates the mouse button is held down on the element.
	UIClicked
	// UIDisabled indicates the element ignores clicks.
	UIDisabled
)

// UIComponent tracks the pointer state of a clickable element.
// The input system keeps it in sync with the cursor; the renderer reads it
// through StateClass so hover styling uses the same ClassColors table as
// scroll-driven state classes.
type UIComponent struct {
	State UIState
}

// StateClass returns the pseudo class for the state, or "" for UINormal.
func (s UIState) StateClass() string {
	switch s {
	case UIHovered:
		return "is-hovered"
	case UIClicked:
		return "is-pressed"
	case UIDisabled:
		return "is-disabled"
	}
	return ""
}

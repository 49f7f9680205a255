package components

// UIState represents the current interaction state of a UI element (e.g., a target button).
type UIState int

const (
	// UINormal indicates the UI element is in its default state.
	UINormal UIState = iota
	// UIHovered indicates the pointer is over the UI element.
	UIHovered
	// UIClicked indicates the UI element is being pressed.
	UIClicked
	// UIDisabled indicates the UI element is disabled and ignores interaction.
	UIDisabled
)

// String returns a short name for logging.
func (s UIState) String() string {
	switch s {
	case UINormal:
		return "normal"
	case UIHovered:
		return "hovered"
	case UIClicked:
		return "clicked"
	case UIDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

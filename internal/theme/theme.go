package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Checklist item states as shown to the user.
const (
	ItemOpen    = "open"
	ItemBlocked = "blocked"
	ItemDone    = "done"
)

// HeaderStyle is used for section headers and task titles.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// MetaStyle renders field labels and timestamps.
var MetaStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// ValueStyle renders field values next to a MetaStyle label.
var ValueStyle = lipgloss.NewStyle().
	Foreground(ColorWhite)

// HelpStyle is used for hints and empty-state text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// SeparatorStyle draws horizontal rules between sections.
var SeparatorStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle)

// ErrorStyle highlights failures such as rejected dependencies.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(0, 1)

// StatusStyle returns a color-coded style for the given task status.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case "todo":
		return base.Foreground(ColorBlue)
	case "in_progress":
		return base.Foreground(ColorYellow)
	case "done":
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// ItemStyle returns the style for a checklist item in the given state.
func ItemStyle(state string) lipgloss.Style {
	base := lipgloss.NewStyle()

	switch state {
	case ItemDone:
		return base.Foreground(ColorGreen).Strikethrough(true)
	case ItemBlocked:
		return base.Foreground(ColorOrange)
	default:
		return base.Foreground(ColorWhite)
	}
}

// NotificationStyle returns a color-coded style for a notification type.
func NotificationStyle(kind string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch kind {
	case "success":
		return base.Foreground(ColorGreen)
	case "warning":
		return base.Foreground(ColorYellow)
	case "error":
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorMagenta)
	}
}

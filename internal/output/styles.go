package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette: named constants for all ANSI 256 colors used in the CLI.
var (
	// ColorCyan is used for identifiable nouns: file paths, schematic types, properties.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "created" file status.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "updated" file status.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for the "deleted" file status.
	ColorRed = lipgloss.Color("196")

	// ColorBoldRed is used for the "failed" status (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles: map domain concepts to visual presentation.
var (
	// StyleNoun styles identifiable nouns.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs.
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (separators, byte counts).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Styles groups the styles used by the tree renderer.
type Styles struct {
	Bold  lipgloss.Style
	Muted lipgloss.Style
}

// GetStyles returns the tree rendering styles.
func GetStyles() Styles {
	return Styles{
		Bold:  lipgloss.NewStyle().Bold(true),
		Muted: lipgloss.NewStyle().Foreground(ColorDimGray),
	}
}

// File status constants, one per generation event kind.
const (
	StatusCreated = "created"
	StatusUpdated = "updated"
	StatusRenamed = "renamed"
	StatusDeleted = "deleted"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// StatusStyle returns the lipgloss style for a given file status string.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusCreated:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusUpdated:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusRenamed:
		return lipgloss.NewStyle().Foreground(ColorCyan)
	case StatusSkipped:
		return lipgloss.NewStyle().Faint(true)
	case StatusDeleted:
		return lipgloss.NewStyle().Foreground(ColorRed)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// statusLabels maps a status to the verb printed in front of a path.
var statusLabels = map[string]string{
	StatusCreated: "CREATE",
	StatusUpdated: "UPDATE",
	StatusRenamed: "RENAME",
	StatusDeleted: "DELETE",
	StatusSkipped: "SKIP",
	StatusFailed:  "FAIL",
}

// labelWidth pads labels so paths line up.
const labelWidth = 7

// FormatFileEvent renders one generation event line.
//
// Format: CREATE src/Users/UsersService.php (412 bytes)
//
// The byte count is omitted when bytes is negative.
func FormatFileEvent(status, path string, bytes int) string {
	label, ok := statusLabels[status]
	if !ok {
		label = strings.ToUpper(status)
	}
	padding := labelWidth - len(label)
	if padding < 1 {
		padding = 1
	}

	line := StatusStyle(status).Render(label) + strings.Repeat(" ", padding) + StyleNoun.Render(path)
	if bytes >= 0 {
		line += " " + StyleDim.Render(fmt.Sprintf("(%d bytes)", bytes))
	}
	return line
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// Package styles holds the lipgloss styles shared by the analytical CLI.
package styles

import "github.com/charmbracelet/lipgloss"

// GitHub terminal light theme palette.
var (
	ColorMuted   = lipgloss.Color("#656d76") // muted/dim text
	ColorAccent  = lipgloss.Color("#0969da") // accent blue
	ColorError   = lipgloss.Color("#cf222e") // error red
	ColorSuccess = lipgloss.Color("#1a7f37") // success green
	ColorMagenta = lipgloss.Color("#8250df") // purple/magenta
)

var (
	// Section headings, e.g. one per insertion point.
	HeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

	// Table header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	// Provider kinds and names.
	KindStyle = lipgloss.NewStyle().Foreground(ColorMagenta)

	DimStyle     = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)

	// Error block style.
	ErrorBlockStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(ColorError)

	// Unified diff lines.
	DiffAddStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	DiffDelStyle = lipgloss.NewStyle().Foreground(ColorError)
	DiffHunk     = lipgloss.NewStyle().Foreground(ColorAccent)
)

// Package format renders analytical CLI output: markdown reports, aligned
// tables and unified diffs.
package format

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/germanamz/analytical/cmd/analytical/internal/styles"
	"github.com/mattn/go-runewidth"
	"github.com/pmezard/go-difflib/difflib"
)

// RenderMarkdown converts markdown text to terminal-formatted output. Plain
// selects the no-color style for non-terminal output. On renderer failure the
// text is returned unchanged.
func RenderMarkdown(text string, width int, plain bool) string {
	if width <= 0 {
		width = 100
	}

	style := glamour.WithAutoStyle()
	if plain {
		style = glamour.WithStandardStyle("notty")
	}

	r, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}

	out, err := r.Render(text)
	if err != nil {
		return text
	}

	return strings.TrimRight(out, "\n")
}

// Table lays rows out in columns padded to the widest cell, measured in
// terminal cells so wide runes stay aligned. The first row is the header.
func Table(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			padded := cell
			if i < len(row)-1 {
				padded = runewidth.FillRight(cell, widths[i])
			}
			if r == 0 {
				padded = styles.HeaderStyle.Render(padded)
			}
			cells[i] = padded
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, "  "), " "))
		b.WriteString("\n")
	}

	return b.String()
}

// Diff returns a unified diff between a and b labeled with the given names.
// Returns an empty string when the contents are equal.
func Diff(fromName, toName, a, b string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	}

	result, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("(diff error: %v)", err)
	}

	return result
}

// ColorDiff styles the lines of a unified diff.
func ColorDiff(diff string) string {
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = styles.HeadingStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = styles.DiffHunk.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = styles.DiffAddStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = styles.DiffDelStyle.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}

// Truncate returns s shortened to at most n terminal cells, with "..."
// appended if truncated. Newlines are replaced with spaces for single-line
// display.
func Truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) <= n {
		return s
	}

	return runewidth.Truncate(s, n, "") + "..."
}

package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hel...", Truncate("hello world", 3))
	assert.Equal(t, "hello world", Truncate("hello\nworld", 20))
	assert.Empty(t, Truncate("", 5))
}

func TestTruncate_WideRunes(t *testing.T) {
	// Each CJK rune occupies two cells.
	assert.Equal(t, "日本...", Truncate("日本語", 4))
}

func TestTable(t *testing.T) {
	out := Table([][]string{
		{"NAME", "KIND"},
		{"ga", "google"},
		{"kissmetrics", "kissmetrics"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "ga           google", lines[1])
	assert.Equal(t, "kissmetrics  kissmetrics", lines[2])
}

func TestTable_WideCells(t *testing.T) {
	out := Table([][]string{
		{"A", "B"},
		{"日本", "x"},
		{"ab", "y"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "日本  x", lines[1])
	assert.Equal(t, "ab    y", lines[2])
}

func TestTable_Empty(t *testing.T) {
	assert.Empty(t, Table(nil))
}

func TestDiff(t *testing.T) {
	a := "<head>\n</head>\n<body>\n</body>\n"
	b := "<head>\n<script></script>\n</head>\n<body>\n</body>\n"

	out := Diff("a.html", "b.html", a, b)
	assert.Contains(t, out, "--- a.html")
	assert.Contains(t, out, "+++ b.html")
	assert.Contains(t, out, "+<script></script>")
}

func TestDiff_Equal(t *testing.T) {
	assert.Empty(t, Diff("a", "b", "same\n", "same\n"))
}

func TestColorDiff_KeepsText(t *testing.T) {
	out := ColorDiff("--- a\n+++ b\n@@ -1 +1 @@\n-old\n+new\n same")
	assert.Contains(t, out, "old")
	assert.Contains(t, out, "new")
	assert.Contains(t, out, " same")
}

func TestRenderMarkdown_Plain(t *testing.T) {
	out := RenderMarkdown("# Snippets\n\nhead_append", 80, true)
	assert.Contains(t, out, "Snippets")
	assert.Contains(t, out, "head_append")
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/germanamz/analytical/cmd/analytical/internal/format"
	"github.com/germanamz/analytical/cmd/analytical/internal/styles"
	"github.com/germanamz/analytical/pkg/engine"
	"github.com/germanamz/analytical/pkg/location"
	"github.com/germanamz/analytical/pkg/providers/provider"
)

// blankPage is spliced when no input document is given.
const blankPage = `<!DOCTYPE html>
<html>
<head>
<title></title>
</head>
<body>
</body>
</html>
`

// maxKeyWidth bounds the KEY column of the providers table.
const maxKeyWidth = 20

type renderOptions struct {
	Location string // Empty renders every insertion point.
	Page     string // Queues a page view when set.
	Client   bool
}

func runRender(w io.Writer, eng *engine.Engine, opts renderOptions) error {
	locs := location.All
	if opts.Location != "" {
		loc, err := location.Parse(opts.Location)
		if err != nil {
			return err
		}
		locs = []location.Location{loc}
	}

	page := newPage(eng, opts.Page)
	for _, loc := range locs {
		js := page.JavaScript(loc)
		if js == "" {
			continue
		}

		fmt.Fprintln(w, styles.HeadingStyle.Render("== "+loc.String()+" =="))
		fmt.Fprint(w, js)
	}

	if opts.Client {
		if js := eng.ClientJavaScript(); js != "" {
			fmt.Fprintln(w, styles.HeadingStyle.Render("== client =="))
			fmt.Fprint(w, js)
		}
	}

	return nil
}

func runSplice(eng *engine.Engine, in, out, pageName string) error {
	html, err := readInput(in, os.Stdin)
	if err != nil {
		return err
	}

	result := spliceHTML(eng, html, pageName)

	if out == "" {
		_, err = io.WriteString(os.Stdout, result)
		return err
	}

	if err := os.WriteFile(out, []byte(result), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	return nil
}

func runDiff(w io.Writer, eng *engine.Engine, fromName, againstPath, in string, color bool) error {
	if againstPath == "" {
		return fmt.Errorf("diff: -against is required")
	}

	other, err := loadEngine(againstPath, slog.New(slog.DiscardHandler))
	if err != nil {
		return err
	}

	html := blankPage
	if in != "" {
		if html, err = readInput(in, nil); err != nil {
			return err
		}
	}

	diff := format.Diff(fromName, againstPath, spliceHTML(eng, html, ""), spliceHTML(other, html, ""))
	if diff == "" {
		fmt.Fprintln(w, styles.DimStyle.Render("no differences"))
		return nil
	}

	if color {
		diff = format.ColorDiff(diff)
	}

	_, err = io.WriteString(w, diff)

	return err
}

func runPreview(w io.Writer, eng *engine.Engine, width int, plain bool) error {
	fmt.Fprintln(w, format.RenderMarkdown(previewMarkdown(eng), width, plain))
	return nil
}

// previewMarkdown builds the preview report: the provider list followed by
// one fenced block per insertion point.
func previewMarkdown(eng *engine.Engine) string {
	var b strings.Builder
	b.WriteString("# Analytical snippets\n\n")

	b.WriteString("| Name | Kind | Location |\n|---|---|---|\n")
	cfg := eng.Config()
	for i, p := range eng.Providers() {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", cfg.Providers[i].Name, cfg.Providers[i].Kind, p.TrackingCommandLocation())
	}

	page := eng.Page()
	scripts, renderedBy := renderLocations(eng, page)
	for _, loc := range location.All {
		fmt.Fprintf(&b, "\n## %s\n\n", loc)

		js := scripts[loc]
		if js == "" {
			b.WriteString("_Nothing rendered._\n")
			continue
		}

		fmt.Fprintf(&b, "Rendered by: %s\n\n", strings.Join(renderedBy[loc], ", "))
		b.WriteString("```html\n")
		b.WriteString(js)
		b.WriteString("```\n")
	}

	if js := eng.ClientJavaScript(); js != "" {
		b.WriteString("\n## client\n\n```html\n")
		b.WriteString(js)
		b.WriteString("```\n")
	}

	return b.String()
}

// renderLocations renders every insertion point of page and reports, from the
// engine's script_rendered events, which providers contributed to each.
func renderLocations(eng *engine.Engine, page *engine.Page) (map[location.Location]string, map[location.Location][]string) {
	stop := eng.Events().Record(len(location.All)*len(eng.Providers()), engine.EventScriptRendered)

	scripts := make(map[location.Location]string, len(location.All))
	for _, loc := range location.All {
		scripts[loc] = page.JavaScript(loc)
	}

	renderedBy := make(map[location.Location][]string)
	for _, e := range stop() {
		if e.PageID == page.ID() {
			renderedBy[e.Location] = append(renderedBy[e.Location], e.Provider)
		}
	}

	return scripts, renderedBy
}

func runProviders(w io.Writer, eng *engine.Engine) error {
	rows := [][]string{{"NAME", "KIND", "KEY", "LOCATION", "CAPABILITIES"}}

	cfg := eng.Config()
	for i, p := range eng.Providers() {
		rows = append(rows, []string{
			cfg.Providers[i].Name,
			cfg.Providers[i].Kind,
			format.Truncate(cfg.Providers[i].Key, maxKeyWidth),
			p.TrackingCommandLocation().String(),
			strings.Join(capabilities(p), ", "),
		})
	}

	_, err := io.WriteString(w, format.Table(rows))

	return err
}

func runKinds(w io.Writer) error {
	for _, k := range engine.Kinds() {
		fmt.Fprintln(w, styles.KindStyle.Render(k))
	}

	return nil
}

// capabilities lists the optional calls p supports beyond the base set.
func capabilities(p provider.Provider) []string {
	caps := []string{}
	if _, ok := p.(provider.CustomEventer); ok {
		caps = append(caps, "custom_event")
	}
	if _, ok := p.(provider.ClientScripter); ok {
		caps = append(caps, "client")
	}
	if _, ok := p.(provider.Identifier); ok {
		caps = append(caps, "identify")
	}
	if _, ok := p.(provider.Aliaser); ok {
		caps = append(caps, "alias")
	}
	if len(caps) == 0 {
		caps = append(caps, "-")
	}

	return caps
}

func newPage(eng *engine.Engine, pageName string) *engine.Page {
	page := eng.Page()
	if pageName != "" {
		page.Track(pageName)
	}

	return page
}

func spliceHTML(eng *engine.Engine, html, pageName string) string {
	return newPage(eng, pageName).Splice(html)
}

// readInput reads path, or stdin when path is empty and stdin is given.
func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" {
		if stdin == nil {
			return "", fmt.Errorf("no input given")
		}

		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is a CLI argument
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	return string(data), nil
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/germanamz/analytical/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testEngine(t *testing.T, providers ...engine.ProviderConfig) *engine.Engine {
	t.Helper()

	if len(providers) == 0 {
		providers = []engine.ProviderConfig{
			{Name: "ga", Kind: "google", Key: "UA-1234-5"},
			{Name: "km", Kind: "kissmetrics", Key: "abc123"},
		}
	}

	eng, err := engine.New(engine.Config{Providers: providers})
	require.NoError(t, err)

	return eng
}

func writeConfig(t *testing.T, cfg engine.Config) string {
	t.Helper()

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "analytical.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestRunRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runRender(&buf, testEngine(t), renderOptions{}))

	out := buf.String()
	assert.Contains(t, out, "== head_append ==")
	assert.Contains(t, out, "== body_prepend ==")
	assert.NotContains(t, out, "== head_prepend ==")
	assert.NotContains(t, out, "== body_append ==")
	assert.Contains(t, out, "_gaq.push(['_setAccount', 'UA-1234-5']);")
	assert.Contains(t, out, "_kmq")
	assert.Less(t, strings.Index(out, "head_append"), strings.Index(out, "body_prepend"))
}

func TestRunRender_SingleLocation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runRender(&buf, testEngine(t), renderOptions{Location: "body_prepend"}))

	out := buf.String()
	assert.Contains(t, out, "_kmq")
	assert.NotContains(t, out, "_gaq")
}

func TestRunRender_UnknownLocation(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, runRender(&buf, testEngine(t), renderOptions{Location: "footer"}))
}

func TestRunRender_PageAndClient(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runRender(&buf, testEngine(t), renderOptions{Page: "home", Client: true}))

	out := buf.String()
	assert.Contains(t, out, `_gaq.push(['_trackPageview', "home"]);`)
	assert.Contains(t, out, "== client ==")
	assert.Contains(t, out, "Analytical.event = function(name, data)")
}

func TestSpliceHTML(t *testing.T) {
	out := spliceHTML(testEngine(t), blankPage, "")

	head := strings.Index(out, "_gaq")
	headClose := strings.Index(out, "</head>")
	body := strings.Index(out, "<body>")
	kmq := strings.Index(out, "_kmq")

	require.NotEqual(t, -1, head)
	require.NotEqual(t, -1, kmq)
	assert.Less(t, head, headClose)
	assert.Less(t, body, kmq)
}

func TestRunDiff(t *testing.T) {
	against := writeConfig(t, engine.Config{Providers: []engine.ProviderConfig{
		{Name: "ga", Kind: "google", Key: "UA-9999-1"},
	}})

	var buf bytes.Buffer
	require.NoError(t, runDiff(&buf, testEngine(t), "analytical.yaml", against, "", false))

	out := buf.String()
	assert.Contains(t, out, "--- analytical.yaml")
	assert.Contains(t, out, "+++ "+against)
	assert.Contains(t, out, "-_gaq.push(['_setAccount', 'UA-1234-5']);")
	assert.Contains(t, out, "+_gaq.push(['_setAccount', 'UA-9999-1']);")
}

func TestRunDiff_NoDifferences(t *testing.T) {
	cfg := engine.Config{Providers: []engine.ProviderConfig{
		{Name: "ga", Kind: "google", Key: "UA-1234-5"},
	}}
	against := writeConfig(t, cfg)

	var buf bytes.Buffer
	require.NoError(t, runDiff(&buf, testEngine(t, cfg.Providers...), "analytical.yaml", against, "", false))
	assert.Contains(t, buf.String(), "no differences")
}

func TestRunDiff_RequiresAgainst(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, runDiff(&buf, testEngine(t), "analytical.yaml", "", "", false))
}

func TestPreviewMarkdown(t *testing.T) {
	md := previewMarkdown(testEngine(t))

	assert.True(t, strings.HasPrefix(md, "# Analytical snippets\n"))
	assert.Contains(t, md, "| ga | google | head_append |")
	assert.Contains(t, md, "| km | kissmetrics | body_prepend |")
	assert.Contains(t, md, "## head_prepend\n\n_Nothing rendered._")
	assert.Contains(t, md, "## head_append\n\nRendered by: Google\n\n```html\n<!-- Analytical Init: Google -->")
	assert.Contains(t, md, "## body_prepend\n\nRendered by: KissMetrics\n")
	assert.Contains(t, md, "## client")
}

func TestRunProviders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runProviders(&buf, testEngine(t)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "ga")
	assert.Contains(t, lines[1], "UA-1234-5")
	assert.Contains(t, lines[1], "head_append")
	assert.Contains(t, lines[1], "custom_event, client")
	assert.Contains(t, lines[2], "identify, alias")
}

func TestRunKinds(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runKinds(&buf))

	out := buf.String()
	for _, k := range []string{"clicky", "google", "google_legacy", "kissmetrics"} {
		assert.Contains(t, out, k)
	}
}

func TestReadInput(t *testing.T) {
	got, err := readInput("", strings.NewReader("<html></html>"))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", got)

	_, err = readInput("", nil)
	assert.Error(t, err)

	_, err = readInput(filepath.Join(t.TempDir(), "missing.html"), nil)
	assert.Error(t, err)
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "custom.yaml", resolveConfigPath("custom.yaml"))

	t.Setenv("ANALYTICAL_CONFIG", "from-env.yaml")
	assert.Equal(t, "from-env.yaml", resolveConfigPath(""))

	t.Setenv("ANALYTICAL_CONFIG", "")
	assert.Equal(t, defaultConfigPath, resolveConfigPath(""))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadEngine_ExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("ANALYTICAL_TEST_GA_KEY=UA-7777-1\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("ANALYTICAL_TEST_GA_KEY") })
	require.NoError(t, loadDotEnv(envPath))

	cfgPath := filepath.Join(dir, "analytical.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`providers:
  - name: ga
    kind: google
    key: ${ANALYTICAL_TEST_GA_KEY}
`), 0o600))

	eng, err := loadEngine(cfgPath, newLogger(&bytes.Buffer{}, false))
	require.NoError(t, err)
	assert.Contains(t, eng.Page().HeadAppend(), "'UA-7777-1'")
}

func TestRunProviders_TruncatesLongKeys(t *testing.T) {
	key := strings.Repeat("k", 40)
	eng := testEngine(t, engine.ProviderConfig{Name: "km", Kind: "kissmetrics", Key: key})

	var buf bytes.Buffer
	require.NoError(t, runProviders(&buf, eng))

	out := buf.String()
	assert.NotContains(t, out, key)
	assert.Contains(t, out, strings.Repeat("k", maxKeyWidth)+"...")
}

package engine

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/germanamz/analytical/pkg/location"
	"github.com/germanamz/analytical/pkg/providers/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Providers: []ProviderConfig{
			{Name: "ga", Kind: "google", Key: "UA-12345-1"},
			{Name: "km", Kind: "kissmetrics", Key: "km-key"},
			{Name: "clicky", Kind: "clicky", Key: "100012345"},
		},
	}
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	eng, err := New(testConfig(), opts...)
	require.NoError(t, err)

	return eng
}

func TestEngine_New_ProvidersInConfigOrder(t *testing.T) {
	eng := newEngine(t)

	var names []string
	for _, p := range eng.Providers() {
		names = append(names, p.Name())
	}

	assert.Equal(t, []string{"Google", "KissMetrics", "Clicky"}, names)
	assert.Equal(t, testConfig(), eng.Config())
}

func TestEngine_New_InvalidConfig(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorContains(t, err, "at least one provider")
}

func TestEngine_New_MissingKey(t *testing.T) {
	_, err := New(Config{Providers: []ProviderConfig{{Name: "ga", Kind: "google"}}})

	require.ErrorIs(t, err, provider.ErrMissingOption)
	assert.Contains(t, err.Error(), `engine: provider "ga"`)
}

func TestEngine_New_LogsProviders(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	newEngine(t, WithLogger(log))

	out := buf.String()
	assert.Contains(t, out, "provider ready")
	assert.Contains(t, out, "name=ga")
	assert.Contains(t, out, "location=body_prepend")
}

func TestEngine_New_PublishesProviderReady(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(8)
	defer bus.Unsubscribe(sub)

	eng := newEngine(t, WithEventBus(bus))
	assert.Same(t, bus, eng.Events())

	select {
	case got := <-sub.C:
		assert.Equal(t, EventProviderReady, got.Kind)
		assert.Equal(t, "ga", got.Provider)
		assert.Equal(t, location.HeadAppend, got.Location)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestEngine_Providers_ReturnsCopy(t *testing.T) {
	eng := newEngine(t)

	ps := eng.Providers()
	ps[0] = nil

	assert.NotNil(t, eng.Providers()[0])
}

func TestEngine_InitJavaScript(t *testing.T) {
	eng := newEngine(t)

	assert.Empty(t, eng.InitJavaScript(location.HeadPrepend))
	assert.Contains(t, eng.InitJavaScript(location.HeadAppend), "UA-12345-1")
	assert.Contains(t, eng.InitJavaScript(location.BodyPrepend), "km-key")
	assert.Contains(t, eng.InitJavaScript(location.BodyAppend), "clicky.init(100012345);")
}

func TestEngine_ClientJavaScript(t *testing.T) {
	eng := newEngine(t)

	got := eng.ClientJavaScript()

	assert.True(t, strings.HasPrefix(got, "<!-- Analytical Javascript -->\n"))
	assert.Contains(t, got, "Analytical.event = function(name, data) {")
	assert.Contains(t, got, "_gaq.push(['_trackEvent', data.category, name, data.label, data.value, data.noninteraction]);")
	assert.Contains(t, got, "Analytical.set = function(data) {")
	assert.Contains(t, got, "_gaq.push(['_setCustomVar', data.index, data.name, data.value, data.scope]);")
}

func TestEngine_ClientJavaScript_NoScripters(t *testing.T) {
	eng, err := New(Config{Providers: []ProviderConfig{{Name: "c", Kind: "clicky", Key: "1"}}})
	require.NoError(t, err)

	assert.Empty(t, eng.ClientJavaScript())
}

func TestEngine_Page_UniqueIDs(t *testing.T) {
	eng := newEngine(t)

	var (
		mu  sync.Mutex
		ids = map[string]struct{}{}
		wg  sync.WaitGroup
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			id := eng.Page().ID()

			mu.Lock()
			ids[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 20)
}

func TestEngine_ConcurrentRendersAreIndependent(t *testing.T) {
	eng := newEngine(t)

	want := eng.Page().Splice(testHTML)

	var wg sync.WaitGroup
	results := make([]string, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = eng.Page().Splice(testHTML)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

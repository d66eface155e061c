package engine

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/germanamz/analytical/pkg/location"
	"github.com/germanamz/analytical/pkg/providers/provider"
)

// Option configures Engine behaviour.
type Option func(*Engine)

// WithLogger sets the logger used for construction and render diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithEventBus publishes engine activity on bus instead of a private bus.
func WithEventBus(bus *EventBus) Option {
	return func(e *Engine) { e.events = bus }
}

// Engine holds the configured providers. It is immutable after New and safe
// for concurrent use by any number of page renders.
type Engine struct {
	cfg       Config
	providers []provider.Provider
	log       *slog.Logger
	events    *EventBus

	nextPage atomic.Int64
}

// New creates an Engine from the given configuration. It validates the config
// and builds one provider per entry, in config order.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		providers: make([]provider.Provider, 0, len(cfg.Providers)),
	}
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	if e.events == nil {
		e.events = NewEventBus()
	}

	for _, pc := range cfg.Providers {
		p, err := buildProvider(pc)
		if err != nil {
			return nil, fmt.Errorf("engine: provider %q: %w", pc.Name, err)
		}

		e.providers = append(e.providers, p)
		e.log.Info("provider ready",
			"name", pc.Name,
			"kind", pc.Kind,
			"location", p.TrackingCommandLocation(),
		)
		e.events.Publish(Event{
			Kind:      EventProviderReady,
			Provider:  pc.Name,
			Location:  p.TrackingCommandLocation(),
			Timestamp: time.Now(),
		})
	}

	return e, nil
}

// Config returns the configuration the engine was built from.
func (e *Engine) Config() Config { return e.cfg }

// Providers returns the configured providers in config order.
func (e *Engine) Providers() []provider.Provider {
	out := make([]provider.Provider, len(e.providers))
	copy(out, e.providers)

	return out
}

// Events returns the bus engine activity is published on.
func (e *Engine) Events() *EventBus { return e.events }

// Page starts a page render with an empty command queue.
func (e *Engine) Page() *Page {
	id := strconv.FormatInt(e.nextPage.Add(1), 10)

	return newPage(id, e)
}

// InitJavaScript concatenates every provider's initialization script for loc.
// Providers configured for other locations contribute nothing.
func (e *Engine) InitJavaScript(loc location.Location) string {
	var b strings.Builder
	for _, p := range e.providers {
		b.WriteString(p.InitJavaScript(loc))
	}

	return b.String()
}

// ClientJavaScript renders a page-global Analytical object whose event and set
// functions forward to every provider that supplies client functions. It
// renders nothing when no provider does.
func (e *Engine) ClientJavaScript() string {
	var events, sets []string
	for _, p := range e.providers {
		cs, ok := p.(provider.ClientScripter)
		if !ok {
			continue
		}

		events = append(events, "  ("+cs.EventJavaScript()+")(name, data);")
		sets = append(sets, "  ("+cs.SetJavaScript()+")(data);")
	}

	if len(events) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<!-- Analytical Javascript -->\n")
	b.WriteString("<script type=\"text/javascript\">\n")
	b.WriteString("var Analytical = Analytical || {};\n")
	b.WriteString("Analytical.event = function(name, data) {\n")
	b.WriteString(strings.Join(events, "\n"))
	b.WriteString("\n};\n")
	b.WriteString("Analytical.set = function(data) {\n")
	b.WriteString(strings.Join(sets, "\n"))
	b.WriteString("\n};\n")
	b.WriteString("</script>\n")

	return b.String()
}

package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/germanamz/analytical/pkg/customvar"
	"github.com/germanamz/analytical/pkg/location"
)

// ErrMissingOption is returned by adapter constructors when a required
// configuration option is empty.
var ErrMissingOption = errors.New("provider: missing required option")

// ErrInvalidOption is returned by adapter constructors when an option has a
// value the backend cannot accept.
var ErrInvalidOption = errors.New("provider: invalid option")

// Provider is the capability set every analytics adapter implements. Every
// method returns a snippet of JavaScript; an adapter whose backend has no
// equivalent call returns the empty string.
type Provider interface {
	// Name identifies the backend in generated HTML comments and logs.
	Name() string
	// TrackingCommandLocation is the insertion point of the initialization script.
	TrackingCommandLocation() location.Location
	// InitJavaScript returns the wrapped initialization script when loc is the
	// tracking command location, and the empty string otherwise.
	InitJavaScript(loc location.Location) string
	// Track renders a page view. Only the first page name is used.
	Track(page ...string) string
	Event(name string, opts EventOptions) string
	CustomVariable(v customvar.Variable) string
	Set(opts SetOptions) string
	AddItem(orderID, sku, name, category, price, quantity any) string
	// AddTrans renders a transaction; optional holds tax, shipping, city,
	// state and country in that order.
	AddTrans(orderID, affiliation, total any, optional ...any) string
	TrackTrans() string
}

// CustomEventer is implemented by providers with a free-form event call.
type CustomEventer interface {
	CustomEvent(category, action string, label, value any) string
}

// ClientScripter is implemented by providers that can render client-side
// functions for events and custom variables raised by page scripts.
type ClientScripter interface {
	// EventJavaScript returns a function expression taking (name, data).
	EventJavaScript() string
	// SetJavaScript returns a function expression taking (data).
	SetJavaScript() string
}

// Identifier is implemented by providers that track named visitors.
type Identifier interface {
	Identify(id string) string
}

// Aliaser is implemented by providers that can merge two visitor identities.
type Aliaser interface {
	AliasIdentity(from, to string) string
}

// CustomVariableDeferrer is implemented by providers that collect custom
// variables in a page-global array drained by their initialization script.
// Custom variables queued for them must be written ahead of that script.
type CustomVariableDeferrer interface {
	DefersCustomVariables() bool
}

// PageViewIniter is implemented by providers whose initialization script
// records a page view. InitJavaScriptTracking renders the script with that
// page view naming page, so a page view queued on the page is not sent twice.
type PageViewIniter interface {
	InitJavaScriptTracking(loc location.Location, page ...string) string
}

// DefaultEventCategory is used when EventOptions.Category is empty.
const DefaultEventCategory = "Event"

// EventOptions holds the recognised optional fields of an event. Nil fields
// are absent.
type EventOptions struct {
	Category       string // Empty means DefaultEventCategory.
	Label          *string
	Value          *float64
	NonInteraction *bool
}

// CategoryOrDefault returns Category, or DefaultEventCategory when it is empty.
func (o EventOptions) CategoryOrDefault() string {
	if o.Category == "" {
		return DefaultEventCategory
	}

	return o.Category
}

// EventOptionsFromMap reads the recognised keys (category, label, value,
// noninteraction) from m and ignores everything else, including keys whose
// values have the wrong type.
func EventOptionsFromMap(m map[string]any) EventOptions {
	var o EventOptions

	if s, ok := m["category"].(string); ok {
		o.Category = s
	}

	if s, ok := m["label"].(string); ok {
		o.Label = &s
	}

	if f, ok := toFloat(m["value"]); ok {
		o.Value = &f
	}

	if b, ok := m["noninteraction"].(bool); ok {
		o.NonInteraction = &b
	}

	return o
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// SetOptions holds the fields of a custom variable set call. A zero Scope is
// absent and omitted from the call.
type SetOptions struct {
	Index int
	Name  string
	Value string
	Scope customvar.Scope
}

// String returns a pointer to s, for optional string fields.
func String(s string) *string { return &s }

// Float returns a pointer to f, for optional numeric fields.
func Float(f float64) *float64 { return &f }

// Bool returns a pointer to b, for optional boolean fields.
func Bool(b bool) *bool { return &b }

// Module holds state shared by every adapter. Embed it in concrete adapter
// structs to get the location gate, the HTML wrapper and empty defaults for
// the whole capability set. Concrete types shadow the methods their backend
// supports.
type Module struct {
	name string
	loc  location.Location
}

// NewModule creates a Module for the named backend whose initialization
// script belongs at loc.
func NewModule(name string, loc location.Location) Module {
	return Module{name: name, loc: loc}
}

// Name returns the backend name.
func (m Module) Name() string { return m.name }

// TrackingCommandLocation returns the insertion point fixed at construction.
func (m Module) TrackingCommandLocation() location.Location { return m.loc }

// InitLocation renders through render only when loc is the tracking command location.
func (m Module) InitLocation(loc location.Location, render func() string) string {
	return location.Gate(m.loc, loc, render)
}

// Wrap surrounds script with the identifying comment and a script tag.
func (m Module) Wrap(script string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<!-- Analytical Init: %s -->\n", m.name)
	b.WriteString("<script type=\"text/javascript\">\n")
	b.WriteString(strings.TrimRight(script, "\n"))
	b.WriteString("\n</script>\n")

	return b.String()
}

// RequireOption returns ErrMissingOption naming opt when value is empty.
func (m Module) RequireOption(opt, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s: %w %q", strings.ToLower(m.name), ErrMissingOption, opt)
	}

	return nil
}

// InitJavaScript is a stub that renders nothing.
func (m Module) InitJavaScript(location.Location) string { return "" }

// Track is a stub that renders nothing.
func (m Module) Track(...string) string { return "" }

// Event is a stub that renders nothing.
func (m Module) Event(string, EventOptions) string { return "" }

// CustomVariable is a stub that renders nothing.
func (m Module) CustomVariable(customvar.Variable) string { return "" }

// Set is a stub that renders nothing.
func (m Module) Set(SetOptions) string { return "" }

// AddItem is a stub that renders nothing.
func (m Module) AddItem(_, _, _, _, _, _ any) string { return "" }

// AddTrans is a stub that renders nothing.
func (m Module) AddTrans(_, _, _ any, _ ...any) string { return "" }

// TrackTrans is a stub that renders nothing.
func (m Module) TrackTrans() string { return "" }

// verifyProvider ensures Module satisfies Provider at compile time.
var _ Provider = Module{}

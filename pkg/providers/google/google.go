// Package google implements provider.Provider for Google Analytics using the
// asynchronous `_gaq` command queue.
//
// Custom variables supplied in Options are pushed directly from the
// initialization script; CustomVariable renders the same push call for use
// anywhere on the page.
package google

import (
	"strings"

	"github.com/germanamz/analytical/pkg/customvar"
	"github.com/germanamz/analytical/pkg/jscall"
	"github.com/germanamz/analytical/pkg/location"
	"github.com/germanamz/analytical/pkg/providers/provider"
)

// Name is the backend name used in generated comments.
const Name = "Google"

// TrackingCommandLocation is where the initialization script is injected.
const TrackingCommandLocation = location.HeadAppend

// Loader injects ga.js asynchronously.
const Loader = `(function() {
  var ga = document.createElement('script'); ga.type = 'text/javascript'; ga.async = true;
  ga.src = ('https:' == document.location.protocol ? 'https://ssl' : 'http://www') + '.google-analytics.com/ga.js';
  var s = document.getElementsByTagName('script')[0]; s.parentNode.insertBefore(ga, s);
})();`

// Options configures an Adapter.
type Options struct {
	Key               string // Web property ID, e.g. UA-XXXX-Y. Required.
	Domain            string // Optional cookie domain.
	AllowLinker       bool
	TrackPageLoadTime bool
	CustomVariables   []customvar.Variable // Pushed from the initialization script, in order.
}

// Call shapes. Each declares the quoting and arity rules of one `_gaq` command.
var (
	// push renders `_gaq.push(['_command', args...]);` with literal arguments.
	push = func(params ...jscall.Param) jscall.Shape {
		return jscall.Shape{
			Prefix: "_gaq.push([",
			Suffix: "]);",
			Sep:    ", ",
			Params: append([]jscall.Param{{Name: "command"}}, params...),
		}
	}

	commandShape = push()
	valueShape   = push(jscall.Param{Name: "value"})

	trackShape = push(jscall.Param{Name: "page", Encoding: jscall.DoubleQuoted})

	// SetCustomVarShape renders `_setCustomVar` with an optional trailing scope.
	SetCustomVarShape = jscall.Shape{
		Prefix: "_gaq.push(['_setCustomVar', ",
		Suffix: "]);",
		Sep:    ", ",
		Params: []jscall.Param{
			{Name: "index"},
			{Name: "name"},
			{Name: "value"},
			{Name: "scope"},
		},
	}

	// Events are written as a JSON array: interior gaps become null, trailing
	// gaps are dropped.
	eventShape = jscall.Shape{
		Prefix: "_gaq.push([",
		Suffix: "]);",
		Sep:    ",",
		Params: []jscall.Param{
			{Name: "command", Encoding: jscall.JSON},
			{Name: "category", Encoding: jscall.JSON},
			{Name: "action", Encoding: jscall.JSON},
			{Name: "label", Encoding: jscall.JSON},
			{Name: "value", Encoding: jscall.JSON},
			{Name: "noninteraction", Encoding: jscall.JSON},
		},
	}

	// E-commerce calls have a fixed arity: every argument is a string and
	// absent ones are written as ''.
	addItemShape = push(
		jscall.Param{Name: "order_id", Encoding: jscall.Quoted, Absent: jscall.Blank},
		jscall.Param{Name: "sku", Encoding: jscall.Quoted, Absent: jscall.Blank},
		jscall.Param{Name: "name", Encoding: jscall.Quoted, Absent: jscall.Blank},
		jscall.Param{Name: "category", Encoding: jscall.Quoted, Absent: jscall.Blank},
		jscall.Param{Name: "price", Encoding: jscall.Quoted, Absent: jscall.Blank},
		jscall.Param{Name: "quantity", Encoding: jscall.Quoted, Absent: jscall.Blank},
	)

	addTransShape = push(
		jscall.Param{Name: "order_id", Encoding: jscall.Quoted, Absent: jscall.Blank},
		jscall.Param{Name: "affiliation", Encoding: jscall.Quoted, Absent: jscall.Blank},
		jscall.Param{Name: "total", Encoding: jscall.Quoted, Absent: jscall.Blank},
		jscall.Param{Name: "tax", Encoding: jscall.Quoted, Absent: jscall.Blank},
		jscall.Param{Name: "shipping", Encoding: jscall.Quoted, Absent: jscall.Blank},
		jscall.Param{Name: "city", Encoding: jscall.Quoted, Absent: jscall.Blank},
		jscall.Param{Name: "state", Encoding: jscall.Quoted, Absent: jscall.Blank},
		jscall.Param{Name: "country", Encoding: jscall.Quoted, Absent: jscall.Blank},
	)
)

// Adapter renders `_gaq` snippets.
type Adapter struct {
	provider.Module
	Options Options
	Vars    customvar.Buffer
}

// New creates an Adapter. It fails when the key is empty.
func New(opts Options) (*Adapter, error) {
	a := &Adapter{
		Module:  provider.NewModule(Name, TrackingCommandLocation),
		Options: opts,
		Vars:    customvar.Immediate{Shape: SetCustomVarShape},
	}

	if err := a.RequireOption("key", opts.Key); err != nil {
		return nil, err
	}

	return a, nil
}

// InitJavaScript returns the initialization script at the head_append location.
func (a *Adapter) InitJavaScript(loc location.Location) string {
	return a.InitJavaScriptTracking(loc)
}

// InitJavaScriptTracking is InitJavaScript with the initial `_trackPageview`
// naming page.
func (a *Adapter) InitJavaScriptTracking(loc location.Location, page ...string) string {
	return a.InitLocation(loc, func() string {
		return a.Wrap(a.InitBody(a.Vars.Init(a.Options.CustomVariables), page...))
	})
}

// DefersCustomVariables reports whether the custom-variable buffer collects
// variables on the page for the initialization script to apply.
func (a *Adapter) DefersCustomVariables() bool {
	_, ok := a.Vars.(customvar.Deferred)
	return ok
}

// InitBody renders the unwrapped initialization script with vars as its
// custom-variable section and a page view of page.
func (a *Adapter) InitBody(vars string, page ...string) string {
	lines := []string{
		"var _gaq = _gaq || [];",
		valueShape.Render("_setAccount", a.Options.Key),
	}

	if a.Options.Domain != "" {
		lines = append(lines, valueShape.Render("_setDomainName", a.Options.Domain))
	}

	if a.Options.AllowLinker {
		lines = append(lines, valueShape.Render("_setAllowLinker", true))
	}

	if a.Options.TrackPageLoadTime {
		lines = append(lines, commandShape.Render("_trackPageLoadTime"))
	}

	if vars != "" {
		lines = append(lines, vars)
	}

	lines = append(lines, a.Track(page...), Loader)

	return strings.Join(lines, "\n")
}

// Track renders `_trackPageview`, with the page name when one is given.
func (a *Adapter) Track(page ...string) string {
	if len(page) == 0 {
		return trackShape.Render("_trackPageview")
	}

	return trackShape.Render("_trackPageview", page[0])
}

// Event renders `_trackEvent` with name as the action.
func (a *Adapter) Event(name string, opts provider.EventOptions) string {
	return eventShape.Render(
		"_trackEvent",
		opts.CategoryOrDefault(),
		name,
		jscall.Opt(opts.Label),
		jscall.Opt(opts.Value),
		jscall.Opt(opts.NonInteraction),
	)
}

// CustomEvent renders `_trackEvent` with an explicit category and action.
func (a *Adapter) CustomEvent(category, action string, label, value any) string {
	return eventShape.Render("_trackEvent", category, action, label, value)
}

// CustomVariable renders `_setCustomVar` for v.
func (a *Adapter) CustomVariable(v customvar.Variable) string {
	return a.Vars.Call(v)
}

// Set renders `_setCustomVar`; the scope is appended only when set.
func (a *Adapter) Set(opts provider.SetOptions) string {
	var scope any
	if opts.Scope != 0 {
		scope = int(opts.Scope)
	}

	return SetCustomVarShape.Render(opts.Index, opts.Name, opts.Value, scope)
}

// AddItem renders `_addItem`.
func (a *Adapter) AddItem(orderID, sku, name, category, price, quantity any) string {
	return addItemShape.Render("_addItem", orderID, sku, name, category, price, quantity)
}

// AddTrans renders `_addTrans`. Optional holds tax, shipping, city, state and
// country.
func (a *Adapter) AddTrans(orderID, affiliation, total any, optional ...any) string {
	args := append([]any{"_addTrans", orderID, affiliation, total}, optional...)

	return addTransShape.Render(args...)
}

// TrackTrans renders `_trackTrans`.
func (a *Adapter) TrackTrans() string {
	return commandShape.Render("_trackTrans")
}

// EventJavaScript returns a client function pushing `_trackEvent` from a
// data object.
func (a *Adapter) EventJavaScript() string {
	return `function(name, data) {
  data = data || {};
  data.category = data.category || 'Event';
  _gaq.push(['_trackEvent', data.category, name, data.label, data.value, data.noninteraction]);
}`
}

// SetJavaScript returns a client function pushing `_setCustomVar` from a
// data object.
func (a *Adapter) SetJavaScript() string {
	return `function(data) {
  _gaq.push(['_setCustomVar', data.index, data.name, data.value, data.scope]);
}`
}

var (
	_ provider.Provider               = (*Adapter)(nil)
	_ provider.CustomEventer          = (*Adapter)(nil)
	_ provider.ClientScripter         = (*Adapter)(nil)
	_ provider.PageViewIniter         = (*Adapter)(nil)
	_ provider.CustomVariableDeferrer = (*Adapter)(nil)
)

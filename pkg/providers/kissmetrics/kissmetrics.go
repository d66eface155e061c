// Package kissmetrics implements provider.Provider for KISSmetrics using the
// `_kmq` command queue.
//
// KISSmetrics records named events with property objects and has no page view
// or e-commerce calls; those capabilities render nothing.
package kissmetrics

import (
	"github.com/germanamz/analytical/pkg/customvar"
	"github.com/germanamz/analytical/pkg/jscall"
	"github.com/germanamz/analytical/pkg/location"
	"github.com/germanamz/analytical/pkg/providers/provider"
)

// Name is the backend name used in generated comments.
const Name = "KissMetrics"

// TrackingCommandLocation is where the initialization script is injected.
const TrackingCommandLocation = location.BodyPrepend

// Options configures an Adapter.
type Options struct {
	Key string // API key used to load the account script. Required.
}

// Every `_kmq` command is a JSON array.
var kmqShape = jscall.Shape{
	Prefix: "_kmq.push([",
	Suffix: "]);",
	Sep:    ",",
	Params: []jscall.Param{
		{Name: "command", Encoding: jscall.JSON},
		{Name: "arg1", Encoding: jscall.JSON},
		{Name: "arg2", Encoding: jscall.JSON},
	},
}

type eventProperties struct {
	Category       string   `json:"category"`
	Label          *string  `json:"label,omitempty"`
	Value          *float64 `json:"value,omitempty"`
	NonInteraction *bool    `json:"noninteraction,omitempty"`
}

// Adapter renders `_kmq` snippets.
type Adapter struct {
	provider.Module
	Options Options
}

// New creates an Adapter. It fails when the key is empty.
func New(opts Options) (*Adapter, error) {
	a := &Adapter{
		Module:  provider.NewModule(Name, TrackingCommandLocation),
		Options: opts,
	}

	if err := a.RequireOption("key", opts.Key); err != nil {
		return nil, err
	}

	return a, nil
}

// InitJavaScript returns the queue setup and loaders at the body_prepend location.
func (a *Adapter) InitJavaScript(loc location.Location) string {
	return a.InitLocation(loc, func() string {
		return a.Wrap(`var _kmq = _kmq || [];
var _kmk = _kmk || ` + jscall.SingleQuote(a.Options.Key) + `;
function _kms(u){
  setTimeout(function(){
    var d = document, f = d.getElementsByTagName('script')[0], s = d.createElement('script');
    s.type = 'text/javascript'; s.async = true; s.src = u;
    f.parentNode.insertBefore(s, f);
  }, 1);
}
_kms('//i.kissmetrics.com/i.js');
_kms('//scripts.kissmetrics.com/' + _kmk + '.2.js');`)
	})
}

// Event records name with the present options as properties.
func (a *Adapter) Event(name string, opts provider.EventOptions) string {
	return kmqShape.Render("record", name, eventProperties{
		Category:       opts.CategoryOrDefault(),
		Label:          opts.Label,
		Value:          opts.Value,
		NonInteraction: opts.NonInteraction,
	})
}

// CustomVariable sets v.Key to v.Value on the current visitor. Slot and scope
// have no KISSmetrics equivalent.
func (a *Adapter) CustomVariable(v customvar.Variable) string {
	return kmqShape.Render("set", map[string]string{v.Key: v.Value})
}

// Set sets opts.Name to opts.Value on the current visitor.
func (a *Adapter) Set(opts provider.SetOptions) string {
	return kmqShape.Render("set", map[string]string{opts.Name: opts.Value})
}

// Identify names the current visitor.
func (a *Adapter) Identify(id string) string {
	return kmqShape.Render("identify", id)
}

// AliasIdentity ties two identities to the same visitor.
func (a *Adapter) AliasIdentity(from, to string) string {
	return kmqShape.Render("alias", from, to)
}

var (
	_ provider.Provider   = (*Adapter)(nil)
	_ provider.Identifier = (*Adapter)(nil)
	_ provider.Aliaser    = (*Adapter)(nil)
)

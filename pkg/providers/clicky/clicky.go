// Package clicky implements provider.Provider for Clicky.
package clicky

import (
	"fmt"
	"strconv"

	"github.com/germanamz/analytical/pkg/jscall"
	"github.com/germanamz/analytical/pkg/location"
	"github.com/germanamz/analytical/pkg/providers/provider"
)

// Name is the backend name used in generated comments.
const Name = "Clicky"

// TrackingCommandLocation is where the initialization script is injected.
const TrackingCommandLocation = location.BodyAppend

// Options configures an Adapter.
type Options struct {
	Key string // Numeric site ID, written unquoted. Required.
}

var (
	logShape = jscall.Shape{
		Prefix: "clicky.log(",
		Suffix: ");",
		Params: []jscall.Param{{Name: "href", Encoding: jscall.DoubleQuoted}},
	}

	goalShape = jscall.Shape{
		Prefix: "clicky.goal(",
		Suffix: ");",
		Sep:    ", ",
		Params: []jscall.Param{
			{Name: "goal", Encoding: jscall.DoubleQuoted},
			{Name: "revenue", Encoding: jscall.JSON},
		},
	}
)

// Adapter renders `clicky` snippets.
type Adapter struct {
	provider.Module
	Options Options
}

// New creates an Adapter. It fails when the key is empty or not a numeric
// site ID.
func New(opts Options) (*Adapter, error) {
	a := &Adapter{
		Module:  provider.NewModule(Name, TrackingCommandLocation),
		Options: opts,
	}

	if err := a.RequireOption("key", opts.Key); err != nil {
		return nil, err
	}

	if _, err := strconv.ParseUint(opts.Key, 10, 64); err != nil {
		return nil, fmt.Errorf("clicky: %w %q: site id must be numeric, got %q", provider.ErrInvalidOption, "key", opts.Key)
	}

	return a, nil
}

// InitJavaScript returns the loader, init call and noscript pixel at the
// body_append location.
func (a *Adapter) InitJavaScript(loc location.Location) string {
	return a.InitLocation(loc, func() string {
		key := jscall.Encode(jscall.Raw, a.Options.Key)

		return fmt.Sprintf(`<!-- Analytical Init: %s -->
<script src="//static.getclicky.com/js" type="text/javascript"></script>
<script type="text/javascript">
try { clicky.init(%s); } catch (e) {}
</script>
<noscript><p><img alt="Clicky" width="1" height="1" src="//in.getclicky.com/%sns.gif" /></p></noscript>
`, a.Name(), key, key)
	})
}

// Track logs a page view of the current URL, or of page when one is given.
func (a *Adapter) Track(page ...string) string {
	if len(page) == 0 {
		return "clicky.log(document.location.href);"
	}

	return logShape.Render(page[0])
}

// Event reports a goal; the value option becomes its revenue.
func (a *Adapter) Event(name string, opts provider.EventOptions) string {
	return goalShape.Render(name, jscall.Opt(opts.Value))
}

var _ provider.Provider = (*Adapter)(nil)

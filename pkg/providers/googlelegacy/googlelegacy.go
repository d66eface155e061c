// Package googlelegacy implements the earlier `_gaq` adapter for Google
// Analytics.
//
// It shares the page view, custom variable and e-commerce vocabulary of
// package google but differs in two ways. Custom variables set on the page are
// appended to a page-global array that the initialization script drains, so
// they must be written before that script. Events use the older call
// `_gaq.push(['_trackEvent', "name" , value , "test", 1 ]);` whose trailing
// label and value are fixed.
package googlelegacy

import (
	"fmt"

	"github.com/germanamz/analytical/pkg/customvar"
	"github.com/germanamz/analytical/pkg/jscall"
	"github.com/germanamz/analytical/pkg/providers/google"
	"github.com/germanamz/analytical/pkg/providers/provider"
)

// Global is the page-global array holding deferred custom variables.
const Global = customvar.DefaultGlobal

// Push applies one deferred entry, bound to cv, inside the init loop.
const Push = "_gaq.push(['_setCustomVar', cv.slot, cv.key, cv.value, cv.scope]);"

// eventFormat takes the quoted name and the value clause, which is empty
// when no value is given.
const eventFormat = `_gaq.push(['_trackEvent', %s %s , "test", 1 ]);`

// Adapter renders legacy `_gaq` snippets.
type Adapter struct {
	*google.Adapter
}

// New creates an Adapter. Options.CustomVariables is ignored: this variant
// only learns about custom variables in the browser.
func New(opts google.Options) (*Adapter, error) {
	opts.CustomVariables = nil

	a, err := google.New(opts)
	if err != nil {
		return nil, err
	}

	a.Vars = customvar.Deferred{Global: Global, Push: Push}

	return &Adapter{Adapter: a}, nil
}

// Event renders the legacy `_trackEvent` call. Only the value option is used.
func (a *Adapter) Event(name string, opts provider.EventOptions) string {
	var value string
	if opts.Value != nil {
		value = ", " + jscall.Encode(jscall.JSON, *opts.Value)
	}

	return fmt.Sprintf(eventFormat, jscall.DoubleQuote(name), value)
}

var _ provider.Provider = (*Adapter)(nil)

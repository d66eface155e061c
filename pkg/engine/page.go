package engine

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/germanamz/analytical/pkg/customvar"
	"github.com/germanamz/analytical/pkg/location"
	"github.com/germanamz/analytical/pkg/providers/provider"
)

// Command is a tracking call queued on a Page. Render returns the empty
// string for providers without an equivalent call.
type Command struct {
	Name   string
	Render func(p provider.Provider) string

	beforeInit bool     // written ahead of the init script for providers that defer custom variables
	pageView   bool     // folded into the init script of providers that record a page view on init
	page       []string // page name of a page view
}

// Page collects the tracking calls made while one page is composed and renders
// them, together with each provider's initialization script, at the four
// insertion points. A Page is safe for concurrent use but is meant to live for
// a single render.
type Page struct {
	id     string
	engine *Engine

	mu    sync.Mutex
	queue []Command
}

func newPage(id string, e *Engine) *Page {
	return &Page{id: id, engine: e}
}

// ID returns the page identifier used in events.
func (p *Page) ID() string { return p.id }

// Queue appends a command. It is rendered at each provider's tracking command
// location, after the provider's initialization script.
func (p *Page) Queue(c Command) {
	p.mu.Lock()
	p.queue = append(p.queue, c)
	p.mu.Unlock()

	p.engine.log.Debug("command queued", "page", p.id, "command", c.Name)
	p.engine.events.Publish(Event{
		Kind:      EventCommandQueued,
		PageID:    p.id,
		Timestamp: time.Now(),
		Data:      c.Name,
	})
}

// Commands returns a copy of the queued commands.
func (p *Page) Commands() []Command {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Command, len(p.queue))
	copy(out, p.queue)

	return out
}

// Track queues a page view.
func (p *Page) Track(page ...string) {
	p.Queue(trackCommand(page))
}

// Event queues an event.
func (p *Page) Event(name string, opts provider.EventOptions) {
	p.Queue(eventCommand(name, opts))
}

// CustomVariable queues a custom variable.
func (p *Page) CustomVariable(v customvar.Variable) {
	p.Queue(customVariableCommand(v))
}

// Set queues a custom variable set call.
func (p *Page) Set(opts provider.SetOptions) {
	p.Queue(setCommand(opts))
}

// AddItem queues an e-commerce item.
func (p *Page) AddItem(orderID, sku, name, category, price, quantity any) {
	p.Queue(addItemCommand(orderID, sku, name, category, price, quantity))
}

// AddTrans queues an e-commerce transaction.
func (p *Page) AddTrans(orderID, affiliation, total any, optional ...any) {
	p.Queue(addTransCommand(orderID, affiliation, total, optional))
}

// TrackTrans queues submission of the e-commerce transaction.
func (p *Page) TrackTrans() {
	p.Queue(trackTransCommand())
}

// Identify queues a visitor identification for providers that support it.
func (p *Page) Identify(id string) {
	p.Queue(identifyCommand(id))
}

// Now returns a view that renders calls immediately instead of queueing them.
func (p *Page) Now() Now {
	return Now{providers: p.engine.providers}
}

// JavaScript renders everything that belongs at loc: for each provider in
// config order, its initialization script and, when loc is its tracking
// command location, its queued commands in their own script block.
//
// Queued custom variables for a provider that defers them are written in a
// block before the initialization script, which drains them. The first queued
// page view for a provider that records one on initialization replaces that
// page view instead of adding a second.
func (p *Page) JavaScript(loc location.Location) string {
	commands := p.Commands()

	var b strings.Builder
	for _, prov := range p.engine.providers {
		var script, before, after string
		if prov.TrackingCommandLocation() == loc {
			script, before, after = renderAt(prov, loc, commands)
		} else {
			script = prov.InitJavaScript(loc)
		}

		writeScript(&b, before)
		b.WriteString(script)
		writeScript(&b, after)

		if script != "" || before != "" || after != "" {
			p.engine.log.Debug("script rendered", "page", p.id, "provider", prov.Name(), "location", loc)
			p.engine.events.Publish(Event{
				Kind:      EventScriptRendered,
				PageID:    p.id,
				Provider:  prov.Name(),
				Location:  loc,
				Timestamp: time.Now(),
			})
		}
	}

	return b.String()
}

// renderAt renders prov's initialization script at its tracking command
// location together with the queued commands that go before and after it.
func renderAt(prov provider.Provider, loc location.Location, commands []Command) (script, before, after string) {
	d, ok := prov.(provider.CustomVariableDeferrer)
	defers := ok && d.DefersCustomVariables()
	initer, tracksOnInit := prov.(provider.PageViewIniter)

	var (
		pre, post []Command
		pageView  *Command
	)
	for i := range commands {
		c := &commands[i]
		switch {
		case c.pageView && tracksOnInit && pageView == nil:
			pageView = c
		case c.beforeInit && defers:
			pre = append(pre, *c)
		default:
			post = append(post, *c)
		}
	}

	if pageView != nil {
		script = initer.InitJavaScriptTracking(loc, pageView.page...)
	} else {
		script = prov.InitJavaScript(loc)
	}

	return script, renderAll(prov, pre), renderAll(prov, post)
}

func writeScript(b *strings.Builder, js string) {
	if js == "" {
		return
	}

	b.WriteString("<script type=\"text/javascript\">\n")
	b.WriteString(js)
	b.WriteString("\n</script>\n")
}

// HeadPrepend renders the head_prepend location.
func (p *Page) HeadPrepend() string { return p.JavaScript(location.HeadPrepend) }

// HeadAppend renders the head_append location.
func (p *Page) HeadAppend() string { return p.JavaScript(location.HeadAppend) }

// BodyPrepend renders the body_prepend location.
func (p *Page) BodyPrepend() string { return p.JavaScript(location.BodyPrepend) }

// BodyAppend renders the body_append location.
func (p *Page) BodyAppend() string { return p.JavaScript(location.BodyAppend) }

var (
	headOpenRe  = regexp.MustCompile(`(?i)<head(\s[^>]*)?>`)
	headCloseRe = regexp.MustCompile(`(?i)</head\s*>`)
	bodyOpenRe  = regexp.MustCompile(`(?i)<body(\s[^>]*)?>`)
	bodyCloseRe = regexp.MustCompile(`(?i)</body\s*>`)
)

// Splice inserts the four locations into an HTML document: after the opening
// head tag, before the closing head tag, after the opening body tag and before
// the closing body tag. A location whose tag is missing is skipped.
func (p *Page) Splice(html string) string {
	html = p.insert(html, headOpenRe, location.HeadPrepend, true)
	html = p.insert(html, headCloseRe, location.HeadAppend, false)
	html = p.insert(html, bodyOpenRe, location.BodyPrepend, true)
	html = p.insert(html, bodyCloseRe, location.BodyAppend, false)

	return html
}

func (p *Page) insert(html string, re *regexp.Regexp, loc location.Location, after bool) string {
	js := p.JavaScript(loc)
	if js == "" {
		return html
	}

	m := re.FindStringIndex(html)
	if m == nil {
		p.engine.log.Warn("insertion point not found", "page", p.id, "location", loc)
		return html
	}

	at := m[0]
	if after {
		at = m[1]
		js = "\n" + js
	}

	return html[:at] + js + html[at:]
}

// Now renders tracking calls immediately, joining the output of every
// provider with newlines and skipping providers that render nothing.
type Now struct {
	providers []provider.Provider
}

func (n Now) render(c Command) string {
	return renderEach(n.providers, c)
}

// Track renders a page view.
func (n Now) Track(page ...string) string { return n.render(trackCommand(page)) }

// Event renders an event.
func (n Now) Event(name string, opts provider.EventOptions) string {
	return n.render(eventCommand(name, opts))
}

// CustomVariable renders a custom variable.
func (n Now) CustomVariable(v customvar.Variable) string {
	return n.render(customVariableCommand(v))
}

// Set renders a custom variable set call.
func (n Now) Set(opts provider.SetOptions) string { return n.render(setCommand(opts)) }

// AddItem renders an e-commerce item.
func (n Now) AddItem(orderID, sku, name, category, price, quantity any) string {
	return n.render(addItemCommand(orderID, sku, name, category, price, quantity))
}

// AddTrans renders an e-commerce transaction.
func (n Now) AddTrans(orderID, affiliation, total any, optional ...any) string {
	return n.render(addTransCommand(orderID, affiliation, total, optional))
}

// TrackTrans renders submission of the e-commerce transaction.
func (n Now) TrackTrans() string { return n.render(trackTransCommand()) }

// Identify renders a visitor identification.
func (n Now) Identify(id string) string { return n.render(identifyCommand(id)) }

func renderAll(p provider.Provider, commands []Command) string {
	var lines []string
	for _, c := range commands {
		if s := c.Render(p); s != "" {
			lines = append(lines, s)
		}
	}

	return strings.Join(lines, "\n")
}

func renderEach(providers []provider.Provider, c Command) string {
	var lines []string
	for _, p := range providers {
		if s := c.Render(p); s != "" {
			lines = append(lines, s)
		}
	}

	return strings.Join(lines, "\n")
}

func trackCommand(page []string) Command {
	return Command{Name: "track", pageView: true, page: page, Render: func(p provider.Provider) string {
		return p.Track(page...)
	}}
}

func eventCommand(name string, opts provider.EventOptions) Command {
	return Command{Name: "event", Render: func(p provider.Provider) string {
		return p.Event(name, opts)
	}}
}

func customVariableCommand(v customvar.Variable) Command {
	return Command{Name: "custom_variable", beforeInit: true, Render: func(p provider.Provider) string {
		return p.CustomVariable(v)
	}}
}

func setCommand(opts provider.SetOptions) Command {
	return Command{Name: "set", Render: func(p provider.Provider) string {
		return p.Set(opts)
	}}
}

func addItemCommand(orderID, sku, name, category, price, quantity any) Command {
	return Command{Name: "add_item", Render: func(p provider.Provider) string {
		return p.AddItem(orderID, sku, name, category, price, quantity)
	}}
}

func addTransCommand(orderID, affiliation, total any, optional []any) Command {
	return Command{Name: "add_trans", Render: func(p provider.Provider) string {
		return p.AddTrans(orderID, affiliation, total, optional...)
	}}
}

func trackTransCommand() Command {
	return Command{Name: "track_trans", Render: func(p provider.Provider) string {
		return p.TrackTrans()
	}}
}

func identifyCommand(id string) Command {
	return Command{Name: "identify", Render: func(p provider.Provider) string {
		if i, ok := p.(provider.Identifier); ok {
			return i.Identify(id)
		}
		return ""
	}}
}

package page

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// Selectors used by activation semantics.
const (
	selRadio      = `[role="radio"]`
	selRadioGroup = `[role="radiogroup"]`
	selOption     = `option, [role="option"]`
	selListOwner  = `select, [role="listbox"], [role="combobox"]`
	selContainer  = `[data-params]`
)

var titleExpr = xpath.MustCompile("//title")

// HTMLDocument is an in-memory, mutable HTML tree. Activation mutates the
// accessibility attributes the way the form renderer would, and every
// dispatched event is appended to an event log.
type HTMLDocument struct {
	mu        sync.Mutex
	doc       *goquery.Document
	url       string
	selectors *SelectorCache
	events    []Event
}

// Option configures an HTMLDocument.
type Option func(*HTMLDocument)

// WithSelectorCache shares a compiled selector cache between documents.
func WithSelectorCache(c *SelectorCache) Option {
	return func(d *HTMLDocument) {
		if c != nil {
			d.selectors = c
		}
	}
}

// Parse builds a document from an HTML body. pageURL is reported by URL().
func Parse(body []byte, pageURL string, opts ...Option) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	d := &HTMLDocument{
		doc:       doc,
		url:       pageURL,
		selectors: defaultSelectors,
		events:    make([]Event, 0),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// URL implements Tree.
func (d *HTMLDocument) URL() string {
	return d.url
}

// Title implements Tree.
func (d *HTMLDocument) Title() string {
	if len(d.doc.Nodes) == 0 {
		return ""
	}
	n := htmlquery.QuerySelector(d.doc.Nodes[0], titleExpr)
	if n == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.InnerText(n))
}

// Query implements Tree.
func (d *HTMLDocument) Query(selector string) (Element, bool) {
	return d.wrapFirst(d.find(d.doc.Selection, selector))
}

// QueryAll implements Tree.
func (d *HTMLDocument) QueryAll(selector string) []Element {
	return d.wrapAll(d.find(d.doc.Selection, selector))
}

// Events returns a copy of the event log.
func (d *HTMLDocument) Events() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}

// Render serializes the current state of the tree.
func (d *HTMLDocument) Render() (string, error) {
	return d.doc.Html()
}

func (d *HTMLDocument) record(typ string, n *html.Node, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, Event{Type: typ, Target: describe(n), Value: value})
}

func (d *HTMLDocument) matcher(selector string) cascadia.Selector {
	m, err := d.selectors.Compile(selector)
	if err != nil {
		slog.Warn("selector rejected", slog.String("selector", selector), slog.String("error", err.Error()))
		return nil
	}
	return m
}

func (d *HTMLDocument) find(from *goquery.Selection, selector string) *goquery.Selection {
	m := d.matcher(selector)
	if m == nil {
		return from.FilterFunction(func(int, *goquery.Selection) bool { return false })
	}
	return from.FindMatcher(m)
}

func (d *HTMLDocument) closest(from *goquery.Selection, selector string) *goquery.Selection {
	m := d.matcher(selector)
	if m == nil {
		return from.FilterFunction(func(int, *goquery.Selection) bool { return false })
	}
	return from.ClosestMatcher(m)
}

func (d *HTMLDocument) wrapFirst(sel *goquery.Selection) (Element, bool) {
	if sel.Length() == 0 {
		return nil, false
	}
	return &element{doc: d, sel: sel.First()}, true
}

func (d *HTMLDocument) wrapAll(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &element{doc: d, sel: s})
	})
	return out
}

// describe renders a short, CSS-like identification of a node for the event
// log.
func describe(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(n.Data)
	for _, key := range []string{"id", "role", "name", "aria-label", "data-value"} {
		if v := getAttr(n, key); v != "" {
			if key == "id" {
				b.WriteString("#" + v)
				continue
			}
			fmt.Fprintf(&b, "[%s=%q]", key, v)
		}
	}
	return b.String()
}

// getAttr returns the value of a named attribute on a node, or empty string.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

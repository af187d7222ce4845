// Package page models the host page as a mutable element tree that can be
// queried with CSS selectors and driven with synthetic events.
//
// Tree and Element are the only surface the decoder and the fill orchestrator
// see. HTMLDocument implements them over an in-memory HTML document; a live
// browser binding can implement the same interfaces.
package page

// Event types dispatched by the fill orchestrator.
const (
	EventFocus  = "focus"
	EventBlur   = "blur"
	EventInput  = "input"
	EventChange = "change"
	EventClick  = "click"
)

// Tree is a queryable document.
type Tree interface {
	// URL is the address the document was loaded from.
	URL() string
	// Title is the document title, or "" when the page has none.
	Title() string
	Query(selector string) (Element, bool)
	QueryAll(selector string) []Element
}

// Element is one node of the tree. Query methods only see descendants.
type Element interface {
	Tag() string
	Attr(name string) (string, bool)
	// Text is the trimmed text content.
	Text() string
	// Value follows DOM semantics: input value attribute, textarea text,
	// selected option value for select elements.
	Value() string
	// Checked reports aria-checked="true" or a native checked attribute.
	Checked() bool

	Query(selector string) (Element, bool)
	QueryAll(selector string) []Element

	Focus()
	Blur()
	SetValue(v string)
	// Click performs synthetic activation.
	Click()
	// Dispatch emits a notification without changing state.
	Dispatch(event string)
}

// Event is one entry of a document's event log.
type Event struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	Value  string `json:"value,omitempty"`
}

// Label returns the visible label of a control: its aria-label when present
// and non-empty, its text content otherwise.
func Label(el Element) string {
	if v, ok := el.Attr("aria-label"); ok && v != "" {
		return v
	}
	return el.Text()
}

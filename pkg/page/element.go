package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// element wraps a single-node selection.
type element struct {
	doc *HTMLDocument
	sel *goquery.Selection
}

func (e *element) Tag() string {
	return strings.ToLower(goquery.NodeName(e.sel))
}

func (e *element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *element) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

func (e *element) Value() string {
	switch e.Tag() {
	case "textarea":
		return e.sel.Text()
	case "select":
		opts := e.sel.Find("option")
		chosen := opts.FilterFunction(func(_ int, s *goquery.Selection) bool {
			_, ok := s.Attr("selected")
			return ok
		})
		if chosen.Length() == 0 {
			chosen = opts
		}
		if chosen.Length() == 0 {
			return ""
		}
		return optionValue(chosen.First())
	case "option":
		return optionValue(e.sel)
	}
	if v, ok := e.sel.Attr("value"); ok {
		return v
	}
	return e.sel.AttrOr("data-value", "")
}

func (e *element) Checked() bool {
	if e.sel.AttrOr("aria-checked", "") == "true" {
		return true
	}
	_, ok := e.sel.Attr("checked")
	return ok
}

func (e *element) Query(selector string) (Element, bool) {
	return e.doc.wrapFirst(e.doc.find(e.sel, selector))
}

func (e *element) QueryAll(selector string) []Element {
	return e.doc.wrapAll(e.doc.find(e.sel, selector))
}

func (e *element) Focus() {
	e.doc.record(EventFocus, e.sel.Get(0), "")
}

func (e *element) Blur() {
	e.doc.record(EventBlur, e.sel.Get(0), "")
}

func (e *element) Dispatch(event string) {
	e.doc.record(event, e.sel.Get(0), "")
}

// SetValue assigns the DOM value. Native selects mark the option whose value
// equals v as selected.
func (e *element) SetValue(v string) {
	switch e.Tag() {
	case "textarea":
		e.sel.SetText(v)
	case "select":
		e.sel.Find("option").Each(func(_ int, s *goquery.Selection) {
			if optionValue(s) == v {
				s.SetAttr("selected", "")
			} else {
				s.RemoveAttr("selected")
			}
		})
	default:
		e.sel.SetAttr("value", v)
	}
	e.doc.record("set_value", e.sel.Get(0), v)
}

// Click applies the activation behaviour of the element's role.
func (e *element) Click() {
	e.doc.record(EventClick, e.sel.Get(0), "")

	role := e.sel.AttrOr("role", "")
	inputType := strings.ToLower(e.sel.AttrOr("type", ""))
	switch {
	case role == "radio":
		e.checkExclusive()
	case role == "checkbox":
		e.toggleAria("aria-checked")
	case role == "option" || e.Tag() == "option":
		e.selectOption()
	case e.Tag() == "input" && inputType == "checkbox":
		if _, ok := e.sel.Attr("checked"); ok {
			e.sel.RemoveAttr("checked")
		} else {
			e.sel.SetAttr("checked", "")
		}
	case e.Tag() == "input" && inputType == "radio":
		e.sel.SetAttr("checked", "")
	}
}

// checkExclusive checks this radio and unchecks the others of its group.
// The group is the nearest radiogroup, else the enclosing question container,
// else the whole document.
func (e *element) checkExclusive() {
	group := e.doc.closest(e.sel, selRadioGroup)
	if group.Length() == 0 {
		group = e.doc.closest(e.sel, selContainer)
	}
	if group.Length() == 0 {
		group = e.doc.doc.Selection
	}
	self := e.sel.Get(0)
	e.doc.find(group, selRadio).Each(func(_ int, s *goquery.Selection) {
		if s.Get(0) != self {
			s.SetAttr("aria-checked", "false")
		}
	})
	e.sel.SetAttr("aria-checked", "true")
}

func (e *element) toggleAria(attr string) {
	if e.sel.AttrOr(attr, "") == "true" {
		e.sel.SetAttr(attr, "false")
		return
	}
	e.sel.SetAttr(attr, "true")
}

func (e *element) selectOption() {
	owner := e.doc.closest(e.sel, selListOwner)
	self := e.sel.Get(0)
	if owner.Length() > 0 {
		owner = owner.First()
		e.doc.find(owner, selOption).Each(func(_ int, s *goquery.Selection) {
			if s.Get(0) != self {
				s.SetAttr("aria-selected", "false")
				s.RemoveAttr("selected")
			}
		})
		if goquery.NodeName(owner) != "select" {
			owner.SetAttr("data-value", optionValue(e.sel))
		}
	}
	e.sel.SetAttr("aria-selected", "true")
	if e.Tag() == "option" {
		e.sel.SetAttr("selected", "")
	}
}

// optionValue returns an option's value attribute, data-value, or trimmed
// text, in that order.
func optionValue(s *goquery.Selection) string {
	if v, ok := s.Attr("value"); ok {
		return v
	}
	if v, ok := s.Attr("data-value"); ok {
		return v
	}
	return strings.TrimSpace(s.Text())
}

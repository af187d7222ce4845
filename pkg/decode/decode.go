// Package decode turns a form page into a FormDocument.
//
// The primary pass reads the payload embedded in every data-params element.
// If that yields nothing, a fallback pass rebuilds questions from
// accessibility roles. Neither pass returns errors: an element that cannot be
// decoded is logged and omitted.
package decode

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/usestring/formpilot-mcp/pkg/page"
	"github.com/usestring/formpilot-mcp/pkg/params"
	"github.com/usestring/formpilot-mcp/pkg/qtype"
	"github.com/usestring/formpilot-mcp/pkg/types"
)

// Selectors read by the decoder.
const (
	SelQuestion    = "[" + params.Attribute + "]"
	selRequired    = `.vnumgf, [aria-label*="obligatoire"], [aria-label*="required"]`
	selDescription = `meta[name="description"]`
	selFormDesc    = ".cBGGJ, .gubaDc"
	selListItem    = `[role="listitem"]`
	selHeading     = `[role="heading"]`
	selRadio       = `[role="radio"]`
	selCheckbox    = `[role="checkbox"]`
	selAriaReq     = `[aria-required="true"]`
)

// ErrNoQuestions is returned by Extract when neither pass found a question.
var ErrNoQuestions = errors.New("no questions found in this form")

// Decode reads every question of the tree. It never fails; the returned
// document may be empty.
func Decode(tree page.Tree) *types.FormDocument {
	doc := types.NewFormDocument(Metadata(tree))

	for i, el := range tree.QueryAll(SelQuestion) {
		q, err := decodeElement(el)
		if err != nil {
			if !errors.Is(err, params.ErrNoPayload) {
				slog.Warn("skipping undecodable question element",
					slog.Int("element", i),
					slog.String("error", err.Error()),
				)
			}
			continue
		}
		doc.Append(*q)
	}

	if len(doc.Items) == 0 {
		fallback(tree, doc)
	}

	slog.Debug("form decoded",
		slog.String("url", doc.Metadata.URL),
		slog.Int("items", doc.Count),
	)
	return doc
}

// Extract is Decode for callers that treat an empty form as a failure.
func Extract(tree page.Tree) (*types.FormDocument, error) {
	doc := Decode(tree)
	if doc.Count == 0 {
		return doc, ErrNoQuestions
	}
	return doc, nil
}

// Metadata reads the document title, description and URL.
func Metadata(tree page.Tree) types.FormMetadata {
	meta := types.FormMetadata{
		Title: tree.Title(),
		URL:   tree.URL(),
	}
	if meta.Title == "" {
		meta.Title = types.UntitledForm
	}
	if el, ok := tree.Query(selDescription); ok {
		content, _ := el.Attr("content")
		meta.Description = strings.TrimSpace(content)
	}
	if meta.Description == "" {
		if el, ok := tree.Query(selFormDesc); ok {
			meta.Description = el.Text()
		}
	}
	return meta
}

// QuestionElements returns the live elements whose payload decodes, in
// document order. Position i in the result is the element of Items[i], so
// layout elements without a payload never shift the alignment.
func QuestionElements(tree page.Tree) []page.Element {
	all := tree.QueryAll(SelQuestion)
	out := make([]page.Element, 0, len(all))
	for _, el := range all {
		raw, _ := el.Attr(params.Attribute)
		if _, err := params.Parse(raw); err == nil {
			out = append(out, el)
		}
	}
	return out
}

// ElementCategory re-reads only the type code of a question element. The fill
// orchestrator uses it so classification at fill time goes through the same
// table as extraction.
func ElementCategory(el page.Element) (qtype.Category, error) {
	raw, ok := el.Attr(params.Attribute)
	if !ok || raw == "" {
		return qtype.Unknown, params.ErrNoPayload
	}
	return params.ParseCategory(raw)
}

// ElementEntryID returns the submission field id carried by a question
// element, if any.
func ElementEntryID(el page.Element) (string, bool) {
	raw, ok := el.Attr(params.Attribute)
	if !ok {
		return "", false
	}
	return params.EntryID(raw)
}

func decodeElement(el page.Element) (*types.Question, error) {
	raw, _ := el.Attr(params.Attribute)
	p, err := params.Parse(raw)
	if err != nil {
		return nil, err
	}

	d := p.Descriptor
	q := &types.Question{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Type:        d.Code,
		TypeName:    d.Category(),
		Choices:     d.Choices,
		EntryID:     p.EntryID,
	}
	if q.Title == "" {
		q.Title = types.UntitledQuestion
	}
	if d.HasScale() {
		lo, hi := 1, len(d.Choices)
		q.ScaleMin = &lo
		q.ScaleMax = &hi
		q.ScaleLabels = d.ScaleLabels
	}
	_, q.IsRequired = el.Query(selRequired)
	return q, nil
}

// fallback rebuilds questions from list items that carry a heading.
func fallback(tree page.Tree, doc *types.FormDocument) {
	for i, item := range tree.QueryAll(selListItem) {
		heading, ok := item.Query(selHeading)
		if !ok {
			continue
		}

		q := types.Question{
			ID:       i,
			Title:    heading.Text(),
			Type:     qtype.CodeShortAnswer,
			TypeName: qtype.ShortAnswer,
		}
		_, q.IsRequired = item.Query(selAriaReq)

		if radios := item.QueryAll(selRadio); len(radios) > 0 {
			q.Type = qtype.CodeMultipleChoice
			q.Choices = labels(radios)
		} else if boxes := item.QueryAll(selCheckbox); len(boxes) > 0 {
			q.Type = qtype.CodeCheckboxes
			q.Choices = labels(boxes)
		}
		q.TypeName = qtype.Classify(q.Type)

		doc.Append(q)
	}

	if len(doc.Items) > 0 {
		slog.Info("questions recovered from accessibility roles",
			slog.Int("items", len(doc.Items)),
		)
	}
}

func labels(els []page.Element) []string {
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = page.Label(el)
	}
	return out
}

// Describe renders a one-line summary of a document, used in logs and tool
// hints.
func Describe(doc *types.FormDocument) string {
	return fmt.Sprintf("%q: %d questions (%d required)", doc.Metadata.Title, doc.Count, doc.RequiredCount())
}

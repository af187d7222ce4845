package types

import "github.com/usestring/formpilot-mcp/pkg/qtype"

// Placeholders used when the embedded payload or the page leaves a field empty.
const (
	UntitledForm     = "Untitled Form"
	UntitledQuestion = "Untitled Question"
)

// FormDocument is the normalized form sent to the answer service.
// Items are in document order; that order is the only join key with the
// answer sequence.
type FormDocument struct {
	Metadata FormMetadata `json:"metadata"`
	Items    []Question   `json:"items"`
	Count    int          `json:"count"`
}

// FormMetadata describes the page the questions were read from.
type FormMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Question is one decoded form question.
type Question struct {
	// ID is the raw identifier token from the encoding. Usually a number,
	// not guaranteed unique.
	ID          any            `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        int            `json:"type"`
	TypeName    qtype.Category `json:"typeName"`
	Index       int            `json:"index"`
	IsRequired  bool           `json:"isRequired"`
	Choices     []string       `json:"choices"`
	EntryID     string         `json:"entryId,omitempty"`

	// Scale fields are only set for linear scale and rating questions.
	ScaleMin    *int  `json:"scaleMin,omitempty"`
	ScaleMax    *int  `json:"scaleMax,omitempty"`
	ScaleLabels []any `json:"scaleLabels,omitempty"`
}

// NewFormDocument returns a document with an empty, non-nil item list.
func NewFormDocument(meta FormMetadata) *FormDocument {
	return &FormDocument{
		Metadata: meta,
		Items:    make([]Question, 0),
	}
}

// Append adds q at the end of the document, setting its Index to its position
// and keeping Count in step with Items.
func (d *FormDocument) Append(q Question) {
	q.Index = len(d.Items)
	if q.Choices == nil {
		q.Choices = make([]string, 0)
	}
	d.Items = append(d.Items, q)
	d.Count = len(d.Items)
}

// RequiredCount returns how many items are marked required.
func (d *FormDocument) RequiredCount() int {
	n := 0
	for _, q := range d.Items {
		if q.IsRequired {
			n++
		}
	}
	return n
}

package types

import "github.com/usestring/formpilot-mcp/pkg/qtype"

// Outcome statuses for a single question.
const (
	StatusFilled      = "filled"
	StatusNoMatch     = "no_match"
	StatusSkipped     = "skipped"
	StatusUnsupported = "unsupported"
	StatusFailed      = "failed"
)

// FillReport describes what a fill sequence did. The index lists are sorted
// and refer to positions in the answer sequence.
type FillReport struct {
	Outcomes    []QuestionOutcome `json:"outcomes"`
	Filled      []int             `json:"filled"`
	NoMatch     []int             `json:"no_match"`
	Skipped     []int             `json:"skipped"`
	Unsupported []int             `json:"unsupported"`
	Failed      []int             `json:"failed"`
	Mismatches  []VerifyMismatch  `json:"mismatches"`
	Warnings    []string          `json:"warnings"`
}

// QuestionOutcome is the result for one answer index.
type QuestionOutcome struct {
	Index    int            `json:"index"`
	TypeName qtype.Category `json:"type_name,omitempty"`
	Status   string         `json:"status"`
	Detail   string         `json:"detail,omitempty"`
}

// VerifyMismatch is reported when the post-fill read-back disagrees with what
// the filler intended.
type VerifyMismatch struct {
	Index    int      `json:"index"`
	Expected []string `json:"expected"`
	Actual   []string `json:"actual"`
}

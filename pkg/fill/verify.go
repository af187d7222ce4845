package fill

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/usestring/formpilot-mcp/pkg/decode"
	"github.com/usestring/formpilot-mcp/pkg/page"
	"github.com/usestring/formpilot-mcp/pkg/qtype"
	"github.com/usestring/formpilot-mcp/pkg/types"
)

// intent is what a filler meant to leave behind for one question.
type intent struct {
	category qtype.Category
	values   []string
}

// verifyAll re-reads the live controls of every filled question and records
// disagreements with the intended state.
func (f *Filler) verifyAll(tree page.Tree, intents map[int]intent, rec *recorder) {
	els := decode.QuestionElements(tree)
	for _, i := range indices(rec.byStatus[types.StatusFilled]) {
		in, ok := intents[i]
		if !ok || i >= len(els) {
			continue
		}
		actual := readState(in.category, els[i])
		if satisfied(in, actual) {
			continue
		}
		slog.Warn("fill verification mismatch",
			slog.Int("index", i),
			slog.Any("expected", in.values),
			slog.Any("actual", actual),
		)
		rec.mismatch(types.VerifyMismatch{Index: i, Expected: in.values, Actual: actual})
	}
}

// satisfied compares intended and observed state. Checkboxes pass when every
// intended label is checked since pre-existing selections are kept.
func satisfied(in intent, actual []string) bool {
	if in.category == qtype.Checkboxes {
		for _, v := range in.values {
			if !slices.Contains(actual, v) {
				return false
			}
		}
		return true
	}
	return slices.Equal(in.values, actual)
}

// readState reports the current answer held by a question element's
// controls.
func readState(cat qtype.Category, el page.Element) []string {
	out := make([]string, 0)
	switch cat {
	case qtype.ShortAnswer, qtype.Paragraph:
		if input, ok := el.Query(selText); ok {
			out = append(out, input.Value())
		}
	case qtype.MultipleChoice:
		for _, r := range el.QueryAll(selRadio) {
			if r.Checked() {
				out = append(out, page.Label(r))
			}
		}
	case qtype.Checkboxes:
		for _, c := range el.QueryAll(selCheckbox) {
			if c.Checked() {
				out = append(out, page.Label(c))
			}
		}
	case qtype.Dropdown:
		if dd, ok := el.Query(selDropdown); ok {
			out = append(out, selectedOption(dd)...)
		}
	case qtype.LinearScale, qtype.Rating:
		for _, r := range el.QueryAll(selRadio) {
			if !r.Checked() {
				continue
			}
			if v, ok := leadingInt(scaleValue(r)); ok {
				out = append(out, strconv.Itoa(v))
			}
		}
	}
	return out
}

func selectedOption(dd page.Element) []string {
	out := make([]string, 0, 1)
	if dd.Tag() == "select" {
		want := dd.Value()
		for _, opt := range dd.QueryAll("option") {
			if opt.Value() == want {
				return append(out, opt.Text())
			}
		}
		return out
	}
	for _, opt := range dd.QueryAll(`[role="option"]`) {
		if v, _ := opt.Attr("aria-selected"); v == "true" {
			out = append(out, opt.Text())
		}
	}
	return out
}

package fill

import (
	"context"
	"fmt"
	"html"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/formpilot-mcp/pkg/page"
	"github.com/usestring/formpilot-mcp/pkg/qtype"
	"github.com/usestring/formpilot-mcp/pkg/types"
)

func payload(prefix string, id int, title string, code int, choices ...string) string {
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = fmt.Sprintf("[%q]", c)
	}
	return fmt.Sprintf(`%s%%.@.[[%d,%q,"",%d,[[null,[%s]]]],0,0,0]`,
		prefix, id, title, code, strings.Join(labels, ","))
}

func question(params, inner string) string {
	return fmt.Sprintf(`<div data-params="%s">%s</div>`, html.EscapeString(params), inner)
}

func radios(labels ...string) string {
	var b strings.Builder
	b.WriteString(`<div role="radiogroup">`)
	for _, l := range labels {
		fmt.Fprintf(&b, `<div role="radio" aria-label="%s" aria-checked="false"></div>`, l)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func checkboxes(checked map[string]bool, labels ...string) string {
	var b strings.Builder
	for _, l := range labels {
		fmt.Fprintf(&b, `<div role="checkbox" aria-label="%s" aria-checked="%t"></div>`, l, checked[l])
	}
	return b.String()
}

func scale(n int) string {
	var b strings.Builder
	b.WriteString(`<div role="radiogroup">`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<div role="radio" data-value="%d" aria-label="%d" aria-checked="false"></div>`, i, i)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func parse(t *testing.T, body string) *page.HTMLDocument {
	t.Helper()
	doc, err := page.Parse([]byte("<html><body>"+body+"</body></html>"), "https://docs.google.com/forms/d/x/viewform")
	require.NoError(t, err)
	return doc
}

func noSleep(context.Context, time.Duration) error { return nil }

func newTestFiller(opts ...Option) *Filler {
	return New(append([]Option{WithSleep(noSleep), WithVerify(true)}, opts...)...)
}

type querier interface {
	QueryAll(selector string) []page.Element
}

func checkedLabels(t *testing.T, scope querier, selector string) []string {
	t.Helper()
	out := make([]string, 0)
	for _, el := range scope.QueryAll(selector) {
		if el.Checked() {
			out = append(out, page.Label(el))
		}
	}
	return out
}

func TestFillScenarios(t *testing.T) {
	body := question(payload("", 1, "Color", qtype.CodeMultipleChoice, "Red", "Green", "Blue"), radios("Red", "Green", "Blue")) +
		question(payload("", 2, "Pets", qtype.CodeCheckboxes, "Cats", "Dogs", "Birds"), checkboxes(nil, "Cats", "Dogs", "Birds")) +
		question(payload("", 3, "Rate", qtype.CodeLinearScale, "1", "2", "3", "4", "5"), scale(5))
	doc := parse(t, body)

	report := newTestFiller().Fill(context.Background(), doc, types.AnswerSet{
		types.Text("green"),
		types.List("dogs", "birds"),
		types.Text("rate it a 4"),
	})

	assert.Equal(t, []int{0, 1, 2}, report.Filled)
	assert.Empty(t, report.Failed)
	assert.Empty(t, report.Mismatches)
	assert.Empty(t, report.Warnings)

	els := doc.QueryAll("[data-params]")
	assert.Equal(t, []string{"Green"}, checkedLabels(t, els[0], `[role="radio"]`))
	assert.Equal(t, []string{"Dogs", "Birds"}, checkedLabels(t, els[1], `[role="checkbox"]`))

	var chosen []string
	for _, r := range els[2].QueryAll(`[role="radio"]`) {
		if r.Checked() {
			v, _ := r.Attr("data-value")
			chosen = append(chosen, v)
		}
	}
	assert.Equal(t, []string{"4"}, chosen)
}

func TestFillShorterAnswersProcessesPrefix(t *testing.T) {
	body := question(payload("", 1, "Name", qtype.CodeShortAnswer), `<input type="text" name="entry.1">`) +
		question(payload("", 2, "City", qtype.CodeShortAnswer), `<input type="text" name="entry.2">`)
	doc := parse(t, body)

	report := newTestFiller().Fill(context.Background(), doc, types.AnswerSet{types.Text("Ada")})

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, []int{0}, report.Filled)

	first, _ := doc.Query(`input[name="entry.1"]`)
	second, _ := doc.Query(`input[name="entry.2"]`)
	assert.Equal(t, "Ada", first.Value())
	assert.Equal(t, "", second.Value())
}

func TestFillIndexBeyondLiveElementsIsSkipped(t *testing.T) {
	doc := parse(t, question(payload("", 1, "Name", qtype.CodeShortAnswer), `<input type="text">`))

	report := newTestFiller().Fill(context.Background(), doc, types.AnswerSet{types.Text("a"), types.Text("b")})

	assert.Equal(t, []int{0}, report.Filled)
	assert.Equal(t, []int{1}, report.Skipped)
	assert.Equal(t, types.StatusSkipped, report.Outcomes[1].Status)
}

func TestFillIgnoresElementsWithoutPayload(t *testing.T) {
	body := question("%.@.layout", `<input type="text" name="layout">`) +
		question(payload("", 1, "Name", qtype.CodeShortAnswer), `<input type="text" name="entry.1">`)
	doc := parse(t, body)

	report := newTestFiller().Fill(context.Background(), doc, types.AnswerSet{types.Text("Ada")})

	assert.Equal(t, []int{0}, report.Filled)
	layout, _ := doc.Query(`input[name="layout"]`)
	assert.Equal(t, "", layout.Value())
}

func TestFillText(t *testing.T) {
	body := question(payload("", 1, "Name", qtype.CodeShortAnswer), `<input type="text" name="entry.1">`) +
		question(payload("", 2, "Bio", qtype.CodeParagraph), `<textarea name="entry.2"></textarea>`) +
		question(payload("", 3, "Tags", qtype.CodeShortAnswer), `<input type="email" name="entry.3">`)
	doc := parse(t, body)

	report := newTestFiller().Fill(context.Background(), doc, types.AnswerSet{
		types.Text("Ada"),
		types.Text("line one"),
		types.List("a", "b"),
	})
	assert.Equal(t, []int{0, 1, 2}, report.Filled)
	assert.Empty(t, report.Mismatches)

	name, _ := doc.Query(`input[name="entry.1"]`)
	bio, _ := doc.Query(`textarea`)
	tags, _ := doc.Query(`input[name="entry.3"]`)
	assert.Equal(t, "Ada", name.Value())
	assert.Equal(t, "line one", bio.Value())
	assert.Equal(t, "a,b", tags.Value())

	var seq []string
	for _, e := range doc.Events() {
		if strings.Contains(e.Target, `entry.1`) {
			seq = append(seq, e.Type)
		}
	}
	assert.Equal(t, []string{page.EventFocus, "set_value", page.EventInput, page.EventChange, page.EventBlur}, seq)
}

func TestFillDropdown(t *testing.T) {
	body := question(payload("", 1, "Country", qtype.CodeDropdown, "France", "Spain"),
		`<select name="entry.1"><option value="">Choose</option><option value="fr">France</option><option value="es">Spain</option></select>`) +
		question(payload("", 2, "Size", qtype.CodeDropdown, "Small", "Large"),
			`<div role="listbox"><div role="option" data-value="S">Small</div><div role="option" data-value="L">Large</div></div>`)
	doc := parse(t, body)

	report := newTestFiller().Fill(context.Background(), doc, types.AnswerSet{types.Text("spain"), types.Text("large")})
	assert.Equal(t, []int{0, 1}, report.Filled)
	assert.Empty(t, report.Mismatches)

	sel, _ := doc.Query("select")
	assert.Equal(t, "es", sel.Value())

	listbox, _ := doc.Query(`[role="listbox"]`)
	v, _ := listbox.Attr("data-value")
	assert.Equal(t, "L", v)

	var changed bool
	for _, e := range doc.Events() {
		if e.Type == page.EventChange && strings.HasPrefix(e.Target, "select") {
			changed = true
		}
	}
	assert.True(t, changed)
}

func TestFillNoMatch(t *testing.T) {
	body := question(payload("", 1, "Color", qtype.CodeMultipleChoice, "Red"), radios("Red")) +
		question(payload("", 2, "Country", qtype.CodeDropdown, "France"), `<select><option>France</option></select>`) +
		question(payload("", 3, "Pets", qtype.CodeCheckboxes, "Cats"), checkboxes(nil, "Cats"))
	doc := parse(t, body)

	report := newTestFiller().Fill(context.Background(), doc, types.AnswerSet{
		types.Text("purple"), types.Text("Peru"), types.List("fish"),
	})
	assert.Equal(t, []int{0, 1, 2}, report.NoMatch)
	assert.Empty(t, report.Filled)
}

func TestFillListAnswerToSingleChoiceFails(t *testing.T) {
	body := question(payload("", 1, "Color", qtype.CodeMultipleChoice, "Red", "Green"), radios("Red", "Green")) +
		question(payload("", 2, "Name", qtype.CodeShortAnswer), `<input type="text">`)
	doc := parse(t, body)

	report := newTestFiller().Fill(context.Background(), doc, types.AnswerSet{types.List("red"), types.Text("Ada")})

	assert.Equal(t, []int{0}, report.Failed)
	assert.Equal(t, []int{1}, report.Filled)
	assert.Empty(t, checkedLabels(t, doc, `[role="radio"]`))
}

func TestFillCheckboxesNeverUncheck(t *testing.T) {
	body := question(payload("", 1, "Pets", qtype.CodeCheckboxes, "Cats", "Dogs"),
		checkboxes(map[string]bool{"Cats": true, "Dogs": true}, "Cats", "Dogs", "Birds"))
	doc := parse(t, body)

	report := newTestFiller().Fill(context.Background(), doc, types.AnswerSet{types.Text("dogs")})

	assert.Equal(t, []int{0}, report.Filled)
	assert.Empty(t, report.Mismatches)
	assert.Equal(t, []string{"Cats", "Dogs"}, checkedLabels(t, doc, `[role="checkbox"]`))
}

func TestFillUnsupported(t *testing.T) {
	body := question(payload("", 1, "Grid", qtype.CodeGrid), `<div role="radio" aria-label="A"></div>`) +
		question(payload("", 2, "When", qtype.CodeDate), `<input type="date">`)
	doc := parse(t, body)

	report := newTestFiller().Fill(context.Background(), doc, types.AnswerSet{types.Text("A"), types.Text("2024-01-01")})

	assert.Equal(t, []int{0, 1}, report.Unsupported)
	assert.Equal(t, qtype.Grid, report.Outcomes[0].TypeName)
	assert.Empty(t, checkedLabels(t, doc, `[role="radio"]`))
}

func TestFillScale(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		fallback int
		status   string
		want     []string
		warnings int
	}{
		{name: "leading number", answer: "5 stars", fallback: 3, status: types.StatusFilled, want: []string{"5"}},
		{name: "embedded number", answer: "rate it a 2", fallback: 3, status: types.StatusFilled, want: []string{"2"}},
		{name: "fallback", answer: "great", fallback: 3, status: types.StatusFilled, want: []string{"3"}, warnings: 1},
		{name: "fallback disabled", answer: "great", fallback: 0, status: types.StatusNoMatch, want: []string{}},
		{name: "out of range", answer: "9", fallback: 3, status: types.StatusNoMatch, want: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := parse(t, question(payload("", 1, "Rate", qtype.CodeLinearScale, "1", "2", "3", "4", "5"), scale(5)))

			report := newTestFiller(WithScaleFallback(tc.fallback)).Fill(context.Background(), doc, types.AnswerSet{types.Text(tc.answer)})

			require.Len(t, report.Outcomes, 1)
			assert.Equal(t, tc.status, report.Outcomes[0].Status)
			assert.Len(t, report.Warnings, tc.warnings)
			assert.Equal(t, tc.want, checkedLabels(t, doc, `[role="radio"]`))
		})
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"4", 4, true},
		{"  12abc", 12, true},
		{"-3", -3, true},
		{"+7 points", 7, true},
		{"abc 4", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := leadingInt(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFillSleepsAfterEveryQuestion(t *testing.T) {
	body := question(payload("", 1, "Name", qtype.CodeShortAnswer), `<input type="text">`)
	doc := parse(t, body)

	var delays []time.Duration
	sleep := func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	New(WithSleep(sleep), WithDelay(250*time.Millisecond)).Fill(context.Background(), doc,
		types.AnswerSet{types.Text("a"), types.Text("b"), types.Text("c")})

	assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond}, delays)
}

func TestFillCancelledAtDelay(t *testing.T) {
	body := question(payload("", 1, "A", qtype.CodeShortAnswer), `<input type="text" name="a">`) +
		question(payload("", 2, "B", qtype.CodeShortAnswer), `<input type="text" name="b">`) +
		question(payload("", 3, "C", qtype.CodeShortAnswer), `<input type="text" name="c">`)
	doc := parse(t, body)

	ctx, cancel := context.WithCancel(context.Background())
	sleep := func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	report := New(WithSleep(sleep)).Fill(ctx, doc, types.AnswerSet{types.Text("1"), types.Text("2"), types.Text("3")})

	assert.Equal(t, []int{0}, report.Filled)
	assert.Equal(t, []int{1, 2}, report.Skipped)
	assert.Equal(t, "cancelled", report.Outcomes[2].Detail)
	require.Len(t, report.Warnings, 1)

	b, _ := doc.Query(`input[name="b"]`)
	assert.Equal(t, "", b.Value())
}

func TestFillEntryIDMismatchWarns(t *testing.T) {
	body := question(payload("entry.222 ", 1, "Name", qtype.CodeShortAnswer), `<input type="text">`)
	doc := parse(t, body)

	expected := types.NewFormDocument(types.FormMetadata{})
	expected.Append(types.Question{Title: "Name", EntryID: "111"})

	report := newTestFiller(WithExpected(expected)).Fill(context.Background(), doc, types.AnswerSet{types.Text("Ada")})

	assert.Equal(t, []int{0}, report.Filled)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "entry.222")
	assert.Contains(t, report.Warnings[0], "entry.111")
}

// stubTree wraps the question elements of a document.
type stubTree struct {
	page.Tree
	wrap func(page.Element) page.Element
}

func (s stubTree) QueryAll(selector string) []page.Element {
	els := s.Tree.QueryAll(selector)
	for i, el := range els {
		els[i] = s.wrap(el)
	}
	return els
}

type panicElement struct{ page.Element }

func (panicElement) Query(string) (page.Element, bool) { panic("detached node") }
func (panicElement) QueryAll(string) []page.Element    { panic("detached node") }

// inertElement ignores clicks on its descendants.
type inertElement struct{ page.Element }

func (e inertElement) QueryAll(selector string) []page.Element {
	els := e.Element.QueryAll(selector)
	for i, el := range els {
		els[i] = inertElement{el}
	}
	return els
}

func (inertElement) Click() {}

func TestFillPanicIsContained(t *testing.T) {
	body := question(payload("", 1, "Boom", qtype.CodeMultipleChoice, "Red"), radios("Red")) +
		question(payload("", 2, "Name", qtype.CodeShortAnswer), `<input type="text">`)
	doc := parse(t, body)

	tree := stubTree{Tree: doc, wrap: func(el page.Element) page.Element {
		if raw, _ := el.Attr("data-params"); strings.Contains(raw, "Boom") {
			return panicElement{el}
		}
		return el
	}}

	report := newTestFiller().Fill(context.Background(), tree, types.AnswerSet{types.Text("red"), types.Text("Ada")})

	assert.Equal(t, []int{0}, report.Failed)
	assert.Contains(t, report.Outcomes[0].Detail, "detached node")
	assert.Equal(t, []int{1}, report.Filled)
}

func TestFillVerificationReportsMismatch(t *testing.T) {
	doc := parse(t, question(payload("", 1, "Color", qtype.CodeMultipleChoice, "Red", "Green"), radios("Red", "Green")))
	tree := stubTree{Tree: doc, wrap: func(el page.Element) page.Element { return inertElement{el} }}

	report := newTestFiller().Fill(context.Background(), tree, types.AnswerSet{types.Text("green")})

	assert.Equal(t, []int{0}, report.Filled)
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, 0, report.Mismatches[0].Index)
	assert.Equal(t, []string{"Green"}, report.Mismatches[0].Expected)
	assert.Empty(t, report.Mismatches[0].Actual)
}

func TestFillEmptyAnswers(t *testing.T) {
	doc := parse(t, question(payload("", 1, "Name", qtype.CodeShortAnswer), `<input type="text">`))

	report := newTestFiller().Fill(context.Background(), doc, nil)

	assert.NotNil(t, report.Outcomes)
	assert.Empty(t, report.Outcomes)
	assert.NotNil(t, report.Filled)
}

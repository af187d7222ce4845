// Package fill drives a form page with an ordered answer sequence.
//
// Answers bind to questions by position only: answer i goes to the i-th live
// question element. If the page reorders its questions between extraction and
// fill, answers land on the wrong questions. When the extracted document is
// supplied with WithExpected, entry id disagreements are reported as warnings
// but never corrected.
//
// Questions are processed strictly one at a time with a fixed delay after
// each, because activating a control may trigger layout changes that must
// settle before the next control is queried. Controls are re-queried at the
// start of every question; no element reference survives the delay.
package fill

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/usestring/formpilot-mcp/pkg/decode"
	"github.com/usestring/formpilot-mcp/pkg/page"
	"github.com/usestring/formpilot-mcp/pkg/qtype"
	"github.com/usestring/formpilot-mcp/pkg/types"
)

// Defaults match the behaviour of the in-page filler.
const (
	DefaultDelay         = 500 * time.Millisecond
	DefaultScaleFallback = 3
)

// SleepFunc suspends for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Filler fills form pages. A Filler holds no per-page state and may be
// reused; a single Fill call must not run concurrently with another on the
// same tree.
type Filler struct {
	delay         time.Duration
	sleep         SleepFunc
	scaleFallback int
	verify        bool
	expected      *types.FormDocument
}

// Option configures a Filler.
type Option func(*Filler)

// WithDelay sets the pause after each question.
func WithDelay(d time.Duration) Option {
	return func(f *Filler) {
		f.delay = d
	}
}

// WithSleep replaces the suspension primitive, mainly for tests.
func WithSleep(fn SleepFunc) Option {
	return func(f *Filler) {
		if fn != nil {
			f.sleep = fn
		}
	}
}

// WithScaleFallback sets the scale point chosen when a scale answer carries
// no number. Zero or less disables guessing: the question is reported as
// no_match instead.
func WithScaleFallback(n int) Option {
	return func(f *Filler) {
		f.scaleFallback = n
	}
}

// WithVerify enables the read-back pass after the sequence.
func WithVerify(enabled bool) Option {
	return func(f *Filler) {
		f.verify = enabled
	}
}

// WithExpected supplies the document extracted before the answers were
// generated, enabling entry id cross-checks.
func WithExpected(doc *types.FormDocument) Option {
	return func(f *Filler) {
		f.expected = doc
	}
}

// New creates a Filler.
func New(opts ...Option) *Filler {
	f := &Filler{
		delay:         DefaultDelay,
		sleep:         sleepContext,
		scaleFallback: DefaultScaleFallback,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fill applies answers to tree in order. It never fails: per-question
// problems are logged and reported. Cancellation is observed only at the
// delay between questions; remaining questions are then reported skipped.
func (f *Filler) Fill(ctx context.Context, tree page.Tree, answers types.AnswerSet) *types.FillReport {
	rec := newRecorder()
	intents := make(map[int]intent)

	for i, answer := range answers {
		if err := ctx.Err(); err != nil {
			f.cancelRemaining(rec, i, len(answers), err)
			break
		}

		out, in := f.fillQuestion(rec, tree, i, answer)
		rec.add(out)
		if in != nil {
			intents[i] = *in
		}

		if err := f.sleep(ctx, f.delay); err != nil {
			f.cancelRemaining(rec, i+1, len(answers), err)
			break
		}
	}

	if f.verify {
		f.verifyAll(tree, intents, rec)
	}

	report := rec.report()
	slog.Info("form fill finished",
		slog.Int("answers", len(answers)),
		slog.Int("filled", len(report.Filled)),
		slog.Int("skipped", len(report.Skipped)),
		slog.Int("failed", len(report.Failed)),
		slog.Int("mismatches", len(report.Mismatches)),
	)
	return report
}

func (f *Filler) cancelRemaining(rec *recorder, from, to int, err error) {
	if from >= to {
		return
	}
	rec.warn(fmt.Sprintf("fill stopped before question %d: %v", from, err))
	for i := from; i < to; i++ {
		rec.add(types.QuestionOutcome{Index: i, Status: types.StatusSkipped, Detail: "cancelled"})
	}
}

// fillQuestion handles one index. Panics from the element implementation
// are contained here so the sequence continues.
func (f *Filler) fillQuestion(rec *recorder, tree page.Tree, i int, answer types.Answer) (out types.QuestionOutcome, in *intent) {
	out = types.QuestionOutcome{Index: i}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("error filling question", slog.Int("index", i), slog.Any("panic", r))
			out.Status = types.StatusFailed
			out.Detail = fmt.Sprintf("panic: %v", r)
			in = nil
		}
	}()

	els := decode.QuestionElements(tree)
	if i >= len(els) {
		out.Status = types.StatusSkipped
		out.Detail = fmt.Sprintf("no live question at index %d (%d present)", i, len(els))
		return out, nil
	}
	el := els[i]

	f.checkEntryID(rec, el, i)

	cat, err := decode.ElementCategory(el)
	if err != nil {
		slog.Error("error filling question", slog.Int("index", i), slog.String("error", err.Error()))
		out.Status = types.StatusFailed
		out.Detail = err.Error()
		return out, nil
	}
	out.TypeName = cat

	res, err := f.dispatch(cat, el, answer)
	if err != nil {
		slog.Error("error filling question",
			slog.Int("index", i),
			slog.String("type", cat.String()),
			slog.String("error", err.Error()),
		)
		out.Status = types.StatusFailed
		out.Detail = err.Error()
		return out, nil
	}

	out.Status = res.status
	out.Detail = res.detail
	if res.warning != "" {
		slog.Warn("question filled with a guess", slog.Int("index", i), slog.String("warning", res.warning))
		rec.warn(fmt.Sprintf("question %d: %s", i, res.warning))
	}
	slog.Debug("question handled",
		slog.Int("index", i),
		slog.String("type", cat.String()),
		slog.String("status", res.status),
	)
	if res.status == types.StatusFilled {
		return out, &intent{category: cat, values: res.intended}
	}
	return out, nil
}

func (f *Filler) dispatch(cat qtype.Category, el page.Element, answer types.Answer) (result, error) {
	switch cat {
	case qtype.ShortAnswer, qtype.Paragraph:
		return fillText(el, answer)
	case qtype.MultipleChoice:
		return fillMultipleChoice(el, answer)
	case qtype.Checkboxes:
		return fillCheckboxes(el, answer)
	case qtype.Dropdown:
		return fillDropdown(el, answer)
	case qtype.LinearScale, qtype.Rating:
		return fillScale(el, answer, f.scaleFallback)
	default:
		slog.Warn("unsupported question type", slog.String("type", cat.String()))
		return result{status: types.StatusUnsupported, detail: "unsupported question type: " + cat.String()}, nil
	}
}

// checkEntryID compares the live element with the extracted question at the
// same index. Mismatches only produce a warning.
func (f *Filler) checkEntryID(rec *recorder, el page.Element, i int) {
	if f.expected == nil || i >= len(f.expected.Items) {
		return
	}
	want := f.expected.Items[i].EntryID
	got, ok := decode.ElementEntryID(el)
	if want == "" || !ok || got == want {
		return
	}
	msg := fmt.Sprintf("question %d: live entry.%s differs from extracted entry.%s; answer bound by position", i, got, want)
	slog.Warn("positional binding mismatch",
		slog.Int("index", i),
		slog.String("live_entry", got),
		slog.String("expected_entry", want),
	)
	rec.warn(msg)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

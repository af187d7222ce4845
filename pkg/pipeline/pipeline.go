// Package pipeline runs the whole extract, answer and fill sequence against
// one page.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/usestring/formpilot-mcp/pkg/decode"
	"github.com/usestring/formpilot-mcp/pkg/fill"
	"github.com/usestring/formpilot-mcp/pkg/page"
	"github.com/usestring/formpilot-mcp/pkg/types"
)

// ErrAnswerService wraps every failure of the answer generation step.
var ErrAnswerService = errors.New("answer service failed")

// Generator produces answers for an extracted form.
type Generator interface {
	Generate(ctx context.Context, doc *types.FormDocument) (types.AnswerSet, error)
}

// Result is the outcome of a successful run.
type Result struct {
	Document *types.FormDocument `json:"document"`
	Answers  types.AnswerSet     `json:"answers"`
	Report   *types.FillReport   `json:"report"`
}

// Pipeline wires a Generator to the decoder and filler.
type Pipeline struct {
	generator Generator
	fillOpts  []fill.Option
}

// New creates a Pipeline. fillOpts configure the filler of every run; the
// extracted document is always supplied as its expected document.
func New(generator Generator, fillOpts ...fill.Option) *Pipeline {
	return &Pipeline{generator: generator, fillOpts: fillOpts}
}

// Run extracts the form on tree, asks the generator for answers and fills
// them in. Zero questions yields decode.ErrNoQuestions; any generator failure
// yields one error wrapping ErrAnswerService. Per-question fill problems are
// only reported.
func (p *Pipeline) Run(ctx context.Context, tree page.Tree) (*Result, error) {
	start := time.Now()

	doc, err := decode.Extract(tree)
	if err != nil {
		slog.Warn("no questions found", slog.String("url", tree.URL()))
		return nil, err
	}
	slog.Debug("form extracted",
		slog.String("url", doc.Metadata.URL),
		slog.Int("questions", doc.Count),
		slog.Int("required", doc.RequiredCount()),
	)

	answers, err := p.generator.Generate(ctx, doc)
	if err != nil {
		slog.Error("answer generation failed",
			slog.String("url", doc.Metadata.URL),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", ErrAnswerService, err)
	}

	opts := append(append([]fill.Option{}, p.fillOpts...), fill.WithExpected(doc))
	report := fill.New(opts...).Fill(ctx, tree, answers)

	slog.Info("form processed",
		slog.String("url", doc.Metadata.URL),
		slog.Int("questions", doc.Count),
		slog.Int("answers", len(answers)),
		slog.Int("filled", len(report.Filled)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return &Result{Document: doc, Answers: answers, Report: report}, nil
}

package fill

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/formpilot-mcp/pkg/types"
)

// recorder accumulates outcomes. Index sets are kept as bitmaps so each
// index lands in exactly one status set.
type recorder struct {
	outcomes   []types.QuestionOutcome
	byStatus   map[string]*roaring.Bitmap
	mismatches []types.VerifyMismatch
	warnings   []string
}

func newRecorder() *recorder {
	return &recorder{
		outcomes: make([]types.QuestionOutcome, 0),
		byStatus: map[string]*roaring.Bitmap{
			types.StatusFilled:      roaring.New(),
			types.StatusNoMatch:     roaring.New(),
			types.StatusSkipped:     roaring.New(),
			types.StatusUnsupported: roaring.New(),
			types.StatusFailed:      roaring.New(),
		},
		mismatches: make([]types.VerifyMismatch, 0),
		warnings:   make([]string, 0),
	}
}

func (r *recorder) add(out types.QuestionOutcome) {
	idx := uint32(out.Index)
	for _, bm := range r.byStatus {
		bm.Remove(idx)
	}
	if bm, ok := r.byStatus[out.Status]; ok {
		bm.Add(idx)
	}
	r.outcomes = append(r.outcomes, out)
}

func (r *recorder) warn(msg string) {
	r.warnings = append(r.warnings, msg)
}

func (r *recorder) mismatch(m types.VerifyMismatch) {
	r.mismatches = append(r.mismatches, m)
}

func (r *recorder) report() *types.FillReport {
	return &types.FillReport{
		Outcomes:    r.outcomes,
		Filled:      indices(r.byStatus[types.StatusFilled]),
		NoMatch:     indices(r.byStatus[types.StatusNoMatch]),
		Skipped:     indices(r.byStatus[types.StatusSkipped]),
		Unsupported: indices(r.byStatus[types.StatusUnsupported]),
		Failed:      indices(r.byStatus[types.StatusFailed]),
		Mismatches:  r.mismatches,
		Warnings:    r.warnings,
	}
}

func indices(bm *roaring.Bitmap) []int {
	raw := bm.ToArray()
	out := make([]int, len(raw))
	for i, v := range raw {
		out[i] = int(v)
	}
	return out
}

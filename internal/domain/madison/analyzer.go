package madison

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/helix-insights/madison/pkg/types/intel"
)

// BatchAnalyzer applies a Scorer to every record of a batch.  Records are
// independent, so the batch is mapped with bounded parallelism; the output
// preserves input order and contains exactly one scored record per input.
//
// The caller supplies a single "now" captured at the start of the run so all
// recency comparisons in one batch see the same instant.
type BatchAnalyzer struct {
	scorer  Scorer
	workers int
}

// NewBatchAnalyzer constructs a BatchAnalyzer.  workers bounds the number of
// concurrently scored records; values below 1 are treated as 1.
func NewBatchAnalyzer(scorer Scorer, workers int) *BatchAnalyzer {
	if workers < 1 {
		workers = 1
	}
	return &BatchAnalyzer{scorer: scorer, workers: workers}
}

// Analyze scores every record in the batch.  An empty batch yields an empty
// (non-nil) slice.  The only error condition is context cancellation.
func (a *BatchAnalyzer) Analyze(ctx context.Context, now time.Time, records []intel.Record) ([]intel.ScoredRecord, error) {
	out := make([]intel.ScoredRecord, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = intel.ScoredRecord{
				Record:              rec,
				MadisonIntelligence: a.scorer.Score(now, rec),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// =============================================================================
// ABN Bulk Lookup - Batch Coordinator
// =============================================================================
//
// Batch runs the lookup pipeline over a list of ABNs.
//
// CONCURRENCY:
//   A fixed pool of worker goroutines pulls input indexes from a jobs
//   channel and fetches them. Each index owns a one-slot result channel, so
//   workers never block on delivery and never share state.
//
//   The calling goroutine consumes the slots strictly in input order,
//   parsing each body as it arrives and reporting progress. Progress
//   therefore advances monotonically even though fetches finish in any
//   order.
//
// FAILURE POLICY:
//   A failed ABN is recorded in its BatchItem and the batch moves on. There
//   is no partial-batch cancellation; a cancelled ctx simply makes the
//   remaining fetches fail fast.
//
// =============================================================================

package lookup

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/InfinityHack3r/abnBulkLookup/internal/types"
	"github.com/InfinityHack3r/abnBulkLookup/pkg/logger"
	"github.com/InfinityHack3r/abnBulkLookup/pkg/serrors"
)

// fetched is the outcome of one worker fetch.
type fetched struct {
	body []byte
	err  error
}

// Batch looks up every ABN in abns.
//
// PARAMETERS:
//   - ctx: Passed to every fetch.
//   - abns: The ABNs in the order they should appear in the result.
//   - apiKey: The ABR authentication GUID, shared read-only by all workers.
//   - progress: Optional; called once per consumed ABN with (done, total).
//
// RETURNS:
//   - A BatchResult whose Items line up one-to-one with abns.
func (s *Service) Batch(ctx context.Context, abns []string, apiKey string, progress ProgressFunc) *types.BatchResult {
	result := &types.BatchResult{
		RunID:     uuid.New().String(),
		StartedAt: s.now(),
		Items:     make([]types.BatchItem, len(abns)),
	}
	result.Stats.Total = len(abns)

	ctx = logger.WithFields(ctx, zap.String("run_id", result.RunID))
	logger.Info(ctx, "batch started", zap.Int("abns", len(abns)), zap.Int("workers", s.workers))

	if len(abns) == 0 {
		return result
	}

	// =========================================================================
	// STEP 1: START THE WORKER POOL
	// =========================================================================

	slots := make([]chan fetched, len(abns))
	for i := range slots {
		slots[i] = make(chan fetched, 1)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < min(s.workers, len(abns)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				body, err := s.fetcher.Fetch(ctx, abns[i], apiKey)
				slots[i] <- fetched{body: body, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range abns {
			jobs <- i
		}
	}()

	// =========================================================================
	// STEP 2: CONSUME RESULTS IN INPUT ORDER
	// =========================================================================

	for i, abn := range abns {
		f := <-slots[i]
		item := types.BatchItem{ABN: abn, Err: f.err}

		if item.Err == nil {
			item.Record, item.Err = s.parse(f.body)
		}

		if item.Err != nil {
			item.Record = nil
			result.Stats.Missing++
			logger.Warn(ctx, "abn lookup failed",
				zap.String("abn", abn),
				zap.String("kind", serrors.KindName(item.Err)),
				zap.Error(item.Err))
		} else {
			result.Stats.Found++
			logger.Debug(ctx, "abn lookup succeeded", zap.String("abn", abn))
		}

		result.Items[i] = item

		if progress != nil {
			progress(i+1, len(abns))
		}
	}

	wg.Wait()

	// =========================================================================
	// STEP 3: SUMMARY
	// =========================================================================

	result.Stats.Elapsed = s.now().Sub(result.StartedAt)
	logger.Info(ctx, "batch finished",
		zap.Int("found", result.Stats.Found),
		zap.Int("missing", result.Stats.Missing),
		zap.Duration("elapsed", result.Stats.Elapsed))

	return result
}

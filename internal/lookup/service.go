// =============================================================================
// ABN Bulk Lookup - Lookup Service
// =============================================================================
//
// This module is the core the CLI and the terminal form both call into. It
// ties the ABR client (fetch) and the response parser together for one ABN
// or for a whole batch.
//
// LOOKUP PIPELINE (per ABN):
//   1. Fetch the raw XML from the ABR search service
//   2. Parse the XML into a types.Record
//
// Any failure in either step means "no record" for that ABN. Failures are
// logged with their kind and never escalate beyond the ABN they belong to.
//
// =============================================================================

package lookup

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/InfinityHack3r/abnBulkLookup/internal/abr"
	"github.com/InfinityHack3r/abnBulkLookup/internal/types"
	"github.com/InfinityHack3r/abnBulkLookup/pkg/logger"
	"github.com/InfinityHack3r/abnBulkLookup/pkg/serrors"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Fetcher retrieves the raw search response for one ABN.
// abr.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, abn, apiKey string) ([]byte, error)
}

// ParseFunc turns a raw response into a Record. abr.Parse is the default.
type ParseFunc func(data []byte) (*types.Record, error)

// ProgressFunc is told how many of total ABNs have been consumed.
type ProgressFunc func(done, total int)

// =============================================================================
// SERVICE STRUCTURE
// =============================================================================

// Options configures a Service.
type Options struct {
	// Workers bounds the number of concurrent fetches in a batch.
	// 0 uses DefaultWorkers().
	Workers int

	// Parse overrides the response parser. nil uses abr.Parse.
	Parse ParseFunc

	// Now overrides the clock. nil uses time.Now.
	Now func() time.Time
}

// Service performs single and batch ABN lookups. It holds no per-run state
// and is safe for concurrent use.
type Service struct {
	fetcher Fetcher
	parse   ParseFunc
	workers int
	now     func() time.Time
}

// DefaultWorkers sizes the worker pool the same way for every batch:
// four more than the CPU count, capped at 32.
func DefaultWorkers() int {
	return min(32, runtime.NumCPU()+4)
}

// New creates a Service around fetcher.
func New(fetcher Fetcher, opts Options) *Service {
	s := &Service{
		fetcher: fetcher,
		parse:   opts.Parse,
		workers: opts.Workers,
		now:     opts.Now,
	}
	if s.parse == nil {
		s.parse = abr.Parse
	}
	if s.workers <= 0 {
		s.workers = DefaultWorkers()
	}
	if s.now == nil {
		s.now = time.Now
	}

	return s
}

// Workers reports the size of the batch worker pool.
func (s *Service) Workers() int { return s.workers }

// =============================================================================
// SINGLE LOOKUP
// =============================================================================

// NotFoundMessage is shown when a single lookup produced no record.
func NotFoundMessage(abn string) string {
	return fmt.Sprintf("Details for ABN %s could not be retrieved or are missing.", abn)
}

// Lookup fetches and parses a single ABN.
//
// RETURNS:
//   - The Record on success.
//   - ErrBadRequest when abn or apiKey is blank, otherwise the fetch or
//     parse error. The caller should treat every error as "not found".
func (s *Service) Lookup(ctx context.Context, abn, apiKey string) (*types.Record, error) {
	abn = strings.TrimSpace(abn)
	apiKey = strings.TrimSpace(apiKey)
	if abn == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "Please enter an ABN.")
	}
	if apiKey == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "Please enter an API key.")
	}

	ctx = logger.WithFields(ctx, zap.String("abn", abn))

	body, err := s.fetcher.Fetch(ctx, abn, apiKey)
	if err == nil {
		var rec *types.Record
		rec, err = s.parse(body)
		if err == nil {
			logger.Debug(ctx, "abn lookup succeeded")
			return rec, nil
		}
	}

	logger.Warn(ctx, "abn lookup failed", zap.String("kind", serrors.KindName(err)), zap.Error(err))

	return nil, err
}

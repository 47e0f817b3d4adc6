package form

import (
	"github.com/InfinityHack3r/abnBulkLookup/internal/export"
	"github.com/InfinityHack3r/abnBulkLookup/internal/types"
)

// lookupDone carries a single lookup back to the model.
type lookupDone struct {
	ABN    string
	Record *types.Record
	Err    error
}

// batchProgress is sent once per consumed ABN.
type batchProgress struct {
	Done  int
	Total int
}

// batchDone carries the finished batch.
type batchDone struct {
	Result *types.BatchResult
}

// saveDone carries the export outcome.
type saveDone struct {
	Outcome export.Outcome
	Err     error
}

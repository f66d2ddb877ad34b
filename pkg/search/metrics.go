package search

const (
	StageGenerated = "generated"
	StageRepaired  = "repaired"
	StageAborted   = "aborted"
)

// MetricsSink receives search progress. Implementations must be safe for
// concurrent use.
type MetricsSink interface {
	// RecordAttempt records one evaluated (or aborted) candidate of the given stage
	RecordAttempt(stage string, unallocated int)
	// RecordRepair records how many unallocated sessions a repair pass moved and how many it could not
	RecordRepair(moved, failed int)
	// RecordBest records a new best-known unallocated count
	RecordBest(unallocated int)
}

type NopSink struct{}

func (NopSink) RecordAttempt(string, int) {}
func (NopSink) RecordRepair(int, int)     {}
func (NopSink) RecordBest(int)            {}

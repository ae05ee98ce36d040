package storage

import "github.com/vovakirdan/scatter/internal/scene"

// RecordFromSummary converts a finished run summary into a record ready
// for SaveRun.
func RecordFromSummary(sum scene.Summary) RunRecord {
	removals := make([]RemovalRecord, len(sum.Removals))
	for i, rm := range sum.Removals {
		removals[i] = RemovalRecord{
			Iteration: rm.Iteration,
			Survivor:  rm.Survivor,
			Removed:   rm.Removed,
		}
	}
	return RunRecord{
		RunID:           sum.RunID,
		Seed:            sum.Seed,
		InitialShapes:   sum.Initial,
		RemainingShapes: sum.Remaining,
		Iterations:      sum.Iterations,
		Duration:        sum.Duration,
		Removals:        removals,
	}
}

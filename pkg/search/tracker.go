package search

import (
	"math"

	"github.com/limaJavier/classplanner/pkg/allocation"
	"github.com/limaJavier/classplanner/pkg/model"
)

type Solution struct {
	Timetable *model.Timetable
	Report    *allocation.Report
	Attempt   int
	Repaired  bool
}

func (solution *Solution) Unallocated() int {
	return solution.Report.UnallocatedCount()
}

// solutionTracker keeps the first solution reaching the lowest unallocated count.
type solutionTracker struct {
	best  *Solution
	score int
}

func newTracker() *solutionTracker {
	return &solutionTracker{score: math.MaxInt}
}

func (tracker *solutionTracker) add(solution *Solution) bool {
	score := solution.Unallocated()
	if score >= tracker.score {
		return false
	}
	tracker.best, tracker.score = solution, score
	return true
}

func (tracker *solutionTracker) perfect() bool {
	return tracker.best != nil && tracker.score == 0
}

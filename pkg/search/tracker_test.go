package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/limaJavier/classplanner/pkg/allocation"
	"github.com/limaJavier/classplanner/pkg/model"
)

func solutionWith(attempt, unallocated int) *Solution {
	report := &allocation.Report{}
	for range unallocated {
		report.Entries = append(report.Entries, allocation.Entry{Session: model.Session{Key: lecture("X")}})
	}
	return &Solution{Report: report, Attempt: attempt}
}

func TestSolutionTracker(t *testing.T) {
	tracker := newTracker()
	assert.False(t, tracker.perfect())

	assert.True(t, tracker.add(solutionWith(1, 3)))
	assert.False(t, tracker.add(solutionWith(2, 3)), "ties keep the first solution")
	assert.False(t, tracker.add(solutionWith(3, 5)))
	assert.Equal(t, 1, tracker.best.Attempt)
	assert.False(t, tracker.perfect())

	assert.True(t, tracker.add(solutionWith(4, 0)))
	assert.Equal(t, 4, tracker.best.Attempt)
	assert.True(t, tracker.perfect())
}

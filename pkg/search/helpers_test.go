package search

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/limaJavier/classplanner/pkg/allocation"
	"github.com/limaJavier/classplanner/pkg/model"
)

const inputsDirectory = "../../test/inputs/"

var errDiskFull = errors.New("disk full")

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func lecture(course string) model.SessionKey {
	return model.SessionKey{Course: course, Component: model.Lecture}
}

// fixedTimetabler always builds a copy of the same candidate and delegates
// everything else to a real timetabler.
type fixedTimetabler struct {
	model.Timetabler
	candidate *model.Timetable
}

func (timetabler *fixedTimetabler) Build(*rand.Rand) *model.Timetable {
	return timetabler.candidate.Clone()
}

type memoryStore struct {
	mu     sync.Mutex
	names  []string
	failOn string // Names containing this fragment fail to save
}

func (store *memoryStore) Save(ctx context.Context, name string, _ *model.Timetable) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.failOn != "" && strings.Contains(name, store.failOn) {
		return errDiskFull
	}
	store.names = append(store.names, name)
	return ctx.Err()
}

type recordingSink struct {
	stages []string
	counts []int
	repair [][2]int
	best   []int
}

func (sink *recordingSink) RecordAttempt(stage string, unallocated int) {
	sink.stages = append(sink.stages, stage)
	sink.counts = append(sink.counts, unallocated)
}

func (sink *recordingSink) RecordRepair(moved, failed int) {
	sink.repair = append(sink.repair, [2]int{moved, failed})
}

func (sink *recordingSink) RecordBest(unallocated int) {
	sink.best = append(sink.best, unallocated)
}

func newTimetabler(t *testing.T, calendar model.Calendar, cohorts map[string][]model.Course) model.Timetabler {
	t.Helper()
	load := model.CourseLoad{}
	for _, branch := range []string{"A7", "B1"} {
		if courses, ok := cohorts[branch]; ok {
			load.Branches = append(load.Branches, model.Branch{
				Name:      branch,
				Semesters: []model.Semester{{Name: "Year 1 Sem 1", Courses: courses}},
			})
		}
	}
	timetabler, err := model.NewTimetabler(load, calendar, model.DefaultAssignerOptions)
	require.NoError(t, err)
	return timetabler
}

func singleRoom(capacity int) []model.Room {
	return []model.Room{{Name: "F101", Capacity: capacity}}
}

func newAllocator(rooms []model.Room, enrollment map[string]int) *allocation.Allocator {
	return allocation.NewAllocator(rooms, enrollment, allocation.DefaultOptions)
}

package search

import (
	"math/rand/v2"
	"slices"

	"github.com/limaJavier/classplanner/pkg/allocation"
	"github.com/limaJavier/classplanner/pkg/model"
)

type victim struct {
	session    model.Session
	enrollment int
}

// repair relocates the unallocated sessions of a candidate, largest classes
// first. The candidate itself is left untouched; the returned copy carries
// every successful move.
func (driver *Driver) repair(timetable *model.Timetable, report *allocation.Report, rng *rand.Rand) (*model.Timetable, int) {
	working := timetable.Clone()
	unallocated := report.Unallocated()
	slices.SortStableFunc(unallocated, func(a, b allocation.Entry) int {
		return b.Enrollment - a.Enrollment
	})

	moved, failed := 0, 0
	for _, entry := range unallocated {
		// Lab periods move with their whole block, so a later entry may already be gone
		if len(working.Holding(entry.Session.Key, entry.Session.Slot)) == 0 {
			continue
		}

		if next, ok := driver.timetabler.Reschedule(working, entry.Session, rng); ok {
			working = next
			moved++
		} else if next, ok := driver.cascade(working, entry, rng); ok {
			working = next
			moved++
		} else {
			failed++
			driver.log.Debugf("no reschedule found for %v", entry.Session)
		}
	}

	driver.metrics.RecordRepair(moved, failed)
	return working, moved
}

// cascade evicts a smaller class standing in the way and retries the direct
// reschedule. The first eviction letting the session move wins.
func (driver *Driver) cascade(timetable *model.Timetable, entry allocation.Entry, rng *rand.Rand) (*model.Timetable, bool) {
	victims := make([]victim, 0)
	for _, blocker := range driver.timetabler.Blockers(timetable, entry.Session) {
		enrollment, ok := driver.allocator.Enrollment(timetable, blocker.Key)
		if ok && enrollment < entry.Enrollment {
			victims = append(victims, victim{session: blocker, enrollment: enrollment})
		}
	}
	slices.SortStableFunc(victims, func(a, b victim) int {
		return a.enrollment - b.enrollment
	})
	if len(victims) > driver.params.MaxVictims {
		victims = victims[:driver.params.MaxVictims]
	}

	for _, candidate := range victims {
		evicted, ok := driver.timetabler.Reschedule(timetable, candidate.session, rng)
		if !ok {
			continue
		}
		if placed, ok := driver.timetabler.Reschedule(evicted, entry.Session, rng); ok {
			driver.log.Debugf("%v moved after evicting %v", entry.Session, candidate.session)
			return placed, true
		}
	}
	return timetable, false
}

package allocation

import (
	"math"
	"slices"

	"github.com/limaJavier/classplanner/pkg/model"
)

type Options struct {
	GoodFitRatio     float64 // A room whose leftover seats stay within this share of its capacity is taken at once
	MatchingFallback bool    // Re-seat slots with unallocated sessions through a maximum matching
}

var DefaultOptions = Options{
	GoodFitRatio:     0.10,
	MatchingFallback: true,
}

type occupancyKey struct {
	room string
	slot model.Slot
}

type Allocator struct {
	rooms      []model.Room // Descending capacity
	enrollment map[string]int
	options    Options
}

func NewAllocator(rooms []model.Room, enrollment map[string]int, options Options) *Allocator {
	sorted := slices.Clone(rooms)
	slices.SortStableFunc(sorted, func(a, b model.Room) int {
		return b.Capacity - a.Capacity
	})
	return &Allocator{
		rooms:      sorted,
		enrollment: enrollment,
		options:    options,
	}
}

// Enrollment returns the headcount a session must seat. Sections of a
// component split the course headcount evenly.
func (allocator *Allocator) Enrollment(timetable *model.Timetable, key model.SessionKey) (int, bool) {
	headcount, ok := allocator.enrollment[key.Course]
	if !ok {
		return 0, false
	}
	if !key.Sectioned() {
		return headcount, true
	}
	sections := timetable.SectionCount(key.Group())
	return (headcount + sections - 1) / sections, true
}

func (allocator *Allocator) Allocate(timetable *model.Timetable) *Report {
	report := &Report{
		Calendar: timetable.Calendar,
		Entries:  make([]Entry, 0),
		Skipped:  make([]model.Session, 0),
	}

	//** Collect sessions with a known enrollment
	for _, session := range timetable.Sessions() {
		enrollment, ok := allocator.Enrollment(timetable, session.Key)
		if !ok {
			report.Skipped = append(report.Skipped, session)
			continue
		}
		report.Entries = append(report.Entries, Entry{Session: session, Enrollment: enrollment})
	}

	// Larger classes pick first
	slices.SortStableFunc(report.Entries, func(a, b Entry) int {
		return b.Enrollment - a.Enrollment
	})

	//** Best fit
	occupancy := make(map[occupancyKey]bool)
	for i := range report.Entries {
		entry := &report.Entries[i]
		room, ok := allocator.bestFit(entry.Enrollment, entry.Session.Slot, occupancy)
		if !ok {
			continue
		}
		entry.Room, entry.Capacity = room.Name, room.Capacity
		occupancy[occupancyKey{room: room.Name, slot: entry.Session.Slot}] = true
	}

	//** Matching fallback
	if allocator.options.MatchingFallback {
		allocator.rematch(report.Entries, occupancy)
	}

	return report
}

func (allocator *Allocator) bestFit(enrollment int, slot model.Slot, occupancy map[occupancyKey]bool) (model.Room, bool) {
	best, bestLeftover := -1, math.MaxInt
	for index, room := range allocator.rooms {
		if room.Capacity < enrollment || occupancy[occupancyKey{room: room.Name, slot: slot}] {
			continue
		}

		leftover := room.Capacity - enrollment
		if float64(leftover) <= allocator.options.GoodFitRatio*float64(room.Capacity) {
			return room, true
		}
		if leftover < bestLeftover {
			best, bestLeftover = index, leftover
		}
	}

	if best < 0 {
		return model.Room{}, false
	}
	return allocator.rooms[best], true
}

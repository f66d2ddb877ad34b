package model

import (
	"slices"

	"github.com/samber/lo"
)

func verify(timetable *Timetable, evaluator predicateEvaluator, labHours map[string]int) bool {
	//** Cohort grids
	for _, grid := range timetable.Grids {
		for _, session := range grid.Sessions() {
			// Every placement must be committed to the ledger
			if !timetable.Ledger.Has(session.Key, session.Slot) {
				return false
			}
			// Sessions of the same component-group may only share a slot as linked siblings
			if lo.SomeBy(grid.At(session.Slot), func(other SessionKey) bool {
				return other != session.Key && other.Group() == session.Key.Group() && evaluator.Clash(other, session.Key)
			}) {
				return false
			}
		}
	}

	//** Ledger
	for _, key := range timetable.Ledger.Keys() {
		slots := timetable.Ledger.Slots(key)

		// Check that:
		// - No slot is committed twice
		// - Every slot is legal for the component
		// - Every committed slot is held by at least one grid
		if len(lo.Uniq(slots)) != len(slots) ||
			!lo.EveryBy(slots, func(slot Slot) bool { return evaluator.ValidPeriod(slot.Period, key.Component) }) ||
			!lo.EveryBy(slots, func(slot Slot) bool { return len(timetable.Holding(key, slot)) > 0 }) {
			return false
		}

		if key.Component == Lab && !contiguousBlock(slots, labHours[key.Course]) {
			return false
		}
	}

	return true
}

// Checks whether the slots form exactly one run of the given length within a single day
func contiguousBlock(slots []Slot, hours int) bool {
	if len(slots) != hours || hours == 0 {
		return false
	}
	periods := lo.Map(slots, func(slot Slot, _ int) int { return slot.Period })
	slices.Sort(periods)
	for i, period := range periods {
		if slots[i].Day != slots[0].Day || period != periods[0]+i {
			return false
		}
	}
	return true
}

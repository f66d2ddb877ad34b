package model

import (
	"slices"
)

// ScheduleGrid holds the sessions of one (branch, semester) cohort.
type ScheduleGrid struct {
	Branch   string
	Semester string
	cells    [][][]SessionKey // Indexed by day and period
}

func NewScheduleGrid(branch, semester string, calendar Calendar) *ScheduleGrid {
	cells := make([][][]SessionKey, calendar.TotalDays())
	for day := range cells {
		cells[day] = make([][]SessionKey, calendar.TotalPeriods())
	}
	return &ScheduleGrid{
		Branch:   branch,
		Semester: semester,
		cells:    cells,
	}
}

// At returns the sessions placed in a slot. The result must not be modified.
func (grid *ScheduleGrid) At(slot Slot) []SessionKey {
	return grid.cells[slot.Day][slot.Period]
}

func (grid *ScheduleGrid) Occupied(slot Slot) bool {
	return len(grid.At(slot)) > 0
}

func (grid *ScheduleGrid) Contains(key SessionKey, slot Slot) bool {
	return slices.Contains(grid.At(slot), key)
}

// Place adds the key to the slot, reporting false if it was already there.
func (grid *ScheduleGrid) Place(key SessionKey, slot Slot) bool {
	if grid.Contains(key, slot) {
		return false
	}
	grid.cells[slot.Day][slot.Period] = append(grid.cells[slot.Day][slot.Period], key)
	return true
}

func (grid *ScheduleGrid) Remove(key SessionKey, slot Slot) bool {
	cell := grid.At(slot)
	index := slices.Index(cell, key)
	if index < 0 {
		return false
	}
	grid.cells[slot.Day][slot.Period] = slices.Delete(slices.Clone(cell), index, index+1)
	return true
}

// Sessions lists every placement, day-major then period then placement order.
func (grid *ScheduleGrid) Sessions() []Session {
	sessions := make([]Session, 0)
	for day, periods := range grid.cells {
		for period, keys := range periods {
			for _, key := range keys {
				sessions = append(sessions, Session{Key: key, Slot: Slot{Day: day, Period: period}})
			}
		}
	}
	return sessions
}

func (grid *ScheduleGrid) Clone() *ScheduleGrid {
	cells := make([][][]SessionKey, len(grid.cells))
	for day, periods := range grid.cells {
		cells[day] = make([][]SessionKey, len(periods))
		for period, keys := range periods {
			cells[day][period] = slices.Clone(keys)
		}
	}
	return &ScheduleGrid{
		Branch:   grid.Branch,
		Semester: grid.Semester,
		cells:    cells,
	}
}

package model

import (
	"maps"
	"slices"
)

// Shortfall records demand that no legal slot could absorb during an attempt.
type Shortfall struct {
	Branch   string
	Semester string
	Key      SessionKey
	Missing  int
}

// Timetable is one candidate: the grids of every (branch, semester) cohort
// together with the ledger they share.
type Timetable struct {
	Calendar   Calendar
	Grids      []*ScheduleGrid
	Ledger     *Ledger
	Sections   map[GroupKey]int
	Shortfalls []Shortfall
}

type LedgerEntry struct {
	Day       string `json:"day"`
	Period    string `json:"period"`
	Component string `json:"component"`
}

func NewTimetable(calendar Calendar) *Timetable {
	return &Timetable{
		Calendar:   calendar,
		Grids:      make([]*ScheduleGrid, 0),
		Ledger:     NewLedger(),
		Sections:   make(map[GroupKey]int),
		Shortfalls: make([]Shortfall, 0),
	}
}

func (timetable *Timetable) AddGrid(branch, semester string) *ScheduleGrid {
	grid := NewScheduleGrid(branch, semester, timetable.Calendar)
	timetable.Grids = append(timetable.Grids, grid)
	return grid
}

func (timetable *Timetable) Grid(branch, semester string) (*ScheduleGrid, bool) {
	index := slices.IndexFunc(timetable.Grids, func(grid *ScheduleGrid) bool {
		return grid.Branch == branch && grid.Semester == semester
	})
	if index < 0 {
		return nil, false
	}
	return timetable.Grids[index], true
}

// Place puts the key in the grid and commits the slot to the ledger unless
// another grid already did.
func (timetable *Timetable) Place(grid *ScheduleGrid, key SessionKey, slot Slot) {
	grid.Place(key, slot)
	if !timetable.Ledger.Has(key, slot) {
		timetable.Ledger.Record(key, slot)
	}
}

// Remove takes the key out of the slot in every grid and in the ledger,
// returning the grids that held it.
func (timetable *Timetable) Remove(key SessionKey, slot Slot) []*ScheduleGrid {
	holding := timetable.Holding(key, slot)
	for _, grid := range holding {
		grid.Remove(key, slot)
	}
	timetable.Ledger.Forget(key, slot)
	return holding
}

func (timetable *Timetable) Holding(key SessionKey, slot Slot) []*ScheduleGrid {
	holding := make([]*ScheduleGrid, 0, 1)
	for _, grid := range timetable.Grids {
		if grid.Contains(key, slot) {
			holding = append(holding, grid)
		}
	}
	return holding
}

// Sessions lists each placed (key, slot) once, in grid order.
func (timetable *Timetable) Sessions() []Session {
	seen := make(map[Session]bool)
	sessions := make([]Session, 0)
	for _, grid := range timetable.Grids {
		for _, session := range grid.Sessions() {
			if !seen[session] {
				seen[session] = true
				sessions = append(sessions, session)
			}
		}
	}
	return sessions
}

func (timetable *Timetable) SectionCount(group GroupKey) int {
	return max(timetable.Sections[group], 1)
}

func (timetable *Timetable) Clone() *Timetable {
	grids := make([]*ScheduleGrid, len(timetable.Grids))
	for i, grid := range timetable.Grids {
		grids[i] = grid.Clone()
	}
	return &Timetable{
		Calendar:   timetable.Calendar,
		Grids:      grids,
		Ledger:     timetable.Ledger.Clone(),
		Sections:   maps.Clone(timetable.Sections),
		Shortfalls: slices.Clone(timetable.Shortfalls),
	}
}

// View renders branch -> semester -> day -> period -> labels.
func (timetable *Timetable) View() map[string]map[string]map[string]map[string][]string {
	view := make(map[string]map[string]map[string]map[string][]string)
	for _, grid := range timetable.Grids {
		if _, ok := view[grid.Branch]; !ok {
			view[grid.Branch] = make(map[string]map[string]map[string][]string)
		}
		days := make(map[string]map[string][]string)
		for _, session := range grid.Sessions() {
			day, period := timetable.Calendar.DayName(session.Day), timetable.Calendar.PeriodName(session.Period)
			if _, ok := days[day]; !ok {
				days[day] = make(map[string][]string)
			}
			days[day][period] = append(days[day][period], session.Key.Label())
		}
		view[grid.Branch][grid.Semester] = days
	}
	return view
}

// LedgerView renders label -> committed (day, period, component) in commit order.
func (timetable *Timetable) LedgerView() map[string][]LedgerEntry {
	view := make(map[string][]LedgerEntry)
	for _, key := range timetable.Ledger.Keys() {
		for _, slot := range timetable.Ledger.Slots(key) {
			view[key.Label()] = append(view[key.Label()], LedgerEntry{
				Day:       timetable.Calendar.DayName(slot.Day),
				Period:    timetable.Calendar.PeriodName(slot.Period),
				Component: key.Component.String(),
			})
		}
	}
	return view
}

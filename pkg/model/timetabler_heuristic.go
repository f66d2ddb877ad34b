package model

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
)

type heuristicTimetabler struct {
	load      CourseLoad
	calendar  Calendar
	evaluator predicateEvaluator
	assigner  *sessionAssigner
	options   AssignerOptions
	labHours  map[string]int
}

func NewTimetabler(load CourseLoad, calendar Calendar, options AssignerOptions) (Timetabler, error) {
	evaluator := newPredicateEvaluator(calendar, load)

	// Longest run of periods a lab may occupy
	longestRun, run := 0, 0
	for period := range calendar.TotalPeriods() {
		if evaluator.ValidPeriod(period, Lab) {
			run++
			longestRun = max(longestRun, run)
		} else {
			run = 0
		}
	}

	labHours := make(map[string]int)
	for _, branch := range load.Branches {
		for _, semester := range branch.Semesters {
			for _, course := range semester.Courses {
				if course.LabHours > longestRun {
					return nil, fmt.Errorf("lab of course \"%v\" needs %v contiguous periods but the longest legal run is %v", course.Code, course.LabHours, longestRun)
				}
				labHours[course.Code] = course.LabHours
			}
		}
	}

	return &heuristicTimetabler{
		load:      load,
		calendar:  calendar,
		evaluator: evaluator,
		assigner:  newSessionAssigner(calendar, evaluator, options),
		options:   options,
		labHours:  labHours,
	}, nil
}

func (timetabler *heuristicTimetabler) Build(rng *rand.Rand) *Timetable {
	timetable := NewTimetable(timetabler.calendar)
	seriesA, seriesB := timetabler.calendar.SeriesA, timetabler.calendar.SeriesB

	for _, branch := range timetabler.load.Branches {
		for _, semester := range branch.Semesters {
			ctx := &schedulingContext{
				timetable: timetable,
				grid:      timetable.AddGrid(branch.Name, semester.Name),
				rng:       rng,
			}

			// First half of the course list leads with series A, the rest with series B
			half := (len(semester.Courses) + 1) / 2
			deficits := make([]deficit, 0)
			for i, course := range semester.Courses {
				for _, component := range Components {
					timetable.Sections[GroupKey{Course: course.Code, Component: component}] = course.SectionCount(component)
				}

				primary, secondary := seriesA, seriesB
				if i >= half {
					primary, secondary = seriesB, seriesA
					if timetabler.options.BorrowDay && len(seriesA) > 0 {
						primary = append(slices.Clone(primary), seriesA[rng.IntN(len(seriesA))])
					}
				}
				deficits = append(deficits, timetabler.assigner.Assign(ctx, course, primary, secondary)...)
			}

			timetable.Shortfalls = append(timetable.Shortfalls, timetabler.assigner.Reassign(ctx, deficits)...)
		}
	}

	return timetable
}

func (timetabler *heuristicTimetabler) Reschedule(timetable *Timetable, session Session, rng *rand.Rand) (*Timetable, bool) {
	if len(timetable.Holding(session.Key, session.Slot)) == 0 {
		return timetable, false
	}
	if session.Key.Component == Lab {
		return timetabler.rescheduleLab(timetable, session, rng)
	}

	candidate := timetable.Clone()
	key := session.Key
	holding := candidate.Remove(key, session.Slot)

	days := lo.Range(timetabler.calendar.TotalDays())
	if key.Component == Lecture {
		// Lectures stay within the series they already use
		if used := candidate.Ledger.Slots(key); len(used) > 0 {
			if series := timetabler.calendar.SeriesOf(used[0].Day); series != nil {
				days = series
			}
		}
	}

	alternatives := make([]Slot, 0)
	for _, day := range days {
		if !timetabler.evaluator.ValidDay(day, candidate.Ledger.Slots(key)) {
			continue
		}
		for period := range timetabler.calendar.TotalPeriods() {
			slot := Slot{Day: day, Period: period}
			if slot != session.Slot && timetabler.evaluator.ValidPeriod(period, key.Component) {
				alternatives = append(alternatives, slot)
			}
		}
	}
	rng.Shuffle(len(alternatives), func(i, j int) {
		alternatives[i], alternatives[j] = alternatives[j], alternatives[i]
	})

	for _, slot := range alternatives {
		if timetabler.movable(candidate, holding, key, slot) {
			for _, grid := range holding {
				candidate.Place(grid, key, slot)
			}
			return candidate, true
		}
	}
	return timetable, false
}

func (timetabler *heuristicTimetabler) rescheduleLab(timetable *Timetable, session Session, rng *rand.Rand) (*Timetable, bool) {
	candidate := timetable.Clone()
	key := session.Key

	block := lo.Filter(candidate.Ledger.Slots(key), func(slot Slot, _ int) bool {
		return slot.Day == session.Day
	})
	slices.SortFunc(block, func(a, b Slot) int { return a.Period - b.Period })
	hours := len(block)
	if hours == 0 {
		return timetable, false
	}

	holding := make([]*ScheduleGrid, 0)
	for _, slot := range block {
		holding = lo.Union(holding, candidate.Remove(key, slot))
	}

	starts := make([]Slot, 0)
	for day := range timetabler.calendar.TotalDays() {
		for start := 0; start+hours <= timetabler.calendar.TotalPeriods(); start++ {
			if day != session.Day || start != block[0].Period {
				starts = append(starts, Slot{Day: day, Period: start})
			}
		}
	}
	rng.Shuffle(len(starts), func(i, j int) {
		starts[i], starts[j] = starts[j], starts[i]
	})

	for _, start := range starts {
		fits := lo.EveryBy(lo.Range(hours), func(offset int) bool {
			slot := Slot{Day: start.Day, Period: start.Period + offset}
			return timetabler.evaluator.ValidPeriod(slot.Period, Lab) && timetabler.movable(candidate, holding, key, slot)
		})
		if !fits {
			continue
		}
		for offset := range hours {
			for _, grid := range holding {
				candidate.Place(grid, key, Slot{Day: start.Day, Period: start.Period + offset})
			}
		}
		return candidate, true
	}
	return timetable, false
}

// movable checks the slot against the cohorts holding the key and against the
// key's component-group in every other cohort.
func (timetabler *heuristicTimetabler) movable(timetable *Timetable, holding []*ScheduleGrid, key SessionKey, slot Slot) bool {
	for _, grid := range timetable.Grids {
		if slices.Contains(holding, grid) {
			if timetabler.evaluator.Conflicts(grid.At(slot), key) {
				return false
			}
		} else if slices.ContainsFunc(grid.At(slot), func(other SessionKey) bool {
			return other.Group() == key.Group() && timetabler.evaluator.Clash(other, key)
		}) {
			return false
		}
	}
	return true
}

func (timetabler *heuristicTimetabler) Blockers(timetable *Timetable, session Session) []Session {
	key := session.Key
	holding := timetable.Holding(key, session.Slot)
	seen := make(map[Session]bool)
	blockers := make([]Session, 0)

	for _, slot := range timetabler.calendar.Slots() {
		if slot == session.Slot || !timetabler.evaluator.ValidPeriod(slot.Period, key.Component) {
			continue
		}
		for _, grid := range holding {
			for _, other := range grid.At(slot) {
				blocker := Session{Key: other, Slot: slot}
				if other.Group() != key.Group() && timetabler.evaluator.Clash(other, key) && !seen[blocker] {
					seen[blocker] = true
					blockers = append(blockers, blocker)
				}
			}
		}
	}
	return blockers
}

func (timetabler *heuristicTimetabler) Verify(timetable *Timetable) bool {
	return verify(timetable, timetabler.evaluator, timetabler.labHours)
}

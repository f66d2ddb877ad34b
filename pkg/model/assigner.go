package model

import (
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
)

type AssignerOptions struct {
	LabAttempts       int  // Random days tried per lab block
	TutorialAttempts  int  // Random (day, period) draws per tutorial
	SecondaryAttempts int  // Random draws per lecture left over after the primary series
	BorrowDay         bool // Series-B courses borrow one random series-A day for lectures
}

var DefaultAssignerOptions = AssignerOptions{
	LabAttempts:       10,
	TutorialAttempts:  20,
	SecondaryAttempts: 20,
}

// schedulingContext is owned by a single (branch, semester) grid of a single
// attempt.
type schedulingContext struct {
	timetable *Timetable
	grid      *ScheduleGrid
	rng       *rand.Rand
}

func (ctx *schedulingContext) slots(key SessionKey) []Slot {
	return ctx.timetable.Ledger.Slots(key)
}

func (ctx *schedulingContext) place(key SessionKey, slot Slot) {
	ctx.timetable.Place(ctx.grid, key, slot)
}

type deficit struct {
	key     SessionKey
	missing int
	hours   int
}

type sessionAssigner struct {
	calendar  Calendar
	evaluator predicateEvaluator
	options   AssignerOptions
}

func newSessionAssigner(calendar Calendar, evaluator predicateEvaluator, options AssignerOptions) *sessionAssigner {
	return &sessionAssigner{
		calendar:  calendar,
		evaluator: evaluator,
		options:   options,
	}
}

// Assign places every lecture, tutorial and lab of the course and returns the
// demand left for deferred reassignment.
func (assigner *sessionAssigner) Assign(ctx *schedulingContext, course Course, primary, secondary []int) []deficit {
	deficits := make([]deficit, 0)

	for _, component := range Components {
		required := course.Required(component)
		if required == 0 {
			continue
		}

		for _, sections := range course.SectionGroups(component) {
			head := course.Key(component, sections[0])

			missing := assigner.importShared(ctx, head, required)
			if missing > 0 {
				switch component {
				case Lecture:
					missing = assigner.placeLectures(ctx, head, missing, primary, secondary)
				case Tutorial:
					missing = assigner.placeTutorials(ctx, head, missing, secondary)
				case Lab:
					if assigner.placeLab(ctx, head, course.LabHours) {
						missing = 0
					}
				}
			}
			if missing > 0 {
				deficits = append(deficits, deficit{key: head, missing: missing, hours: course.LabHours})
			}

			// Linked parallel sections follow the head of their group
			for _, section := range sections[1:] {
				sibling := course.Key(component, section)
				if missing := assigner.linkSibling(ctx, head, sibling, required); missing > 0 {
					deficits = append(deficits, deficit{key: sibling, missing: missing, hours: course.LabHours})
				}
			}
		}
	}

	return deficits
}

// Reassign retries deferred demand over a seeded shuffle of the whole week and
// returns whatever is still unmet.
func (assigner *sessionAssigner) Reassign(ctx *schedulingContext, deficits []deficit) []Shortfall {
	shortfalls := make([]Shortfall, 0)
	if len(deficits) == 0 {
		return shortfalls
	}

	slots := assigner.calendar.Slots()
	ctx.rng.Shuffle(len(slots), func(i, j int) {
		slots[i], slots[j] = slots[j], slots[i]
	})
	grids := []*ScheduleGrid{ctx.grid}

	for _, deficit := range deficits {
		key, missing := deficit.key, deficit.missing

		if key.Component == Lab {
			for _, start := range slots {
				if assigner.blockFits(grids, key, start.Day, start.Period, deficit.hours) {
					for period := start.Period; period < start.Period+deficit.hours; period++ {
						ctx.place(key, Slot{Day: start.Day, Period: period})
					}
					missing = 0
					break
				}
			}
		} else {
			// Days already used by the key are only taken once every fresh day is exhausted
			for _, strict := range []bool{true, false} {
				for _, slot := range slots {
					if missing == 0 {
						break
					}
					if strict && !assigner.evaluator.ValidDay(slot.Day, ctx.slots(key)) {
						continue
					}
					if assigner.evaluator.ValidPeriod(slot.Period, key.Component) && assigner.free(grids, key, slot) {
						ctx.place(key, slot)
						missing--
					}
				}
			}
		}

		if missing > 0 {
			shortfalls = append(shortfalls, Shortfall{
				Branch:   ctx.grid.Branch,
				Semester: ctx.grid.Semester,
				Key:      key,
				Missing:  missing,
			})
		}
	}

	return shortfalls
}

// importShared copies the slots the key already holds in other cohorts of the
// same generation and returns the demand still open.
func (assigner *sessionAssigner) importShared(ctx *schedulingContext, key SessionKey, required int) int {
	slots := ctx.slots(key)
	for _, slot := range slots {
		ctx.place(key, slot)
	}

	if key.Component == Lab {
		if len(slots) > 0 {
			return 0
		}
		return required
	}
	return max(required-len(slots), 0)
}

func (assigner *sessionAssigner) placeLectures(ctx *schedulingContext, key SessionKey, remaining int, primary, secondary []int) int {
	grids := []*ScheduleGrid{ctx.grid}

	for _, day := range primary {
		if remaining == 0 {
			break
		}
		if !assigner.evaluator.ValidDay(day, ctx.slots(key)) {
			continue
		}

		periods := assigner.freePeriods(grids, key, day)
		if len(periods) == 0 {
			continue
		}
		period := periods[ctx.rng.IntN(len(periods))]
		ctx.place(key, Slot{Day: day, Period: period})
		remaining--

		// Same period on the other days of the series
		for _, other := range primary {
			if remaining == 0 {
				break
			}
			slot := Slot{Day: other, Period: period}
			if other != day && assigner.evaluator.ValidDay(other, ctx.slots(key)) && assigner.free(grids, key, slot) {
				ctx.place(key, slot)
				remaining--
			}
		}
	}

	for attempt := 0; remaining > 0 && attempt < assigner.options.SecondaryAttempts; attempt++ {
		days := lo.Filter(secondary, func(day int, _ int) bool {
			return assigner.evaluator.ValidDay(day, ctx.slots(key))
		})
		if len(days) == 0 {
			break
		}
		day := days[ctx.rng.IntN(len(days))]

		periods := assigner.freePeriods(grids, key, day)
		if len(periods) == 0 {
			continue
		}
		ctx.place(key, Slot{Day: day, Period: periods[ctx.rng.IntN(len(periods))]})
		remaining--
	}

	return remaining
}

func (assigner *sessionAssigner) placeTutorials(ctx *schedulingContext, key SessionKey, remaining int, series []int) int {
	grids := []*ScheduleGrid{ctx.grid}
	tutorialPeriod := assigner.calendar.RestrictedPeriod

	for remaining > 0 {
		placed := false
		for attempt := 0; !placed && attempt < assigner.options.TutorialAttempts; attempt++ {
			days := lo.Filter(series, func(day int, _ int) bool {
				return assigner.evaluator.ValidDay(day, ctx.slots(key))
			})
			if len(days) == 0 {
				break
			}
			day := days[ctx.rng.IntN(len(days))]

			// The tutorial period first, any legal period otherwise
			if slot := (Slot{Day: day, Period: tutorialPeriod}); tutorialPeriod >= 0 && assigner.free(grids, key, slot) {
				ctx.place(key, slot)
				placed = true
				continue
			}
			periods := assigner.freePeriods(grids, key, day)
			if len(periods) == 0 {
				continue
			}
			ctx.place(key, Slot{Day: day, Period: periods[ctx.rng.IntN(len(periods))]})
			placed = true
		}

		if !placed {
			break
		}
		remaining--
	}

	return remaining
}

func (assigner *sessionAssigner) placeLab(ctx *schedulingContext, key SessionKey, hours int) bool {
	grids := []*ScheduleGrid{ctx.grid}

	for range assigner.options.LabAttempts {
		day := ctx.rng.IntN(assigner.calendar.TotalDays())
		for start := 0; start+hours <= assigner.calendar.TotalPeriods(); start++ {
			if assigner.blockFits(grids, key, day, start, hours) {
				for period := start; period < start+hours; period++ {
					ctx.place(key, Slot{Day: day, Period: period})
				}
				return true
			}
		}
	}
	return false
}

// linkSibling places a sibling section on the slots its group head received
// and returns the demand still open.
func (assigner *sessionAssigner) linkSibling(ctx *schedulingContext, head, sibling SessionKey, required int) int {
	missing := assigner.importShared(ctx, sibling, required)
	if missing == 0 {
		return 0
	}
	grids := []*ScheduleGrid{ctx.grid}
	slots := ctx.slots(head)

	if sibling.Component == Lab {
		if len(slots) == 0 || !lo.EveryBy(slots, func(slot Slot) bool { return assigner.free(grids, sibling, slot) }) {
			return missing
		}
		for _, slot := range slots {
			ctx.place(sibling, slot)
		}
		return 0
	}

	for _, slot := range slots {
		if missing == 0 {
			break
		}
		if assigner.evaluator.ValidDay(slot.Day, ctx.slots(sibling)) && assigner.free(grids, sibling, slot) {
			ctx.place(sibling, slot)
			missing--
		}
	}
	return missing
}

func (assigner *sessionAssigner) free(grids []*ScheduleGrid, key SessionKey, slot Slot) bool {
	return !slices.ContainsFunc(grids, func(grid *ScheduleGrid) bool {
		return assigner.evaluator.Conflicts(grid.At(slot), key)
	})
}

func (assigner *sessionAssigner) freePeriods(grids []*ScheduleGrid, key SessionKey, day int) []int {
	periods := make([]int, 0, assigner.calendar.TotalPeriods())
	for period := range assigner.calendar.TotalPeriods() {
		if assigner.evaluator.ValidPeriod(period, key.Component) && assigner.free(grids, key, Slot{Day: day, Period: period}) {
			periods = append(periods, period)
		}
	}
	return periods
}

func (assigner *sessionAssigner) blockFits(grids []*ScheduleGrid, key SessionKey, day, start, hours int) bool {
	if hours <= 0 || start+hours > assigner.calendar.TotalPeriods() {
		return false
	}
	for period := start; period < start+hours; period++ {
		if !assigner.evaluator.ValidPeriod(period, Lab) || !assigner.free(grids, key, Slot{Day: day, Period: period}) {
			return false
		}
	}
	return true
}

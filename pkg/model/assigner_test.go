package model

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(calendar Calendar, seed uint64) *schedulingContext {
	timetable := NewTimetable(calendar)
	return &schedulingContext{
		timetable: timetable,
		grid:      timetable.AddGrid("A7", "Year 1 Sem 1"),
		rng:       seeded(seed),
	}
}

func TestAssignDefersConflictingLecture(t *testing.T) {
	//** Arrange
	calendar := narrowCalendar(t)
	x := newCourse(RawCourse{Code: "X", Lectures: 1})
	y := newCourse(RawCourse{Code: "Y", Lectures: 1})
	assigner := newSessionAssigner(calendar, newPredicateEvaluator(calendar, singleCohort(x, y)), DefaultAssignerOptions)
	ctx := newContext(calendar, 1)
	monday, tuesday := Slot{Day: 0, Period: 0}, Slot{Day: 1, Period: 0}

	//** Act
	xDeficits := assigner.Assign(ctx, x, calendar.SeriesA, nil)
	yDeficits := assigner.Assign(ctx, y, calendar.SeriesA, nil)
	shortfalls := assigner.Reassign(ctx, yDeficits)

	//** Assert
	assert.Empty(t, xDeficits)
	require.Len(t, yDeficits, 1)
	assert.Equal(t, lecture("Y"), yDeficits[0].key)
	assert.Equal(t, 1, yDeficits[0].missing)

	assert.Empty(t, shortfalls)
	assert.Equal(t, []Slot{monday}, ctx.timetable.Ledger.Slots(lecture("X")))
	assert.Equal(t, []Slot{tuesday}, ctx.timetable.Ledger.Slots(lecture("Y")))
	assert.Equal(t, []SessionKey{lecture("X")}, ctx.grid.At(monday))
	assert.Equal(t, []SessionKey{lecture("Y")}, ctx.grid.At(tuesday))
}

func TestAssignReplicatesLecturePeriod(t *testing.T) {
	calendar := DefaultCalendar()
	course := newCourse(RawCourse{Code: "X", Lectures: 3})
	assigner := newSessionAssigner(calendar, newPredicateEvaluator(calendar, singleCohort(course)), DefaultAssignerOptions)

	for seed := range uint64(10) {
		ctx := newContext(calendar, seed)

		deficits := assigner.Assign(ctx, course, calendar.SeriesA, calendar.SeriesB)

		assert.Empty(t, deficits)
		slots := ctx.timetable.Ledger.Slots(lecture("X"))
		require.Len(t, slots, 3)
		assert.Equal(t, calendar.SeriesA, lo.Map(slots, func(slot Slot, _ int) int { return slot.Day }))
		assert.Len(t, lo.Uniq(lo.Map(slots, func(slot Slot, _ int) int { return slot.Period })), 1, "every lecture shares the first period")
	}
}

func TestAssignTutorialPrefersRestrictedPeriod(t *testing.T) {
	calendar := DefaultCalendar()
	course := newCourse(RawCourse{Code: "X", Lectures: 2, Tutorials: 1})
	assigner := newSessionAssigner(calendar, newPredicateEvaluator(calendar, singleCohort(course)), DefaultAssignerOptions)

	for seed := range uint64(10) {
		ctx := newContext(calendar, seed)

		assigner.Assign(ctx, course, calendar.SeriesA, calendar.SeriesB)

		slots := ctx.timetable.Ledger.Slots(SessionKey{Course: "X", Component: Tutorial})
		require.Len(t, slots, 1)
		assert.Contains(t, calendar.SeriesB, slots[0].Day)
		assert.Equal(t, calendar.RestrictedPeriod, slots[0].Period)
	}
}

func TestAssignLabBlock(t *testing.T) {
	calendar := DefaultCalendar()
	course := newCourse(RawCourse{Code: "BIO F110", LabHours: 3})
	evaluator := newPredicateEvaluator(calendar, singleCohort(course))
	assigner := newSessionAssigner(calendar, evaluator, DefaultAssignerOptions)

	for seed := range uint64(10) {
		ctx := newContext(calendar, seed)

		deficits := assigner.Assign(ctx, course, calendar.SeriesA, calendar.SeriesB)

		assert.Empty(t, deficits)
		slots := ctx.timetable.Ledger.Slots(SessionKey{Course: "BIO F110", Component: Lab})
		assert.True(t, contiguousBlock(slots, 3))
		assert.True(t, lo.EveryBy(slots, func(slot Slot) bool { return evaluator.ValidPeriod(slot.Period, Lab) }))
	}
}

func TestAssignSections(t *testing.T) {
	calendar := DefaultCalendar()
	course := newCourse(RawCourse{
		Code:      "CS F111",
		Lectures:  3,
		Tutorials: 1,
		LabHours:  2,
		Sections:  RawSectionCounts{Lectures: 2, Tutorials: 2, Labs: 2},
		Parallel:  RawParallelGroups{Lectures: [][]int{{1, 2}}},
	})
	assigner := newSessionAssigner(calendar, newPredicateEvaluator(calendar, singleCohort(course)), DefaultAssignerOptions)

	for seed := range uint64(10) {
		ctx := newContext(calendar, seed)
		ledger := ctx.timetable.Ledger

		deficits := assigner.Assign(ctx, course, calendar.SeriesA, calendar.SeriesB)

		require.Empty(t, deficits)

		t.Run("Linked sections share their slots", func(t *testing.T) {
			lectures := ledger.Slots(course.Key(Lecture, 1))
			assert.Len(t, lectures, 3)
			assert.ElementsMatch(t, lectures, ledger.Slots(course.Key(Lecture, 2)))
			for _, slot := range lectures {
				assert.ElementsMatch(t, []SessionKey{course.Key(Lecture, 1), course.Key(Lecture, 2)}, ctx.grid.At(slot))
			}
		})

		t.Run("Unlinked sections never meet", func(t *testing.T) {
			assert.Empty(t, lo.Intersect(ledger.Slots(course.Key(Tutorial, 1)), ledger.Slots(course.Key(Tutorial, 2))))
			assert.Empty(t, lo.Intersect(ledger.Slots(course.Key(Lab, 1)), ledger.Slots(course.Key(Lab, 2))))
			assert.True(t, contiguousBlock(ledger.Slots(course.Key(Lab, 1)), 2))
			assert.True(t, contiguousBlock(ledger.Slots(course.Key(Lab, 2)), 2))
		})
	}
}

func TestAssignImportsSharedSlots(t *testing.T) {
	//** Arrange
	calendar := DefaultCalendar()
	course := newCourse(RawCourse{Code: "MATH F111", Lectures: 3, Tutorials: 1})
	assigner := newSessionAssigner(calendar, newPredicateEvaluator(calendar, singleCohort(course)), DefaultAssignerOptions)
	ctx := newContext(calendar, 3)
	assigner.Assign(ctx, course, calendar.SeriesA, calendar.SeriesB)
	other := &schedulingContext{
		timetable: ctx.timetable,
		grid:      ctx.timetable.AddGrid("B1", "Year 1 Sem 1"),
		rng:       seeded(4),
	}

	//** Act
	deficits := assigner.Assign(other, course, calendar.SeriesB, calendar.SeriesA)

	//** Assert
	assert.Empty(t, deficits)
	assert.Equal(t, ctx.grid.Sessions(), other.grid.Sessions())
	assert.Len(t, ctx.timetable.Ledger.Slots(lecture("MATH F111")), 3)
}

func TestReassignReportsShortfall(t *testing.T) {
	calendar := narrowCalendar(t)
	course := newCourse(RawCourse{Code: "X", Lectures: 3})
	assigner := newSessionAssigner(calendar, newPredicateEvaluator(calendar, singleCohort(course)), DefaultAssignerOptions)
	ctx := newContext(calendar, 1)

	deficits := assigner.Assign(ctx, course, calendar.SeriesA, calendar.SeriesB)
	shortfalls := assigner.Reassign(ctx, deficits)

	assert.Equal(t, []Shortfall{{Branch: "A7", Semester: "Year 1 Sem 1", Key: lecture("X"), Missing: 1}}, shortfalls)
	assert.ElementsMatch(t, []Slot{{Day: 0, Period: 0}, {Day: 1, Period: 0}}, ctx.timetable.Ledger.Slots(lecture("X")))
}

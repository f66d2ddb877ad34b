package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPeriod(t *testing.T) {
	calendar := DefaultCalendar()
	evaluator := newPredicateEvaluator(calendar, CourseLoad{})

	for period := range calendar.TotalPeriods() {
		switch period {
		case calendar.LunchPeriod:
			for _, component := range Components {
				assert.False(t, evaluator.ValidPeriod(period, component), "lunch must stay empty")
			}
		case calendar.RestrictedPeriod:
			assert.True(t, evaluator.ValidPeriod(period, Tutorial))
			assert.False(t, evaluator.ValidPeriod(period, Lecture))
			assert.False(t, evaluator.ValidPeriod(period, Lab))
		default:
			for _, component := range Components {
				assert.True(t, evaluator.ValidPeriod(period, component))
			}
		}
	}
	assert.False(t, evaluator.ValidPeriod(-1, Tutorial))
	assert.False(t, evaluator.ValidPeriod(calendar.TotalPeriods(), Tutorial))
}

func TestValidDay(t *testing.T) {
	evaluator := newPredicateEvaluator(DefaultCalendar(), CourseLoad{})
	assigned := []Slot{{Day: 0, Period: 1}, {Day: 2, Period: 1}}

	assert.False(t, evaluator.ValidDay(0, assigned))
	assert.False(t, evaluator.ValidDay(2, assigned))
	assert.True(t, evaluator.ValidDay(1, assigned))
	assert.True(t, evaluator.ValidDay(4, nil))
}

func TestClash(t *testing.T) {
	//** Arrange
	cs := newCourse(RawCourse{
		Code:     "CS F111",
		Lectures: 3,
		Sections: RawSectionCounts{Lectures: 3},
		Parallel: RawParallelGroups{Lectures: [][]int{{1, 2}}},
	})
	evaluator := newPredicateEvaluator(DefaultCalendar(), singleCohort(cs))

	section := func(course string, component Component, section int) SessionKey {
		return SessionKey{Course: course, Component: component, Section: section}
	}

	tests := []struct {
		name     string
		key1     SessionKey
		key2     SessionKey
		expected bool
	}{
		{"Same unsectioned key", lecture("MATH F111"), lecture("MATH F111"), true},
		{"Missing section matches any section", lecture("CS F111"), section("CS F111", Lecture, 2), true},
		{"Linked siblings", section("CS F111", Lecture, 1), section("CS F111", Lecture, 2), false},
		{"Unlinked sections", section("CS F111", Lecture, 1), section("CS F111", Lecture, 3), true},
		{"Same section twice", section("CS F111", Lecture, 2), section("CS F111", Lecture, 2), true},
		{"Different courses without sections", lecture("CS F111"), lecture("MATH F111"), true},
		{"Unsectioned against sectioned", lecture("MATH F111"), section("CS F111", Tutorial, 1), true},
		{"Different courses, same section", section("CS F111", Tutorial, 1), section("BIO F110", Lab, 1), true},
		{"Different courses, different sections", section("CS F111", Tutorial, 1), section("BIO F110", Lab, 2), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			//** Act & Assert
			assert.Equal(t, test.expected, evaluator.Clash(test.key1, test.key2))
			assert.Equal(t, test.expected, evaluator.Clash(test.key2, test.key1))
		})
	}

	t.Run("Conflicts", func(t *testing.T) {
		assert.False(t, evaluator.Conflicts(nil, lecture("CS F111")))
		assert.True(t, evaluator.Conflicts([]SessionKey{section("CS F111", Lecture, 1), lecture("GS F112")}, section("CS F111", Lecture, 2)))
		assert.False(t, evaluator.Conflicts([]SessionKey{section("CS F111", Lecture, 1)}, section("CS F111", Lecture, 2)))
	})
}

package model

import (
	"slices"

	"github.com/samber/lo"
)

type predicateEvaluatorStandard struct {
	calendar Calendar
	parallel map[GroupKey]map[int]int // Section to parallel-group index, per component-group
}

func newPredicateEvaluator(calendar Calendar, load CourseLoad) predicateEvaluator {
	evaluator := predicateEvaluatorStandard{
		calendar: calendar,
		parallel: make(map[GroupKey]map[int]int),
	}

	for _, branch := range load.Branches {
		for _, semester := range branch.Semesters {
			for _, course := range semester.Courses {
				for _, component := range Components {
					group := GroupKey{Course: course.Code, Component: component}
					if _, ok := evaluator.parallel[group]; ok {
						continue
					}
					evaluator.parallel[group] = make(map[int]int)
					for index, sections := range course.SectionGroups(component) {
						for _, section := range sections {
							evaluator.parallel[group][section] = index
						}
					}
				}
			}
		}
	}

	return &evaluator
}

func (evaluator *predicateEvaluatorStandard) ValidPeriod(period int, component Component) bool {
	if period < 0 || period >= evaluator.calendar.TotalPeriods() || period == evaluator.calendar.LunchPeriod {
		return false
	}
	return period != evaluator.calendar.RestrictedPeriod || component == Tutorial
}

func (evaluator *predicateEvaluatorStandard) ValidDay(day int, assigned []Slot) bool {
	return !lo.SomeBy(assigned, func(slot Slot) bool {
		return slot.Day == day
	})
}

func (evaluator *predicateEvaluatorStandard) Clash(key1, key2 SessionKey) bool {
	if key1.Group() == key2.Group() {
		// A missing section matches any section of the group; distinct sections may only meet as siblings
		if !key1.Sectioned() || !key2.Sectioned() || key1.Section == key2.Section {
			return true
		}
		return !evaluator.Siblings(key1.Group(), key1.Section, key2.Section)
	}

	// An unsectioned session holds the whole slot of its cohort; sectioned ones only their own section
	if !key1.Sectioned() || !key2.Sectioned() {
		return true
	}
	return key1.Section == key2.Section
}

func (evaluator *predicateEvaluatorStandard) Conflicts(existing []SessionKey, candidate SessionKey) bool {
	return slices.ContainsFunc(existing, func(key SessionKey) bool {
		return evaluator.Clash(key, candidate)
	})
}

func (evaluator *predicateEvaluatorStandard) Siblings(group GroupKey, section1, section2 int) bool {
	sections, ok := evaluator.parallel[group]
	if !ok {
		return false
	}
	index1, ok1 := sections[section1]
	index2, ok2 := sections[section2]
	return ok1 && ok2 && index1 == index2
}

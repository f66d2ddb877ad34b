package model

type predicateEvaluator interface {
	// Checks whether the period may hold a session of the given component
	ValidPeriod(period int, component Component) bool

	// Checks whether the day is still free for a session that already holds the assigned slots
	ValidDay(day int, assigned []Slot) bool

	// Checks whether two sessions may not share the same day and period
	Clash(key1, key2 SessionKey) bool

	// Checks whether the candidate clashes with any session already placed in a slot
	Conflicts(existing []SessionKey, candidate SessionKey) bool

	// Checks whether two sections of a component-group are registered as parallel siblings
	Siblings(group GroupKey, section1, section2 int) bool
}

package model

import (
	"math/rand/v2"
)

type Timetabler interface {
	// Generates a fresh candidate for the whole course load
	Build(rng *rand.Rand) *Timetable

	// Moves one session (a whole block for labs) to another legal slot. The
	// given timetable is never modified; on success the moved copy is returned.
	Reschedule(timetable *Timetable, session Session, rng *rand.Rand) (*Timetable, bool)

	// Lists the sessions standing in the way of the given session's legal alternatives
	Blockers(timetable *Timetable, session Session) []Session

	Verify(timetable *Timetable) bool
}

package model

import (
	"math/rand/v2"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const inputsDirectory = "../../test/inputs/"

func loadInput(t *testing.T, name string) ModelInput {
	t.Helper()
	input, err := InputFromJson(inputsDirectory + name)
	require.NoError(t, err)
	return input
}

func newCourse(raw RawCourse) Course {
	return lo.Must(processRawCourse(raw))
}

func singleCohort(courses ...Course) CourseLoad {
	return CourseLoad{Branches: []Branch{{
		Name:      "A7",
		Semesters: []Semester{{Name: "Year 1 Sem 1", Courses: courses}},
	}}}
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Two days, a single period and series A = {Monday}
func narrowCalendar(t *testing.T) Calendar {
	t.Helper()
	calendar, err := NewCalendar([]string{"Monday", "Tuesday"}, []string{"Monday"}, nil, []string{"9:00"}, "", "")
	require.NoError(t, err)
	return calendar
}

func lecture(course string) SessionKey {
	return SessionKey{Course: course, Component: Lecture}
}

package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/classplanner/pkg/allocation"
	"github.com/limaJavier/classplanner/pkg/model"
	"github.com/limaJavier/classplanner/pkg/search"
)

func TestNewResultDocument(t *testing.T) {
	//** Arrange
	timetable := model.NewTimetable(model.DefaultCalendar())
	key := model.SessionKey{Course: "X", Component: model.Lecture}
	timetable.Place(timetable.AddGrid("A7", "Year 1 Sem 1"), key, model.Slot{Day: 0, Period: 1})
	timetable.Shortfalls = append(timetable.Shortfalls, model.Shortfall{Branch: "A7", Semester: "Year 1 Sem 1", Key: key, Missing: 1})
	report := allocation.NewAllocator([]model.Room{{Name: "F101", Capacity: 50}}, map[string]int{"X": 40}, allocation.DefaultOptions).Allocate(timetable)
	outcome := &search.Outcome{
		RunID:    "run",
		Attempts: 4,
		Aborted:  1,
		Best:     &search.Solution{Timetable: timetable, Report: report, Attempt: 3, Repaired: true},
	}

	//** Act
	document, err := NewResultDocument(outcome, 42)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, Summary{
		RunID:       "run",
		Seed:        42,
		Attempts:    4,
		Aborted:     1,
		BestAttempt: 3,
		Repaired:    true,
		Perfect:     true,
		Allocated:   1,
	}, document.Summary)
	assert.Equal(t, []string{"X_Lecture"}, document.Timetable["A7"]["Year 1 Sem 1"]["Monday"]["9:00"])
	assert.Equal(t, []ShortfallRow{{Branch: "A7", Semester: "Year 1 Sem 1", Session: "X_Lecture", Missing: 1}}, document.Shortfalls)
	assert.Equal(t, "X_Lecture", document.RoomSchedule["F101"]["Monday"]["9:00"])

	t.Run("Encoded as JSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteJSON(&buf, document))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Contains(t, decoded, "summary")
		assert.Contains(t, decoded, "timetable")
		assert.Contains(t, decoded, "ledger")
		assert.Contains(t, decoded, "allocation")
		assert.Contains(t, decoded, "room_schedule")
	})

	t.Run("Nothing to report", func(t *testing.T) {
		_, err := NewResultDocument(&search.Outcome{RunID: "empty"}, 1)
		assert.ErrorContains(t, err, "no solution")
	})
}

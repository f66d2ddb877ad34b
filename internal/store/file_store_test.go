package store

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/classplanner/internal/report"
	"github.com/limaJavier/classplanner/pkg/model"
)

func sampleTimetable() *model.Timetable {
	timetable := model.NewTimetable(model.DefaultCalendar())
	grid := timetable.AddGrid("A7", "Year 1 Sem 1")
	timetable.Place(grid, model.SessionKey{Course: "CS F111", Component: model.Lecture}, model.Slot{Day: 0, Period: 1})
	return timetable
}

func TestFileStoreSave(t *testing.T) {
	//** Arrange
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	//** Act
	err = store.Save(context.Background(), "run/attempt-001-generated.json", sampleTimetable())

	//** Assert
	require.NoError(t, err)
	content, err := os.ReadFile(filepath.Join(dir, "run", "attempt-001-generated.json"))
	require.NoError(t, err)

	var document report.TimetableDocument
	require.NoError(t, json.Unmarshal(content, &document))
	assert.Equal(t, []string{"CS F111_Lecture"}, document.Timetable["A7"]["Year 1 Sem 1"]["Monday"]["9:00"])
	assert.Equal(t, []model.LedgerEntry{{Day: "Monday", Period: "9:00", Component: "Lecture"}}, document.Ledger["CS F111_Lecture"])
}

func TestFileStoreWriteAndOpen(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Write("reports/allocation.csv", []byte("Course\n"))
	require.NoError(t, err)

	file, err := store.Open("reports/allocation.csv")
	require.NoError(t, err)
	defer file.Close()
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "Course\n", string(content))
}

func TestFileStoreErrors(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	t.Run("Escaping path", func(t *testing.T) {
		_, err := store.Write("../outside.json", []byte("{}"))
		assert.ErrorContains(t, err, "escapes")
	})

	t.Run("Cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, store.Save(ctx, "late.json", sampleTimetable()), context.Canceled)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := store.Open("missing.json")
		assert.Error(t, err)
	})
}

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/limaJavier/classplanner/pkg/allocation"
	"github.com/limaJavier/classplanner/pkg/model"
	"github.com/limaJavier/classplanner/pkg/search"
)

type ShortfallRow struct {
	Branch   string `json:"branch"`
	Semester string `json:"semester"`
	Session  string `json:"session"`
	Missing  int    `json:"missing"`
}

type TimetableDocument struct {
	Timetable  map[string]map[string]map[string]map[string][]string `json:"timetable"`
	Ledger     map[string][]model.LedgerEntry                        `json:"ledger"`
	Shortfalls []ShortfallRow                                        `json:"shortfalls"`
}

type Summary struct {
	RunID       string `json:"run_id"`
	Seed        uint64 `json:"seed"`
	Attempts    int    `json:"attempts"`
	Aborted     int    `json:"aborted"`
	BestAttempt int    `json:"best_attempt"`
	Repaired    bool   `json:"repaired"`
	Perfect     bool   `json:"perfect"`
	Allocated   int    `json:"allocated"`
	Unallocated int    `json:"unallocated"`
	Skipped     int    `json:"skipped"`
}

type ResultDocument struct {
	Summary Summary `json:"summary"`
	TimetableDocument
	Allocation   []allocation.Row                        `json:"allocation"`
	RoomSchedule map[string]map[string]map[string]string `json:"room_schedule"`
}

func NewTimetableDocument(timetable *model.Timetable) TimetableDocument {
	shortfalls := make([]ShortfallRow, 0, len(timetable.Shortfalls))
	for _, shortfall := range timetable.Shortfalls {
		shortfalls = append(shortfalls, ShortfallRow{
			Branch:   shortfall.Branch,
			Semester: shortfall.Semester,
			Session:  shortfall.Key.Label(),
			Missing:  shortfall.Missing,
		})
	}
	return TimetableDocument{
		Timetable:  timetable.View(),
		Ledger:     timetable.LedgerView(),
		Shortfalls: shortfalls,
	}
}

// NewResultDocument describes the best solution of a finished search.
func NewResultDocument(outcome *search.Outcome, seed uint64) (ResultDocument, error) {
	if outcome.Best == nil {
		return ResultDocument{}, fmt.Errorf("run %v has no solution to report", outcome.RunID)
	}
	best := outcome.Best
	return ResultDocument{
		Summary: Summary{
			RunID:       outcome.RunID,
			Seed:        seed,
			Attempts:    outcome.Attempts,
			Aborted:     outcome.Aborted,
			BestAttempt: best.Attempt,
			Repaired:    best.Repaired,
			Perfect:     outcome.Perfect(),
			Allocated:   best.Report.AllocatedCount(),
			Unallocated: best.Unallocated(),
			Skipped:     len(best.Report.Skipped),
		},
		TimetableDocument: NewTimetableDocument(best.Timetable),
		Allocation:        best.Report.Rows(),
		RoomSchedule:      best.Report.RoomSchedule(),
	}, nil
}

func WriteJSON(w io.Writer, document any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(document); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

package allocation

import (
	"github.com/limaJavier/classplanner/pkg/model"
	"github.com/samber/lo"
)

const (
	StatusAllocated         = "allocated"
	StatusUnallocated       = "unallocated"
	StatusMissingEnrollment = "missing-enrollment"

	UnallocatedRoom = "Unallocated"
)

// Entry is the outcome of one session. Room is empty when no room could be
// assigned.
type Entry struct {
	Session    model.Session
	Room       string
	Capacity   int
	Enrollment int
}

func (entry Entry) Allocated() bool {
	return entry.Room != ""
}

type Report struct {
	Calendar model.Calendar
	Entries  []Entry         // In allocation order
	Skipped  []model.Session // Sessions whose course has no enrollment record
}

type Row struct {
	Course     string `json:"course"`
	Day        string `json:"day"`
	Period     string `json:"period"`
	Component  string `json:"component"`
	Room       string `json:"room"`
	Capacity   int    `json:"capacity"`
	Enrollment int    `json:"enrollment"`
	Status     string `json:"status"`
}

func (report *Report) Unallocated() []Entry {
	return lo.Filter(report.Entries, func(entry Entry, _ int) bool {
		return !entry.Allocated()
	})
}

func (report *Report) UnallocatedCount() int {
	return lo.CountBy(report.Entries, func(entry Entry) bool {
		return !entry.Allocated()
	})
}

func (report *Report) AllocatedCount() int {
	return len(report.Entries) - report.UnallocatedCount()
}

// Rows flattens the report; skipped sessions come last.
func (report *Report) Rows() []Row {
	rows := make([]Row, 0, len(report.Entries)+len(report.Skipped))
	for _, entry := range report.Entries {
		row := report.row(entry.Session)
		row.Enrollment = entry.Enrollment
		if entry.Allocated() {
			row.Room, row.Capacity, row.Status = entry.Room, entry.Capacity, StatusAllocated
		} else {
			row.Room, row.Status = UnallocatedRoom, StatusUnallocated
		}
		rows = append(rows, row)
	}
	for _, session := range report.Skipped {
		row := report.row(session)
		row.Status = StatusMissingEnrollment
		rows = append(rows, row)
	}
	return rows
}

// RoomSchedule renders room -> day -> period -> session label.
func (report *Report) RoomSchedule() map[string]map[string]map[string]string {
	schedule := make(map[string]map[string]map[string]string)
	for _, entry := range report.Entries {
		if !entry.Allocated() {
			continue
		}
		day := report.Calendar.DayName(entry.Session.Day)
		if _, ok := schedule[entry.Room]; !ok {
			schedule[entry.Room] = make(map[string]map[string]string)
		}
		if _, ok := schedule[entry.Room][day]; !ok {
			schedule[entry.Room][day] = make(map[string]string)
		}
		schedule[entry.Room][day][report.Calendar.PeriodName(entry.Session.Period)] = entry.Session.Key.Label()
	}
	return schedule
}

func (report *Report) row(session model.Session) Row {
	return Row{
		Course:    session.Key.Label(),
		Day:       report.Calendar.DayName(session.Day),
		Period:    report.Calendar.PeriodName(session.Period),
		Component: session.Key.Component.String(),
	}
}

// Verify checks that every seated session fits its room and that no room is
// booked twice in the same slot.
func Verify(report *Report) bool {
	booked := make(map[occupancyKey]bool)
	for _, entry := range report.Entries {
		if !entry.Allocated() {
			continue
		}
		key := occupancyKey{room: entry.Room, slot: entry.Session.Slot}
		if entry.Capacity < entry.Enrollment || booked[key] {
			return false
		}
		booked[key] = true
	}
	return true
}

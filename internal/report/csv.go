package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/limaJavier/classplanner/pkg/allocation"
	"github.com/limaJavier/classplanner/pkg/model"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// RenderCSV produces CSV encoded bytes for the dataset.
func RenderCSV(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := lo.Map(data.Headers, func(header string, _ int) string { return row[header] })
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func AllocationDataset(rows []allocation.Row) Dataset {
	return Dataset{
		Headers: []string{"Course", "Day", "Period", "Component", "Room", "Capacity", "Enrollment", "Status"},
		Rows: lo.Map(rows, func(row allocation.Row, _ int) map[string]string {
			return map[string]string{
				"Course":     row.Course,
				"Day":        row.Day,
				"Period":     row.Period,
				"Component":  row.Component,
				"Room":       row.Room,
				"Capacity":   strconv.Itoa(row.Capacity),
				"Enrollment": strconv.Itoa(row.Enrollment),
				"Status":     row.Status,
			}
		}),
	}
}

// LedgerDataset lists every committed slot in ledger order.
func LedgerDataset(timetable *model.Timetable) Dataset {
	rows := make([]map[string]string, 0)
	for _, key := range timetable.Ledger.Keys() {
		for _, slot := range timetable.Ledger.Slots(key) {
			rows = append(rows, map[string]string{
				"Course":    key.Label(),
				"Day":       timetable.Calendar.DayName(slot.Day),
				"Period":    timetable.Calendar.PeriodName(slot.Period),
				"Component": key.Component.String(),
			})
		}
	}
	return Dataset{Headers: []string{"Course", "Day", "Period", "Component"}, Rows: rows}
}

// RoomScheduleDataset lists room bookings ordered by room, day and period.
func RoomScheduleDataset(result *allocation.Report) Dataset {
	entries := lo.Filter(result.Entries, func(entry allocation.Entry, _ int) bool { return entry.Allocated() })
	slices.SortStableFunc(entries, func(a, b allocation.Entry) int {
		if a.Room != b.Room {
			if a.Room < b.Room {
				return -1
			}
			return 1
		}
		if a.Session.Day != b.Session.Day {
			return a.Session.Day - b.Session.Day
		}
		return a.Session.Period - b.Session.Period
	})

	return Dataset{
		Headers: []string{"Room", "Day", "Period", "Course"},
		Rows: lo.Map(entries, func(entry allocation.Entry, _ int) map[string]string {
			return map[string]string{
				"Room":   entry.Room,
				"Day":    result.Calendar.DayName(entry.Session.Day),
				"Period": result.Calendar.PeriodName(entry.Session.Period),
				"Course": entry.Session.Key.Label(),
			}
		}),
	}
}

package model

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Calendar holds the static week layout every grid is built on. Days and
// periods are referenced by index everywhere else.
type Calendar struct {
	Days    []string
	Periods []string
	SeriesA []int
	SeriesB []int

	LunchPeriod      int // -1 when the week has no lunch period
	RestrictedPeriod int // -1 when no period is restricted
}

var (
	defaultDays    = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	defaultPeriods = []string{"8:00", "9:00", "10:00", "11:00", "12:00", "1:00", "2:00", "3:00", "4:00", "5:00"}
)

func DefaultCalendar() Calendar {
	return lo.Must(NewCalendar(
		defaultDays,
		[]string{"Monday", "Wednesday", "Friday"},
		[]string{"Tuesday", "Thursday"},
		defaultPeriods,
		"1:00",
		"8:00",
	))
}

// NewCalendar resolves day and period names into a Calendar. Empty lunch or
// restricted names disable the corresponding rule.
func NewCalendar(days, seriesA, seriesB, periods []string, lunch, restricted string) (Calendar, error) {
	if len(days) == 0 {
		return Calendar{}, fmt.Errorf("calendar requires at least one day")
	} else if len(periods) == 0 {
		return Calendar{}, fmt.Errorf("calendar requires at least one period")
	} else if duplicate, ok := firstDuplicate(days); ok {
		return Calendar{}, fmt.Errorf("duplicate day \"%v\"", duplicate)
	} else if duplicate, ok := firstDuplicate(periods); ok {
		return Calendar{}, fmt.Errorf("duplicate period \"%v\"", duplicate)
	}

	resolveDays := func(series []string, name string) ([]int, error) {
		indexes := make([]int, 0, len(series))
		for _, day := range series {
			index := slices.Index(days, day)
			if index < 0 {
				return nil, fmt.Errorf("series %v references unknown day \"%v\"", name, day)
			}
			indexes = append(indexes, index)
		}
		return indexes, nil
	}

	a, err := resolveDays(seriesA, "A")
	if err != nil {
		return Calendar{}, err
	}
	b, err := resolveDays(seriesB, "B")
	if err != nil {
		return Calendar{}, err
	}
	if shared := lo.Intersect(a, b); len(shared) > 0 {
		return Calendar{}, fmt.Errorf("series A and B must be disjoint: \"%v\" belongs to both", days[shared[0]])
	}

	resolvePeriod := func(period, role string) (int, error) {
		if period == "" {
			return -1, nil
		}
		index := slices.Index(periods, period)
		if index < 0 {
			return -1, fmt.Errorf("%v period \"%v\" is not a known period", role, period)
		}
		return index, nil
	}

	lunchPeriod, err := resolvePeriod(lunch, "lunch")
	if err != nil {
		return Calendar{}, err
	}
	restrictedPeriod, err := resolvePeriod(restricted, "restricted")
	if err != nil {
		return Calendar{}, err
	}
	if lunchPeriod >= 0 && lunchPeriod == restrictedPeriod {
		return Calendar{}, fmt.Errorf("lunch and restricted periods must differ")
	}

	return Calendar{
		Days:             slices.Clone(days),
		Periods:          slices.Clone(periods),
		SeriesA:          a,
		SeriesB:          b,
		LunchPeriod:      lunchPeriod,
		RestrictedPeriod: restrictedPeriod,
	}, nil
}

func (calendar Calendar) TotalDays() int {
	return len(calendar.Days)
}

func (calendar Calendar) TotalPeriods() int {
	return len(calendar.Periods)
}

// Slots enumerates every (day, period) of the week, day-major.
func (calendar Calendar) Slots() []Slot {
	slots := make([]Slot, 0, calendar.TotalDays()*calendar.TotalPeriods())
	for day := range calendar.TotalDays() {
		for period := range calendar.TotalPeriods() {
			slots = append(slots, Slot{Day: day, Period: period})
		}
	}
	return slots
}

// SeriesOf returns the series containing day, or nil if the day belongs to none.
func (calendar Calendar) SeriesOf(day int) []int {
	if slices.Contains(calendar.SeriesA, day) {
		return calendar.SeriesA
	} else if slices.Contains(calendar.SeriesB, day) {
		return calendar.SeriesB
	}
	return nil
}

func (calendar Calendar) DayName(day int) string {
	return calendar.Days[day]
}

func (calendar Calendar) PeriodName(period int) string {
	return calendar.Periods[period]
}

func firstDuplicate(values []string) (string, bool) {
	seen := make(map[string]bool, len(values))
	for _, value := range values {
		if seen[value] {
			return value, true
		}
		seen[value] = true
	}
	return "", false
}

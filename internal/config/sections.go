package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/limaJavier/classplanner/pkg/allocation"
	"github.com/limaJavier/classplanner/pkg/model"
	"github.com/limaJavier/classplanner/pkg/search"
)

// CalendarConfig names the week layout. Lunch and restricted periods are only
// defaulted together with the period list.
type CalendarConfig struct {
	Days       []string `json:"days"`
	SeriesA    []string `json:"series_a"`
	SeriesB    []string `json:"series_b"`
	Periods    []string `json:"periods"`
	Lunch      string   `json:"lunch"`
	Restricted string   `json:"restricted"`
}

func (c *CalendarConfig) SetDefaults() {
	defaults := model.DefaultCalendar()
	names := func(indexes []int) []string {
		series := make([]string, len(indexes))
		for i, day := range indexes {
			series[i] = defaults.DayName(day)
		}
		return series
	}

	if len(c.Days) == 0 {
		c.Days = slices.Clone(defaults.Days)
		if len(c.SeriesA) == 0 && len(c.SeriesB) == 0 {
			c.SeriesA, c.SeriesB = names(defaults.SeriesA), names(defaults.SeriesB)
		}
	}
	if len(c.Periods) == 0 {
		c.Periods = slices.Clone(defaults.Periods)
		if c.Lunch == "" {
			c.Lunch = defaults.PeriodName(defaults.LunchPeriod)
		}
		if c.Restricted == "" {
			c.Restricted = defaults.PeriodName(defaults.RestrictedPeriod)
		}
	}
}

func (c CalendarConfig) Calendar() (model.Calendar, error) {
	calendar, err := model.NewCalendar(c.Days, c.SeriesA, c.SeriesB, c.Periods, c.Lunch, c.Restricted)
	if err != nil {
		return model.Calendar{}, fmt.Errorf("calendar: %w", err)
	}
	return calendar, nil
}

func (c CalendarConfig) Validate() error {
	_, err := c.Calendar()
	return err
}

type AssignerConfig struct {
	LabAttempts       int  `json:"lab_attempts"`
	TutorialAttempts  int  `json:"tutorial_attempts"`
	SecondaryAttempts int  `json:"secondary_attempts"`
	BorrowDay         bool `json:"borrow_day"`
}

func (c *AssignerConfig) SetDefaults() {
	if c.LabAttempts == 0 {
		c.LabAttempts = model.DefaultAssignerOptions.LabAttempts
	}
	if c.TutorialAttempts == 0 {
		c.TutorialAttempts = model.DefaultAssignerOptions.TutorialAttempts
	}
	if c.SecondaryAttempts == 0 {
		c.SecondaryAttempts = model.DefaultAssignerOptions.SecondaryAttempts
	}
}

func (c AssignerConfig) Validate() error {
	if c.LabAttempts < 0 || c.TutorialAttempts < 0 || c.SecondaryAttempts < 0 {
		return fmt.Errorf("assigner attempt budgets must not be negative")
	}
	return nil
}

func (c AssignerConfig) Options() model.AssignerOptions {
	return model.AssignerOptions{
		LabAttempts:       c.LabAttempts,
		TutorialAttempts:  c.TutorialAttempts,
		SecondaryAttempts: c.SecondaryAttempts,
		BorrowDay:         c.BorrowDay,
	}
}

type AllocationConfig struct {
	GoodFitRatio     float64 `json:"good_fit_ratio"`
	MatchingFallback *bool   `json:"matching_fallback"`
}

func (c *AllocationConfig) SetDefaults() {
	if c.GoodFitRatio == 0 {
		c.GoodFitRatio = allocation.DefaultOptions.GoodFitRatio
	}
	if c.MatchingFallback == nil {
		fallback := allocation.DefaultOptions.MatchingFallback
		c.MatchingFallback = &fallback
	}
}

func (c AllocationConfig) Validate() error {
	if c.GoodFitRatio < 0 || c.GoodFitRatio >= 1 {
		return fmt.Errorf("allocation.good_fit_ratio must be within [0, 1): %v", c.GoodFitRatio)
	}
	return nil
}

func (c AllocationConfig) Options() allocation.Options {
	return allocation.Options{
		GoodFitRatio:     c.GoodFitRatio,
		MatchingFallback: c.MatchingFallback != nil && *c.MatchingFallback,
	}
}

type SearchConfig struct {
	MaxAttempts     int    `json:"max_attempts"`
	RepairThreshold int    `json:"repair_threshold"`
	MaxVictims      int    `json:"max_victims"`
	Seed            uint64 `json:"seed"` // 0 picks a seed from the clock
}

func (c *SearchConfig) SetDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = search.DefaultParams.MaxAttempts
	}
	if c.RepairThreshold == 0 {
		c.RepairThreshold = search.DefaultParams.RepairThreshold
	}
	if c.MaxVictims == 0 {
		c.MaxVictims = search.DefaultParams.MaxVictims
	}
}

func (c SearchConfig) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("search.max_attempts must be positive: %v", c.MaxAttempts)
	} else if c.RepairThreshold < 0 || c.MaxVictims < 0 {
		return fmt.Errorf("search.repair_threshold and search.max_victims must not be negative")
	}
	return nil
}

func (c SearchConfig) Params() search.Params {
	return search.Params{
		MaxAttempts:     c.MaxAttempts,
		RepairThreshold: c.RepairThreshold,
		MaxVictims:      c.MaxVictims,
	}
}

type LoggingConfig struct {
	Level string `json:"level"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

func (c LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "trace", "debug", "info", "warn", "error", "disabled":
		return nil
	}
	return fmt.Errorf("logging.level %q is not supported", c.Level)
}

// MetricsConfig enables the Prometheus sink; Textfile receives the final
// exposition when set.
type MetricsConfig struct {
	Enabled  bool   `json:"enabled"`
	Textfile string `json:"textfile"`
}

// StoreConfig enables persisting every candidate under Dir.
type StoreConfig struct {
	Enabled bool   `json:"enabled"`
	Dir     string `json:"dir"`
}

func (c *StoreConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "candidates"
	}
}

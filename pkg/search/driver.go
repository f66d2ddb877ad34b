package search

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/limaJavier/classplanner/internal/logger"
	"github.com/limaJavier/classplanner/pkg/allocation"
	"github.com/limaJavier/classplanner/pkg/model"
)

var ErrNoCandidate = errors.New("every attempt was aborted before evaluation")

type Params struct {
	MaxAttempts     int // Independent generation attempts
	RepairThreshold int // Repair only runs while the unallocated count is below this
	MaxVictims      int // Lower-enrollment sessions tried per cascading reschedule
}

var DefaultParams = Params{
	MaxAttempts:     50,
	RepairThreshold: 20,
	MaxVictims:      8,
}

// CandidateStore persists candidates between generation and evaluation.
type CandidateStore interface {
	Save(ctx context.Context, name string, timetable *model.Timetable) error
}

type Outcome struct {
	RunID    string
	Best     *Solution
	Attempts int // Attempts started
	Aborted  int // Attempts lost to store failures
}

// Perfect reports whether every allocatable session got a room.
func (outcome *Outcome) Perfect() bool {
	return outcome.Best != nil && outcome.Best.Unallocated() == 0
}

type Driver struct {
	timetabler model.Timetabler
	allocator  *allocation.Allocator
	store      CandidateStore
	metrics    MetricsSink
	log        logger.Logger
	params     Params
}

// NewDriver wires the search. store, metrics and log may be nil.
func NewDriver(timetabler model.Timetabler, allocator *allocation.Allocator, store CandidateStore, metrics MetricsSink, log logger.Logger, params Params) *Driver {
	if metrics == nil {
		metrics = NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Driver{
		timetabler: timetabler,
		allocator:  allocator,
		store:      store,
		metrics:    metrics,
		log:        log,
		params:     params,
	}
}

// Run searches until a perfect allocation is found or the attempt budget is
// spent, and returns the best solution seen. Cancelling ctx stops the search
// between attempts.
func (driver *Driver) Run(ctx context.Context, rng *rand.Rand) (*Outcome, error) {
	outcome := &Outcome{RunID: uuid.NewString()}
	tracker := newTracker()

	for attempt := 1; attempt <= driver.params.MaxAttempts && !tracker.perfect(); attempt++ {
		if err := ctx.Err(); err != nil {
			outcome.Best = tracker.best
			return outcome, fmt.Errorf("search interrupted after %d attempts: %w", outcome.Attempts, err)
		}
		outcome.Attempts = attempt

		//** Generate
		timetable := driver.timetabler.Build(rng)
		if err := driver.save(ctx, outcome.RunID, attempt, StageGenerated, timetable); err != nil {
			driver.abort(outcome, attempt, err)
			continue
		}

		//** Evaluate
		report := driver.allocator.Allocate(timetable)
		unallocated := report.UnallocatedCount()
		driver.metrics.RecordAttempt(StageGenerated, unallocated)
		driver.log.Debugw("attempt evaluated", map[string]any{
			"run":         outcome.RunID,
			"attempt":     attempt,
			"unallocated": unallocated,
			"skipped":     len(report.Skipped),
			"shortfalls":  len(timetable.Shortfalls),
		})
		driver.offer(tracker, &Solution{Timetable: timetable, Report: report, Attempt: attempt})

		if unallocated == 0 || unallocated >= driver.params.RepairThreshold {
			continue
		}

		//** Repair
		repaired, moved := driver.repair(timetable, report, rng)
		if moved == 0 {
			continue
		}
		if err := driver.save(ctx, outcome.RunID, attempt, StageRepaired, repaired); err != nil {
			driver.abort(outcome, attempt, err)
			continue
		}

		//** Compare
		repairedReport := driver.allocator.Allocate(repaired)
		driver.metrics.RecordAttempt(StageRepaired, repairedReport.UnallocatedCount())
		if repairedReport.UnallocatedCount() < unallocated {
			driver.offer(tracker, &Solution{Timetable: repaired, Report: repairedReport, Attempt: attempt, Repaired: true})
		}
	}

	outcome.Best = tracker.best
	if outcome.Best == nil {
		return outcome, ErrNoCandidate
	}
	driver.log.Infof("run %v finished after %d attempts with %d unallocated session(s)", outcome.RunID, outcome.Attempts, outcome.Best.Unallocated())
	return outcome, nil
}

func (driver *Driver) offer(tracker *solutionTracker, solution *Solution) {
	if !tracker.add(solution) {
		return
	}
	driver.metrics.RecordBest(solution.Unallocated())
	driver.log.Infof("attempt %d: new best with %d unallocated session(s) (repaired: %v)", solution.Attempt, solution.Unallocated(), solution.Repaired)
}

func (driver *Driver) save(ctx context.Context, runID string, attempt int, stage string, timetable *model.Timetable) error {
	if driver.store == nil {
		return nil
	}
	name := fmt.Sprintf("%v/attempt-%03d-%v.json", runID, attempt, stage)
	if err := driver.store.Save(ctx, name, timetable); err != nil {
		return fmt.Errorf("persist %v candidate: %w", stage, err)
	}
	return nil
}

func (driver *Driver) abort(outcome *Outcome, attempt int, err error) {
	outcome.Aborted++
	driver.metrics.RecordAttempt(StageAborted, 0)
	driver.log.Errorf("attempt %d aborted: %v", attempt, err)
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/limaJavier/classplanner/internal/config"
	"github.com/limaJavier/classplanner/internal/logger"
	"github.com/limaJavier/classplanner/internal/metrics"
	"github.com/limaJavier/classplanner/internal/report"
	"github.com/limaJavier/classplanner/internal/store"
	"github.com/limaJavier/classplanner/pkg/allocation"
	"github.com/limaJavier/classplanner/pkg/model"
	"github.com/limaJavier/classplanner/pkg/search"
)

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}
	logg := logger.New("classplanner")

	input, err := model.InputFromJson(inputPath)
	if err != nil {
		return fmt.Errorf("cannot parse input file: %w", err)
	}
	calendar, err := cfg.Calendar.Calendar()
	if err != nil {
		return err
	}
	timetabler, err := model.NewTimetabler(input.Load, calendar, cfg.Assigner.Options())
	if err != nil {
		return err
	}
	allocator := allocation.NewAllocator(input.Rooms, input.Enrollment, cfg.Allocation.Options())

	var candidates search.CandidateStore
	if cfg.Store.Enabled {
		fileStore, err := store.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return err
		}
		candidates = fileStore
	}

	var sink search.MetricsSink
	registry := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		promSink, err := metrics.NewPromSinkWithRegistry(registry)
		if err != nil {
			return fmt.Errorf("metrics sink: %w", err)
		}
		sink = promSink
	}

	if cmd.Flags().Changed("seed") {
		cfg.Search.Seed = seed
	}
	if cfg.Search.Seed == 0 {
		cfg.Search.Seed = uint64(time.Now().UnixNano())
	}
	logg.Infof("searching with seed %d over %d attempt(s)", cfg.Search.Seed, cfg.Search.MaxAttempts)

	driver := search.NewDriver(timetabler, allocator, candidates, sink, logger.New("search"), cfg.Search.Params())
	outcome, err := driver.Run(ctx, rand.New(rand.NewPCG(cfg.Search.Seed, cfg.Search.Seed)))
	if err != nil {
		if outcome == nil || outcome.Best == nil {
			return err
		}
		logg.Warnf("%v; reporting the best solution found so far", err)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, registry); err != nil {
			return err
		}
	}

	// Verify the best solution before publishing it
	if !timetabler.Verify(outcome.Best.Timetable) || !allocation.Verify(outcome.Best.Report) {
		logg.Errorf("best solution of run %v failed verification", outcome.RunID)
		return statusInvalid
	}

	document, err := report.NewResultDocument(outcome, cfg.Search.Seed)
	if err != nil {
		return err
	}
	if err := writeResult(document); err != nil {
		return err
	}
	if csvDir != "" {
		if err := writeCSVs(csvDir, outcome.Best); err != nil {
			return err
		}
	}

	if outcome.Perfect() {
		return statusPerfect
	}
	logg.Warnf("%d session(s) left without a room", outcome.Best.Unallocated())
	return statusBestEffort
}

func writeResult(document report.ResultDocument) error {
	if outPath == "" {
		return report.WriteJSON(os.Stdout, document)
	}

	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, document); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("an error occurred while writing to the output file: %w", err)
	}
	return nil
}

func writeCSVs(dir string, best *search.Solution) error {
	exports, err := store.NewFileStore(dir)
	if err != nil {
		return err
	}

	datasets := map[string]report.Dataset{
		"allocation.csv": report.AllocationDataset(best.Report.Rows()),
		"ledger.csv":     report.LedgerDataset(best.Timetable),
		"rooms.csv":      report.RoomScheduleDataset(best.Report),
	}
	for name, data := range datasets {
		content, err := report.RenderCSV(data)
		if err != nil {
			return fmt.Errorf("render %v: %w", name, err)
		}
		if _, err := exports.Write(name, content); err != nil {
			return err
		}
	}
	return nil
}

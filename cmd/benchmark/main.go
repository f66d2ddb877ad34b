package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/limaJavier/classplanner/internal/logger"
	"github.com/limaJavier/classplanner/pkg/allocation"
	"github.com/limaJavier/classplanner/pkg/model"
	"github.com/limaJavier/classplanner/pkg/search"
)

const (
	inputsDirectory = "../../test/inputs/"
	seeds           = 20
)

type BenchmarkResult struct {
	Input       string
	Seed        uint64
	Attempts    int
	BestAttempt int
	Repaired    bool
	Unallocated int
	Duration    int64 // Milliseconds
}

type Summary struct {
	Input           string
	Runs            int
	Perfect         int
	MeanUnallocated float64
	StdUnallocated  float64
	MeanDuration    float64
	StdDuration     float64
}

func main() {
	files, err := os.ReadDir(inputsDirectory)
	if err != nil {
		log.Fatalf("cannot read directory: %v", err)
	}

	results := make([]BenchmarkResult, 0, len(files)*seeds)
	for _, file := range files {
		filename := inputsDirectory + file.Name()
		input, err := model.InputFromJson(filename)
		if err != nil {
			log.Fatalf("cannot parse input file: %v", err)
		}
		timetabler, err := model.NewTimetabler(input.Load, model.DefaultCalendar(), model.DefaultAssignerOptions)
		if err != nil {
			log.Fatalf("cannot build timetabler for \"%v\": %v", filename, err)
		}
		allocator := allocation.NewAllocator(input.Rooms, input.Enrollment, allocation.DefaultOptions)

		for seed := uint64(1); seed <= seeds; seed++ {
			fmt.Printf("Benchmarking input \"%v\" with seed %v\n", filename, seed)
			results = append(results, measure(filename, seed, search.NewDriver(timetabler, allocator, nil, nil, logger.NopLogger{}, search.DefaultParams)))
		}
	}

	toCsv("benchmark_results.csv", []string{"Input", "Seed", "Attempts", "Best Attempt", "Repaired", "Unallocated", "Duration(ms)"},
		lo.Map(results, func(result BenchmarkResult, _ int) []string {
			return []string{
				result.Input,
				fmt.Sprintf("%d", result.Seed),
				fmt.Sprintf("%d", result.Attempts),
				fmt.Sprintf("%d", result.BestAttempt),
				fmt.Sprintf("%v", result.Repaired),
				fmt.Sprintf("%d", result.Unallocated),
				fmt.Sprintf("%d", result.Duration),
			}
		}))

	toCsv("benchmark_summary.csv", []string{"Input", "Runs", "Perfect", "Unallocated(mean)", "Unallocated(std)", "Duration(mean ms)", "Duration(std ms)"},
		lo.Map(summarize(results), func(summary Summary, _ int) []string {
			return []string{
				summary.Input,
				fmt.Sprintf("%d", summary.Runs),
				fmt.Sprintf("%d", summary.Perfect),
				fmt.Sprintf("%.2f", summary.MeanUnallocated),
				fmt.Sprintf("%.2f", summary.StdUnallocated),
				fmt.Sprintf("%.1f", summary.MeanDuration),
				fmt.Sprintf("%.1f", summary.StdDuration),
			}
		}))
}

func measure(input string, seed uint64, driver *search.Driver) BenchmarkResult {
	start := time.Now()
	outcome, err := driver.Run(context.Background(), rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		log.Fatalf("an error occurred during the search at input \"%v\" with seed %v: %v", input, seed, err)
	}

	return BenchmarkResult{
		Input:       input,
		Seed:        seed,
		Attempts:    outcome.Attempts,
		BestAttempt: outcome.Best.Attempt,
		Repaired:    outcome.Best.Repaired,
		Unallocated: outcome.Best.Unallocated(),
		Duration:    time.Since(start).Milliseconds(),
	}
}

// summarize aggregates the results per input, keeping the order in which
// inputs were benchmarked.
func summarize(results []BenchmarkResult) []Summary {
	inputs := lo.Uniq(lo.Map(results, func(result BenchmarkResult, _ int) string { return result.Input }))
	grouped := lo.GroupBy(results, func(result BenchmarkResult) string { return result.Input })

	return lo.Map(inputs, func(input string, _ int) Summary {
		runs := grouped[input]
		unallocated := lo.Map(runs, func(result BenchmarkResult, _ int) float64 { return float64(result.Unallocated) })
		durations := lo.Map(runs, func(result BenchmarkResult, _ int) float64 { return float64(result.Duration) })

		summary := Summary{
			Input:   input,
			Runs:    len(runs),
			Perfect: lo.CountBy(runs, func(result BenchmarkResult) bool { return result.Unallocated == 0 }),
		}
		summary.MeanUnallocated, summary.StdUnallocated = stat.MeanStdDev(unallocated, nil)
		summary.MeanDuration, summary.StdDuration = stat.MeanStdDev(durations, nil)
		return summary
	})
}

func toCsv(filename string, header []string, records [][]string) {
	file, err := os.Create(filename)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

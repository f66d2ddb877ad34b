package main

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/limaJavier/classplanner/pkg/model"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the course load against the configured calendar without searching",
	RunE:  check,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func check(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	input, err := model.InputFromJson(inputPath)
	if err != nil {
		return fmt.Errorf("cannot parse input file: %w", err)
	}
	calendar, err := cfg.Calendar.Calendar()
	if err != nil {
		return err
	}
	if _, err := model.NewTimetabler(input.Load, calendar, cfg.Assigner.Options()); err != nil {
		return err
	}

	semesters := lo.SumBy(input.Load.Branches, func(branch model.Branch) int { return len(branch.Semesters) })
	courses := lo.Uniq(lo.FlatMap(input.Load.Branches, func(branch model.Branch, _ int) []string {
		return lo.FlatMap(branch.Semesters, func(semester model.Semester, _ int) []string {
			return lo.Map(semester.Courses, func(course model.Course, _ int) string { return course.Code })
		})
	}))
	missing := lo.Filter(courses, func(code string, _ int) bool {
		_, ok := input.Enrollment[code]
		return !ok
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Branches: %v\n", len(input.Load.Branches))
	fmt.Fprintf(out, "Semesters: %v\n", semesters)
	fmt.Fprintf(out, "Courses: %v\n", len(courses))
	fmt.Fprintf(out, "Rooms: %v\n", len(input.Rooms))
	fmt.Fprintf(out, "Slots per week: %v\n", len(calendar.Slots()))
	if len(missing) > 0 {
		fmt.Fprintf(out, "Courses without enrollment (never allocated): %v\n", missing)
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgPath   string
	inputPath string
	outPath   string
	csvDir    string
	seed      uint64
)

var rootCmd = &cobra.Command{
	Use:           "classplanner",
	Short:         "Build a weekly class timetable and seat every session in a room",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json); built-in defaults when empty")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "course load file")
	_ = rootCmd.MarkPersistentFlagRequired("input")

	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "file receiving the JSON result; written to the Standard Output if empty")
	rootCmd.Flags().StringVar(&csvDir, "csv-dir", "", "directory receiving allocation, ledger and room CSV exports")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "search seed, overriding search.seed")
}

// exitStatus is returned by commands that end with a meaningful exit code.
type exitStatus int

const (
	statusPerfect    exitStatus = 10
	statusInvalid    exitStatus = 15
	statusBestEffort exitStatus = 20
)

func (status exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", int(status))
}

func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var status exitStatus
	if errors.As(err, &status) {
		os.Exit(int(status))
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tablemeta/metaindex/pkg/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run readiness checks against the configured dependencies",
	Long: `Probe the Timeline Store and the table filesystem the way a
container orchestrator would probe a liveness endpoint, and report
pass/fail for each.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	checkers := []health.Checker{
		health.NewTimelineChecker(d.timeline),
		health.NewFileSystemChecker(d.fs, ""),
	}

	ctx := context.Background()
	var failed bool
	for _, c := range checkers {
		result := c.Check(ctx)
		status := "OK"
		if !result.Healthy {
			status = "FAIL"
			failed = true
		}
		fmt.Printf("%-20s %-5s %s\n", c.Name(), status, result.Message)
	}

	if failed {
		os.Exit(1)
	}
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tablemeta/metaindex/pkg/coordinator"
	"github.com/tablemeta/metaindex/pkg/log"
)

var indexCmd = &cobra.Command{
	Use:   "index FILE",
	Short: "Apply one action file to the metadata index",
	Long: `Parse a single commit/deltacommit/clean/rollback/restore action file,
run it through the indexing pipeline, and print the routed records it produced.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	instant, raw, err := readInstant(args[0])
	if err != nil {
		return err
	}

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	cfg := settings.Indexing.IndexingConfig()
	in := coordinator.Input{
		Instant: instant,
		Actions: [][]byte{raw},
		Config:  cfg,
		Engine:  newEngine(maxInt(cfg.BloomFilterParallelism, cfg.ColumnStatsParallelism)),
	}

	cmdLogger := log.WithComponent("cmd-index")

	routed, err := d.newCoordinator().Run(context.Background(), in)
	if err != nil {
		cmdLogger.Error().Err(err).Msg("indexing failed")
		return fmt.Errorf("indexing %s: %w", args[0], err)
	}

	if err := writeSnapshot(routed); err != nil {
		cmdLogger.Warn().Err(err).Msg("failed to persist records snapshot")
	}

	return json.NewEncoder(os.Stdout).Encode(routed)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tablemeta/metaindex/pkg/engine"
	"github.com/tablemeta/metaindex/pkg/events"
	"github.com/tablemeta/metaindex/pkg/fswalk"
	"github.com/tablemeta/metaindex/pkg/index"
	"github.com/tablemeta/metaindex/pkg/log"
	"github.com/tablemeta/metaindex/pkg/metrics"
	"github.com/tablemeta/metaindex/pkg/types"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Build an initial files index by walking the table filesystem",
	Long: `Run the FS Fallback Lister against the configured table path to
discover every partition and base file, and emit the PartitionList/
PartitionFiles records a fresh metadata table would otherwise have to wait
for its first commit to produce.

Bootstrap never reads base-file sidecars for bloom filters or column stats
(spec.md §4.7 scopes FL to filesystem discovery only); run "index" or
"replay" afterward to backfill bloom_filters/column_stats partitions from
subsequent commits.`,
	RunE: runBootstrap,
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	logger := log.WithComponent("cmd-bootstrap")

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	d.broker.Publish(&events.Event{Type: events.EventBootstrapStarted, Message: "bootstrap started"})

	cfg := settings.Indexing.IndexingConfig()
	walker := fswalk.Walker{
		FS:                    d.fs,
		MaxListingParallelism: cfg.FSListingMaxListingParallelism,
		DatePartitioned:       cfg.DatePartitionedBootstrap,
	}

	timer := metrics.NewTimer()
	partitions, err := walker.ListPartitions(context.Background(), "")
	if err != nil {
		return fmt.Errorf("listing partitions: %w", err)
	}
	timer.ObserveDuration(metrics.FSListingDuration)
	metrics.PartitionsDiscoveredTotal.Set(float64(len(partitions)))
	logger.Info().Int("partitions", len(partitions)).Msg("discovered partitions")

	statLists, err := engine.Map(context.Background(), newEngine(cfg.BootstrapFSListingParallelism), partitions,
		func(ctx context.Context, partition string) ([]types.WriteStat, error) {
			entries, err := d.fs.List(ctx, partition)
			if err != nil {
				return nil, fmt.Errorf("listing partition %s: %w", partition, err)
			}
			var stats []types.WriteStat
			for _, e := range entries {
				if e.IsDir || !index.IsBaseFile(e.Name) {
					continue
				}
				// The partition marker (and any other dotfile) is
				// metadata, not table data.
				if strings.HasPrefix(e.Name, ".") {
					continue
				}
				stats = append(stats, types.WriteStat{
					PartitionPath: partition,
					FilePath:      e.Path,
					// Bootstrap discovers existence only; FL never stats
					// file sizes (spec.md §4.7), so FileSizeBytes is left
					// at zero until the next real commit reports it.
				})
			}
			return stats, nil
		})
	if err != nil {
		return err
	}

	meta := types.CommitMetadata{
		OperationKind: "bootstrap",
		Partitions:    make(map[string][]types.WriteStat, len(partitions)),
	}
	for i, partition := range partitions {
		meta.Partitions[partition] = statLists[i]
	}

	var records []types.MetadataRecord
	if cfg.PartitionTypeEnabled(types.PartitionFilesType) {
		records = index.FromCommit(meta)
	}

	routed := index.Route(records, cfg, true, nil)
	if err := writeSnapshot(routed); err != nil {
		logger.Warn().Err(err).Msg("failed to persist records snapshot")
	}
	d.broker.Publish(&events.Event{
		Type:     events.EventBootstrapCompleted,
		Message:  "bootstrap completed",
		Metadata: map[string]string{"partitions": fmt.Sprintf("%d", len(meta.Partitions))},
	})
	logger.Info().Int("partitions", len(meta.Partitions)).Msg("bootstrap complete")

	return json.NewEncoder(os.Stdout).Encode(routed)
}

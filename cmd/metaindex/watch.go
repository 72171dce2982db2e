package main

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tablemeta/metaindex/pkg/coordinator"
	"github.com/tablemeta/metaindex/pkg/log"
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Index new action files dropped into DIR as they arrive",
	Long: `Watch DIR for newly created *.json action files and apply each
one to the index as it appears, tracking LastSyncTs across the running
process the way "replay" tracks it across one batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	logger := log.WithComponent("cmd-watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	c := d.newCoordinator()
	cfg := settings.Indexing.IndexingConfig()

	sub := d.broker.Subscribe()
	defer d.broker.Unsubscribe(sub)

	logger.Info().Str("dir", dir).Msg("watching for action files")

	var lastSyncTs string
	for {
		select {
		case ev := <-sub:
			logger.Info().Str("event", string(ev.Type)).Str("instant", ev.Metadata["instant_ts"]).Msg(ev.Message)
			continue
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 || filepath.Ext(event.Name) != ".json" {
				continue
			}

			instant, raw, err := readInstant(event.Name)
			if err != nil {
				logger.Warn().Err(err).Str("file", event.Name).Msg("skipping unreadable action file")
				continue
			}

			in := coordinator.Input{
				Instant:    instant,
				Actions:    [][]byte{raw},
				Config:     cfg,
				Engine:     newEngine(maxInt(cfg.BloomFilterParallelism, cfg.ColumnStatsParallelism)),
				LastSyncTs: lastSyncTs,
			}

			routed, err := c.Run(context.Background(), in)
			if err != nil {
				logger.Error().Err(err).Str("file", event.Name).Msg("watch-triggered indexing failed")
				continue
			}
			lastSyncTs = instant.Timestamp

			if err := writeSnapshot(routed); err != nil {
				logger.Warn().Err(err).Msg("failed to persist records snapshot")
			}
			logger.Info().Str("file", event.Name).Str("instant", instant.Timestamp).Msg("applied")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watcher error")
		}
	}
}

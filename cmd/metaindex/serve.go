package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablemeta/metaindex/pkg/api"
	"github.com/tablemeta/metaindex/pkg/health"
	"github.com/tablemeta/metaindex/pkg/log"
	"github.com/tablemeta/metaindex/pkg/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the HTTP surface: /healthz, /readyz, /metrics, /records",
	Long: `Start the HTTP surface described by SPEC_FULL.md §6. /records
reloads its snapshot from disk periodically, so it picks up whatever the
most recent "index", "replay", "bootstrap", or "watch" run last wrote,
without requiring the indexing pipeline to run inside this process.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("bind-addr", "", "HTTP bind address (default from config)")
	serveCmd.Flags().Duration("reload-interval", 2*time.Second, "How often to reload the records snapshot from disk")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := log.WithComponent("cmd-serve")

	addr, _ := cmd.Flags().GetString("bind-addr")
	if addr == "" {
		addr = settings.BindAddr
	}
	reloadInterval, _ := cmd.Flags().GetDuration("reload-interval")

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	metrics.SetVersion(Version)
	checkers := []health.Checker{
		health.NewTimelineChecker(d.timeline),
		health.NewFileSystemChecker(d.fs, ""),
	}
	probeHealth(checkers)

	store := api.NewRecordStore()
	if routed, err := loadSnapshot(); err != nil {
		logger.Warn().Err(err).Msg("failed to load initial records snapshot")
	} else if routed != nil {
		store.Set(routed)
	}

	stop := make(chan struct{})
	defer close(stop)
	go reloadSnapshotPeriodically(store, reloadInterval, stop)
	go probeHealthPeriodically(checkers, stop)

	server := api.New(store)
	logger.Info().Str("addr", addr).Msg("starting HTTP surface")
	if err := server.Start(addr); err != nil {
		return fmt.Errorf("serving HTTP surface: %w", err)
	}
	return nil
}

// probeHealth runs each checker once and feeds the result into the
// /healthz + /readyz component registry. timeline_store and base_path_fs
// are the two critical components readiness gates on.
func probeHealth(checkers []health.Checker) {
	ctx := context.Background()
	for _, c := range checkers {
		result := c.Check(ctx)
		metrics.UpdateComponent(c.Name(), result.Healthy, result.Message)
	}
}

func probeHealthPeriodically(checkers []health.Checker, stop <-chan struct{}) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			probeHealth(checkers)
		}
	}
}

func reloadSnapshotPeriodically(store *api.RecordStore, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			routed, err := loadSnapshot()
			if err != nil {
				serveLogger := log.WithComponent("cmd-serve")
				serveLogger.Warn().Err(err).Msg("failed to reload records snapshot")
				continue
			}
			if routed != nil {
				store.Set(routed)
			}
		}
	}
}

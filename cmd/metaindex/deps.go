package main

import (
	"fmt"
	"path/filepath"

	"github.com/tablemeta/metaindex/pkg/coordinator"
	"github.com/tablemeta/metaindex/pkg/engine"
	"github.com/tablemeta/metaindex/pkg/events"
	"github.com/tablemeta/metaindex/pkg/localreader"
	"github.com/tablemeta/metaindex/pkg/timelinestore"
)

// deps bundles every concrete capability implementation a subcommand
// needs, built once from the resolved settings.
type deps struct {
	timeline *timelinestore.Store
	fs       *localreader.DiskFileSystem
	reader   *localreader.DiskFileReader
	broker   *events.Broker
}

func metadataPath() string {
	if settings.MetadataTablePath != "" {
		return settings.MetadataTablePath
	}
	return filepath.Join(settings.TableBasePath, ".index_meta")
}

// buildDeps wires the Timeline Store, FileSystem, and FileReader against
// the resolved settings, and starts the event broker.
func buildDeps() (*deps, error) {
	metaPath := metadataPath()
	timeline, err := timelinestore.Open(metaPath)
	if err != nil {
		return nil, fmt.Errorf("opening timeline store: %w", err)
	}

	fs, err := localreader.NewDiskFileSystem(settings.TableBasePath)
	if err != nil {
		_ = timeline.Close()
		return nil, fmt.Errorf("opening table filesystem: %w", err)
	}
	reader := localreader.NewDiskFileReader(settings.TableBasePath)

	broker := events.NewBroker()
	broker.Start()

	return &deps{timeline: timeline, fs: fs, reader: reader, broker: broker}, nil
}

func (d *deps) Close() {
	d.broker.Stop()
	_ = d.timeline.Close()
}

// newCoordinator builds a Coordinator against d's wired dependencies.
func (d *deps) newCoordinator() *coordinator.Coordinator {
	return coordinator.New(d.timeline, d.reader, d.broker)
}

// newEngine selects the Sequential or Pool EngineContext for a builder
// pass: a configured parallelism of 1 or less runs sequentially, anything
// larger runs on a Pool of that size.
func newEngine(configured int) engine.Context {
	if configured <= 1 {
		return engine.NewSequential()
	}
	return engine.NewPool(configured)
}

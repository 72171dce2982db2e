package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tablemeta/metaindex/pkg/index"
)

// snapshotPath is where the last-built Routed record set is persisted, so
// that a separately-running `serve` process can expose it over /records
// without embedding the indexing pipeline itself.
func snapshotPath() string {
	return filepath.Join(metadataPath(), "records_snapshot.json")
}

// writeSnapshot overwrites the on-disk snapshot with routed, last-write-wins,
// matching pkg/api.RecordStore's own semantics for the in-memory copy.
func writeSnapshot(routed index.Routed) error {
	data, err := json.Marshal(routed)
	if err != nil {
		return fmt.Errorf("marshaling records snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(snapshotPath()), 0755); err != nil {
		return fmt.Errorf("creating metadata path: %w", err)
	}
	if err := os.WriteFile(snapshotPath(), data, 0644); err != nil {
		return fmt.Errorf("writing records snapshot: %w", err)
	}
	return nil
}

// loadSnapshot reads the on-disk snapshot, returning a nil Routed if none
// has been written yet.
func loadSnapshot() (index.Routed, error) {
	data, err := os.ReadFile(snapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading records snapshot: %w", err)
	}

	var routed index.Routed
	if err := json.Unmarshal(data, &routed); err != nil {
		return nil, fmt.Errorf("decoding records snapshot: %w", err)
	}
	return routed, nil
}

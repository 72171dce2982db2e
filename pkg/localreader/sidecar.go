package localreader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/tablemeta/metaindex/pkg/capability"
)

// sidecarColumnRange mirrors capability.ColumnRange for JSON round-trip.
type sidecarColumnRange struct {
	Min                   *string `json:"min"`
	Max                   *string `json:"max"`
	ValueCount            int64   `json:"value_count"`
	NullCount             int64   `json:"null_count"`
	TotalSize             int64   `json:"total_size"`
	TotalUncompressedSize int64   `json:"total_uncompressed_size"`
}

// sidecar is the on-disk "<file>.stats.json" format: everything
// DiskFileReader needs to answer ReadBloomFilter/ReadColumnRanges without
// opening the base file itself.
type sidecar struct {
	BloomFilter []byte                        `json:"bloom_filter,omitempty"`
	Columns     map[string]sidecarColumnRange `json:"columns,omitempty"`
}

func sidecarPath(path string) string {
	return path + ".stats.json"
}

// WriteSidecar writes the stats sidecar for path (relative to basePath),
// gob-encoding filter if non-nil. It is a test/tooling helper, never
// called from the indexing algorithm itself.
func WriteSidecar(basePath, path string, filter *bloom.BloomFilter, columns map[string]capability.ColumnRange) error {
	sc := sidecar{Columns: make(map[string]sidecarColumnRange, len(columns))}

	if filter != nil {
		var buf bytes.Buffer
		if _, err := filter.WriteTo(&buf); err != nil {
			return fmt.Errorf("encoding bloom filter: %w", err)
		}
		sc.BloomFilter = buf.Bytes()
	}

	for col, r := range columns {
		sc.Columns[col] = sidecarColumnRange{
			Min:                   r.Min,
			Max:                   r.Max,
			ValueCount:            r.ValueCount,
			NullCount:             r.NullCount,
			TotalSize:             r.TotalSize,
			TotalUncompressedSize: r.TotalUncompressedSize,
		}
	}

	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshaling sidecar: %w", err)
	}

	full := joinBase(basePath, sidecarPath(path))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("creating sidecar directory: %w", err)
	}
	return os.WriteFile(full, data, 0644)
}

func readSidecar(full string) (sidecar, error) {
	var sc sidecar
	data, err := os.ReadFile(full)
	if err != nil {
		return sc, err
	}
	if err := json.Unmarshal(data, &sc); err != nil {
		return sc, fmt.Errorf("decoding sidecar %s: %w", full, err)
	}
	return sc, nil
}

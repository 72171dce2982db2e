package localreader

import (
	"context"
	"os"
	"path/filepath"

	"github.com/tablemeta/metaindex/pkg/capability"
	"github.com/tablemeta/metaindex/pkg/idxerr"
)

// DiskFileReader implements capability.FileReader by reading a base
// file's "<file>.stats.json" sidecar instead of opening the base file.
type DiskFileReader struct {
	BasePath string
}

// NewDiskFileReader creates a reader rooted at basePath.
func NewDiskFileReader(basePath string) *DiskFileReader {
	return &DiskFileReader{BasePath: basePath}
}

func joinBase(basePath, path string) string {
	return filepath.Join(basePath, filepath.FromSlash(path))
}

// ReadBloomFilter returns the gob-encoded bloom filter bytes stored in
// path's sidecar, or nil if the sidecar carries none. A missing sidecar
// is treated the same as "no filter" rather than an error, since not
// every base file is expected to embed one.
func (r *DiskFileReader) ReadBloomFilter(_ context.Context, path string) ([]byte, error) {
	full := joinBase(r.BasePath, sidecarPath(path))
	sc, err := readSidecar(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return sc.BloomFilter, nil
}

// ReadColumnRanges returns the requested columns' statistics from path's
// sidecar. A column absent from the sidecar is simply omitted from the
// result, mirroring a file whose writer never populated that statistic.
func (r *DiskFileReader) ReadColumnRanges(_ context.Context, path string, columns []string) (map[string]capability.ColumnRange, error) {
	full := joinBase(r.BasePath, sidecarPath(path))
	sc, err := readSidecar(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if sc.Columns == nil {
		return nil, idxerr.ErrUnsupportedColumnStatsFormat
	}

	ranges := make(map[string]capability.ColumnRange, len(columns))
	for _, col := range columns {
		r, ok := sc.Columns[col]
		if !ok {
			continue
		}
		ranges[col] = capability.ColumnRange{
			Min:                   r.Min,
			Max:                   r.Max,
			ValueCount:            r.ValueCount,
			NullCount:             r.NullCount,
			TotalSize:             r.TotalSize,
			TotalUncompressedSize: r.TotalUncompressedSize,
		}
	}
	return ranges, nil
}

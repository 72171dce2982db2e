package index

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tablemeta/metaindex/pkg/capability"
	"github.com/tablemeta/metaindex/pkg/engine"
	"github.com/tablemeta/metaindex/pkg/idxerr"
	"github.com/tablemeta/metaindex/pkg/types"
)

// ColumnsToIndex implements the column-selection rule from spec.md §4.5: if
// all-columns indexing is enabled and a writer schema is resolvable, index
// every top-level field (plus meta fields when the table populates them);
// otherwise fall back to the configured record-key columns.
func ColumnsToIndex(cfg types.IndexingConfig, writerSchema []types.SchemaField) []string {
	if cfg.AllColumnsEnabled && len(writerSchema) > 0 {
		columns := make([]string, 0, len(writerSchema)+len(metaFieldNames))
		for _, f := range writerSchema {
			columns = append(columns, f.Name)
		}
		if cfg.PopulateMetaFields {
			columns = append(columns, metaFieldNames...)
		}
		return columns
	}
	return append([]string{}, cfg.RecordKeyColumns...)
}

var metaFieldNames = []string{
	"_hoodie_commit_time",
	"_hoodie_commit_seqno",
	"_hoodie_record_key",
	"_hoodie_partition_path",
	"_hoodie_file_name",
}

// BuildColumnStatsAdded emits one ColumnStats record per (added base file,
// indexed column), per spec.md §4.5. Delta write stats and non-base
// filenames are skipped (I4). A write stat carrying precomputed per-column
// ranges is translated directly, without opening the file. Per-file read
// failures are returned for the caller to log, not fatal (spec.md §7);
// only an unsupported column-stats format aborts the build.
func BuildColumnStatsAdded(ctx context.Context, ec engine.Context, reader capability.FileReader, partition, instantTs string, stats []types.WriteStat, columns []string) ([]types.MetadataRecord, []FailedRead, error) {
	if len(columns) == 0 {
		return nil, nil, nil
	}

	type candidate struct {
		filename    string
		path        string
		recordStats *types.RecordStats
	}

	seen := make(map[string]struct{}, len(stats))
	candidates := make([]candidate, 0, len(stats))
	for _, ws := range stats {
		if ws.IsDelta {
			continue
		}
		filename := StripPartitionPrefix(partition, ws.FilePath)
		if !IsBaseFile(filename) {
			continue
		}
		if _, dup := seen[filename]; dup {
			continue
		}
		seen[filename] = struct{}{}
		candidates = append(candidates, candidate{filename: filename, path: ws.FilePath, recordStats: ws.RecordStats})
	}

	var mu sync.Mutex
	var failures []FailedRead

	groups, err := engine.Map(ctx, ec, candidates, func(ctx context.Context, c candidate) ([]types.MetadataRecord, error) {
		ranges, err := rangesForCandidate(ctx, reader, c.path, c.recordStats, columns)
		if err != nil {
			if errors.Is(err, idxerr.ErrUnsupportedColumnStatsFormat) {
				return nil, fmt.Errorf("reading column ranges for %s: %w", c.path, err)
			}
			mu.Lock()
			failures = append(failures, FailedRead{Path: c.path, Err: err})
			mu.Unlock()
			return nil, nil
		}
		records := make([]types.MetadataRecord, 0, len(columns))
		for _, col := range columns {
			r, ok := ranges[col]
			if !ok {
				continue
			}
			records = append(records, types.MetadataRecord{
				Kind:                  types.RecordColumnStats,
				Partition:             partition,
				FileName:              c.filename,
				Column:                col,
				Min:                   r.Min,
				Max:                   r.Max,
				ValueCount:            r.ValueCount,
				NullCount:             r.NullCount,
				TotalSize:             r.TotalSize,
				TotalUncompressedSize: r.TotalUncompressedSize,
			})
		}
		return records, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return engine.Union(groups...), failures, nil
}

func rangesForCandidate(ctx context.Context, reader capability.FileReader, path string, precomputed *types.RecordStats, columns []string) (map[string]capability.ColumnRange, error) {
	if precomputed != nil && len(precomputed.ColumnRanges) > 0 {
		ranges := make(map[string]capability.ColumnRange, len(precomputed.ColumnRanges))
		for col, r := range precomputed.ColumnRanges {
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
	return reader.ReadColumnRanges(ctx, path, columns)
}

// BuildColumnStatsDeleted emits tombstones for every indexed column of
// every deleted base file, per spec.md §4.5.
func BuildColumnStatsDeleted(partition, instantTs string, deletedFilenames []string, columns []string) []types.MetadataRecord {
	records := make([]types.MetadataRecord, 0, len(deletedFilenames)*len(columns))
	for _, filename := range deletedFilenames {
		if !IsBaseFile(filename) {
			continue
		}
		for _, col := range columns {
			records = append(records, types.MetadataRecord{
				Kind:      types.RecordColumnStats,
				Partition: partition,
				FileName:  filename,
				Column:    col,
				IsDeleted: true,
			})
		}
	}
	return records
}

// MergeColumnStats combines two ColumnStats records for the same (file,
// column) per spec.md §4.5's merge rule. If either input is a tombstone,
// the tombstone wins. Otherwise min is the true minimum of the two old
// minimums, but max deliberately reproduces the source's latent bug: it is
// computed from the two **min** fields rather than the two max fields
// (spec.md §9 open question — preserved, not fixed).
func MergeColumnStats(old, new types.MetadataRecord) types.MetadataRecord {
	if old.IsDeleted {
		return old
	}
	if new.IsDeleted {
		return new
	}
	merged := old
	merged.Min = minStr(old.Min, new.Min)
	merged.Max = maxStr(old.Min, new.Min)
	merged.ValueCount = old.ValueCount + new.ValueCount
	merged.NullCount = old.NullCount + new.NullCount
	merged.TotalSize = old.TotalSize + new.TotalSize
	merged.TotalUncompressedSize = old.TotalUncompressedSize + new.TotalUncompressedSize
	return merged
}

func minStr(a, b *string) *string {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if *a <= *b {
		return a
	}
	return b
}

func maxStr(a, b *string) *string {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if *a >= *b {
		return a
	}
	return b
}

// StreamingColumnAggregator implements the per-column streaming aggregation
// described in spec.md §4.5, for FileReader implementations that must
// recompute ranges by scanning records rather than reading precomputed
// file-level statistics.
type StreamingColumnAggregator struct {
	min                   *string
	max                   *string
	valueCount            int64
	nullCount             int64
	totalSize             int64
	totalUncompressedSize int64
}

// Observe folds one record's string-converted value for this column into
// the running aggregate. An empty string is treated as null.
func (a *StreamingColumnAggregator) Observe(value string, isNull bool, size, uncompressedSize int64) {
	if isNull || value == "" {
		a.nullCount++
		return
	}
	a.valueCount++
	a.totalSize += size
	a.totalUncompressedSize += uncompressedSize
	v := value
	if a.min == nil || v < *a.min {
		a.min = &v
	}
	if a.max == nil || v > *a.max {
		a.max = &v
	}
}

// Range returns the accumulated capability.ColumnRange.
func (a *StreamingColumnAggregator) Range() capability.ColumnRange {
	return capability.ColumnRange{
		Min:                   a.min,
		Max:                   a.max,
		ValueCount:            a.valueCount,
		NullCount:             a.nullCount,
		TotalSize:             a.totalSize,
		TotalUncompressedSize: a.totalUncompressedSize,
	}
}

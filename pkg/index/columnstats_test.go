package index

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablemeta/metaindex/pkg/capability"
	"github.com/tablemeta/metaindex/pkg/engine"
	"github.com/tablemeta/metaindex/pkg/idxerr"
	"github.com/tablemeta/metaindex/pkg/types"
)

type fakeColumnReader struct {
	ranges map[string]map[string]capability.ColumnRange
}

func (f fakeColumnReader) ReadBloomFilter(_ context.Context, _ string) ([]byte, error) {
	return nil, nil
}

func (f fakeColumnReader) ReadColumnRanges(_ context.Context, path string, _ []string) (map[string]capability.ColumnRange, error) {
	return f.ranges[path], nil
}

func strp(s string) *string { return &s }

func TestColumnsToIndexAllColumns(t *testing.T) {
	cfg := types.IndexingConfig{AllColumnsEnabled: true, PopulateMetaFields: true}
	schema := []types.SchemaField{{Name: "id"}, {Name: "ts"}}
	cols := ColumnsToIndex(cfg, schema)
	assert.Len(t, cols, 2+len(metaFieldNames))
}

func TestColumnsToIndexFallsBackToRecordKeys(t *testing.T) {
	cfg := types.IndexingConfig{AllColumnsEnabled: false, RecordKeyColumns: []string{"id"}}
	cols := ColumnsToIndex(cfg, []types.SchemaField{{Name: "id"}, {Name: "ts"}})
	assert.Equal(t, []string{"id"}, cols)
}

func TestColumnsToIndexEmptySchemaFallsBack(t *testing.T) {
	cfg := types.IndexingConfig{AllColumnsEnabled: true, RecordKeyColumns: []string{"id"}}
	cols := ColumnsToIndex(cfg, nil)
	assert.Equal(t, []string{"id"}, cols, "no writer schema should be resolvable")
}

func TestBuildColumnStatsAddedUsesPrecomputedStats(t *testing.T) {
	stats := []types.WriteStat{
		{
			FilePath: "p/a.parquet",
			RecordStats: &types.RecordStats{
				ColumnRanges: map[string]types.ColumnRange{"id": {Min: strp("1"), Max: strp("9"), ValueCount: 5}},
			},
		},
	}
	reader := fakeColumnReader{} // no ranges registered; would fail if the reader were consulted
	records, failures, err := BuildColumnStatsAdded(context.Background(), engine.NewSequential(), reader, "p", "t1", stats, []string{"id"})
	require.NoError(t, err)
	require.Empty(t, failures)
	require.Len(t, records, 1)
	assert.Equal(t, "1", *records[0].Min)
	assert.Equal(t, "9", *records[0].Max)
}

func TestBuildColumnStatsAddedOpensFileWhenNoPrecomputedStats(t *testing.T) {
	stats := []types.WriteStat{{FilePath: "p/a.parquet"}}
	reader := fakeColumnReader{ranges: map[string]map[string]capability.ColumnRange{
		"p/a.parquet": {"id": {Min: strp("2"), Max: strp("8")}},
	}}
	records, failures, err := BuildColumnStatsAdded(context.Background(), engine.NewSequential(), reader, "p", "t1", stats, []string{"id"})
	require.NoError(t, err)
	require.Empty(t, failures)
	require.Len(t, records, 1)
	assert.Equal(t, "2", *records[0].Min)
}

func TestBuildColumnStatsAddedSkipsDeltaAndNonBase(t *testing.T) {
	stats := []types.WriteStat{
		{FilePath: "p/a.log.1", IsDelta: false},
		{FilePath: "p/b.parquet", IsDelta: true},
	}
	records, _, err := BuildColumnStatsAdded(context.Background(), engine.NewSequential(), fakeColumnReader{}, "p", "t1", stats, []string{"id"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestBuildColumnStatsAddedNoColumnsEmitsNothing(t *testing.T) {
	stats := []types.WriteStat{{FilePath: "p/a.parquet"}}
	records, _, err := BuildColumnStatsAdded(context.Background(), engine.NewSequential(), fakeColumnReader{}, "p", "t1", stats, nil)
	require.NoError(t, err)
	assert.Nil(t, records)
}

type failingColumnReader struct {
	fakeColumnReader
	err error
}

func (f failingColumnReader) ReadColumnRanges(_ context.Context, _ string, _ []string) (map[string]capability.ColumnRange, error) {
	return nil, f.err
}

func TestBuildColumnStatsAddedReadFailureIsTransient(t *testing.T) {
	stats := []types.WriteStat{{FilePath: "p/a.parquet"}}
	reader := failingColumnReader{err: errors.New("read failed")}
	records, failures, err := BuildColumnStatsAdded(context.Background(), engine.NewSequential(), reader, "p", "t1", stats, []string{"id"})
	require.NoError(t, err, "a per-file read failure must not abort the build")
	assert.Empty(t, records)
	require.Len(t, failures, 1)
}

func TestBuildColumnStatsAddedUnsupportedFormatIsFatal(t *testing.T) {
	stats := []types.WriteStat{{FilePath: "p/a.parquet"}}
	reader := failingColumnReader{err: idxerr.ErrUnsupportedColumnStatsFormat}
	_, _, err := BuildColumnStatsAdded(context.Background(), engine.NewSequential(), reader, "p", "t1", stats, []string{"id"})
	require.ErrorIs(t, err, idxerr.ErrUnsupportedColumnStatsFormat)
}

func TestBuildColumnStatsDeletedTombstonesEveryColumn(t *testing.T) {
	records := BuildColumnStatsDeleted("p", "t1", []string{"a.parquet"}, []string{"id", "ts"})
	require.Len(t, records, 2)
	for _, r := range records {
		assert.True(t, r.IsDeleted)
		assert.Nil(t, r.Min)
		assert.Nil(t, r.Max)
	}
}

func TestMergeColumnStatsTombstoneWins(t *testing.T) {
	live := types.MetadataRecord{Min: strp("1"), Max: strp("9")}
	tombstone := types.MetadataRecord{IsDeleted: true}
	assert.True(t, MergeColumnStats(live, tombstone).IsDeleted, "expected tombstone to win")
	assert.True(t, MergeColumnStats(tombstone, live).IsDeleted, "expected tombstone to win regardless of order")
}

// TestMergeColumnStatsPreservesLatentMaxBug pins spec.md §9's documented
// bug: the merged max is derived from the two min fields, not the two max
// fields. This must NOT be "fixed" — downstream consumers expect the
// original's exact (buggy) output.
func TestMergeColumnStatsPreservesLatentMaxBug(t *testing.T) {
	old := types.MetadataRecord{Min: strp("1"), Max: strp("5"), ValueCount: 2}
	newRec := types.MetadataRecord{Min: strp("3"), Max: strp("9"), ValueCount: 3}
	merged := MergeColumnStats(old, newRec)
	assert.Equal(t, "1", *merged.Min, "true min of mins")
	// Correct max(old.max, new.max) would be "9"; the preserved bug
	// computes max(old.min, new.min) = max("1", "3") = "3".
	assert.Equal(t, "3", *merged.Max, "the preserved max(old.min,new.min) bug")
	assert.Equal(t, int64(5), merged.ValueCount)
}

func TestStreamingColumnAggregator(t *testing.T) {
	var agg StreamingColumnAggregator
	agg.Observe("b", false, 10, 20)
	agg.Observe("", true, 0, 0)
	agg.Observe("a", false, 5, 10)
	r := agg.Range()
	require.NotNil(t, r.Min)
	require.NotNil(t, r.Max)
	assert.Equal(t, "a", *r.Min)
	assert.Equal(t, "b", *r.Max)
	assert.Equal(t, int64(2), r.ValueCount)
	assert.Equal(t, int64(1), r.NullCount)
	assert.Equal(t, int64(15), r.TotalSize)
	assert.Equal(t, int64(30), r.TotalUncompressedSize)
}

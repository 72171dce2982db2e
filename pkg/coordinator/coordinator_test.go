package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/tablemeta/metaindex/pkg/capability"
	"github.com/tablemeta/metaindex/pkg/engine"
	"github.com/tablemeta/metaindex/pkg/idxerr"
	"github.com/tablemeta/metaindex/pkg/types"
)

type fakeTimeline struct {
	start  string
	synced map[string]bool
	states map[string]types.InstantState
}

func newFakeTimeline() *fakeTimeline {
	return &fakeTimeline{synced: map[string]bool{}, states: map[string]types.InstantState{}}
}

func (f *fakeTimeline) Contains(instantTs string) bool { return f.synced[instantTs] }

func (f *fakeTimeline) IsBeforeStart(instantTs string) bool {
	return f.start != "" && instantTs < f.start
}

func (f *fakeTimeline) RecordStart(instantTs string, state types.InstantState) error {
	f.states[instantTs] = state
	return nil
}

func (f *fakeTimeline) MarkSynced(instantTs string) error {
	f.synced[instantTs] = true
	return nil
}

type fakeReader struct {
	filters map[string][]byte
	calls   int
}

func (f *fakeReader) ReadBloomFilter(_ context.Context, path string) ([]byte, error) {
	f.calls++
	return f.filters[path], nil
}

func (f *fakeReader) ReadColumnRanges(_ context.Context, _ string, _ []string) (map[string]capability.ColumnRange, error) {
	f.calls++
	return nil, errors.New("unexpected column-range read")
}

func mustJSON(t *testing.T, v map[string]interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	return data
}

func commitBlob(t *testing.T, ts string) []byte {
	return mustJSON(t, map[string]interface{}{
		"action":    "commit",
		"timestamp": ts,
		"commit": map[string]interface{}{
			"operationType": "insert",
			"partitionToWriteStats": map[string]interface{}{
				"p1": []map[string]interface{}{
					{"path": "p1/f1.parquet", "fileSizeInBytes": 100, "isDelta": false},
				},
			},
		},
	})
}

func baseConfig() types.IndexingConfig {
	return types.IndexingConfig{
		EnabledPartitionTypes: []types.MetadataPartitionType{
			types.PartitionFilesType,
			types.PartitionBloomFiltersType,
			types.PartitionColumnStatsType,
		},
		RecordKeyColumns: []string{"id"},
	}
}

func TestRunCommitAppliesFilesAndBloom(t *testing.T) {
	tl := newFakeTimeline()
	reader := &fakeReader{filters: map[string][]byte{"p1/f1.parquet": []byte("bloom-bytes")}}
	co := New(tl, reader, nil)

	in := Input{
		Instant: types.Instant{Action: types.ActionCommit, Timestamp: "t1"},
		Actions: [][]byte{commitBlob(t, "t1")},
		Config:  baseConfig(),
		Engine:  engine.NewSequential(),
	}

	routed, err := co.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(routed[types.PartitionFilesType]) == 0 {
		t.Error("expected FILES records")
	}
	if len(routed[types.PartitionBloomFiltersType]) == 0 {
		t.Error("expected BLOOM_FILTERS records")
	}
	if !tl.Contains("t1") {
		t.Error("expected instant to be marked synced")
	}
}

func TestRunSkipsDisabledPartitionType(t *testing.T) {
	tl := newFakeTimeline()
	reader := &fakeReader{filters: map[string][]byte{"p1/f1.parquet": []byte("bloom-bytes")}}
	co := New(tl, reader, nil)

	cfg := baseConfig()
	cfg.EnabledPartitionTypes = []types.MetadataPartitionType{types.PartitionFilesType}

	in := Input{
		Instant: types.Instant{Action: types.ActionCommit, Timestamp: "t1"},
		Actions: [][]byte{commitBlob(t, "t1")},
		Config:  cfg,
		Engine:  engine.NewSequential(),
	}

	routed, err := co.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(routed[types.PartitionBloomFiltersType]) != 0 {
		t.Error("expected no BLOOM_FILTERS records when disabled")
	}
	if reader.calls != 0 {
		t.Errorf("reader.calls = %d, want 0 (BIB/CIB must not be invoked when disabled)", reader.calls)
	}
}

func TestRunCleanAppliesFilesAndTombstones(t *testing.T) {
	tl := newFakeTimeline()
	reader := &fakeReader{}
	co := New(tl, reader, nil)

	blob := mustJSON(t, map[string]interface{}{
		"action": "clean",
		"clean": map[string]interface{}{
			"partitionToDeletedFiles": map[string]interface{}{
				"p1": []string{"p1/f1.parquet"},
			},
		},
	})

	in := Input{
		Instant: types.Instant{Action: types.ActionClean, Timestamp: "t2"},
		Actions: [][]byte{blob},
		Config:  baseConfig(),
		Engine:  engine.NewSequential(),
	}

	routed, err := co.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(routed[types.PartitionFilesType]) == 0 {
		t.Error("expected FILES deletion record")
	}
	if len(routed[types.PartitionBloomFiltersType]) == 0 {
		t.Error("expected a bloom tombstone record")
	}
	for _, recs := range routed[types.PartitionBloomFiltersType] {
		for _, r := range recs {
			if r.FileName != "f1.parquet" {
				t.Errorf("bloom tombstone FileName = %q, want f1.parquet (prefix rule applied before keying)", r.FileName)
			}
			if !r.IsDeleted {
				t.Error("expected the bloom record to be a tombstone")
			}
		}
	}
}

func TestRunRollbackNeverCommittedIsSkipped(t *testing.T) {
	tl := newFakeTimeline()
	co := New(tl, &fakeReader{}, nil)

	blob := mustJSON(t, map[string]interface{}{
		"action": "rollback",
		"rollback": map[string]interface{}{
			"commitsRolledback": []string{"t1"},
			"partitionMetadata": map[string]interface{}{},
		},
	})

	in := Input{
		Instant: types.Instant{Action: types.ActionRollback, Timestamp: "t2"},
		Actions: [][]byte{blob},
		Config:  baseConfig(),
		Engine:  engine.NewSequential(),
	}

	routed, err := co.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(routed) != 0 {
		t.Errorf("routed = %v, want empty (rollback of a never-committed instant should be skipped)", routed)
	}
	if !tl.Contains("t2") {
		t.Error("a skipped instant should still be marked synced so it is not retried forever")
	}
}

func TestRunRollbackArchivedDependencyIsFatal(t *testing.T) {
	tl := newFakeTimeline()
	tl.start = "t5"
	co := New(tl, &fakeReader{}, nil)

	blob := mustJSON(t, map[string]interface{}{
		"action": "rollback",
		"rollback": map[string]interface{}{
			"commitsRolledback": []string{"t1"},
			"partitionMetadata": map[string]interface{}{},
		},
	})

	in := Input{
		Instant: types.Instant{Action: types.ActionRollback, Timestamp: "t9"},
		Actions: [][]byte{blob},
		Config:  baseConfig(),
		Engine:  engine.NewSequential(),
	}

	_, err := co.Run(context.Background(), in)
	if !errors.Is(err, idxerr.ErrArchivedDependency) {
		t.Fatalf("err = %v, want ErrArchivedDependency", err)
	}
	if tl.Contains("t9") {
		t.Error("a fatal run must not mark the instant synced")
	}
}

func TestRunMalformedActionIsFatalAndDoesNotSync(t *testing.T) {
	tl := newFakeTimeline()
	co := New(tl, &fakeReader{}, nil)

	in := Input{
		Instant: types.Instant{Action: types.ActionCommit, Timestamp: "t1"},
		Actions: [][]byte{[]byte(`not json`)},
		Config:  baseConfig(),
		Engine:  engine.NewSequential(),
	}

	_, err := co.Run(context.Background(), in)
	if !errors.Is(err, idxerr.ErrMalformedAction) {
		t.Fatalf("err = %v, want ErrMalformedAction", err)
	}
	if tl.Contains("t1") {
		t.Error("a fatal run must not mark the instant synced")
	}
}

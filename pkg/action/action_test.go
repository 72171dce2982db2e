package action

import (
	"errors"
	"testing"

	"github.com/tablemeta/metaindex/pkg/idxerr"
	"github.com/tablemeta/metaindex/pkg/types"
)

func TestParseCommit(t *testing.T) {
	raw := []byte(`{
		"action": "commit",
		"timestamp": "20260101000000",
		"commit": {
			"operationType": "insert",
			"writerSchema": {"fields": [{"name": "id"}, {"name": "ts"}]},
			"partitionToWriteStats": {
				"2026/01/01": [
					{"path": "2026/01/01/a.parquet", "fileSizeInBytes": 100, "isDelta": false}
				],
				"": [
					{"path": "b.parquet", "fileSizeInBytes": 50, "isDelta": true,
					 "recordStats": {"columnRanges": {"id": {"min": "1", "max": "9", "valueCount": 10}}}}
				]
			}
		}
	}`)

	kind, meta, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if kind != types.ActionCommit {
		t.Fatalf("kind = %v, want %v", kind, types.ActionCommit)
	}
	commit, ok := meta.(types.CommitMetadata)
	if !ok {
		t.Fatalf("meta is %T, want types.CommitMetadata", meta)
	}
	if commit.OperationKind != "insert" {
		t.Errorf("OperationKind = %q, want insert", commit.OperationKind)
	}
	if len(commit.WriterSchema) != 2 {
		t.Errorf("len(WriterSchema) = %d, want 2", len(commit.WriterSchema))
	}
	if len(commit.Partitions["2026/01/01"]) != 1 {
		t.Errorf("partition 2026/01/01 has %d stats, want 1", len(commit.Partitions["2026/01/01"]))
	}
	nonPartitioned, ok := commit.Partitions[types.NonPartitionedSentinel]
	if !ok || len(nonPartitioned) != 1 {
		t.Fatalf("expected one write stat under the non-partitioned sentinel, got %v", commit.Partitions)
	}
	if nonPartitioned[0].RecordStats == nil {
		t.Fatal("expected precomputed record stats on the delta write stat")
	}
	idRange := nonPartitioned[0].RecordStats.ColumnRanges["id"]
	if idRange.Min == nil || *idRange.Min != "1" {
		t.Errorf("id column min = %v, want 1", idRange.Min)
	}
}

func TestParseCommitMissingPath(t *testing.T) {
	raw := []byte(`{
		"action": "deltacommit",
		"commit": {"operationType": "upsert", "partitionToWriteStats": {"p": [{"fileSizeInBytes": 1}]}}
	}`)
	_, _, err := Parse(raw)
	if !errors.Is(err, idxerr.ErrMalformedAction) {
		t.Fatalf("err = %v, want wrapped %v", err, idxerr.ErrMalformedAction)
	}
}

func TestParseCommitMissingPartitions(t *testing.T) {
	raw := []byte(`{"action": "commit", "commit": {"operationType": "insert"}}`)
	_, _, err := Parse(raw)
	if !errors.Is(err, idxerr.ErrMalformedAction) {
		t.Fatalf("err = %v, want wrapped %v", err, idxerr.ErrMalformedAction)
	}
}

func TestParseClean(t *testing.T) {
	raw := []byte(`{
		"action": "clean",
		"clean": {"partitionToDeletedFiles": {"p1": ["a.parquet", "b.parquet"], "": ["c.parquet"]}}
	}`)
	kind, meta, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if kind != types.ActionClean {
		t.Fatalf("kind = %v, want %v", kind, types.ActionClean)
	}
	clean := meta.(types.CleanMetadata)
	if len(clean.DeletedPaths["p1"]) != 2 {
		t.Errorf("p1 deleted paths = %v, want 2 entries", clean.DeletedPaths["p1"])
	}
	if len(clean.DeletedPaths[types.NonPartitionedSentinel]) != 1 {
		t.Errorf("non-partitioned deleted paths = %v, want 1 entry", clean.DeletedPaths[types.NonPartitionedSentinel])
	}
}

func TestParseRollback(t *testing.T) {
	raw := []byte(`{
		"action": "rollback",
		"rollback": {
			"commitsRolledback": ["20260101000000"],
			"partitionMetadata": {
				"p1": {
					"successDeleteFiles": ["a.parquet"],
					"failDeleteFiles": ["b.parquet"],
					"rollbackLogFiles": {"c.log": 42}
				}
			}
		}
	}`)
	kind, meta, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if kind != types.ActionRollback {
		t.Fatalf("kind = %v, want %v", kind, types.ActionRollback)
	}
	rollback := meta.(types.RollbackMetadata)
	if len(rollback.Entry.CommitsRolledBack) != 1 || rollback.Entry.CommitsRolledBack[0] != "20260101000000" {
		t.Errorf("CommitsRolledBack = %v", rollback.Entry.CommitsRolledBack)
	}
	p1 := rollback.Entry.Partitions["p1"]
	if len(p1.SuccessDeletes) != 1 || len(p1.FailedDeletes) != 1 || p1.RollbackLogFiles["c.log"] != 42 {
		t.Errorf("partition p1 entry = %+v", p1)
	}
}

func TestParseRollbackMissingCommits(t *testing.T) {
	raw := []byte(`{"action": "rollback", "rollback": {"partitionMetadata": {}}}`)
	_, _, err := Parse(raw)
	if !errors.Is(err, idxerr.ErrMalformedAction) {
		t.Fatalf("err = %v, want wrapped %v", err, idxerr.ErrMalformedAction)
	}
}

func TestParseRestore(t *testing.T) {
	raw := []byte(`{
		"action": "restore",
		"restore": {
			"rollbacks": [
				{"commitsRolledback": ["t1"], "partitionMetadata": {"p": {"successDeleteFiles": ["a"]}}},
				{"commitsRolledback": ["t2"], "partitionMetadata": {"p": {"successDeleteFiles": ["b"]}}}
			]
		}
	}`)
	kind, meta, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if kind != types.ActionRestore {
		t.Fatalf("kind = %v, want %v", kind, types.ActionRestore)
	}
	restore := meta.(types.RestoreMetadata)
	if len(restore.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(restore.Entries))
	}
	if restore.Entries[0].CommitsRolledBack[0] != "t1" || restore.Entries[1].CommitsRolledBack[0] != "t2" {
		t.Errorf("restore entries out of order: %+v", restore.Entries)
	}
}

func TestParseRestoreEmpty(t *testing.T) {
	raw := []byte(`{"action": "restore", "restore": {"rollbacks": []}}`)
	_, _, err := Parse(raw)
	if !errors.Is(err, idxerr.ErrMalformedAction) {
		t.Fatalf("err = %v, want wrapped %v", err, idxerr.ErrMalformedAction)
	}
}

func TestParseUnknownAction(t *testing.T) {
	raw := []byte(`{"action": "savepoint"}`)
	_, _, err := Parse(raw)
	if !errors.Is(err, idxerr.ErrMalformedAction) {
		t.Fatalf("err = %v, want wrapped %v", err, idxerr.ErrMalformedAction)
	}
}

func TestParseMissingActionField(t *testing.T) {
	raw := []byte(`{"timestamp": "20260101000000"}`)
	_, _, err := Parse(raw)
	if !errors.Is(err, idxerr.ErrMalformedAction) {
		t.Fatalf("err = %v, want wrapped %v", err, idxerr.ErrMalformedAction)
	}
}

func TestParseNotJSON(t *testing.T) {
	_, _, err := Parse([]byte("not json"))
	if !errors.Is(err, idxerr.ErrMalformedAction) {
		t.Fatalf("err = %v, want wrapped %v", err, idxerr.ErrMalformedAction)
	}
}

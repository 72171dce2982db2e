package action

import (
	"encoding/json"
	"fmt"

	"github.com/tablemeta/metaindex/pkg/idxerr"
	"github.com/tablemeta/metaindex/pkg/types"
)

// Envelope is the wire shape every action blob arrives in: a kind tag plus
// one raw payload selected by that tag. Unrecognized top-level fields are
// ignored, matching the teacher's Command{Op, Data} dispatch envelope.
type Envelope struct {
	Action    string          `json:"action"`
	Timestamp string          `json:"timestamp"`
	Commit    json.RawMessage `json:"commit,omitempty"`
	Clean     json.RawMessage `json:"clean,omitempty"`
	Rollback  json.RawMessage `json:"rollback,omitempty"`
	Restore   json.RawMessage `json:"restore,omitempty"`
}

type wireWriteStat struct {
	Path            string           `json:"path"`
	FileSizeInBytes int64            `json:"fileSizeInBytes"`
	IsDelta         bool             `json:"isDelta"`
	RecordStats     *wireRecordStats `json:"recordStats,omitempty"`
}

type wireRecordStats struct {
	ColumnRanges map[string]wireColumnRange `json:"columnRanges"`
}

type wireColumnRange struct {
	Min                   *string `json:"min"`
	Max                   *string `json:"max"`
	ValueCount            int64   `json:"valueCount"`
	NullCount             int64   `json:"nullCount"`
	TotalSize             int64   `json:"totalSize"`
	TotalUncompressedSize int64   `json:"totalUncompressedSize"`
}

type wireSchemaField struct {
	Name string `json:"name"`
}

type wireSchema struct {
	Fields []wireSchemaField `json:"fields"`
}

type wireCommit struct {
	OperationType         string                     `json:"operationType"`
	WriterSchema          *wireSchema                `json:"writerSchema,omitempty"`
	PartitionToWriteStats map[string][]wireWriteStat `json:"partitionToWriteStats"`
}

type wireClean struct {
	PartitionToDeletedFiles map[string][]string `json:"partitionToDeletedFiles"`
}

type wireRollbackPartition struct {
	SuccessDeleteFiles []string         `json:"successDeleteFiles"`
	FailDeleteFiles    []string         `json:"failDeleteFiles"`
	RollbackLogFiles   map[string]int64 `json:"rollbackLogFiles"`
}

type wireRollback struct {
	CommitsRolledback []string                         `json:"commitsRolledback"`
	PartitionMetadata map[string]wireRollbackPartition `json:"partitionMetadata"`
}

type wireRestore struct {
	Rollbacks []wireRollback `json:"rollbacks"`
}

// Parse decodes one raw action blob, dispatching on its "action" field the
// way the teacher's FSM dispatches on Command.Op, and returns the kind
// alongside the matching types.*Metadata value as an interface{}. Callers
// switch on kind before asserting the concrete type.
func Parse(raw []byte) (types.ActionKind, interface{}, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", nil, fmt.Errorf("decoding action envelope: %w", idxerr.ErrMalformedAction)
	}
	if env.Action == "" {
		return "", nil, fmt.Errorf("action field is empty: %w", idxerr.ErrMalformedAction)
	}

	kind := types.ActionKind(env.Action)
	switch kind {
	case types.ActionCommit, types.ActionDeltaCommit:
		meta, err := parseCommit(env.Commit)
		if err != nil {
			return "", nil, err
		}
		return kind, meta, nil

	case types.ActionClean:
		meta, err := parseClean(env.Clean)
		if err != nil {
			return "", nil, err
		}
		return kind, meta, nil

	case types.ActionRollback:
		meta, err := parseRollback(env.Rollback)
		if err != nil {
			return "", nil, err
		}
		return kind, meta, nil

	case types.ActionRestore:
		meta, err := parseRestore(env.Restore)
		if err != nil {
			return "", nil, err
		}
		return kind, meta, nil

	default:
		return "", nil, fmt.Errorf("unknown action kind %q: %w", env.Action, idxerr.ErrMalformedAction)
	}
}

func parseCommit(raw json.RawMessage) (types.CommitMetadata, error) {
	if len(raw) == 0 {
		return types.CommitMetadata{}, fmt.Errorf("commit action missing commit payload: %w", idxerr.ErrMalformedAction)
	}
	var wc wireCommit
	if err := json.Unmarshal(raw, &wc); err != nil {
		return types.CommitMetadata{}, fmt.Errorf("decoding commit payload: %w", idxerr.ErrMalformedAction)
	}
	if wc.PartitionToWriteStats == nil {
		return types.CommitMetadata{}, fmt.Errorf("commit payload missing partitionToWriteStats: %w", idxerr.ErrMalformedAction)
	}

	meta := types.CommitMetadata{
		OperationKind: wc.OperationType,
		Partitions:    make(map[string][]types.WriteStat, len(wc.PartitionToWriteStats)),
	}
	if wc.WriterSchema != nil {
		for _, f := range wc.WriterSchema.Fields {
			meta.WriterSchema = append(meta.WriterSchema, types.SchemaField{Name: f.Name})
		}
	}

	for partition, stats := range wc.PartitionToWriteStats {
		key := types.NormalizePartitionName(partition)
		for _, ws := range stats {
			if ws.Path == "" {
				return types.CommitMetadata{}, fmt.Errorf("write stat missing path in partition %q: %w", partition, idxerr.ErrMalformedAction)
			}
			stat := types.WriteStat{
				PartitionPath: key,
				FilePath:      ws.Path,
				FileSizeBytes: ws.FileSizeInBytes,
				IsDelta:       ws.IsDelta,
			}
			if ws.RecordStats != nil {
				stat.RecordStats = &types.RecordStats{
					ColumnRanges: make(map[string]types.ColumnRange, len(ws.RecordStats.ColumnRanges)),
				}
				for col, cr := range ws.RecordStats.ColumnRanges {
					stat.RecordStats.ColumnRanges[col] = types.ColumnRange{
						Min:                   cr.Min,
						Max:                   cr.Max,
						ValueCount:            cr.ValueCount,
						NullCount:             cr.NullCount,
						TotalSize:             cr.TotalSize,
						TotalUncompressedSize: cr.TotalUncompressedSize,
					}
				}
			}
			meta.Partitions[key] = append(meta.Partitions[key], stat)
		}
	}
	return meta, nil
}

func parseClean(raw json.RawMessage) (types.CleanMetadata, error) {
	if len(raw) == 0 {
		return types.CleanMetadata{}, fmt.Errorf("clean action missing clean payload: %w", idxerr.ErrMalformedAction)
	}
	var wc wireClean
	if err := json.Unmarshal(raw, &wc); err != nil {
		return types.CleanMetadata{}, fmt.Errorf("decoding clean payload: %w", idxerr.ErrMalformedAction)
	}
	if wc.PartitionToDeletedFiles == nil {
		return types.CleanMetadata{}, fmt.Errorf("clean payload missing partitionToDeletedFiles: %w", idxerr.ErrMalformedAction)
	}

	meta := types.CleanMetadata{DeletedPaths: make(map[string][]string, len(wc.PartitionToDeletedFiles))}
	for partition, paths := range wc.PartitionToDeletedFiles {
		key := types.NormalizePartitionName(partition)
		meta.DeletedPaths[key] = append(meta.DeletedPaths[key], paths...)
	}
	return meta, nil
}

func parseRollback(raw json.RawMessage) (types.RollbackMetadata, error) {
	if len(raw) == 0 {
		return types.RollbackMetadata{}, fmt.Errorf("rollback action missing rollback payload: %w", idxerr.ErrMalformedAction)
	}
	var wr wireRollback
	if err := json.Unmarshal(raw, &wr); err != nil {
		return types.RollbackMetadata{}, fmt.Errorf("decoding rollback payload: %w", idxerr.ErrMalformedAction)
	}
	entry, err := toRollbackEntry(wr)
	if err != nil {
		return types.RollbackMetadata{}, err
	}
	return types.RollbackMetadata{Entry: entry}, nil
}

func parseRestore(raw json.RawMessage) (types.RestoreMetadata, error) {
	if len(raw) == 0 {
		return types.RestoreMetadata{}, fmt.Errorf("restore action missing restore payload: %w", idxerr.ErrMalformedAction)
	}
	var wr wireRestore
	if err := json.Unmarshal(raw, &wr); err != nil {
		return types.RestoreMetadata{}, fmt.Errorf("decoding restore payload: %w", idxerr.ErrMalformedAction)
	}
	if len(wr.Rollbacks) == 0 {
		return types.RestoreMetadata{}, fmt.Errorf("restore payload has no rollbacks: %w", idxerr.ErrMalformedAction)
	}

	meta := types.RestoreMetadata{Entries: make([]types.RollbackEntry, 0, len(wr.Rollbacks))}
	for _, rb := range wr.Rollbacks {
		entry, err := toRollbackEntry(rb)
		if err != nil {
			return types.RestoreMetadata{}, err
		}
		meta.Entries = append(meta.Entries, entry)
	}
	return meta, nil
}

func toRollbackEntry(wr wireRollback) (types.RollbackEntry, error) {
	if len(wr.CommitsRolledback) == 0 {
		return types.RollbackEntry{}, fmt.Errorf("rollback entry has no commitsRolledback: %w", idxerr.ErrMalformedAction)
	}
	entry := types.RollbackEntry{
		CommitsRolledBack: wr.CommitsRolledback,
		Partitions:        make(map[string]types.RollbackPartitionEntry, len(wr.PartitionMetadata)),
	}
	for partition, wp := range wr.PartitionMetadata {
		key := types.NormalizePartitionName(partition)
		entry.Partitions[key] = types.RollbackPartitionEntry{
			SuccessDeletes:   wp.SuccessDeleteFiles,
			FailedDeletes:    wp.FailDeleteFiles,
			RollbackLogFiles: wp.RollbackLogFiles,
		}
	}
	return entry, nil
}

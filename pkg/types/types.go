package types

// NonPartitionedSentinel is the reserved partition key used whenever a
// write stat or action carries the empty partition path (I1).
const NonPartitionedSentinel = "__non_partitioned__"

// AllPartitionsKey is the literal routing key used for the single
// PartitionList record emitted by the Files Index Builder.
const AllPartitionsKey = "__all_partitions__"

// InstantState is the lifecycle state of an Instant on the timeline.
type InstantState string

const (
	InstantRequested InstantState = "requested"
	InstantInflight  InstantState = "inflight"
	InstantCompleted InstantState = "completed"
)

// ActionKind identifies the kind of action an Instant represents.
type ActionKind string

const (
	ActionCommit      ActionKind = "commit"
	ActionDeltaCommit ActionKind = "deltacommit"
	ActionClean       ActionKind = "clean"
	ActionRollback    ActionKind = "rollback"
	ActionRestore     ActionKind = "restore"
)

// Instant is a totally ordered token identifying one action on the
// timeline. Timestamp is a lexicographically ordered string; two instants
// are compared by timestamp, never by wall-clock time.
type Instant struct {
	Action    ActionKind
	Timestamp string
	State     InstantState
}

// Before reports whether i happened strictly before other.
func (i Instant) Before(other Instant) bool {
	return i.Timestamp < other.Timestamp
}

// WriteStat describes one file touched by an instant. A file may be
// reported multiple times within one commit (append-then-append); callers
// must fold repeated observations with max-size semantics (I2).
type WriteStat struct {
	PartitionPath string
	FilePath      string
	FileSizeBytes int64
	IsDelta       bool
	RecordStats   *RecordStats
}

// RecordStats carries precomputed per-column ranges attached to a delta
// write stat, letting the Column-Stats Index Builder skip re-opening the
// file (spec.md §4.5).
type RecordStats struct {
	ColumnRanges map[string]ColumnRange
}

// ColumnRange is one column's statistics for one file, as produced either
// by a FileReader capability or precomputed on a WriteStat.
type ColumnRange struct {
	Min                   *string
	Max                   *string
	ValueCount            int64
	NullCount             int64
	TotalSize             int64
	TotalUncompressedSize int64
}

// SchemaField is a single top-level field of a writer schema, as far as
// the indexing subsystem cares (name only; Avro type conversion is a
// separate concern per spec.md §1).
type SchemaField struct {
	Name string
}

// CommitMetadata is the parsed shape of a commit or delta-commit action.
type CommitMetadata struct {
	OperationKind string
	WriterSchema  []SchemaField
	Partitions    map[string][]WriteStat
}

// CleanMetadata is the parsed shape of a clean action.
type CleanMetadata struct {
	DeletedPaths map[string][]string
}

// RollbackPartitionEntry is the per-partition payload of one rollback entry.
type RollbackPartitionEntry struct {
	SuccessDeletes   []string
	FailedDeletes    []string
	RollbackLogFiles map[string]int64
}

// RollbackEntry is one inner rollback performed as part of a
// RollbackMetadata, or one step of a RestoreMetadata.
type RollbackEntry struct {
	CommitsRolledBack []string
	Partitions        map[string]RollbackPartitionEntry
}

// RollbackMetadata is the parsed shape of a rollback action.
type RollbackMetadata struct {
	Entry RollbackEntry
}

// RestoreMetadata is the parsed shape of a restore action: an ordered
// sequence of rollback entries folded together by RN.
type RestoreMetadata struct {
	Entries []RollbackEntry
}

// MetadataPartitionType is the logical partition of the metadata table a
// record is routed to.
type MetadataPartitionType string

const (
	PartitionFilesType        MetadataPartitionType = "files"
	PartitionBloomFiltersType MetadataPartitionType = "bloom_filters"
	PartitionColumnStatsType  MetadataPartitionType = "column_stats"
)

// RecordKind tags the four MetadataRecord shapes from spec.md §3.
type RecordKind int

const (
	RecordPartitionList RecordKind = iota + 1
	RecordPartitionFiles
	RecordBloomFilterEntry
	RecordColumnStats
)

// MetadataRecord is the tagged union over the four record shapes. Only the
// fields relevant to Kind are populated; callers switch on Kind before
// reading payload fields, per the re-architecture note in spec.md §9
// ("avoid virtual dispatch").
type MetadataRecord struct {
	Kind RecordKind

	// RecordPartitionList
	Partitions []string

	// RecordPartitionFiles
	Partition    string
	FilesAdded   map[string]int64
	FilesDeleted []string

	// RecordBloomFilterEntry (Partition/FileName shared with PartitionFiles)
	FileName    string
	InstantTs   string
	TypeCode    string
	FilterBytes []byte
	IsDeleted   bool

	// RecordColumnStats (Partition/FileName shared above)
	Column                string
	Min                   *string
	Max                   *string
	ValueCount            int64
	NullCount             int64
	TotalSize             int64
	TotalUncompressedSize int64
}

// Key returns the routing key used by the Record Router (spec.md §4.6, I6).
func (r MetadataRecord) Key() string {
	switch r.Kind {
	case RecordPartitionList:
		return AllPartitionsKey
	case RecordPartitionFiles:
		return r.Partition
	case RecordBloomFilterEntry:
		return r.Partition + "\x00" + r.FileName
	case RecordColumnStats:
		return r.Partition + "\x00" + r.FileName + "\x00" + r.Column
	default:
		return ""
	}
}

// PartitionType returns the MetadataPartitionType a record routes to.
func (r MetadataRecord) PartitionType() MetadataPartitionType {
	switch r.Kind {
	case RecordPartitionList, RecordPartitionFiles:
		return PartitionFilesType
	case RecordBloomFilterEntry:
		return PartitionBloomFiltersType
	case RecordColumnStats:
		return PartitionColumnStatsType
	default:
		return ""
	}
}

// NormalizePartitionName maps the empty partition path to the reserved
// sentinel (I1). All downstream keying must pass partitions through this
// function exactly once, at the boundary where they are first observed.
func NormalizePartitionName(partition string) string {
	if partition == "" {
		return NonPartitionedSentinel
	}
	return partition
}

// IndexingConfig is the single configuration object every builder reads
// from (SPEC_FULL.md §3).
type IndexingConfig struct {
	EnabledPartitionTypes          []MetadataPartitionType
	BloomFilterParallelism         int
	ColumnStatsParallelism         int
	BootstrapFSListingParallelism  int
	FSListingMaxListingParallelism int
	AllColumnsEnabled              bool
	PopulateMetaFields             bool
	DatePartitionedBootstrap       bool
	RecordKeyColumns               []string
}

// PartitionTypeEnabled reports whether pt is in cfg.EnabledPartitionTypes.
func (cfg IndexingConfig) PartitionTypeEnabled(pt MetadataPartitionType) bool {
	for _, p := range cfg.EnabledPartitionTypes {
		if p == pt {
			return true
		}
	}
	return false
}

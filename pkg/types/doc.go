/*
Package types defines the data structures shared across the metadata
table indexing subsystem.

This package contains the entities described by the indexing subsystem's
data model: actions parsed off the timeline (CommitMetadata,
CleanMetadata, RollbackMetadata, RestoreMetadata), the per-file write
stats and column ranges those actions carry, and the tagged-union
MetadataRecord that every builder emits.

# Core Types

Timeline:
  - Instant: a totally ordered (action, timestamp, state) token
  - ActionKind, InstantState: the enums Instant is built from

Action payloads:
  - CommitMetadata: operation kind, writer schema, per-partition WriteStat list
  - CleanMetadata: per-partition deleted paths
  - RollbackMetadata, RestoreMetadata, RollbackEntry: rollback/restore payloads

Records:
  - MetadataRecord: the tagged union over PartitionList, PartitionFiles,
    BloomFilterEntry, and ColumnStats shapes (RecordKind selects which
    fields are populated)
  - MetadataPartitionType: FILES, BLOOM_FILTERS, COLUMN_STATS

Configuration:
  - IndexingConfig: the single config object every builder reads from

# Invariants

NonPartitionedSentinel and NormalizePartitionName implement I1 (the empty
partition path always maps to the reserved sentinel). MetadataRecord.Key
implements the routing keys used by I5/I6 (tombstone keying, hash
stability) — see package index for the hash itself.
*/
package types

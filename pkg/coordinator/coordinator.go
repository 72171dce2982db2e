package coordinator

import (
	"context"
	"fmt"

	"github.com/tablemeta/metaindex/pkg/action"
	"github.com/tablemeta/metaindex/pkg/capability"
	"github.com/tablemeta/metaindex/pkg/engine"
	"github.com/tablemeta/metaindex/pkg/events"
	"github.com/tablemeta/metaindex/pkg/index"
	"github.com/tablemeta/metaindex/pkg/log"
	"github.com/tablemeta/metaindex/pkg/metrics"
	"github.com/tablemeta/metaindex/pkg/rollback"
	"github.com/tablemeta/metaindex/pkg/types"
)

// timelineStore is the mutation surface the Coordinator needs beyond the
// read-only capability.Timeline the builders see: advancing an instant's
// lifecycle state and marking it synced. pkg/timelinestore.Store satisfies
// this directly; builders never see anything beyond capability.Timeline.
type timelineStore interface {
	capability.Timeline
	RecordStart(instantTs string, state types.InstantState) error
	MarkSynced(instantTs string) error
}

// Input is one Coordinator run: a single instant, its ordered raw action
// blobs, and everything the builders need to process them.
type Input struct {
	Instant            types.Instant
	Actions            [][]byte
	Config             types.IndexingConfig
	Engine             engine.Context
	Bootstrapped       bool
	ExistingFileSlices map[types.MetadataPartitionType]int

	// LastSyncTs is the timestamp of the most recently synced instant
	// before this run, or "" if none has synced yet. RN's Case A check
	// needs it; capability.Timeline's minimal surface (Contains,
	// IsBeforeStart) cannot answer "what is the latest sync" without a
	// full scan, so the caller driving the replay in order tracks and
	// supplies it.
	LastSyncTs string
}

// Coordinator sequences AR → RN → {FIB, BIB, CIB} → RR for one instant at a
// time.
type Coordinator struct {
	Timeline timelineStore
	Reader   capability.FileReader
	Events   *events.Broker
}

// New constructs a Coordinator.
func New(tl timelineStore, reader capability.FileReader, broker *events.Broker) *Coordinator {
	return &Coordinator{Timeline: tl, Reader: reader, Events: broker}
}

// Run applies in to the index, returning the routed record set for this
// instant. A fatal error aborts the run with zero partial output (§7): the
// returned Routed is always nil when err is non-nil.
func (c *Coordinator) Run(ctx context.Context, in Input) (index.Routed, error) {
	logger := log.WithInstant(in.Instant.Timestamp)
	actionWasSynced := c.Timeline.Contains(in.Instant.Timestamp)
	timer := metrics.NewTimer()

	if err := c.Timeline.RecordStart(in.Instant.Timestamp, types.InstantInflight); err != nil {
		return nil, fmt.Errorf("recording instant start: %w", err)
	}

	records, err := c.buildRecords(ctx, in, actionWasSynced)
	timer.ObserveDurationVec(metrics.CoordinatorRunDuration, string(in.Instant.Action))
	if err != nil {
		metrics.CoordinatorRunsTotal.WithLabelValues(string(in.Instant.Action), "failed").Inc()
		logger.Error().Err(err).Msg("coordinator run failed")
		c.publish(events.EventCommitFailed, in.Instant.Timestamp, err.Error())
		return nil, err
	}

	routed := index.Route(records, in.Config, in.Bootstrapped, in.ExistingFileSlices)
	for pt, groups := range routed {
		var count int
		for _, g := range groups {
			count += len(g)
		}
		metrics.RecordsEmittedTotal.WithLabelValues(string(pt)).Add(float64(count))
	}

	if err := c.Timeline.MarkSynced(in.Instant.Timestamp); err != nil {
		return nil, fmt.Errorf("marking instant synced: %w", err)
	}

	outcome, eventType := outcomeFor(in.Instant.Action, len(records))
	metrics.CoordinatorRunsTotal.WithLabelValues(string(in.Instant.Action), outcome).Inc()
	if outcome == "skipped" {
		metrics.RollbackEntriesSkippedTotal.WithLabelValues("case-a-or-b").Inc()
	}
	logger.Info().Str("outcome", outcome).Int("records", len(records)).Msg("coordinator run complete")
	c.publish(eventType, in.Instant.Timestamp, fmt.Sprintf("instant %s %s", in.Instant.Timestamp, outcome))

	return routed, nil
}

// outcomeFor classifies a completed run for metrics/events. Rollback and
// restore actions that produced no records were skipped by RN's skip
// rules; everything else that reaches here applied successfully.
func outcomeFor(kind types.ActionKind, recordCount int) (outcome string, eventType events.EventType) {
	isRollbackLike := kind == types.ActionRollback || kind == types.ActionRestore
	if isRollbackLike && recordCount == 0 {
		return "skipped", events.EventRollbackSkipped
	}
	switch kind {
	case types.ActionRollback:
		return "applied", events.EventRollbackApplied
	case types.ActionRestore:
		return "applied", events.EventRestoreApplied
	case types.ActionClean:
		return "applied", events.EventCleanApplied
	default:
		return "applied", events.EventCommitApplied
	}
}

func (c *Coordinator) publish(eventType events.EventType, instantTs, message string) {
	if c.Events == nil {
		return
	}
	c.Events.Publish(&events.Event{
		Type:    eventType,
		Message: message,
		Metadata: map[string]string{
			"instant_ts": instantTs,
		},
	})
}

// buildRecords runs AR → RN → {FIB, BIB, CIB} over every action blob in the
// instant, concatenating their output records.
func (c *Coordinator) buildRecords(ctx context.Context, in Input, actionWasSynced bool) ([]types.MetadataRecord, error) {
	var all []types.MetadataRecord
	for _, raw := range in.Actions {
		kind, meta, err := action.Parse(raw)
		if err != nil {
			return nil, err
		}

		var recs []types.MetadataRecord
		switch kind {
		case types.ActionCommit, types.ActionDeltaCommit:
			recs, err = c.applyCommit(ctx, in, meta.(types.CommitMetadata))
		case types.ActionClean:
			recs, err = c.applyClean(ctx, in, meta.(types.CleanMetadata))
		case types.ActionRollback:
			recs, err = c.applyRollback(ctx, in, meta.(types.RollbackMetadata))
		case types.ActionRestore:
			recs, err = c.applyRestore(ctx, in, meta.(types.RestoreMetadata), actionWasSynced)
		}
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}
	return all, nil
}

func (c *Coordinator) applyCommit(ctx context.Context, in Input, meta types.CommitMetadata) ([]types.MetadataRecord, error) {
	var recs []types.MetadataRecord
	if in.Config.PartitionTypeEnabled(types.PartitionFilesType) {
		recs = append(recs, index.FromCommit(meta)...)
	}

	columns := index.ColumnsToIndex(in.Config, meta.WriterSchema)
	for partition, stats := range meta.Partitions {
		if in.Config.PartitionTypeEnabled(types.PartitionBloomFiltersType) {
			added, failures := c.buildBloomAdded(ctx, in, partition, stats)
			recs = append(recs, added...)
			for _, f := range failures {
				bloomLogger := log.WithComponent("bloom-index")
				bloomLogger.Warn().Err(f.Err).Str("path", f.Path).Msg("bloom filter read failed")
				metrics.BloomFilterReadFailuresTotal.Inc()
			}
		}
		if in.Config.PartitionTypeEnabled(types.PartitionColumnStatsType) {
			added, failures, err := c.buildColumnStatsAdded(ctx, in, partition, stats, columns)
			if err != nil {
				return nil, err
			}
			recs = append(recs, added...)
			for _, f := range failures {
				colStatsLogger := log.WithComponent("column-stats-index")
				colStatsLogger.Warn().Err(f.Err).Str("path", f.Path).Msg("column range read failed")
				metrics.ColumnStatsReadFailuresTotal.Inc()
			}
		}
	}
	return recs, nil
}

func (c *Coordinator) applyClean(ctx context.Context, in Input, meta types.CleanMetadata) ([]types.MetadataRecord, error) {
	var recs []types.MetadataRecord
	if in.Config.PartitionTypeEnabled(types.PartitionFilesType) {
		recs = append(recs, index.FromClean(meta)...)
	}

	columns := index.ColumnsToIndex(in.Config, nil)
	for partition, deleted := range meta.DeletedPaths {
		// Clean metadata carries full paths; tombstone keys must match the
		// stripped filenames live records were keyed by (I5).
		names := make([]string, len(deleted))
		for i, p := range deleted {
			names[i] = index.StripPartitionPrefix(partition, p)
		}
		if in.Config.PartitionTypeEnabled(types.PartitionBloomFiltersType) {
			recs = append(recs, index.BuildBloomDeleted(partition, in.Instant.Timestamp, names)...)
		}
		if in.Config.PartitionTypeEnabled(types.PartitionColumnStatsType) {
			recs = append(recs, index.BuildColumnStatsDeleted(partition, in.Instant.Timestamp, names, columns)...)
		}
	}
	return recs, nil
}

func (c *Coordinator) applyRollback(ctx context.Context, in Input, meta types.RollbackMetadata) ([]types.MetadataRecord, error) {
	result, err := rollback.NormalizeRollback(c.Timeline, meta, in.LastSyncTs)
	if err != nil {
		return nil, err
	}
	return c.recordsFromRollbackResult(in, result)
}

func (c *Coordinator) applyRestore(ctx context.Context, in Input, meta types.RestoreMetadata, actionWasSynced bool) ([]types.MetadataRecord, error) {
	result, err := rollback.NormalizeRestore(c.Timeline, meta, in.LastSyncTs, actionWasSynced)
	if err != nil {
		return nil, err
	}
	return c.recordsFromRollbackResult(in, result)
}

func (c *Coordinator) recordsFromRollbackResult(in Input, result rollback.Result) ([]types.MetadataRecord, error) {
	var recs []types.MetadataRecord
	if in.Config.PartitionTypeEnabled(types.PartitionFilesType) {
		fromRollback, err := index.FromRollback(result.DeletedFiles, result.AppendedFiles)
		if err != nil {
			return nil, err
		}
		recs = append(recs, fromRollback...)
	}

	columns := index.ColumnsToIndex(in.Config, nil)
	for partition, deleted := range result.DeletedFiles {
		if in.Config.PartitionTypeEnabled(types.PartitionBloomFiltersType) {
			recs = append(recs, index.BuildBloomDeleted(partition, in.Instant.Timestamp, deleted)...)
		}
		if in.Config.PartitionTypeEnabled(types.PartitionColumnStatsType) {
			recs = append(recs, index.BuildColumnStatsDeleted(partition, in.Instant.Timestamp, deleted, columns)...)
		}
	}
	// result.AppendedFiles never reaches BIB/CIB: rollback log-append
	// files are log files, not base files, so I4 excludes them.
	return recs, nil
}

func (c *Coordinator) buildBloomAdded(ctx context.Context, in Input, partition string, stats []types.WriteStat) ([]types.MetadataRecord, []index.FailedRead) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.BloomIndexBuildDuration)
	return index.BuildBloomAdded(ctx, in.Engine, c.Reader, partition, in.Instant.Timestamp, stats)
}

func (c *Coordinator) buildColumnStatsAdded(ctx context.Context, in Input, partition string, stats []types.WriteStat, columns []string) ([]types.MetadataRecord, []index.FailedRead, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ColumnStatsIndexBuildDuration)
	return index.BuildColumnStatsAdded(ctx, in.Engine, c.Reader, partition, in.Instant.Timestamp, stats, columns)
}

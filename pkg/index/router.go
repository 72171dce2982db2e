package index

import "github.com/tablemeta/metaindex/pkg/types"

// Routed is the Record Router's output: records bucketed first by their
// target MetadataPartitionType, then by file-group index within that
// partition (spec.md §4.6).
type Routed map[types.MetadataPartitionType]map[int][]types.MetadataRecord

// FileGroupCount returns the number of file groups a metadata partition
// routes into. If the table is bootstrapped, it is
// max(1, existingFileSlices[partitionType]); otherwise it is the
// configured parallelism for BLOOM_FILTERS/COLUMN_STATS, and always 1 for
// FILES.
func FileGroupCount(pt types.MetadataPartitionType, cfg types.IndexingConfig, bootstrapped bool, existingFileSlices map[types.MetadataPartitionType]int) int {
	if bootstrapped {
		n := existingFileSlices[pt]
		if n < 1 {
			return 1
		}
		return n
	}
	switch pt {
	case types.PartitionBloomFiltersType:
		if cfg.BloomFilterParallelism < 1 {
			return 1
		}
		return cfg.BloomFilterParallelism
	case types.PartitionColumnStatsType:
		if cfg.ColumnStatsParallelism < 1 {
			return 1
		}
		return cfg.ColumnStatsParallelism
	default:
		return 1
	}
}

// Route groups records by MetadataPartitionType and, within each, by
// file-group index computed from the record's I6 routing key (spec.md
// §4.6).
func Route(records []types.MetadataRecord, cfg types.IndexingConfig, bootstrapped bool, existingFileSlices map[types.MetadataPartitionType]int) Routed {
	routed := make(Routed)
	for _, r := range records {
		pt := r.PartitionType()
		if pt == "" {
			continue
		}
		groups, ok := routed[pt]
		if !ok {
			groups = make(map[int][]types.MetadataRecord)
			routed[pt] = groups
		}
		count := FileGroupCount(pt, cfg, bootstrapped, existingFileSlices)
		idx := FileGroupIndex(r.Key(), count)
		groups[idx] = append(groups[idx], r)
	}
	return routed
}

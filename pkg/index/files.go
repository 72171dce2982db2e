package index

import (
	"fmt"
	"strings"

	"github.com/tablemeta/metaindex/pkg/idxerr"
	"github.com/tablemeta/metaindex/pkg/types"
)

// StripPartitionPrefix applies the Prefix rule (spec.md §4.3): if partition
// is the non-partitioned sentinel, the filename is the path with a leading
// "/" stripped; otherwise the filename is the path with the first
// len(partition)+1 characters removed.
func StripPartitionPrefix(partition, path string) string {
	if partition == types.NonPartitionedSentinel {
		return strings.TrimPrefix(path, "/")
	}
	n := len(partition) + 1
	if n > len(path) {
		return path
	}
	return path[n:]
}

// FromCommit builds the PartitionList record and one PartitionFiles record
// per partition from a commit or delta-commit action (spec.md §4.3).
func FromCommit(meta types.CommitMetadata) []types.MetadataRecord {
	partitions := make([]string, 0, len(meta.Partitions))
	records := make([]types.MetadataRecord, 0, len(meta.Partitions)+1)

	for partition, stats := range meta.Partitions {
		partitions = append(partitions, partition)

		added := make(map[string]int64, len(stats))
		for _, ws := range stats {
			filename := StripPartitionPrefix(partition, ws.FilePath)
			if cur, ok := added[filename]; !ok || ws.FileSizeBytes > cur {
				added[filename] = ws.FileSizeBytes
			}
		}
		records = append(records, types.MetadataRecord{
			Kind:       types.RecordPartitionFiles,
			Partition:  partition,
			FilesAdded: added,
		})
	}

	records = append([]types.MetadataRecord{{
		Kind:       types.RecordPartitionList,
		Partitions: partitions,
	}}, records...)
	return records
}

// FromClean builds one PartitionFiles(files_deleted=...) record per
// partition from a clean action (spec.md §4.3).
func FromClean(meta types.CleanMetadata) []types.MetadataRecord {
	records := make([]types.MetadataRecord, 0, len(meta.DeletedPaths))
	for partition, names := range meta.DeletedPaths {
		deleted := make([]string, len(names))
		for i, name := range names {
			deleted[i] = StripPartitionPrefix(partition, name)
		}
		records = append(records, types.MetadataRecord{
			Kind:         types.RecordPartitionFiles,
			Partition:    partition,
			FilesDeleted: deleted,
		})
	}
	return records
}

// FromRollback builds one merged PartitionFiles record per partition out of
// the normalized rollback/restore maps, enforcing I3: a filename appearing
// in both the added and deleted sets for the same partition is fatal.
func FromRollback(deletedFiles map[string][]string, appendedFiles map[string]map[string]int64) ([]types.MetadataRecord, error) {
	partitions := make(map[string]struct{}, len(deletedFiles)+len(appendedFiles))
	for p := range deletedFiles {
		partitions[p] = struct{}{}
	}
	for p := range appendedFiles {
		partitions[p] = struct{}{}
	}

	records := make([]types.MetadataRecord, 0, len(partitions))
	for partition := range partitions {
		added := appendedFiles[partition]
		deleted := deletedFiles[partition]

		for _, name := range deleted {
			if _, ok := added[name]; ok {
				return nil, fmt.Errorf("partition %q: filename %q both added and deleted: %w", partition, name, idxerr.ErrInvariantViolation)
			}
		}

		records = append(records, types.MetadataRecord{
			Kind:         types.RecordPartitionFiles,
			Partition:    partition,
			FilesAdded:   added,
			FilesDeleted: deleted,
		})
	}
	return records, nil
}

package index

import (
	"context"
	"strings"
	"sync"

	"github.com/tablemeta/metaindex/pkg/capability"
	"github.com/tablemeta/metaindex/pkg/engine"
	"github.com/tablemeta/metaindex/pkg/types"
)

// DefaultBloomFilterTypeCode is the type code stamped on live bloom-filter
// entries. The FileReader capability hands back opaque filter bytes without
// a self-describing header, so the code is fixed per table rather than read
// per file; tombstones carry the empty code.
const DefaultBloomFilterTypeCode = "DYNAMIC_V0"

// IsBaseFile applies the naming-convention distinction from the glossary:
// log/delta files carry a ".log." segment (or a trailing ".log"); anything
// else is a base file.
func IsBaseFile(filename string) bool {
	return !strings.Contains(filename, ".log.") && !strings.HasSuffix(filename, ".log")
}

// FailedRead records one base file whose bloom filter (BuildBloomAdded) or
// column ranges (BuildColumnStatsAdded) could not be read. Per spec.md
// §4.4 this is not fatal: the caller logs it and the file simply carries
// no record of that kind for this instant.
type FailedRead struct {
	Path string
	Err  error
}

// BuildBloomAdded reads the embedded bloom filter for every newly written
// base file and returns one BloomFilterEntry record per success (spec.md
// §4.4). Delta write stats and non-base filenames are skipped (I4).
// Parallelism is max(1, min(inputs, configured)) via the supplied engine.
func BuildBloomAdded(ctx context.Context, ec engine.Context, reader capability.FileReader, partition, instantTs string, stats []types.WriteStat) ([]types.MetadataRecord, []FailedRead) {
	type candidate struct {
		filename string
		path     string
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
		candidates = append(candidates, candidate{filename: filename, path: ws.FilePath})
	}

	var mu sync.Mutex
	var records []types.MetadataRecord
	var failures []FailedRead

	_, _ = engine.Map(ctx, ec, candidates, func(ctx context.Context, c candidate) (struct{}, error) {
		filterBytes, err := reader.ReadBloomFilter(ctx, c.path)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failures = append(failures, FailedRead{Path: c.path, Err: err})
			return struct{}{}, nil
		}
		if filterBytes == nil {
			return struct{}{}, nil
		}
		records = append(records, types.MetadataRecord{
			Kind:        types.RecordBloomFilterEntry,
			Partition:   partition,
			FileName:    c.filename,
			InstantTs:   instantTs,
			TypeCode:    DefaultBloomFilterTypeCode,
			FilterBytes: filterBytes,
			IsDeleted:   false,
		})
		return struct{}{}, nil
	})

	return records, failures
}

// BuildBloomDeleted emits a tombstone BloomFilterEntry for every deleted
// base file (spec.md §4.4). Non-base filenames are skipped (I4).
func BuildBloomDeleted(partition, instantTs string, deletedFilenames []string) []types.MetadataRecord {
	records := make([]types.MetadataRecord, 0, len(deletedFilenames))
	for _, filename := range deletedFilenames {
		if !IsBaseFile(filename) {
			continue
		}
		records = append(records, types.MetadataRecord{
			Kind:      types.RecordBloomFilterEntry,
			Partition: partition,
			FileName:  filename,
			InstantTs: instantTs,
			IsDeleted: true,
		})
	}
	return records
}

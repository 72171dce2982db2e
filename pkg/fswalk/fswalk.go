package fswalk

import (
	"context"
	"fmt"
	gopath "path"
	"sync"

	"github.com/tablemeta/metaindex/pkg/capability"
	"github.com/tablemeta/metaindex/pkg/engine"
	"github.com/tablemeta/metaindex/pkg/metrics"
)

// DefaultMaxListingParallelism bounds how many directories are listed
// concurrently within one BFS round (spec.md §4.7).
const DefaultMaxListingParallelism = 1500

// PartitionMarkerFile is the reserved filename that marks a directory as a
// partition leaf. ReservedMetaFolder is never descended into or reported
// as a partition candidate.
const (
	PartitionMarkerFile = ".index_partition_metadata"
	ReservedMetaFolder  = ".index_meta"
)

// Walker is the FS Fallback Lister. Table paths are forward-slash object
// keys rather than OS paths, so relative-path joining uses the "path"
// package, not "path/filepath".
type Walker struct {
	FS capability.FileSystem

	// MaxListingParallelism caps concurrent List calls per BFS round.
	// <= 0 means DefaultMaxListingParallelism.
	MaxListingParallelism int

	// DatePartitioned short-circuits discovery to exactly three directory
	// levels, skipping the per-child marker-file probe. A marker file found
	// while listing one of the first three levels still records that
	// directory as a partition.
	DatePartitioned bool
}

type workItem struct {
	path  string
	depth int
}

// ListPartitions runs the iterative BFS from spec.md §4.7 and returns every
// discovered partition's relative path.
func (w Walker) ListPartitions(ctx context.Context, basePath string) ([]string, error) {
	maxParallelism := w.MaxListingParallelism
	if maxParallelism <= 0 {
		maxParallelism = DefaultMaxListingParallelism
	}
	pool := engine.NewPool(maxParallelism)

	var mu sync.Mutex
	var partitions []string
	worklist := []workItem{{path: "", depth: 0}}

	for len(worklist) > 0 {
		metrics.FSListingRoundsTotal.Inc()
		round := worklist
		results, err := engine.Map(ctx, pool, round, func(ctx context.Context, item workItem) ([]workItem, error) {
			return w.processDir(ctx, basePath, item, &mu, &partitions)
		})
		if err != nil {
			return nil, err
		}
		worklist = engine.Union(results...)
	}
	return partitions, nil
}

func (w Walker) processDir(ctx context.Context, basePath string, item workItem, mu *sync.Mutex, partitions *[]string) ([]workItem, error) {
	if w.DatePartitioned && item.depth == 3 {
		w.recordPartition(mu, partitions, item.path)
		return nil, nil
	}

	entries, err := w.FS.List(ctx, joinRel(basePath, item.path))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", item.path, err)
	}

	for _, e := range entries {
		if !e.IsDir && e.Name == PartitionMarkerFile {
			w.recordPartition(mu, partitions, item.path)
			return nil, nil
		}
	}

	var next []workItem
	for _, e := range entries {
		if !e.IsDir || e.Name == ReservedMetaFolder {
			continue
		}
		childRel := joinRel(item.path, e.Name)

		if w.DatePartitioned {
			next = append(next, workItem{path: childRel, depth: item.depth + 1})
			continue
		}

		isPartition, err := w.hasMarker(ctx, basePath, childRel)
		if err != nil {
			return nil, err
		}
		if isPartition {
			w.recordPartition(mu, partitions, childRel)
			continue
		}
		next = append(next, workItem{path: childRel, depth: item.depth + 1})
	}
	return next, nil
}

func (w Walker) hasMarker(ctx context.Context, basePath, rel string) (bool, error) {
	entries, err := w.FS.List(ctx, joinRel(basePath, rel))
	if err != nil {
		return false, fmt.Errorf("probing %s for a partition marker: %w", rel, err)
	}
	for _, e := range entries {
		if !e.IsDir && e.Name == PartitionMarkerFile {
			return true, nil
		}
	}
	return false, nil
}

func (w Walker) recordPartition(mu *sync.Mutex, partitions *[]string, rel string) {
	mu.Lock()
	defer mu.Unlock()
	*partitions = append(*partitions, rel)
}

func joinRel(base, rel string) string {
	if rel == "" {
		return base
	}
	return gopath.Join(base, rel)
}

package fswalk

import (
	"context"
	"sort"
	"testing"

	"github.com/tablemeta/metaindex/pkg/capability"
)

// memFS is an in-memory capability.FileSystem keyed by directory path,
// mapping to the entries directly inside it.
type memFS struct {
	entries map[string][]capability.Entry
}

func (m memFS) List(_ context.Context, path string) ([]capability.Entry, error) {
	return m.entries[path], nil
}

func (m memFS) Delete(_ context.Context, _ string, _ bool) error {
	return nil
}

func TestListPartitionsWithMarkerFiles(t *testing.T) {
	fs := memFS{entries: map[string][]capability.Entry{
		"base": {
			{Path: "base/2026", Name: "2026", IsDir: true},
			{Path: "base/.index_meta", Name: ReservedMetaFolder, IsDir: true},
		},
		"base/2026": {
			{Path: "base/2026/01", Name: "01", IsDir: true},
		},
		"base/2026/01": {
			{Path: "base/2026/01/" + PartitionMarkerFile, Name: PartitionMarkerFile, IsDir: false},
			{Path: "base/2026/01/a.parquet", Name: "a.parquet", IsDir: false},
		},
	}}

	w := Walker{FS: fs}
	partitions, err := w.ListPartitions(context.Background(), "base")
	if err != nil {
		t.Fatalf("ListPartitions returned error: %v", err)
	}
	if len(partitions) != 1 || partitions[0] != "2026/01" {
		t.Fatalf("partitions = %v, want [2026/01]", partitions)
	}
}

func TestListPartitionsSkipsReservedMetaFolder(t *testing.T) {
	fs := memFS{entries: map[string][]capability.Entry{
		"base": {
			{Path: "base/.index_meta", Name: ReservedMetaFolder, IsDir: true},
		},
	}}
	w := Walker{FS: fs}
	partitions, err := w.ListPartitions(context.Background(), "base")
	if err != nil {
		t.Fatalf("ListPartitions returned error: %v", err)
	}
	if len(partitions) != 0 {
		t.Fatalf("partitions = %v, want none", partitions)
	}
}

func TestListPartitionsDatePartitionedShortCircuit(t *testing.T) {
	fs := memFS{entries: map[string][]capability.Entry{
		"base": {
			{Path: "base/2026", Name: "2026", IsDir: true},
		},
		"base/2026": {
			{Path: "base/2026/01", Name: "01", IsDir: true},
		},
		"base/2026/01": {
			{Path: "base/2026/01/15", Name: "15", IsDir: true},
		},
		// Note: no listing registered for base/2026/01/15 — if the walker
		// tried to list or marker-probe it, this test would see a nil
		// entries slice and silently succeed with zero partitions, so the
		// assertion below is what actually proves the short-circuit fired.
	}}
	w := Walker{FS: fs, DatePartitioned: true}
	partitions, err := w.ListPartitions(context.Background(), "base")
	if err != nil {
		t.Fatalf("ListPartitions returned error: %v", err)
	}
	if len(partitions) != 1 || partitions[0] != "2026/01/15" {
		t.Fatalf("partitions = %v, want [2026/01/15]", partitions)
	}
}

func TestListPartitionsMultipleSiblings(t *testing.T) {
	fs := memFS{entries: map[string][]capability.Entry{
		"base": {
			{Path: "base/p1", Name: "p1", IsDir: true},
			{Path: "base/p2", Name: "p2", IsDir: true},
		},
		"base/p1": {{Path: "base/p1/" + PartitionMarkerFile, Name: PartitionMarkerFile, IsDir: false}},
		"base/p2": {{Path: "base/p2/" + PartitionMarkerFile, Name: PartitionMarkerFile, IsDir: false}},
	}}
	w := Walker{FS: fs}
	partitions, err := w.ListPartitions(context.Background(), "base")
	if err != nil {
		t.Fatalf("ListPartitions returned error: %v", err)
	}
	sort.Strings(partitions)
	if len(partitions) != 2 || partitions[0] != "p1" || partitions[1] != "p2" {
		t.Fatalf("partitions = %v, want [p1 p2]", partitions)
	}
}

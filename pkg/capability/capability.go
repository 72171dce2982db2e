// Package capability defines the small set of interfaces the indexing
// core consumes but does not implement: reading a base file's embedded
// bloom filter and column ranges, asking the timeline whether an instant
// was synced, and listing or deleting paths on the table's filesystem.
//
// Production wiring plugs in real columnar readers, the persisted
// timeline, and a real distributed filesystem behind these interfaces;
// this module ships one reference FileReader (pkg/localreader) and one
// disk-backed Timeline (pkg/timelinestore) so the subsystem runs end to
// end without a query engine attached.
package capability

import "context"

// FileReader opens one base file and exposes only what the Bloom-Filter
// and Column-Stats Index Builders need from it (spec.md §6).
type FileReader interface {
	// ReadBloomFilter returns the embedded bloom filter bytes, or nil if
	// the file carries none. A non-nil error is a TransientIo condition:
	// callers log it and emit no record, per spec.md §4.4/§7.
	ReadBloomFilter(ctx context.Context, path string) ([]byte, error)

	// ReadColumnRanges returns per-column statistics for the requested
	// columns. A non-nil error is TransientIo for bloom-like recovery,
	// except UnsupportedColumnStatsFormat which is fatal per spec.md §7.
	ReadColumnRanges(ctx context.Context, path string, columns []string) (map[string]ColumnRange, error)
}

// ColumnRange mirrors types.ColumnRange to keep this package free of an
// import cycle back into the domain types package; callers convert at the
// boundary.
type ColumnRange struct {
	Min                   *string
	Max                   *string
	ValueCount            int64
	NullCount             int64
	TotalSize             int64
	TotalUncompressedSize int64
}

// Timeline answers whether an instant has already been synced into the
// index, and whether a timestamp predates the timeline's retained start
// (spec.md §4.2 Case B, §6).
type Timeline interface {
	Contains(instantTs string) bool
	IsBeforeStart(instantTs string) bool
}

// FileSystem lists and deletes paths on the table's base storage, used by
// the FS Fallback Lister (spec.md §4.7, §6).
type FileSystem interface {
	List(ctx context.Context, path string) ([]Entry, error)
	Delete(ctx context.Context, path string, recursive bool) error
}

// Entry is one directory listing result.
type Entry struct {
	Path  string
	Name  string
	IsDir bool
}

/*
Package localreader is the reference, disk-backed implementation of the
capability.FileReader and capability.FileSystem interfaces (spec.md §6).
It exists so the CLI and tests can run the indexing algorithm end to end
without a real columnar query engine attached — real Parquet/ORC readers
remain out of scope per spec.md §1.

Base files are paired with a sidecar file at "<file>.stats.json" that
carries the embedded bloom filter (gob-encoded via
github.com/bits-and-blooms/bloom/v3, stored as a JSON byte-string) and
per-column statistics. WriteSidecar produces this format for tests and
table-fixture tooling; DiskFileReader only ever reads it back.

DiskFileSystem is adapted from cuemby-warren's pkg/volume LocalDriver:
the same os.MkdirAll/os.ReadDir/os.RemoveAll idioms, repointed from
managing per-volume directories to listing and deleting paths under a
table's base directory for capability.FileSystem and the FS Fallback
Lister (pkg/fswalk).
*/
package localreader

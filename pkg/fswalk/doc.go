/*
Package fswalk implements the FS Fallback Lister (FL): spec.md §4.7. It
discovers partition paths by iterative BFS over a capability.FileSystem,
listing the current round's worklist directories in parallel with bounded
fan-out (default 1500), and recognizing partitions either by a marker file
or — in date-partitioned mode — by short-circuiting at exactly three
directory levels.

FL is the capability used when no faster partition-listing mechanism (a
synced FILES metadata partition) is available; it is never used on the
fast path.
*/
package fswalk

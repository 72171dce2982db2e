// Package idxerr defines the fatal error taxonomy from spec.md §7 as
// plain sentinel values, wrapped with fmt.Errorf("...: %w", ...) at each
// boundary crossing in the teacher's idiom — no custom error struct
// hierarchy, just errors.Is-comparable sentinels.
package idxerr

import "errors"

var (
	// ErrMalformedAction is returned by the Action Reader when a required
	// field is missing from an action blob. Fatal for the action.
	ErrMalformedAction = errors.New("malformed action")

	// ErrArchivedDependency is returned by the Rollback/Restore Normalizer
	// (RN Case B) when the instant being rolled back predates the
	// metadata timeline's retained start. Requires operator intervention.
	ErrArchivedDependency = errors.New("archived dependency: instant predates timeline start")

	// ErrInvariantViolation marks an I3 breach: a filename appears in both
	// the added and deleted sets for the same partition within one action.
	ErrInvariantViolation = errors.New("invariant violation: filename both added and deleted")

	// ErrUnsupportedColumnStatsFormat is raised by the Column-Stats Index
	// Builder when a base file is not in a columnar format it can read
	// per-column ranges from.
	ErrUnsupportedColumnStatsFormat = errors.New("unsupported format for column stats")

	// ErrUnsupported marks an operation the FS-backed fallback listing
	// cannot perform (bloom/column-stat queries have no meaning without
	// an index).
	ErrUnsupported = errors.New("unsupported by fs-backed fallback")
)

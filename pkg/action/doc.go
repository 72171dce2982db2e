/*
Package action implements the Action Reader (AR): spec.md §4.1. It parses
one action blob (commit, delta-commit, clean, rollback, or restore) into
the in-memory types.CommitMetadata / types.CleanMetadata /
types.RollbackMetadata / types.RestoreMetadata shapes.

AR is purely local — no I/O, no side effects — and structurally faithful:
fields it doesn't recognize are ignored, not rejected, but a required
field missing from the action kind being parsed returns
idxerr.ErrMalformedAction.

# Usage

	kind, meta, err := action.Parse(raw)
	if err != nil {
		return fmt.Errorf("reading action: %w", err)
	}
	switch kind {
	case types.ActionCommit, types.ActionDeltaCommit:
		commit := meta.(types.CommitMetadata)
		...
	}
*/
package action

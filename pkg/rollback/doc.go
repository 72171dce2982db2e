/*
Package rollback implements the Rollback/Restore Normalizer (RN): spec.md
§4.2. It consumes a types.RollbackMetadata or types.RestoreMetadata and
produces two uniform per-partition maps — deleted filenames and appended
filenames with max-size semantics — after applying the skip rules that
decide whether an inner rollback entry affects the index at all:

  - Case A (ahead-of-sync): the rolled-back instant was never synced to
    the metadata table and made no log appends — skip.
  - Case B (never-committed): the rolled-back instant predates the
    metadata timeline's retained start — fail with ErrArchivedDependency.
    An instant inside the retained timeline that was never synced and
    made no log appends is skipped.

Restore normalization folds every inner rollback of a RestoreMetadata
through the same rules into one shared pair of maps.
*/
package rollback

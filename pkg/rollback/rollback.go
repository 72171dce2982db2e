package rollback

import (
	"fmt"
	gopath "path"

	"github.com/tablemeta/metaindex/pkg/capability"
	"github.com/tablemeta/metaindex/pkg/idxerr"
	"github.com/tablemeta/metaindex/pkg/types"
)

// Result holds the two uniform maps RN produces: deleted filenames and
// appended filenames with their (max-merged) sizes, keyed by partition.
type Result struct {
	DeletedFiles  map[string][]string
	AppendedFiles map[string]map[string]int64
}

func newResult() Result {
	return Result{
		DeletedFiles:  make(map[string][]string),
		AppendedFiles: make(map[string]map[string]int64),
	}
}

// NormalizeRollback applies the skip rules to a single rollback action.
// lastSyncTs may be empty, meaning no prior sync has occurred.
func NormalizeRollback(tl capability.Timeline, meta types.RollbackMetadata, lastSyncTs string) (Result, error) {
	result := newResult()
	if err := applyEntry(tl, meta.Entry, lastSyncTs, &result); err != nil {
		return Result{}, err
	}
	return result, nil
}

// NormalizeRestore folds every inner rollback of a restore action through
// the same skip rules into one shared pair of maps. When the restore action
// itself was not previously synced to the metadata table (actionWasSynced
// is false), the deleted-files map is cleared but appended-files is kept,
// per spec.md §4.2's downstream-composition rule.
func NormalizeRestore(tl capability.Timeline, meta types.RestoreMetadata, lastSyncTs string, actionWasSynced bool) (Result, error) {
	result := newResult()
	for _, entry := range meta.Entries {
		if err := applyEntry(tl, entry, lastSyncTs, &result); err != nil {
			return Result{}, err
		}
	}
	if !actionWasSynced {
		result.DeletedFiles = make(map[string][]string)
	}
	return result, nil
}

func applyEntry(tl capability.Timeline, entry types.RollbackEntry, lastSyncTs string, result *Result) error {
	if len(entry.CommitsRolledBack) == 0 {
		return fmt.Errorf("rollback entry has no rolled-back commits: %w", idxerr.ErrMalformedAction)
	}
	instantToRollback := entry.CommitsRolledBack[0]
	hasLogAppends := entryHasLogAppends(entry)

	// Case A: ahead-of-sync.
	if lastSyncTs != "" && instantToRollback > lastSyncTs && !hasLogAppends {
		return nil
	}

	// Case B: never-committed.
	if tl.IsBeforeStart(instantToRollback) {
		return fmt.Errorf("rolling back instant %s: %w", instantToRollback, idxerr.ErrArchivedDependency)
	}
	if !tl.Contains(instantToRollback) && !hasLogAppends {
		return nil
	}

	for partition, pe := range entry.Partitions {
		deleted := result.DeletedFiles[partition]
		seen := make(map[string]struct{}, len(deleted))
		for _, f := range deleted {
			seen[f] = struct{}{}
		}
		// spec.md §4.2: collect success_deletes ∪ failed_deletes by
		// filename only. Rollback paths may be absolute or partition-
		// relative, so the filename is the path's base, not a prefix
		// strip.
		for _, f := range append(append([]string{}, pe.SuccessDeletes...), pe.FailedDeletes...) {
			name := gopath.Base(f)
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			deleted = append(deleted, name)
		}
		result.DeletedFiles[partition] = deleted

		appended := result.AppendedFiles[partition]
		if appended == nil {
			appended = make(map[string]int64)
			result.AppendedFiles[partition] = appended
		}
		for file, size := range pe.RollbackLogFiles {
			name := gopath.Base(file)
			if size > appended[name] {
				appended[name] = size
			}
		}
	}
	return nil
}

func entryHasLogAppends(entry types.RollbackEntry) bool {
	for _, pe := range entry.Partitions {
		for _, size := range pe.RollbackLogFiles {
			if size > 0 {
				return true
			}
		}
	}
	return false
}

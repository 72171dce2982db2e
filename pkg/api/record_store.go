package api

import (
	"sync"

	"github.com/tablemeta/metaindex/pkg/index"
	"github.com/tablemeta/metaindex/pkg/types"
)

// RecordStore holds the most recently built index.Routed result so the
// /records endpoint can serve a snapshot without re-running the
// Coordinator. It is never read by the indexing algorithm itself — the
// `serve` CLI command calls Set with the routed snapshot it loads from
// disk at startup and on every reload tick.
type RecordStore struct {
	mu     sync.RWMutex
	routed index.Routed
}

// NewRecordStore creates an empty RecordStore.
func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// Set replaces the stored snapshot with routed.
func (s *RecordStore) Set(routed index.Routed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routed = routed
}

// Get returns every record across all file groups for the named
// partition type, or nil if nothing has been indexed yet or the name
// does not match a known MetadataPartitionType.
func (s *RecordStore) Get(partitionType string) []types.MetadataRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups, ok := s.routed[types.MetadataPartitionType(partitionType)]
	if !ok {
		return nil
	}

	var out []types.MetadataRecord
	for _, group := range groups {
		out = append(out, group...)
	}
	return out
}

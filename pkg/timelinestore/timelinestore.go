package timelinestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	bolt "go.etcd.io/bbolt"

	"github.com/tablemeta/metaindex/pkg/types"
)

var (
	bucketInstants     = []byte("instants")
	bucketSynced       = []byte("synced")
	bucketTimelineMeta = []byte("timeline_meta")
)

const startKey = "start"

// instantRecord is what gets persisted per instant in bucketInstants.
// Synced marks live separately in bucketSynced so a bare key scan answers
// Contains without decoding records.
type instantRecord struct {
	State types.InstantState `json:"state"`
}

// Store is a bbolt-backed capability.Timeline implementation plus the
// mutation API the Coordinator uses to advance it.
type Store struct {
	db   *bolt.DB
	lock *flock.Flock
}

// Open opens (creating if absent) the timeline database under dataDir,
// guarded by a process-wide file lock so two metaindex processes never
// mutate the same table's timeline concurrently.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating timeline directory: %w", err)
	}
	lockPath := filepath.Join(dataDir, "timeline.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring timeline lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("timeline at %s is locked by another process", dataDir)
	}

	dbPath := filepath.Join(dataDir, "timeline.db")
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("opening timeline database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketInstants, bucketSynced, bucketTimelineMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("creating bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return &Store{db: db, lock: lock}, nil
}

// Close releases the database handle and the process-wide lock.
func (s *Store) Close() error {
	closeErr := s.db.Close()
	unlockErr := s.lock.Unlock()
	if closeErr != nil {
		return closeErr
	}
	return unlockErr
}

// Contains implements capability.Timeline: reports whether instantTs has
// been synced into the index.
func (s *Store) Contains(instantTs string) bool {
	var synced bool
	_ = s.db.View(func(tx *bolt.Tx) error {
		synced = tx.Bucket(bucketSynced).Get([]byte(instantTs)) != nil
		return nil
	})
	return synced
}

// IsBeforeStart implements capability.Timeline: reports whether instantTs
// predates the timeline's retained start boundary.
func (s *Store) IsBeforeStart(instantTs string) bool {
	start := s.Start()
	if start == "" {
		return false
	}
	return instantTs < start
}

// Start returns the timeline's retained start boundary, or "" if unset.
func (s *Store) Start() string {
	var start string
	_ = s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketTimelineMeta).Get([]byte(startKey))
		if data != nil {
			start = string(data)
		}
		return nil
	})
	return start
}

// SetStart records the timeline's retained start boundary.
func (s *Store) SetStart(instantTs string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTimelineMeta).Put([]byte(startKey), []byte(instantTs))
	})
}

// RecordStart records (or updates) an instant's lifecycle state. Used by
// the Coordinator when it begins and completes applying an instant.
func (s *Store) RecordStart(instantTs string, state types.InstantState) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(instantRecord{State: state})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketInstants).Put([]byte(instantTs), data)
	})
}

// Ping verifies the underlying database is open and its buckets exist,
// for use by pkg/health checks.
func (s *Store) Ping() error {
	return s.db.View(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketInstants, bucketSynced, bucketTimelineMeta} {
			if tx.Bucket(bucket) == nil {
				return fmt.Errorf("bucket %s missing", bucket)
			}
		}
		return nil
	})
}

// MarkSynced marks instantTs as synced into the index. Used by the
// Coordinator once a routed record set has been durably applied.
func (s *Store) MarkSynced(instantTs string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(instantRecord{State: types.InstantCompleted})
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketInstants).Put([]byte(instantTs), data); err != nil {
			return err
		}
		return tx.Bucket(bucketSynced).Put([]byte(instantTs), []byte{1})
	})
}

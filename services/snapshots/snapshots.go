package snapshots

import (
	"sync"
	"time"

	"github.com/samber/mo"

	"mcmonitor/models"
	"mcmonitor/services"
)

// SnapshotStore holds the last observed query result for the lifetime of the process
type SnapshotStore struct {
	mutex  sync.RWMutex
	latest mo.Option[models.Snapshot]
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{latest: mo.None[models.Snapshot]()}
}

var _ services.SnapshotStore = (*SnapshotStore)(nil)

// Record stores result and returns the snapshot it replaced. Results older than the
// stored one are ignored so that slow queries do not overwrite fresher data.
func (s *SnapshotStore) Record(result models.QueryResult, takenAt time.Time) mo.Option[models.Snapshot] {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	previous := s.latest
	if current, ok := previous.Get(); ok && takenAt.Before(current.TakenAt) {
		return previous
	}

	s.latest = mo.Some(models.Snapshot{Result: result, TakenAt: takenAt})
	return previous
}

func (s *SnapshotStore) Latest() mo.Option[models.Snapshot] {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.latest
}

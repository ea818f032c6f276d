package store

import (
	"context"
	"sync"
)

// MemorySnapshotStore menyimpan snapshot di memori proses.
type MemorySnapshotStore struct {
	mu      sync.RWMutex
	records map[string]Snapshot
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{records: map[string]Snapshot{}}
}

func (s *MemorySnapshotStore) Load(_ context.Context, key string) (Snapshot, bool, error) {
	s.mu.RLock()
	snap, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return Snapshot{}, false, nil
	}
	return cloneSnapshot(snap), true, nil
}

func (s *MemorySnapshotStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	s.records[snap.Key] = cloneSnapshot(snap)
	s.mu.Unlock()
	return nil
}

func (s *MemorySnapshotStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

func cloneSnapshot(snap Snapshot) Snapshot {
	out := snap
	out.Payload = append([]byte(nil), snap.Payload...)
	return out
}

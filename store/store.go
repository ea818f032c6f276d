// Package store menyimpan salinan lokal data sheet (cache-then-revalidate).
package store

import (
	"context"
	"time"
)

// Snapshot adalah salinan terakhir satu koleksi yang berhasil diambil.
type Snapshot struct {
	Key       string
	Payload   []byte
	UpdatedAt time.Time
}

// SnapshotStore adalah backend penyimpanan snapshot.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (Snapshot, bool, error)
	Save(ctx context.Context, snap Snapshot) error
	Delete(ctx context.Context, key string) error
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/yeremiapane/ekantin/utils"
)

// Loader mengambil koleksi lengkap dari sumber kanonik (sheet).
type Loader[T any] func(ctx context.Context) ([]T, error)

// Repository membungkus satu koleksi: baca dari snapshot lokal, lalu
// perbarui dari sheet. Snapshot hanya diganti utuh setelah load berhasil.
type Repository[T any] struct {
	key     string
	store   SnapshotStore
	timeout time.Duration
	now     func() time.Time

	mu         sync.Mutex
	load       Loader[T]
	refreshing bool
	wg         sync.WaitGroup
}

func NewRepository[T any](key string, s SnapshotStore, load Loader[T]) *Repository[T] {
	return &Repository[T]{
		key:     key,
		store:   s,
		load:    load,
		timeout: 30 * time.Second,
		now:     time.Now,
	}
}

func (r *Repository[T]) Key() string {
	return r.key
}

// SetLoader mengganti loader, misalnya ketika URL spreadsheet kantin berubah.
func (r *Repository[T]) SetLoader(load Loader[T]) {
	r.mu.Lock()
	r.load = load
	r.mu.Unlock()
}

// Cached mengembalikan snapshot lokal tanpa menghubungi sheet.
func (r *Repository[T]) Cached(ctx context.Context) ([]T, bool) {
	snap, ok, err := r.store.Load(ctx, r.key)
	if err != nil {
		utils.ErrorLogger.Errorf("gagal membaca snapshot %s: %v", r.key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var items []T
	if err := json.Unmarshal(snap.Payload, &items); err != nil {
		utils.ErrorLogger.Errorf("snapshot %s rusak: %v", r.key, err)
		return nil, false
	}
	return items, true
}

// Refresh memuat ulang dari sheet. Bila gagal, snapshot lama tetap dipakai
// dan error dikembalikan.
func (r *Repository[T]) Refresh(ctx context.Context) ([]T, error) {
	r.mu.Lock()
	load := r.load
	r.mu.Unlock()

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %s: %w", r.key, err)
	}
	if err := r.store.Save(ctx, Snapshot{Key: r.key, Payload: payload, UpdatedAt: r.now()}); err != nil {
		// data tetap valid walau cache gagal ditulis
		utils.ErrorLogger.Errorf("gagal menyimpan snapshot %s: %v", r.key, err)
	}
	return items, nil
}

// Get mengembalikan snapshot lokal bila ada dan memperbarui di background.
// Tanpa snapshot, Get memuat langsung dari sheet.
func (r *Repository[T]) Get(ctx context.Context) ([]T, error) {
	if items, ok := r.Cached(ctx); ok {
		r.revalidate(ctx)
		return items, nil
	}
	return r.Refresh(ctx)
}

// Invalidate menghapus snapshot lokal.
func (r *Repository[T]) Invalidate(ctx context.Context) error {
	return r.store.Delete(ctx, r.key)
}

// Wait menunggu revalidasi background selesai.
func (r *Repository[T]) Wait() {
	r.wg.Wait()
}

func (r *Repository[T]) revalidate(parent context.Context) {
	r.mu.Lock()
	if r.refreshing {
		r.mu.Unlock()
		return
	}
	r.refreshing = true
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer func() {
			r.mu.Lock()
			r.refreshing = false
			r.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), r.timeout)
		defer cancel()
		if _, err := r.Refresh(ctx); err != nil {
			utils.ErrorLogger.Errorf("revalidasi %s gagal, memakai data lama: %v", r.key, err)
		}
	}()
}

// Set mengelola satu Repository per id, misalnya menu per kantin.
type Set[T any] struct {
	prefix string
	store  SnapshotStore

	mu    sync.Mutex
	repos map[string]*Repository[T]
}

func NewSet[T any](prefix string, s SnapshotStore) *Set[T] {
	return &Set[T]{prefix: prefix, store: s, repos: map[string]*Repository[T]{}}
}

// For mengembalikan repository untuk id dengan loader terbaru.
func (s *Set[T]) For(id string, load Loader[T]) *Repository[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, ok := s.repos[id]
	if !ok {
		repo = NewRepository(s.prefix+":"+id, s.store, load)
		s.repos[id] = repo
		return repo
	}
	repo.SetLoader(load)
	return repo
}

// Wait menunggu semua revalidasi background pada set ini.
func (s *Set[T]) Wait() {
	s.mu.Lock()
	repos := make([]*Repository[T], 0, len(s.repos))
	for _, r := range s.repos {
		repos = append(repos, r)
	}
	s.mu.Unlock()
	for _, r := range repos {
		r.Wait()
	}
}

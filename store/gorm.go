package store

import (
	"context"
	"errors"

	"github.com/yeremiapane/ekantin/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSnapshotStore menyimpan snapshot pada tabel snapshots (sqlite/mysql).
type GormSnapshotStore struct {
	DB *gorm.DB
}

func NewGormSnapshotStore(db *gorm.DB) *GormSnapshotStore {
	return &GormSnapshotStore{DB: db}
}

func (s *GormSnapshotStore) Load(ctx context.Context, key string) (Snapshot, bool, error) {
	var row models.Snapshot
	err := s.DB.WithContext(ctx).Where(&models.Snapshot{Key: key}).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	return Snapshot{Key: row.Key, Payload: []byte(row.Payload), UpdatedAt: row.UpdatedAt}, true, nil
}

func (s *GormSnapshotStore) Save(ctx context.Context, snap Snapshot) error {
	row := models.Snapshot{
		Key:       snap.Key,
		Payload:   string(snap.Payload),
		UpdatedAt: snap.UpdatedAt,
	}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
}

func (s *GormSnapshotStore) Delete(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Where(&models.Snapshot{Key: key}).Delete(&models.Snapshot{}).Error
}

package database

import (
	"fmt"

	"github.com/yeremiapane/ekantin/models"
	"github.com/yeremiapane/ekantin/store"
	"github.com/yeremiapane/ekantin/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open membuka koneksi database untuk cache snapshot.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if driver != "mysql" {
		// sqlite hanya mengizinkan satu penulis
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Snapshot{}); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// NewSnapshotStore memilih backend cache berdasarkan driver. Driver
// "memory" tidak membutuhkan database.
func NewSnapshotStore(driver, dsn string) (store.SnapshotStore, error) {
	if driver == "memory" {
		return store.NewMemorySnapshotStore(), nil
	}

	db, err := Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return store.NewGormSnapshotStore(db), nil
}

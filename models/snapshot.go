package models

import "time"

// Snapshot menyimpan salinan terakhir data sheet yang berhasil diambil.
type Snapshot struct {
	Key       string    `gorm:"primaryKey;type:varchar(191)"`
	Payload   string    `gorm:"type:longtext;not null"`
	UpdatedAt time.Time `gorm:"not null;index"`
}

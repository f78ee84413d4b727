package models

import (
	"time"
)

type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	TableName  string    `gorm:"type:varchar(50);not null;index:idx_table_action"`
	RecordID   int64     `gorm:"not null"`
	ActionType string    `gorm:"type:varchar(10);not null;index:idx_table_action"` // INSERT, UPDATE, DELETE
	// Scope broadcast; wajib diisi trigger karena row aslinya bisa sudah
	// terhapus saat change diproses
	RestaurantID uint      `gorm:"not null;default:0"`
	ChangedAt    time.Time `gorm:"not null"`
	Processed    bool      `gorm:"default:false;index:idx_processed"`
}

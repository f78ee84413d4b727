package models

import "time"

type Table struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	PosX         float64    `gorm:"not null;default:0" json:"pos_x"`
	PosY         float64    `gorm:"not null;default:0" json:"pos_y"`
	Capacity     int        `gorm:"not null" json:"capacity"`
	// Tanpa default tag: insert dengan false harus tersimpan sebagai false
	IsAvailable  bool       `gorm:"not null" json:"is_available"`
	CreatedBy    uint       `gorm:"not null" json:"created_by"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

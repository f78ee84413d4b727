package models

import "time"

type Booking struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Code         string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"code"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableID      uint       `gorm:"not null;index" json:"table_id"`
	Table        Table      `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	PartySize    int        `gorm:"not null" json:"party_size"`
	BookedAt     time.Time  `gorm:"not null" json:"booked_at"`
	ExpiresAt    time.Time  `gorm:"not null;index" json:"expires_at"`
	Approved     bool       `gorm:"not null;default:false" json:"approved"`
	Fulfilled    bool       `gorm:"not null;default:false" json:"fulfilled"`
	Expired      bool       `gorm:"not null;default:false;index" json:"expired"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

// IsActive -> booking masih memegang meja (belum expired dan belum fulfilled)
func (b *Booking) IsActive(now time.Time) bool {
	return !b.Expired && !b.Fulfilled && now.Before(b.ExpiresAt)
}

package services

import (
	"log"
	"time"

	"github.com/takeaseat/take-a-seat-backend/live"
	"github.com/takeaseat/take-a-seat-backend/models"
	"gorm.io/gorm"
)

// ChangeMonitor mem-poll tabel db_changes (diisi trigger MySQL) dan
// menyiarkan perubahan ke live hub, supaya write dari jalur mana pun
// (termasuk sweeper) tetap sampai ke floor plan yang sedang terbuka.
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	// Gunakan transaction untuk mencegah race condition antar instance
	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		log.Printf("Error fetching changes: %v", err)
		return
	}

	for _, change := range changes {
		switch change.TableName {
		case "tables":
			cm.processTableChange(change)
		case "bookings":
			cm.processBookingChange(change)
		case "reviews":
			cm.processReviewChange(change)
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			log.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing transaction: %v", err)
		tx.Rollback()
		return
	}

	if len(changes) > 0 {
		log.Printf("Processed %d floor-plan changes", len(changes))
	}
}

func (cm *ChangeMonitor) processTableChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		// Row meja sudah hilang; scope restoran diambil dari change record
		live.BroadcastTableDelete(change.RestaurantID, uint(change.RecordID))
		return
	}

	var table models.Table
	if err := cm.DB.First(&table, change.RecordID).Error; err != nil {
		log.Printf("Error fetching table %d: %v", change.RecordID, err)
		return
	}

	switch change.ActionType {
	case "INSERT":
		live.BroadcastTableCreate(table)
	case "UPDATE":
		live.BroadcastTableUpdate(table)
	}
}

func (cm *ChangeMonitor) processBookingChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		return
	}

	var booking models.Booking
	if err := cm.DB.First(&booking, change.RecordID).Error; err != nil {
		log.Printf("Error fetching booking %d: %v", change.RecordID, err)
		return
	}

	switch change.ActionType {
	case "INSERT":
		live.BroadcastBookingCreate(booking)
	case "UPDATE":
		live.BroadcastBookingUpdate(booking)
	}
}

func (cm *ChangeMonitor) processReviewChange(change models.DBChange) {
	if change.ActionType != "INSERT" {
		return
	}

	var review models.Review
	if err := cm.DB.First(&review, change.RecordID).Error; err != nil {
		log.Printf("Error fetching review %d: %v", change.RecordID, err)
		return
	}

	live.BroadcastReviewCreate(review)
}

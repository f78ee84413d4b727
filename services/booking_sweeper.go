package services

import (
	"log"
	"time"

	"github.com/takeaseat/take-a-seat-backend/live"
	"github.com/takeaseat/take-a-seat-backend/models"
	"gorm.io/gorm"
)

// BookingSweeper menandai booking yang melewati hold window sebagai expired
// dan membuka kembali meja yang dipegangnya. Staleness dihitung dari
// expires_at milik booking itu sendiri, bukan threshold terpisah.
type BookingSweeper struct {
	DB       *gorm.DB
	Interval time.Duration
	StopChan chan struct{}
}

func NewBookingSweeper(db *gorm.DB) *BookingSweeper {
	return &BookingSweeper{
		DB:       db,
		Interval: SweepInterval,
		StopChan: make(chan struct{}),
	}
}

func (bs *BookingSweeper) Start() {
	go func() {
		ticker := time.NewTicker(bs.Interval)
		defer ticker.Stop()

		log.Printf("Booking sweeper started (interval %s)", bs.Interval)

		for {
			select {
			case <-ticker.C:
				if _, err := bs.SweepOnce(time.Now()); err != nil {
					log.Printf("Error sweeping expired bookings: %v", err)
				}
			case <-bs.StopChan:
				log.Println("Booking sweeper stopped")
				return
			}
		}
	}()
}

func (bs *BookingSweeper) Stop() {
	close(bs.StopChan)
}

// SweepOnce menjalankan satu putaran sweep dan mengembalikan jumlah booking
// yang di-expire. Mark-expired dan buka-meja terjadi dalam satu transaksi.
func (bs *BookingSweeper) SweepOnce(now time.Time) (int, error) {
	var stale []models.Booking

	if err := bs.DB.
		Where("expired = ? AND fulfilled = ? AND expires_at < ?", false, false, now).
		Find(&stale).Error; err != nil {
		return 0, err
	}

	if len(stale) == 0 {
		return 0, nil
	}

	bookingIDs := make([]uint, 0, len(stale))
	tableIDs := make([]uint, 0, len(stale))
	for _, b := range stale {
		bookingIDs = append(bookingIDs, b.ID)
		tableIDs = append(tableIDs, b.TableID)
	}

	err := bs.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Booking{}).
			Where("id IN ?", bookingIDs).
			Update("expired", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.Table{}).
			Where("id IN ?", tableIDs).
			Update("is_available", true).Error
	})
	if err != nil {
		return 0, err
	}

	log.Printf("Swept %d stale bookings, reopened %d tables", len(stale), len(tableIDs))

	for _, b := range stale {
		b.Expired = true
		live.BroadcastBookingUpdate(b)
	}

	var tables []models.Table
	if err := bs.DB.Where("id IN ?", tableIDs).Find(&tables).Error; err == nil {
		for _, t := range tables {
			live.BroadcastTableUpdate(t)
		}
	}

	return len(stale), nil
}

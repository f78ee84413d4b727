package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/takeaseat/take-a-seat-backend/live"
	"github.com/takeaseat/take-a-seat-backend/models"
	"gorm.io/gorm"
)

var (
	ErrTableUnavailable   = errors.New("table is no longer available")
	ErrBookingInactive    = errors.New("booking is no longer active")
	ErrNotBookingOwner    = errors.New("booking does not belong to this user")
	ErrNotRestaurantOwner = errors.New("restaurant does not belong to this user")
)

// BookingService menangani siklus hidup booking
type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// CreateBooking membuat booking untuk satu meja dalam satu transaksi.
// Meja hanya ditutup jika masih terbuka saat UPDATE berjalan; jika tidak ada
// baris yang berubah berarti tamu lain menang balapan dan booking ditolak.
func (s *BookingService) CreateBooking(userID, tableID uint, partySize int) (*models.Booking, error) {
	var table models.Table
	if err := s.db.First(&table, tableID).Error; err != nil {
		return nil, err
	}

	if err := EvaluateParty(table.Capacity, partySize); err != nil {
		return nil, err
	}

	if !table.IsAvailable {
		return nil, ErrTableUnavailable
	}

	now := time.Now()
	booking := &models.Booking{
		Code:         uuid.NewString(),
		UserID:       userID,
		RestaurantID: table.RestaurantID,
		TableID:      table.ID,
		PartySize:    partySize,
		BookedAt:     now,
		ExpiresAt:    now.Add(HoldWindow),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Conditional write: hanya berhasil jika meja masih terbuka
		res := tx.Model(&models.Table{}).
			Where("id = ? AND is_available = ?", table.ID, true).
			Update("is_available", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTableUnavailable
		}

		if err := tx.Create(booking).Error; err != nil {
			return err
		}

		notif := models.Notification{
			Title:     "New booking request",
			Message:   fmt.Sprintf("Booking %s: party of %d on table %d", booking.Code, partySize, table.ID),
			BookingID: &booking.ID,
		}
		var restaurant models.Restaurant
		if err := tx.First(&restaurant, table.RestaurantID).Error; err != nil {
			return err
		}
		notif.UserID = &restaurant.OwnerID
		return tx.Create(&notif).Error
	})
	if err != nil {
		return nil, err
	}

	table.IsAvailable = false
	live.BroadcastTableUpdate(table)
	live.BroadcastBookingCreate(*booking)

	return booking, nil
}

// ApproveBooking -> owner menerima booking request
func (s *BookingService) ApproveBooking(bookingID, ownerID uint) (*models.Booking, error) {
	booking, err := s.bookingForOwner(bookingID, ownerID)
	if err != nil {
		return nil, err
	}
	if booking.Expired || booking.Fulfilled {
		return nil, ErrBookingInactive
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(booking).Update("approved", true).Error; err != nil {
			return err
		}
		return s.notifyGuest(tx, booking, "Booking approved",
			fmt.Sprintf("Your booking %s has been approved", booking.Code))
	})
	if err != nil {
		return nil, err
	}

	booking.Approved = true
	live.BroadcastBookingUpdate(*booking)
	return booking, nil
}

// RejectBooking -> owner menolak booking; meja dibuka kembali
func (s *BookingService) RejectBooking(bookingID, ownerID uint) (*models.Booking, error) {
	booking, err := s.bookingForOwner(bookingID, ownerID)
	if err != nil {
		return nil, err
	}
	// Tamu yang sudah datang tidak bisa ditolak lagi
	if booking.Expired || booking.Fulfilled {
		return nil, ErrBookingInactive
	}

	if err := s.releaseBooking(booking, "Booking rejected",
		fmt.Sprintf("Your booking %s was rejected by the restaurant", booking.Code)); err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking -> tamu membatalkan bookingnya sendiri; meja dibuka kembali
func (s *BookingService) CancelBooking(bookingID, userID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	// Cancel setelah fulfilled akan membuka meja yang sedang diduduki
	if booking.Expired || booking.Fulfilled {
		return nil, ErrBookingInactive
	}

	if err := s.releaseBooking(&booking, "Booking cancelled",
		fmt.Sprintf("Booking %s was cancelled by the guest", booking.Code)); err != nil {
		return nil, err
	}
	return &booking, nil
}

// FulfillBooking -> owner menandai tamu sudah datang
func (s *BookingService) FulfillBooking(bookingID, ownerID uint) (*models.Booking, error) {
	booking, err := s.bookingForOwner(bookingID, ownerID)
	if err != nil {
		return nil, err
	}
	if booking.Expired {
		return nil, ErrBookingInactive
	}

	if err := s.db.Model(booking).Update("fulfilled", true).Error; err != nil {
		return nil, err
	}

	booking.Fulfilled = true
	live.BroadcastBookingUpdate(*booking)
	return booking, nil
}

// releaseBooking menandai booking expired dan membuka mejanya dalam satu transaksi
func (s *BookingService) releaseBooking(booking *models.Booking, title, message string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(booking).Update("expired", true).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Table{}).
			Where("id = ?", booking.TableID).
			Update("is_available", true).Error; err != nil {
			return err
		}
		return s.notifyGuest(tx, booking, title, message)
	})
	if err != nil {
		return err
	}

	booking.Expired = true

	var table models.Table
	if err := s.db.First(&table, booking.TableID).Error; err == nil {
		live.BroadcastTableUpdate(table)
	}
	live.BroadcastBookingUpdate(*booking)
	return nil
}

// bookingForOwner mengambil booking dan memastikan restorannya milik ownerID
func (s *BookingService) bookingForOwner(bookingID, ownerID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		return nil, err
	}

	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, booking.RestaurantID).Error; err != nil {
		return nil, err
	}
	if restaurant.OwnerID != ownerID {
		return nil, ErrNotRestaurantOwner
	}

	return &booking, nil
}

func (s *BookingService) notifyGuest(tx *gorm.DB, booking *models.Booking, title, message string) error {
	notif := models.Notification{
		UserID:    &booking.UserID,
		Title:     title,
		Message:   message,
		BookingID: &booking.ID,
	}
	if err := tx.Create(&notif).Error; err != nil {
		return err
	}
	live.BroadcastUserNotification(booking.UserID, notif)
	return nil
}

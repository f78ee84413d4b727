package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/takeaseat/take-a-seat-backend/models"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Table{},
		&models.Booking{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedRestaurantWithTable(t *testing.T, db *gorm.DB, capacity int) (models.User, models.User, models.Table) {
	owner := models.User{Name: "Owner", Email: "owner@example.com", Password: "x", Role: "owner"}
	guest := models.User{Name: "Guest", Email: "guest@example.com", Password: "x", Role: "guest"}
	db.Create(&owner)
	db.Create(&guest)

	restaurant := models.Restaurant{OwnerID: owner.ID, Name: "Warung Tester", Address: "Jl. Test 1", Latitude: -6.2, Longitude: 106.8}
	db.Create(&restaurant)

	table := models.Table{RestaurantID: restaurant.ID, Capacity: capacity, IsAvailable: true, CreatedBy: owner.ID}
	db.Create(&table)

	return owner, guest, table
}

func TestCreateBookingClosesTable(t *testing.T) {
	db := setupServiceTestDB(t)
	_, guest, table := seedRestaurantWithTable(t, db, 4)

	svc := NewBookingService(db)
	booking, err := svc.CreateBooking(guest.ID, table.ID, 3)
	assert.NoError(t, err)
	assert.NotEmpty(t, booking.Code)
	assert.Equal(t, table.ID, booking.TableID)
	assert.Equal(t, guest.ID, booking.UserID)
	assert.Equal(t, HoldWindow, booking.ExpiresAt.Sub(booking.BookedAt))

	// Meja tertutup setelah booking dibuat
	var fresh models.Table
	db.First(&fresh, table.ID)
	assert.False(t, fresh.IsAvailable)

	// Tepat satu booking yang mereferensikan meja itu
	var count int64
	db.Model(&models.Booking{}).Where("table_id = ?", table.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// Owner menerima notifikasi booking request
	var notifCount int64
	db.Model(&models.Notification{}).Count(&notifCount)
	assert.Equal(t, int64(1), notifCount)
}

func TestCreateBookingSecondGuestRejected(t *testing.T) {
	db := setupServiceTestDB(t)
	_, guest, table := seedRestaurantWithTable(t, db, 4)

	other := models.User{Name: "Other", Email: "other@example.com", Password: "x", Role: "guest"}
	db.Create(&other)

	svc := NewBookingService(db)
	_, err := svc.CreateBooking(guest.ID, table.ID, 3)
	assert.NoError(t, err)

	_, err = svc.CreateBooking(other.ID, table.ID, 3)
	assert.ErrorIs(t, err, ErrTableUnavailable)

	var count int64
	db.Model(&models.Booking{}).Where("table_id = ?", table.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateBookingEvaluatorRejections(t *testing.T) {
	db := setupServiceTestDB(t)
	_, guest, table := seedRestaurantWithTable(t, db, 4)

	svc := NewBookingService(db)

	_, err := svc.CreateBooking(guest.ID, table.ID, 5)
	assert.ErrorIs(t, err, ErrPartyTooLarge)

	_, err = svc.CreateBooking(guest.ID, table.ID, 0)
	assert.ErrorIs(t, err, ErrPartySizeInvalid)

	// Rejection tidak boleh mengubah state meja
	var fresh models.Table
	db.First(&fresh, table.ID)
	assert.True(t, fresh.IsAvailable)
}

func TestRejectBookingReopensTable(t *testing.T) {
	db := setupServiceTestDB(t)
	owner, guest, table := seedRestaurantWithTable(t, db, 4)

	svc := NewBookingService(db)
	booking, err := svc.CreateBooking(guest.ID, table.ID, 4)
	assert.NoError(t, err)

	rejected, err := svc.RejectBooking(booking.ID, owner.ID)
	assert.NoError(t, err)
	assert.True(t, rejected.Expired)

	var fresh models.Table
	db.First(&fresh, table.ID)
	assert.True(t, fresh.IsAvailable)
}

func TestApproveBookingRequiresOwner(t *testing.T) {
	db := setupServiceTestDB(t)
	_, guest, table := seedRestaurantWithTable(t, db, 4)

	svc := NewBookingService(db)
	booking, err := svc.CreateBooking(guest.ID, table.ID, 4)
	assert.NoError(t, err)

	// Tamu biasa tidak boleh approve
	_, err = svc.ApproveBooking(booking.ID, guest.ID)
	assert.ErrorIs(t, err, ErrNotRestaurantOwner)
}

func TestFulfilledBookingBlocksTransitions(t *testing.T) {
	db := setupServiceTestDB(t)
	owner, guest, table := seedRestaurantWithTable(t, db, 4)

	svc := NewBookingService(db)
	booking, err := svc.CreateBooking(guest.ID, table.ID, 3)
	assert.NoError(t, err)

	_, err = svc.FulfillBooking(booking.ID, owner.ID)
	assert.NoError(t, err)

	// Tamu sudah duduk: cancel/reject/approve semuanya ditolak
	_, err = svc.CancelBooking(booking.ID, guest.ID)
	assert.ErrorIs(t, err, ErrBookingInactive)
	_, err = svc.RejectBooking(booking.ID, owner.ID)
	assert.ErrorIs(t, err, ErrBookingInactive)
	_, err = svc.ApproveBooking(booking.ID, owner.ID)
	assert.ErrorIs(t, err, ErrBookingInactive)

	// Meja tetap tertutup dan booking tidak berubah jadi expired
	var fresh models.Booking
	db.First(&fresh, booking.ID)
	assert.True(t, fresh.Fulfilled)
	assert.False(t, fresh.Expired)

	var freshTable models.Table
	db.First(&freshTable, table.ID)
	assert.False(t, freshTable.IsAvailable)
}

func TestCancelBookingOnlyByItsGuest(t *testing.T) {
	db := setupServiceTestDB(t)
	owner, guest, table := seedRestaurantWithTable(t, db, 4)

	svc := NewBookingService(db)
	booking, err := svc.CreateBooking(guest.ID, table.ID, 4)
	assert.NoError(t, err)

	_, err = svc.CancelBooking(booking.ID, owner.ID)
	assert.ErrorIs(t, err, ErrNotBookingOwner)

	cancelled, err := svc.CancelBooking(booking.ID, guest.ID)
	assert.NoError(t, err)
	assert.True(t, cancelled.Expired)

	var fresh models.Table
	db.First(&fresh, table.ID)
	assert.True(t, fresh.IsAvailable)
}

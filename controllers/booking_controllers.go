package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/takeaseat/take-a-seat-backend/models"
	"github.com/takeaseat/take-a-seat-backend/services"
	"github.com/takeaseat/take-a-seat-backend/utils"
	"gorm.io/gorm"
)

type BookingController struct {
	DB  *gorm.DB
	svc *services.BookingService
}

func NewBookingController(db *gorm.DB) *BookingController {
	return &BookingController{
		DB:  db,
		svc: services.NewBookingService(db),
	}
}

// CreateBooking -> tamu submit party size untuk satu meja
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req struct {
		TableID   uint `json:"table_id" binding:"required"`
		PartySize int  `json:"party_size"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.svc.CreateBooking(c.GetUint("user_id"), req.TableID, req.PartySize)
	if err != nil {
		bc.respondBookingError(c, err)
		return
	}

	utils.InfoLogger.Printf("Booking %s created (table=%d, party=%d)", booking.Code, booking.TableID, booking.PartySize)
	utils.RespondJSON(c, http.StatusCreated,
		fmt.Sprintf("Table booked! Please arrive within %d minutes.", int(services.HoldWindow.Minutes())),
		booking)
}

// ApproveBooking -> owner menerima booking request
func (bc *BookingController) ApproveBooking(c *gin.Context) {
	bc.transition(c, bc.svc.ApproveBooking, "Booking approved")
}

// RejectBooking -> owner menolak booking request; meja dibuka lagi
func (bc *BookingController) RejectBooking(c *gin.Context) {
	bc.transition(c, bc.svc.RejectBooking, "Booking rejected")
}

// FulfillBooking -> owner menandai tamu sudah datang
func (bc *BookingController) FulfillBooking(c *gin.Context) {
	bc.transition(c, bc.svc.FulfillBooking, "Booking fulfilled")
}

// CancelBooking -> tamu membatalkan bookingnya sendiri
func (bc *BookingController) CancelBooking(c *gin.Context) {
	bc.transition(c, bc.svc.CancelBooking, "Booking cancelled")
}

// GetMyBookings -> daftar booking milik user yang login
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	var bookings []models.Booking
	if err := bc.DB.
		Where("user_id = ?", c.GetUint("user_id")).
		Order("booked_at DESC").
		Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My bookings", bookings)
}

// GetRestaurantBookings -> daftar booking untuk restoran milik owner
func (bc *BookingController) GetRestaurantBookings(c *gin.Context) {
	restaurantID := c.Param("restaurant_id")

	var restaurant models.Restaurant
	if err := bc.DB.First(&restaurant, restaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if restaurant.OwnerID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var bookings []models.Booking
	if err := bc.DB.
		Where("restaurant_id = ?", restaurant.ID).
		Order("booked_at DESC").
		Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant bookings", bookings)
}

// GetBookingByID -> detail satu booking (tamu pemilik atau owner restoran)
func (bc *BookingController) GetBookingByID(c *gin.Context) {
	bookingID := c.Param("booking_id")

	var booking models.Booking
	if err := bc.DB.First(&booking, bookingID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	userID := c.GetUint("user_id")
	if booking.UserID != userID {
		var restaurant models.Restaurant
		if err := bc.DB.First(&restaurant, booking.RestaurantID).Error; err != nil || restaurant.OwnerID != userID {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// transition menjalankan satu transisi status booking dari path param
func (bc *BookingController) transition(c *gin.Context,
	fn func(bookingID, userID uint) (*models.Booking, error), message string) {

	var bookingID uint
	if _, err := fmt.Sscanf(c.Param("booking_id"), "%d", &bookingID); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid booking id"))
		return
	}

	booking, err := fn(bookingID, c.GetUint("user_id"))
	if err != nil {
		bc.respondBookingError(c, err)
		return
	}

	utils.InfoLogger.Printf("%s: %s", message, booking.Code)
	utils.RespondJSON(c, http.StatusOK, message, booking)
}

func (bc *BookingController) respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPartySizeInvalid):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrPartyTooLarge), errors.Is(err, services.ErrTableTooLarge):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, services.ErrTableUnavailable), errors.Is(err, services.ErrBookingInactive):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrNotBookingOwner), errors.Is(err, services.ErrNotRestaurantOwner):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/takeaseat/take-a-seat-backend/models"
	"github.com/takeaseat/take-a-seat-backend/utils"
	"gorm.io/gorm"
)

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

// CreateRestaurant -> owner membuat listing baru
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Address     string  `json:"address" binding:"required"`
		Latitude    float64 `json:"latitude" binding:"required"`
		Longitude   float64 `json:"longitude" binding:"required"`
		ImageURL    string  `json:"image_url"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurant := models.Restaurant{
		OwnerID:     c.GetUint("user_id"),
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ImageURL:    req.ImageURL,
	}

	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New restaurant created: %s (owner=%d)", restaurant.Name, restaurant.OwnerID)
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created successfully", restaurant)
}

// GetAllRestaurants -> daftar semua restoran, atau filter nearby
// dengan query lat, lng dan radius_km
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := rc.DB.Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	latStr := c.Query("lat")
	lngStr := c.Query("lng")
	if latStr == "" || lngStr == "" {
		utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
		return
	}

	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)
	if err1 != nil || err2 != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid coordinates"))
		return
	}

	radiusKm := 5.0
	if radiusStr := c.Query("radius_km"); radiusStr != "" {
		if r, err := strconv.ParseFloat(radiusStr, 64); err == nil && r > 0 {
			radiusKm = r
		}
	}

	nearby := make([]models.Restaurant, 0)
	for _, r := range restaurants {
		if utils.HaversineKm(lat, lng, r.Latitude, r.Longitude) <= radiusKm {
			nearby = append(nearby, r)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Nearby restaurants", nearby)
}

// GetRestaurantByID -> detail restoran termasuk rating dan jumlah meja
func (rc *RestaurantController) GetRestaurantByID(c *gin.Context) {
	restaurantID := c.Param("restaurant_id")

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, restaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var avgRating float64
	rc.DB.Model(&models.Review{}).
		Where("restaurant_id = ?", restaurant.ID).
		Select("COALESCE(AVG(rating), 0)").Row().Scan(&avgRating)

	var reviewCount, tableCount, availableCount int64
	rc.DB.Model(&models.Review{}).Where("restaurant_id = ?", restaurant.ID).Count(&reviewCount)
	rc.DB.Model(&models.Table{}).Where("restaurant_id = ?", restaurant.ID).Count(&tableCount)
	rc.DB.Model(&models.Table{}).
		Where("restaurant_id = ? AND is_available = ?", restaurant.ID, true).
		Count(&availableCount)

	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", gin.H{
		"restaurant":       restaurant,
		"average_rating":   avgRating,
		"review_count":     reviewCount,
		"table_count":      tableCount,
		"available_tables": availableCount,
	})
}

// UpdateRestaurant -> owner mengubah listingnya
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	restaurant, ok := rc.ownedRestaurant(c)
	if !ok {
		return
	}

	var req struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Address     string   `json:"address"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		ImageURL    string   `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != "" {
		restaurant.Name = req.Name
	}
	if req.Description != "" {
		restaurant.Description = req.Description
	}
	if req.Address != "" {
		restaurant.Address = req.Address
	}
	if req.Latitude != nil {
		restaurant.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		restaurant.Longitude = *req.Longitude
	}
	if req.ImageURL != "" {
		restaurant.ImageURL = req.ImageURL
	}

	if err := rc.DB.Save(restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

// DeleteRestaurant -> ditolak selama masih ada booking aktif
func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	restaurant, ok := rc.ownedRestaurant(c)
	if !ok {
		return
	}

	var activeBookings int64
	rc.DB.Model(&models.Booking{}).
		Where("restaurant_id = ? AND expired = ? AND fulfilled = ?", restaurant.ID, false, false).
		Count(&activeBookings)
	if activeBookings > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("restaurant still has active bookings"))
		return
	}

	if err := rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(&models.Table{}).Error; err != nil {
			return err
		}
		return tx.Delete(restaurant).Error
	}); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant %d deleted", restaurant.ID)
	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", gin.H{"id": restaurant.ID})
}

// GetMyRestaurants -> listing milik owner yang sedang login
func (rc *RestaurantController) GetMyRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := rc.DB.Where("owner_id = ?", c.GetUint("user_id")).Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My restaurants", restaurants)
}

// ownedRestaurant mengambil restoran dari path param dan memastikan miliknya
func (rc *RestaurantController) ownedRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	restaurantID := c.Param("restaurant_id")

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, restaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, false
	}

	if restaurant.OwnerID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return nil, false
	}

	return &restaurant, true
}

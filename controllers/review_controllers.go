package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/takeaseat/take-a-seat-backend/live"
	"github.com/takeaseat/take-a-seat-backend/models"
	"github.com/takeaseat/take-a-seat-backend/utils"
	"gorm.io/gorm"
)

type ReviewController struct {
	DB *gorm.DB
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db}
}

// CreateReview -> satu review per user per restoran; post ulang meng-update
func (rc *ReviewController) CreateReview(c *gin.Context) {
	var req struct {
		RestaurantID uint   `json:"restaurant_id" binding:"required"`
		Rating       int    `json:"rating" binding:"required"`
		Comment      string `json:"comment"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("rating must be between 1 and 5"))
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	userID := c.GetUint("user_id")

	var review models.Review
	err := rc.DB.
		Where("user_id = ? AND restaurant_id = ?", userID, req.RestaurantID).
		First(&review).Error

	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	review.UserID = userID
	review.RestaurantID = req.RestaurantID
	review.Rating = req.Rating
	review.Comment = req.Comment

	if err := rc.DB.Save(&review).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	live.BroadcastReviewCreate(review)

	if created {
		utils.InfoLogger.Printf("New review for restaurant %d (rating=%d)", review.RestaurantID, review.Rating)
		utils.RespondJSON(c, http.StatusCreated, "Review created", review)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Review updated", review)
}

// GetRestaurantReviews -> semua review untuk satu restoran plus rata-rata
func (rc *ReviewController) GetRestaurantReviews(c *gin.Context) {
	restaurantID := c.Param("restaurant_id")

	var reviews []models.Review
	if err := rc.DB.
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var avgRating float64
	rc.DB.Model(&models.Review{}).
		Where("restaurant_id = ?", restaurantID).
		Select("COALESCE(AVG(rating), 0)").Row().Scan(&avgRating)

	utils.RespondJSON(c, http.StatusOK, "Restaurant reviews", gin.H{
		"reviews":        reviews,
		"average_rating": avgRating,
	})
}

// DeleteReview -> penulis review menghapus miliknya sendiri
func (rc *ReviewController) DeleteReview(c *gin.Context) {
	reviewID := c.Param("review_id")

	var review models.Review
	if err := rc.DB.First(&review, reviewID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if review.UserID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	if err := rc.DB.Delete(&review).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Review deleted", gin.H{"id": review.ID})
}

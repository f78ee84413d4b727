package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/takeaseat/take-a-seat-backend/live"
	"github.com/takeaseat/take-a-seat-backend/models"
	"github.com/takeaseat/take-a-seat-backend/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTables -> owner menambahkan meja secara bulk:
// satu record per unit dari setiap pasangan (capacity, count)
func (tc *TableController) CreateTables(c *gin.Context) {
	var req struct {
		RestaurantID uint `json:"restaurant_id" binding:"required"`
		Groups       []struct {
			Capacity int `json:"capacity" binding:"required"`
			Count    int `json:"count" binding:"required"`
		} `json:"groups" binding:"required,dive"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !tc.isRestaurantOwner(c, req.RestaurantID) {
		return
	}

	tables := make([]models.Table, 0)
	for _, g := range req.Groups {
		if g.Capacity <= 0 || g.Count <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("capacity and count must be positive"))
			return
		}
		for i := 0; i < g.Count; i++ {
			tables = append(tables, models.Table{
				RestaurantID: req.RestaurantID,
				Capacity:     g.Capacity,
				IsAvailable:  true,
				CreatedBy:    c.GetUint("user_id"),
				// Posisi awal di-stagger supaya meja baru tidak saling menumpuk
				PosX: float64(40 + (len(tables)%5)*90),
				PosY: float64(40 + (len(tables)/5)*90),
			})
		}
	}

	if err := tc.DB.Create(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for _, t := range tables {
		live.BroadcastTableCreate(t)
	}

	utils.InfoLogger.Printf("Created %d tables for restaurant %d", len(tables), req.RestaurantID)
	utils.RespondJSON(c, http.StatusCreated, "Tables created successfully", tables)
}

// GetFloorPlan -> seluruh meja milik satu restoran
func (tc *TableController) GetFloorPlan(c *gin.Context) {
	restaurantID := c.Param("restaurant_id")

	var tables []models.Table
	if err := tc.DB.Where("restaurant_id = ?", restaurantID).Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to load floor plan"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Floor plan", tables)
}

// CommitPosition -> persist posisi meja setelah drag dilepas.
// Koordinat absolut; commit ulang dengan koordinat sama tidak berefek.
func (tc *TableController) CommitPosition(c *gin.Context) {
	var body struct {
		PosX *float64 `json:"pos_x" binding:"required"`
		PosY *float64 `json:"pos_y" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, ok := tc.ownedTable(c)
	if !ok {
		return
	}

	table.PosX = *body.PosX
	table.PosY = *body.PosY
	if err := tc.DB.Model(table).Updates(map[string]interface{}{
		"pos_x": table.PosX,
		"pos_y": table.PosY,
	}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	live.BroadcastTableUpdate(*table)
	utils.RespondJSON(c, http.StatusOK, "Table position saved", table)
}

// SetAvailability -> owner membuka/menutup meja, terlepas dari booking
func (tc *TableController) SetAvailability(c *gin.Context) {
	var body struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, ok := tc.ownedTable(c)
	if !ok {
		return
	}

	table.IsAvailable = *body.IsAvailable
	if err := tc.DB.Model(table).Update("is_available", table.IsAvailable).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	live.BroadcastTableUpdate(*table)
	utils.InfoLogger.Printf("Table %d availability set to %v", table.ID, table.IsAvailable)
	utils.RespondJSON(c, http.StatusOK, "Table availability updated", table)
}

// DeleteTable -> menghapus meja; ditolak selama ada booking aktif
func (tc *TableController) DeleteTable(c *gin.Context) {
	table, ok := tc.ownedTable(c)
	if !ok {
		return
	}

	var activeBookings int64
	tc.DB.Model(&models.Booking{}).
		Where("table_id = ? AND expired = ? AND fulfilled = ?", table.ID, false, false).
		Count(&activeBookings)
	if activeBookings > 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("table %d still has an active booking", table.ID))
		return
	}

	if err := tc.DB.Delete(table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	live.BroadcastTableDelete(table.RestaurantID, table.ID)
	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{
		"id": table.ID,
	})
}

// GetTableByID -> detail satu meja
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// ownedTable mengambil meja dari path param dan memastikan
// restoran pemiliknya milik user yang login
func (tc *TableController) ownedTable(c *gin.Context) (*models.Table, bool) {
	tableID := c.Param("table_id")

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, false
	}

	if !tc.isRestaurantOwner(c, table.RestaurantID) {
		return nil, false
	}

	return &table, true
}

func (tc *TableController) isRestaurantOwner(c *gin.Context, restaurantID uint) bool {
	var restaurant models.Restaurant
	if err := tc.DB.First(&restaurant, restaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return false
	}

	if restaurant.OwnerID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return false
	}

	return true
}

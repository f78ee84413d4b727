package Controllers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/takeaseat/take-a-seat-backend/controllers"
	"github.com/takeaseat/take-a-seat-backend/models"
)

func setupOwnerRouter(db *gorm.DB, userID uint) *gin.Engine {
	router := gin.New()
	ownerCtrl := controllers.NewOwnerController(db)

	auth := router.Group("/api")
	auth.Use(authAs(userID, "owner"))
	auth.GET("/restaurants/:restaurant_id/stats", ownerCtrl.GetDashboardStats)
	auth.GET("/restaurants/:restaurant_id/export", ownerCtrl.ExportBookingsCSV)
	auth.GET("/restaurants/:restaurant_id/export-pdf", ownerCtrl.ExportBookingsPDF)
	return router
}

func TestDashboardStats(t *testing.T) {
	db := setupTestDB()
	owner, restaurant := seedOwnerAndRestaurant(db)
	guest := seedGuest(db, "guest@example.com")
	tableA := seedTable(db, restaurant, 4, false)
	tableB := seedTable(db, restaurant, 2, true)

	booked := activeBooking(guest.ID, restaurant.ID, tableA.ID)
	booked.Approved = true
	db.Create(&booked)

	done := activeBooking(guest.ID, restaurant.ID, tableB.ID)
	done.Code = "test-code-2"
	done.Fulfilled = true
	db.Create(&done)

	router := setupOwnerRouter(db, owner.ID)
	w := doJSON(t, router, "GET", fmt.Sprintf("/api/restaurants/%d/stats", restaurant.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := parseResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.EqualValues(t, 2, data["total_bookings"])
	assert.EqualValues(t, 1, data["approved"])
	assert.EqualValues(t, 1, data["fulfilled"])
	assert.EqualValues(t, 0, data["expired"])
	assert.InDelta(t, 2.0, data["avg_party_size"], 0.001)

	tableStats := data["table_stats"].(map[string]interface{})
	assert.EqualValues(t, 1, tableStats["available"])
	assert.EqualValues(t, 1, tableStats["booked"])
	assert.EqualValues(t, 2, tableStats["total"])
}

func TestDashboardStatsForbiddenForNonOwner(t *testing.T) {
	db := setupTestDB()
	_, restaurant := seedOwnerAndRestaurant(db)
	intruder := models.User{Name: "Intruder", Email: "intruder@example.com", Password: "x", Role: "owner"}
	db.Create(&intruder)

	router := setupOwnerRouter(db, intruder.ID)
	w := doJSON(t, router, "GET", fmt.Sprintf("/api/restaurants/%d/stats", restaurant.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExportBookingsCSV(t *testing.T) {
	db := setupTestDB()
	owner, restaurant := seedOwnerAndRestaurant(db)
	guest := seedGuest(db, "guest@example.com")
	table := seedTable(db, restaurant, 4, false)

	booking := activeBooking(guest.ID, restaurant.ID, table.ID)
	db.Create(&booking)

	router := setupOwnerRouter(db, owner.ID)
	w := doJSON(t, router, "GET", fmt.Sprintf("/api/restaurants/%d/export", restaurant.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 2) // header + satu booking
	assert.Contains(t, lines[0], "party_size")
	assert.Contains(t, lines[1], booking.Code)
}

func TestExportBookingsPDF(t *testing.T) {
	db := setupTestDB()
	owner, restaurant := seedOwnerAndRestaurant(db)
	guest := seedGuest(db, "guest@example.com")
	table := seedTable(db, restaurant, 4, false)

	booking := activeBooking(guest.ID, restaurant.ID, table.ID)
	db.Create(&booking)

	router := setupOwnerRouter(db, owner.ID)
	w := doJSON(t, router, "GET", fmt.Sprintf("/api/restaurants/%d/export-pdf", restaurant.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

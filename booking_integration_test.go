package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/takeaseat/take-a-seat-backend/models"
	"github.com/takeaseat/take-a-seat-backend/router"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestEndToEndBookingFlow menguji flow utama:
// 0. Seed owner & guest, lalu login -> token
// 1. Owner membuat restoran dan meja (bulk)
// 2. Owner drag meja lalu commit posisi
// 3. Guest menemukan restoran dan submit booking
// 4. Meja tertutup untuk guest lain
// 5. Owner approve lalu fulfill
func TestEndToEndBookingFlow(t *testing.T) {
	db := setupTestDB()
	r := router.SetupRouter(db)

	ownerToken := loginTest(t, r, "owner@example.com")
	guestToken := loginTest(t, r, "guest@example.com")

	restaurantID := createRestaurantTest(t, r, ownerToken)
	tableID := createTablesTest(t, r, ownerToken, restaurantID)
	commitPositionTest(t, r, ownerToken, tableID)

	bookingID := createBookingTest(t, r, guestToken, tableID)
	bookClosedTableTest(t, r, guestToken, tableID)

	approveBookingTest(t, r, ownerToken, bookingID)
	fulfillBookingTest(t, r, ownerToken, bookingID, db)
}

// setupTestDB -> migrasi model di SQLite in-memory + seed user
func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Table{},
		&models.Booking{},
		&models.Review{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.User{
		Name:     "Test Owner",
		Email:    "owner@example.com",
		Password: string(hashedPassword),
		Role:     "owner",
	})
	db.Create(&models.User{
		Name:     "Test Guest",
		Email:    "guest@example.com",
		Password: string(hashedPassword),
		Role:     "guest",
	})

	return db
}

func loginTest(t *testing.T, r *gin.Engine, email string) string {
	body := map[string]string{
		"email":    email,
		"password": "secret123", // Harus sesuai dengan yang di seed
	}
	bodyBytes, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("loginTest fail: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Data.Token == "" {
		t.Fatalf("loginTest: token empty for %s", email)
	}
	return resp.Data.Token
}

// createRestaurantTest -> POST /api/restaurants => 201
func createRestaurantTest(t *testing.T, r *gin.Engine, token string) uint {
	bodyData := map[string]interface{}{
		"name":      "Warung Tes",
		"address":   "Jl. Integrasi 1",
		"latitude":  -6.2,
		"longitude": 106.8,
	}
	w := doAuthRequest(t, r, http.MethodPost, "/api/restaurants", token, bodyData)
	if w.Code != http.StatusCreated {
		t.Fatalf("createRestaurantTest: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.ID == 0 {
		t.Fatalf("createRestaurantTest: missing restaurant id, body=%s", w.Body.String())
	}
	return resp.Data.ID
}

// createTablesTest -> POST /api/tables (bulk) => 201, ambil meja pertama
func createTablesTest(t *testing.T, r *gin.Engine, token string, restaurantID uint) uint {
	bodyData := map[string]interface{}{
		"restaurant_id": restaurantID,
		"groups": []map[string]interface{}{
			{"capacity": 4, "count": 2},
		},
	}
	w := doAuthRequest(t, r, http.MethodPost, "/api/tables", token, bodyData)
	if w.Code != http.StatusCreated {
		t.Fatalf("createTablesTest: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data []struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Data) != 2 {
		t.Fatalf("createTablesTest: expected 2 tables, got %d", len(resp.Data))
	}
	return resp.Data[0].ID
}

// commitPositionTest -> PATCH posisi absolut setelah drag
func commitPositionTest(t *testing.T, r *gin.Engine, token string, tableID uint) {
	bodyData := map[string]interface{}{
		"pos_x": 220.0,
		"pos_y": 140.0,
	}
	url := "/api/tables/" + itoa(tableID) + "/position"
	w := doAuthRequest(t, r, http.MethodPatch, url, token, bodyData)
	if w.Code != http.StatusOK {
		t.Fatalf("commitPositionTest: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			PosX float64 `json:"pos_x"`
			PosY float64 `json:"pos_y"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.PosX != 220 || resp.Data.PosY != 140 {
		t.Fatalf("commitPositionTest: position not saved, body=%s", w.Body.String())
	}
}

// createBookingTest -> POST /api/bookings => 201
func createBookingTest(t *testing.T, r *gin.Engine, token string, tableID uint) uint {
	bodyData := map[string]interface{}{
		"table_id":   tableID,
		"party_size": 3,
	}
	w := doAuthRequest(t, r, http.MethodPost, "/api/bookings", token, bodyData)
	if w.Code != http.StatusCreated {
		t.Fatalf("createBookingTest: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.ID == 0 {
		t.Fatalf("createBookingTest: missing booking id, body=%s", w.Body.String())
	}
	return resp.Data.ID
}

// bookClosedTableTest -> booking kedua untuk meja yang sama => 409
func bookClosedTableTest(t *testing.T, r *gin.Engine, token string, tableID uint) {
	bodyData := map[string]interface{}{
		"table_id":   tableID,
		"party_size": 2,
	}
	w := doAuthRequest(t, r, http.MethodPost, "/api/bookings", token, bodyData)
	if w.Code != http.StatusConflict {
		t.Fatalf("bookClosedTableTest: expected 409, got %d, body=%s", w.Code, w.Body.String())
	}
}

func approveBookingTest(t *testing.T, r *gin.Engine, token string, bookingID uint) {
	url := "/api/bookings/" + itoa(bookingID) + "/approve"
	w := doAuthRequest(t, r, http.MethodPost, url, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("approveBookingTest: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
}

func fulfillBookingTest(t *testing.T, r *gin.Engine, token string, bookingID uint, db *gorm.DB) {
	url := "/api/bookings/" + itoa(bookingID) + "/fulfill"
	w := doAuthRequest(t, r, http.MethodPost, url, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("fulfillBookingTest: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var booking models.Booking
	if err := db.First(&booking, bookingID).Error; err != nil {
		t.Fatalf("fulfillBookingTest: booking missing: %v", err)
	}
	if !booking.Fulfilled {
		t.Fatalf("fulfillBookingTest: booking not marked fulfilled")
	}
}

func doAuthRequest(t *testing.T, r *gin.Engine, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

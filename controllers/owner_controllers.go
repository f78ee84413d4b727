package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"github.com/takeaseat/take-a-seat-backend/models"
	"github.com/takeaseat/take-a-seat-backend/utils"
	chart "github.com/wcharczuk/go-chart/v2"
	"gorm.io/gorm"
)

type OwnerController struct {
	DB *gorm.DB
}

func NewOwnerController(db *gorm.DB) *OwnerController {
	return &OwnerController{DB: db}
}

// GetDashboardStats -> statistik untuk dashboard owner (per restoran)
func (oc *OwnerController) GetDashboardStats(c *gin.Context) {
	restaurant, ok := oc.ownedRestaurant(c)
	if !ok {
		return
	}

	today := time.Now().Format("2006-01-02")

	var stats struct {
		TotalBookings int64   `json:"total_bookings"`
		TodayBookings int64   `json:"today_bookings"`
		Approved      int64   `json:"approved"`
		Fulfilled     int64   `json:"fulfilled"`
		Expired       int64   `json:"expired"`
		AvgPartySize  float64 `json:"avg_party_size"`
		TableStats    struct {
			Available int64 `json:"available"`
			Booked    int64 `json:"booked"`
			Total     int64 `json:"total"`
		} `json:"table_stats"`
	}

	bookings := oc.DB.Model(&models.Booking{}).Where("restaurant_id = ?", restaurant.ID)
	bookings.Count(&stats.TotalBookings)

	oc.DB.Model(&models.Booking{}).
		Where("restaurant_id = ? AND DATE(booked_at) = ?", restaurant.ID, today).
		Count(&stats.TodayBookings)
	oc.DB.Model(&models.Booking{}).
		Where("restaurant_id = ? AND approved = ?", restaurant.ID, true).
		Count(&stats.Approved)
	oc.DB.Model(&models.Booking{}).
		Where("restaurant_id = ? AND fulfilled = ?", restaurant.ID, true).
		Count(&stats.Fulfilled)
	oc.DB.Model(&models.Booking{}).
		Where("restaurant_id = ? AND expired = ?", restaurant.ID, true).
		Count(&stats.Expired)

	oc.DB.Model(&models.Booking{}).
		Where("restaurant_id = ?", restaurant.ID).
		Select("COALESCE(AVG(party_size), 0)").Row().Scan(&stats.AvgPartySize)

	oc.DB.Model(&models.Table{}).
		Where("restaurant_id = ? AND is_available = ?", restaurant.ID, true).
		Count(&stats.TableStats.Available)
	oc.DB.Model(&models.Table{}).
		Where("restaurant_id = ? AND is_available = ?", restaurant.ID, false).
		Count(&stats.TableStats.Booked)
	stats.TableStats.Total = stats.TableStats.Available + stats.TableStats.Booked

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

// ExportBookingsCSV -> unduh seluruh booking restoran sebagai CSV
func (oc *OwnerController) ExportBookingsCSV(c *gin.Context) {
	restaurant, ok := oc.ownedRestaurant(c)
	if !ok {
		return
	}

	var bookings []models.Booking
	if err := oc.DB.
		Where("restaurant_id = ?", restaurant.ID).
		Order("booked_at ASC").
		Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"code", "table_id", "party_size", "booked_at", "expires_at", "approved", "fulfilled", "expired"})
	for _, b := range bookings {
		w.Write([]string{
			b.Code,
			fmt.Sprintf("%d", b.TableID),
			fmt.Sprintf("%d", b.PartySize),
			b.BookedAt.Format(time.RFC3339),
			b.ExpiresAt.Format(time.RFC3339),
			fmt.Sprintf("%t", b.Approved),
			fmt.Sprintf("%t", b.Fulfilled),
			fmt.Sprintf("%t", b.Expired),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=bookings-%d.csv", restaurant.ID))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportBookingsPDF -> laporan PDF dengan grafik booking per hari (7 hari)
func (oc *OwnerController) ExportBookingsPDF(c *gin.Context) {
	restaurant, ok := oc.ownedRestaurant(c)
	if !ok {
		return
	}

	// Hitung booking per hari untuk seminggu terakhir
	bars := make([]chart.Value, 0, 7)
	for i := 6; i >= 0; i-- {
		day := time.Now().AddDate(0, 0, -i)
		var count int64
		oc.DB.Model(&models.Booking{}).
			Where("restaurant_id = ? AND DATE(booked_at) = ?", restaurant.ID, day.Format("2006-01-02")).
			Count(&count)
		bars = append(bars, chart.Value{
			Value: float64(count),
			Label: day.Format("02 Jan"),
		})
	}

	graph := chart.BarChart{
		Title:    "Bookings per day",
		Width:    760,
		Height:   360,
		BarWidth: 60,
		Bars:     bars,
	}

	var chartBuf bytes.Buffer
	if err := graph.Render(chart.PNG, &chartBuf); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var totalBookings, fulfilled int64
	oc.DB.Model(&models.Booking{}).Where("restaurant_id = ?", restaurant.ID).Count(&totalBookings)
	oc.DB.Model(&models.Booking{}).
		Where("restaurant_id = ? AND fulfilled = ?", restaurant.ID, true).
		Count(&fulfilled)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Booking report - %s", restaurant.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated %s", time.Now().Format("02 Jan 2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total bookings: %d", totalBookings), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Fulfilled: %d", fulfilled), "", 1, "L", false, 0, "")

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("bookings_chart", opt, &chartBuf)
	pdf.ImageOptions("bookings_chart", 10, 70, 190, 0, false, opt, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=report-%d.pdf", restaurant.ID))
	c.Data(http.StatusOK, "application/pdf", out.Bytes())
}

// ownedRestaurant mengambil restoran dari path param dan memastikan miliknya
func (oc *OwnerController) ownedRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	restaurantID := c.Param("restaurant_id")

	var restaurant models.Restaurant
	if err := oc.DB.First(&restaurant, restaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, false
	}

	if restaurant.OwnerID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return nil, false
	}

	return &restaurant, true
}

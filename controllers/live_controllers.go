package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/takeaseat/take-a-seat-backend/live"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Sesuaikan dengan kebutuhan keamanan
	},
}

// FloorPlanWSHandler -> endpoint WebSocket untuk sinkronisasi floor plan.
// Client subscribe dengan query restaurant_id; tanpa itu menerima semua event
// yang relevan untuk user (notifikasi personal tetap sampai).
func FloorPlanWSHandler(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	userID := userIDInterface.(uint)

	var restaurantID uint
	if raw := c.Query("restaurant_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		restaurantID = uint(parsed)
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	live.RegisterClient(ws, userID, restaurantID)

	// Baca (dan abaikan) pesan supaya close/ping tetap terproses
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	live.UnregisterClient(ws)
}

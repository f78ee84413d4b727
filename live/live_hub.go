package live

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/takeaseat/take-a-seat-backend/models"
)

// Event types
const (
	EventTableCreate       = "table_create"
	EventTableUpdate       = "table_update"
	EventTableDelete       = "table_delete"
	EventBookingCreate     = "booking_create"
	EventBookingUpdate     = "booking_update"
	EventReviewCreate      = "review_create"
	EventFloorPlanSnapshot = "floorplan_snapshot"
	EventUserNotif         = "user_notification"
)

type Message struct {
	Event        string      `json:"event"`
	RestaurantID uint        `json:"restaurant_id,omitempty"`
	Data         interface{} `json:"data"`
}

type subscription struct {
	userID       uint
	restaurantID uint // 0 -> semua restoran (mis. dashboard admin)
}

// Hub menampung semua client floor-plan dan channel untuk broadcast
type Hub struct {
	clients map[*websocket.Conn]subscription
	mutex   sync.Mutex
}

var liveHub = Hub{
	clients: make(map[*websocket.Conn]subscription),
}

// RegisterClient -> menambahkan connection dengan scope restoran
func RegisterClient(conn *websocket.Conn, userID, restaurantID uint) {
	liveHub.mutex.Lock()
	defer liveHub.mutex.Unlock()
	liveHub.clients[conn] = subscription{userID: userID, restaurantID: restaurantID}
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	liveHub.mutex.Lock()
	defer liveHub.mutex.Unlock()
	delete(liveHub.clients, conn)
	conn.Close()
}

// ClientCount -> jumlah client yang sedang terhubung
func ClientCount() int {
	liveHub.mutex.Lock()
	defer liveHub.mutex.Unlock()
	return len(liveHub.clients)
}

// BroadcastTableCreate -> meja baru muncul di floor plan
func BroadcastTableCreate(table models.Table) {
	broadcast(Message{
		Event:        EventTableCreate,
		RestaurantID: table.RestaurantID,
		Data:         table,
	})
}

// BroadcastTableUpdate -> posisi/availability meja berubah
func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{
		Event:        EventTableUpdate,
		RestaurantID: table.RestaurantID,
		Data:         table,
	})
}

// BroadcastTableDelete -> meja dihapus dari floor plan
func BroadcastTableDelete(restaurantID, tableID uint) {
	broadcast(Message{
		Event:        EventTableDelete,
		RestaurantID: restaurantID,
		Data:         map[string]interface{}{"table_id": tableID},
	})
}

// BroadcastBookingCreate -> booking baru masuk
func BroadcastBookingCreate(booking models.Booking) {
	broadcast(Message{
		Event:        EventBookingCreate,
		RestaurantID: booking.RestaurantID,
		Data:         booking,
	})
}

// BroadcastBookingUpdate -> status booking berubah (approve/reject/expired)
func BroadcastBookingUpdate(booking models.Booking) {
	broadcast(Message{
		Event:        EventBookingUpdate,
		RestaurantID: booking.RestaurantID,
		Data:         booking,
	})
}

// BroadcastReviewCreate -> review baru untuk restoran
func BroadcastReviewCreate(review models.Review) {
	broadcast(Message{
		Event:        EventReviewCreate,
		RestaurantID: review.RestaurantID,
		Data:         review,
	})
}

// BroadcastUserNotification -> notifikasi personal, dikirim hanya ke user terkait
func BroadcastUserNotification(userID uint, notif models.Notification) {
	liveHub.mutex.Lock()
	defer liveHub.mutex.Unlock()

	data, err := json.Marshal(Message{Event: EventUserNotif, Data: notif})
	if err != nil {
		log.Printf("Error marshaling notification: %v", err)
		return
	}

	for conn, sub := range liveHub.clients {
		if sub.userID != userID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending notification to user %d: %v", userID, err)
		}
	}
}

// BroadcastMessage -> broadcast pesan umum
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

// broadcast -> kirim pesan ke semua client dengan scope yang cocok
func broadcast(msg Message) {
	liveHub.mutex.Lock()
	defer liveHub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, sub := range liveHub.clients {
		if sub.restaurantID != 0 && msg.RestaurantID != 0 && sub.restaurantID != msg.RestaurantID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}

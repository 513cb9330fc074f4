package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event types broadcast by the reservation engine.
const (
	EventReservationCreate  = "reservation_create"
	EventReservationUpdate  = "reservation_update"
	EventReservationCancel  = "reservation_cancel"
	EventStatusChange       = "reservation_status_change"
	EventReservationOverdue = "reservation_overdue"
	EventTableUpdate        = "table_update"
	EventTableCreate        = "table_create"
	EventTableDelete        = "table_delete"
)

// DomainEvent is the payload announced after a successful mutation.
type DomainEvent struct {
	Type          string `json:"type"`
	ReservationID uint   `json:"reservation_id"`
	Status        string `json:"status"`
	TableID       uint   `json:"table_id"`
}

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected dashboard client (host stand, floor staff, admin).
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient releases a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastReservationEvent announces a lifecycle change to all clients.
func BroadcastReservationEvent(event DomainEvent) {
	broadcast(Message{
		Event: event.Type,
		Data:  event,
	})
}

// BroadcastMessage sends an arbitrary message to all clients.
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}

package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	ID   uint
	Role string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d connected", client.ID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// BroadcastToUser sends a message to a specific user
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.ID == userID {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// BroadcastToRole sends a message to all users holding a role
func (h *Hub) BroadcastToRole(role string, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.Role == role {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// BroadcastToAll sends a message to all connected clients
func (h *Hub) BroadcastToAll(message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			log.Printf("Warning: Could not send to client %d (channel full)", client.ID)
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocketMessage is the envelope for all hub traffic
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// BidPlaced notifies a shipment owner about a new bid
type BidPlaced struct {
	ShipmentID  uint    `json:"shipmentId"`
	BidID       uint    `json:"bidId"`
	CarrierID   uint    `json:"carrierId"`
	CarrierName string  `json:"carrierName"`
	Amount      float64 `json:"amount"`
}

// BidDecided notifies a carrier that their bid was accepted or rejected
type BidDecided struct {
	ShipmentID uint   `json:"shipmentId"`
	BidID      uint   `json:"bidId"`
	Status     string `json:"status"`
}

// ShipmentAssigned notifies a carrier that payment cleared and the load is theirs
type ShipmentAssigned struct {
	ShipmentID uint    `json:"shipmentId"`
	BidID      uint    `json:"bidId"`
	Amount     float64 `json:"amount"`
}

// TrackingUpdated notifies the counterparty about a tracking sub-state change
type TrackingUpdated struct {
	ShipmentID    uint   `json:"shipmentId"`
	CurrentStatus string `json:"currentStatus"`
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, role string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:   userID,
		Role: role,
		Conn: conn,
		Send: make(chan []byte, 256),
		Hub:  hub,
	}

	client.Hub.register <- client

	// Start goroutines for reading and writing
	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		// Clients only send keepalive/acknowledgement frames; log anything else
		var wsMessage WebSocketMessage
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			log.Printf("Error unmarshaling WebSocket message: %v", err)
			continue
		}
		if wsMessage.Type != "ping" {
			log.Printf("Unhandled message type %q from client %d", wsMessage.Type, c.ID)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// SendBidPlaced sends a new-bid notification to the shipment owner
func (hub *Hub) SendBidPlaced(ownerID uint, placed BidPlaced) {
	hub.sendTyped(ownerID, "bid_placed", placed)
}

// SendBidDecided sends an accept/reject notification to the bidder
func (hub *Hub) SendBidDecided(carrierID uint, decided BidDecided) {
	hub.sendTyped(carrierID, "bid_decided", decided)
}

// SendShipmentAssigned sends an assignment notification to the carrier
func (hub *Hub) SendShipmentAssigned(carrierID uint, assigned ShipmentAssigned) {
	hub.sendTyped(carrierID, "shipment_assigned", assigned)
}

// SendTrackingUpdated sends a tracking update to a shipment party
func (hub *Hub) SendTrackingUpdated(userID uint, updated TrackingUpdated) {
	hub.sendTyped(userID, "tracking_updated", updated)
}

func (hub *Hub) sendTyped(userID uint, msgType string, data interface{}) {
	message := WebSocketMessage{
		Type: msgType,
		Data: data,
	}

	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling %s: %v", msgType, err)
		return
	}

	hub.BroadcastToUser(userID, payload)
}

package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/freightfloo/freightfloo-backend/pkg/utils"
	"gorm.io/gorm"
)

// Notifier fans out marketplace events to the in-app notification table,
// the WebSocket hub, email, and FCM push. Callers dispatch after their
// transaction commits; delivery is best effort and never affects the
// state change that triggered it.
type Notifier struct {
	db  *gorm.DB
	hub *Hub
}

// NewNotifier creates a notifier bound to the database and hub
func NewNotifier(db *gorm.DB, hub *Hub) *Notifier {
	return &Notifier{db: db, hub: hub}
}

// Hub exposes the WebSocket hub for typed real-time events that go out
// alongside persisted notifications.
func (n *Notifier) Hub() *Hub {
	return n.hub
}

// Event is a single notification to deliver
type Event struct {
	Type        models.EventType
	RecipientID uint
	Title       string
	Body        string
	Payload     map[string]interface{}
}

// Dispatch records the notification and delivers it asynchronously.
// Errors are logged, never returned.
func (n *Notifier) Dispatch(event Event) {
	payloadJSON, err := json.Marshal(event.Payload)
	if err != nil {
		log.Printf("Failed to marshal notification payload: %v", err)
		payloadJSON = []byte("{}")
	}

	notification := models.Notification{
		RecipientID: event.RecipientID,
		Event:       event.Type,
		Title:       event.Title,
		Body:        event.Body,
		Payload:     string(payloadJSON),
	}

	if err := n.db.Create(&notification).Error; err != nil {
		log.Printf("Failed to persist notification for user %d: %v", event.RecipientID, err)
	}

	// WebSocket push to the recipient, if connected
	message := WebSocketMessage{
		Type: "notification",
		Data: map[string]interface{}{
			"id":      notification.ID,
			"event":   event.Type,
			"title":   event.Title,
			"body":    event.Body,
			"payload": event.Payload,
		},
	}
	if data, err := json.Marshal(message); err == nil {
		n.hub.BroadcastToUser(event.RecipientID, data)
	}

	go n.deliverExternal(event)
}

// deliverExternal sends email and push according to the recipient's
// preferences. Runs outside the request.
func (n *Notifier) deliverExternal(event Event) {
	var recipient models.User
	if err := n.db.First(&recipient, event.RecipientID).Error; err != nil {
		log.Printf("Notification recipient %d not found: %v", event.RecipientID, err)
		return
	}

	prefs := models.DefaultPreferences(recipient.ID)
	n.db.Where("user_id = ?", recipient.ID).First(prefs)

	if !prefs.AllowsEvent(event.Type) {
		return
	}

	if prefs.EmailEnabled {
		if err := utils.SendEventEmail(recipient.Email, event.Title, event.Body); err != nil {
			log.Printf("Failed to send notification email to user %d: %v", recipient.ID, err)
		}
	}

	if prefs.PushEnabled && recipient.FCMToken != "" {
		payload := NotificationPayload{
			Title: event.Title,
			Body:  event.Body,
			Data:  event.Payload,
		}
		if err := SendNotificationToToken(context.Background(), recipient.FCMToken, payload); err != nil {
			log.Printf("Failed to send push notification to user %d: %v", recipient.ID, err)
		}
	}
}

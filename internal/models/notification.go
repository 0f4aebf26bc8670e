package models

import "gorm.io/gorm"

// EventType identifies what a notification is about.
type EventType string

const (
	EventNewBid           EventType = "NEW_BID"
	EventBidAccepted      EventType = "BID_ACCEPTED"
	EventBidRejected      EventType = "BID_REJECTED"
	EventPaymentReceived  EventType = "PAYMENT_RECEIVED"
	EventShipmentAssigned EventType = "SHIPMENT_ASSIGNED"
	EventShipmentUpdated  EventType = "SHIPMENT_UPDATED"
	EventRefundProcessed  EventType = "REFUND_PROCESSED"
	EventNewReview        EventType = "NEW_REVIEW"
)

// Notification is the persisted in-app record. Delivery over WebSocket,
// email, and push happens after the row is written and is best effort.
type Notification struct {
	gorm.Model
	RecipientID uint      `json:"recipientId" gorm:"not null;index"`
	Recipient   User      `json:"-"`
	Event       EventType `json:"event" gorm:"not null"`
	Title       string    `json:"title" gorm:"not null"`
	Body        string    `json:"body"`
	// JSON-encoded event payload for the client
	Payload string `json:"payload"`
	Read    bool   `json:"read" gorm:"default:false"`
}

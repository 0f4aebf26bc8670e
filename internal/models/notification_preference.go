package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationPreference represents user notification preferences
type NotificationPreference struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"userId"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// General push notification toggle
	PushEnabled bool `gorm:"column:push_enabled;default:true" json:"pushEnabled"`

	// Specific notification preferences
	BidAlerts            bool `gorm:"column:bid_alerts;default:true" json:"bidAlerts"`
	PaymentAlerts        bool `gorm:"column:payment_alerts;default:true" json:"paymentAlerts"`
	ShipmentStatusAlerts bool `gorm:"column:shipment_status_alerts;default:true" json:"shipmentStatusAlerts"`
	ReviewAlerts         bool `gorm:"column:review_alerts;default:true" json:"reviewAlerts"`
	PromotionalMessages  bool `gorm:"column:promotional_messages;default:true" json:"promotionalMessages"`

	// Email preference
	EmailEnabled bool `gorm:"column:email_enabled;default:true" json:"emailEnabled"`
}

// TableName specifies the table name for NotificationPreference
func (NotificationPreference) TableName() string {
	return "notification_preferences"
}

// DefaultPreferences returns default notification preferences for a new user
func DefaultPreferences(userID uint) *NotificationPreference {
	return &NotificationPreference{
		UserID:               userID,
		PushEnabled:          true,
		BidAlerts:            true,
		PaymentAlerts:        true,
		ShipmentStatusAlerts: true,
		ReviewAlerts:         true,
		PromotionalMessages:  true,
		EmailEnabled:         true,
	}
}

// AllowsEvent reports whether the given event type should be delivered
// under these preferences. The persisted in-app record is always written;
// this only gates email and push delivery.
func (p *NotificationPreference) AllowsEvent(event EventType) bool {
	switch event {
	case EventNewBid, EventBidAccepted, EventBidRejected:
		return p.BidAlerts
	case EventPaymentReceived, EventRefundProcessed:
		return p.PaymentAlerts
	case EventShipmentAssigned, EventShipmentUpdated:
		return p.ShipmentStatusAlerts
	case EventNewReview:
		return p.ReviewAlerts
	}
	return true
}

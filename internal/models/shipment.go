package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type PricingType string

const (
	PricingAuction PricingType = "auction"
	PricingOffer   PricingType = "offer"
)

type ShipmentStatus string

const (
	ShipmentStatusActive    ShipmentStatus = "ACTIVE"
	ShipmentStatusPending   ShipmentStatus = "PENDING"
	ShipmentStatusAssigned  ShipmentStatus = "ASSIGNED"
	ShipmentStatusCompleted ShipmentStatus = "COMPLETED"
	ShipmentStatusCancelled ShipmentStatus = "CANCELLED"
)

type PaymentState string

const (
	PaymentStateNone      PaymentState = "NONE"
	PaymentStatePending   PaymentState = "PENDING"
	PaymentStateCompleted PaymentState = "COMPLETED"
)

type TrackingStatus string

const (
	TrackingPickedUp  TrackingStatus = "PICKED_UP"
	TrackingInTransit TrackingStatus = "IN_TRANSIT"
	TrackingDelivered TrackingStatus = "DELIVERED"
)

type Shipment struct {
	gorm.Model
	UserID        uint           `json:"userId" gorm:"not null;index"`
	User          User           `json:"user"`
	Title         string         `json:"title" gorm:"not null"`
	Description   string         `json:"description"`
	Origin        string         `json:"origin" gorm:"not null"`
	Destination   string         `json:"destination" gorm:"not null"`
	Weight        float64        `json:"weight"`
	Dimensions    string         `json:"dimensions"`
	Category      string         `json:"category"`
	PickupDate    time.Time      `json:"pickupDate"`
	DeliveryDate  time.Time      `json:"deliveryDate"`
	PricingType   PricingType    `json:"pricingType" gorm:"not null"`
	StartingBid   float64        `json:"startingBid"`
	OfferPrice    float64        `json:"offerPrice"`
	Status        ShipmentStatus `json:"status" gorm:"not null;default:'ACTIVE'"`
	PaymentStatus PaymentState   `json:"paymentStatus" gorm:"not null;default:'NONE'"`
	// Tracking sub-state, meaningful only while status is ASSIGNED
	CurrentStatus  TrackingStatus `json:"currentStatus" gorm:"default:''"`
	PODReceived    bool           `json:"podReceived" gorm:"default:false"`
	PODImage       string         `json:"podImage"`
	PODNotes       string         `json:"podNotes"`
	PickupTime     *time.Time     `json:"pickupTime"`
	TransitTime    *time.Time     `json:"transitTime"`
	DeliveryTime   *time.Time     `json:"deliveryTime"`
	CompletionTime *time.Time     `json:"completionTime"`
}

// TableName specifies the table name
func (Shipment) TableName() string {
	return "shipments"
}

// validTransitions lists the lifecycle edges a shipment may take.
// ASSIGNED is additionally gated on PaymentStatus by CanTransition.
var validTransitions = map[ShipmentStatus][]ShipmentStatus{
	ShipmentStatusActive:    {ShipmentStatusPending, ShipmentStatusCancelled},
	ShipmentStatusPending:   {ShipmentStatusAssigned, ShipmentStatusCancelled},
	ShipmentStatusAssigned:  {ShipmentStatusCompleted},
	ShipmentStatusCompleted: {},
	ShipmentStatusCancelled: {},
}

// CanTransition reports whether the shipment may move to the target status.
func (s *Shipment) CanTransition(to ShipmentStatus) error {
	if to == ShipmentStatusAssigned && s.PaymentStatus != PaymentStateCompleted {
		return fmt.Errorf("shipment cannot be assigned before payment is completed")
	}
	for _, next := range validTransitions[s.Status] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("invalid shipment transition from %s to %s", s.Status, to)
}

// IsTerminal reports whether the shipment has reached a final status.
func (s *Shipment) IsTerminal() bool {
	return s.Status == ShipmentStatusCompleted || s.Status == ShipmentStatusCancelled
}

// nextTracking maps each tracking sub-state to its only valid successor.
var nextTracking = map[TrackingStatus]TrackingStatus{
	"":                TrackingPickedUp,
	TrackingPickedUp:  TrackingInTransit,
	TrackingInTransit: TrackingDelivered,
}

// CanTrack reports whether the tracking sub-state may move to the target.
// Tracking only applies to assigned shipments and must follow the
// PICKED_UP -> IN_TRANSIT -> DELIVERED order.
func (s *Shipment) CanTrack(to TrackingStatus) error {
	if s.Status != ShipmentStatusAssigned {
		return fmt.Errorf("tracking updates require an assigned shipment, current status is %s", s.Status)
	}
	if next, ok := nextTracking[s.CurrentStatus]; !ok || next != to {
		return fmt.Errorf("invalid tracking transition from %q to %q", s.CurrentStatus, to)
	}
	return nil
}

// ApplyTracking advances the tracking sub-state and stamps the matching
// timestamp. Callers must have checked CanTrack first.
func (s *Shipment) ApplyTracking(to TrackingStatus, now time.Time) {
	s.CurrentStatus = to
	switch to {
	case TrackingPickedUp:
		s.PickupTime = &now
	case TrackingInTransit:
		s.TransitTime = &now
	case TrackingDelivered:
		s.DeliveryTime = &now
	}
}

// CanComplete reports whether the shipment may be marked COMPLETED.
// Completion requires a delivered shipment with proof of delivery on file.
func (s *Shipment) CanComplete() error {
	if err := s.CanTransition(ShipmentStatusCompleted); err != nil {
		return err
	}
	if s.CurrentStatus != TrackingDelivered {
		return fmt.Errorf("shipment must be delivered before completion")
	}
	if !s.PODReceived {
		return fmt.Errorf("proof of delivery is required before completion")
	}
	return nil
}

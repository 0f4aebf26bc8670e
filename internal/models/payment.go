package models

import "gorm.io/gorm"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

type Payment struct {
	gorm.Model
	Reference  string        `json:"reference" gorm:"unique;not null"`
	ShipmentID uint          `json:"shipmentId" gorm:"not null;index"`
	Shipment   Shipment      `json:"shipment"`
	BidID      uint          `json:"bidId" gorm:"not null"`
	Bid        Bid           `json:"bid"`
	PayerID    uint          `json:"payerId" gorm:"not null"`
	Payer      User          `json:"payer"`
	Amount     float64       `json:"amount" gorm:"not null"`
	Status     PaymentStatus `json:"status" gorm:"not null;default:'PENDING'"`
}

type RefundStatus string

const (
	RefundStatusRequested RefundStatus = "REQUESTED"
	RefundStatusApproved  RefundStatus = "APPROVED"
	RefundStatusDenied    RefundStatus = "DENIED"
)

// Refund is a request against a completed payment. Approval is an
// administrative step and never rolls the shipment status back on its own.
type Refund struct {
	gorm.Model
	PaymentID uint         `json:"paymentId" gorm:"not null;index"`
	Payment   Payment      `json:"payment"`
	Amount    float64      `json:"amount" gorm:"not null"`
	Reason    string       `json:"reason"`
	Status    RefundStatus `json:"status" gorm:"not null;default:'REQUESTED'"`
}

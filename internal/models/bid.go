package models

import "gorm.io/gorm"

type BidStatus string

const (
	BidStatusPending  BidStatus = "PENDING"
	BidStatusAccepted BidStatus = "ACCEPTED"
	BidStatusRejected BidStatus = "REJECTED"
)

type Bid struct {
	gorm.Model
	ShipmentID uint      `json:"shipmentId" gorm:"not null;index"`
	Shipment   Shipment  `json:"shipment"`
	CarrierID  uint      `json:"carrierId" gorm:"not null;index"`
	Carrier    User      `json:"carrier"`
	Amount     float64   `json:"amount" gorm:"not null"`
	Message    string    `json:"message"`
	Status     BidStatus `json:"status" gorm:"not null;default:'PENDING'"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type TripStatus string

const (
	TripStatusOpen      TripStatus = "OPEN"
	TripStatusActive    TripStatus = "ACTIVE"
	TripStatusCompleted TripStatus = "COMPLETED"
)

// Trip groups a truck, a driver, and optionally an assigned shipment for a
// carrier's dispatch planning.
type Trip struct {
	gorm.Model
	OwnerID    uint       `json:"ownerId" gorm:"not null;index"`
	Owner      User       `json:"owner"`
	TruckID    uint       `json:"truckId" gorm:"not null"`
	Truck      Truck      `json:"truck"`
	DriverID   uint       `json:"driverId" gorm:"not null"`
	Driver     Driver     `json:"driver"`
	ShipmentID *uint      `json:"shipmentId"`
	Shipment   *Shipment  `json:"shipment"`
	Origin     string     `json:"origin"`
	Destination string    `json:"destination"`
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
	Status     TripStatus `json:"status" gorm:"not null;default:'OPEN'"`
	Notes      string     `json:"notes"`
}

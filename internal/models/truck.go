package models

import (
	"time"

	"gorm.io/gorm"
)

type TruckStatus string

const (
	TruckStatusAvailable   TruckStatus = "AVAILABLE"
	TruckStatusInService   TruckStatus = "IN_SERVICE"
	TruckStatusMaintenance TruckStatus = "MAINTENANCE"
)

type Truck struct {
	gorm.Model
	OwnerID           uint        `json:"ownerId" gorm:"not null;index"`
	Owner             User        `json:"owner"`
	PlateNumber       string      `json:"plateNumber" gorm:"not null"`
	Make              string      `json:"make"`
	TruckModel        string      `json:"model" gorm:"column:truck_model"`
	Year              int         `json:"year"`
	EquipmentType     string      `json:"equipmentType"`
	CapacityLbs       float64     `json:"capacityLbs"`
	Status            TruckStatus `json:"status" gorm:"not null;default:'AVAILABLE'"`
	RegistrationExpiry *time.Time `json:"registrationExpiry"`
	InsuranceExpiry    *time.Time `json:"insuranceExpiry"`
}

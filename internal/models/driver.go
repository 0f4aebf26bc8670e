package models

import (
	"time"

	"gorm.io/gorm"
)

type DriverStatus string

const (
	DriverStatusActive   DriverStatus = "ACTIVE"
	DriverStatusInactive DriverStatus = "INACTIVE"
	DriverStatusOnTrip   DriverStatus = "ON_TRIP"
)

// Driver is an employed driver in a carrier's fleet, distinct from the
// carrier user account that owns the fleet.
type Driver struct {
	gorm.Model
	OwnerID       uint         `json:"ownerId" gorm:"not null;index"`
	Owner         User         `json:"owner"`
	FullName      string       `json:"fullName" gorm:"not null"`
	PhoneNumber   string       `json:"phoneNumber"`
	Email         string       `json:"email"`
	LicenseNumber string       `json:"licenseNumber"`
	LicenseExpiry *time.Time   `json:"licenseExpiry"`
	MedicalExpiry *time.Time   `json:"medicalExpiry"`
	Status        DriverStatus `json:"status" gorm:"not null;default:'ACTIVE'"`
}

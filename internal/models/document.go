package models

import (
	"time"

	"gorm.io/gorm"
)

// Document is a file shared on a shipment (BOL, insurance certificate,
// permits). Stored in S3 or on local disk, see services.UploadFile.
type Document struct {
	gorm.Model
	ShipmentID uint       `json:"shipmentId" gorm:"not null;index"`
	Shipment   Shipment   `json:"shipment"`
	UploaderID uint       `json:"uploaderId" gorm:"not null"`
	Uploader   User       `json:"uploader"`
	Name       string     `json:"name" gorm:"not null"`
	FileURL    string     `json:"fileUrl" gorm:"not null"`
	DocType    string     `json:"docType"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

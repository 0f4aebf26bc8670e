package models

import "gorm.io/gorm"

// Review is left by one party of a completed shipment about the other.
// One review per reviewer per shipment.
type Review struct {
	gorm.Model
	ShipmentID    uint     `json:"shipmentId" gorm:"not null;index"`
	Shipment      Shipment `json:"shipment"`
	ReviewerID    uint     `json:"reviewerId" gorm:"not null;index"`
	Reviewer      User     `json:"reviewer"`
	RevieweeID    uint     `json:"revieweeId" gorm:"not null;index"`
	Reviewee      User     `json:"reviewee"`
	Rating        float64  `json:"rating" gorm:"not null"`
	Communication float64  `json:"communication"`
	Punctuality   float64  `json:"punctuality"`
	CargoCare     float64  `json:"cargoCare"`
	Comment       string   `json:"comment"`
}

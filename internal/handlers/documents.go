package handlers

import (
	"time"

	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/freightfloo/freightfloo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// shipmentParticipant reports whether the user is the shipper or the
// carrier behind the accepted bid.
func shipmentParticipant(db *gorm.DB, shipment *models.Shipment, userID uint) bool {
	if shipment.UserID == userID {
		return true
	}
	bid, err := assignedCarrier(db, shipment.ID)
	return err == nil && bid.CarrierID == userID
}

// UploadDocument attaches a file (BOL, insurance certificate, permit) to
// a shipment. Multipart form with fields file, name, docType, expiresAt.
func UploadDocument(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipmentID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var shipment models.Shipment
		if result := db.First(&shipment, shipmentID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		if !shipmentParticipant(db, &shipment, userID) {
			c.JSON(403, gin.H{"error": "Only shipment participants can upload documents"})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(400, gin.H{"error": "file is required"})
			return
		}

		name := c.PostForm("name")
		if name == "" {
			name = file.Filename
		}

		fileURL, err := services.UploadFile(file, "documents")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload document"})
			return
		}

		document := models.Document{
			ShipmentID: shipment.ID,
			UploaderID: userID,
			Name:       name,
			FileURL:    fileURL,
			DocType:    c.PostForm("docType"),
		}

		if expiresAt := c.PostForm("expiresAt"); expiresAt != "" {
			if t, err := time.Parse(time.RFC3339, expiresAt); err == nil {
				document.ExpiresAt = &t
			}
		}

		if result := db.Create(&document); result.Error != nil {
			services.DeleteFile(fileURL)
			c.JSON(500, gin.H{"error": "Failed to save document"})
			return
		}

		c.JSON(201, document)
	}
}

// GetShipmentDocuments lists documents on a shipment for its participants.
func GetShipmentDocuments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipmentID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var shipment models.Shipment
		if result := db.First(&shipment, shipmentID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		if !shipmentParticipant(db, &shipment, userID) {
			c.JSON(403, gin.H{"error": "Only shipment participants can view documents"})
			return
		}

		var documents []models.Document
		if result := db.Preload("Uploader").Where("shipment_id = ?", shipment.ID).
			Order("created_at DESC").Find(&documents); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch documents"})
			return
		}

		c.JSON(200, documents)
	}
}

// DeleteDocument removes a document and its stored file. Uploader only.
func DeleteDocument(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		documentID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var document models.Document
		if result := db.First(&document, documentID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Document not found"})
			return
		}

		if document.UploaderID != userID {
			c.JSON(403, gin.H{"error": "You can only delete documents you uploaded"})
			return
		}

		if result := db.Delete(&document); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to delete document"})
			return
		}

		services.DeleteFile(document.FileURL)

		c.JSON(200, gin.H{"message": "Document deleted"})
	}
}

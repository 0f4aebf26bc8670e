package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/freightfloo/freightfloo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// assignedCarrier resolves the carrier behind the accepted bid on a shipment.
func assignedCarrier(db *gorm.DB, shipmentID uint) (*models.Bid, error) {
	var bid models.Bid
	err := db.Where("shipment_id = ? AND status = ?", shipmentID, models.BidStatusAccepted).First(&bid).Error
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

// UpdateTracking advances the tracking sub-state of an assigned shipment.
// Accepts multipart form data so the carrier can attach a proof of
// delivery photo with the DELIVERED update.
func UpdateTracking(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipmentID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		status := models.TrackingStatus(c.PostForm("status"))
		if status == "" {
			c.JSON(400, gin.H{"error": "status is required"})
			return
		}
		switch status {
		case models.TrackingPickedUp, models.TrackingInTransit, models.TrackingDelivered:
		default:
			c.JSON(400, gin.H{"error": fmt.Sprintf("unknown tracking status %q", status)})
			return
		}

		var shipment models.Shipment
		if result := db.First(&shipment, shipmentID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		bid, err := assignedCarrier(db, shipment.ID)
		if err != nil || (bid.CarrierID != userID && shipment.UserID != userID) {
			c.JSON(403, gin.H{"error": "Only the assigned carrier or the shipper can update tracking"})
			return
		}

		if err := shipment.CanTrack(status); err != nil {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		shipment.ApplyTracking(status, now)

		updates := map[string]interface{}{
			"current_status": status,
		}
		switch status {
		case models.TrackingPickedUp:
			updates["pickup_time"] = now
		case models.TrackingInTransit:
			updates["transit_time"] = now
		case models.TrackingDelivered:
			updates["delivery_time"] = now

			// POD photo can arrive with the delivery update
			if file, err := c.FormFile("pod"); err == nil {
				fileURL, err := services.UploadFile(file, "pod")
				if err != nil {
					c.JSON(500, gin.H{"error": "Failed to upload proof of delivery"})
					return
				}
				updates["pod_received"] = true
				updates["pod_image"] = fileURL
				updates["pod_notes"] = c.PostForm("podNotes")
				shipment.PODReceived = true
				shipment.PODImage = fileURL
			}
		}

		if err := db.Model(&models.Shipment{}).Where("id = ?", shipment.ID).Updates(updates).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update tracking status"})
			return
		}

		ctx := context.Background()
		services.PublishShipmentUpdate(ctx, shipment.ID, string(shipment.Status), map[string]interface{}{
			"currentStatus": status,
		})

		// The counterparty gets the update
		recipientID := shipment.UserID
		if userID == shipment.UserID {
			recipientID = bid.CarrierID
		}
		notifier.Hub().SendTrackingUpdated(recipientID, services.TrackingUpdated{
			ShipmentID:    shipment.ID,
			CurrentStatus: string(status),
		})
		notifier.Dispatch(services.Event{
			Type:        models.EventShipmentUpdated,
			RecipientID: recipientID,
			Title:       "Shipment Update",
			Body:        fmt.Sprintf("\"%s\" is now %s.", shipment.Title, status),
			Payload: map[string]interface{}{
				"shipmentId":    shipment.ID,
				"currentStatus": status,
			},
		})

		c.JSON(200, gin.H{"message": "Tracking status updated", "shipment": shipment})
	}
}

// UploadPOD attaches or replaces the proof of delivery on a delivered
// shipment, for carriers that delivered before photographing the POD.
func UploadPOD(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipmentID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var shipment models.Shipment
		if result := db.First(&shipment, shipmentID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		bid, err := assignedCarrier(db, shipment.ID)
		if err != nil || bid.CarrierID != userID {
			c.JSON(403, gin.H{"error": "Only the assigned carrier can upload proof of delivery"})
			return
		}

		if shipment.CurrentStatus != models.TrackingDelivered {
			c.JSON(409, gin.H{"error": "Proof of delivery can only be uploaded after delivery"})
			return
		}

		file, err := c.FormFile("pod")
		if err != nil {
			c.JSON(400, gin.H{"error": "pod file is required"})
			return
		}

		fileURL, err := services.UploadFile(file, "pod")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload proof of delivery"})
			return
		}

		// Replacing an earlier POD removes the old file
		if shipment.PODImage != "" {
			services.DeleteFile(shipment.PODImage)
		}

		if err := db.Model(&models.Shipment{}).Where("id = ?", shipment.ID).Updates(map[string]interface{}{
			"pod_received": true,
			"pod_image":    fileURL,
			"pod_notes":    c.PostForm("podNotes"),
		}).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save proof of delivery"})
			return
		}

		c.JSON(200, gin.H{"message": "Proof of delivery uploaded", "podImage": fileURL})
	}
}

// CompleteShipment closes out a delivered shipment. Requires the
// DELIVERED tracking state and a proof of delivery on file. Either the
// shipper or the assigned carrier may complete.
func CompleteShipment(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipmentID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var shipment models.Shipment
		if result := db.First(&shipment, shipmentID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		bid, err := assignedCarrier(db, shipment.ID)
		if err != nil {
			c.JSON(409, gin.H{"error": "No accepted bid found for this shipment"})
			return
		}

		if shipment.UserID != userID && bid.CarrierID != userID {
			c.JSON(403, gin.H{"error": "Only the shipper or assigned carrier can complete the shipment"})
			return
		}

		if err := shipment.CanComplete(); err != nil {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		if err := db.Model(&models.Shipment{}).Where("id = ?", shipment.ID).Updates(map[string]interface{}{
			"status":          models.ShipmentStatusCompleted,
			"completion_time": now,
		}).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to complete shipment"})
			return
		}

		shipment.Status = models.ShipmentStatusCompleted
		shipment.CompletionTime = &now

		ctx := context.Background()
		services.SetShipmentStatus(ctx, shipment.ID, string(models.ShipmentStatusCompleted))
		services.PublishShipmentUpdate(ctx, shipment.ID, string(models.ShipmentStatusCompleted), nil)

		// Notify the other party
		recipientID := shipment.UserID
		if userID == shipment.UserID {
			recipientID = bid.CarrierID
		}
		notifier.Dispatch(services.Event{
			Type:        models.EventShipmentUpdated,
			RecipientID: recipientID,
			Title:       "Shipment Completed",
			Body:        fmt.Sprintf("\"%s\" has been completed. You can now leave a review.", shipment.Title),
			Payload: map[string]interface{}{
				"shipmentId": shipment.ID,
			},
		})

		c.JSON(200, gin.H{"message": "Shipment completed", "shipment": shipment})
	}
}

package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/freightfloo/freightfloo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateShipmentInput struct {
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description"`
	Origin       string    `json:"origin" binding:"required"`
	Destination  string    `json:"destination" binding:"required"`
	Weight       float64   `json:"weight"`
	Dimensions   string    `json:"dimensions"`
	Category     string    `json:"category"`
	PickupDate   time.Time `json:"pickupDate" binding:"required"`
	DeliveryDate time.Time `json:"deliveryDate" binding:"required"`
	PricingType  string    `json:"pricingType" binding:"required,oneof=auction offer"`
	StartingBid  float64   `json:"startingBid"`
	OfferPrice   float64   `json:"offerPrice"`
}

func CreateShipment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateShipmentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		userID := c.MustGet("userId").(uint)

		pricingType := models.PricingType(input.PricingType)
		if pricingType == models.PricingAuction && input.StartingBid <= 0 {
			c.JSON(400, gin.H{"error": "Auction shipments require a positive starting bid"})
			return
		}
		if pricingType == models.PricingOffer && input.OfferPrice <= 0 {
			c.JSON(400, gin.H{"error": "Offer shipments require a positive offer price"})
			return
		}
		if !input.DeliveryDate.After(input.PickupDate) {
			c.JSON(400, gin.H{"error": "Delivery date must be after pickup date"})
			return
		}

		shipment := models.Shipment{
			UserID:       userID,
			Title:        input.Title,
			Description:  input.Description,
			Origin:       input.Origin,
			Destination:  input.Destination,
			Weight:       input.Weight,
			Dimensions:   input.Dimensions,
			Category:     input.Category,
			PickupDate:   input.PickupDate,
			DeliveryDate: input.DeliveryDate,
			PricingType:  pricingType,
			StartingBid:  input.StartingBid,
			OfferPrice:   input.OfferPrice,
			Status:       models.ShipmentStatusActive,
		}

		if result := db.Create(&shipment); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create shipment"})
			return
		}

		services.SetShipmentStatus(context.Background(), shipment.ID, string(shipment.Status))

		c.JSON(201, shipment)
	}
}

// GetShipments lists open shipments carriers can act on, with optional
// origin/destination/category/pricingType filters.
func GetShipments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var shipments []models.Shipment

		query := db.Preload("User").Where("status = ?", models.ShipmentStatusActive)

		if origin := c.Query("origin"); origin != "" {
			query = query.Where("origin ILIKE ?", "%"+origin+"%")
		}
		if destination := c.Query("destination"); destination != "" {
			query = query.Where("destination ILIKE ?", "%"+destination+"%")
		}
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if pricingType := c.Query("pricingType"); pricingType != "" {
			query = query.Where("pricing_type = ?", pricingType)
		}
		if maxWeight := c.Query("maxWeight"); maxWeight != "" {
			if w, err := strconv.ParseFloat(maxWeight, 64); err == nil {
				query = query.Where("weight <= ?", w)
			}
		}

		if result := query.Order("created_at DESC").Find(&shipments); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch shipments"})
			return
		}

		c.JSON(200, shipments)
	}
}

func GetShipment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipmentID := c.Param("id")

		var shipment models.Shipment
		if result := db.Preload("User").First(&shipment, shipmentID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		response := gin.H{"shipment": shipment}

		// Lowest pending bid comes from the cache, falling back to the
		// database on a miss
		if shipment.PricingType == models.PricingAuction && shipment.Status == models.ShipmentStatusActive {
			ctx := context.Background()
			lowest, err := services.GetLowestBid(ctx, shipment.ID)
			if err != nil {
				var fromDB struct{ Lowest float64 }
				row := db.Model(&models.Bid{}).
					Select("MIN(amount) as lowest").
					Where("shipment_id = ? AND status = ?", shipment.ID, models.BidStatusPending).
					Scan(&fromDB)
				if row.Error == nil && fromDB.Lowest > 0 {
					lowest = fromDB.Lowest
					services.SetLowestBid(ctx, shipment.ID, lowest)
				}
			}
			if lowest > 0 {
				response["currentLowestBid"] = lowest
			}
		}

		c.JSON(200, response)
	}
}

// GetMyShipments returns the authenticated shipper's own shipments,
// optionally filtered by status.
func GetMyShipments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userId").(uint)

		query := db.Where("user_id = ?", userID)
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var shipments []models.Shipment
		if result := query.Order("created_at DESC").Find(&shipments); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch shipments"})
			return
		}

		c.JSON(200, shipments)
	}
}

// GetAssignedShipments returns shipments assigned to the authenticated
// carrier through an accepted bid.
func GetAssignedShipments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userId").(uint)

		var shipments []models.Shipment
		result := db.Preload("User").
			Joins("JOIN bids ON bids.shipment_id = shipments.id").
			Where("bids.carrier_id = ? AND bids.status = ? AND shipments.status IN ?",
				userID, models.BidStatusAccepted,
				[]models.ShipmentStatus{models.ShipmentStatusAssigned, models.ShipmentStatusCompleted}).
			Order("shipments.created_at DESC").
			Find(&shipments)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch shipments"})
			return
		}

		c.JSON(200, shipments)
	}
}

// CancelShipment cancels a shipment that has not been assigned yet.
func CancelShipment(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipmentID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var shipment models.Shipment
		if result := db.First(&shipment, shipmentID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		if shipment.UserID != userID {
			c.JSON(403, gin.H{"error": "Only the shipment owner can cancel it"})
			return
		}

		if err := shipment.CanTransition(models.ShipmentStatusCancelled); err != nil {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}

		tx := db.Begin()

		if err := tx.Model(&shipment).Update("status", models.ShipmentStatusCancelled).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to cancel shipment"})
			return
		}

		// Reject any still-pending bids so carriers are told the load is gone
		var pendingBids []models.Bid
		tx.Where("shipment_id = ? AND status = ?", shipment.ID, models.BidStatusPending).Find(&pendingBids)
		if len(pendingBids) > 0 {
			if err := tx.Model(&models.Bid{}).
				Where("shipment_id = ? AND status = ?", shipment.ID, models.BidStatusPending).
				Update("status", models.BidStatusRejected).Error; err != nil {
				tx.Rollback()
				c.JSON(500, gin.H{"error": "Failed to reject pending bids"})
				return
			}
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to cancel shipment"})
			return
		}

		shipment.Status = models.ShipmentStatusCancelled
		services.ClearLowestBid(context.Background(), shipment.ID)
		services.SetShipmentStatus(context.Background(), shipment.ID, string(models.ShipmentStatusCancelled))
		services.PublishShipmentUpdate(context.Background(), shipment.ID, string(models.ShipmentStatusCancelled), nil)

		for _, bid := range pendingBids {
			notifier.Dispatch(services.Event{
				Type:        models.EventBidRejected,
				RecipientID: bid.CarrierID,
				Title:       "Shipment Cancelled",
				Body:        "The shipment \"" + shipment.Title + "\" was cancelled by the shipper.",
				Payload: map[string]interface{}{
					"shipmentId": shipment.ID,
					"bidId":      bid.ID,
				},
			})
		}

		c.JSON(200, gin.H{"message": "Shipment cancelled successfully", "shipment": shipment})
	}
}

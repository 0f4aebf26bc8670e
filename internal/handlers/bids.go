package handlers

import (
	"context"
	"fmt"

	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/freightfloo/freightfloo-backend/internal/pricing"
	"github.com/freightfloo/freightfloo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SubmitBidInput struct {
	Amount  float64 `json:"amount" binding:"required"`
	Message string  `json:"message"`
}

type DecideBidInput struct {
	Decision string `json:"decision" binding:"required,oneof=accepted rejected"`
}

// claimShipmentStatus moves a shipment from one status to another only
// if it still holds the expected status, reporting whether this
// transaction won the claim. Concurrent accept/offer/payment requests
// race on the same row; the condition makes exactly one of them win.
func claimShipmentStatus(tx *gorm.DB, shipmentID uint, from, to models.ShipmentStatus) (bool, error) {
	result := tx.Model(&models.Shipment{}).
		Where("id = ? AND status = ?", shipmentID, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SubmitBid places a bid on a shipment. On auction shipments the amount
// must undercut the current lowest pending bid by the minimum decrement;
// on offer shipments it must match the offer price exactly and is
// accepted immediately.
func SubmitBid(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SubmitBidInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		shipmentID := c.Param("id")
		carrierID := c.MustGet("userId").(uint)

		var shipment models.Shipment
		if result := db.First(&shipment, shipmentID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		if shipment.UserID == carrierID {
			err := pricing.Authorizationf("you cannot bid on your own shipment")
			c.JSON(pricing.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		if shipment.Status != models.ShipmentStatusActive {
			err := pricing.InsufficientStatef("shipment is no longer open for bids (status: %s)", shipment.Status)
			c.JSON(pricing.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		tx := db.Begin()

		// One open bid per carrier per shipment
		var openCount int64
		if err := tx.Model(&models.Bid{}).
			Where("shipment_id = ? AND carrier_id = ? AND status = ?", shipment.ID, carrierID, models.BidStatusPending).
			Count(&openCount).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to check existing bids"})
			return
		}
		if openCount > 0 {
			tx.Rollback()
			err := pricing.Conflictf("you already have a pending bid on this shipment")
			c.JSON(pricing.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		var pendingBids []models.Bid
		if err := tx.Where("shipment_id = ? AND status = ?", shipment.ID, models.BidStatusPending).
			Find(&pendingBids).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to load existing bids"})
			return
		}

		pendingAmounts := make([]float64, 0, len(pendingBids))
		for _, b := range pendingBids {
			pendingAmounts = append(pendingAmounts, b.Amount)
		}

		outcome, err := pricing.Evaluate(pricing.Context{
			PricingType:    shipment.PricingType,
			StartingBid:    shipment.StartingBid,
			OfferPrice:     shipment.OfferPrice,
			PendingAmounts: pendingAmounts,
		}, input.Amount)
		if err != nil {
			tx.Rollback()
			c.JSON(pricing.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		bid := models.Bid{
			ShipmentID: shipment.ID,
			CarrierID:  carrierID,
			Amount:     input.Amount,
			Message:    input.Message,
			Status:     models.BidStatusPending,
		}

		if outcome == pricing.OutcomeAcceptOffer {
			bid.Status = models.BidStatusAccepted
		}

		if err := tx.Create(&bid).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to place bid"})
			return
		}

		// Matching a fixed offer moves the shipment straight to PENDING.
		// The claim is conditional on the shipment still being ACTIVE so
		// only one of two simultaneous exact-match offers can win.
		if outcome == pricing.OutcomeAcceptOffer {
			won, err := claimShipmentStatus(tx, shipment.ID, models.ShipmentStatusActive, models.ShipmentStatusPending)
			if err != nil {
				tx.Rollback()
				c.JSON(500, gin.H{"error": "Failed to update shipment"})
				return
			}
			if !won {
				tx.Rollback()
				stateErr := pricing.InsufficientStatef("shipment is no longer open for bids")
				c.JSON(pricing.HTTPStatus(stateErr), gin.H{"error": stateErr.Error()})
				return
			}
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to place bid"})
			return
		}

		var carrier models.User
		db.First(&carrier, carrierID)

		ctx := context.Background()
		if shipment.PricingType == models.PricingAuction {
			lowest := bid.Amount
			for _, a := range pendingAmounts {
				if a < lowest {
					lowest = a
				}
			}
			services.SetLowestBid(ctx, shipment.ID, lowest)
		}
		services.PublishBidUpdate(ctx, shipment.ID, bid.ID, bid.Amount, string(bid.Status))

		notifier.Hub().SendBidPlaced(shipment.UserID, services.BidPlaced{
			ShipmentID:  shipment.ID,
			BidID:       bid.ID,
			CarrierID:   carrierID,
			CarrierName: carrier.Username,
			Amount:      bid.Amount,
		})

		if outcome == pricing.OutcomeAcceptOffer {
			services.SetShipmentStatus(ctx, shipment.ID, string(models.ShipmentStatusPending))
			notifier.Dispatch(services.Event{
				Type:        models.EventBidAccepted,
				RecipientID: shipment.UserID,
				Title:       "Offer Accepted",
				Body:        fmt.Sprintf("%s accepted your offer of $%.2f on \"%s\". Complete payment to assign the shipment.", carrier.Username, bid.Amount, shipment.Title),
				Payload: map[string]interface{}{
					"shipmentId": shipment.ID,
					"bidId":      bid.ID,
					"amount":     bid.Amount,
				},
			})
		} else {
			notifier.Dispatch(services.Event{
				Type:        models.EventNewBid,
				RecipientID: shipment.UserID,
				Title:       "New Bid Received",
				Body:        fmt.Sprintf("%s placed a bid of $%.2f on \"%s\".", carrier.Username, bid.Amount, shipment.Title),
				Payload: map[string]interface{}{
					"shipmentId": shipment.ID,
					"bidId":      bid.ID,
					"amount":     bid.Amount,
				},
			})
		}

		c.JSON(201, gin.H{"message": "Bid placed successfully", "bid": bid})
	}
}

// GetShipmentBids lists bids on a shipment. Only the shipment owner sees
// all bids; carriers see their own.
func GetShipmentBids(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipmentID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var shipment models.Shipment
		if result := db.First(&shipment, shipmentID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		query := db.Preload("Carrier").Where("shipment_id = ?", shipment.ID)
		if shipment.UserID != userID {
			query = query.Where("carrier_id = ?", userID)
		}

		var bids []models.Bid
		if result := query.Order("amount ASC").Find(&bids); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bids"})
			return
		}

		c.JSON(200, bids)
	}
}

// GetMyBids lists the authenticated carrier's bids across shipments.
func GetMyBids(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userId").(uint)

		query := db.Preload("Shipment").Where("carrier_id = ?", userID)
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var bids []models.Bid
		if result := query.Order("created_at DESC").Find(&bids); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bids"})
			return
		}

		c.JSON(200, bids)
	}
}

// DecideBid lets the shipment owner accept or reject a pending bid.
// Accepting moves the shipment to PENDING and holds the price until
// payment; other pending bids stay untouched but cannot be acted on
// once the shipment leaves ACTIVE.
func DecideBid(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input DecideBidInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		bidID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var bid models.Bid
		if result := db.Preload("Shipment").First(&bid, bidID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Bid not found"})
			return
		}

		if bid.Shipment.UserID != userID {
			c.JSON(403, gin.H{"error": "Only the shipment owner can decide on bids"})
			return
		}

		if bid.Status != models.BidStatusPending {
			c.JSON(409, gin.H{"error": fmt.Sprintf("Bid has already been %s", bid.Status)})
			return
		}

		if input.Decision == "rejected" {
			if err := db.Model(&bid).Update("status", models.BidStatusRejected).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to reject bid"})
				return
			}

			// The rejected bid may have been the lowest; drop the cached
			// ceiling and let the next read repopulate it
			services.ClearLowestBid(context.Background(), bid.ShipmentID)
			services.PublishBidUpdate(context.Background(), bid.ShipmentID, bid.ID, bid.Amount, string(models.BidStatusRejected))
			notifier.Hub().SendBidDecided(bid.CarrierID, services.BidDecided{
				ShipmentID: bid.ShipmentID,
				BidID:      bid.ID,
				Status:     string(models.BidStatusRejected),
			})
			notifier.Dispatch(services.Event{
				Type:        models.EventBidRejected,
				RecipientID: bid.CarrierID,
				Title:       "Bid Not Accepted",
				Body:        fmt.Sprintf("Your bid of $%.2f on \"%s\" was not accepted.", bid.Amount, bid.Shipment.Title),
				Payload: map[string]interface{}{
					"shipmentId": bid.ShipmentID,
					"bidId":      bid.ID,
				},
			})

			c.JSON(200, gin.H{"message": "Bid rejected"})
			return
		}

		// Accepting requires an open shipment with no other accepted bid
		if bid.Shipment.Status != models.ShipmentStatusActive {
			c.JSON(409, gin.H{"error": fmt.Sprintf("Shipment is no longer open for bid decisions (status: %s)", bid.Shipment.Status)})
			return
		}

		tx := db.Begin()

		var acceptedCount int64
		if err := tx.Model(&models.Bid{}).
			Where("shipment_id = ? AND status = ?", bid.ShipmentID, models.BidStatusAccepted).
			Count(&acceptedCount).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to check existing bids"})
			return
		}
		if acceptedCount > 0 {
			tx.Rollback()
			c.JSON(409, gin.H{"error": "Another bid has already been accepted on this shipment"})
			return
		}

		result := tx.Model(&models.Bid{}).
			Where("id = ? AND status = ?", bid.ID, models.BidStatusPending).
			Update("status", models.BidStatusAccepted)
		if result.Error != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to accept bid"})
			return
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			c.JSON(409, gin.H{"error": "Bid has already been decided"})
			return
		}

		// Conditional on the shipment still being ACTIVE: when two bids
		// on the same shipment are accepted concurrently, only the
		// transaction that flips the row wins
		won, err := claimShipmentStatus(tx, bid.ShipmentID, models.ShipmentStatusActive, models.ShipmentStatusPending)
		if err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to update shipment"})
			return
		}
		if !won {
			tx.Rollback()
			c.JSON(409, gin.H{"error": "Shipment is no longer open for bid decisions"})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to accept bid"})
			return
		}

		bid.Status = models.BidStatusAccepted

		ctx := context.Background()
		services.ClearLowestBid(ctx, bid.ShipmentID)
		services.SetShipmentStatus(ctx, bid.ShipmentID, string(models.ShipmentStatusPending))
		services.PublishBidUpdate(ctx, bid.ShipmentID, bid.ID, bid.Amount, string(models.BidStatusAccepted))

		notifier.Hub().SendBidDecided(bid.CarrierID, services.BidDecided{
			ShipmentID: bid.ShipmentID,
			BidID:      bid.ID,
			Status:     string(models.BidStatusAccepted),
		})
		notifier.Dispatch(services.Event{
			Type:        models.EventBidAccepted,
			RecipientID: bid.CarrierID,
			Title:       "Bid Accepted",
			Body:        fmt.Sprintf("Your bid of $%.2f on \"%s\" was accepted. The shipment will be assigned once payment clears.", bid.Amount, bid.Shipment.Title),
			Payload: map[string]interface{}{
				"shipmentId": bid.ShipmentID,
				"bidId":      bid.ID,
				"amount":     bid.Amount,
			},
		})

		c.JSON(200, gin.H{"message": "Bid accepted", "bid": bid})
	}
}

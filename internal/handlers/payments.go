package handlers

import (
	"context"
	"fmt"

	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/freightfloo/freightfloo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompletePaymentInput struct {
	Amount float64 `json:"amount" binding:"required"`
}

type RequestRefundInput struct {
	// Amount defaults to the full payment when omitted
	Amount float64 `json:"amount"`
	Reason string  `json:"reason" binding:"required"`
}

// CompletePayment records payment for the accepted bid on a PENDING
// shipment. The amount must match the accepted bid exactly; success
// assigns the shipment to the winning carrier.
func CompletePayment(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CompletePaymentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		shipmentID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var shipment models.Shipment
		if result := db.First(&shipment, shipmentID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		if shipment.UserID != userID {
			c.JSON(403, gin.H{"error": "Only the shipment owner can pay for it"})
			return
		}

		if shipment.Status != models.ShipmentStatusPending {
			c.JSON(409, gin.H{"error": fmt.Sprintf("Shipment is not awaiting payment (status: %s)", shipment.Status)})
			return
		}

		var acceptedBid models.Bid
		if result := db.Where("shipment_id = ? AND status = ?", shipment.ID, models.BidStatusAccepted).
			First(&acceptedBid); result.Error != nil {
			c.JSON(409, gin.H{"error": "No accepted bid found for this shipment"})
			return
		}

		if input.Amount != acceptedBid.Amount {
			c.JSON(400, gin.H{"error": fmt.Sprintf("Payment amount must match the accepted bid of $%.2f", acceptedBid.Amount)})
			return
		}

		tx := db.Begin()

		payment := models.Payment{
			Reference:  uuid.New().String(),
			ShipmentID: shipment.ID,
			BidID:      acceptedBid.ID,
			PayerID:    userID,
			Amount:     input.Amount,
			Status:     models.PaymentStatusCompleted,
		}

		if err := tx.Create(&payment).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to record payment"})
			return
		}

		// Payment completion unlocks the ASSIGNED transition
		shipment.PaymentStatus = models.PaymentStateCompleted
		if err := shipment.CanTransition(models.ShipmentStatusAssigned); err != nil {
			tx.Rollback()
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}

		// Conditional on the shipment still being PENDING so a second
		// concurrent payment cannot assign it twice
		result := tx.Model(&models.Shipment{}).
			Where("id = ? AND status = ?", shipment.ID, models.ShipmentStatusPending).
			Updates(map[string]interface{}{
				"payment_status": models.PaymentStateCompleted,
				"status":         models.ShipmentStatusAssigned,
			})
		if result.Error != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to assign shipment"})
			return
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			c.JSON(409, gin.H{"error": "Shipment is no longer awaiting payment"})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to record payment"})
			return
		}

		shipment.Status = models.ShipmentStatusAssigned

		ctx := context.Background()
		services.ClearLowestBid(ctx, shipment.ID)
		services.SetShipmentStatus(ctx, shipment.ID, string(models.ShipmentStatusAssigned))
		services.PublishShipmentUpdate(ctx, shipment.ID, string(models.ShipmentStatusAssigned), map[string]interface{}{
			"paymentReference": payment.Reference,
		})

		notifier.Hub().SendShipmentAssigned(acceptedBid.CarrierID, services.ShipmentAssigned{
			ShipmentID: shipment.ID,
			BidID:      acceptedBid.ID,
			Amount:     acceptedBid.Amount,
		})
		notifier.Dispatch(services.Event{
			Type:        models.EventShipmentAssigned,
			RecipientID: acceptedBid.CarrierID,
			Title:       "Shipment Assigned",
			Body:        fmt.Sprintf("Payment of $%.2f cleared and \"%s\" is now assigned to you.", payment.Amount, shipment.Title),
			Payload: map[string]interface{}{
				"shipmentId": shipment.ID,
				"bidId":      acceptedBid.ID,
				"amount":     payment.Amount,
			},
		})
		notifier.Dispatch(services.Event{
			Type:        models.EventPaymentReceived,
			RecipientID: userID,
			Title:       "Payment Received",
			Body:        fmt.Sprintf("Your payment of $%.2f for \"%s\" was received. Reference: %s", payment.Amount, shipment.Title, payment.Reference),
			Payload: map[string]interface{}{
				"shipmentId": shipment.ID,
				"paymentId":  payment.ID,
				"reference":  payment.Reference,
			},
		})

		c.JSON(201, gin.H{
			"message":  "Payment completed and shipment assigned",
			"payment":  payment,
			"shipment": shipment,
		})
	}
}

// GetMyPayments lists payments made by the authenticated user.
func GetMyPayments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userId").(uint)

		var payments []models.Payment
		if result := db.Preload("Shipment").Where("payer_id = ?", userID).
			Order("created_at DESC").Find(&payments); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch payments"})
			return
		}

		c.JSON(200, payments)
	}
}

// RequestRefund opens a refund request against a completed payment.
// Approval is administrative; the shipment status is not rolled back here.
func RequestRefund(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RequestRefundInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		paymentID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var payment models.Payment
		if result := db.Preload("Shipment").First(&payment, paymentID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Payment not found"})
			return
		}

		if payment.PayerID != userID {
			c.JSON(403, gin.H{"error": "Only the payer can request a refund"})
			return
		}

		if payment.Status != models.PaymentStatusCompleted {
			c.JSON(409, gin.H{"error": fmt.Sprintf("Payment is not refundable (status: %s)", payment.Status)})
			return
		}

		amount := input.Amount
		if amount == 0 {
			amount = payment.Amount
		}
		if amount < 0 || amount > payment.Amount {
			c.JSON(400, gin.H{"error": fmt.Sprintf("Refund amount cannot exceed the payment of $%.2f", payment.Amount)})
			return
		}

		var existing int64
		db.Model(&models.Refund{}).
			Where("payment_id = ? AND status = ?", payment.ID, models.RefundStatusRequested).
			Count(&existing)
		if existing > 0 {
			c.JSON(409, gin.H{"error": "A refund request is already open for this payment"})
			return
		}

		refund := models.Refund{
			PaymentID: payment.ID,
			Amount:    amount,
			Reason:    input.Reason,
			Status:    models.RefundStatusRequested,
		}

		if result := db.Create(&refund); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create refund request"})
			return
		}

		c.JSON(201, gin.H{"message": "Refund request submitted", "refund": refund})
	}
}

// DecideRefund approves or denies a refund request. Admin only. Approval
// marks the payment refunded.
func DecideRefund(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input DecideBidInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if c.GetString("role") != string(models.RoleAdmin) {
			c.JSON(403, gin.H{"error": "Admin account required"})
			return
		}

		refundID := c.Param("id")

		var refund models.Refund
		if result := db.Preload("Payment").Preload("Payment.Shipment").First(&refund, refundID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Refund request not found"})
			return
		}

		if refund.Status != models.RefundStatusRequested {
			c.JSON(409, gin.H{"error": fmt.Sprintf("Refund request has already been %s", refund.Status)})
			return
		}

		tx := db.Begin()

		if input.Decision == "rejected" {
			if err := tx.Model(&refund).Update("status", models.RefundStatusDenied).Error; err != nil {
				tx.Rollback()
				c.JSON(500, gin.H{"error": "Failed to update refund request"})
				return
			}
		} else {
			if err := tx.Model(&refund).Update("status", models.RefundStatusApproved).Error; err != nil {
				tx.Rollback()
				c.JSON(500, gin.H{"error": "Failed to update refund request"})
				return
			}
			if err := tx.Model(&models.Payment{}).Where("id = ?", refund.PaymentID).
				Update("status", models.PaymentStatusRefunded).Error; err != nil {
				tx.Rollback()
				c.JSON(500, gin.H{"error": "Failed to update payment"})
				return
			}
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update refund request"})
			return
		}

		status := models.RefundStatusApproved
		if input.Decision == "rejected" {
			status = models.RefundStatusDenied
		}

		notifier.Dispatch(services.Event{
			Type:        models.EventRefundProcessed,
			RecipientID: refund.Payment.PayerID,
			Title:       "Refund Request Processed",
			Body:        fmt.Sprintf("Your refund request of $%.2f for \"%s\" was %s.", refund.Amount, refund.Payment.Shipment.Title, status),
			Payload: map[string]interface{}{
				"refundId":  refund.ID,
				"paymentId": refund.PaymentID,
				"status":    status,
			},
		})

		c.JSON(200, gin.H{"message": "Refund request processed", "status": status})
	}
}

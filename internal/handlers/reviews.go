package handlers

import (
	"fmt"

	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/freightfloo/freightfloo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	Rating        float64 `json:"rating" binding:"required,min=1,max=5"`
	Communication float64 `json:"communication" binding:"omitempty,min=1,max=5"`
	Punctuality   float64 `json:"punctuality" binding:"omitempty,min=1,max=5"`
	CargoCare     float64 `json:"cargoCare" binding:"omitempty,min=1,max=5"`
	Comment       string  `json:"comment"`
}

// CreateReview lets either party of a completed shipment review the
// other. One review per reviewer per shipment.
func CreateReview(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateReviewInput
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

		if shipment.Status != models.ShipmentStatusCompleted {
			c.JSON(409, gin.H{"error": "Reviews can only be left on completed shipments"})
			return
		}

		bid, err := assignedCarrier(db, shipment.ID)
		if err != nil {
			c.JSON(409, gin.H{"error": "No accepted bid found for this shipment"})
			return
		}

		var revieweeID uint
		switch userID {
		case shipment.UserID:
			revieweeID = bid.CarrierID
		case bid.CarrierID:
			revieweeID = shipment.UserID
		default:
			c.JSON(403, gin.H{"error": "Only shipment participants can leave reviews"})
			return
		}

		var existing int64
		db.Model(&models.Review{}).
			Where("shipment_id = ? AND reviewer_id = ?", shipment.ID, userID).
			Count(&existing)
		if existing > 0 {
			c.JSON(409, gin.H{"error": "You have already reviewed this shipment"})
			return
		}

		review := models.Review{
			ShipmentID:    shipment.ID,
			ReviewerID:    userID,
			RevieweeID:    revieweeID,
			Rating:        input.Rating,
			Communication: input.Communication,
			Punctuality:   input.Punctuality,
			CargoCare:     input.CargoCare,
			Comment:       input.Comment,
		}

		if result := db.Create(&review); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create review"})
			return
		}

		notifier.Dispatch(services.Event{
			Type:        models.EventNewReview,
			RecipientID: revieweeID,
			Title:       "New Review",
			Body:        fmt.Sprintf("You received a %.0f-star review on \"%s\".", input.Rating, shipment.Title),
			Payload: map[string]interface{}{
				"shipmentId": shipment.ID,
				"reviewId":   review.ID,
				"rating":     input.Rating,
			},
		})

		c.JSON(201, gin.H{"message": "Review submitted", "review": review})
	}
}

// GetUserReviews lists reviews received by a user along with aggregate
// ratings.
func GetUserReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")

		var reviews []models.Review
		if result := db.Preload("Reviewer").Preload("Shipment").
			Where("reviewee_id = ?", userID).
			Order("created_at DESC").Find(&reviews); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reviews"})
			return
		}

		var stats struct {
			Average       float64
			Communication float64
			Punctuality   float64
			CargoCare     float64
			Count         int64
		}
		db.Model(&models.Review{}).
			Select(`COALESCE(AVG(rating), 0) as average,
				COALESCE(AVG(NULLIF(communication, 0)), 0) as communication,
				COALESCE(AVG(NULLIF(punctuality, 0)), 0) as punctuality,
				COALESCE(AVG(NULLIF(cargo_care, 0)), 0) as cargo_care,
				COUNT(*) as count`).
			Where("reviewee_id = ?", userID).
			Scan(&stats)

		c.JSON(200, gin.H{
			"reviews": reviews,
			"summary": gin.H{
				"rating":        stats.Average,
				"communication": stats.Communication,
				"punctuality":   stats.Punctuality,
				"cargoCare":     stats.CargoCare,
				"count":         stats.Count,
			},
		})
	}
}

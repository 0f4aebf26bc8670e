package handlers

import (
	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetNotificationPreferences returns the user's preferences, creating
// defaults for accounts that predate the preference table.
func GetNotificationPreferences(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userId").(uint)

		var prefs models.NotificationPreference
		if err := db.Where("user_id = ?", userID).First(&prefs).Error; err != nil {
			prefs = *models.DefaultPreferences(userID)
			if err := db.Create(&prefs).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to create notification preferences"})
				return
			}
		}

		c.JSON(200, prefs)
	}
}

type UpdatePreferencesInput struct {
	PushEnabled          *bool `json:"pushEnabled"`
	BidAlerts            *bool `json:"bidAlerts"`
	PaymentAlerts        *bool `json:"paymentAlerts"`
	ShipmentStatusAlerts *bool `json:"shipmentStatusAlerts"`
	ReviewAlerts         *bool `json:"reviewAlerts"`
	PromotionalMessages  *bool `json:"promotionalMessages"`
	EmailEnabled         *bool `json:"emailEnabled"`
}

func UpdateNotificationPreferences(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdatePreferencesInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		userID := c.MustGet("userId").(uint)

		var prefs models.NotificationPreference
		if err := db.Where("user_id = ?", userID).First(&prefs).Error; err != nil {
			prefs = *models.DefaultPreferences(userID)
			if err := db.Create(&prefs).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to create notification preferences"})
				return
			}
		}

		updates := map[string]interface{}{}
		if input.PushEnabled != nil {
			updates["push_enabled"] = *input.PushEnabled
		}
		if input.BidAlerts != nil {
			updates["bid_alerts"] = *input.BidAlerts
		}
		if input.PaymentAlerts != nil {
			updates["payment_alerts"] = *input.PaymentAlerts
		}
		if input.ShipmentStatusAlerts != nil {
			updates["shipment_status_alerts"] = *input.ShipmentStatusAlerts
		}
		if input.ReviewAlerts != nil {
			updates["review_alerts"] = *input.ReviewAlerts
		}
		if input.PromotionalMessages != nil {
			updates["promotional_messages"] = *input.PromotionalMessages
		}
		if input.EmailEnabled != nil {
			updates["email_enabled"] = *input.EmailEnabled
		}

		if len(updates) > 0 {
			if err := db.Model(&prefs).Updates(updates).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update notification preferences"})
				return
			}
		}

		db.Where("user_id = ?", userID).First(&prefs)
		c.JSON(200, gin.H{"message": "Preferences updated", "preferences": prefs})
	}
}

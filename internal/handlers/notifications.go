package handlers

import (
	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func GetNotifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userId").(uint)

		query := db.Where("recipient_id = ?", userID)
		if c.Query("unread") == "true" {
			query = query.Where("read = ?", false)
		}

		var notifications []models.Notification
		if result := query.Order("created_at DESC").Limit(100).Find(&notifications); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch notifications"})
			return
		}

		c.JSON(200, notifications)
	}
}

func GetUnreadCount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userId").(uint)

		var count int64
		if result := db.Model(&models.Notification{}).
			Where("recipient_id = ? AND read = ?", userID, false).
			Count(&count); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to count notifications"})
			return
		}

		c.JSON(200, gin.H{"count": count})
	}
}

func MarkNotificationRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		notificationID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		result := db.Model(&models.Notification{}).
			Where("id = ? AND recipient_id = ?", notificationID, userID).
			Update("read", true)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update notification"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(404, gin.H{"error": "Notification not found"})
			return
		}

		c.JSON(200, gin.H{"message": "Notification marked as read"})
	}
}

func MarkAllNotificationsRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userId").(uint)

		if result := db.Model(&models.Notification{}).
			Where("recipient_id = ? AND read = ?", userID, false).
			Update("read", true); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update notifications"})
			return
		}

		c.JSON(200, gin.H{"message": "All notifications marked as read"})
	}
}

type FCMTokenInput struct {
	Token string `json:"token" binding:"required"`
}

// RegisterFCMToken stores the device token used for push delivery.
func RegisterFCMToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input FCMTokenInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		userID := c.MustGet("userId").(uint)

		if err := db.Model(&models.User{}).Where("id = ?", userID).
			Update("fcm_token", input.Token).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to register device token"})
			return
		}

		c.JSON(200, gin.H{"message": "Device token registered"})
	}
}

// RemoveFCMToken clears the device token, typically on logout.
func RemoveFCMToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userId").(uint)

		if err := db.Model(&models.User{}).Where("id = ?", userID).
			Update("fcm_token", "").Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to remove device token"})
			return
		}

		c.JSON(200, gin.H{"message": "Device token removed"})
	}
}

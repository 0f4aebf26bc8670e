package handlers

import (
	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateProfileInput struct {
	Username       string `json:"username"`
	Phone          string `json:"phone"`
	CompanyName    string `json:"companyName"`
	CompanyPhone   string `json:"companyPhone"`
	MCNumber       string `json:"mcNumber"`
	DOTNumber      string `json:"dotNumber"`
	EquipmentTypes string `json:"equipmentTypes"`
}

func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userId").(uint)

		var user models.User
		if result := db.First(&user, userID); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		c.JSON(200, user)
	}
}

func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		userID := c.MustGet("userId").(uint)

		var user models.User
		if result := db.First(&user, userID); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		updates := map[string]interface{}{}
		if input.Username != "" {
			updates["username"] = input.Username
		}
		if input.Phone != "" {
			updates["phone_number"] = input.Phone
		}
		if input.CompanyName != "" {
			updates["company_name"] = input.CompanyName
		}
		if input.CompanyPhone != "" {
			updates["company_phone"] = input.CompanyPhone
		}
		if input.MCNumber != "" {
			updates["mc_number"] = input.MCNumber
		}
		if input.DOTNumber != "" {
			updates["dot_number"] = input.DOTNumber
		}
		if input.EquipmentTypes != "" {
			updates["equipment_types"] = input.EquipmentTypes
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update profile"})
				return
			}
		}

		db.First(&user, userID)
		c.JSON(200, gin.H{"message": "Profile updated successfully", "user": user})
	}
}

// GetPublicProfile returns a user's public marketplace profile with
// their aggregate review rating.
func GetPublicProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")

		var user models.User
		if result := db.First(&user, userID); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		var stats struct {
			Average float64
			Count   int64
		}
		db.Model(&models.Review{}).
			Select("COALESCE(AVG(rating), 0) as average, COUNT(*) as count").
			Where("reviewee_id = ?", user.ID).
			Scan(&stats)

		c.JSON(200, gin.H{
			"id":             user.ID,
			"username":       user.Username,
			"role":           user.Role,
			"companyName":    user.CompanyName,
			"mcNumber":       user.MCNumber,
			"dotNumber":      user.DOTNumber,
			"equipmentTypes": user.EquipmentTypes,
			"rating":         stats.Average,
			"reviewCount":    stats.Count,
		})
	}
}

package handlers

import (
	"time"

	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TruckInput struct {
	PlateNumber        string     `json:"plateNumber" binding:"required"`
	Make               string     `json:"make"`
	Model              string     `json:"model"`
	Year               int        `json:"year"`
	EquipmentType      string     `json:"equipmentType"`
	CapacityLbs        float64    `json:"capacityLbs"`
	RegistrationExpiry *time.Time `json:"registrationExpiry"`
	InsuranceExpiry    *time.Time `json:"insuranceExpiry"`
}

type DriverInput struct {
	FullName      string     `json:"fullName" binding:"required"`
	PhoneNumber   string     `json:"phoneNumber"`
	Email         string     `json:"email"`
	LicenseNumber string     `json:"licenseNumber"`
	LicenseExpiry *time.Time `json:"licenseExpiry"`
	MedicalExpiry *time.Time `json:"medicalExpiry"`
}

type TripInput struct {
	TruckID     uint       `json:"truckId" binding:"required"`
	DriverID    uint       `json:"driverId" binding:"required"`
	ShipmentID  *uint      `json:"shipmentId"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Notes       string     `json:"notes"`
}

func CreateTruck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input TruckInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		userID := c.MustGet("userId").(uint)

		truck := models.Truck{
			OwnerID:            userID,
			PlateNumber:        input.PlateNumber,
			Make:               input.Make,
			TruckModel:         input.Model,
			Year:               input.Year,
			EquipmentType:      input.EquipmentType,
			CapacityLbs:        input.CapacityLbs,
			Status:             models.TruckStatusAvailable,
			RegistrationExpiry: input.RegistrationExpiry,
			InsuranceExpiry:    input.InsuranceExpiry,
		}

		if result := db.Create(&truck); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create truck"})
			return
		}

		c.JSON(201, truck)
	}
}

func GetMyTrucks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userId").(uint)

		var trucks []models.Truck
		if result := db.Where("owner_id = ?", userID).Order("created_at DESC").Find(&trucks); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch trucks"})
			return
		}

		c.JSON(200, trucks)
	}
}

func UpdateTruck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		truckID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var truck models.Truck
		if result := db.First(&truck, truckID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Truck not found"})
			return
		}

		if truck.OwnerID != userID {
			c.JSON(403, gin.H{"error": "You can only update your own trucks"})
			return
		}

		var input struct {
			TruckInput
			Status string `json:"status" binding:"omitempty,oneof=AVAILABLE IN_SERVICE MAINTENANCE"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		truck.PlateNumber = input.PlateNumber
		truck.Make = input.Make
		truck.TruckModel = input.Model
		truck.Year = input.Year
		truck.EquipmentType = input.EquipmentType
		truck.CapacityLbs = input.CapacityLbs
		truck.RegistrationExpiry = input.RegistrationExpiry
		truck.InsuranceExpiry = input.InsuranceExpiry
		if input.Status != "" {
			truck.Status = models.TruckStatus(input.Status)
		}

		if result := db.Save(&truck); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update truck"})
			return
		}

		c.JSON(200, truck)
	}
}

func DeleteTruck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		truckID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var truck models.Truck
		if result := db.First(&truck, truckID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Truck not found"})
			return
		}

		if truck.OwnerID != userID {
			c.JSON(403, gin.H{"error": "You can only delete your own trucks"})
			return
		}

		var activeTrips int64
		db.Model(&models.Trip{}).
			Where("truck_id = ? AND status = ?", truck.ID, models.TripStatusActive).
			Count(&activeTrips)
		if activeTrips > 0 {
			c.JSON(409, gin.H{"error": "Truck has an active trip"})
			return
		}

		if result := db.Delete(&truck); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to delete truck"})
			return
		}

		c.JSON(200, gin.H{"message": "Truck deleted"})
	}
}

func CreateDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input DriverInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		userID := c.MustGet("userId").(uint)

		driver := models.Driver{
			OwnerID:       userID,
			FullName:      input.FullName,
			PhoneNumber:   input.PhoneNumber,
			Email:         input.Email,
			LicenseNumber: input.LicenseNumber,
			LicenseExpiry: input.LicenseExpiry,
			MedicalExpiry: input.MedicalExpiry,
			Status:        models.DriverStatusActive,
		}

		if result := db.Create(&driver); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create driver"})
			return
		}

		c.JSON(201, driver)
	}
}

func GetMyDrivers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userId").(uint)

		var drivers []models.Driver
		if result := db.Where("owner_id = ?", userID).Order("full_name ASC").Find(&drivers); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch drivers"})
			return
		}

		c.JSON(200, drivers)
	}
}

func UpdateDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var driver models.Driver
		if result := db.First(&driver, driverID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		if driver.OwnerID != userID {
			c.JSON(403, gin.H{"error": "You can only update your own drivers"})
			return
		}

		var input struct {
			DriverInput
			Status string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE ON_TRIP"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		driver.FullName = input.FullName
		driver.PhoneNumber = input.PhoneNumber
		driver.Email = input.Email
		driver.LicenseNumber = input.LicenseNumber
		driver.LicenseExpiry = input.LicenseExpiry
		driver.MedicalExpiry = input.MedicalExpiry
		if input.Status != "" {
			driver.Status = models.DriverStatus(input.Status)
		}

		if result := db.Save(&driver); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update driver"})
			return
		}

		c.JSON(200, driver)
	}
}

func DeleteDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var driver models.Driver
		if result := db.First(&driver, driverID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		if driver.OwnerID != userID {
			c.JSON(403, gin.H{"error": "You can only delete your own drivers"})
			return
		}

		var activeTrips int64
		db.Model(&models.Trip{}).
			Where("driver_id = ? AND status = ?", driver.ID, models.TripStatusActive).
			Count(&activeTrips)
		if activeTrips > 0 {
			c.JSON(409, gin.H{"error": "Driver has an active trip"})
			return
		}

		if result := db.Delete(&driver); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to delete driver"})
			return
		}

		c.JSON(200, gin.H{"message": "Driver deleted"})
	}
}

// CreateTrip pairs a truck and driver for dispatch, optionally against
// an assigned shipment.
func CreateTrip(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input TripInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		userID := c.MustGet("userId").(uint)

		var truck models.Truck
		if result := db.First(&truck, input.TruckID); result.Error != nil || truck.OwnerID != userID {
			c.JSON(404, gin.H{"error": "Truck not found"})
			return
		}

		var driver models.Driver
		if result := db.First(&driver, input.DriverID); result.Error != nil || driver.OwnerID != userID {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		trip := models.Trip{
			OwnerID:     userID,
			TruckID:     input.TruckID,
			DriverID:    input.DriverID,
			ShipmentID:  input.ShipmentID,
			Origin:      input.Origin,
			Destination: input.Destination,
			StartDate:   input.StartDate,
			EndDate:     input.EndDate,
			Notes:       input.Notes,
			Status:      models.TripStatusOpen,
		}

		if result := db.Create(&trip); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create trip"})
			return
		}

		c.JSON(201, trip)
	}
}

func GetMyTrips(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userId").(uint)

		query := db.Preload("Truck").Preload("Driver").Preload("Shipment").
			Where("owner_id = ?", userID)
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var trips []models.Trip
		if result := query.Order("created_at DESC").Find(&trips); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch trips"})
			return
		}

		c.JSON(200, trips)
	}
}

// UpdateTripStatus moves a trip through OPEN -> ACTIVE -> COMPLETED and
// keeps truck and driver availability in sync.
func UpdateTripStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID := c.Param("id")
		userID := c.MustGet("userId").(uint)

		var input struct {
			Status string `json:"status" binding:"required,oneof=ACTIVE COMPLETED"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var trip models.Trip
		if result := db.First(&trip, tripID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Trip not found"})
			return
		}

		if trip.OwnerID != userID {
			c.JSON(403, gin.H{"error": "You can only update your own trips"})
			return
		}

		newStatus := models.TripStatus(input.Status)
		if (newStatus == models.TripStatusActive && trip.Status != models.TripStatusOpen) ||
			(newStatus == models.TripStatusCompleted && trip.Status != models.TripStatusActive) {
			c.JSON(409, gin.H{"error": "Invalid trip status transition"})
			return
		}

		tx := db.Begin()

		if err := tx.Model(&trip).Update("status", newStatus).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to update trip"})
			return
		}

		truckStatus := models.TruckStatusInService
		driverStatus := models.DriverStatusOnTrip
		if newStatus == models.TripStatusCompleted {
			truckStatus = models.TruckStatusAvailable
			driverStatus = models.DriverStatusActive
		}

		if err := tx.Model(&models.Truck{}).Where("id = ?", trip.TruckID).
			Update("status", truckStatus).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to update truck status"})
			return
		}
		if err := tx.Model(&models.Driver{}).Where("id = ?", trip.DriverID).
			Update("status", driverStatus).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to update driver status"})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update trip"})
			return
		}

		trip.Status = newStatus
		c.JSON(200, trip)
	}
}

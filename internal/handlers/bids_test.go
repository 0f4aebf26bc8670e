package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/freightfloo/freightfloo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Shipment{},
		&models.Bid{},
		&models.Payment{},
		&models.Refund{},
		&models.Notification{},
		&models.NotificationPreference{},
	))

	return db
}

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	services.RedisClient = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		services.RedisClient.Close()
		services.RedisClient = nil
	})
	return mr
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
		IsVerified:   true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// perform invokes a closure handler directly with an authenticated test
// context and a JSON body.
func perform(t *testing.T, handler gin.HandlerFunc, method string, userID uint, role string, paramID uint, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(paramID)}}
	c.Set("userId", userID)
	c.Set("role", role)
	c.Request = httptest.NewRequest(method, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler(c)
	return w
}

func TestClaimShipmentStatusSingleWinner(t *testing.T) {
	db := setupTestDB(t)
	shipper := seedUser(t, db, "shipper", models.RoleShipper)

	shipment := &models.Shipment{
		UserID:      shipper.ID,
		Title:       "Pallets to Denver",
		Origin:      "Chicago, IL",
		Destination: "Denver, CO",
		PricingType: models.PricingAuction,
		StartingBid: 1000,
		Status:      models.ShipmentStatusActive,
	}
	require.NoError(t, db.Create(shipment).Error)

	// Two sessions race to move the same row out of ACTIVE; the condition
	// on the current status lets exactly one through
	won, err := claimShipmentStatus(db, shipment.ID, models.ShipmentStatusActive, models.ShipmentStatusPending)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = claimShipmentStatus(db, shipment.ID, models.ShipmentStatusActive, models.ShipmentStatusPending)
	require.NoError(t, err)
	assert.False(t, won, "second claim must lose once the status moved")
}

func TestDecideBidSecondAcceptConflicts(t *testing.T) {
	db := setupTestDB(t)
	setupTestRedis(t)

	shipper := seedUser(t, db, "shipper", models.RoleShipper)
	carrierA := seedUser(t, db, "carrier-a", models.RoleCarrier)
	carrierB := seedUser(t, db, "carrier-b", models.RoleCarrier)

	shipment := &models.Shipment{
		UserID:      shipper.ID,
		Title:       "Machinery to Austin",
		Origin:      "Tulsa, OK",
		Destination: "Austin, TX",
		PricingType: models.PricingAuction,
		StartingBid: 1000,
		Status:      models.ShipmentStatusActive,
	}
	require.NoError(t, db.Create(shipment).Error)

	bidA := &models.Bid{ShipmentID: shipment.ID, CarrierID: carrierA.ID, Amount: 900, Status: models.BidStatusPending}
	bidB := &models.Bid{ShipmentID: shipment.ID, CarrierID: carrierB.ID, Amount: 880, Status: models.BidStatusPending}
	require.NoError(t, db.Create(bidA).Error)
	require.NoError(t, db.Create(bidB).Error)

	notifier := services.NewNotifier(db, services.NewHub())
	decide := DecideBid(db, notifier)

	w := perform(t, decide, http.MethodPatch, shipper.ID, "SHIPPER", bidA.ID, `{"decision":"accepted"}`)
	require.Equal(t, 200, w.Code, w.Body.String())

	w = perform(t, decide, http.MethodPatch, shipper.ID, "SHIPPER", bidB.ID, `{"decision":"accepted"}`)
	assert.Equal(t, 409, w.Code, w.Body.String())

	var acceptedCount int64
	db.Model(&models.Bid{}).
		Where("shipment_id = ? AND status = ?", shipment.ID, models.BidStatusAccepted).
		Count(&acceptedCount)
	assert.EqualValues(t, 1, acceptedCount, "at most one accepted bid per shipment")

	var reloaded models.Shipment
	require.NoError(t, db.First(&reloaded, shipment.ID).Error)
	assert.Equal(t, models.ShipmentStatusPending, reloaded.Status)
}

func TestOfferMatchOnlyFirstCarrierWins(t *testing.T) {
	db := setupTestDB(t)
	setupTestRedis(t)

	shipper := seedUser(t, db, "shipper", models.RoleShipper)
	carrierA := seedUser(t, db, "carrier-a", models.RoleCarrier)
	carrierB := seedUser(t, db, "carrier-b", models.RoleCarrier)

	shipment := &models.Shipment{
		UserID:      shipper.ID,
		Title:       "Produce to Miami",
		Origin:      "Atlanta, GA",
		Destination: "Miami, FL",
		PricingType: models.PricingOffer,
		OfferPrice:  500,
		Status:      models.ShipmentStatusActive,
	}
	require.NoError(t, db.Create(shipment).Error)

	notifier := services.NewNotifier(db, services.NewHub())
	submit := SubmitBid(db, notifier)

	w := perform(t, submit, http.MethodPost, carrierA.ID, "CARRIER", shipment.ID, `{"amount": 500}`)
	require.Equal(t, 201, w.Code, w.Body.String())

	w = perform(t, submit, http.MethodPost, carrierB.ID, "CARRIER", shipment.ID, `{"amount": 500}`)
	assert.Equal(t, 409, w.Code, w.Body.String())

	var acceptedCount int64
	db.Model(&models.Bid{}).
		Where("shipment_id = ? AND status = ?", shipment.ID, models.BidStatusAccepted).
		Count(&acceptedCount)
	assert.EqualValues(t, 1, acceptedCount)

	var reloaded models.Shipment
	require.NoError(t, db.First(&reloaded, shipment.ID).Error)
	assert.Equal(t, models.ShipmentStatusPending, reloaded.Status)
}

func TestRejectingBidClearsLowestBidCache(t *testing.T) {
	db := setupTestDB(t)
	mr := setupTestRedis(t)

	shipper := seedUser(t, db, "shipper", models.RoleShipper)
	carrier := seedUser(t, db, "carrier", models.RoleCarrier)

	shipment := &models.Shipment{
		UserID:      shipper.ID,
		Title:       "Lumber to Boise",
		Origin:      "Portland, OR",
		Destination: "Boise, ID",
		PricingType: models.PricingAuction,
		StartingBid: 1000,
		Status:      models.ShipmentStatusActive,
	}
	require.NoError(t, db.Create(shipment).Error)

	bid := &models.Bid{ShipmentID: shipment.ID, CarrierID: carrier.ID, Amount: 880, Status: models.BidStatusPending}
	require.NoError(t, db.Create(bid).Error)

	cacheKey := fmt.Sprintf("shipment:lowest_bid:%d", shipment.ID)
	require.NoError(t, mr.Set(cacheKey, "880.00"))

	notifier := services.NewNotifier(db, services.NewHub())
	w := perform(t, DecideBid(db, notifier), http.MethodPatch, shipper.ID, "SHIPPER", bid.ID, `{"decision":"rejected"}`)
	require.Equal(t, 200, w.Code, w.Body.String())

	// A rejected lowest bid must not keep constraining the displayed ceiling
	assert.False(t, mr.Exists(cacheKey), "stale lowest-bid cache must be dropped")
}

package handlers

import (
	"net/http"
	"testing"

	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/freightfloo/freightfloo-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletePaymentAssignsOnce(t *testing.T) {
	db := setupTestDB(t)
	setupTestRedis(t)

	shipper := seedUser(t, db, "shipper", models.RoleShipper)
	carrier := seedUser(t, db, "carrier", models.RoleCarrier)

	shipment := &models.Shipment{
		UserID:      shipper.ID,
		Title:       "Steel coils to Gary",
		Origin:      "Pittsburgh, PA",
		Destination: "Gary, IN",
		PricingType: models.PricingAuction,
		StartingBid: 1000,
		Status:      models.ShipmentStatusPending,
	}
	require.NoError(t, db.Create(shipment).Error)

	bid := &models.Bid{ShipmentID: shipment.ID, CarrierID: carrier.ID, Amount: 900, Status: models.BidStatusAccepted}
	require.NoError(t, db.Create(bid).Error)

	notifier := services.NewNotifier(db, services.NewHub())
	pay := CompletePayment(db, notifier)

	w := perform(t, pay, http.MethodPost, shipper.ID, "SHIPPER", shipment.ID, `{"amount": 900}`)
	require.Equal(t, 201, w.Code, w.Body.String())

	// A second payment attempt finds the shipment already assigned
	w = perform(t, pay, http.MethodPost, shipper.ID, "SHIPPER", shipment.ID, `{"amount": 900}`)
	assert.Equal(t, 409, w.Code, w.Body.String())

	var paymentCount int64
	db.Model(&models.Payment{}).Where("shipment_id = ?", shipment.ID).Count(&paymentCount)
	assert.EqualValues(t, 1, paymentCount, "only one payment row per shipment")

	var reloaded models.Shipment
	require.NoError(t, db.First(&reloaded, shipment.ID).Error)
	assert.Equal(t, models.ShipmentStatusAssigned, reloaded.Status)
	assert.Equal(t, models.PaymentStateCompleted, reloaded.PaymentStatus)
}

func TestCompletePaymentRequiresExactAmount(t *testing.T) {
	db := setupTestDB(t)
	setupTestRedis(t)

	shipper := seedUser(t, db, "shipper", models.RoleShipper)
	carrier := seedUser(t, db, "carrier", models.RoleCarrier)

	shipment := &models.Shipment{
		UserID:      shipper.ID,
		Title:       "Furniture to Nashville",
		Origin:      "Louisville, KY",
		Destination: "Nashville, TN",
		PricingType: models.PricingAuction,
		StartingBid: 800,
		Status:      models.ShipmentStatusPending,
	}
	require.NoError(t, db.Create(shipment).Error)

	bid := &models.Bid{ShipmentID: shipment.ID, CarrierID: carrier.ID, Amount: 700, Status: models.BidStatusAccepted}
	require.NoError(t, db.Create(bid).Error)

	notifier := services.NewNotifier(db, services.NewHub())
	w := perform(t, CompletePayment(db, notifier), http.MethodPost, shipper.ID, "SHIPPER", shipment.ID, `{"amount": 650}`)
	assert.Equal(t, 400, w.Code, w.Body.String())

	var reloaded models.Shipment
	require.NoError(t, db.First(&reloaded, shipment.ID).Error)
	assert.Equal(t, models.ShipmentStatusPending, reloaded.Status)
}

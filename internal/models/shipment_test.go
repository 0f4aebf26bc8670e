package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShipmentLifecycleTransitions(t *testing.T) {
	s := &Shipment{Status: ShipmentStatusActive}

	assert.NoError(t, s.CanTransition(ShipmentStatusPending))
	assert.NoError(t, s.CanTransition(ShipmentStatusCancelled))
	assert.Error(t, s.CanTransition(ShipmentStatusCompleted))
	assert.Error(t, s.CanTransition(ShipmentStatusAssigned))

	s.Status = ShipmentStatusPending
	assert.NoError(t, s.CanTransition(ShipmentStatusCancelled))
	assert.Error(t, s.CanTransition(ShipmentStatusActive))

	s.Status = ShipmentStatusCompleted
	assert.Error(t, s.CanTransition(ShipmentStatusActive))
	assert.True(t, s.IsTerminal())

	s.Status = ShipmentStatusCancelled
	assert.True(t, s.IsTerminal())
}

func TestAssignmentGatedOnPayment(t *testing.T) {
	s := &Shipment{Status: ShipmentStatusPending, PaymentStatus: PaymentStateNone}
	assert.Error(t, s.CanTransition(ShipmentStatusAssigned))

	s.PaymentStatus = PaymentStatePending
	assert.Error(t, s.CanTransition(ShipmentStatusAssigned))

	s.PaymentStatus = PaymentStateCompleted
	assert.NoError(t, s.CanTransition(ShipmentStatusAssigned))
}

func TestTrackingRequiresAssignedShipment(t *testing.T) {
	s := &Shipment{Status: ShipmentStatusActive}
	assert.Error(t, s.CanTrack(TrackingPickedUp))

	s.Status = ShipmentStatusAssigned
	assert.NoError(t, s.CanTrack(TrackingPickedUp))
}

func TestTrackingOrderEnforced(t *testing.T) {
	s := &Shipment{Status: ShipmentStatusAssigned}

	// IN_TRANSIT before PICKED_UP is rejected
	assert.Error(t, s.CanTrack(TrackingInTransit))
	assert.Error(t, s.CanTrack(TrackingDelivered))

	now := time.Now()
	require.NoError(t, s.CanTrack(TrackingPickedUp))
	s.ApplyTracking(TrackingPickedUp, now)
	require.NotNil(t, s.PickupTime)

	// Cannot repeat or skip
	assert.Error(t, s.CanTrack(TrackingPickedUp))
	assert.Error(t, s.CanTrack(TrackingDelivered))

	require.NoError(t, s.CanTrack(TrackingInTransit))
	s.ApplyTracking(TrackingInTransit, now)
	require.NotNil(t, s.TransitTime)

	require.NoError(t, s.CanTrack(TrackingDelivered))
	s.ApplyTracking(TrackingDelivered, now)
	require.NotNil(t, s.DeliveryTime)

	// Terminal tracking state
	assert.Error(t, s.CanTrack(TrackingPickedUp))
}

func TestCompletionRequiresDeliveryAndPOD(t *testing.T) {
	s := &Shipment{
		Status:        ShipmentStatusAssigned,
		PaymentStatus: PaymentStateCompleted,
		CurrentStatus: TrackingInTransit,
	}
	assert.Error(t, s.CanComplete())

	s.CurrentStatus = TrackingDelivered
	assert.Error(t, s.CanComplete(), "POD not yet received")

	s.PODReceived = true
	assert.NoError(t, s.CanComplete())
}

func TestRoleCapabilities(t *testing.T) {
	shipper := &User{Role: RoleShipper}
	carrier := &User{Role: RoleCarrier}
	both := &User{Role: RoleBoth}
	admin := &User{Role: RoleAdmin}

	assert.True(t, shipper.CanShip())
	assert.False(t, shipper.CanCarry())
	assert.False(t, carrier.CanShip())
	assert.True(t, carrier.CanCarry())
	assert.True(t, both.CanShip())
	assert.True(t, both.CanCarry())
	assert.True(t, admin.CanShip())
	assert.True(t, admin.CanCarry())
}

func TestPreferencesGateEvents(t *testing.T) {
	p := DefaultPreferences(1)
	assert.True(t, p.AllowsEvent(EventNewBid))

	p.BidAlerts = false
	assert.False(t, p.AllowsEvent(EventNewBid))
	assert.False(t, p.AllowsEvent(EventBidAccepted))
	assert.True(t, p.AllowsEvent(EventPaymentReceived))

	p.PaymentAlerts = false
	assert.False(t, p.AllowsEvent(EventRefundProcessed))
	assert.True(t, p.AllowsEvent(EventShipmentAssigned))
}

package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, id uint, role string) *Client {
	return &Client{
		ID:   id,
		Role: role,
		Send: make(chan []byte, 8),
		Hub:  hub,
	}
}

func TestHubRegisterAndCount(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	hub.Register(newTestClient(hub, 1, "SHIPPER"))
	hub.Register(newTestClient(hub, 2, "CARRIER"))

	assert.Eventually(t, func() bool {
		return hub.GetConnectedClients() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestBroadcastToUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	shipper := newTestClient(hub, 1, "SHIPPER")
	carrier := newTestClient(hub, 2, "CARRIER")
	hub.Register(shipper)
	hub.Register(carrier)

	require.Eventually(t, func() bool {
		return hub.GetConnectedClients() == 2
	}, time.Second, 10*time.Millisecond)

	hub.BroadcastToUser(2, []byte("hello"))

	select {
	case msg := <-carrier.Send:
		assert.Equal(t, "hello", string(msg))
	case <-time.After(time.Second):
		t.Fatal("carrier did not receive message")
	}

	select {
	case <-shipper.Send:
		t.Fatal("shipper should not receive a message addressed to the carrier")
	default:
	}
}

func TestBroadcastToRole(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	carrierA := newTestClient(hub, 2, "CARRIER")
	carrierB := newTestClient(hub, 3, "CARRIER")
	shipper := newTestClient(hub, 1, "SHIPPER")
	hub.Register(carrierA)
	hub.Register(carrierB)
	hub.Register(shipper)

	require.Eventually(t, func() bool {
		return hub.GetConnectedClients() == 3
	}, time.Second, 10*time.Millisecond)

	hub.BroadcastToRole("CARRIER", []byte("new load"))

	for _, carrier := range []*Client{carrierA, carrierB} {
		select {
		case msg := <-carrier.Send:
			assert.Equal(t, "new load", string(msg))
		case <-time.After(time.Second):
			t.Fatal("carrier did not receive role broadcast")
		}
	}

	select {
	case <-shipper.Send:
		t.Fatal("shipper should not receive carrier broadcast")
	default:
	}
}

func TestSendBidPlacedEnvelope(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	owner := newTestClient(hub, 1, "SHIPPER")
	hub.Register(owner)

	require.Eventually(t, func() bool {
		return hub.GetConnectedClients() == 1
	}, time.Second, 10*time.Millisecond)

	hub.SendBidPlaced(1, BidPlaced{
		ShipmentID:  4,
		BidID:       9,
		CarrierID:   2,
		CarrierName: "roadrunner",
		Amount:      880,
	})

	select {
	case raw := <-owner.Send:
		var msg WebSocketMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "bid_placed", msg.Type)

		data := msg.Data.(map[string]interface{})
		assert.Equal(t, float64(4), data["shipmentId"])
		assert.Equal(t, float64(880), data["amount"])
		assert.Equal(t, "roadrunner", data["carrierName"])
	case <-time.After(time.Second):
		t.Fatal("owner did not receive bid event")
	}
}

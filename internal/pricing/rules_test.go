package pricing

import (
	"testing"

	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auctionCtx(startingBid float64, pending ...float64) Context {
	return Context{
		PricingType:    models.PricingAuction,
		StartingBid:    startingBid,
		PendingAmounts: pending,
	}
}

func TestAuctionFirstBidMustBeBelowStartingPrice(t *testing.T) {
	ctx := auctionCtx(1000)

	_, err := Evaluate(ctx, 1000)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
	assert.Contains(t, err.Error(), "1000.00")

	_, err = Evaluate(ctx, 1200)
	assert.Error(t, err)

	outcome, err := Evaluate(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, OutcomeBid, outcome)
}

func TestAuctionBidMustUndercutLowestByDecrement(t *testing.T) {
	ctx := auctionCtx(1000, 900)

	// Needs to be at most 880
	_, err := Evaluate(ctx, 890)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
	assert.Contains(t, err.Error(), "880.00")

	outcome, err := Evaluate(ctx, 880)
	require.NoError(t, err)
	assert.Equal(t, OutcomeBid, outcome)

	outcome, err = Evaluate(ctx, 850)
	require.NoError(t, err)
	assert.Equal(t, OutcomeBid, outcome)
}

func TestAuctionUsesLowestPendingBid(t *testing.T) {
	ctx := auctionCtx(1000, 950, 870, 920)

	// Lowest pending is 870, ceiling is 850
	_, err := Evaluate(ctx, 860)
	assert.Error(t, err)

	_, err = Evaluate(ctx, 850)
	assert.NoError(t, err)
}

func TestAuctionRejectedBidsDoNotConstrain(t *testing.T) {
	// A carrier with a previously rejected bid resubmits; only pending
	// amounts matter, so just the starting price applies.
	ctx := auctionCtx(1000)

	_, err := Evaluate(ctx, 990)
	assert.NoError(t, err)
}

func TestOfferRequiresExactAmount(t *testing.T) {
	ctx := Context{PricingType: models.PricingOffer, OfferPrice: 500}

	_, err := Evaluate(ctx, 450)
	require.Error(t, err)
	assert.IsType(t, &AmountMismatchError{}, err)

	_, err = Evaluate(ctx, 550)
	assert.Error(t, err)

	outcome, err := Evaluate(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAcceptOffer, outcome)
}

func TestNonPositiveAmountRejected(t *testing.T) {
	_, err := Evaluate(auctionCtx(1000), 0)
	assert.Error(t, err)

	_, err = Evaluate(auctionCtx(1000), -50)
	assert.Error(t, err)
}

func TestUnknownPricingTypeRejected(t *testing.T) {
	_, err := Evaluate(Context{PricingType: "flat"}, 100)
	assert.Error(t, err)
}

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, 400, HTTPStatus(Validationf("bad input")))
	assert.Equal(t, 400, HTTPStatus(AmountMismatchf("wrong amount")))
	assert.Equal(t, 403, HTTPStatus(Authorizationf("not yours")))
	assert.Equal(t, 409, HTTPStatus(Conflictf("already pending")))
	assert.Equal(t, 409, HTTPStatus(InsufficientStatef("wrong state")))
	assert.Equal(t, 500, HTTPStatus(assert.AnError))
}

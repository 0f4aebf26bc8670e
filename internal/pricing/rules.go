// Package pricing validates proposed bid amounts against a shipment's
// pricing rules. Evaluation is pure: it never touches the database, the
// caller supplies the pricing context and the set of competing bids.
package pricing

import (
	"github.com/freightfloo/freightfloo-backend/internal/models"
)

// MinimumDecrement is the amount a new auction bid must undercut the
// current lowest pending bid by.
const MinimumDecrement = 20.0

// Outcome tells the caller how a valid submission should be handled.
type Outcome int

const (
	// OutcomeBid opens a competitive PENDING bid.
	OutcomeBid Outcome = iota
	// OutcomeAcceptOffer short-circuits bidding: the carrier matched a
	// fixed offer price and the bid is accepted immediately.
	OutcomeAcceptOffer
)

// Context is the pricing state of a shipment at evaluation time.
type Context struct {
	PricingType models.PricingType
	StartingBid float64
	OfferPrice  float64
	// Amounts of bids currently PENDING on the shipment. Rejected bids
	// do not constrain new submissions.
	PendingAmounts []float64
}

// Evaluate validates a proposed bid amount. On success it returns whether
// the submission is a competitive bid or an immediate offer acceptance.
func Evaluate(ctx Context, amount float64) (Outcome, error) {
	if amount <= 0 {
		return OutcomeBid, Validationf("bid amount must be greater than zero")
	}

	switch ctx.PricingType {
	case models.PricingOffer:
		if amount != ctx.OfferPrice {
			return OutcomeBid, AmountMismatchf("this shipment has a fixed price of $%.2f", ctx.OfferPrice)
		}
		return OutcomeAcceptOffer, nil

	case models.PricingAuction:
		if amount >= ctx.StartingBid {
			return OutcomeBid, Validationf("bid must be lower than the starting price of $%.2f", ctx.StartingBid)
		}
		if len(ctx.PendingAmounts) > 0 {
			lowest := ctx.PendingAmounts[0]
			for _, a := range ctx.PendingAmounts[1:] {
				if a < lowest {
					lowest = a
				}
			}
			ceiling := lowest - MinimumDecrement
			if amount > ceiling {
				return OutcomeBid, Validationf("bid must be $%.2f or lower to beat the current lowest bid of $%.2f", ceiling, lowest)
			}
		}
		return OutcomeBid, nil
	}

	return OutcomeBid, Validationf("unknown pricing type %q", ctx.PricingType)
}

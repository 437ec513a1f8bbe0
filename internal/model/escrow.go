package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Escrow is the custody record for an auction's current leading bid.
// At most one escrow exists per auction at any time; it is replaced
// when the auction's leader changes and removed at settlement.
type Escrow struct {
	AuctionID AuctionID
	Bidder    Account
	Amount    decimal.Decimal
}

// OwedBalance is a refund or payout that could not be delivered when it
// fell due. It is retained until the owed party withdraws it explicitly,
// so one party's failed delivery never blocks the auction.
type OwedBalance struct {
	Account   Account
	AuctionID AuctionID
	Amount    decimal.Decimal
	CreatedAt time.Time
}

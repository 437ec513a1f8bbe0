package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionID uniquely identifies an auction.
// IDs are assigned sequentially from 1; the high-water mark is the auction count.
type AuctionID uint64

// Auction represents a single ascending-price auction for one player
type Auction struct {
	ID       AuctionID
	PlayerID PlayerID

	// EndTime is the absolute bidding deadline. Bids at or after this
	// instant are rejected whether or not the auction has been ended.
	EndTime time.Time

	// HighestBid starts at zero; the player's base price is a validation
	// floor, not a starting value.
	HighestBid    decimal.Decimal
	HighestBidder Account // empty while no bid has been accepted

	Ended  bool
	Winner Account // set at settlement if a qualifying bid existed

	CreatedAt time.Time
}

// HasBid reports whether any bid has been accepted
func (a *Auction) HasBid() bool {
	return a.HighestBidder != ""
}

// DeadlinePassed reports whether the bidding deadline has been reached at now
func (a *Auction) DeadlinePassed(now time.Time) bool {
	return !now.Before(a.EndTime)
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType identifies the type of event
type EventType string

const (
	EventPlayerRegistered EventType = "player_registered"
	EventAuctionCreated   EventType = "auction_created"
	EventBidPlaced        EventType = "bid_placed"
	EventRefundOwed       EventType = "refund_owed"
	EventAuctionSettled   EventType = "auction_settled"
	EventRefundWithdrawn  EventType = "refund_withdrawn"
)

// Event is an observable log entry appended with the state change that
// produced it. Events are recorded, never pushed; callers re-query to
// observe them.
type Event struct {
	Type      EventType
	Timestamp time.Time
	PlayerID  PlayerID  // zero for events not tied to a player
	AuctionID AuctionID // zero for events not tied to an auction
	Account   Account   // the account that triggered or is affected
	Amount    decimal.Decimal
}

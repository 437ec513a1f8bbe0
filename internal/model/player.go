package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlayerID uniquely identifies a registered player.
// IDs are assigned sequentially from 1 and never reused.
type PlayerID uint64

// Account identifies a caller: the admin, a bidder, or a payout target
type Account string

// Player represents a player listed on the auction house
type Player struct {
	ID        PlayerID
	Name      string
	Position  string
	BasePrice decimal.Decimal // floor for any winning bid on this player

	// Auctioned is true while an auction for this player is open.
	// Cleared on settlement so the player re-enters availability.
	Auctioned bool

	CreatedAt time.Time
}

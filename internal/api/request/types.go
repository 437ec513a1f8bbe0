package request

import "github.com/shopspring/decimal"

// RegisterPlayerRequest is the request body for registering a player
type RegisterPlayerRequest struct {
	Name      string          `json:"name"`
	Position  string          `json:"position"`
	BasePrice decimal.Decimal `json:"base_price"`
}

// CreateAuctionRequest is the request body for opening an auction
type CreateAuctionRequest struct {
	PlayerID        uint64 `json:"player_id"`
	DurationSeconds int64  `json:"duration_seconds"`
}

// PlaceBidRequest is the request body for placing a bid.
// Value is the attached funds; it must equal Amount.
type PlaceBidRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Value  decimal.Decimal `json:"value"`
}

package response

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcoot/playerauction-go/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID        uint64          `json:"id"`
	Name      string          `json:"name"`
	Position  string          `json:"position"`
	BasePrice decimal.Decimal `json:"base_price"`
	Auctioned bool            `json:"auctioned"`
	CreatedAt time.Time       `json:"created_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:        uint64(p.ID),
		Name:      p.Name,
		Position:  p.Position,
		BasePrice: p.BasePrice,
		Auctioned: p.Auctioned,
		CreatedAt: p.CreatedAt,
	}
}

// PlayerList wraps a list of players
type PlayerList struct {
	Players []Player `json:"players"`
}

// PlayerListFromModel converts a slice of model players
func PlayerListFromModel(players []*model.Player) PlayerList {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return PlayerList{Players: out}
}

// Auction represents an auction in API responses
type Auction struct {
	ID            uint64          `json:"id"`
	PlayerID      uint64          `json:"player_id"`
	EndTime       time.Time       `json:"end_time"`
	HighestBid    decimal.Decimal `json:"highest_bid"`
	HighestBidder *string         `json:"highest_bidder"`
	Ended         bool            `json:"ended"`
	Winner        *string         `json:"winner,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AuctionFromModel converts a model.Auction to a response Auction
func AuctionFromModel(a *model.Auction) Auction {
	var bidder, winner *string
	if a.HighestBidder != "" {
		b := string(a.HighestBidder)
		bidder = &b
	}
	if a.Winner != "" {
		w := string(a.Winner)
		winner = &w
	}
	return Auction{
		ID:            uint64(a.ID),
		PlayerID:      uint64(a.PlayerID),
		EndTime:       a.EndTime,
		HighestBid:    a.HighestBid,
		HighestBidder: bidder,
		Ended:         a.Ended,
		Winner:        winner,
		CreatedAt:     a.CreatedAt,
	}
}

// AuctionList wraps a list of auctions with the id high-water mark
type AuctionList struct {
	Count    uint64    `json:"count"`
	Auctions []Auction `json:"auctions"`
}

// AuctionListFromModel converts a slice of model auctions
func AuctionListFromModel(count uint64, auctions []*model.Auction) AuctionList {
	out := make([]Auction, len(auctions))
	for i, a := range auctions {
		out[i] = AuctionFromModel(a)
	}
	return AuctionList{Count: count, Auctions: out}
}

// Admin is the response for the admin identity endpoint
type Admin struct {
	Admin string `json:"admin"`
}

// Withdrawal is the response for a successful owed-balance withdrawal
type Withdrawal struct {
	AuctionID uint64          `json:"auction_id"`
	Account   string          `json:"account"`
	Amount    decimal.Decimal `json:"amount"`
}

// WithdrawalFromModel converts a delivered owed balance
func WithdrawalFromModel(o *model.OwedBalance) Withdrawal {
	return Withdrawal{
		AuctionID: uint64(o.AuctionID),
		Account:   string(o.Account),
		Amount:    o.Amount,
	}
}

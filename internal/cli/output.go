package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case PlayerList:
		o.printPlayerList(v)
	case Auction:
		o.printAuction(v)
	case AuctionList:
		o.printAuctionList(v)
	case AdminResult:
		fmt.Printf("Admin: %s\n", v.Admin)
	case WithdrawalResult:
		fmt.Printf("Withdrawn %s from auction %d to %s\n", v.Amount, v.AuctionID, v.Account)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Position  string `json:"position"`
	BasePrice string `json:"base_price"`
	Auctioned bool   `json:"auctioned"`
}

// PlayerList response type
type PlayerList struct {
	Players []Player `json:"players"`
}

// Auction response type
type Auction struct {
	ID            uint64  `json:"id"`
	PlayerID      uint64  `json:"player_id"`
	EndTime       string  `json:"end_time"`
	HighestBid    string  `json:"highest_bid"`
	HighestBidder *string `json:"highest_bidder"`
	Ended         bool    `json:"ended"`
	Winner        *string `json:"winner,omitempty"`
}

// AuctionList response type
type AuctionList struct {
	Count    uint64    `json:"count"`
	Auctions []Auction `json:"auctions"`
}

// AdminResult response type
type AdminResult struct {
	Admin string `json:"admin"`
}

// WithdrawalResult response type
type WithdrawalResult struct {
	AuctionID uint64 `json:"auction_id"`
	Account   string `json:"account"`
	Amount    string `json:"amount"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	status := "available"
	if p.Auctioned {
		status = "under auction"
	}
	fmt.Printf("Player %d: %s (%s)\n", p.ID, p.Name, p.Position)
	fmt.Printf("Base Price: %s\n", p.BasePrice)
	fmt.Printf("Status: %s\n", status)
}

func (o *Output) printPlayerList(l PlayerList) {
	fmt.Printf("Players (%d):\n", len(l.Players))
	for _, p := range l.Players {
		status := ""
		if p.Auctioned {
			status = " [under auction]"
		}
		fmt.Printf("  %d. %s (%s) - base %s%s\n", p.ID, p.Name, p.Position, p.BasePrice, status)
	}
}

func (o *Output) printAuction(a Auction) {
	fmt.Printf("Auction %d (player %d)\n", a.ID, a.PlayerID)
	fmt.Printf("Ends: %s\n", a.EndTime)
	if a.HighestBidder != nil {
		fmt.Printf("Highest Bid: %s by %s\n", a.HighestBid, *a.HighestBidder)
	} else {
		fmt.Println("Highest Bid: none")
	}
	if a.Ended {
		if a.Winner != nil {
			fmt.Printf("Ended - winner: %s\n", *a.Winner)
		} else {
			fmt.Println("Ended - no winner")
		}
	}
}

func (o *Output) printAuctionList(l AuctionList) {
	fmt.Printf("Auctions (%d):\n", l.Count)
	for _, a := range l.Auctions {
		state := "active"
		if a.Ended {
			state = "ended"
		}
		bid := "no bids"
		if a.HighestBidder != nil {
			bid = fmt.Sprintf("%s by %s", a.HighestBid, *a.HighestBidder)
		}
		fmt.Printf("  %d. player %d - %s - %s\n", a.ID, a.PlayerID, state, bid)
	}
}

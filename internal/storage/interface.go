package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mcoot/playerauction-go/internal/model"
)

// Storage defines the interface for data persistence.
//
// Reads return copies of the stored records, so callers may mutate the
// result freely and nothing is visible to other readers until one of the
// Apply methods commits. Each Apply method persists every write of a
// single engine operation as one unit: a backend must make all of the
// writes observable together or none of them.
type Storage interface {
	// Player operations
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	ListPlayers(ctx context.Context, max int) ([]*model.Player, error)
	PlayerCount(ctx context.Context) (uint64, error)

	// Auction operations
	GetAuction(ctx context.Context, id model.AuctionID) (*model.Auction, error)
	AuctionCount(ctx context.Context) (uint64, error)

	// Escrow operations. GetEscrow returns nil with no error when no
	// funds are held for the auction.
	GetEscrow(ctx context.Context, auctionID model.AuctionID) (*model.Escrow, error)
	GetOwed(ctx context.Context, account model.Account, auctionID model.AuctionID) (*model.OwedBalance, error)

	// Balance book: funds delivered to an account (refunds and payouts)
	Balance(ctx context.Context, account model.Account) (decimal.Decimal, error)
	Credit(ctx context.Context, account model.Account, amount decimal.Decimal) error

	// Event log, oldest first, truncated to limit (limit <= 0 means all)
	Events(ctx context.Context, limit int) ([]model.Event, error)

	// ApplyRegistration commits a new player record
	ApplyRegistration(ctx context.Context, player *model.Player, ev model.Event) error

	// ApplyAuctionCreate commits a new auction together with the player's
	// updated auctioned flag
	ApplyAuctionCreate(ctx context.Context, auction *model.Auction, player *model.Player, ev model.Event) error

	// ApplyBid commits the auction's new leader, the replacement escrow,
	// and, when the previous leader's refund could not be delivered, the
	// owed balance retained for them. An owed amount adds to any balance
	// already retained for the same account and auction.
	ApplyBid(ctx context.Context, auction *model.Auction, escrow *model.Escrow, owed *model.OwedBalance, evs []model.Event) error

	// ApplySettlement commits the ended auction and the player's cleared
	// flag, removes the auction's escrow, and retains an owed balance when
	// the payout could not be delivered. An owed amount adds to any balance
	// already retained for the same account and auction.
	ApplySettlement(ctx context.Context, auction *model.Auction, player *model.Player, owed *model.OwedBalance, ev model.Event) error

	// ApplyWithdrawal removes a delivered owed balance
	ApplyWithdrawal(ctx context.Context, owed *model.OwedBalance, ev model.Event) error
}

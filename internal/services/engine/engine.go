package engine

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcoot/playerauction-go/internal/model"
	"github.com/mcoot/playerauction-go/internal/services/access"
	"github.com/mcoot/playerauction-go/internal/services/auction"
	"github.com/mcoot/playerauction-go/internal/services/escrow"
	"github.com/mcoot/playerauction-go/internal/services/registry"
	"github.com/mcoot/playerauction-go/internal/storage"
)

// Engine is the façade external callers invoke. It composes access
// control, the player registry, the auction ledger, and bid escrow, and
// serializes every mutating operation behind one mutex so all mutations
// are applied in a single total order. Reads observe the most recently
// committed state and never block writers.
type Engine struct {
	mu sync.Mutex

	storage  storage.Storage
	access   *access.Service
	registry *registry.Service
	auctions *auction.Controller
	escrow   *escrow.Service
}

// New creates a new settlement engine
func New(
	storage storage.Storage,
	accessService *access.Service,
	registryService *registry.Service,
	auctionController *auction.Controller,
	escrowService *escrow.Service,
) *Engine {
	return &Engine{
		storage:  storage,
		access:   accessService,
		registry: registryService,
		auctions: auctionController,
		escrow:   escrowService,
	}
}

// RegisterPlayer registers a new player (admin only)
func (e *Engine) RegisterPlayer(ctx context.Context, caller model.Account, name, position string, basePrice decimal.Decimal) (*model.Player, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Register(ctx, caller, name, position, basePrice)
}

// CreateAuction opens an auction for a player (admin only)
func (e *Engine) CreateAuction(ctx context.Context, caller model.Account, playerID model.PlayerID, duration time.Duration) (*model.Auction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.auctions.Create(ctx, caller, playerID, duration)
}

// PlaceBid records a new leading bid with attached funds
func (e *Engine) PlaceBid(ctx context.Context, auctionID model.AuctionID, bidder model.Account, amount, attached decimal.Decimal) (*model.Auction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.auctions.PlaceBid(ctx, auctionID, bidder, amount, attached)
}

// EndAuction settles an auction
func (e *Engine) EndAuction(ctx context.Context, caller model.Account, auctionID model.AuctionID) (*model.Auction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.auctions.End(ctx, caller, auctionID)
}

// Withdraw delivers an owed refund to the party it is retained for
func (e *Engine) Withdraw(ctx context.Context, caller model.Account, auctionID model.AuctionID) (*model.OwedBalance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.escrow.Withdraw(ctx, caller, auctionID)
}

// GetPlayer retrieves a player by id
func (e *Engine) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return e.registry.Get(ctx, id)
}

// ListPlayers returns up to max players in registration order
func (e *Engine) ListPlayers(ctx context.Context, max int) ([]*model.Player, error) {
	return e.registry.List(ctx, max)
}

// GetAuction retrieves an auction by id
func (e *Engine) GetAuction(ctx context.Context, id model.AuctionID) (*model.Auction, error) {
	return e.auctions.Get(ctx, id)
}

// AuctionCount returns the auction id high-water mark
func (e *Engine) AuctionCount(ctx context.Context) (uint64, error) {
	return e.auctions.Count(ctx)
}

// Admin returns the configured admin account
func (e *Engine) Admin() model.Account {
	return e.access.Admin()
}

// Balance returns the delivered funds recorded for an account
func (e *Engine) Balance(ctx context.Context, account model.Account) (decimal.Decimal, error) {
	return e.storage.Balance(ctx, account)
}

// Events returns the event log, oldest first, truncated to limit
func (e *Engine) Events(ctx context.Context, limit int) ([]model.Event, error) {
	return e.storage.Events(ctx, limit)
}

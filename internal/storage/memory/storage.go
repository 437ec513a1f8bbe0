package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mcoot/playerauction-go/internal/model"
	"github.com/mcoot/playerauction-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players  map[model.PlayerID]*model.Player
	auctions map[model.AuctionID]*model.Auction
	escrows  map[model.AuctionID]*model.Escrow
	owed     map[owedKey]*model.OwedBalance
	balances map[model.Account]decimal.Decimal
	events   []model.Event

	playerCount  uint64
	auctionCount uint64
}

type owedKey struct {
	account   model.Account
	auctionID model.AuctionID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:  make(map[model.PlayerID]*model.Player),
		auctions: make(map[model.AuctionID]*model.Auction),
		escrows:  make(map[model.AuctionID]*model.Escrow),
		owed:     make(map[owedKey]*model.OwedBalance),
		balances: make(map[model.Account]decimal.Decimal),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	cp := *player
	return &cp, nil
}

func (s *Storage) ListPlayers(ctx context.Context, max int) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if max <= 0 {
		return nil, nil
	}

	n := int(s.playerCount)
	if max < n {
		n = max
	}

	// IDs are sequential from 1, so registration order is ID order
	players := make([]*model.Player, 0, n)
	for id := model.PlayerID(1); id <= model.PlayerID(n); id++ {
		cp := *s.players[id]
		players = append(players, &cp)
	}
	return players, nil
}

func (s *Storage) PlayerCount(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerCount, nil
}

// Auction operations

func (s *Storage) GetAuction(ctx context.Context, id model.AuctionID) (*model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	auction, ok := s.auctions[id]
	if !ok {
		return nil, model.ErrAuctionNotFound
	}
	cp := *auction
	return &cp, nil
}

func (s *Storage) AuctionCount(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auctionCount, nil
}

// Escrow operations

func (s *Storage) GetEscrow(ctx context.Context, auctionID model.AuctionID) (*model.Escrow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	escrow, ok := s.escrows[auctionID]
	if !ok {
		return nil, nil
	}
	cp := *escrow
	return &cp, nil
}

func (s *Storage) GetOwed(ctx context.Context, account model.Account, auctionID model.AuctionID) (*model.OwedBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owed, ok := s.owed[owedKey{account, auctionID}]
	if !ok {
		return nil, model.ErrNoBalanceOwed
	}
	cp := *owed
	return &cp, nil
}

// Balance book

func (s *Storage) Balance(ctx context.Context, account model.Account) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[account], nil
}

func (s *Storage) Credit(ctx context.Context, account model.Account, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[account] = s.balances[account].Add(amount)
	return nil
}

// Event log

func (s *Storage) Events(ctx context.Context, limit int) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.events)
	if limit > 0 && limit < n {
		n = limit
	}
	events := make([]model.Event, n)
	copy(events, s.events[:n])
	return events, nil
}

// Atomic commits

func (s *Storage) ApplyRegistration(ctx context.Context, player *model.Player, ev model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *player
	s.players[player.ID] = &cp
	if uint64(player.ID) > s.playerCount {
		s.playerCount = uint64(player.ID)
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *Storage) ApplyAuctionCreate(ctx context.Context, auction *model.Auction, player *model.Player, ev model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acp := *auction
	pcp := *player
	s.auctions[auction.ID] = &acp
	s.players[player.ID] = &pcp
	if uint64(auction.ID) > s.auctionCount {
		s.auctionCount = uint64(auction.ID)
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *Storage) ApplyBid(ctx context.Context, auction *model.Auction, escrow *model.Escrow, owed *model.OwedBalance, evs []model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acp := *auction
	ecp := *escrow
	s.auctions[auction.ID] = &acp
	s.escrows[auction.ID] = &ecp
	if owed != nil {
		s.putOwed(owed)
	}
	s.events = append(s.events, evs...)
	return nil
}

func (s *Storage) ApplySettlement(ctx context.Context, auction *model.Auction, player *model.Player, owed *model.OwedBalance, ev model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acp := *auction
	pcp := *player
	s.auctions[auction.ID] = &acp
	s.players[player.ID] = &pcp
	delete(s.escrows, auction.ID)
	if owed != nil {
		s.putOwed(owed)
	}
	s.events = append(s.events, ev)
	return nil
}

// putOwed records an owed balance, adding to any balance already retained
// for the same account and auction. Must be called with the lock held.
func (s *Storage) putOwed(owed *model.OwedBalance) {
	key := owedKey{owed.Account, owed.AuctionID}
	cp := *owed
	if prev, ok := s.owed[key]; ok {
		cp.Amount = cp.Amount.Add(prev.Amount)
		cp.CreatedAt = prev.CreatedAt
	}
	s.owed[key] = &cp
}

func (s *Storage) ApplyWithdrawal(ctx context.Context, owed *model.OwedBalance, ev model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.owed, owedKey{owed.Account, owed.AuctionID})
	s.events = append(s.events, ev)
	return nil
}

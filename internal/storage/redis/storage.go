package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/mcoot/playerauction-go/internal/model"
	"github.com/mcoot/playerauction-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Multi-entity commits are issued as one transactional pipeline so each
// engine operation lands in a single round trip.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) ListPlayers(ctx context.Context, max int) ([]*model.Player, error) {
	if max <= 0 {
		return nil, nil
	}

	count, err := s.PlayerCount(ctx)
	if err != nil {
		return nil, err
	}

	n := count
	if uint64(max) < n {
		n = uint64(max)
	}
	if n == 0 {
		return nil, nil
	}

	// IDs are sequential from 1, so a single MGET preserves registration order
	keys := make([]string, n)
	for i := uint64(0); i < n; i++ {
		keys[i] = playerKey(model.PlayerID(i + 1))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, n)
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			return nil, model.ErrPlayerNotFound
		}
		var player model.Player
		if err := json.Unmarshal([]byte(str), &player); err != nil {
			return nil, err
		}
		players = append(players, &player)
	}
	return players, nil
}

func (s *Storage) PlayerCount(ctx context.Context) (uint64, error) {
	return s.getCount(ctx, playerCountKey())
}

// Auction operations

func (s *Storage) GetAuction(ctx context.Context, id model.AuctionID) (*model.Auction, error) {
	data, err := s.client.Get(ctx, auctionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAuctionNotFound
		}
		return nil, err
	}

	var auction model.Auction
	if err := json.Unmarshal(data, &auction); err != nil {
		return nil, err
	}
	return &auction, nil
}

func (s *Storage) AuctionCount(ctx context.Context) (uint64, error) {
	return s.getCount(ctx, auctionCountKey())
}

// Escrow operations

func (s *Storage) GetEscrow(ctx context.Context, auctionID model.AuctionID) (*model.Escrow, error) {
	data, err := s.client.Get(ctx, escrowKey(auctionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var escrow model.Escrow
	if err := json.Unmarshal(data, &escrow); err != nil {
		return nil, err
	}
	return &escrow, nil
}

func (s *Storage) GetOwed(ctx context.Context, account model.Account, auctionID model.AuctionID) (*model.OwedBalance, error) {
	data, err := s.client.Get(ctx, owedKey(account, auctionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNoBalanceOwed
		}
		return nil, err
	}

	var owed model.OwedBalance
	if err := json.Unmarshal(data, &owed); err != nil {
		return nil, err
	}
	return &owed, nil
}

// Balance book

func (s *Storage) Balance(ctx context.Context, account model.Account) (decimal.Decimal, error) {
	val, err := s.client.Get(ctx, balanceKey(account)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return decimal.NewFromString(val)
}

func (s *Storage) Credit(ctx context.Context, account model.Account, amount decimal.Decimal) error {
	// Read-modify-write; engine operations are serialized by the caller
	balance, err := s.Balance(ctx, account)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, balanceKey(account), balance.Add(amount).String(), 0).Err()
}

// Event log

func (s *Storage) Events(ctx context.Context, limit int) ([]model.Event, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	values, err := s.client.LRange(ctx, eventsKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	events := make([]model.Event, 0, len(values))
	for _, v := range values {
		var ev model.Event
		if err := json.Unmarshal([]byte(v), &ev); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// Atomic commits

func (s *Storage) ApplyRegistration(ctx context.Context, player *model.Player, ev model.Event) error {
	playerData, err := json.Marshal(player)
	if err != nil {
		return err
	}
	evData, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, playerKey(player.ID), playerData, 0)
	pipe.Set(ctx, playerCountKey(), strconv.FormatUint(uint64(player.ID), 10), 0)
	pipe.RPush(ctx, eventsKey(), evData)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ApplyAuctionCreate(ctx context.Context, auction *model.Auction, player *model.Player, ev model.Event) error {
	auctionData, err := json.Marshal(auction)
	if err != nil {
		return err
	}
	playerData, err := json.Marshal(player)
	if err != nil {
		return err
	}
	evData, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, auctionKey(auction.ID), auctionData, 0)
	pipe.Set(ctx, auctionCountKey(), strconv.FormatUint(uint64(auction.ID), 10), 0)
	pipe.Set(ctx, playerKey(player.ID), playerData, 0)
	pipe.RPush(ctx, eventsKey(), evData)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ApplyBid(ctx context.Context, auction *model.Auction, escrow *model.Escrow, owed *model.OwedBalance, evs []model.Event) error {
	auctionData, err := json.Marshal(auction)
	if err != nil {
		return err
	}
	escrowData, err := json.Marshal(escrow)
	if err != nil {
		return err
	}

	var owedData []byte
	if owed != nil {
		if owedData, err = s.mergeOwed(ctx, owed); err != nil {
			return err
		}
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, auctionKey(auction.ID), auctionData, 0)
	pipe.Set(ctx, escrowKey(auction.ID), escrowData, 0)
	if owed != nil {
		pipe.Set(ctx, owedKey(owed.Account, owed.AuctionID), owedData, 0)
	}
	for _, ev := range evs {
		evData, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		pipe.RPush(ctx, eventsKey(), evData)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ApplySettlement(ctx context.Context, auction *model.Auction, player *model.Player, owed *model.OwedBalance, ev model.Event) error {
	auctionData, err := json.Marshal(auction)
	if err != nil {
		return err
	}
	playerData, err := json.Marshal(player)
	if err != nil {
		return err
	}
	evData, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	var owedData []byte
	if owed != nil {
		if owedData, err = s.mergeOwed(ctx, owed); err != nil {
			return err
		}
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, auctionKey(auction.ID), auctionData, 0)
	pipe.Set(ctx, playerKey(player.ID), playerData, 0)
	pipe.Del(ctx, escrowKey(auction.ID))
	if owed != nil {
		pipe.Set(ctx, owedKey(owed.Account, owed.AuctionID), owedData, 0)
	}
	pipe.RPush(ctx, eventsKey(), evData)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ApplyWithdrawal(ctx context.Context, owed *model.OwedBalance, ev model.Event) error {
	evData, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, owedKey(owed.Account, owed.AuctionID))
	pipe.RPush(ctx, eventsKey(), evData)
	_, err = pipe.Exec(ctx)
	return err
}

// mergeOwed folds any balance already retained for the same account and
// auction into the record and returns it marshalled. The read happens
// outside the pipeline; engine operations are serialized by the caller.
func (s *Storage) mergeOwed(ctx context.Context, owed *model.OwedBalance) ([]byte, error) {
	merged := *owed
	prev, err := s.GetOwed(ctx, owed.Account, owed.AuctionID)
	if err != nil && !errors.Is(err, model.ErrNoBalanceOwed) {
		return nil, err
	}
	if prev != nil {
		merged.Amount = merged.Amount.Add(prev.Amount)
		merged.CreatedAt = prev.CreatedAt
	}
	return json.Marshal(&merged)
}

// getCount reads an integer counter key, treating a missing key as zero
func (s *Storage) getCount(ctx context.Context, key string) (uint64, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return strconv.ParseUint(val, 10, 64)
}

package registry

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mcoot/playerauction-go/internal/dependencies/clock"
	"github.com/mcoot/playerauction-go/internal/model"
	"github.com/mcoot/playerauction-go/internal/services/access"
	"github.com/mcoot/playerauction-go/internal/storage"
)

// Service owns player records: admin-gated registration plus lookup and
// listing queries. Records are never deleted; the auctioned flag is the
// only field that changes after registration.
type Service struct {
	storage storage.Storage
	access  *access.Service
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new player registry service
func New(storage storage.Storage, access *access.Service, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		access:  access,
		clock:   clk,
		logger:  logger,
	}
}

// Register creates a new player record with the next sequential id.
// Only the admin may register players; the base price must not be negative.
func (s *Service) Register(ctx context.Context, caller model.Account, name, position string, basePrice decimal.Decimal) (*model.Player, error) {
	if err := s.access.Require(caller); err != nil {
		return nil, err
	}
	if basePrice.IsNegative() {
		return nil, model.ErrNegativePrice
	}

	count, err := s.storage.PlayerCount(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:        model.PlayerID(count + 1),
		Name:      name,
		Position:  position,
		BasePrice: basePrice,
		Auctioned: false,
		CreatedAt: now,
	}

	ev := model.Event{
		Type:      model.EventPlayerRegistered,
		Timestamp: now,
		PlayerID:  player.ID,
		Account:   caller,
		Amount:    basePrice,
	}

	if err := s.storage.ApplyRegistration(ctx, player, ev); err != nil {
		s.logger.Error("failed to register player",
			slog.Uint64("player_id", uint64(player.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("player registered",
		slog.Uint64("player_id", uint64(player.ID)),
		slog.String("name", player.Name),
		slog.String("position", player.Position),
		slog.String("base_price", basePrice.String()),
	)

	return player, nil
}

// Get retrieves a player by id
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// List returns up to max players in registration order.
// A non-positive max yields an empty list.
func (s *Service) List(ctx context.Context, max int) ([]*model.Player, error) {
	return s.storage.ListPlayers(ctx, max)
}

// MarkAuctioned flips a player's auctioned flag and returns the updated
// record without persisting it; the caller commits the change atomically
// with its own writes. Setting true while already true is rejected.
func (s *Service) MarkAuctioned(ctx context.Context, id model.PlayerID, value bool) (*model.Player, error) {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if value && player.Auctioned {
		return nil, model.ErrAlreadyAuctioned
	}

	player.Auctioned = value
	return player, nil
}

package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playerauction-go/internal/dependencies/mocks"
	"github.com/mcoot/playerauction-go/internal/model"
	"github.com/mcoot/playerauction-go/internal/services/access"
	"github.com/mcoot/playerauction-go/internal/storage/memory"
)

const admin = model.Account("0xadmin")

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	s.service = New(s.storage, access.New(admin), s.clock, logger)
	s.ctx = context.Background()
}

func (s *ServiceSuite) register(name, position, basePrice string) *model.Player {
	price, err := decimal.NewFromString(basePrice)
	s.Require().NoError(err)
	player, err := s.service.Register(s.ctx, admin, name, position, price)
	s.Require().NoError(err)
	return player
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	player := s.register("Alvarez", "Forward", "1.0")

	s.Equal(model.PlayerID(1), player.ID)
	s.Equal("Alvarez", player.Name)
	s.Equal("Forward", player.Position)
	s.True(player.BasePrice.Equal(decimal.RequireFromString("1.0")))
	s.False(player.Auctioned)
	s.Equal(s.clock.Now(), player.CreatedAt)
}

func (s *ServiceSuite) TestRegisterAssignsSequentialIDs() {
	first := s.register("Alvarez", "Forward", "1.0")
	second := s.register("Benitez", "Keeper", "0.5")
	third := s.register("Costa", "Midfield", "2.0")

	s.Equal(model.PlayerID(1), first.ID)
	s.Equal(model.PlayerID(2), second.ID)
	s.Equal(model.PlayerID(3), third.ID)
}

func (s *ServiceSuite) TestRegisterIsPersisted() {
	player := s.register("Alvarez", "Forward", "1.0")

	retrieved, err := s.service.Get(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(player.Name, retrieved.Name)
	s.True(retrieved.BasePrice.Equal(player.BasePrice))
}

func (s *ServiceSuite) TestRegisterEmitsEvent() {
	s.register("Alvarez", "Forward", "1.0")

	events, err := s.storage.Events(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(model.EventPlayerRegistered, events[0].Type)
	s.Equal(model.PlayerID(1), events[0].PlayerID)
}

func (s *ServiceSuite) TestRegisterRejectsNonAdmin() {
	_, err := s.service.Register(s.ctx, "0xbidder", "Alvarez", "Forward", decimal.NewFromInt(1))
	s.ErrorIs(err, model.ErrNotAuthorized)

	// Nothing persisted
	count, err := s.storage.PlayerCount(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *ServiceSuite) TestRegisterRejectsNegativeBasePrice() {
	_, err := s.service.Register(s.ctx, admin, "Alvarez", "Forward", decimal.NewFromInt(-1))
	s.ErrorIs(err, model.ErrNegativePrice)
}

func (s *ServiceSuite) TestRegisterAllowsZeroBasePrice() {
	player := s.register("Alvarez", "Forward", "0")
	s.True(player.BasePrice.IsZero())
}

// Get tests

func (s *ServiceSuite) TestGetUnknownPlayerFails() {
	_, err := s.service.Get(s.ctx, 42)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// List tests

func (s *ServiceSuite) TestListReturnsRegistrationOrder() {
	s.register("Alvarez", "Forward", "1.0")
	s.register("Benitez", "Keeper", "0.5")
	s.register("Costa", "Midfield", "2.0")

	players, err := s.service.List(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("Alvarez", players[0].Name)
	s.Equal("Benitez", players[1].Name)
	s.Equal("Costa", players[2].Name)
}

func (s *ServiceSuite) TestListTruncatesToMax() {
	s.register("Alvarez", "Forward", "1.0")
	s.register("Benitez", "Keeper", "0.5")
	s.register("Costa", "Midfield", "2.0")

	players, err := s.service.List(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(players, 2)
}

func (s *ServiceSuite) TestListWithNonPositiveMaxIsEmpty() {
	s.register("Alvarez", "Forward", "1.0")

	players, err := s.service.List(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(players)

	players, err = s.service.List(s.ctx, -5)
	s.Require().NoError(err)
	s.Empty(players)
}

// MarkAuctioned tests

func (s *ServiceSuite) TestMarkAuctionedFlipsFlagWithoutPersisting() {
	player := s.register("Alvarez", "Forward", "1.0")

	marked, err := s.service.MarkAuctioned(s.ctx, player.ID, true)
	s.Require().NoError(err)
	s.True(marked.Auctioned)

	// Not committed until the caller applies its own writes
	stored, err := s.service.Get(s.ctx, player.ID)
	s.Require().NoError(err)
	s.False(stored.Auctioned)
}

func (s *ServiceSuite) TestMarkAuctionedRejectsDoubleMark() {
	player := s.register("Alvarez", "Forward", "1.0")

	marked, err := s.service.MarkAuctioned(s.ctx, player.ID, true)
	s.Require().NoError(err)

	ev := model.Event{Type: model.EventAuctionCreated, Timestamp: s.clock.Now(), PlayerID: player.ID}
	auction := &model.Auction{ID: 1, PlayerID: player.ID, EndTime: s.clock.Now().Add(time.Hour)}
	s.Require().NoError(s.storage.ApplyAuctionCreate(s.ctx, auction, marked, ev))

	_, err = s.service.MarkAuctioned(s.ctx, player.ID, true)
	s.ErrorIs(err, model.ErrAlreadyAuctioned)
}

func (s *ServiceSuite) TestMarkAuctionedUnknownPlayerFails() {
	_, err := s.service.MarkAuctioned(s.ctx, 42, true)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

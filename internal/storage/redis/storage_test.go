package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playerauction-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: s.mini.Addr()})
	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) TearDownTest() {
	s.Require().NoError(s.storage.Close())
}

func (s *StorageSuite) registerPlayer(id model.PlayerID, name string) *model.Player {
	player := &model.Player{
		ID:        id,
		Name:      name,
		Position:  "Batsman",
		BasePrice: decimal.RequireFromString("1.0"),
		CreatedAt: s.now,
	}
	ev := model.Event{Type: model.EventPlayerRegistered, Timestamp: s.now, PlayerID: id}
	s.Require().NoError(s.storage.ApplyRegistration(s.ctx, player, ev))
	return player
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, 1)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestPlayerRoundTrip() {
	s.registerPlayer(1, "Sachin")

	got, err := s.storage.GetPlayer(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("Sachin", got.Name)
	s.Equal("Batsman", got.Position)
	s.True(got.BasePrice.Equal(decimal.RequireFromString("1.0")))
	s.True(got.CreatedAt.Equal(s.now))

	count, err := s.storage.PlayerCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(1), count)
}

func (s *StorageSuite) TestCountsDefaultToZero() {
	players, err := s.storage.PlayerCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(0), players)

	auctions, err := s.storage.AuctionCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(0), auctions)
}

func (s *StorageSuite) TestListPlayersRegistrationOrderAndTruncation() {
	s.registerPlayer(1, "Sachin")
	s.registerPlayer(2, "Dhoni")
	s.registerPlayer(3, "Kohli")

	players, err := s.storage.ListPlayers(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("Sachin", players[0].Name)
	s.Equal("Kohli", players[2].Name)

	players, err = s.storage.ListPlayers(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal("Dhoni", players[1].Name)

	players, err = s.storage.ListPlayers(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestAuctionRoundTrip() {
	player := s.registerPlayer(1, "Sachin")
	player.Auctioned = true
	auction := &model.Auction{
		ID:         1,
		PlayerID:   1,
		EndTime:    s.now.Add(time.Hour),
		HighestBid: decimal.Zero,
		CreatedAt:  s.now,
	}
	ev := model.Event{Type: model.EventAuctionCreated, Timestamp: s.now, AuctionID: 1}
	s.Require().NoError(s.storage.ApplyAuctionCreate(s.ctx, auction, player, ev))

	got, err := s.storage.GetAuction(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(model.PlayerID(1), got.PlayerID)
	s.True(got.EndTime.Equal(s.now.Add(time.Hour)))
	s.True(got.HighestBid.IsZero())

	gotPlayer, err := s.storage.GetPlayer(s.ctx, 1)
	s.Require().NoError(err)
	s.True(gotPlayer.Auctioned)

	count, err := s.storage.AuctionCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(1), count)
}

func (s *StorageSuite) TestGetAuctionNotFound() {
	_, err := s.storage.GetAuction(s.ctx, 1)
	s.ErrorIs(err, model.ErrAuctionNotFound)
}

func (s *StorageSuite) TestGetEscrowAbsentIsNil() {
	esc, err := s.storage.GetEscrow(s.ctx, 1)
	s.Require().NoError(err)
	s.Nil(esc)
}

func (s *StorageSuite) TestApplyBidCommitsAuctionEscrowOwedAndEvents() {
	auction := &model.Auction{
		ID:            1,
		HighestBid:    decimal.RequireFromString("2.0"),
		HighestBidder: "0xbob",
		EndTime:       s.now.Add(time.Hour),
	}
	esc := &model.Escrow{AuctionID: 1, Bidder: "0xbob", Amount: decimal.RequireFromString("2.0")}
	owed := &model.OwedBalance{Account: "0xalice", AuctionID: 1, Amount: decimal.RequireFromString("1.5"), CreatedAt: s.now}
	evs := []model.Event{
		{Type: model.EventRefundOwed, Timestamp: s.now, AuctionID: 1, Account: "0xalice"},
		{Type: model.EventBidPlaced, Timestamp: s.now, AuctionID: 1, Account: "0xbob"},
	}
	s.Require().NoError(s.storage.ApplyBid(s.ctx, auction, esc, owed, evs))

	gotEsc, err := s.storage.GetEscrow(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().NotNil(gotEsc)
	s.Equal(model.Account("0xbob"), gotEsc.Bidder)
	s.True(gotEsc.Amount.Equal(decimal.RequireFromString("2.0")))

	gotOwed, err := s.storage.GetOwed(s.ctx, "0xalice", 1)
	s.Require().NoError(err)
	s.True(gotOwed.Amount.Equal(decimal.RequireFromString("1.5")))

	events, err := s.storage.Events(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(model.EventRefundOwed, events[0].Type)
	s.Equal(model.EventBidPlaced, events[1].Type)
}

func (s *StorageSuite) TestApplySettlementDeletesEscrow() {
	auction := &model.Auction{ID: 1, HighestBid: decimal.RequireFromString("2.0"), HighestBidder: "0xbob", EndTime: s.now}
	esc := &model.Escrow{AuctionID: 1, Bidder: "0xbob", Amount: decimal.RequireFromString("2.0")}
	s.Require().NoError(s.storage.ApplyBid(s.ctx, auction, esc, nil, nil))

	player := s.registerPlayer(1, "Sachin")
	auction.Ended = true
	auction.Winner = "0xbob"
	ev := model.Event{Type: model.EventAuctionSettled, Timestamp: s.now, AuctionID: 1}
	s.Require().NoError(s.storage.ApplySettlement(s.ctx, auction, player, nil, ev))

	gotEsc, err := s.storage.GetEscrow(s.ctx, 1)
	s.Require().NoError(err)
	s.Nil(gotEsc)

	gotAuction, err := s.storage.GetAuction(s.ctx, 1)
	s.Require().NoError(err)
	s.True(gotAuction.Ended)
	s.Equal(model.Account("0xbob"), gotAuction.Winner)
}

func (s *StorageSuite) TestOwedBalanceAccumulatesAcrossCommits() {
	auction := &model.Auction{ID: 1, EndTime: s.now}
	esc := &model.Escrow{AuctionID: 1, Bidder: "0xbob", Amount: decimal.RequireFromString("2.0")}
	first := &model.OwedBalance{Account: "0xalice", AuctionID: 1, Amount: decimal.RequireFromString("1.0"), CreatedAt: s.now}
	s.Require().NoError(s.storage.ApplyBid(s.ctx, auction, esc, first, nil))

	second := &model.OwedBalance{Account: "0xalice", AuctionID: 1, Amount: decimal.RequireFromString("2.0"), CreatedAt: s.now.Add(time.Minute)}
	s.Require().NoError(s.storage.ApplyBid(s.ctx, auction, esc, second, nil))

	owed, err := s.storage.GetOwed(s.ctx, "0xalice", 1)
	s.Require().NoError(err)
	s.True(owed.Amount.Equal(decimal.RequireFromString("3.0")))
	s.True(owed.CreatedAt.Equal(s.now))

	// Settlement commits add to the same key
	player := s.registerPlayer(1, "Sachin")
	third := &model.OwedBalance{Account: "0xalice", AuctionID: 1, Amount: decimal.RequireFromString("0.5"), CreatedAt: s.now}
	ev := model.Event{Type: model.EventAuctionSettled, Timestamp: s.now, AuctionID: 1}
	s.Require().NoError(s.storage.ApplySettlement(s.ctx, auction, player, third, ev))

	owed, err = s.storage.GetOwed(s.ctx, "0xalice", 1)
	s.Require().NoError(err)
	s.True(owed.Amount.Equal(decimal.RequireFromString("3.5")))
}

func (s *StorageSuite) TestApplyWithdrawalDeletesOwed() {
	auction := &model.Auction{ID: 1, EndTime: s.now}
	esc := &model.Escrow{AuctionID: 1, Bidder: "0xbob", Amount: decimal.RequireFromString("2.0")}
	owed := &model.OwedBalance{Account: "0xalice", AuctionID: 1, Amount: decimal.RequireFromString("1.5"), CreatedAt: s.now}
	s.Require().NoError(s.storage.ApplyBid(s.ctx, auction, esc, owed, nil))

	ev := model.Event{Type: model.EventRefundWithdrawn, Timestamp: s.now, AuctionID: 1, Account: "0xalice"}
	s.Require().NoError(s.storage.ApplyWithdrawal(s.ctx, owed, ev))

	_, err := s.storage.GetOwed(s.ctx, "0xalice", 1)
	s.ErrorIs(err, model.ErrNoBalanceOwed)
}

func (s *StorageSuite) TestCreditAccumulatesBalance() {
	s.Require().NoError(s.storage.Credit(s.ctx, "0xalice", decimal.RequireFromString("1.5")))
	s.Require().NoError(s.storage.Credit(s.ctx, "0xalice", decimal.RequireFromString("0.5")))

	balance, err := s.storage.Balance(s.ctx, "0xalice")
	s.Require().NoError(err)
	s.True(balance.Equal(decimal.RequireFromString("2.0")))

	balance, err = s.storage.Balance(s.ctx, "0xbob")
	s.Require().NoError(err)
	s.True(balance.IsZero())
}

func (s *StorageSuite) TestEventsTruncation() {
	s.registerPlayer(1, "Sachin")
	s.registerPlayer(2, "Dhoni")
	s.registerPlayer(3, "Kohli")

	events, err := s.storage.Events(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(model.PlayerID(1), events[0].PlayerID)
	s.Equal(model.PlayerID(2), events[1].PlayerID)
}

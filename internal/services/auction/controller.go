package auction

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcoot/playerauction-go/internal/dependencies/clock"
	"github.com/mcoot/playerauction-go/internal/model"
	"github.com/mcoot/playerauction-go/internal/services/access"
	"github.com/mcoot/playerauction-go/internal/services/escrow"
	"github.com/mcoot/playerauction-go/internal/services/registry"
	"github.com/mcoot/playerauction-go/internal/storage"
)

// Controller manages the auction lifecycle state machine. Each auction
// moves from active to ended exactly once; the highest bid only ever
// increases; the deadline, not the explicit end call, is the authoritative
// cutoff for accepting bids.
type Controller struct {
	storage  storage.Storage
	registry *registry.Service
	escrow   *escrow.Service
	access   *access.Service
	clock    clock.Clock
	logger   *slog.Logger
}

// NewController creates a new auction controller
func NewController(
	storage storage.Storage,
	registry *registry.Service,
	escrowService *escrow.Service,
	access *access.Service,
	clk clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		registry: registry,
		escrow:   escrowService,
		access:   access,
		clock:    clk,
		logger:   logger,
	}
}

// Create opens an auction for a player. Only the admin may open auctions;
// the duration must be positive and the player must not already be under
// auction. The auction record and the player's auctioned flag are
// committed as one unit.
func (c *Controller) Create(ctx context.Context, caller model.Account, playerID model.PlayerID, duration time.Duration) (*model.Auction, error) {
	if err := c.access.Require(caller); err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, model.ErrInvalidDuration
	}

	player, err := c.registry.MarkAuctioned(ctx, playerID, true)
	if err != nil {
		return nil, err
	}

	count, err := c.storage.AuctionCount(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	auction := &model.Auction{
		ID:         model.AuctionID(count + 1),
		PlayerID:   playerID,
		EndTime:    now.Add(duration),
		HighestBid: decimal.Zero,
		CreatedAt:  now,
	}

	ev := model.Event{
		Type:      model.EventAuctionCreated,
		Timestamp: now,
		PlayerID:  playerID,
		AuctionID: auction.ID,
		Account:   caller,
	}

	if err := c.storage.ApplyAuctionCreate(ctx, auction, player, ev); err != nil {
		c.logger.Error("failed to create auction",
			slog.Uint64("auction_id", uint64(auction.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("auction created",
		slog.Uint64("auction_id", uint64(auction.ID)),
		slog.Uint64("player_id", uint64(playerID)),
		slog.Time("end_time", auction.EndTime),
	)

	return auction, nil
}

// PlaceBid records a new leading bid. The amount must strictly exceed the
// current highest bid and meet the player's base price, and the attached
// funds must equal the declared amount. The previous leader is refunded;
// if that delivery fails the refund is retained as an owed balance and
// the bid still lands.
func (c *Controller) PlaceBid(ctx context.Context, auctionID model.AuctionID, bidder model.Account, amount, attached decimal.Decimal) (*model.Auction, error) {
	auction, err := c.storage.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if auction.Ended {
		return nil, model.ErrAuctionEnded
	}

	now := c.clock.Now()
	if auction.DeadlinePassed(now) {
		return nil, model.ErrAuctionExpired
	}

	player, err := c.storage.GetPlayer(ctx, auction.PlayerID)
	if err != nil {
		return nil, err
	}
	if amount.LessThanOrEqual(auction.HighestBid) || amount.LessThan(player.BasePrice) {
		return nil, model.ErrBidTooLow
	}

	// Validate custody before any funds move
	esc, err := c.escrow.Hold(auctionID, bidder, amount, attached)
	if err != nil {
		return nil, err
	}

	prev, err := c.escrow.Held(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	var owed *model.OwedBalance
	evs := make([]model.Event, 0, 2)
	if prev != nil {
		if owed = c.escrow.RefundPrevious(ctx, prev); owed != nil {
			evs = append(evs, model.Event{
				Type:      model.EventRefundOwed,
				Timestamp: now,
				AuctionID: auctionID,
				Account:   prev.Bidder,
				Amount:    prev.Amount,
			})
		}
	}

	auction.HighestBid = amount
	auction.HighestBidder = bidder
	evs = append(evs, model.Event{
		Type:      model.EventBidPlaced,
		Timestamp: now,
		PlayerID:  auction.PlayerID,
		AuctionID: auctionID,
		Account:   bidder,
		Amount:    amount,
	})

	if err := c.storage.ApplyBid(ctx, auction, esc, owed, evs); err != nil {
		c.logger.Error("failed to record bid",
			slog.Uint64("auction_id", uint64(auctionID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("bid placed",
		slog.Uint64("auction_id", uint64(auctionID)),
		slog.String("bidder", string(bidder)),
		slog.String("amount", amount.String()),
	)

	return auction, nil
}

// End settles an auction. The admin may end at any time; anyone else only
// once the deadline has passed. Settlement records the winner, pays out
// the final escrowed amount to the admin, and clears the player's
// auctioned flag whether or not a bid was placed. Ending an already-ended
// auction is rejected.
func (c *Controller) End(ctx context.Context, caller model.Account, auctionID model.AuctionID) (*model.Auction, error) {
	auction, err := c.storage.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if auction.Ended {
		return nil, model.ErrAuctionEnded
	}

	now := c.clock.Now()
	if !c.access.IsAdmin(caller) && !auction.DeadlinePassed(now) {
		return nil, model.ErrAuctionNotExpired
	}

	player, err := c.registry.MarkAuctioned(ctx, auction.PlayerID, false)
	if err != nil {
		return nil, err
	}

	auction.Ended = true

	var owed *model.OwedBalance
	if auction.HasBid() {
		esc, err := c.escrow.Held(ctx, auctionID)
		if err != nil {
			return nil, err
		}
		auction.Winner = auction.HighestBidder
		owed = c.escrow.Settle(ctx, esc, c.access.Admin())
	}

	ev := model.Event{
		Type:      model.EventAuctionSettled,
		Timestamp: now,
		PlayerID:  auction.PlayerID,
		AuctionID: auctionID,
		Account:   auction.Winner,
		Amount:    auction.HighestBid,
	}

	if err := c.storage.ApplySettlement(ctx, auction, player, owed, ev); err != nil {
		c.logger.Error("failed to settle auction",
			slog.Uint64("auction_id", uint64(auctionID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("auction settled",
		slog.Uint64("auction_id", uint64(auctionID)),
		slog.String("winner", string(auction.Winner)),
		slog.String("winning_bid", auction.HighestBid.String()),
	)

	return auction, nil
}

// Get retrieves an auction by id
func (c *Controller) Get(ctx context.Context, id model.AuctionID) (*model.Auction, error) {
	return c.storage.GetAuction(ctx, id)
}

// Count returns the auction id high-water mark
func (c *Controller) Count(ctx context.Context) (uint64, error) {
	return c.storage.AuctionCount(ctx)
}

package escrow

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mcoot/playerauction-go/internal/dependencies/clock"
	"github.com/mcoot/playerauction-go/internal/model"
	"github.com/mcoot/playerauction-go/internal/storage"
)

// Service owns custody of funds posted by bidders. Funds for the current
// leader are held in escrow; an outbid leader is refunded through the
// gateway, and a failed refund becomes an owed balance the party can
// withdraw later. Failed deliveries are never allowed to block bidding.
type Service struct {
	storage storage.Storage
	gateway Gateway
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new bid escrow service
func New(storage storage.Storage, gateway Gateway, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		gateway: gateway,
		clock:   clk,
		logger:  logger,
	}
}

// Hold builds the custody record for a new leading bid. The attached
// funds must exactly equal the declared amount; any mismatch is rejected.
func (s *Service) Hold(auctionID model.AuctionID, bidder model.Account, amount, attached decimal.Decimal) (*model.Escrow, error) {
	if !attached.Equal(amount) {
		return nil, model.ErrAmountMismatch
	}
	return &model.Escrow{
		AuctionID: auctionID,
		Bidder:    bidder,
		Amount:    amount,
	}, nil
}

// RefundPrevious attempts to return the previous leader's escrowed funds.
// If delivery fails the full amount is retained as an owed balance, which
// the returned record represents; the caller persists it atomically with
// the new bid. Returns nil when the refund was delivered.
func (s *Service) RefundPrevious(ctx context.Context, prev *model.Escrow) *model.OwedBalance {
	if err := s.gateway.Credit(ctx, prev.Bidder, prev.Amount); err != nil {
		s.logger.Warn("refund delivery failed, retaining owed balance",
			slog.Uint64("auction_id", uint64(prev.AuctionID)),
			slog.String("bidder", string(prev.Bidder)),
			slog.String("amount", prev.Amount.String()),
			slog.String("error", err.Error()),
		)
		return &model.OwedBalance{
			Account:   prev.Bidder,
			AuctionID: prev.AuctionID,
			Amount:    prev.Amount,
			CreatedAt: s.clock.Now(),
		}
	}

	s.logger.Info("refund delivered",
		slog.Uint64("auction_id", uint64(prev.AuctionID)),
		slog.String("bidder", string(prev.Bidder)),
		slog.String("amount", prev.Amount.String()),
	)
	return nil
}

// Settle attempts to deliver the final escrowed amount to the payee.
// A failed delivery is retained as an owed balance for the payee; the
// caller persists it atomically with the settlement. Returns nil when
// the payout was delivered.
func (s *Service) Settle(ctx context.Context, esc *model.Escrow, payee model.Account) *model.OwedBalance {
	if err := s.gateway.Credit(ctx, payee, esc.Amount); err != nil {
		s.logger.Warn("payout delivery failed, retaining owed balance",
			slog.Uint64("auction_id", uint64(esc.AuctionID)),
			slog.String("payee", string(payee)),
			slog.String("amount", esc.Amount.String()),
			slog.String("error", err.Error()),
		)
		return &model.OwedBalance{
			Account:   payee,
			AuctionID: esc.AuctionID,
			Amount:    esc.Amount,
			CreatedAt: s.clock.Now(),
		}
	}

	s.logger.Info("payout delivered",
		slog.Uint64("auction_id", uint64(esc.AuctionID)),
		slog.String("payee", string(payee)),
		slog.String("amount", esc.Amount.String()),
	)
	return nil
}

// Withdraw delivers an owed balance to the party it is retained for and
// removes it. This is the only operation that surfaces a delivery failure
// to the caller.
func (s *Service) Withdraw(ctx context.Context, account model.Account, auctionID model.AuctionID) (*model.OwedBalance, error) {
	owed, err := s.storage.GetOwed(ctx, account, auctionID)
	if err != nil {
		return nil, err
	}

	if err := s.gateway.Credit(ctx, account, owed.Amount); err != nil {
		s.logger.Warn("withdrawal delivery failed",
			slog.Uint64("auction_id", uint64(auctionID)),
			slog.String("account", string(account)),
			slog.String("error", err.Error()),
		)
		return nil, model.ErrTransferFailed
	}

	ev := model.Event{
		Type:      model.EventRefundWithdrawn,
		Timestamp: s.clock.Now(),
		AuctionID: auctionID,
		Account:   account,
		Amount:    owed.Amount,
	}

	if err := s.storage.ApplyWithdrawal(ctx, owed, ev); err != nil {
		// Funds were delivered but the balance is still recorded, so a
		// retry would deliver them again. Operator reconciliation needed.
		s.logger.Error("withdrawal delivered but removal not committed",
			slog.Uint64("auction_id", uint64(auctionID)),
			slog.String("account", string(account)),
			slog.String("amount", owed.Amount.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("owed balance withdrawn",
		slog.Uint64("auction_id", uint64(auctionID)),
		slog.String("account", string(account)),
		slog.String("amount", owed.Amount.String()),
	)

	return owed, nil
}

// Held returns the current custody record for an auction, or nil when no
// funds are held
func (s *Service) Held(ctx context.Context, auctionID model.AuctionID) (*model.Escrow, error) {
	return s.storage.GetEscrow(ctx, auctionID)
}

// Owed returns the owed balance retained for an account on an auction
func (s *Service) Owed(ctx context.Context, account model.Account, auctionID model.AuctionID) (*model.OwedBalance, error) {
	return s.storage.GetOwed(ctx, account, auctionID)
}

package escrow

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mcoot/playerauction-go/internal/model"
	"github.com/mcoot/playerauction-go/internal/storage"
)

// Gateway delivers funds to an account. Delivery may fail; the escrow
// service converts a failed delivery into an owed balance rather than
// propagating the failure into the auction.
type Gateway interface {
	Credit(ctx context.Context, account model.Account, amount decimal.Decimal) error
}

// LedgerGateway delivers funds by crediting the storage balance book
type LedgerGateway struct {
	storage storage.Storage
}

// NewLedgerGateway creates a gateway backed by the storage balance book
func NewLedgerGateway(storage storage.Storage) *LedgerGateway {
	return &LedgerGateway{storage: storage}
}

var _ Gateway = (*LedgerGateway)(nil)

// Credit adds the amount to the account's delivered balance
func (g *LedgerGateway) Credit(ctx context.Context, account model.Account, amount decimal.Decimal) error {
	return g.storage.Credit(ctx, account, amount)
}

package mocks

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mcoot/playerauction-go/internal/model"
	"github.com/mcoot/playerauction-go/internal/services/escrow"
)

// MockGateway is a fund delivery gateway whose failures can be scripted
// per account. Deliveries that succeed are forwarded to Inner when set.
type MockGateway struct {
	Inner        escrow.Gateway
	FailAccounts map[model.Account]bool

	// Credits records every successful delivery in order
	Credits []MockCredit
}

// MockCredit is one recorded delivery
type MockCredit struct {
	Account model.Account
	Amount  decimal.Decimal
}

// Ensure MockGateway implements Gateway
var _ escrow.Gateway = (*MockGateway)(nil)

// NewMockGateway creates a gateway that delivers everything
func NewMockGateway(inner escrow.Gateway) *MockGateway {
	return &MockGateway{
		Inner:        inner,
		FailAccounts: make(map[model.Account]bool),
	}
}

// FailFor makes deliveries to the account fail until RecoverFor is called
func (g *MockGateway) FailFor(account model.Account) {
	g.FailAccounts[account] = true
}

// RecoverFor makes deliveries to the account succeed again
func (g *MockGateway) RecoverFor(account model.Account) {
	delete(g.FailAccounts, account)
}

// Credit delivers funds unless the account is scripted to fail
func (g *MockGateway) Credit(ctx context.Context, account model.Account, amount decimal.Decimal) error {
	if g.FailAccounts[account] {
		return errors.New("delivery refused")
	}
	if g.Inner != nil {
		if err := g.Inner.Credit(ctx, account, amount); err != nil {
			return err
		}
	}
	g.Credits = append(g.Credits, MockCredit{Account: account, Amount: amount})
	return nil
}

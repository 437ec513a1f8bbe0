package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/playerauction-go/internal/api/apierr"
	"github.com/mcoot/playerauction-go/internal/model"
)

type contextKey string

const accountContextKey contextKey = "account"

// AccountHeader carries the caller's account identity. The engine never
// authenticates beyond account equality; the header is the stand-in for
// whatever signed envelope the hosting environment provides.
const AccountHeader = "X-Account"

// RequireAccount rejects requests that do not carry a caller account
func RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := r.Header.Get(AccountHeader)
		if account == "" {
			apierr.WriteError(w, apierr.NewUnauthorizedError())
			return
		}

		ctx := context.WithValue(r.Context(), accountContextKey, model.Account(account))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccountFromContext returns the caller account set by RequireAccount
func AccountFromContext(ctx context.Context) model.Account {
	account, _ := ctx.Value(accountContextKey).(model.Account)
	return account
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/playerauction-go/internal/api/handler"
	"github.com/mcoot/playerauction-go/internal/api/middleware"
	"github.com/mcoot/playerauction-go/internal/services/engine"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger *slog.Logger
	Engine *engine.Engine
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Engine)
	auctionHandler := handler.NewAuctionHandler(cfg.Engine)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Read routes carry no caller requirement
	api.HandleFunc("/players/{id:[0-9]+}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/auctions/{id:[0-9]+}", auctionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/auctions", auctionHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/admin", auctionHandler.Admin).Methods(http.MethodGet)

	// Mutating routes require a caller account
	api.Handle("/players", middleware.RequireAccount(http.HandlerFunc(playerHandler.Register))).Methods(http.MethodPost)
	api.Handle("/auctions", middleware.RequireAccount(http.HandlerFunc(auctionHandler.Create))).Methods(http.MethodPost)
	api.Handle("/auctions/{id:[0-9]+}/bids", middleware.RequireAccount(http.HandlerFunc(auctionHandler.Bid))).Methods(http.MethodPost)
	api.Handle("/auctions/{id:[0-9]+}/end", middleware.RequireAccount(http.HandlerFunc(auctionHandler.End))).Methods(http.MethodPost)
	api.Handle("/auctions/{id:[0-9]+}/withdraw", middleware.RequireAccount(http.HandlerFunc(auctionHandler.Withdraw))).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

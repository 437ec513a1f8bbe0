package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/playerauction-go/internal/dependencies/clock"
	"github.com/mcoot/playerauction-go/internal/model"
	"github.com/mcoot/playerauction-go/internal/services/access"
	"github.com/mcoot/playerauction-go/internal/services/auction"
	"github.com/mcoot/playerauction-go/internal/services/engine"
	"github.com/mcoot/playerauction-go/internal/services/escrow"
	"github.com/mcoot/playerauction-go/internal/services/registry"
	"github.com/mcoot/playerauction-go/internal/storage"
	"github.com/mcoot/playerauction-go/internal/storage/memory"
	redisstorage "github.com/mcoot/playerauction-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	AccessService     *access.Service
	RegistryService   *registry.Service
	EscrowService     *escrow.Service
	AuctionController *auction.Controller
	Engine            *engine.Engine
}

// Config holds configuration for the application factory
type Config struct {
	// AdminAccount is the single administrative identity (required)
	AdminAccount model.Account
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Gateway overrides fund delivery (optional; defaults to the storage
	// balance book)
	Gateway escrow.Gateway
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	if cfg.AdminAccount == "" {
		return nil, errors.New("AdminAccount is required")
	}

	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	gateway := cfg.Gateway
	if gateway == nil {
		gateway = escrow.NewLedgerGateway(store)
	}

	return newWithDependencies(store, clock.New(), gateway, cfg.AdminAccount, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, gateway escrow.Gateway, admin model.Account, logger *slog.Logger) *App {
	accessService := access.New(admin)
	registryService := registry.New(store, accessService, clk, logger)
	escrowService := escrow.New(store, gateway, clk, logger)
	auctionController := auction.NewController(store, registryService, escrowService, accessService, clk, logger)
	settlementEngine := engine.New(store, accessService, registryService, auctionController, escrowService)

	return &App{
		Storage:           store,
		Clock:             clk,
		AccessService:     accessService,
		RegistryService:   registryService,
		EscrowService:     escrowService,
		AuctionController: auctionController,
		Engine:            settlementEngine,
	}
}

package model

import "errors"

// Common errors used across the application.
// Every rejected operation leaves all stored state exactly as it was.
var (
	// Access errors
	ErrNotAuthorized = errors.New("caller is not the admin")

	// Player errors
	ErrPlayerNotFound   = errors.New("player not found")
	ErrNegativePrice    = errors.New("base price must not be negative")
	ErrAlreadyAuctioned = errors.New("player is already under auction")

	// Auction errors
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrInvalidDuration   = errors.New("auction duration must be positive")
	ErrAuctionExpired    = errors.New("auction deadline has passed")
	ErrAuctionNotExpired = errors.New("auction deadline has not passed")
	ErrAuctionEnded      = errors.New("auction has already ended")

	// Bid and escrow errors
	ErrBidTooLow      = errors.New("bid must exceed the highest bid and meet the base price")
	ErrAmountMismatch = errors.New("attached funds do not equal the declared bid amount")
	ErrNoBalanceOwed  = errors.New("no balance owed for this account and auction")
	ErrTransferFailed = errors.New("funds transfer failed")
)

package redis

import (
	"fmt"

	"github.com/mcoot/playerauction-go/internal/model"
)

// Key prefix for all auction house data
const keyPrefix = "auctionhouse"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%d", keyPrefix, id)
}

// playerCountKey returns the Redis key holding the player id high-water mark
func playerCountKey() string {
	return fmt.Sprintf("%s:player_count", keyPrefix)
}

// auctionKey returns the Redis key for an Auction
func auctionKey(id model.AuctionID) string {
	return fmt.Sprintf("%s:auction:%d", keyPrefix, id)
}

// auctionCountKey returns the Redis key holding the auction id high-water mark
func auctionCountKey() string {
	return fmt.Sprintf("%s:auction_count", keyPrefix)
}

// escrowKey returns the Redis key for an auction's escrow record
func escrowKey(auctionID model.AuctionID) string {
	return fmt.Sprintf("%s:escrow:%d", keyPrefix, auctionID)
}

// owedKey returns the Redis key for an owed balance
func owedKey(account model.Account, auctionID model.AuctionID) string {
	return fmt.Sprintf("%s:owed:%s:%d", keyPrefix, account, auctionID)
}

// balanceKey returns the Redis key for an account's delivered balance
func balanceKey(account model.Account) string {
	return fmt.Sprintf("%s:balance:%s", keyPrefix, account)
}

// eventsKey returns the Redis key for the event log list
func eventsKey() string {
	return fmt.Sprintf("%s:events", keyPrefix)
}

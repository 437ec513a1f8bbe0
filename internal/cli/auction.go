package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newAuctionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auction",
		Short: "Auction lifecycle commands",
	}

	cmd.AddCommand(newAuctionCreateCmd())
	cmd.AddCommand(newAuctionGetCmd())
	cmd.AddCommand(newAuctionListCmd())
	cmd.AddCommand(newAuctionBidCmd())
	cmd.AddCommand(newAuctionEndCmd())
	cmd.AddCommand(newAuctionWithdrawCmd())

	return cmd
}

func newAuctionCreateCmd() *cobra.Command {
	var playerID uint64
	var duration int64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open an auction for a player (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"player_id":        playerID,
				"duration_seconds": duration,
			}
			var result Auction

			if err := client.Post("/api/v1/auctions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&playerID, "player", 0, "Player id (required)")
	cmd.Flags().Int64Var(&duration, "duration", 600, "Auction duration in seconds")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newAuctionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <auction-id>",
		Short: "Look up an auction by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Auction

			if err := client.Get(fmt.Sprintf("/api/v1/auctions/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAuctionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all auctions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AuctionList

			if err := client.Get("/api/v1/auctions", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAuctionBidCmd() *cobra.Command {
	var amount string

	cmd := &cobra.Command{
		Use:   "bid <auction-id>",
		Short: "Place a bid with attached funds equal to the amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.ParseUint(args[0], 10, 64); err != nil {
				return fmt.Errorf("invalid auction id: %s", args[0])
			}

			req := map[string]string{
				"amount": amount,
				"value":  amount,
			}
			var result Auction

			if err := client.Post(fmt.Sprintf("/api/v1/auctions/%s/bids", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Bid amount (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newAuctionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <auction-id>",
		Short: "Settle an auction (admin any time, anyone after the deadline)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Auction

			if err := client.Post(fmt.Sprintf("/api/v1/auctions/%s/end", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAuctionWithdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <auction-id>",
		Short: "Withdraw an owed refund from an auction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result WithdrawalResult

			if err := client.Post(fmt.Sprintf("/api/v1/auctions/%s/withdraw", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

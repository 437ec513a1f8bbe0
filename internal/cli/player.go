package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player registry commands",
	}

	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerListCmd())

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var name, position, basePrice string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":       name,
				"position":   position,
				"base_price": basePrice,
			}
			var result Player

			if err := client.Post("/api/v1/players", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	cmd.Flags().StringVar(&position, "position", "", "Playing position (required)")
	cmd.Flags().StringVar(&basePrice, "base-price", "0", "Minimum acceptable winning bid")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("position")

	return cmd
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <player-id>",
		Short: "Look up a player by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if err := client.Get(fmt.Sprintf("/api/v1/players/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerListCmd() *cobra.Command {
	var max int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List players in registration order",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerList

			if err := client.Get(fmt.Sprintf("/api/v1/players?max=%d", max), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&max, "max", 100, "Maximum number of players to list")

	return cmd
}

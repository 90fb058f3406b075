package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mcqbot/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete a user's answer history",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if _, err := s.UserRepo().Get(ctx, user); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("user %q is not registered", user)
			}
			return err
		}
		if err := s.StatsRepo().ResetStats(ctx, user); err != nil {
			return fmt.Errorf("reset stats: %w", err)
		}
		fmt.Printf("Statistics for %s have been reset.\n", user)
		return nil
	},
}

func init() {
	resetCmd.Flags().StringP("user", "u", "", "User id")
	_ = resetCmd.MarkFlagRequired("user")
}

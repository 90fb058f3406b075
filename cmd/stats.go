package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/abhisek/mcqbot/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a user's answer statistics",
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
		stats, err := s.StatsRepo().Stats(ctx, user)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}

		fmt.Printf("Questions: %d   Correct: %d   Accuracy: %.1f%%\n",
			stats.Overall.Total, stats.Overall.Correct, stats.Overall.Accuracy())
		if stats.Overall.Total == 0 {
			return nil
		}

		printTallies("Topic", stats.ByTopic)
		printTallies("Difficulty", stats.ByDifficulty)
		return nil
	},
}

func printTallies(label string, tallies map[string]store.Tally) {
	fmt.Println()
	fmt.Printf("%-36s  %6s  %8s  %8s\n", label, "Total", "Correct", "Accuracy")
	fmt.Println(strings.Repeat("─", 64))
	keys := lo.Keys(tallies)
	slices.Sort(keys)
	for _, k := range keys {
		t := tallies[k]
		fmt.Printf("%-36s  %6d  %8d  %7.1f%%\n", clip(k, 36), t.Total, t.Correct, t.Accuracy())
	}
}

func init() {
	statsCmd.Flags().StringP("user", "u", "", "User id")
	_ = statsCmd.MarkFlagRequired("user")
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/mcqbot/internal/app"
	"github.com/abhisek/mcqbot/internal/quiz"
	"github.com/abhisek/mcqbot/internal/screen"
	"github.com/abhisek/mcqbot/internal/screens/play"
	"github.com/abhisek/mcqbot/internal/screens/setup"
	"github.com/abhisek/mcqbot/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

// runPlay opens the store, builds the quiz service and launches the TUI.
// Logs go to a file beside the database so they do not draw over the
// screen.
func runPlay(cmd *cobra.Command) error {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(filepath.Dir(dbPath), "mcqbot.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger = newLogger(logFile, cfg.LogLevel)

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	svc, err := newQuizService(ctx, quiz.NewPersister(st.QuestionRepo(), st.StatsRepo()), st.EventRepo())
	if err != nil {
		return err
	}

	user, _ := cmd.Flags().GetString("user")
	prefs := store.DefaultPreferences()
	if user != "" {
		if _, err := st.UserRepo().Register(ctx, user, user); err != nil {
			return fmt.Errorf("register user: %w", err)
		}
		if prefs, err = st.UserRepo().Preferences(ctx, user); err != nil {
			return fmt.Errorf("load preferences: %w", err)
		}
	}

	root := setup.New(user, prefs, func(req quiz.Request) screen.Screen {
		if user == "" {
			// Named in the setup screen; register so answers can be recorded.
			if _, err := st.UserRepo().Register(ctx, req.User, req.User); err != nil {
				logger.Error("register user failed", "user", req.User, "error", err)
			}
		}
		return play.New(svc, req)
	})
	return app.Run(root)
}

func init() {
	playCmd.Flags().StringP("user", "u", "", "Player id (prompted when empty)")
	rootCmd.Flags().StringP("user", "u", "", "Player id (prompted when empty)")
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/mcqbot/internal/api"
	"github.com/abhisek/mcqbot/internal/quiz"
	"github.com/abhisek/mcqbot/internal/scheduler"
	"github.com/abhisek/mcqbot/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz over HTTP, optionally pushing scheduled questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, err := newQuizService(ctx, quiz.NewPersister(st.QuestionRepo(), st.StatsRepo()), st.EventRepo())
		if err != nil {
			return err
		}

		gin.SetMode(gin.ReleaseMode)
		srv := &http.Server{
			Addr: cfg.Addr,
			Handler: api.NewRouter(api.Deps{
				Questions: svc,
				Users:     st.UserRepo(),
				Stats:     st.StatsRepo(),
				Logger:    logger,
				Version:   version,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 2)
		go func() {
			logger.Info("http server listening", "addr", cfg.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server: %w", err)
			}
		}()

		if cfg.ScheduleInterval > 0 {
			sched := scheduler.New(cfg.ScheduleInterval, st.UserRepo(), scheduledDelivery(svc, st.UserRepo()),
				scheduler.WithLogger(logger))
			go func() {
				if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					errCh <- fmt.Errorf("scheduler: %w", err)
				}
			}()
		}

		select {
		case <-ctx.Done():
		case err = <-errCh:
			logger.Error("shutting down", "error", err)
		}

		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			return fmt.Errorf("shutdown: %w", serr)
		}
		return err
	},
}

// scheduledDelivery returns a scheduler.DeliverFunc that requests a
// question with the user's stored preferences.
func scheduledDelivery(svc *quiz.Service, users store.UserRepo) scheduler.DeliverFunc {
	return func(ctx context.Context, user string) error {
		prefs, err := users.Preferences(ctx, user)
		if err != nil {
			return fmt.Errorf("load preferences: %w", err)
		}
		d, err := svc.RequestQuestion(ctx, quiz.Request{
			User:       user,
			Topic:      prefs.Topic,
			Subtopic:   prefs.MathSubtopic,
			Difficulty: prefs.Difficulty,
			Language:   prefs.Language,
		})
		if err != nil {
			return err
		}
		if d.Denied {
			return scheduler.ErrSkipped
		}
		return nil
	}
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides MCQBOT_ADDR)")
}

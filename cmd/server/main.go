package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eternal-sentinels/es-archive/internal/config"
	"github.com/eternal-sentinels/es-archive/internal/database"
	"github.com/eternal-sentinels/es-archive/internal/logging"
	"github.com/eternal-sentinels/es-archive/internal/queue"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "es-archive",
		Short: "Eternal Sentinels database API and MAL0 assistant",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env is fine; the environment may already be set.
			_ = godotenv.Load(envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Migrate, seed and serve the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the database tables",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(a *app) error { return a.migrate(cmd.Context()) })
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Load the object catalogue and the administrator account",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(a *app) error {
					if err := a.migrate(cmd.Context()); err != nil {
						return err
					}
					return a.seed(cmd.Context())
				})
			},
		},
		&cobra.Command{
			Use:   "consume",
			Short: "Append archive events from RabbitMQ to logs/chat.log",
			RunE: func(cmd *cobra.Command, args []string) error {
				return consume(cmd.Context())
			},
		},
	)
	return cmd
}

func setup() (config.Config, *zap.Logger, error) {
	cfg := config.Load()
	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func withDB(fn func(a *app) error) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	return fn(&app{cfg: cfg, log: log, db: db})
}

func serve(parent context.Context) error {
	ctx, stop := signalContext(parent)
	defer stop()

	return withDB(func(a *app) error {
		if err := a.migrate(ctx); err != nil {
			return err
		}
		if err := a.seed(ctx); err != nil {
			return err
		}
		e, cleanup := a.server(ctx)
		defer cleanup()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			addr := ":" + a.cfg.Port
			a.log.Info("listening", zap.String("addr", addr), zap.String("env", a.cfg.Env))
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			a.log.Info("shutting down")
			return e.Shutdown(shutdownCtx)
		})
		if a.cfg.EventsEnabled {
			g.Go(func() error {
				return queue.NewConsumer(a.cfg.AMQPURL, "logs", a.log).Run(gctx)
			})
		}
		return g.Wait()
	})
}

func consume(parent context.Context) error {
	ctx, stop := signalContext(parent)
	defer stop()

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if cfg.AMQPURL == "" {
		return errors.New("consume requires RABBITMQ_URL or AMQP_URL")
	}
	return queue.NewConsumer(cfg.AMQPURL, "logs", log).Run(ctx)
}

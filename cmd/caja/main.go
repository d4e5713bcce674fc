package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"caja/internal/auth"
	"caja/internal/backend"
	"caja/internal/bot"
	"caja/internal/config"
	"caja/internal/dialog"
	"caja/internal/log"
	"caja/internal/session"
	"caja/internal/transport"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting caja")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required to run the chat bridge")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:                backend.Type(cfg.DataBackend),
		SQLiteDBPath:        cfg.SQLiteDBPath,
		GoogleSpreadsheetID: cfg.GoogleSpreadsheetID,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", log.FieldError, err)
			}
		}()
	}

	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	machine := dialog.NewMachine(dialog.Config{
		Flows: dialog.NewFlows(dialog.Options{
			Categories:     cfg.Categories,
			PaymentMethods: cfg.PaymentMethods,
		}),
		MaxSessions: cfg.MaxSessions,
		IdleTTL:     cfg.SessionTTL,
		GraceDays:   cfg.GraceDays,
		Now:         now,
	})

	engine := bot.NewEngine(bot.Config{
		Gate:    auth.NewGate(cfg.AuthorizedUsers),
		Machine: machine,
		Backend: result.Backend,
		Logger:  logger.WithComponent(log.ComponentBot),
		Now:     now,
	})

	bridge, err := transport.NewBridge(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPInboundQueue, cfg.AMQPOutboundQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP bridge", log.FieldError, err)
		os.Exit(1)
	}
	defer bridge.Close()

	sweeper := session.NewSweeper(machine.Sessions(), cfg.SweepInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sweeper.Run(gctx)
	})
	g.Go(func() error {
		return bridge.ConsumeInbound(gctx, func(ctx context.Context, msg *transport.InboundMessage) error {
			for _, reply := range engine.Handle(ctx, msg.UserID, msg.Text) {
				if err := bridge.PublishReply(ctx, msg.UserID, reply); err != nil {
					return err
				}
			}
			return nil
		})
	})

	logger.Info("caja running",
		log.FieldBackend, cfg.DataBackend,
		"authorized_users", len(cfg.AuthorizedUsers),
		"timezone", cfg.Timezone)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Service stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Service stopped gracefully")
}

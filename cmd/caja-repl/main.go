// Command caja-repl runs the bot against stdin/stdout for local testing:
// each line you type is handled as user 1 and the replies are printed.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"caja/internal/auth"
	"caja/internal/backend"
	"caja/internal/bot"
	"caja/internal/config"
	"caja/internal/dialog"
	"caja/internal/log"
)

const replUserID = 1

func main() {
	_ = godotenv.Load()

	// Keep the transcript readable: log only warnings and errors.
	logger := log.New(log.Config{Level: slog.LevelWarn, Component: log.ComponentApp})
	log.SetDefault(logger)

	cfg := config.Load()
	cfg.AuthorizedUsers = []int64{replUserID}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	ctx := context.Background()

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:                backend.Type(cfg.DataBackend),
		SQLiteDBPath:        cfg.SQLiteDBPath,
		GoogleSpreadsheetID: cfg.GoogleSpreadsheetID,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "backend error:", err)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
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

	fmt.Printf("caja repl (backend: %s) — escribe /ayuda, Ctrl-D para salir\n", cfg.DataBackend)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		for _, reply := range engine.Handle(ctx, replUserID, scanner.Text()) {
			fmt.Println(reply)
			fmt.Println()
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "read error:", err)
		os.Exit(1)
	}
}

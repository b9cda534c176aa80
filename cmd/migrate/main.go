package main

import (
	"context"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/bioboard/internal/config"
	"github.com/fdg312/bioboard/internal/dbmigrate"
	"github.com/fdg312/bioboard/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		logging.Fatal().Msg("usage: go run ./cmd/migrate [up|status|down]")
	}

	command := os.Args[1]
	switch command {
	case "up", "status", "down":
	default:
		logging.Fatal().Str("command", command).Msg("unsupported command (allowed: up, status, down)")
	}

	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	dbURL, source, warning, err := dbmigrate.SelectDatabaseURL(cfg, false)
	if err != nil {
		logging.Fatal().Err(err).Msg("migrate")
	}
	if warning != "" {
		logging.Warn().Msg(warning)
	}
	logging.Info().Str("command", command).Str("using", source).Msg("migrate")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := dbmigrate.Run(ctx, command, dbURL); err != nil {
		logging.Fatal().Err(err).Msg("migrate failed")
	}
	logging.Info().Str("command", command).Msg("migrate completed")
}

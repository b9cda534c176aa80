package dbmigrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fdg312/bioboard/internal/logging"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations returns the SQL migrations compiled into the binary.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Run applies command (up, down or status) against dbURL.
func Run(ctx context.Context, command string, dbURL string) error {
	if dbURL == "" {
		return fmt.Errorf("database URL is empty")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, Migrations())
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	log := logging.WithComponent("migrate")

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("goose up failed: %w", err)
		}
		for _, r := range results {
			log.Info().Str("migration", r.Source.Path).Dur("duration", r.Duration).Msg("applied")
		}
	case "down":
		r, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("goose down failed: %w", err)
		}
		if r != nil {
			log.Info().Str("migration", r.Source.Path).Msg("rolled back")
		}
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("goose status failed: %w", err)
		}
		for _, s := range statuses {
			log.Info().
				Int64("version", s.Source.Version).
				Str("migration", s.Source.Path).
				Str("state", string(s.State)).
				Msg("status")
		}
	default:
		return fmt.Errorf("unsupported command %q (allowed: up, status, down)", command)
	}

	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/bioboard/internal/blob"
	"github.com/fdg312/bioboard/internal/catalog"
	"github.com/fdg312/bioboard/internal/config"
	"github.com/fdg312/bioboard/internal/dbmigrate"
	"github.com/fdg312/bioboard/internal/httpserver"
	"github.com/fdg312/bioboard/internal/logging"
	"github.com/fdg312/bioboard/internal/recommender"
	"github.com/fdg312/bioboard/internal/storage"
	"github.com/fdg312/bioboard/internal/storage/memory"
	"github.com/fdg312/bioboard/internal/storage/postgres"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	printStartupBanner(cfg)

	if err := validateProductionConfig(cfg); err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrationsOnStartup {
		dbURL, source, _, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			logging.Fatal().Err(err).Msg("startup migrations")
		}
		logging.Info().Str("using", source).Msg("startup migrations: command=up")
		if err := dbmigrate.Run(ctx, "up", dbURL); err != nil {
			logging.Fatal().Err(err).Msg("startup migrations failed")
		}
	}

	mealsStore := openStorage(ctx, cfg)

	var blobStore blob.Store
	if store, mode, err := blob.NewBlobStore(ctx, cfg.Blob, logging.WithComponent("blob")); err != nil {
		logging.Warn().Err(err).Msg("blob store unavailable, snapshots disabled")
	} else {
		blobStore = store
		logging.Info().Str("mode", mode).Msg("blob store ready")
	}

	loader := catalog.NewLoader(cfg.Catalog, recommender.Options{
		MeatBoost: cfg.Recommender.MeatBoost,
		MeatRatio: cfg.Recommender.MeatRatio,
		Neighbors: cfg.Recommender.Neighbors,
	}, blobStore, mealsStore)

	engine, source, err := loader.Load(ctx)
	if err != nil {
		// Meal endpoints answer 503 until a corpus is provisioned.
		logging.Error().Err(err).Msg("catalog unavailable, serving without meals")
	}

	server := httpserver.New(cfg, httpserver.Deps{
		Engine:        engine,
		CatalogSource: source,
		Storage:       mealsStore,
	})
	defer func() {
		if err := server.Close(); err != nil {
			logging.Warn().Err(err).Msg("close storage")
		}
	}()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			logging.Error().Err(err).Msg("HTTP server stopped")
		}
		return
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openStorage connects to Postgres when configured and falls back to memory.
func openStorage(ctx context.Context, cfg *config.Config) storage.MealsStorage {
	if cfg.DatabaseURL == "" {
		logging.Info().Msg("using in-memory storage")
		return memory.New()
	}

	pg, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Warn().Err(err).Msg("PostgreSQL unavailable, fallback to in-memory storage")
		return memory.New()
	}
	logging.Info().Msg("PostgreSQL connected")
	return pg
}

// printStartupBanner logs the resolved configuration. Secrets are only
// reported as set / not set.
func printStartupBanner(cfg *config.Config) {
	logging.Info().
		Str("env", cfg.Env).
		Int("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Msg("BioBoard API")

	logging.Info().
		Str("runtime_url", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled)).
		Str("pooled", setOrNot(cfg.DatabaseURLPooled)).
		Str("direct", setOrNot(cfg.DatabaseURLDirect)).
		Bool("migrations_on_startup", cfg.RunMigrationsOnStartup).
		Msg("database")

	logging.Info().
		Str("auth_mode", cfg.AuthMode).
		Bool("auth_required", cfg.AuthRequired).
		Str("jwt_secret", secretStatus(cfg.JWTSecret, "change_me")).
		Msg("auth")

	blobEvent := logging.Info().Str("blob_mode", cfg.Blob.Mode).Str("local_dir", cfg.Blob.LocalDir)
	if cfg.Blob.Mode != config.BlobModeLocal {
		blobEvent = blobEvent.Str("s3", cfg.Blob.S3.DiagnosticsSummary())
	}
	blobEvent.Msg("blob")

	logging.Info().
		Str("snapshot_key", cfg.Catalog.SnapshotKey).
		Str("meals_csv", cfg.Catalog.MealsCSV).
		Str("dietary_csv", cfg.Catalog.DietaryCSV).
		Bool("write_snapshots", cfg.Catalog.WriteSnapshots).
		Float64("meat_boost", cfg.Recommender.MeatBoost).
		Float64("meat_ratio", cfg.Recommender.MeatRatio).
		Int("neighbors", cfg.Recommender.Neighbors).
		Msg("catalog")
}

// validateProductionConfig performs checks that only matter in non-local envs.
func validateProductionConfig(cfg *config.Config) error {
	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			return fmt.Errorf("BLOB_MODE=s3 but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	if !isProduction(cfg.Env) {
		return nil
	}
	if cfg.AuthRequired && cfg.JWTSecret == "change_me" {
		return fmt.Errorf("JWT_SECRET must not be 'change_me' in %s with AUTH_REQUIRED=1", cfg.Env)
	}
	if cfg.DatabaseURL == "" {
		return errors.New("no DATABASE_URL configured in " + cfg.Env)
	}
	return nil
}

func isProduction(env string) bool {
	switch env {
	case "prod", "production", "staging":
		return true
	}
	return false
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not set"
	}
	if v == insecureDefault {
		return "set (default, insecure)"
	}
	return "set (custom)"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}

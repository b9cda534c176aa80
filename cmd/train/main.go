// Command train rebuilds the recommender snapshot from the raw CSV sources
// and optionally seeds the meals table.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/bioboard/internal/blob"
	"github.com/fdg312/bioboard/internal/catalog"
	"github.com/fdg312/bioboard/internal/config"
	"github.com/fdg312/bioboard/internal/logging"
	"github.com/fdg312/bioboard/internal/recommender"
	"github.com/fdg312/bioboard/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	mealsCSV := flag.String("meals", cfg.Catalog.MealsCSV, "meals CSV path")
	dietaryCSV := flag.String("dietary", cfg.Catalog.DietaryCSV, "dietary-pattern CSV path")
	snapshotKey := flag.String("key", cfg.Catalog.SnapshotKey, "blob key for the snapshot")
	seedDB := flag.Bool("seed-db", false, "replace the meals table with the loaded corpus")
	flag.Parse()

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log := logging.WithComponent("train")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	catalogCfg := cfg.Catalog
	catalogCfg.MealsCSV = *mealsCSV
	catalogCfg.DietaryCSV = *dietaryCSV
	catalogCfg.SnapshotKey = *snapshotKey

	store, mode, err := blob.NewBlobStore(ctx, cfg.Blob, log)
	if err != nil {
		log.Fatal().Err(err).Msg("blob store")
	}

	loader := catalog.NewLoader(catalogCfg, recommender.Options{
		MeatBoost: cfg.Recommender.MeatBoost,
		MeatRatio: cfg.Recommender.MeatRatio,
		Neighbors: cfg.Recommender.Neighbors,
	}, store, nil)

	records, source, err := loader.RawRecords()
	if err != nil {
		log.Fatal().Err(err).Str("meals_csv", *mealsCSV).Str("dietary_csv", *dietaryCSV).Msg("no raw corpus")
	}

	engine, err := recommender.New(records, loader.Options)
	if err != nil {
		log.Fatal().Err(err).Msg("build engine")
	}

	size, err := loader.WriteSnapshot(ctx, engine)
	if err != nil {
		log.Fatal().Err(err).Msg("write snapshot")
	}
	log.Info().
		Str("source", string(source)).
		Int("meals", engine.Len()).
		Str("blob_mode", mode).
		Str("key", *snapshotKey).
		Int64("bytes", size).
		Msg("snapshot written")

	if !*seedDB {
		return
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("-seed-db requires DATABASE_URL")
	}
	pg, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer pg.Close()

	n, err := pg.ReplaceMeals(ctx, records)
	if err != nil {
		log.Fatal().Err(err).Msg("seed meals")
	}
	log.Info().Int("rows", n).Msg("meals table seeded")
}

// Package catalog bootstraps the meal corpus and publishes the recommender
// engine built from it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/fdg312/bioboard/internal/blob"
	"github.com/fdg312/bioboard/internal/config"
	"github.com/fdg312/bioboard/internal/logging"
	"github.com/fdg312/bioboard/internal/meals"
	"github.com/fdg312/bioboard/internal/metrics"
	"github.com/fdg312/bioboard/internal/recommender"
	"github.com/fdg312/bioboard/internal/storage"
)

// Source names where a corpus was loaded from.
type Source string

const (
	SourceSnapshot   Source = "snapshot"
	SourceDatabase   Source = "database"
	SourceMealsCSV   Source = "meals_csv"
	SourceDietaryCSV Source = "dietary_csv"
	SourceNone       Source = "none"
)

const snapshotContentType = "application/json"

// Loader resolves the corpus in priority order: snapshot, database rows,
// meals CSV, dietary-pattern CSV. Blob and Meals may be nil.
type Loader struct {
	Blob       blob.Store
	Meals      storage.MealsStorage
	Config     config.CatalogConfig
	Options    recommender.Options
	Classifier meals.Classifier

	log *zerolog.Logger
}

// NewLoader wires a loader from configuration.
func NewLoader(cfg config.CatalogConfig, opts recommender.Options, blobStore blob.Store, mealsStore storage.MealsStorage) *Loader {
	return &Loader{
		Blob:       blobStore,
		Meals:      mealsStore,
		Config:     cfg,
		Options:    opts,
		Classifier: meals.KeywordClassifier{},
	}
}

func (l *Loader) logger() *zerolog.Logger {
	if l.log == nil {
		l.log = logging.WithComponent("catalog")
	}
	return l.log
}

// Load returns the first engine any source can produce. When nothing yields a
// corpus the error is recommender.ErrCorpusUnavailable. An engine derived from
// rows or raw files is written back as a fresh snapshot.
func (l *Loader) Load(ctx context.Context) (*recommender.Engine, Source, error) {
	if l.Config.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Config.LoadTimeout)
		defer cancel()
	}

	if engine, ok := l.fromSnapshot(ctx); ok {
		return l.publish(engine, SourceSnapshot), SourceSnapshot, nil
	}

	if engine, ok := l.fromDatabase(ctx); ok {
		l.writeBack(ctx, engine)
		return l.publish(engine, SourceDatabase), SourceDatabase, nil
	}

	engine, source, err := l.FromRawSources(ctx)
	if err != nil {
		metrics.RecordCatalogLoad(string(SourceNone), 0)
		return nil, SourceNone, err
	}
	l.writeBack(ctx, engine)
	return l.publish(engine, source), source, nil
}

// FromRawSources builds an engine from the meals CSV, falling back to meals
// synthesized from the dietary-pattern CSV.
func (l *Loader) FromRawSources(ctx context.Context) (*recommender.Engine, Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, SourceNone, err
	}

	if records, ok := l.readMealsCSV(); ok {
		engine, err := recommender.New(records, l.Options)
		if err == nil {
			return engine, SourceMealsCSV, nil
		}
		l.logger().Warn().Err(err).Str("path", l.Config.MealsCSV).Msg("meals csv unusable")
	}

	if records, ok := l.readDietaryCSV(); ok {
		engine, err := recommender.New(records, l.Options)
		if err == nil {
			return engine, SourceDietaryCSV, nil
		}
		l.logger().Warn().Err(err).Str("path", l.Config.DietaryCSV).Msg("dietary csv unusable")
	}

	return nil, SourceNone, recommender.ErrCorpusUnavailable
}

// RawRecords returns the admitted records of the first raw source that has any.
func (l *Loader) RawRecords() ([]meals.Record, Source, error) {
	if records, ok := l.readMealsCSV(); ok {
		return records, SourceMealsCSV, nil
	}
	if records, ok := l.readDietaryCSV(); ok {
		return records, SourceDietaryCSV, nil
	}
	return nil, SourceNone, recommender.ErrCorpusUnavailable
}

// WriteSnapshot encodes engine and stores it under the snapshot key.
func (l *Loader) WriteSnapshot(ctx context.Context, engine *recommender.Engine) (int64, error) {
	if l.Blob == nil {
		return 0, fmt.Errorf("no blob store configured")
	}
	if l.Config.SnapshotKey == "" {
		return 0, fmt.Errorf("snapshot key is empty")
	}
	data, err := recommender.Encode(engine)
	if err != nil {
		return 0, err
	}
	n, err := l.Blob.PutObject(ctx, l.Config.SnapshotKey, data, snapshotContentType)
	if err != nil {
		return 0, fmt.Errorf("write snapshot %s: %w", l.Config.SnapshotKey, err)
	}
	return n, nil
}

func (l *Loader) fromSnapshot(ctx context.Context) (*recommender.Engine, bool) {
	if l.Blob == nil || l.Config.SnapshotKey == "" {
		return nil, false
	}
	log := l.logger()

	data, err := l.Blob.GetObject(ctx, l.Config.SnapshotKey)
	if errors.Is(err, blob.ErrNotFound) {
		log.Info().Str("key", l.Config.SnapshotKey).Msg("no snapshot stored")
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", l.Config.SnapshotKey).Msg("snapshot read failed")
		return nil, false
	}

	engine, report, err := recommender.Decode(data, l.Options)
	if err != nil {
		log.Warn().Err(err).Str("key", l.Config.SnapshotKey).Msg("snapshot unusable")
		return nil, false
	}

	log.Info().
		Str("snapshot_id", report.ID).
		Int("version", report.Version).
		Time("created_at", report.CreatedAt).
		Int("dropped", report.Dropped).
		Bool("refit", report.Refit).
		Bool("rebuilt_index", report.RebuiltIndex).
		Msg("snapshot decoded")

	if report.Refit || report.RebuiltFeatures || report.RebuiltIndex {
		l.writeBack(ctx, engine)
	}
	return engine, true
}

func (l *Loader) fromDatabase(ctx context.Context) (*recommender.Engine, bool) {
	if l.Meals == nil {
		return nil, false
	}
	log := l.logger()

	records, err := l.Meals.ListMeals(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("meals table read failed")
		return nil, false
	}
	if len(records) == 0 {
		log.Info().Msg("meals table is empty")
		return nil, false
	}

	engine, err := recommender.New(records, l.Options)
	if err != nil {
		log.Warn().Err(err).Int("rows", len(records)).Msg("meals table unusable")
		return nil, false
	}
	return engine, true
}

func (l *Loader) readMealsCSV() ([]meals.Record, bool) {
	path := l.Config.MealsCSV
	if path == "" {
		return nil, false
	}
	log := l.logger()

	records, stats, err := meals.LoadMealsFile(path, l.Classifier)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("path", path).Msg("meals csv not found")
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("meals csv read failed")
		return nil, false
	}
	log.Info().
		Str("path", path).
		Int("rows", stats.Rows).
		Int("admitted", stats.Admitted).
		Int("dropped", stats.Dropped).
		Msg("meals csv read")
	return records, len(records) > 0
}

func (l *Loader) readDietaryCSV() ([]meals.Record, bool) {
	path := l.Config.DietaryCSV
	if path == "" {
		return nil, false
	}
	log := l.logger()

	samples, err := meals.LoadDietaryFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("path", path).Msg("dietary csv not found")
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("dietary csv read failed")
		return nil, false
	}

	records := meals.SynthesizeMeals(samples, l.Classifier)
	log.Info().Str("path", path).Int("samples", len(samples)).Int("meals", len(records)).Msg("synthesized meals")
	return records, len(records) > 0
}

func (l *Loader) writeBack(ctx context.Context, engine *recommender.Engine) {
	if !l.Config.WriteSnapshots || l.Blob == nil || l.Config.SnapshotKey == "" {
		return
	}
	n, err := l.WriteSnapshot(ctx, engine)
	if err != nil {
		l.logger().Warn().Err(err).Msg("snapshot write-back failed")
		return
	}
	l.logger().Info().Str("key", l.Config.SnapshotKey).Int64("bytes", n).Msg("snapshot written")
}

func (l *Loader) publish(engine *recommender.Engine, source Source) *recommender.Engine {
	metrics.RecordCatalogLoad(string(source), engine.Len())
	l.logger().Info().Str("source", string(source)).Int("meals", engine.Len()).Msg("catalog ready")
	return engine
}

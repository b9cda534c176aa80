package recommender

import (
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/fdg312/bioboard/internal/meals"
)

// SnapshotVersion is the current snapshot document version.
const SnapshotVersion = 1

type snapshot struct {
	Version   int            `json:"version"`
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Meals     []meals.Record `json:"meals"`
	Features  []Vector       `json:"features"`
	Scaler    *Normalizer    `json:"scaler,omitempty"`
	Neighbors [][]int        `json:"neighbors"`
	Summary   Summary        `json:"summary"`
}

// DecodeReport tells the caller what Decode had to repair.
type DecodeReport struct {
	ID              string    `json:"id"`
	Version         int       `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	Dropped         int       `json:"dropped"`
	Refit           bool      `json:"refit"`
	RebuiltFeatures bool      `json:"rebuilt_features"`
	RebuiltIndex    bool      `json:"rebuilt_index"`
}

// Encode serializes the engine into one JSON snapshot document.
func Encode(e *Engine) ([]byte, error) {
	if e == nil || len(e.corpus) == 0 {
		return nil, ErrCorpusUnavailable
	}
	n := e.normalizer
	doc := snapshot{
		Version:   SnapshotVersion,
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Meals:     e.corpus,
		Features:  e.scaled,
		Scaler:    &n,
		Neighbors: e.neighbors,
		Summary:   e.summary,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode restores an engine from a snapshot. A snapshot without admissible
// meals is ErrCorpusUnavailable. Missing or invalid scaler parameters are
// refit, and stale features or neighbour rows are rebuilt, all before the
// engine is returned.
func Decode(data []byte, opts Options) (*Engine, DecodeReport, error) {
	var doc snapshot
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, DecodeReport{}, fmt.Errorf("decode snapshot: %w", err)
	}
	report := DecodeReport{ID: doc.ID, Version: doc.Version, CreatedAt: doc.CreatedAt}

	kept, dropped := meals.Admit(doc.Meals)
	report.Dropped = dropped
	if len(kept) == 0 {
		return nil, report, ErrCorpusUnavailable
	}

	var n Normalizer
	if doc.Scaler != nil && doc.Scaler.Valid() && dropped == 0 {
		n = *doc.Scaler
	} else {
		if err := n.Fit(kept); err != nil {
			return nil, report, fmt.Errorf("refit normalizer: %w", err)
		}
		report.Refit = true
	}

	e := newEngine(kept, n, opts)
	report.RebuiltFeatures = !sameFeatures(doc.Features, e.scaled)

	if !report.Refit && !report.RebuiltFeatures && validNeighbors(doc.Neighbors, len(kept), e.opts.Neighbors) {
		e.neighbors = doc.Neighbors
	} else {
		e.neighbors = buildNeighbors(e.scaled, e.opts.Neighbors)
		report.RebuiltIndex = true
	}
	return e, report, nil
}

func sameFeatures(stored, computed []Vector) bool {
	if len(stored) != len(computed) {
		return false
	}
	for i := range stored {
		for j := range stored[i] {
			if math.Abs(stored[i][j]-computed[i][j]) > 1e-9 {
				return false
			}
		}
	}
	return true
}

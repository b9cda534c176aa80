// Package recommender builds a day of meals from a meal corpus: dietary
// filtering, cosine ranking against a per-meal nutrition target, a greedy
// diversity pass and calorie redistribution over a fixed daily template.
//
// An Engine is immutable once constructed and safe for concurrent use.
package recommender

import (
	"fmt"
	"strings"

	"github.com/fdg312/bioboard/internal/meals"
)

const (
	DefaultMeatBoost = 1.2
	DefaultMeatRatio = 0.65
	DefaultNeighbors = 10

	// MaxMeals bounds numMeals per request.
	MaxMeals = 20
	// MaxCalorieGoal bounds calorieGoal per request.
	MaxCalorieGoal = 20000
)

// Options tunes the engine. Zero fields take the defaults.
type Options struct {
	MeatBoost float64
	MeatRatio float64
	Neighbors int
}

func (o Options) withDefaults() Options {
	if o.MeatBoost <= 0 {
		o.MeatBoost = DefaultMeatBoost
	}
	if o.MeatRatio <= 0 || o.MeatRatio > 1 {
		o.MeatRatio = DefaultMeatRatio
	}
	if o.Neighbors <= 0 {
		o.Neighbors = DefaultNeighbors
	}
	return o
}

// Request is one recommendation call.
type Request struct {
	CalorieGoal int
	NumMeals    int
	Preferences Preferences
}

// Validate rejects non-positive or out-of-range parameters.
func (r Request) Validate() error {
	if r.CalorieGoal <= 0 || r.CalorieGoal > MaxCalorieGoal {
		return fmt.Errorf("%w: calorieGoal must be between 1 and %d", ErrInvalidRequest, MaxCalorieGoal)
	}
	if r.NumMeals <= 0 || r.NumMeals > MaxMeals {
		return fmt.Errorf("%w: numMeals must be between 1 and %d", ErrInvalidRequest, MaxMeals)
	}
	return nil
}

// Result is an ordered day plan.
type Result struct {
	Meals []Recommendation
	// FellBack is set when the dietary filter matched nothing and the whole
	// corpus was ranked instead.
	FellBack bool
	// Candidates is the number of meals that went into ranking.
	Candidates int
}

// Summary describes the loaded corpus.
type Summary struct {
	TotalMeals int      `json:"totalMeals"`
	Cuisines   []string `json:"cuisines"`
	DietTypes  []string `json:"dietTypes"`
}

// Engine holds the corpus, the fitted normalizer, scaled features and the
// neighbour index.
type Engine struct {
	opts       Options
	corpus     []meals.Record
	normalizer Normalizer
	scaled     []Vector
	neighbors  [][]int
	byName     map[string]int
	hasSlots   bool
	summary    Summary
}

// New validates the corpus, fits the normalizer and builds the neighbour
// index. Inadmissible records are dropped; nothing admissible left is
// ErrCorpusUnavailable.
func New(corpus []meals.Record, opts Options) (*Engine, error) {
	kept, _ := meals.Admit(corpus)
	if len(kept) == 0 {
		return nil, ErrCorpusUnavailable
	}

	var n Normalizer
	if err := n.Fit(kept); err != nil {
		return nil, fmt.Errorf("fit normalizer: %w", err)
	}
	e := newEngine(kept, n, opts)
	e.neighbors = buildNeighbors(e.scaled, e.opts.Neighbors)
	return e, nil
}

// newEngine assembles an engine around a fitted normalizer without building
// the neighbour index.
func newEngine(corpus []meals.Record, n Normalizer, opts Options) *Engine {
	e := &Engine{
		opts:       opts.withDefaults(),
		corpus:     corpus,
		normalizer: n,
		scaled:     make([]Vector, len(corpus)),
		byName:     make(map[string]int, len(corpus)),
	}

	seenCuisine := make(map[string]bool)
	seenDiet := make(map[string]bool)
	for i, r := range corpus {
		e.scaled[i] = n.Transform(r.Features())
		key := strings.ToLower(r.Name)
		if _, dup := e.byName[key]; !dup {
			e.byName[key] = i
		}
		if r.Slot != "" {
			e.hasSlots = true
		}
		if r.Cuisine != "" && !seenCuisine[r.Cuisine] {
			seenCuisine[r.Cuisine] = true
			e.summary.Cuisines = append(e.summary.Cuisines, r.Cuisine)
		}
		if r.DietPattern != "" && !seenDiet[r.DietPattern] {
			seenDiet[r.DietPattern] = true
			e.summary.DietTypes = append(e.summary.DietTypes, r.DietPattern)
		}
	}
	e.summary.TotalMeals = len(corpus)
	return e
}

// Recommend runs filter, rank, select and redistribute for one request.
func (e *Engine) Recommend(req Request) (Result, error) {
	if e == nil || len(e.corpus) == 0 {
		return Result{}, ErrCorpusUnavailable
	}
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	prefs := req.Preferences
	if len(prefs) == 0 {
		prefs = Preferences{Omnivore}
	}
	omnivore := prefs.Has(Omnivore)

	filtered := filterCorpus(e.corpus, prefs)

	boost := 0.0
	if omnivore {
		boost = e.opts.MeatBoost
	}
	target := e.normalizer.Transform(targetVector(req.CalorieGoal, req.NumMeals))
	ranked := rank(e.corpus, e.scaled, filtered.indices, target, boost)

	picks := selectMeals(e.corpus, ranked, req.NumMeals, omnivore, e.opts.MeatRatio, e.hasSlots)
	records := make([]meals.Record, len(picks))
	for i, c := range picks {
		records[i] = e.corpus[c.index]
	}

	return Result{
		Meals:      redistribute(records, req.CalorieGoal),
		FellBack:   filtered.fellBack,
		Candidates: len(filtered.indices),
	}, nil
}

// Similar returns up to limit nearest meals to the named one, excluding it.
func (e *Engine) Similar(name string, limit int) ([]meals.Record, error) {
	if e == nil || len(e.corpus) == 0 {
		return nil, ErrCorpusUnavailable
	}
	i, ok := e.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMealNotFound, name)
	}

	var out []meals.Record
	for _, j := range e.neighbors[i] {
		if j == i {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, e.corpus[j])
	}
	return out, nil
}

// Summary describes the corpus.
func (e *Engine) Summary() Summary {
	s := e.summary
	s.Cuisines = append([]string(nil), s.Cuisines...)
	s.DietTypes = append([]string(nil), s.DietTypes...)
	return s
}

// Len returns the corpus size.
func (e *Engine) Len() int {
	if e == nil {
		return 0
	}
	return len(e.corpus)
}

// Meals returns a copy of the corpus.
func (e *Engine) Meals() []meals.Record {
	return append([]meals.Record(nil), e.corpus...)
}

// Normalizer returns the fitted normalizer.
func (e *Engine) Normalizer() Normalizer { return e.normalizer }

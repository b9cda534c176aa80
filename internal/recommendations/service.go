package recommendations

import (
	"errors"
	"strings"

	"github.com/fdg312/bioboard/internal/metrics"
	"github.com/fdg312/bioboard/internal/recommender"
	"github.com/fdg312/bioboard/internal/validation"
)

// Service runs recommendation requests against a loaded engine.
type Service struct {
	engine *recommender.Engine
}

// NewService creates a service. A nil engine answers every call with
// recommender.ErrCorpusUnavailable.
func NewService(engine *recommender.Engine) *Service {
	return &Service{engine: engine}
}

// Ready reports whether a corpus is loaded.
func (s *Service) Ready() bool {
	return s.engine.Len() > 0
}

// Recommend validates req and returns the day plan together with the parsed
// request.
func (s *Service) Recommend(req RecommendRequest) (recommender.Result, recommender.Request, error) {
	parsed, err := s.parse(req)
	if err != nil {
		metrics.RecordRecommendation(metrics.OutcomeInvalid, false)
		return recommender.Result{}, parsed, err
	}

	result, err := s.engine.Recommend(parsed)
	switch {
	case err == nil:
		metrics.RecordRecommendation(metrics.OutcomeOK, result.FellBack)
	case errors.Is(err, recommender.ErrInvalidRequest):
		metrics.RecordRecommendation(metrics.OutcomeInvalid, false)
	case errors.Is(err, recommender.ErrCorpusUnavailable):
		metrics.RecordRecommendation(metrics.OutcomeUnavailable, false)
	default:
		metrics.RecordRecommendation(metrics.OutcomeError, false)
	}
	return result, parsed, err
}

func (s *Service) parse(req RecommendRequest) (recommender.Request, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return recommender.Request{}, err
	}
	prefs, err := recommender.ParsePreferences(req.DietaryPreferences)
	if err != nil {
		return recommender.Request{}, err
	}
	return recommender.Request{
		CalorieGoal: req.CalorieGoal,
		NumMeals:    req.NumMeals,
		Preferences: prefs,
	}, nil
}

// Similar returns up to limit neighbours of the named meal.
func (s *Service) Similar(name string, limit int) (SimilarResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SimilarResponse{}, &validation.RequestValidationError{
			Fields: []validation.FieldError{{Field: "name", Tag: "required", Message: "name is required"}},
		}
	}
	if limit <= 0 {
		limit = defaultSimilar
	}
	limit = min(limit, maxSimilar)

	if s.engine.Len() == 0 {
		return SimilarResponse{}, recommender.ErrCorpusUnavailable
	}
	found, err := s.engine.Similar(name, limit)
	if err != nil {
		return SimilarResponse{}, err
	}

	resp := SimilarResponse{Name: name, Meals: make([]MealDTO, len(found))}
	for i, r := range found {
		resp.Meals[i] = toMealDTO(r)
	}
	return resp, nil
}

// Catalog summarizes the loaded corpus.
func (s *Service) Catalog() (CatalogResponse, error) {
	if s.engine.Len() == 0 {
		return CatalogResponse{}, recommender.ErrCorpusUnavailable
	}
	return s.engine.Summary(), nil
}

package recommendations

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/fdg312/bioboard/internal/meals"
	"github.com/fdg312/bioboard/internal/recommender"
)

const (
	defaultCalorieGoal = 2000
	defaultNumMeals    = 3
	defaultSimilar     = 5
	maxSimilar         = 50
)

// PreferenceList accepts either one tag ("Vegan", "Vegan, Low_Sodium") or a
// list of tags.
type PreferenceList []string

func (p *PreferenceList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = nil
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*p = splitTags(s)
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("dietaryPreferences must be a string or a list of strings")
		}
		*p = list
		return nil
	default:
		return fmt.Errorf("dietaryPreferences must be a string or a list of strings")
	}
}

func splitTags(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RecommendRequest is the body of POST /v1/meals/recommendations.
type RecommendRequest struct {
	CalorieGoal        int            `json:"calorieGoal" validate:"gt=0,lte=20000"`
	DietaryPreferences PreferenceList `json:"dietaryPreferences"`
	NumMeals           int            `json:"numMeals" validate:"gt=0,lte=20"`
}

// NewRecommendRequest returns a request carrying the documented defaults.
func NewRecommendRequest() RecommendRequest {
	return RecommendRequest{CalorieGoal: defaultCalorieGoal, NumMeals: defaultNumMeals}
}

// MealDTO is one meal of a similar-meals response.
type MealDTO struct {
	Name         string  `json:"name"`
	Cuisine      string  `json:"cuisine,omitempty"`
	Diet         string  `json:"diet,omitempty"`
	MealType     string  `json:"mealType,omitempty"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fats         float64 `json:"fats"`
	IsVegetarian bool    `json:"isVegetarian"`
	IsVegan      bool    `json:"isVegan"`
}

func toMealDTO(r meals.Record) MealDTO {
	return MealDTO{
		Name:         r.Name,
		Cuisine:      r.Cuisine,
		Diet:         r.DietPattern,
		MealType:     r.Slot,
		Calories:     r.Calories,
		Protein:      r.Protein,
		Carbs:        r.Carbs,
		Fats:         r.Fats,
		IsVegetarian: r.IsVegetarian,
		IsVegan:      r.IsVegan,
	}
}

// SimilarResponse is the body of GET /v1/meals/similar.
type SimilarResponse struct {
	Name  string    `json:"name"`
	Meals []MealDTO `json:"meals"`
}

// CatalogResponse is the body of GET /v1/meals/catalog.
type CatalogResponse = recommender.Summary

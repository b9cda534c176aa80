package meals

import (
	"math"
	"strings"
)

// Diet patterns carried by the corpus.
const (
	DietBalanced  = "Balanced"
	DietLowCarb   = "Low_Carb"
	DietLowSodium = "Low_Sodium"
)

// Meal slots encoded by corpora that know meal timing.
const (
	SlotBreakfast = "Breakfast"
	SlotLunch     = "Lunch"
	SlotDinner    = "Dinner"
)

// MaxCalories is the exclusive upper bound for an admitted record.
const MaxCalories = 5000

// Record is one row of the meal corpus.
type Record struct {
	Name         string  `json:"name"`
	Cuisine      string  `json:"cuisine,omitempty"`
	DietPattern  string  `json:"diet,omitempty"`
	Restriction  string  `json:"restrictions,omitempty"`
	Slot         string  `json:"meal_type,omitempty"`
	Category     string  `json:"category,omitempty"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fats         float64 `json:"fats"`
	IsVegetarian bool    `json:"is_vegetarian"`
	IsVegan      bool    `json:"is_vegan"`
}

// Admissible reports whether the record satisfies the corpus invariants.
func (r Record) Admissible() bool {
	if strings.TrimSpace(r.Name) == "" {
		return false
	}
	if r.Calories <= 0 || r.Calories >= MaxCalories {
		return false
	}
	for _, v := range r.Features() {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}

// IsMeat reports whether the meal contains meat, fish or poultry.
func (r Record) IsMeat() bool {
	return !r.IsVegetarian
}

// Features returns the nutrition vector (calories, protein, carbs, fats).
func (r Record) Features() [4]float64 {
	return [4]float64{r.Calories, r.Protein, r.Carbs, r.Fats}
}

// Admit drops records that violate the corpus invariants and returns how many were dropped.
func Admit(records []Record) ([]Record, int) {
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if !r.Admissible() {
			continue
		}
		kept = append(kept, r)
	}
	return kept, len(records) - len(kept)
}

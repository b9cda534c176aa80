package recommender

import (
	"fmt"
	"math"

	"github.com/fdg312/bioboard/internal/meals"
)

var distributions = map[int][]float64{
	3: {0.25, 0.40, 0.35},
	4: {0.20, 0.20, 0.35, 0.25},
	5: {0.20, 0.15, 0.30, 0.15, 0.20},
	6: {0.18, 0.15, 0.25, 0.12, 0.20, 0.10},
}

var labelTemplates = map[int][]string{
	3: {"Breakfast", "Lunch", "Dinner"},
	4: {"Breakfast", "Mid-morning Snack", "Lunch", "Dinner"},
	5: {"Breakfast", "Mid-morning Snack", "Lunch", "Afternoon Snack", "Dinner"},
	6: {"Breakfast", "Mid-morning Snack", "Lunch", "Afternoon Snack", "Dinner", "Evening Snack"},
}

var defaultLabels = []string{"Breakfast", "Lunch", "Dinner", "Snack", "Meal"}

// Distribution returns the share of the daily goal for each of count meals.
func Distribution(count int) []float64 {
	if d, ok := distributions[count]; ok {
		return append([]float64(nil), d...)
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = 1 / float64(count)
	}
	return out
}

// Recommendation is one formatted meal of a day plan.
type Recommendation struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Calories int    `json:"calories"`
	Protein  int    `json:"protein"`
	Carbs    int    `json:"carbs"`
	Fats     int    `json:"fats"`
}

// redistribute rescales the picked meals to their share of the goal and
// attaches slot labels. Shares and labels follow the number of picks.
func redistribute(picks []meals.Record, calorieGoal int) []Recommendation {
	count := len(picks)
	shares := Distribution(count)
	labels, ok := labelTemplates[count]
	if !ok {
		labels = defaultLabels
	}

	out := make([]Recommendation, count)
	for i, r := range picks {
		target := math.Round(float64(calorieGoal) * shares[i])
		factor := target / r.Calories
		out[i] = Recommendation{
			Name:     r.Name,
			Type:     slotLabel(labels, i, r),
			Calories: int(target),
			Protein:  int(math.Round(r.Protein * factor)),
			Carbs:    int(math.Round(r.Carbs * factor)),
			Fats:     int(math.Round(r.Fats * factor)),
		}
	}
	return out
}

func slotLabel(labels []string, i int, r meals.Record) string {
	if i < len(labels) {
		return labels[i]
	}
	if r.Slot != "" {
		return r.Slot
	}
	return fmt.Sprintf("Meal %d", i+1)
}

package recommender

import (
	"sort"

	"github.com/fdg312/bioboard/internal/meals"
)

// candidate is a ranked corpus entry.
type candidate struct {
	index      int
	similarity float64
	meat       bool
}

// targetVector builds the per-meal nutrition target: goal/numMeals calories
// split 25/50/25 across protein, carbs and fats at 4/4/9 kcal per gram,
// truncated to whole grams.
func targetVector(calorieGoal, numMeals int) Vector {
	perMeal := float64(calorieGoal) / float64(numMeals)
	return Vector{
		perMeal,
		float64(int(perMeal * 0.25 / 4)),
		float64(int(perMeal * 0.50 / 4)),
		float64(int(perMeal * 0.25 / 9)),
	}
}

// rank scores the filtered indices against the scaled target. Non-vegetarian
// meals get the meat boost when boost > 0, capped at 1. Order is similarity
// descending with ties in corpus order.
func rank(corpus []meals.Record, scaled []Vector, indices []int, target Vector, boost float64) []candidate {
	out := make([]candidate, 0, len(indices))
	for _, i := range indices {
		sim := cosine(target, scaled[i])
		meat := corpus[i].IsMeat()
		if boost > 0 && meat {
			sim *= boost
			if sim > 1 {
				sim = 1
			}
		}
		out = append(out, candidate{index: i, similarity: sim, meat: meat})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].similarity > out[b].similarity
	})
	return out
}

package recommender

import "github.com/fdg312/bioboard/internal/meals"

// filterResult is the working set after dietary filtering, as corpus indices.
type filterResult struct {
	indices  []int
	fellBack bool
}

// filterCorpus narrows the corpus by preference. Diet-pattern and restriction
// constraints gathered from several tags are applied once each. An empty
// result widens back to the whole corpus.
func filterCorpus(corpus []meals.Record, prefs Preferences) filterResult {
	keep := make([]bool, len(corpus))
	for i := range keep {
		keep[i] = true
	}

	diets := make(map[string]bool)
	restrictions := make(map[string]bool)

	for _, p := range prefs {
		switch p {
		case Vegan:
			for i, r := range corpus {
				if !r.IsVegan || meals.ContainsAny(r.Name, meals.AnimalProductKeywords) {
					keep[i] = false
				}
			}
		case Vegetarian:
			for i, r := range corpus {
				if !r.IsVegetarian || meals.ContainsAny(r.Name, meals.MeatKeywords) {
					keep[i] = false
				}
			}
			diets[meals.DietBalanced] = true
		case Keto, LowCarb:
			diets[meals.DietLowCarb] = true
			diets[meals.DietBalanced] = true
		case LowSodium:
			restrictions[meals.DietLowSodium] = true
		case Paleo, Mediterranean:
			diets[meals.DietBalanced] = true
		}
	}

	var out []int
	for i, r := range corpus {
		if !keep[i] {
			continue
		}
		if len(diets) > 0 && !diets[r.DietPattern] {
			continue
		}
		if len(restrictions) > 0 && !restrictions[r.Restriction] {
			continue
		}
		out = append(out, i)
	}

	if len(out) == 0 {
		all := make([]int, len(corpus))
		for i := range all {
			all[i] = i
		}
		return filterResult{indices: all, fellBack: true}
	}
	return filterResult{indices: out}
}

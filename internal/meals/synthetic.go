package meals

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// mealsPerGroup caps how many synthetic meals one cuisine/diet group yields.
const mealsPerGroup = 3

// DietarySample is one row of the dietary-pattern survey dataset.
type DietarySample struct {
	Cuisine       string
	Diet          string
	DailyCalories float64
	HasCalories   bool
}

type macroSplit struct {
	protein, carbs, fats float64
}

func splitFor(diet string) macroSplit {
	switch diet {
	case DietLowCarb:
		return macroSplit{protein: 0.35, carbs: 0.20, fats: 0.45}
	case DietLowSodium:
		return macroSplit{protein: 0.30, carbs: 0.50, fats: 0.20}
	default:
		return macroSplit{protein: 0.25, carbs: 0.50, fats: 0.25}
	}
}

// LoadDietaryFile reads the dietary-pattern dataset from disk.
func LoadDietaryFile(path string) ([]DietarySample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	samples, err := ReadDietaryCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return samples, nil
}

// ReadDietaryCSV parses Preferred_Cuisine, Diet_Recommendation and
// Daily_Caloric_Intake columns. Rows without cuisine or diet are skipped.
func ReadDietaryCSV(r io.Reader) ([]DietarySample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := columnIndex(header)

	var missing []string
	for _, name := range []string{"preferred_cuisine", "diet_recommendation", "daily_caloric_intake"} {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var samples []DietarySample
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		get := func(name string) string {
			i := cols[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		s := DietarySample{Cuisine: get("preferred_cuisine"), Diet: get("diet_recommendation")}
		if s.Cuisine == "" || s.Diet == "" {
			continue
		}
		s.DailyCalories, s.HasCalories = parseFinite(get("daily_caloric_intake"))
		samples = append(samples, s)
	}
	return samples, nil
}

// SynthesizeMeals derives placeholder meals from dietary-pattern samples. Each
// cuisine/diet group contributes up to three meals of a third of the group's
// average daily intake, with macros from the diet's split at 4/4/9 kcal per gram.
// Groups are emitted in first-seen order of cuisine, then diet.
func SynthesizeMeals(samples []DietarySample, classifier Classifier) []Record {
	if classifier == nil {
		classifier = KeywordClassifier{}
	}

	var cuisines, diets []string
	seenCuisine := make(map[string]bool)
	seenDiet := make(map[string]bool)
	type group struct {
		rows  int
		sum   float64
		count int
	}
	groups := make(map[[2]string]*group)

	for _, s := range samples {
		if !seenCuisine[s.Cuisine] {
			seenCuisine[s.Cuisine] = true
			cuisines = append(cuisines, s.Cuisine)
		}
		if !seenDiet[s.Diet] {
			seenDiet[s.Diet] = true
			diets = append(diets, s.Diet)
		}
		key := [2]string{s.Cuisine, s.Diet}
		g := groups[key]
		if g == nil {
			g = &group{}
			groups[key] = g
		}
		g.rows++
		if s.HasCalories {
			g.sum += s.DailyCalories
			g.count++
		}
	}

	var out []Record
	for _, cuisine := range cuisines {
		for _, diet := range diets {
			g := groups[[2]string{cuisine, diet}]
			if g == nil || g.count == 0 {
				continue
			}
			mealCalories := g.sum / float64(g.count) / 3
			split := splitFor(diet)
			n := min(g.rows, mealsPerGroup)
			for i := 1; i <= n; i++ {
				rec := Record{
					Name:        fmt.Sprintf("%s %s Meal %d", cuisine, diet, i),
					Cuisine:     cuisine,
					DietPattern: diet,
					Calories:    float64(int(mealCalories)),
					Protein:     float64(int(mealCalories * split.protein / 4)),
					Carbs:       float64(int(mealCalories * split.carbs / 4)),
					Fats:        float64(int(mealCalories * split.fats / 9)),
				}
				flags := classifier.Classify(rec.Name, rec.Category)
				rec.IsVegetarian, rec.IsVegan = flags.IsVegetarian, flags.IsVegan
				out = append(out, rec)
			}
		}
	}

	kept, _ := Admit(out)
	return kept
}

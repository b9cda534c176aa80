package meals

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrMissingColumns is returned when a CSV header lacks required columns.
var ErrMissingColumns = errors.New("csv: missing required columns")

var requiredMealColumns = []string{"name", "calories", "protein", "carbs", "fats"}

// LoadStats summarizes a corpus read.
type LoadStats struct {
	Rows     int `json:"rows"`
	Admitted int `json:"admitted"`
	Dropped  int `json:"dropped"`
}

// LoadMealsFile reads a meals CSV from disk.
func LoadMealsFile(path string, classifier Classifier) ([]Record, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, err
	}
	defer f.Close()

	records, stats, err := ReadMealsCSV(f, classifier)
	if err != nil {
		return nil, stats, fmt.Errorf("read %s: %w", path, err)
	}
	return records, stats, nil
}

// ReadMealsCSV parses a meals CSV. Columns are matched case-insensitively;
// name, calories, protein, carbs and fats are required. Unparseable numbers
// read as zero and rows violating the corpus invariants are dropped. Explicit
// is_vegetarian / is_vegan columns win over the classifier.
func ReadMealsCSV(r io.Reader, classifier Classifier) ([]Record, LoadStats, error) {
	if classifier == nil {
		classifier = KeywordClassifier{}
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("read header: %w", err)
	}
	cols := columnIndex(header)

	var missing []string
	for _, name := range requiredMealColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, LoadStats{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var (
		stats   LoadStats
		records []Record
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := Record{
			Name:        get("name"),
			Cuisine:     get("cuisine"),
			DietPattern: get("diet"),
			Restriction: get("restrictions"),
			Slot:        get("meal_type"),
			Category:    get("category"),
			Calories:    parseNumber(get("calories")),
			Protein:     parseNumber(get("protein")),
			Carbs:       parseNumber(get("carbs")),
			Fats:        parseNumber(get("fats")),
		}
		if !rec.Admissible() {
			stats.Dropped++
			continue
		}

		derived := classifier.Classify(rec.Name, rec.Category)
		rec.IsVegetarian = derived.IsVegetarian
		rec.IsVegan = derived.IsVegan
		if v, ok := parseFlag(get("is_vegetarian")); ok {
			rec.IsVegetarian = v
		}
		if v, ok := parseFlag(get("is_vegan")); ok {
			rec.IsVegan = v
		}

		records = append(records, rec)
	}

	stats.Admitted = len(records)
	return records, stats, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func parseNumber(s string) float64 {
	v, _ := parseFinite(s)
	return v
}

func parseFinite(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseFlag(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "1", "true", "t", "yes", "y":
		return true, true
	case "0", "false", "f", "no", "n":
		return false, true
	default:
		return false, false
	}
}

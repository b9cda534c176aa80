package reports

import "github.com/fdg312/bioboard/internal/recommender"

// Export formats
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

// MealPlan is one recommended day ready for export.
type MealPlan struct {
	Title       string
	CalorieGoal int
	Preferences []string
	Meals       []recommender.Recommendation
}

// Totals sums the plan's calories and macros.
func (p MealPlan) Totals() recommender.Recommendation {
	var t recommender.Recommendation
	for _, m := range p.Meals {
		t.Calories += m.Calories
		t.Protein += m.Protein
		t.Carbs += m.Carbs
		t.Fats += m.Fats
	}
	return t
}

// ContentType returns the MIME type of a format, or "" when unsupported.
func ContentType(format string) string {
	switch format {
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return ""
	}
}

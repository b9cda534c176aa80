package meals

import "strings"

// MeatKeywords disqualify a meal from being vegetarian.
var MeatKeywords = []string{
	"beef", "chicken", "pork", "turkey", "lamb", "meat", "bacon", "sausage", "ham", "steak",
	"fish", "seafood", "salmon", "tuna", "shrimp", "poultry",
}

// AnimalProductKeywords disqualify a meal from being vegan.
var AnimalProductKeywords = []string{
	"cheese", "milk", "butter", "cream", "yogurt", "dairy",
	"beef", "chicken", "pork", "turkey", "lamb", "meat", "bacon", "sausage", "ham", "steak",
	"fish", "seafood", "salmon", "tuna", "shrimp", "poultry", "egg", "yolk",
}

// Classification holds the derived dietary flags of a meal.
type Classification struct {
	IsVegetarian bool
	IsVegan      bool
}

// Classifier derives dietary flags from a meal name and category.
type Classifier interface {
	Classify(name, category string) Classification
}

// KeywordClassifier flags a meal as vegetarian or vegan unless its name or
// category contains a disqualifying keyword. Matching is a case-insensitive
// substring test, so unusual names can be misclassified.
type KeywordClassifier struct{}

// Classify implements Classifier.
func (KeywordClassifier) Classify(name, category string) Classification {
	text := name + " " + category
	vegetarian := !ContainsAny(text, MeatKeywords)
	vegan := vegetarian && !ContainsAny(text, AnimalProductKeywords)
	return Classification{IsVegetarian: vegetarian, IsVegan: vegan}
}

// ContainsAny reports whether text contains any of the keywords, ignoring case.
func ContainsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

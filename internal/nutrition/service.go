package nutrition

import (
	"math"
	"strings"

	"github.com/fdg312/bioboard/internal/validation"
)

var activityMultipliers = map[string]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// Floors applied to every target.
const (
	minCalories = 1200
	minProtein  = 50
	minCarbs    = 100
	minFats     = 30
)

// Service computes nutrition targets (Mifflin-St Jeor).
type Service struct{}

// NewService creates a new nutrition service.
func NewService() *Service {
	return &Service{}
}

// Targets validates req and returns daily targets.
func (s *Service) Targets(req TargetsRequest) (TargetsResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return TargetsResponse{}, err
	}

	heightCm := float64(req.HeightFeet*12+req.HeightInches) * 2.54
	bmr := 10*req.Weight + 6.25*heightCm - 5*float64(req.Age)
	if strings.EqualFold(strings.TrimSpace(req.Gender), "male") {
		bmr += 5
	} else {
		bmr -= 161
	}

	multiplier, ok := activityMultipliers[req.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers[ActivityModerate]
	}

	calories := max(minCalories, int(bmr*multiplier))
	return TargetsResponse{
		Calories: calories,
		Protein:  max(minProtein, int(float64(calories)*0.15/4)),
		Carbs:    max(minCarbs, int(float64(calories)*0.50/4)),
		Fats:     max(minFats, int(float64(calories)*0.35/9)),
		BMR:      math.Round(bmr*10) / 10,
	}, nil
}

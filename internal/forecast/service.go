// Package forecast projects a linear weight trajectory from a fitness goal
// and activity level.
package forecast

import (
	"math"

	"github.com/fdg312/bioboard/internal/validation"
)

var baseDeltas = map[string]float64{
	"Weight Loss":     -0.75,
	"Muscle Gain":     0.35,
	"Endurance":       -0.25,
	"General Fitness": -0.10,
}

var activityFactors = map[string]float64{
	"Sedentary":   0.8,
	"Light":       0.9,
	"Moderate":    1.0,
	"Active":      1.1,
	"Very Active": 1.2,
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Forecast returns points for weeks 0..req.Weeks.
func (s *Service) Forecast(req Request) (Response, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return Response{}, err
	}

	base, ok := baseDeltas[req.FitnessGoal]
	if !ok {
		base = baseDeltas["General Fitness"]
	}
	factor, ok := activityFactors[req.ActivityLevel]
	if !ok {
		factor = 1.0
	}
	delta := base * factor

	points := make([]Point, req.Weeks+1)
	for week := range points {
		points[week] = Point{Week: week, Weight: roundTo(req.Weight+delta*float64(week), 1)}
	}
	return Response{WeeklyDelta: roundTo(delta, 2), Points: points}, nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package workouts

import (
	"strings"

	"github.com/fdg312/bioboard/internal/validation"
)

var daysPerWeek = map[string]int{
	"Sedentary":   3,
	"Light":       4,
	"Moderate":    5,
	"Active":      5,
	"Very Active": 6,
}

const defaultDaysPerWeek = 5

var plans = map[string][]WorkoutDay{
	GoalWeightLoss: {
		{Day: "Day 1", Focus: "Full Body Circuit", Details: []string{"Squat 3x12", "Push-ups 3x12", "Rows 3x12", "Plank 3x45s", "20 min Zone 2 cardio"}},
		{Day: "Day 2", Focus: "Cardio + Core", Details: []string{"30-40 min Zone 2 cardio", "Hanging knee raises 3x12", "Side plank 3x30s/side"}},
		{Day: "Day 3", Focus: "Upper Body + Intervals", Details: []string{"Incline DB Press 4x10", "Lat Pulldown 4x10", "Shoulder Press 3x12", "Bike: 8x30s hard / 90s easy"}},
		{Day: "Day 4", Focus: "Lower Body + Steps", Details: []string{"Deadlift 4x6", "Lunges 3x12/leg", "Leg Curl 3x12", "8-10k steps"}},
	},
	GoalMuscleGain: {
		{Day: "Day 1", Focus: "Upper Push", Details: []string{"Bench Press 5x5", "Incline DB Press 4x8", "Overhead Press 4x8", "Lateral Raises 4x12", "Triceps 3x12"}},
		{Day: "Day 2", Focus: "Lower Strength", Details: []string{"Back Squat 5x5", "RDL 4x8", "Leg Press 4x10", "Calf Raise 4x15"}},
		{Day: "Day 3", Focus: "Upper Pull", Details: []string{"Pull-ups 5xAMRAP", "Barbell Row 4x8", "Face Pull 4x12", "Biceps 3x12"}},
		{Day: "Day 4", Focus: "Lower Hypertrophy", Details: []string{"Front Squat 4x8", "Hip Thrust 4x10", "Leg Curl 4x12", "Walking Lunges 3x12/leg"}},
	},
	GoalEndurance: {
		{Day: "Day 1", Focus: "Zone 2 Base", Details: []string{"Run/Cycle/Row 45-60 min Zone 2"}},
		{Day: "Day 2", Focus: "Strength Maintenance", Details: []string{"Full Body 3x10: Squat, Press, Row, Lunge, Core"}},
		{Day: "Day 3", Focus: "Intervals", Details: []string{"10x2 min hard / 2 min easy"}},
		{Day: "Day 4", Focus: "Long Session", Details: []string{"75-90 min Zone 2"}},
	},
	GoalGeneralFitness: {
		{Day: "Day 1", Focus: "Full Body A", Details: []string{"Goblet Squat 4x10", "Push-ups 4xAMRAP", "Rows 4x10", "Plank 3x45s"}},
		{Day: "Day 2", Focus: "Cardio 30-40", Details: []string{"Zone 2 steady 30-40 min"}},
		{Day: "Day 3", Focus: "Full Body B", Details: []string{"Deadlift 4x6", "Overhead Press 4x8", "Lat Pulldown 4x10", "Side Plank 3x30s/side"}},
		{Day: "Day 4", Focus: "Intervals + Steps", Details: []string{"6x1 min hard / 2 min easy", "8-10k steps"}},
	},
}

// Service builds weekly workout plans from fixed tables.
type Service struct{}

// NewService creates a new workouts service.
func NewService() *Service {
	return &Service{}
}

// Plan returns the plan for req's goal. Unknown goals get General Fitness.
func (s *Service) Plan(req PlanRequest) (PlanResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return PlanResponse{}, err
	}

	goal := strings.TrimSpace(req.FitnessGoal)
	days, ok := plans[goal]
	if !ok {
		goal = GoalGeneralFitness
		days = plans[goal]
	}

	perWeek, ok := daysPerWeek[strings.TrimSpace(req.ActivityLevel)]
	if !ok {
		perWeek = defaultDaysPerWeek
	}

	out := make([]WorkoutDay, len(days))
	for i, d := range days {
		out[i] = WorkoutDay{Day: d.Day, Focus: d.Focus, Details: append([]string(nil), d.Details...)}
	}

	return PlanResponse{Goal: goal, DaysPerWeek: perWeek, Plan: out}, nil
}

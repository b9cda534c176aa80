package workouts

// Fitness goals
const (
	GoalWeightLoss     = "Weight Loss"
	GoalMuscleGain     = "Muscle Gain"
	GoalEndurance      = "Endurance"
	GoalGeneralFitness = "General Fitness"
)

// PlanRequest is the body of POST /v1/workouts/plan.
type PlanRequest struct {
	FitnessGoal     string `json:"fitnessGoal" validate:"max=64"`
	ActivityLevel   string `json:"activityLevel" validate:"max=64"`
	ExperienceLevel string `json:"experienceLevel" validate:"max=64"`
}

// WorkoutDay is one training day of a plan.
type WorkoutDay struct {
	Day     string   `json:"day"`
	Focus   string   `json:"focus"`
	Details []string `json:"details"`
}

// PlanResponse is a weekly training plan.
type PlanResponse struct {
	Goal        string       `json:"goal"`
	DaysPerWeek int          `json:"daysPerWeek"`
	Plan        []WorkoutDay `json:"plan"`
}

package forecast

// Request is the body of POST /v1/progress/forecast.
type Request struct {
	Weight        float64 `json:"weight" validate:"gt=0,lte=350"`
	FitnessGoal   string  `json:"fitnessGoal"`
	ActivityLevel string  `json:"activityLevel"`
	Weeks         int     `json:"weeks" validate:"gte=1,lte=104"`
}

// NewRequest returns a request carrying the documented defaults.
func NewRequest() Request {
	return Request{Weight: 70, FitnessGoal: "General Fitness", ActivityLevel: "Moderate", Weeks: 12}
}

// Point is the projected weight at a week.
type Point struct {
	Week   int     `json:"week"`
	Weight float64 `json:"weight"`
}

// Response is a weight trajectory.
type Response struct {
	WeeklyDelta float64 `json:"weeklyDelta"`
	Points      []Point `json:"points"`
}

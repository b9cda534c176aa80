package nutrition

// Activity levels
const (
	ActivitySedentary  = "Sedentary"
	ActivityLight      = "Light"
	ActivityModerate   = "Moderate"
	ActivityActive     = "Active"
	ActivityVeryActive = "Very Active"
)

// TargetsRequest is the body of POST /v1/nutrition/targets.
type TargetsRequest struct {
	Age           int     `json:"age" validate:"gte=10,lte=100"`
	Weight        float64 `json:"weight" validate:"gte=25,lte=350"`
	HeightFeet    int     `json:"heightFeet" validate:"gte=3,lte=8"`
	HeightInches  int     `json:"heightInches" validate:"gte=0,lte=11"`
	ActivityLevel string  `json:"activityLevel"`
	Gender        string  `json:"gender"`
}

// NewTargetsRequest returns a request carrying the documented defaults.
func NewTargetsRequest() TargetsRequest {
	return TargetsRequest{
		Age:           25,
		Weight:        70,
		HeightFeet:    5,
		HeightInches:  10,
		ActivityLevel: ActivityModerate,
		Gender:        "Male",
	}
}

// TargetsResponse contains daily calorie and macro targets.
type TargetsResponse struct {
	Calories int     `json:"calories"`
	Protein  int     `json:"protein"`
	Carbs    int     `json:"carbs"`
	Fats     int     `json:"fats"`
	BMR      float64 `json:"bmr"`
}

package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/joho/godotenv/autoload"
)

const defaultAPIBase = "http://localhost:8080"

var (
	apiBase  string
	token    string
	client   = &http.Client{Timeout: 30 * time.Second}
	mealName string
)

func main() {
	fmt.Println("=== BioBoard E2E Smoke Test ===")
	fmt.Println()

	apiBase = strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBase), "/")
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Dev Token", testDevToken},
		{"Catalog", testCatalog},
		{"Recommend (Omnivore)", testRecommend},
		{"Recommend (Vegan list)", testRecommendVegan},
		{"Recommend (invalid)", testRecommendInvalid},
		{"Similar", testSimilar},
		{"Export (CSV)", testExportCSV},
		{"Export (PDF)", testExportPDF},
		{"Nutrition Targets", testNutritionTargets},
		{"Workout Plan", testWorkoutPlan},
		{"Progress Forecast", testForecast},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("SMOKE TEST FAILED")
		os.Exit(1)
	}
	fmt.Println("ALL SMOKE TESTS PASSED")
}

type meal struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Calories int    `json:"calories"`
}

func testHealthz() error {
	var health struct {
		Status  string `json:"status"`
		Catalog string `json:"catalog"`
	}
	if err := doJSON(http.MethodGet, "/healthz", nil, http.StatusOK, &health); err != nil {
		return err
	}
	if health.Catalog != "ready" {
		return fmt.Errorf("catalog=%s, expected ready", health.Catalog)
	}
	return nil
}

// testDevToken fetches a dev token unless SMOKE_TOKEN is set. A 404 means
// dev auth is disabled and the remaining steps run anonymously.
func testDevToken() error {
	if token != "" {
		return nil
	}
	resp, err := do(http.MethodPost, "/v1/auth/dev", map[string]string{"subject": "smoke"})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil
	case http.StatusOK:
		var out struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return err
		}
		token = out.AccessToken
		return nil
	default:
		return unexpected(resp)
	}
}

func testCatalog() error {
	var summary struct {
		TotalMeals int `json:"totalMeals"`
	}
	if err := doJSON(http.MethodGet, "/v1/meals/catalog", nil, http.StatusOK, &summary); err != nil {
		return err
	}
	if summary.TotalMeals == 0 {
		return fmt.Errorf("empty catalog")
	}
	return nil
}

func testRecommend() error {
	var meals []meal
	req := map[string]any{"calorieGoal": 2000, "dietaryPreferences": "Omnivore", "numMeals": 3}
	if err := doJSON(http.MethodPost, "/v1/meals/recommendations", req, http.StatusOK, &meals); err != nil {
		return err
	}
	if len(meals) == 0 || len(meals) > 3 {
		return fmt.Errorf("got %d meals, expected 1..3", len(meals))
	}
	mealName = meals[0].Name
	return nil
}

func testRecommendVegan() error {
	var meals []meal
	req := map[string]any{"calorieGoal": 1800, "dietaryPreferences": []string{"Vegan"}, "numMeals": 2}
	return doJSON(http.MethodPost, "/v1/meals/recommendations", req, http.StatusOK, &meals)
}

func testRecommendInvalid() error {
	req := map[string]any{"calorieGoal": 2000, "dietaryPreferences": "Carnivore"}
	return doJSON(http.MethodPost, "/v1/meals/recommendations", req, http.StatusBadRequest, nil)
}

func testSimilar() error {
	if mealName == "" {
		return fmt.Errorf("no meal from previous step")
	}
	var out struct {
		Meals []meal `json:"meals"`
	}
	path := "/v1/meals/similar?limit=3&name=" + url.QueryEscape(mealName)
	return doJSON(http.MethodGet, path, nil, http.StatusOK, &out)
}

func testExportCSV() error {
	return expectDocument("csv", "slot,name,")
}

func testExportPDF() error {
	return expectDocument("pdf", "%PDF")
}

func expectDocument(format, prefix string) error {
	req := map[string]any{"calorieGoal": 2000, "numMeals": 3}
	resp, err := do(http.MethodPost, "/v1/meals/recommendations/export?format="+format, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unexpected(resp)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(body, []byte(prefix)) {
		return fmt.Errorf("%s export does not start with %q", format, prefix)
	}
	return nil
}

func testNutritionTargets() error {
	var out struct {
		Calories int `json:"calories"`
	}
	if err := doJSON(http.MethodPost, "/v1/nutrition/targets", map[string]any{}, http.StatusOK, &out); err != nil {
		return err
	}
	if out.Calories <= 0 {
		return fmt.Errorf("calories=%d", out.Calories)
	}
	return nil
}

func testWorkoutPlan() error {
	return doJSON(http.MethodPost, "/v1/workouts/plan", map[string]any{"fitnessGoal": "Muscle Gain"}, http.StatusOK, nil)
}

func testForecast() error {
	return doJSON(http.MethodPost, "/v1/progress/forecast", map[string]any{"weeks": 8}, http.StatusOK, nil)
}

// Helper functions

func do(method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return client.Do(req)
}

func doJSON(method, path string, body any, wantStatus int, out any) error {
	resp, err := do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return unexpected(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func unexpected(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

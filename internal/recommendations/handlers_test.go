package recommendations

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/fdg312/bioboard/internal/meals"
	"github.com/fdg312/bioboard/internal/recommender"
)

func testEngine(t *testing.T) *recommender.Engine {
	t.Helper()
	corpus := []meals.Record{
		{Name: "Chicken Omelette", Cuisine: "American", DietPattern: meals.DietBalanced, Slot: meals.SlotBreakfast, Calories: 450, Protein: 30, Carbs: 20, Fats: 25},
		{Name: "Oatmeal Bowl", Cuisine: "American", DietPattern: meals.DietBalanced, Slot: meals.SlotBreakfast, Calories: 350, Protein: 12, Carbs: 60, Fats: 8, IsVegetarian: true, IsVegan: true},
		{Name: "Beef Burrito", Cuisine: "Mexican", DietPattern: meals.DietBalanced, Slot: meals.SlotLunch, Calories: 700, Protein: 40, Carbs: 80, Fats: 25},
		{Name: "Lentil Soup", Cuisine: "Indian", DietPattern: meals.DietBalanced, Slot: meals.SlotLunch, Calories: 500, Protein: 25, Carbs: 70, Fats: 10, IsVegetarian: true, IsVegan: true},
		{Name: "Grilled Salmon", Cuisine: "American", DietPattern: meals.DietLowCarb, Slot: meals.SlotDinner, Calories: 600, Protein: 45, Carbs: 10, Fats: 35},
		{Name: "Veggie Pasta", Cuisine: "Italian", DietPattern: meals.DietBalanced, Slot: meals.SlotDinner, Calories: 600, Protein: 18, Carbs: 95, Fats: 15, IsVegetarian: true, IsVegan: true},
	}
	engine, err := recommender.New(corpus, recommender.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return engine
}

func newTestHandler(t *testing.T, engine *recommender.Engine) *Handler {
	t.Helper()
	return NewHandler(NewService(engine), nil)
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestHandleRecommend_Success(t *testing.T) {
	h := newTestHandler(t, testEngine(t))

	body := `{"calorieGoal": 2000, "dietaryPreferences": "Omnivore", "numMeals": 3}`
	req := httptest.NewRequest(http.MethodPost, "/v1/meals/recommendations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRecommend(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got []recommender.Recommendation
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 meals, got %d", len(got))
	}
	wantTypes := []string{"Breakfast", "Lunch", "Dinner"}
	wantCalories := []int{500, 800, 700}
	for i, m := range got {
		if m.Type != wantTypes[i] || m.Calories != wantCalories[i] {
			t.Errorf("meal %d: got %s/%d, want %s/%d", i, m.Type, m.Calories, wantTypes[i], wantCalories[i])
		}
	}
	if rec.Header().Get("X-Filter-Fallback") != "" {
		t.Error("unexpected fallback header")
	}
}

func TestHandleRecommend_Defaults(t *testing.T) {
	h := newTestHandler(t, testEngine(t))

	req := httptest.NewRequest(http.MethodPost, "/v1/meals/recommendations", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.HandleRecommend(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got []recommender.Recommendation
	json.Unmarshal(rec.Body.Bytes(), &got)
	total := 0
	for _, m := range got {
		total += m.Calories
	}
	if len(got) != 3 || total != 2000 {
		t.Fatalf("expected 3 meals totalling 2000 kcal, got %d/%d", len(got), total)
	}
}

func TestHandleRecommend_PreferenceList(t *testing.T) {
	h := newTestHandler(t, testEngine(t))

	body := `{"calorieGoal": 1800, "dietaryPreferences": ["vegan"], "numMeals": 2}`
	req := httptest.NewRequest(http.MethodPost, "/v1/meals/recommendations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRecommend(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got []recommender.Recommendation
	json.Unmarshal(rec.Body.Bytes(), &got)
	vegan := map[string]bool{"Oatmeal Bowl": true, "Lentil Soup": true}
	for _, m := range got {
		if !vegan[m.Name] {
			t.Errorf("expected only vegan meals, got %q", m.Name)
		}
	}
}

func TestHandleRecommend_FallbackHeader(t *testing.T) {
	h := newTestHandler(t, testEngine(t))

	body := `{"calorieGoal": 2000, "dietaryPreferences": "Low_Sodium", "numMeals": 3}`
	req := httptest.NewRequest(http.MethodPost, "/v1/meals/recommendations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRecommend(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Filter-Fallback") != "true" {
		t.Fatal("expected X-Filter-Fallback header when no meal matches the filter")
	}
}

func TestHandleRecommend_Errors(t *testing.T) {
	tests := []struct {
		name       string
		engine     bool
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "bad json", engine: true, body: `{`, wantStatus: http.StatusBadRequest, wantCode: "invalid_payload"},
		{name: "zero meals", engine: true, body: `{"numMeals": 0}`, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "negative goal", engine: true, body: `{"calorieGoal": -5}`, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "unknown preference", engine: true, body: `{"dietaryPreferences": "Carnivore"}`, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "preference number", engine: true, body: `{"dietaryPreferences": 7}`, wantStatus: http.StatusBadRequest, wantCode: "invalid_payload"},
		{name: "no corpus", engine: false, body: `{}`, wantStatus: http.StatusServiceUnavailable, wantCode: "corpus_unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var engine *recommender.Engine
			if tt.engine {
				engine = testEngine(t)
			}
			h := newTestHandler(t, engine)

			req := httptest.NewRequest(http.MethodPost, "/v1/meals/recommendations", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.HandleRecommend(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if got := decodeError(t, rec).Error.Code; got != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, got)
			}
		})
	}
}

func TestHandleExport(t *testing.T) {
	h := newTestHandler(t, testEngine(t))
	body := `{"calorieGoal": 2000, "numMeals": 3}`

	req := httptest.NewRequest(http.MethodPost, "/v1/meals/recommendations/export?format=csv", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 4 || lines[0] != "slot,name,calories,protein,carbs,fats" {
		t.Fatalf("unexpected csv: %q", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/meals/recommendations/export", strings.NewReader(body))
	rec = httptest.NewRecorder()
	h.HandleExport(rec, req)
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected pdf by default, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/meals/recommendations/export?format=docx", strings.NewReader(body))
	rec = httptest.NewRecorder()
	h.HandleExport(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported format, got %d", rec.Code)
	}
}

func TestHandleSimilar(t *testing.T) {
	h := newTestHandler(t, testEngine(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/meals/similar?name=lentil+soup&limit=2", nil)
	rec := httptest.NewRecorder()
	h.HandleSimilar(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp SimilarResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Meals) != 2 {
		t.Fatalf("expected 2 similar meals, got %d", len(resp.Meals))
	}
	for _, m := range resp.Meals {
		if m.Name == "Lentil Soup" {
			t.Error("expected the meal itself to be excluded")
		}
	}

	cases := []struct {
		url        string
		wantStatus int
		wantCode   string
	}{
		{"/v1/meals/similar?name=Pizza", http.StatusNotFound, "meal_not_found"},
		{"/v1/meals/similar", http.StatusBadRequest, "invalid_request"},
		{"/v1/meals/similar?name=Lentil+Soup&limit=abc", http.StatusBadRequest, "invalid_request"},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		h.HandleSimilar(rec, httptest.NewRequest(http.MethodGet, c.url, nil))
		if rec.Code != c.wantStatus {
			t.Errorf("%s: expected %d, got %d", c.url, c.wantStatus, rec.Code)
			continue
		}
		if got := decodeError(t, rec).Error.Code; got != c.wantCode {
			t.Errorf("%s: expected code %q, got %q", c.url, c.wantCode, got)
		}
	}
}

func TestHandleCatalog(t *testing.T) {
	h := newTestHandler(t, testEngine(t))

	rec := httptest.NewRecorder()
	h.HandleCatalog(rec, httptest.NewRequest(http.MethodGet, "/v1/meals/catalog", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp CatalogResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalMeals != 6 {
		t.Errorf("expected 6 meals, got %d", resp.TotalMeals)
	}
	wantCuisines := []string{"American", "Mexican", "Indian", "Italian"}
	if strings.Join(resp.Cuisines, ",") != strings.Join(wantCuisines, ",") {
		t.Errorf("unexpected cuisines %v", resp.Cuisines)
	}

	rec = httptest.NewRecorder()
	newTestHandler(t, nil).HandleCatalog(rec, httptest.NewRequest(http.MethodGet, "/v1/meals/catalog", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without corpus, got %d", rec.Code)
	}
}

func TestPreferenceListUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{`"Vegan"`, []string{"Vegan"}},
		{`"Vegan, Low_Sodium"`, []string{"Vegan", "Low_Sodium"}},
		{`["Keto","Paleo"]`, []string{"Keto", "Paleo"}},
		{`null`, nil},
		{`""`, nil},
	}
	for _, tt := range tests {
		var got PreferenceList
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Errorf("%s: unexpected error %v", tt.in, err)
			continue
		}
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("%s: got %v, want %v", tt.in, got, tt.want)
		}
	}

	var bad PreferenceList
	if err := json.Unmarshal([]byte(`{"a":1}`), &bad); err == nil {
		t.Error("expected error for object")
	}
}

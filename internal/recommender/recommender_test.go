package recommender

import (
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/fdg312/bioboard/internal/meals"
)

func testCorpus() []meals.Record {
	return []meals.Record{
		{Name: "Chicken Omelette", Cuisine: "American", DietPattern: meals.DietBalanced, Slot: meals.SlotBreakfast, Calories: 450, Protein: 30, Carbs: 20, Fats: 25},
		{Name: "Oatmeal Bowl", Cuisine: "American", DietPattern: meals.DietBalanced, Slot: meals.SlotBreakfast, Calories: 350, Protein: 12, Carbs: 60, Fats: 8, IsVegetarian: true, IsVegan: true},
		{Name: "Beef Burrito", Cuisine: "Mexican", DietPattern: meals.DietBalanced, Slot: meals.SlotLunch, Calories: 700, Protein: 40, Carbs: 70, Fats: 25},
		{Name: "Lentil Soup", Cuisine: "Indian", DietPattern: meals.DietBalanced, Restriction: meals.DietLowSodium, Slot: meals.SlotLunch, Calories: 500, Protein: 25, Carbs: 70, Fats: 10, IsVegetarian: true, IsVegan: true},
		{Name: "Grilled Salmon", Cuisine: "Japanese", DietPattern: meals.DietBalanced, Slot: meals.SlotDinner, Calories: 650, Protein: 45, Carbs: 30, Fats: 35},
		{Name: "Veggie Pasta", Cuisine: "Italian", DietPattern: meals.DietBalanced, Slot: meals.SlotDinner, Calories: 600, Protein: 18, Carbs: 90, Fats: 15, IsVegetarian: true, IsVegan: true},
		{Name: "Tofu Stir Fry", Cuisine: "Chinese", DietPattern: meals.DietLowCarb, Slot: meals.SlotDinner, Calories: 450, Protein: 25, Carbs: 20, Fats: 25, IsVegetarian: true, IsVegan: true},
		{Name: "Greek Yogurt Parfait", Cuisine: "Greek", DietPattern: meals.DietBalanced, Slot: meals.SlotBreakfast, Calories: 300, Protein: 20, Carbs: 40, Fats: 8, IsVegetarian: true},
		{Name: "Steamed Fish Rice", Cuisine: "Chinese", DietPattern: meals.DietLowSodium, Restriction: meals.DietLowSodium, Slot: meals.SlotDinner, Calories: 520, Protein: 35, Carbs: 55, Fats: 12},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(testCorpus(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func mustPrefs(t *testing.T, tags ...string) Preferences {
	t.Helper()
	p, err := ParsePreferences(tags)
	if err != nil {
		t.Fatalf("ParsePreferences(%v): %v", tags, err)
	}
	return p
}

func recordByName(t *testing.T, name string) meals.Record {
	t.Helper()
	for _, r := range testCorpus() {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("meal %q not in test corpus", name)
	return meals.Record{}
}

func TestRecommendOmnivoreThreeMeals(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Recommend(Request{CalorieGoal: 2000, NumMeals: 3, Preferences: mustPrefs(t, "Omnivore")})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res.Meals) != 3 {
		t.Fatalf("expected 3 meals, got %d", len(res.Meals))
	}

	total, meat := 0, 0
	wantTypes := []string{"Breakfast", "Lunch", "Dinner"}
	for i, m := range res.Meals {
		total += m.Calories
		r := recordByName(t, m.Name)
		if r.IsMeat() {
			meat++
		}
		if m.Type != wantTypes[i] {
			t.Errorf("meal %d: expected type %s, got %s", i, wantTypes[i], m.Type)
		}
		if r.Slot != m.Type {
			t.Errorf("meal %q has slot %s but label %s", m.Name, r.Slot, m.Type)
		}
	}
	if math.Abs(float64(total-2000)) > 3 {
		t.Errorf("expected calories to sum to 2000±3, got %d", total)
	}
	if meat < 1 {
		t.Errorf("expected at least one meat meal, got %+v", res.Meals)
	}
	if res.FellBack {
		t.Error("omnivore request should not fall back")
	}
}

func TestRecommendCaloriesFollowTemplate(t *testing.T) {
	e := newTestEngine(t)

	for n := 1; n <= 8; n++ {
		res, err := e.Recommend(Request{CalorieGoal: 2300, NumMeals: n, Preferences: mustPrefs(t, "Omnivore")})
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if len(res.Meals) != n {
			t.Fatalf("n=%d: expected %d meals, got %d", n, n, len(res.Meals))
		}
		shares := Distribution(len(res.Meals))
		for i, m := range res.Meals {
			want := 2300 * shares[i]
			if math.Abs(float64(m.Calories)-want) > 1 {
				t.Errorf("n=%d meal %d: expected ~%.1f kcal, got %d", n, i, want, m.Calories)
			}
		}
	}
}

func TestRecommendLengthCappedByFilteredCorpus(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Recommend(Request{CalorieGoal: 2000, NumMeals: 3, Preferences: mustPrefs(t, "Low_Sodium")})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res.Meals) != 2 {
		t.Fatalf("expected 2 low sodium meals, got %+v", res.Meals)
	}
	if res.Candidates != 2 || res.FellBack {
		t.Errorf("unexpected filter outcome: candidates=%d fellBack=%v", res.Candidates, res.FellBack)
	}
	for _, m := range res.Meals {
		if m.Calories != 1000 {
			t.Errorf("expected equal split of 1000 kcal, got %d", m.Calories)
		}
	}
}

func TestRecommendVegan(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Recommend(Request{CalorieGoal: 1800, NumMeals: 3, Preferences: mustPrefs(t, "vegan")})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res.Meals) != 3 {
		t.Fatalf("expected 3 meals, got %d", len(res.Meals))
	}
	for _, m := range res.Meals {
		r := recordByName(t, m.Name)
		if !r.IsVegan {
			t.Errorf("non-vegan meal %q in vegan plan", m.Name)
		}
		if meals.ContainsAny(m.Name, meals.AnimalProductKeywords) {
			t.Errorf("meal %q matches an animal product keyword", m.Name)
		}
	}
}

func TestRecommendVeganFallsBackWithoutVeganMeals(t *testing.T) {
	var corpus []meals.Record
	for _, r := range testCorpus() {
		r.IsVegan = false
		corpus = append(corpus, r)
	}
	e, err := New(corpus, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := e.Recommend(Request{CalorieGoal: 2000, NumMeals: 4, Preferences: mustPrefs(t, "Vegan")})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !res.FellBack {
		t.Error("expected filter fallback")
	}
	if res.Candidates != len(corpus) {
		t.Errorf("expected whole corpus ranked, got %d", res.Candidates)
	}
	if len(res.Meals) != 4 {
		t.Errorf("expected 4 meals, got %d", len(res.Meals))
	}
}

func TestRecommendIsDeterministic(t *testing.T) {
	e := newTestEngine(t)
	req := Request{CalorieGoal: 2200, NumMeals: 5, Preferences: mustPrefs(t, "Omnivore", "Keto")}

	first, err := e.Recommend(req)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := e.Recommend(req)
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, first, again)
		}
	}
}

func TestRecommendConcurrent(t *testing.T) {
	e := newTestEngine(t)
	req := Request{CalorieGoal: 2000, NumMeals: 3, Preferences: mustPrefs(t, "Omnivore")}
	want, err := e.Recommend(req)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.Recommend(req)
			if err != nil {
				errs <- err
				return
			}
			if !reflect.DeepEqual(got, want) {
				errs <- errors.New("concurrent result differs")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestRecommendErrors(t *testing.T) {
	var nilEngine *Engine
	if _, err := nilEngine.Recommend(Request{CalorieGoal: 2000, NumMeals: 3}); !errors.Is(err, ErrCorpusUnavailable) {
		t.Errorf("nil engine: expected ErrCorpusUnavailable, got %v", err)
	}

	if _, err := New(nil, Options{}); !errors.Is(err, ErrCorpusUnavailable) {
		t.Errorf("empty corpus: expected ErrCorpusUnavailable, got %v", err)
	}

	inadmissible := []meals.Record{{Name: "Nothing", Calories: 0}}
	if _, err := New(inadmissible, Options{}); !errors.Is(err, ErrCorpusUnavailable) {
		t.Errorf("inadmissible corpus: expected ErrCorpusUnavailable, got %v", err)
	}

	e := newTestEngine(t)
	bad := []Request{
		{CalorieGoal: 2000, NumMeals: 0},
		{CalorieGoal: 0, NumMeals: 3},
		{CalorieGoal: -100, NumMeals: 3},
		{CalorieGoal: 2000, NumMeals: MaxMeals + 1},
	}
	for _, req := range bad {
		if _, err := e.Recommend(req); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%+v: expected ErrInvalidRequest, got %v", req, err)
		}
	}
}

func TestSimilar(t *testing.T) {
	e := newTestEngine(t)

	got, err := e.Similar("beef burrito", 3)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 neighbours, got %d", len(got))
	}
	for _, r := range got {
		if r.Name == "Beef Burrito" {
			t.Error("Similar must not return the meal itself")
		}
	}

	all, err := e.Similar("Beef Burrito", 0)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(all) != e.Len()-1 {
		t.Errorf("expected %d neighbours, got %d", e.Len()-1, len(all))
	}

	if _, err := e.Similar("Unicorn Steak", 5); !errors.Is(err, ErrMealNotFound) {
		t.Errorf("expected ErrMealNotFound, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	e := newTestEngine(t)
	s := e.Summary()

	if s.TotalMeals != 9 {
		t.Errorf("expected 9 meals, got %d", s.TotalMeals)
	}
	wantCuisines := []string{"American", "Mexican", "Indian", "Japanese", "Italian", "Chinese", "Greek"}
	if !reflect.DeepEqual(s.Cuisines, wantCuisines) {
		t.Errorf("cuisines = %v, want %v", s.Cuisines, wantCuisines)
	}
	wantDiets := []string{meals.DietBalanced, meals.DietLowCarb, meals.DietLowSodium}
	if !reflect.DeepEqual(s.DietTypes, wantDiets) {
		t.Errorf("diet types = %v, want %v", s.DietTypes, wantDiets)
	}
}

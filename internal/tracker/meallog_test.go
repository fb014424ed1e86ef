package tracker

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macro-meter/internal/models"
	"macro-meter/internal/storage"
)

// flakyKV fails the next failGets reads, then behaves like its backing
// store.
type flakyKV struct {
	*storage.MemoryStorage
	failGets int
}

func (f *flakyKV) Get(key string) (string, bool, error) {
	if f.failGets > 0 {
		f.failGets--
		return "", false, errors.New("database is locked")
	}
	return f.MemoryStorage.Get(key)
}

func salad() models.MealInput {
	return models.MealInput{
		FoodName: "Caesar Salad",
		Weight:   models.Grams(250),
		Calories: models.Kcal(480),
		Protein:  models.Grams(12),
		Carbs:    models.Grams(20),
		Fats:     models.Grams(38),
	}
}

func TestMealLog_AppendStampsToday(t *testing.T) {
	tr, _ := newTestTracker(t, "2025-06-30")

	rec, err := tr.Meals.AppendMeal(salad())
	require.NoError(t, err)

	assert.Equal(t, models.MealRecord{
		FoodName: "Caesar Salad",
		Weight:   "250g",
		Calories: "480",
		Protein:  "12g",
		Carbs:    "20g",
		Fats:     "38g",
		Date:     "2025-06-30",
	}, rec)
}

func TestMealLog_AppendRecordOverridesDate(t *testing.T) {
	tr, _ := newTestTracker(t, "2025-06-30")

	rec, err := tr.Meals.AppendRecord(models.MealRecord{FoodName: "Soup", Calories: "120", Date: "1999-12-31"})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-30", rec.Date)
}

func TestMealLog_MostRecentFirst(t *testing.T) {
	tr, _ := newTestTracker(t, "2025-06-30")

	names := []string{"Eggs", "Toast", "Eggs", "Apple"}
	for _, n := range names {
		_, err := tr.Meals.AppendMeal(models.MealInput{FoodName: n})
		require.NoError(t, err)
	}

	all := tr.Meals.GetAllMeals()
	require.Len(t, all, 4)
	got := make([]string, len(all))
	for i, m := range all {
		got[i] = m.FoodName
	}
	// duplicates are kept
	assert.Equal(t, []string{"Apple", "Eggs", "Toast", "Eggs"}, got)
}

func TestMealLog_EmptyStore(t *testing.T) {
	tr, _ := newTestTracker(t, "2025-06-30")

	meals := tr.Meals.GetAllMeals()
	assert.NotNil(t, meals)
	assert.Empty(t, meals)
}

func TestMealLog_MalformedHistory(t *testing.T) {
	for name, raw := range map[string]string{
		"garbage": `{not json`,
		"object":  `{"food_name":"x"}`,
		"null":    `null`,
	} {
		t.Run(name, func(t *testing.T) {
			tr, kv := newTestTracker(t, "2025-06-30")
			require.NoError(t, kv.Set(KeyMealHistory, raw))

			assert.Empty(t, tr.Meals.GetAllMeals())

			_, err := tr.Meals.AppendMeal(salad())
			require.NoError(t, err)
			assert.Len(t, tr.Meals.GetAllMeals(), 1)
		})
	}
}

func TestMealLog_RejectsEmptyName(t *testing.T) {
	tr, kv := newTestTracker(t, "2025-06-30")

	_, err := tr.Meals.AppendMeal(models.MealInput{FoodName: "  "})
	assert.ErrorIs(t, err, ErrEmptyFoodName)

	_, ok, _ := kv.Get(KeyMealHistory)
	assert.False(t, ok)
}

func TestMealLog_Search(t *testing.T) {
	tr, _ := newTestTracker(t, "2025-06-30")
	for _, n := range []string{"Chicken Salad", "Beef Burger", "chicken wrap"} {
		_, err := tr.Meals.AppendMeal(models.MealInput{FoodName: n})
		require.NoError(t, err)
	}

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"chicken wrap", "Beef Burger", "Chicken Salad"}},
		{"CHICKEN", []string{"chicken wrap", "Chicken Salad"}},
		{"burg", []string{"Beef Burger"}},
		{"tofu", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := []string{}
			for _, m := range tr.Meals.Search(tt.term) {
				got = append(got, m.FoodName)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMealLog_MealsOn(t *testing.T) {
	tr, kv := newTestTracker(t, "2025-01-02")
	require.NoError(t, kv.Set(KeyMealHistory, `[
		{"food_name":"A","calories":"1","date":"2025-01-02"},
		{"food_name":"B","calories":"2","date":"2025-01-01"},
		{"food_name":"C","calories":"3","date":"2025-01-02"}
	]`))

	got := tr.Meals.MealsOn("2025-01-02")
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].FoodName)
	assert.Equal(t, "C", got[1].FoodName)
}

func TestMealLog_AppendKeepsHistoryWhenReadFails(t *testing.T) {
	kv := &flakyKV{MemoryStorage: storage.NewMemoryStorage()}
	tr := New(kv, WithClock(fixedClock("2025-06-30")))
	for _, n := range []string{"A", "B", "C"} {
		_, err := tr.Meals.AppendMeal(models.MealInput{FoodName: n})
		require.NoError(t, err)
	}

	kv.failGets = 1
	_, err := tr.Meals.AppendMeal(models.MealInput{FoodName: "D"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")

	got := []string{}
	for _, m := range tr.Meals.GetAllMeals() {
		got = append(got, m.FoodName)
	}
	assert.Equal(t, []string{"C", "B", "A"}, got)

	_, err = tr.Meals.AppendMeal(models.MealInput{FoodName: "D"})
	require.NoError(t, err)
	assert.Len(t, tr.Meals.GetAllMeals(), 4)
}

func TestMealLog_MixedTypeHistory(t *testing.T) {
	tr, kv := newTestTracker(t, "2025-01-02")
	require.NoError(t, kv.Set(KeyMealHistory, `[
		{"food_name":"A","calories":"300","protein":"10g","date":"2025-01-01"},
		{"food_name":"B","calories":500,"protein":"20g","carbs":true,"date":"2025-01-01"},
		42,
		{"food_name":"C","calories":"200","protein":"5g","date":"2025-01-01"}
	]`))

	meals := tr.Meals.GetAllMeals()
	require.Len(t, meals, 3)
	assert.Equal(t, "500", meals[1].Calories)

	totals := ComputeDailyTotals(meals, "2025-01-01")
	assert.Equal(t, models.DailyTotals{Calories: 1000, Protein: 35}, totals)

	_, err := tr.Meals.AppendMeal(models.MealInput{FoodName: "D"})
	require.NoError(t, err)

	raw, ok, err := kv.Get(KeyMealHistory)
	require.NoError(t, err)
	require.True(t, ok)
	var stored []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored, 5, "undecodable entries are kept")
	assert.JSONEq(t, `42`, string(stored[3]))
	assert.JSONEq(t, `{"food_name":"B","calories":500,"protein":"20g","carbs":true,"date":"2025-01-01"}`, string(stored[2]))

	names := []string{}
	for _, m := range tr.Meals.GetAllMeals() {
		names = append(names, m.FoodName)
	}
	assert.Equal(t, []string{"D", "A", "B", "C"}, names)
}

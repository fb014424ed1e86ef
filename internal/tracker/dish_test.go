package tracker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macro-meter/internal/models"
)

const sampleDish = `{
  "DishName": "Chicken Caesar Salad",
  "Weight_g": 350,
  "Macros": {"calories": 520, "protein_g": 32, "carbs_g": 18.5, "fat_g": 36}
}`

func TestLoadDish(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dish_macros.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDish), 0o644))

	in, err := LoadDish(path)
	require.NoError(t, err)
	assert.Equal(t, models.MealInput{
		FoodName: "Chicken Caesar Salad",
		Weight:   models.Grams(350),
		Calories: models.Kcal(520),
		Protein:  models.Grams(32),
		Carbs:    models.Grams(18.5),
		Fats:     models.Grams(36),
	}, in)

	rec := in.Record()
	assert.Equal(t, "350g", rec.Weight)
	assert.Equal(t, "520", rec.Calories)
	assert.Equal(t, "18.5g", rec.Carbs)
}

func TestLoadDish_Errors(t *testing.T) {
	_, err := LoadDish(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = ParseDish([]byte(`{"DishName":`))
	assert.Error(t, err)
}

func TestParseDish_MissingMacros(t *testing.T) {
	in, err := ParseDish([]byte(`{"DishName":"Water"}`))
	require.NoError(t, err)
	assert.Equal(t, "Water", in.FoodName)
	assert.Zero(t, in.Calories.Value)
}

func TestTracker_LogCurrentMealOnce(t *testing.T) {
	tr, _ := newTestTracker(t, "2025-04-04")

	in, err := ParseDish([]byte(sampleDish))
	require.NoError(t, err)
	_, err = tr.LogCurrentMeal(in)
	require.NoError(t, err)

	all := tr.Meals.GetAllMeals()
	require.Len(t, all, 1)
	assert.Equal(t, "Chicken Caesar Salad", all[0].FoodName)
	assert.Equal(t, "2025-04-04", all[0].Date)
}

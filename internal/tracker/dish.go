package tracker

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"macro-meter/internal/models"
)

// LoadDish reads the capture pipeline's dish_macros.json:
//
//	{"DishName": "...", "Weight_g": 350, "Macros": {"calories": 520, "protein_g": 32, "carbs_g": 48, "fat_g": 18}}
func LoadDish(path string) (models.MealInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.MealInput{}, fmt.Errorf("failed to read dish file: %w", err)
	}
	return ParseDish(data)
}

func ParseDish(data []byte) (models.MealInput, error) {
	if !gjson.ValidBytes(data) {
		return models.MealInput{}, fmt.Errorf("dish file is not valid JSON")
	}

	doc := gjson.ParseBytes(data)
	return models.MealInput{
		FoodName: doc.Get("DishName").String(),
		Weight:   models.Grams(doc.Get("Weight_g").Float()),
		Calories: models.Kcal(doc.Get("Macros.calories").Float()),
		Protein:  models.Grams(doc.Get("Macros.protein_g").Float()),
		Carbs:    models.Grams(doc.Get("Macros.carbs_g").Float()),
		Fats:     models.Grams(doc.Get("Macros.fat_g").Float()),
	}, nil
}

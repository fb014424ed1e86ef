package models

import (
	"errors"
	"strconv"

	"github.com/tidwall/gjson"
)

// MealRecord is one logged food entry as it is persisted under the
// mealHistory key. Macro fields keep their display form ("12g", "500").
type MealRecord struct {
	FoodName string `json:"food_name"`
	Weight   string `json:"weight"`
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fats     string `json:"fats"`
	Date     string `json:"date"`
}

var errNotMealObject = errors.New("meal record must be a JSON object")

// UnmarshalJSON accepts numbers as well as strings for every field, so a
// stored "calories":500 reads as "500". Fields of any other type read as
// empty.
func (r *MealRecord) UnmarshalJSON(data []byte) error {
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return errNotMealObject
	}
	*r = MealRecord{
		FoodName: textField(doc, "food_name"),
		Weight:   textField(doc, "weight"),
		Calories: textField(doc, "calories"),
		Protein:  textField(doc, "protein"),
		Carbs:    textField(doc, "carbs"),
		Fats:     textField(doc, "fats"),
		Date:     textField(doc, "date"),
	}
	return nil
}

func textField(doc gjson.Result, key string) string {
	v := doc.Get(key)
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return ""
}

// MealInput is a meal as entered, before it is stamped and persisted.
type MealInput struct {
	FoodName string   `json:"food_name"`
	Weight   Quantity `json:"weight"`
	Calories Quantity `json:"calories"`
	Protein  Quantity `json:"protein"`
	Carbs    Quantity `json:"carbs"`
	Fats     Quantity `json:"fats"`
}

// Macros holds the parsed macro quantities of a record.
type Macros struct {
	Calories Quantity
	Protein  Quantity
	Carbs    Quantity
	Fats     Quantity
}

// Macros parses the record's macro strings. Fields that are missing or
// carry no leading number come back as zero quantities.
func (r MealRecord) Macros() Macros {
	return Macros{
		Calories: parseOrZero(r.Calories),
		Protein:  parseOrZero(r.Protein),
		Carbs:    parseOrZero(r.Carbs),
		Fats:     parseOrZero(r.Fats),
	}
}

// Record converts the input to its persisted form. Date is left empty;
// the meal log stamps it.
func (in MealInput) Record() MealRecord {
	return MealRecord{
		FoodName: in.FoodName,
		Weight:   in.Weight.String(),
		Calories: in.Calories.String(),
		Protein:  in.Protein.String(),
		Carbs:    in.Carbs.String(),
		Fats:     in.Fats.String(),
	}
}

// Input parses a persisted record back into typed form.
func (r MealRecord) Input() MealInput {
	m := r.Macros()
	return MealInput{
		FoodName: r.FoodName,
		Weight:   parseOrZero(r.Weight),
		Calories: m.Calories,
		Protein:  m.Protein,
		Carbs:    m.Carbs,
		Fats:     m.Fats,
	}
}

func parseOrZero(s string) Quantity {
	q, ok := ParseQuantity(s)
	if !ok {
		return Quantity{}
	}
	return q
}

// DailyTotals is the sum of macros over the meals logged on one date.
type DailyTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// Add folds one meal's macros into the totals.
func (t DailyTotals) Add(m Macros) DailyTotals {
	return DailyTotals{
		Calories: t.Calories + m.Calories.Value,
		Protein:  t.Protein + m.Protein.Value,
		Carbs:    t.Carbs + m.Carbs.Value,
		Fats:     t.Fats + m.Fats.Value,
	}
}

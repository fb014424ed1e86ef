// Package view renders tracker data for display: units are attached and
// large numbers get thousands separators here and nowhere else.
package view

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"macro-meter/internal/models"
	"macro-meter/internal/tracker"
)

// Amount formats v with its unit: "2,000", "150g", "12.5g".
func Amount(v float64, unit models.Unit) string {
	var s string
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		s = humanize.Comma(int64(v))
	} else {
		s = humanize.CommafWithDigits(v, 1)
	}
	return s + string(unit)
}

type MacroView struct {
	Macro   models.Macro `json:"macro"`
	Title   string       `json:"title"`
	Current string       `json:"current"`
	Goal    string       `json:"goal"`
	Percent int          `json:"percent"`
	Caption string       `json:"caption"`
}

type ProgressView struct {
	Date     string             `json:"date"`
	Label    string             `json:"label"`
	IsToday  bool               `json:"is_today"`
	Previous string             `json:"previous"`
	Next     string             `json:"next,omitempty"`
	Totals   models.DailyTotals `json:"totals"`
	Macros   []MacroView        `json:"macros"`
}

// Progress renders a day's progress along with its navigation targets.
// Next is empty when the day is today.
func Progress(cal *tracker.Calendar, p models.DailyProgress) (ProgressView, error) {
	prev, err := cal.PreviousDay(p.Date)
	if err != nil {
		return ProgressView{}, err
	}
	next, ok, err := cal.NextDay(p.Date)
	if err != nil {
		return ProgressView{}, err
	}
	if !ok {
		next = ""
	}

	v := ProgressView{
		Date:     p.Date,
		Label:    cal.Label(p.Date),
		IsToday:  cal.IsToday(p.Date),
		Previous: prev,
		Next:     next,
		Totals:   p.Totals,
		Macros:   make([]MacroView, 0, len(p.Macros)),
	}
	for _, m := range p.Macros {
		unit := m.Macro.Unit()
		v.Macros = append(v.Macros, MacroView{
			Macro:   m.Macro,
			Title:   m.Macro.Title(),
			Current: Amount(m.Current, unit),
			Goal:    Amount(m.Goal, unit),
			Percent: m.Percent,
			Caption: fmt.Sprintf("%d%% of daily goal", m.Percent),
		})
	}
	return v, nil
}

type GoalsView struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fats     string `json:"fats"`
}

func Goals(g models.GoalRecord) GoalsView {
	return GoalsView{
		Calories: Amount(g.CaloriesGoal, models.UnitNone),
		Protein:  Amount(g.ProteinGoal, models.UnitGram),
		Carbs:    Amount(g.CarbsGoal, models.UnitGram),
		Fats:     Amount(g.FatsGoal, models.UnitGram),
	}
}

// Meal renders a stored record with normalised macro strings. Fields that
// do not parse are shown as stored.
func Meal(r models.MealRecord) models.MealRecord {
	norm := func(s string, unit models.Unit) string {
		q, ok := models.ParseQuantity(s)
		if !ok {
			return s
		}
		if q.Unit != models.UnitNone {
			unit = q.Unit
		}
		return Amount(q.Value, unit)
	}
	return models.MealRecord{
		FoodName: r.FoodName,
		Weight:   norm(r.Weight, models.UnitGram),
		Calories: norm(r.Calories, models.UnitNone),
		Protein:  norm(r.Protein, models.UnitGram),
		Carbs:    norm(r.Carbs, models.UnitGram),
		Fats:     norm(r.Fats, models.UnitGram),
		Date:     r.Date,
	}
}

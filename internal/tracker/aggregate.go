package tracker

import (
	"math"

	"macro-meter/internal/models"
)

// ComputeDailyTotals sums the macros of every meal whose date is exactly
// date. Unparseable macro fields count as zero.
func ComputeDailyTotals(meals []models.MealRecord, date string) models.DailyTotals {
	var totals models.DailyTotals
	for _, m := range meals {
		if m.Date != date {
			continue
		}
		totals = totals.Add(m.Macros())
	}
	return totals
}

// PercentOfGoal returns current as a rounded percentage of goal, clamped
// to [0, 100]. A goal of zero or less yields 0, as do NaN and infinite
// inputs.
func PercentOfGoal(current, goal float64) int {
	if goal <= 0 || math.IsNaN(goal) || math.IsInf(goal, 0) {
		return 0
	}
	if math.IsNaN(current) || math.IsInf(current, 0) {
		return 0
	}

	p := math.Round(current / goal * 100)
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return int(p)
}

// BuildProgress pairs each macro total with its goal.
func BuildProgress(date string, totals models.DailyTotals, goals models.GoalRecord) models.DailyProgress {
	progress := models.DailyProgress{
		Date:   date,
		Totals: totals,
		Goals:  goals,
		Macros: make([]models.MacroProgress, 0, len(models.AllMacros)),
	}

	for _, macro := range models.AllMacros {
		current, goal := macroPair(macro, totals, goals)
		progress.Macros = append(progress.Macros, models.MacroProgress{
			Macro:   macro,
			Current: current,
			Goal:    goal,
			Percent: PercentOfGoal(current, goal),
		})
	}
	return progress
}

func macroPair(m models.Macro, t models.DailyTotals, g models.GoalRecord) (float64, float64) {
	switch m {
	case models.MacroCalories:
		return t.Calories, g.CaloriesGoal
	case models.MacroProtein:
		return t.Protein, g.ProteinGoal
	case models.MacroCarbs:
		return t.Carbs, g.CarbsGoal
	case models.MacroFats:
		return t.Fats, g.FatsGoal
	}
	return 0, 0
}

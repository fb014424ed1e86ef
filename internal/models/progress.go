package models

// Macro names one of the tracked macronutrients.
type Macro string

const (
	MacroCalories Macro = "calories"
	MacroProtein  Macro = "protein"
	MacroCarbs    Macro = "carbs"
	MacroFats     Macro = "fats"
)

// AllMacros is the display order used by progress views.
var AllMacros = []Macro{MacroCalories, MacroProtein, MacroCarbs, MacroFats}

// Title is the heading shown next to a macro's progress bar.
func (m Macro) Title() string {
	switch m {
	case MacroCalories:
		return "Calories"
	case MacroProtein:
		return "Protein"
	case MacroCarbs:
		return "Carbs"
	case MacroFats:
		return "Fats"
	}
	return string(m)
}

// Unit is the display unit for the macro.
func (m Macro) Unit() Unit {
	if m == MacroCalories {
		return UnitNone
	}
	return UnitGram
}

type MacroProgress struct {
	Macro   Macro   `json:"macro"`
	Current float64 `json:"current"`
	Goal    float64 `json:"goal"`
	Percent int     `json:"percent"`
}

type DailyProgress struct {
	Date   string          `json:"date"`
	Totals DailyTotals     `json:"totals"`
	Goals  GoalRecord      `json:"goals"`
	Macros []MacroProgress `json:"macros"`
}

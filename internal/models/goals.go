package models

// GoalRecord holds the user's daily targets. The *_current fields are
// last-known actuals kept for compatibility; progress is always computed
// from the meal history.
type GoalRecord struct {
	CaloriesGoal    float64 `json:"calories_goal"`
	ProteinGoal     float64 `json:"protein_goal"`
	CarbsGoal       float64 `json:"carbs_goal"`
	FatsGoal        float64 `json:"fats_goal"`
	CaloriesCurrent float64 `json:"calories_current"`
	ProteinCurrent  float64 `json:"protein_current"`
	CarbsCurrent    float64 `json:"carbs_current"`
	FatsCurrent     float64 `json:"fats_current"`
}

// DefaultGoals returns the record used until the user saves their own.
func DefaultGoals() GoalRecord {
	return GoalRecord{
		CaloriesGoal: 2000,
		ProteinGoal:  150,
		CarbsGoal:    200,
		FatsGoal:     70,
	}
}

// GoalUpdate is a partial GoalRecord. Nil fields are left untouched by a
// merge.
type GoalUpdate struct {
	CaloriesGoal    *float64 `json:"calories_goal,omitempty"`
	ProteinGoal     *float64 `json:"protein_goal,omitempty"`
	CarbsGoal       *float64 `json:"carbs_goal,omitempty"`
	FatsGoal        *float64 `json:"fats_goal,omitempty"`
	CaloriesCurrent *float64 `json:"calories_current,omitempty"`
	ProteinCurrent  *float64 `json:"protein_current,omitempty"`
	CarbsCurrent    *float64 `json:"carbs_current,omitempty"`
	FatsCurrent     *float64 `json:"fats_current,omitempty"`
}

// Merge returns g with every supplied field of u applied.
func (g GoalRecord) Merge(u GoalUpdate) GoalRecord {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&g.CaloriesGoal, u.CaloriesGoal)
	set(&g.ProteinGoal, u.ProteinGoal)
	set(&g.CarbsGoal, u.CarbsGoal)
	set(&g.FatsGoal, u.FatsGoal)
	set(&g.CaloriesCurrent, u.CaloriesCurrent)
	set(&g.ProteinCurrent, u.ProteinCurrent)
	set(&g.CarbsCurrent, u.CarbsCurrent)
	set(&g.FatsCurrent, u.FatsCurrent)
	return g
}

// Targets lists the supplied goal fields by their JSON name.
func (u GoalUpdate) Targets() map[string]float64 {
	out := make(map[string]float64, 4)
	if u.CaloriesGoal != nil {
		out["calories_goal"] = *u.CaloriesGoal
	}
	if u.ProteinGoal != nil {
		out["protein_goal"] = *u.ProteinGoal
	}
	if u.CarbsGoal != nil {
		out["carbs_goal"] = *u.CarbsGoal
	}
	if u.FatsGoal != nil {
		out["fats_goal"] = *u.FatsGoal
	}
	return out
}

// Float is a helper for building GoalUpdate literals.
func Float(v float64) *float64 { return &v }

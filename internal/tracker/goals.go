package tracker

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"macro-meter/internal/models"
	"macro-meter/internal/storage"
)

// GoalStore keeps the single GoalRecord under KeyMacroGoals.
type GoalStore struct {
	kv     storage.KeyValue
	logger *zap.Logger
}

// GetGoals returns the saved goals, or the defaults if none are saved.
// A stored goal that is negative reads as its default.
func (s *GoalStore) GetGoals() models.GoalRecord {
	goals := models.DefaultGoals()
	if !loadJSON(s.kv, s.logger, KeyMacroGoals, &goals) {
		return models.DefaultGoals()
	}

	defaults := models.DefaultGoals()
	for _, f := range []struct {
		name     string
		got, def *float64
	}{
		{"calories_goal", &goals.CaloriesGoal, &defaults.CaloriesGoal},
		{"protein_goal", &goals.ProteinGoal, &defaults.ProteinGoal},
		{"carbs_goal", &goals.CarbsGoal, &defaults.CarbsGoal},
		{"fats_goal", &goals.FatsGoal, &defaults.FatsGoal},
	} {
		if *f.got < 0 || math.IsNaN(*f.got) {
			s.logger.Warn("stored goal is negative, using default",
				zap.String("goal", f.name),
				zap.Float64("stored", *f.got),
				zap.Float64("default", *f.def))
			*f.got = *f.def
		}
	}
	return goals
}

// SaveGoals merges the supplied fields over the current goals and
// persists the result.
func (s *GoalStore) SaveGoals(update models.GoalUpdate) (models.GoalRecord, error) {
	for name, v := range update.Targets() {
		if v < 0 || math.IsNaN(v) {
			return models.GoalRecord{}, fmt.Errorf("%s: %w", name, ErrNegativeGoal)
		}
	}

	merged := s.GetGoals().Merge(update)
	if err := saveJSON(s.kv, KeyMacroGoals, merged); err != nil {
		return models.GoalRecord{}, err
	}

	s.logger.Info("goals saved",
		zap.Float64("calories_goal", merged.CaloriesGoal),
		zap.Float64("protein_goal", merged.ProteinGoal),
		zap.Float64("carbs_goal", merged.CarbsGoal),
		zap.Float64("fats_goal", merged.FatsGoal))
	return merged, nil
}

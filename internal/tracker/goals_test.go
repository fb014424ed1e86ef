package tracker

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macro-meter/internal/models"
)

func TestGoalStore_DefaultsWhenAbsent(t *testing.T) {
	tr, _ := newTestTracker(t, "2025-01-01")

	got := tr.Goals.GetGoals()
	want := models.GoalRecord{CaloriesGoal: 2000, ProteinGoal: 150, CarbsGoal: 200, FatsGoal: 70}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetGoals() mismatch (-want +got):\n%s", diff)
	}
}

func TestGoalStore_PartialSaveKeepsOtherFields(t *testing.T) {
	tr, kv := newTestTracker(t, "2025-01-01")

	merged, err := tr.Goals.SaveGoals(models.GoalUpdate{ProteinGoal: models.Float(180)})
	require.NoError(t, err)

	want := models.DefaultGoals()
	want.ProteinGoal = 180
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("SaveGoals() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, want, tr.Goals.GetGoals())

	raw, ok, err := kv.Get(KeyMacroGoals)
	require.NoError(t, err)
	require.True(t, ok)
	var stored models.GoalRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, want, stored)
}

func TestGoalStore_SuccessiveMerges(t *testing.T) {
	tr, _ := newTestTracker(t, "2025-01-01")

	_, err := tr.Goals.SaveGoals(models.GoalUpdate{CaloriesGoal: models.Float(1800)})
	require.NoError(t, err)
	got, err := tr.Goals.SaveGoals(models.GoalUpdate{FatsGoal: models.Float(60), CarbsCurrent: models.Float(42)})
	require.NoError(t, err)

	assert.Equal(t, 1800.0, got.CaloriesGoal)
	assert.Equal(t, 150.0, got.ProteinGoal)
	assert.Equal(t, 60.0, got.FatsGoal)
	assert.Equal(t, 42.0, got.CarbsCurrent)
}

func TestGoalStore_EmptyUpdatePersistsCurrent(t *testing.T) {
	tr, kv := newTestTracker(t, "2025-01-01")

	got, err := tr.Goals.SaveGoals(models.GoalUpdate{})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultGoals(), got)

	_, ok, _ := kv.Get(KeyMacroGoals)
	assert.True(t, ok)
}

func TestGoalStore_RejectsNegative(t *testing.T) {
	tr, kv := newTestTracker(t, "2025-01-01")

	_, err := tr.Goals.SaveGoals(models.GoalUpdate{CarbsGoal: models.Float(-5)})
	assert.ErrorIs(t, err, ErrNegativeGoal)

	_, ok, _ := kv.Get(KeyMacroGoals)
	assert.False(t, ok, "nothing should be written")
}

func TestGoalStore_MalformedFallsBack(t *testing.T) {
	tr, kv := newTestTracker(t, "2025-01-01")
	require.NoError(t, kv.Set(KeyMacroGoals, `[1,2,3]`))

	assert.Equal(t, models.DefaultGoals(), tr.Goals.GetGoals())

	got, err := tr.Goals.SaveGoals(models.GoalUpdate{ProteinGoal: models.Float(120)})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, got.CaloriesGoal)
	assert.Equal(t, 120.0, got.ProteinGoal)
}

func TestGoalStore_PartiallyStoredRecord(t *testing.T) {
	tr, kv := newTestTracker(t, "2025-01-01")
	require.NoError(t, kv.Set(KeyMacroGoals, `{"calories_goal":2500}`))

	got := tr.Goals.GetGoals()
	assert.Equal(t, 2500.0, got.CaloriesGoal)
	assert.Equal(t, 150.0, got.ProteinGoal)
}

func TestGoalUpdate_JSONOmitsUnsupplied(t *testing.T) {
	var u models.GoalUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"protein_goal":180}`), &u))

	assert.Nil(t, u.CaloriesGoal)
	require.NotNil(t, u.ProteinGoal)
	assert.Equal(t, 180.0, *u.ProteinGoal)
	assert.Equal(t, map[string]float64{"protein_goal": 180}, u.Targets())
}

func TestGoalStore_NegativeStoredGoalReadsAsDefault(t *testing.T) {
	tr, kv := newTestTracker(t, "2025-01-01")
	require.NoError(t, kv.Set(KeyMacroGoals, `{"calories_goal":1800,"protein_goal":-40,"fats_goal":-0.5}`))

	want := models.DefaultGoals()
	want.CaloriesGoal = 1800
	if diff := cmp.Diff(want, tr.Goals.GetGoals()); diff != "" {
		t.Errorf("GetGoals() mismatch (-want +got):\n%s", diff)
	}
}

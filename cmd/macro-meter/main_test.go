package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"macro-meter/internal/models"
	"macro-meter/internal/storage"
	"macro-meter/internal/tracker"
	"macro-meter/internal/view"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), "macro-meter %v", args)
	return out.String()
}

func TestCLI_LogGoalsProgress(t *testing.T) {
	db := filepath.Join(t.TempDir(), "mm.db")

	out := run(t, "--db-path", db, "--log-level", "error", "log", "Chicken Rice",
		"--weight", "350", "--calories", "500", "--protein", "40g", "--carbs", "60g", "--fats", "10g")
	assert.Contains(t, out, "Chicken Rice")
	assert.Contains(t, out, "350g")

	out = run(t, "--db-path", db, "--log-level", "error", "goals", "set", "--protein", "80")
	assert.Contains(t, out, "80g")
	assert.Contains(t, out, "2,000")

	out = run(t, "--db-path", db, "--log-level", "error", "progress", "--json")
	var v view.ProgressView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "Today", v.Label)
	require.Len(t, v.Macros, 4)
	assert.Equal(t, 25, v.Macros[0].Percent)
	assert.Equal(t, 50, v.Macros[1].Percent)
	assert.Equal(t, 30, v.Macros[2].Percent)

	out = run(t, "--db-path", db, "--log-level", "error", "history", "--json", "--search", "rice")
	var meals []models.MealRecord
	require.NoError(t, json.Unmarshal([]byte(out), &meals))
	require.Len(t, meals, 1)
	assert.Equal(t, "500", meals[0].Calories)
}

func TestLogStartupDish(t *testing.T) {
	logger = zap.NewNop()
	path := filepath.Join(t.TempDir(), "dish_macros.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"DishName":"Omelette","Weight_g":180,"Macros":{"calories":310,"protein_g":21,"carbs_g":2,"fat_g":24}}`), 0o644))

	tr := tracker.New(storage.NewMemoryStorage())
	require.NoError(t, logStartupDish(tr, path))
	require.NoError(t, logStartupDish(tr, ""))

	meals := tr.Meals.GetAllMeals()
	require.Len(t, meals, 1)
	assert.Equal(t, "Omelette", meals[0].FoodName)
	assert.Equal(t, "24g", meals[0].Fats)

	unnamed := filepath.Join(t.TempDir(), "unnamed.json")
	require.NoError(t, os.WriteFile(unnamed, []byte(`{"Weight_g":100}`), 0o644))
	require.NoError(t, logStartupDish(tr, unnamed))
	assert.Len(t, tr.Meals.GetAllMeals(), 1)

	assert.Error(t, logStartupDish(tr, filepath.Join(t.TempDir(), "missing.json")))
}

func TestExecute_ClosesStoreOnFailedCommand(t *testing.T) {
	t.Cleanup(func() {
		progressDate = ""
		rootCmd.SetErr(nil)
	})
	db := filepath.Join(t.TempDir(), "mm.db")

	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"--db-path", db, "--log-level", "error", "progress", "--date", "last tuesday"})
	require.Error(t, execute())
	assert.Nil(t, store)
}

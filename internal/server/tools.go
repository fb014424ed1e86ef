package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"go.uber.org/zap"

	"macro-meter/internal/models"
	"macro-meter/internal/tracker"
	"macro-meter/internal/view"
)

type LogMealParams struct {
	FoodName string          `json:"food_name" description:"Name of the food or dish"`
	Weight   models.Quantity `json:"weight,omitempty" description:"Portion weight, e.g. \"350g\" or 350"`
	Calories models.Quantity `json:"calories" description:"Calories, e.g. \"520\""`
	Protein  models.Quantity `json:"protein,omitempty" description:"Protein, e.g. \"32g\""`
	Carbs    models.Quantity `json:"carbs,omitempty" description:"Carbohydrates, e.g. \"48g\""`
	Fats     models.Quantity `json:"fats,omitempty" description:"Fats, e.g. \"18g\""`
}

type GetMealsParams struct {
	Search string `json:"search,omitempty" description:"Case-insensitive food name filter"`
	Date   string `json:"date,omitempty" description:"Only meals logged on this date (YYYY-MM-DD)"`
	Limit  int    `json:"limit,omitempty" description:"Maximum number of meals to return"`
}

type DailyProgressParams struct {
	Date string `json:"date,omitempty" description:"Day to report (YYYY-MM-DD, defaults to today)"`
}

type ToggleSettingParams struct {
	Name string `json:"name" description:"darkMode, useMetricUnits or notificationsEnabled"`
}

type LookupFoodParams struct {
	FoodName string  `json:"food_name" description:"Food to look up"`
	WeightG  float64 `json:"weight_g,omitempty" description:"Portion in grams; scales the per-100g values"`
	Log      bool    `json:"log,omitempty" description:"Log the scaled portion as a meal"`
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal arguments: %v", errInvalidParams, err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}

	return nil
}

// handleLogMeal appends a meal to today's history
func (s *MacroServer) handleLogMeal(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LogMealParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	if params.Weight.Unit == models.UnitNone {
		params.Weight.Unit = models.UnitGram
	}
	for _, q := range []*models.Quantity{&params.Protein, &params.Carbs, &params.Fats} {
		if q.Unit == models.UnitNone {
			q.Unit = models.UnitGram
		}
	}

	rec, err := s.tracker.Meals.AppendMeal(models.MealInput{
		FoodName: params.FoodName,
		Weight:   params.Weight,
		Calories: params.Calories,
		Protein:  params.Protein,
		Carbs:    params.Carbs,
		Fats:     params.Fats,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to log meal: %w", err)
	}

	s.logger.Info("meal logged", zap.String("food", rec.FoodName), zap.String("date", rec.Date))
	return s.createJSONResponse(rec)
}

// handleGetMeals returns the history, most recent first
func (s *MacroServer) handleGetMeals(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetMealsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	meals := s.tracker.Meals.Search(params.Search)
	if params.Date != "" {
		if _, err := s.tracker.Calendar.ParseDate(params.Date); err != nil {
			return nil, err
		}
		meals = tracker.FilterByDate(meals, params.Date)
	}
	if params.Limit > 0 && len(meals) > params.Limit {
		meals = meals[:params.Limit]
	}

	out := make([]models.MealRecord, len(meals))
	for i, m := range meals {
		out[i] = view.Meal(m)
	}
	return s.createJSONResponse(out)
}

// handleDailyProgress totals a day's meals against the goals
func (s *MacroServer) handleDailyProgress(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params DailyProgressParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.Date == "" {
		params.Date = s.tracker.Calendar.Today()
	}

	progress, err := s.tracker.DailyProgress(params.Date)
	if err != nil {
		return nil, err
	}
	v, err := view.Progress(s.tracker.Calendar, progress)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(v)
}

func (s *MacroServer) handleGetGoals(_ context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	goals := s.tracker.Goals.GetGoals()
	return s.createJSONResponse(map[string]interface{}{
		"goals":   goals,
		"display": view.Goals(goals),
	})
}

// handleSaveGoals merges only the supplied fields
func (s *MacroServer) handleSaveGoals(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var update models.GoalUpdate
	if err := extractParams(req, &update); err != nil {
		return nil, err
	}

	goals, err := s.tracker.Goals.SaveGoals(update)
	if err != nil {
		return nil, fmt.Errorf("failed to save goals: %w", err)
	}
	return s.createJSONResponse(goals)
}

func (s *MacroServer) handleGetProfile(_ context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(s.tracker.Profile.GetProfile())
}

func (s *MacroServer) handleSaveProfile(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	profile := s.tracker.Profile.GetProfile()
	if err := extractParams(req, &profile); err != nil {
		return nil, err
	}

	saved, err := s.tracker.Profile.SaveProfile(profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return s.createJSONResponse(saved)
}

func (s *MacroServer) handleGetSettings(_ context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(s.tracker.Profile.GetSettings())
}

func (s *MacroServer) handleToggleSetting(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ToggleSettingParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	settings, err := s.tracker.Profile.ToggleSetting(params.Name)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(settings)
}

// handleLookupFood queries USDA and optionally logs the scaled portion
func (s *MacroServer) handleLookupFood(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	if s.lookup == nil {
		return nil, errLookupDisabled
	}

	var params LookupFoodParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.FoodName == "" {
		return nil, fmt.Errorf("%w: food_name is required", errInvalidParams)
	}
	if params.Log && params.WeightG <= 0 {
		return nil, fmt.Errorf("%w: weight_g is required to log a lookup", errInvalidParams)
	}

	nutrition, err := s.lookup.Lookup(ctx, params.FoodName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %q: %w", params.FoodName, err)
	}

	result := map[string]interface{}{
		"per_100g": nutrition,
	}
	if params.WeightG > 0 {
		portion := nutrition.ToMealInput(params.WeightG)
		result["portion"] = portion.Record()
		if params.Log {
			rec, err := s.tracker.Meals.AppendMeal(portion)
			if err != nil {
				return nil, fmt.Errorf("failed to log meal: %w", err)
			}
			result["logged"] = rec
		}
	}
	return s.createJSONResponse(result)
}

func (s *MacroServer) registerTools() error {
	s.tools = map[string]toolHandler{
		"log_meal":           s.handleLogMeal,
		"get_meals":          s.handleGetMeals,
		"get_daily_progress": s.handleDailyProgress,
		"get_goals":          s.handleGetGoals,
		"save_goals":         s.handleSaveGoals,
		"get_profile":        s.handleGetProfile,
		"save_profile":       s.handleSaveProfile,
		"get_settings":       s.handleGetSettings,
		"toggle_setting":     s.handleToggleSetting,
		"lookup_food":        s.handleLookupFood,
	}

	for _, name := range s.toolNames() {
		s.logger.Debug("registered tool", zap.String("tool", name))
	}
	return nil
}

func (s *MacroServer) toolNames() []string {
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

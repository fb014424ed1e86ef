// Package tracker holds the meal log, goal store and daily aggregation
// on top of a key/value store.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"macro-meter/internal/models"
	"macro-meter/internal/storage"
)

// Storage keys.
const (
	KeyMealHistory = "mealHistory"
	KeyMacroGoals  = "macroGoals"
	KeyUserProfile = "userProfile"
	KeySettings    = "settings"
)

var (
	ErrNegativeGoal   = errors.New("goal must not be negative")
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidDate    = errors.New("invalid date")
	ErrEmptyFoodName  = errors.New("food name is required")
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Tracker ties the stores and the calendar to one key/value backend.
type Tracker struct {
	kv     storage.KeyValue
	now    func() time.Time
	logger *zap.Logger

	Meals    *MealLog
	Goals    *GoalStore
	Profile  *ProfileStore
	Calendar *Calendar
}

func New(kv storage.KeyValue, opts ...Option) *Tracker {
	t := &Tracker{
		kv:     kv,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.Calendar = NewCalendar(t.now)
	t.Meals = &MealLog{kv: kv, calendar: t.Calendar, logger: t.logger}
	t.Goals = &GoalStore{kv: kv, logger: t.logger}
	t.Profile = &ProfileStore{kv: kv, logger: t.logger}
	return t
}

// DailyProgress reads the whole history, totals the given date and
// compares the result with the saved goals.
func (t *Tracker) DailyProgress(date string) (models.DailyProgress, error) {
	if _, err := t.Calendar.ParseDate(date); err != nil {
		return models.DailyProgress{}, err
	}

	totals := ComputeDailyTotals(t.Meals.GetAllMeals(), date)
	goals := t.Goals.GetGoals()
	return BuildProgress(date, totals, goals), nil
}

// LogCurrentMeal records the meal produced by the capture pipeline. The
// entry point calls it once at startup.
func (t *Tracker) LogCurrentMeal(in models.MealInput) (models.MealRecord, error) {
	rec, err := t.Meals.AppendMeal(in)
	if err != nil {
		return models.MealRecord{}, err
	}
	t.logger.Info("logged current meal",
		zap.String("food", rec.FoodName),
		zap.String("date", rec.Date))
	return rec, nil
}

// loadJSON decodes key into dst. It reports false when the key is absent,
// unreadable or malformed; in the last two cases the failure is logged.
func loadJSON(kv storage.KeyValue, logger *zap.Logger, key string, dst interface{}) bool {
	raw, ok, err := kv.Get(key)
	if err != nil {
		logger.Warn("failed to read key, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		logger.Warn("malformed stored value, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func saveJSON(kv storage.KeyValue, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := kv.Set(key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

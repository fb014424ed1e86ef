package tracker

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"macro-meter/internal/models"
	"macro-meter/internal/storage"
)

// MealLog is the meal history, stored most recent first under
// KeyMealHistory.
type MealLog struct {
	kv       storage.KeyValue
	calendar *Calendar
	logger   *zap.Logger
}

// AppendMeal stamps the meal with today's date and puts it at the head of
// the history. Identical meals logged twice are kept twice.
func (l *MealLog) AppendMeal(in models.MealInput) (models.MealRecord, error) {
	return l.AppendRecord(in.Record())
}

// AppendRecord is AppendMeal for a record already in display form. Any
// date on rec is replaced.
func (l *MealLog) AppendRecord(rec models.MealRecord) (models.MealRecord, error) {
	if strings.TrimSpace(rec.FoodName) == "" {
		return models.MealRecord{}, ErrEmptyFoodName
	}
	rec.Date = l.calendar.Today()

	// Entries that cannot be decoded are carried over untouched.
	history, err := l.readHistory()
	if err != nil {
		return models.MealRecord{}, err
	}
	head, err := json.Marshal(rec)
	if err != nil {
		return models.MealRecord{}, fmt.Errorf("failed to encode meal: %w", err)
	}
	updated := make([]json.RawMessage, 0, len(history)+1)
	updated = append(updated, head)
	updated = append(updated, history...)

	if err := saveJSON(l.kv, KeyMealHistory, updated); err != nil {
		return models.MealRecord{}, err
	}

	l.logger.Debug("meal appended",
		zap.String("food", rec.FoodName),
		zap.String("date", rec.Date),
		zap.Int("history_len", len(updated)))
	return rec, nil
}

// GetAllMeals returns the stored history. Missing or malformed data reads
// as an empty history; entries that are not meal objects are skipped.
func (l *MealLog) GetAllMeals() []models.MealRecord {
	history, err := l.readHistory()
	if err != nil {
		l.logger.Warn("failed to read meal history, using empty history", zap.Error(err))
		return []models.MealRecord{}
	}

	meals := make([]models.MealRecord, 0, len(history))
	for i, raw := range history {
		var rec models.MealRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			l.logger.Warn("skipping malformed meal entry", zap.Int("index", i), zap.Error(err))
			continue
		}
		meals = append(meals, rec)
	}
	return meals
}

// readHistory returns the stored history one raw element per entry. Only
// a failing backend is an error; an absent key or a value that is not a
// JSON array reads as no entries.
func (l *MealLog) readHistory() ([]json.RawMessage, error) {
	raw, ok, err := l.kv.Get(KeyMealHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", KeyMealHistory, err)
	}
	if !ok {
		return nil, nil
	}

	var history []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		l.logger.Warn("malformed stored value, using default", zap.String("key", KeyMealHistory), zap.Error(err))
		return nil, nil
	}
	return history, nil
}

// Search filters the history by a case-insensitive substring of the food
// name. An empty term matches everything.
func (l *MealLog) Search(term string) []models.MealRecord {
	return FilterByName(l.GetAllMeals(), term)
}

// MealsOn returns the meals logged on date, in history order.
func (l *MealLog) MealsOn(date string) []models.MealRecord {
	return FilterByDate(l.GetAllMeals(), date)
}

func FilterByName(meals []models.MealRecord, term string) []models.MealRecord {
	needle := strings.ToLower(term)
	out := make([]models.MealRecord, 0, len(meals))
	for _, m := range meals {
		if strings.Contains(strings.ToLower(m.FoodName), needle) {
			out = append(out, m)
		}
	}
	return out
}

func FilterByDate(meals []models.MealRecord, date string) []models.MealRecord {
	out := make([]models.MealRecord, 0, len(meals))
	for _, m := range meals {
		if m.Date == date {
			out = append(out, m)
		}
	}
	return out
}

package tracker

import (
	"fmt"

	"go.uber.org/zap"

	"macro-meter/internal/models"
	"macro-meter/internal/storage"
)

// ProfileStore persists the user profile and app settings.
type ProfileStore struct {
	kv     storage.KeyValue
	logger *zap.Logger
}

// GetProfile returns the saved profile, or the default one when nothing
// (or null) is stored.
func (s *ProfileStore) GetProfile() models.UserProfile {
	var p *models.UserProfile
	if !loadJSON(s.kv, s.logger, KeyUserProfile, &p) || p == nil {
		return models.DefaultProfile()
	}
	return *p
}

func (s *ProfileStore) SaveProfile(p models.UserProfile) (models.UserProfile, error) {
	if p.Age < 0 {
		return models.UserProfile{}, fmt.Errorf("age must not be negative")
	}
	if err := saveJSON(s.kv, KeyUserProfile, p); err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

func (s *ProfileStore) GetSettings() models.Settings {
	settings := models.DefaultSettings()
	if !loadJSON(s.kv, s.logger, KeySettings, &settings) {
		return models.DefaultSettings()
	}
	return settings
}

func (s *ProfileStore) SaveSettings(settings models.Settings) error {
	return saveJSON(s.kv, KeySettings, settings)
}

// ToggleSetting flips one boolean setting by its stored name.
func (s *ProfileStore) ToggleSetting(name string) (models.Settings, error) {
	settings := s.GetSettings()
	switch name {
	case "darkMode":
		settings.DarkMode = !settings.DarkMode
	case "useMetricUnits":
		settings.UseMetricUnits = !settings.UseMetricUnits
	case "notificationsEnabled":
		settings.NotificationsEnabled = !settings.NotificationsEnabled
	default:
		return models.Settings{}, fmt.Errorf("%q: %w", name, ErrUnknownSetting)
	}

	if err := s.SaveSettings(settings); err != nil {
		return models.Settings{}, err
	}
	s.logger.Info("setting toggled", zap.String("setting", name))
	return settings, nil
}

package models

// UserProfile is the single user's profile, stored under userProfile.
type UserProfile struct {
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Weight       string `json:"weight"`
	Height       string `json:"height"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// DefaultProfile returns the profile shown before the user edits theirs.
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:         "Alex Johnson",
		Age:          32,
		Weight:       "75kg",
		Height:       "178cm",
		ProfileImage: "https://i.pravatar.cc/300",
	}
}

// Settings are the app toggles, stored under settings.
type Settings struct {
	DarkMode             bool `json:"darkMode"`
	UseMetricUnits       bool `json:"useMetricUnits"`
	NotificationsEnabled bool `json:"notificationsEnabled"`
}

// DefaultSettings has metric units on and everything else off.
func DefaultSettings() Settings {
	return Settings{UseMetricUnits: true}
}

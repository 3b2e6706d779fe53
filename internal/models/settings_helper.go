package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/oversight/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingCameraPermission:
			settings.CameraPermission = value
		case constants.SettingRemindersEnabled:
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.RemindersEnabled = enabled
		case constants.SettingReminderAfter:
			settings.ReminderAfter = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:         settings.Timezone,
		constants.SettingCameraPermission: settings.CameraPermission,
		constants.SettingRemindersEnabled: strconv.FormatBool(settings.RemindersEnabled),
		constants.SettingReminderAfter:    settings.ReminderAfter,
	}
}

// DefaultSettings returns the settings written by `oversight init`.
func DefaultSettings() Settings {
	return Settings{
		Timezone:         constants.DefaultTimezone,
		CameraPermission: constants.DefaultCameraPermission,
		RemindersEnabled: constants.DefaultRemindersEnabled,
		ReminderAfter:    constants.DefaultReminderAfter,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.CameraPermission == "" {
		settings.CameraPermission = constants.DefaultCameraPermission
	}
	if settings.ReminderAfter == "" {
		settings.ReminderAfter = constants.DefaultReminderAfter
	}
}

package models

import (
	"time"

	"github.com/julianstephens/oversight/internal/utils"
)

// Settings represents application-wide settings
type Settings struct {
	Timezone         string `json:"timezone"`          // IANA timezone name, or "Local" for the system timezone
	CameraPermission string `json:"camera_permission"` // authorized, denied, restricted or not_determined
	RemindersEnabled bool   `json:"reminders_enabled"` // whether `oversight remind` sends notifications
	ReminderAfter    string `json:"reminder_after"`    // HH:MM before which no reminder is sent
}

// Location resolves the configured timezone, falling back to time.Local
// when the stored value is not a valid IANA name.
func (s Settings) Location() *time.Location {
	loc, err := utils.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

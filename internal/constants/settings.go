package constants

const (
	SettingTimezone         = "timezone"
	SettingCameraPermission = "camera_permission"
	SettingRemindersEnabled = "reminders_enabled"
	SettingReminderAfter    = "reminder_after"

	DefaultTimezone         = "Local" // Use system local timezone by default
	DefaultCameraPermission = "not_determined"
	DefaultRemindersEnabled = true
	DefaultReminderAfter    = "18:00"
)

package journal

import (
	"github.com/julianstephens/oversight/internal/logger"
	"github.com/julianstephens/oversight/internal/models"
	"github.com/julianstephens/oversight/internal/utils"
)

// Reminder returns today's question and true when a nudge should be sent:
// reminders are on, the reminder time has passed and today has no photo.
func (s *Service) Reminder(settings models.Settings) (string, bool) {
	if !settings.RemindersEnabled {
		return "", false
	}

	after, err := utils.ParseTimeToMinutes(settings.ReminderAfter)
	if err != nil {
		logger.Warn("Invalid reminder_after setting", "value", settings.ReminderAfter, "error", err)
		return "", false
	}
	now := s.clock.Now().In(s.Location())
	if now.Hour()*60+now.Minute() < after {
		return "", false
	}

	today := s.Today()
	if today.Answered() || today.Question == "" {
		return "", false
	}
	return today.Question, true
}

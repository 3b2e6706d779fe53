package questions

import (
	"time"

	"github.com/julianstephens/oversight/internal/clock"
	"github.com/julianstephens/oversight/internal/utils"
)

// Epoch is the reference instant. The day containing it in the selector's
// location maps to the first question.
var Epoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// Selector maps calendar days onto a fixed question bank.
type Selector struct {
	bank  []string
	loc   *time.Location
	clock clock.Clock
}

// NewSelector creates a selector over bank. Days are counted in loc
// (time.Local when nil).
func NewSelector(bank []string, loc *time.Location, clk clock.Clock) *Selector {
	if loc == nil {
		loc = time.Local
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	copied := make([]string, len(bank))
	copy(copied, bank)
	return &Selector{bank: copied, loc: loc, clock: clk}
}

// QuestionFor returns the question for the calendar day containing t.
// Days on either side of Epoch at the same distance share a question; see
// IndexFor.
func (s *Selector) QuestionFor(t time.Time) string {
	if len(s.bank) == 0 {
		return ""
	}
	return s.bank[s.IndexFor(t)]
}

// IndexFor returns abs(days since Epoch) mod bank size, or -1 for an empty bank.
func (s *Selector) IndexFor(t time.Time) int {
	if len(s.bank) == 0 {
		return -1
	}
	epoch := utils.StartOfDay(Epoch, s.loc)
	offset := utils.DaysBetween(epoch, utils.StartOfDay(t, s.loc))
	if offset < 0 {
		offset = -offset
	}
	return offset % len(s.bank)
}

// Today returns the question for the current day.
func (s *Selector) Today() string {
	return s.QuestionFor(s.clock.Now())
}

// Questions returns a copy of the bank.
func (s *Selector) Questions() []string {
	out := make([]string, len(s.bank))
	copy(out, s.bank)
	return out
}

// Location returns the location days are counted in.
func (s *Selector) Location() *time.Location {
	return s.loc
}

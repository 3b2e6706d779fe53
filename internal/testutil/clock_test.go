package testutil

import (
	"testing"
	"time"
)

func TestStubClockAdvance(t *testing.T) {
	c := FixedClock()
	start := c.Now()
	c.Advance(25 * time.Hour)
	if got := c.Now().Sub(start); got != 25*time.Hour {
		t.Errorf("Advance moved clock by %v, want 25h", got)
	}
}

func TestStubIDGeneratorIsSequential(t *testing.T) {
	g := NewStubIDGenerator()
	for _, want := range []string{"id-1", "id-2", "id-3"} {
		if got := g.New(); got != want {
			t.Errorf("New() = %s, want %s", got, want)
		}
	}
}

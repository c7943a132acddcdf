package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestNextStreak covers every (yesterday active, today active) combination
// plus the no-prior-record case.
func TestNextStreak(t *testing.T) {
	tests := []struct {
		name            string
		current         int
		yesterdayActive bool
		todayActive     bool
		expected        int
	}{
		{"no history, inactive today", 0, false, false, 0},
		{"existing streak, inactive today resets", 4, true, false, 0},
		{"inactive both days zeroes", 7, false, false, 0},
		{"active after active extends", 4, true, true, 5},
		{"active after inactive restarts at one", 9, false, true, 1},
		{"first ever active day", 0, false, true, 1},
		{"long streak keeps extending", 364, true, true, 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NextStreak(tt.current, tt.yesterdayActive, tt.todayActive)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestNextStreakProperty checks the transition's invariants for any prior
// streak value: results are never negative, an inactive day always yields
// zero, and an active day always yields at least one.
func TestNextStreakProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		current := rapid.IntRange(0, 100000).Draw(t, "current")
		yesterdayActive := rapid.Bool().Draw(t, "yesterdayActive")
		todayActive := rapid.Bool().Draw(t, "todayActive")

		result := NextStreak(current, yesterdayActive, todayActive)

		if result < 0 {
			t.Fatalf("streak went negative: %d", result)
		}
		if !todayActive && result != 0 {
			t.Fatalf("inactive day must zero the streak, got %d", result)
		}
		if todayActive && result < 1 {
			t.Fatalf("active day must yield a streak of at least 1, got %d", result)
		}
		if todayActive && yesterdayActive && result != current+1 {
			t.Fatalf("consecutive active days must extend by one: %d -> %d", current, result)
		}
		if todayActive && !yesterdayActive && result != 1 {
			t.Fatalf("active day after inactivity must restart at 1, got %d", result)
		}
	})
}

// Package service provides business logic implementations.
package service

// NextStreak applies the daily streak transition for one student.
//
// The streak counts consecutive active days ending today: an inactive day
// always breaks it, an active day after an active day extends it, and an
// active day after inactivity (or no recorded history) starts a fresh
// streak of 1. A missing yesterday row is treated as inactive.
func NextStreak(current int, yesterdayActive, todayActive bool) int {
	switch {
	case todayActive && yesterdayActive:
		return current + 1
	case todayActive:
		return 1
	default:
		return 0
	}
}

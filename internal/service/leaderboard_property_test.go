// Property-based tests for the leaderboard recomputation ordering.
package service

import (
	"sort"
	"testing"

	"github.com/google/uuid"
	"pgregory.net/rapid"

	"codetrack/internal/model"
)

// TestLeaderboardRankingProperty checks that for any day's activity set the
// computed entries carry ranks forming the permutation 1..N with totals
// non-increasing as rank increases, and every student appears exactly once.
func TestLeaderboardRankingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numStudents := rapid.IntRange(1, 40).Draw(t, "numStudents")

		activities := make([]*model.DailyActivity, numStudents)
		streaks := make(map[uuid.UUID]int, numStudents)
		for i := range activities {
			id := uuid.New()
			total := rapid.IntRange(0, 300).Draw(t, "total")
			activities[i] = &model.DailyActivity{
				StudentID:   id,
				TotalSolved: total,
				IsActive:    total > 0,
			}
			streaks[id] = rapid.IntRange(0, 365).Draw(t, "streak")
		}

		// The repository read order: total descending, student id ascending.
		sort.Slice(activities, func(i, j int) bool {
			if activities[i].TotalSolved != activities[j].TotalSolved {
				return activities[i].TotalSolved > activities[j].TotalSolved
			}
			return activities[i].StudentID.String() < activities[j].StudentID.String()
		})

		entries := BuildEntries(activities, streaks)

		if len(entries) != numStudents {
			t.Fatalf("expected %d entries, got %d", numStudents, len(entries))
		}

		seenStudents := make(map[uuid.UUID]bool, numStudents)
		for i, entry := range entries {
			if entry.Rank != i+1 {
				t.Fatalf("ranks must be the permutation 1..N: position %d has rank %d", i, entry.Rank)
			}
			if i > 0 && entry.TotalSolved > entries[i-1].TotalSolved {
				t.Fatalf("totals must be non-increasing: rank %d has %d after %d",
					entry.Rank, entry.TotalSolved, entries[i-1].TotalSolved)
			}
			if seenStudents[entry.StudentID] {
				t.Fatalf("student %s appears twice", entry.StudentID)
			}
			seenStudents[entry.StudentID] = true

			if entry.Streak != streaks[entry.StudentID] {
				t.Fatalf("streak snapshot mismatch for %s", entry.StudentID)
			}
		}
	})
}

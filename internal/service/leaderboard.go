package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"codetrack/internal/model"
)

// ActivityLister is the activity access the leaderboard recompute needs.
type ActivityLister interface {
	ListForDate(ctx context.Context, date time.Time) ([]*model.DailyActivity, error)
}

// StreakReader batches streak reads for a set of students.
type StreakReader interface {
	GetStreaks(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
}

// LeaderboardStore persists recomputed leaderboard entries.
type LeaderboardStore interface {
	ReplaceEntries(ctx context.Context, entries []*model.LeaderboardEntry) error
}

// LeaderboardService recomputes the college/daily leaderboard cache from
// the day's activity rows.
type LeaderboardService struct {
	activity ActivityLister
	students StreakReader
	cache    LeaderboardStore
}

// NewLeaderboardService creates a new LeaderboardService instance.
func NewLeaderboardService(
	activity ActivityLister,
	students StreakReader,
	cache LeaderboardStore,
) *LeaderboardService {
	return &LeaderboardService{
		activity: activity,
		students: students,
		cache:    cache,
	}
}

// Recompute rebuilds the college/daily leaderboard for one date.
//
// Activity rows arrive ordered by total_solved descending with student id
// as the deterministic tie-break, so rank is just the 1-based position.
// Streaks for exactly the students present are read in a single batched
// query, and the whole entry set is written as one batched upsert: if that
// write fails, the previous cache stays authoritative.
func (s *LeaderboardService) Recompute(ctx context.Context, date time.Time) error {
	activities, err := s.activity.ListForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("list daily activity: %w", err)
	}
	if len(activities) == 0 {
		log.Info().Str("date", model.DateKey(date)).Msg("No activity rows, leaderboard unchanged")
		return nil
	}

	ids := make([]uuid.UUID, len(activities))
	for i, activity := range activities {
		ids[i] = activity.StudentID
	}

	streaks, err := s.students.GetStreaks(ctx, ids)
	if err != nil {
		return fmt.Errorf("read streaks: %w", err)
	}

	entries := BuildEntries(activities, streaks)
	if err := s.cache.ReplaceEntries(ctx, entries); err != nil {
		return fmt.Errorf("replace leaderboard entries: %w", err)
	}

	log.Info().
		Str("date", model.DateKey(date)).
		Int("entries", len(entries)).
		Msg("Leaderboard recomputed")

	return nil
}

// BuildEntries converts ranked activity rows into leaderboard entries.
// The input order is the rank order; students missing from the streak map
// get a zero streak snapshot.
func BuildEntries(activities []*model.DailyActivity, streaks map[uuid.UUID]int) []*model.LeaderboardEntry {
	entries := make([]*model.LeaderboardEntry, len(activities))
	for i, activity := range activities {
		entries[i] = &model.LeaderboardEntry{
			StudentID:   activity.StudentID,
			RankType:    model.RankTypeCollege,
			Period:      model.PeriodDaily,
			Rank:        i + 1,
			TotalSolved: activity.TotalSolved,
			Streak:      streaks[activity.StudentID],
		}
	}
	return entries
}

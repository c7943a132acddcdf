package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"codetrack/internal/model"
	"codetrack/internal/observability"
	"codetrack/internal/platform"
)

// StudentStore is the student access the syncer needs.
type StudentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	UpdateStreak(ctx context.Context, id uuid.UUID, streak int) error
}

// AccountStore is the platform-account access the syncer needs.
type AccountStore interface {
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.PlatformAccount, error)
	TouchLastSynced(ctx context.Context, accountID uuid.UUID, syncedAt time.Time) error
}

// ActivityStore is the daily-activity access the syncer needs.
type ActivityStore interface {
	Upsert(ctx context.Context, activity *model.DailyActivity) error
	WasActive(ctx context.Context, studentID uuid.UUID, date time.Time) (bool, error)
}

// StudentSyncer aggregates one student's platform counts into a daily
// activity row and advances their streak.
type StudentSyncer struct {
	students StudentStore
	accounts AccountStore
	activity ActivityStore
	adapters platform.Registry
}

// NewStudentSyncer creates a new StudentSyncer instance.
func NewStudentSyncer(
	students StudentStore,
	accounts AccountStore,
	activity ActivityStore,
	adapters platform.Registry,
) *StudentSyncer {
	return &StudentSyncer{
		students: students,
		accounts: accounts,
		activity: activity,
		adapters: adapters,
	}
}

// Sync fetches all connected platforms for one student concurrently, applies
// the streak transition and upserts the day's activity row.
//
// A student with no connected accounts still gets an all-zero, inactive row
// so downstream reads never have to handle a missing day. The activity row
// is written only after every platform result is in; there is no partial
// field update. Re-running for the same date replaces the row (upsert on
// (student, date)), keeping the operation idempotent.
func (s *StudentSyncer) Sync(ctx context.Context, studentID uuid.UUID, today, yesterday time.Time) error {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return fmt.Errorf("load student: %w", err)
	}

	accounts, err := s.accounts.ListByStudent(ctx, studentID)
	if err != nil {
		return fmt.Errorf("load platform accounts: %w", err)
	}

	stats := s.fetchStats(ctx, accounts)

	totalSolved := stats.Total()
	todayActive := totalSolved > 0

	yesterdayActive, err := s.activity.WasActive(ctx, studentID, yesterday)
	if err != nil {
		return fmt.Errorf("check yesterday activity: %w", err)
	}

	newStreak := NextStreak(student.CurrentStreak, yesterdayActive, todayActive)
	if err := s.students.UpdateStreak(ctx, studentID, newStreak); err != nil {
		return fmt.Errorf("update streak: %w", err)
	}

	row := &model.DailyActivity{
		StudentID:        studentID,
		ActivityDate:     today,
		LeetCodeSolved:   stats.LeetCode,
		CodeChefSolved:   stats.CodeChef,
		CodeforcesSolved: stats.Codeforces,
		HackerRankSolved: stats.HackerRank,
		TotalSolved:      totalSolved,
		IsActive:         todayActive,
	}
	if err := s.activity.Upsert(ctx, row); err != nil {
		return fmt.Errorf("upsert daily activity: %w", err)
	}

	observability.RecordStudentSynced()

	log.Debug().
		Str("student_id", studentID.String()).
		Int("total_solved", totalSolved).
		Int("streak", newStreak).
		Msg("Student synced")

	return nil
}

// fetchStats fans out over all connected accounts concurrently and collects
// the results into one stat vector. Failed fetches contribute zero and are
// logged; they never abort the student. Every queried account gets its
// last_synced_at touched, zero result or not.
func (s *StudentSyncer) fetchStats(ctx context.Context, accounts []*model.PlatformAccount) model.PlatformStats {
	var (
		stats model.PlatformStats
		mu    sync.Mutex
		wg    sync.WaitGroup
	)

	for _, account := range accounts {
		fetcher, ok := s.adapters.Lookup(account.Platform)
		if !ok {
			// No adapter for this platform (e.g. github): contributes zero.
			s.touch(ctx, account)
			continue
		}

		wg.Add(1)
		go func(account *model.PlatformAccount, fetcher platform.Fetcher) {
			defer wg.Done()

			result := fetcher.Fetch(ctx, account.Username)
			if result.Failed() {
				observability.RecordFetchFailure(string(account.Platform))
				log.Warn().
					Str("platform", string(account.Platform)).
					Str("username", account.Username).
					Err(result.Err).
					Msg("Platform fetch failed, counting zero")
			}

			mu.Lock()
			stats.Set(account.Platform, result.Count)
			mu.Unlock()

			s.touch(ctx, account)
		}(account, fetcher)
	}

	wg.Wait()
	return stats
}

// touch marks an account as synced now. Failures are logged only; the
// timestamp is bookkeeping, not part of the aggregate.
func (s *StudentSyncer) touch(ctx context.Context, account *model.PlatformAccount) {
	if err := s.accounts.TouchLastSynced(ctx, account.ID, time.Now()); err != nil {
		log.Warn().
			Str("platform", string(account.Platform)).
			Str("username", account.Username).
			Err(err).
			Msg("Failed to update last_synced_at")
	}
}

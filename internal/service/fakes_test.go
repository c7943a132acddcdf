package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"codetrack/internal/model"
	"codetrack/internal/platform"
)

// In-memory store doubles for syncer and orchestrator tests. All of them
// are safe for the concurrent access the syncer and orchestrator perform.

func activityKey(studentID uuid.UUID, date time.Time) string {
	return studentID.String() + "|" + model.DateKey(date)
}

type fakeStudentStore struct {
	mu       sync.Mutex
	students map[uuid.UUID]*model.Student
	getErr   error
}

func newFakeStudentStore(students ...*model.Student) *fakeStudentStore {
	s := &fakeStudentStore{students: make(map[uuid.UUID]*model.Student)}
	for _, student := range students {
		s.students[student.ID] = student
	}
	return s
}

func (s *fakeStudentStore) GetByID(_ context.Context, id uuid.UUID) (*model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	student, ok := s.students[id]
	if !ok {
		return nil, context.Canceled
	}
	copied := *student
	return &copied, nil
}

func (s *fakeStudentStore) UpdateStreak(_ context.Context, id uuid.UUID, streak int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if student, ok := s.students[id]; ok {
		student.CurrentStreak = streak
	}
	return nil
}

func (s *fakeStudentStore) GetStreaks(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	streaks := make(map[uuid.UUID]int)
	for _, id := range ids {
		if student, ok := s.students[id]; ok {
			streaks[id] = student.CurrentStreak
		}
	}
	return streaks, nil
}

func (s *fakeStudentStore) streak(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.students[id].CurrentStreak
}

type fakeAccountStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID][]*model.PlatformAccount
	touched  map[uuid.UUID]time.Time
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		accounts: make(map[uuid.UUID][]*model.PlatformAccount),
		touched:  make(map[uuid.UUID]time.Time),
	}
}

func (s *fakeAccountStore) add(studentID uuid.UUID, p model.Platform, username string) *model.PlatformAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	account := &model.PlatformAccount{
		ID:        uuid.New(),
		StudentID: studentID,
		Platform:  p,
		Username:  username,
	}
	s.accounts[studentID] = append(s.accounts[studentID], account)
	return account
}

func (s *fakeAccountStore) ListByStudent(_ context.Context, studentID uuid.UUID) ([]*model.PlatformAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[studentID], nil
}

func (s *fakeAccountStore) TouchLastSynced(_ context.Context, accountID uuid.UUID, syncedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched[accountID] = syncedAt
	return nil
}

func (s *fakeAccountStore) wasTouched(accountID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.touched[accountID]
	return ok
}

type fakeActivityStore struct {
	mu        sync.Mutex
	rows      map[string]*model.DailyActivity
	listErr   error
	upsertErr error
}

func newFakeActivityStore() *fakeActivityStore {
	return &fakeActivityStore{rows: make(map[string]*model.DailyActivity)}
}

func (s *fakeActivityStore) Upsert(_ context.Context, activity *model.DailyActivity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return s.upsertErr
	}
	copied := *activity
	s.rows[activityKey(activity.StudentID, activity.ActivityDate)] = &copied
	return nil
}

func (s *fakeActivityStore) WasActive(_ context.Context, studentID uuid.UUID, date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[activityKey(studentID, date)]
	if !ok {
		return false, nil
	}
	return row.IsActive, nil
}

func (s *fakeActivityStore) ListForDate(_ context.Context, date time.Time) ([]*model.DailyActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var activities []*model.DailyActivity
	for _, row := range s.rows {
		if model.DateKey(row.ActivityDate) == model.DateKey(date) {
			copied := *row
			activities = append(activities, &copied)
		}
	}
	// Descending total_solved, ascending student id, as the repository reads.
	for i := 1; i < len(activities); i++ {
		for j := i; j > 0 && less(activities[j], activities[j-1]); j-- {
			activities[j], activities[j-1] = activities[j-1], activities[j]
		}
	}
	return activities, nil
}

func less(a, b *model.DailyActivity) bool {
	if a.TotalSolved != b.TotalSolved {
		return a.TotalSolved > b.TotalSolved
	}
	return a.StudentID.String() < b.StudentID.String()
}

func (s *fakeActivityStore) row(studentID uuid.UUID, date time.Time) *model.DailyActivity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[activityKey(studentID, date)]
}

type fakeLeaderboardStore struct {
	mu         sync.Mutex
	entries    []*model.LeaderboardEntry
	replaceErr error
	calls      int
}

func (s *fakeLeaderboardStore) ReplaceEntries(_ context.Context, entries []*model.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.entries = entries
	return nil
}

// stubFetcher returns a canned result, optionally after a delay.
type stubFetcher struct {
	platform model.Platform
	result   platform.FetchResult
	delay    time.Duration
}

func (f *stubFetcher) Platform() model.Platform {
	return f.platform
}

func (f *stubFetcher) Fetch(ctx context.Context, _ string) platform.FetchResult {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return platform.Failure(ctx.Err())
		case <-time.After(f.delay):
		}
	}
	return f.result
}

func stubRegistry(fetchers ...platform.Fetcher) platform.Registry {
	registry := make(platform.Registry, len(fetchers))
	for _, f := range fetchers {
		registry[f.Platform()] = f
	}
	return registry
}

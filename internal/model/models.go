// Package model defines the data models for the coding activity tracker.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Platform identifies an external coding platform a student can connect.
type Platform string

// Supported platforms. GitHub accounts can be connected but no solved-count
// adapter exists for them yet, so they contribute zero to the daily total.
const (
	PlatformLeetCode   Platform = "leetcode"
	PlatformCodeChef   Platform = "codechef"
	PlatformCodeforces Platform = "codeforces"
	PlatformHackerRank Platform = "hackerrank"
	PlatformGitHub     Platform = "github"
)

// Student represents an enrolled student. Enrollment data is owned by an
// external process; the sync engine only ever mutates CurrentStreak.
type Student struct {
	ID            uuid.UUID `db:"id"`
	RollNo        string    `db:"roll_no"`
	Name          string    `db:"name"`
	CurrentStreak int       `db:"current_streak"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// PlatformAccount links a student to a username on one platform.
// A student holds at most one account per platform (unique constraint).
type PlatformAccount struct {
	ID           uuid.UUID  `db:"id"`
	StudentID    uuid.UUID  `db:"student_id"`
	Platform     Platform   `db:"platform"`
	Username     string     `db:"username"`
	ConnectedAt  time.Time  `db:"connected_at"`
	LastSyncedAt *time.Time `db:"last_synced_at"`
}

// PlatformStats is the per-day stat vector aggregated across platforms
// for one student. Fields default to zero for missing or failed fetches.
type PlatformStats struct {
	LeetCode   int
	CodeChef   int
	Codeforces int
	HackerRank int
}

// Total returns the summed solved count across all platforms.
func (s PlatformStats) Total() int {
	return s.LeetCode + s.CodeChef + s.Codeforces + s.HackerRank
}

// Set stores a count under its platform key. Counts for platforms without
// a dedicated field (e.g. github) are dropped.
func (s *PlatformStats) Set(platform Platform, count int) {
	switch platform {
	case PlatformLeetCode:
		s.LeetCode = count
	case PlatformCodeChef:
		s.CodeChef = count
	case PlatformCodeforces:
		s.Codeforces = count
	case PlatformHackerRank:
		s.HackerRank = count
	}
}

// DailyActivity is one student's activity record for one calendar date.
// TotalSolved always equals the sum of the four platform counts, and
// IsActive is true iff TotalSolved > 0.
type DailyActivity struct {
	StudentID        uuid.UUID `db:"student_id"`
	ActivityDate     time.Time `db:"activity_date"`
	LeetCodeSolved   int       `db:"leetcode_solved"`
	CodeChefSolved   int       `db:"codechef_solved"`
	CodeforcesSolved int       `db:"codeforces_solved"`
	HackerRankSolved int       `db:"hackerrank_solved"`
	TotalSolved      int       `db:"total_solved"`
	IsActive         bool      `db:"is_active"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// Leaderboard scope and period values computed by the sync engine.
// Department, year, section and team scopes plus the longer periods are
// produced by other services sharing the same table.
const (
	RankTypeCollege = "college"
	PeriodDaily     = "daily"
)

// LeaderboardEntry is one row of the derived ranking cache, keyed by
// (student, rank type, period). Streak is a snapshot taken at
// recomputation time, not a live reference.
type LeaderboardEntry struct {
	StudentID   uuid.UUID `db:"student_id"`
	RankType    string    `db:"rank_type"`
	Period      string    `db:"period"`
	Rank        int       `db:"rank"`
	TotalSolved int       `db:"total_solved"`
	Streak      int       `db:"streak"`
	LastUpdated time.Time `db:"last_updated"`
}

// DateKey formats a time as the canonical YYYY-MM-DD key used for
// daily_activity rows.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

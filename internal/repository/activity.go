package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codetrack/internal/model"
)

// ActivityRepository handles daily activity persistence.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository instance.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Upsert writes a student's activity row for one date. The (student, date)
// key makes re-runs idempotent: a second sync for the same day replaces the
// row rather than accumulating.
func (r *ActivityRepository) Upsert(ctx context.Context, activity *model.DailyActivity) error {
	const query = `
		INSERT INTO daily_activity (
			student_id, activity_date,
			leetcode_solved, codechef_solved, codeforces_solved, hackerrank_solved,
			total_solved, is_active, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (student_id, activity_date)
		DO UPDATE SET
			leetcode_solved = EXCLUDED.leetcode_solved,
			codechef_solved = EXCLUDED.codechef_solved,
			codeforces_solved = EXCLUDED.codeforces_solved,
			hackerrank_solved = EXCLUDED.hackerrank_solved,
			total_solved = EXCLUDED.total_solved,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		activity.StudentID,
		activity.ActivityDate,
		activity.LeetCodeSolved,
		activity.CodeChefSolved,
		activity.CodeforcesSolved,
		activity.HackerRankSolved,
		activity.TotalSolved,
		activity.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily activity: %w", err)
	}

	return nil
}

// Get retrieves a student's activity row for one date.
// Returns ErrActivityNotFound if no row exists.
func (r *ActivityRepository) Get(ctx context.Context, studentID uuid.UUID, date time.Time) (*model.DailyActivity, error) {
	const query = `
		SELECT student_id, activity_date,
			leetcode_solved, codechef_solved, codeforces_solved, hackerrank_solved,
			total_solved, is_active, updated_at
		FROM daily_activity
		WHERE student_id = $1 AND activity_date = $2
	`

	var activity model.DailyActivity
	err := r.pool.QueryRow(ctx, query, studentID, date).Scan(
		&activity.StudentID,
		&activity.ActivityDate,
		&activity.LeetCodeSolved,
		&activity.CodeChefSolved,
		&activity.CodeforcesSolved,
		&activity.HackerRankSolved,
		&activity.TotalSolved,
		&activity.IsActive,
		&activity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get daily activity: %w", err)
	}

	return &activity, nil
}

// WasActive reports whether a student has an active row for the given date.
// A missing row counts as inactive.
func (r *ActivityRepository) WasActive(ctx context.Context, studentID uuid.UUID, date time.Time) (bool, error) {
	const query = `
		SELECT is_active
		FROM daily_activity
		WHERE student_id = $1 AND activity_date = $2
	`

	var active bool
	err := r.pool.QueryRow(ctx, query, studentID, date).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check activity: %w", err)
	}

	return active, nil
}

// ListForDate retrieves all activity rows for one date ordered by
// total_solved descending, with ascending student id as the deterministic
// tie-break.
func (r *ActivityRepository) ListForDate(ctx context.Context, date time.Time) ([]*model.DailyActivity, error) {
	const query = `
		SELECT student_id, activity_date,
			leetcode_solved, codechef_solved, codeforces_solved, hackerrank_solved,
			total_solved, is_active, updated_at
		FROM daily_activity
		WHERE activity_date = $1
		ORDER BY total_solved DESC, student_id ASC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily activity: %w", err)
	}
	defer rows.Close()

	var activities []*model.DailyActivity
	for rows.Next() {
		var activity model.DailyActivity
		err := rows.Scan(
			&activity.StudentID,
			&activity.ActivityDate,
			&activity.LeetCodeSolved,
			&activity.CodeChefSolved,
			&activity.CodeforcesSolved,
			&activity.HackerRankSolved,
			&activity.TotalSolved,
			&activity.IsActive,
			&activity.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily activity: %w", err)
		}
		activities = append(activities, &activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily activity: %w", err)
	}

	return activities, nil
}

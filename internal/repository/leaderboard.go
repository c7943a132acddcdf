package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codetrack/internal/model"
)

// LeaderboardRepository handles the derived leaderboard cache. The cache is
// never a source of truth: it can be deleted and rebuilt from daily_activity
// and students at any time.
type LeaderboardRepository struct {
	pool *pgxpool.Pool
}

// NewLeaderboardRepository creates a new LeaderboardRepository instance.
func NewLeaderboardRepository(pool *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{pool: pool}
}

// ReplaceEntries upserts a full set of leaderboard entries in one batch.
// Keyed by (student, rank_type, period); a failed batch leaves the previous
// cache authoritative until the next successful run.
func (r *LeaderboardRepository) ReplaceEntries(ctx context.Context, entries []*model.LeaderboardEntry) error {
	if len(entries) == 0 {
		return nil
	}

	const query = `
		INSERT INTO leaderboard_cache (student_id, rank_type, period, rank, total_solved, streak, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (student_id, rank_type, period)
		DO UPDATE SET
			rank = EXCLUDED.rank,
			total_solved = EXCLUDED.total_solved,
			streak = EXCLUDED.streak,
			last_updated = NOW()
	`

	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(query,
			entry.StudentID,
			entry.RankType,
			entry.Period,
			entry.Rank,
			entry.TotalSolved,
			entry.Streak,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert leaderboard entry: %w", err)
		}
	}

	return nil
}

// ListEntries retrieves the cached leaderboard slice ordered by rank.
func (r *LeaderboardRepository) ListEntries(ctx context.Context, rankType, period string) ([]*model.LeaderboardEntry, error) {
	const query = `
		SELECT student_id, rank_type, period, rank, total_solved, streak, last_updated
		FROM leaderboard_cache
		WHERE rank_type = $1 AND period = $2
		ORDER BY rank
	`

	rows, err := r.pool.Query(ctx, query, rankType, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.LeaderboardEntry
	for rows.Next() {
		var entry model.LeaderboardEntry
		err := rows.Scan(
			&entry.StudentID,
			&entry.RankType,
			&entry.Period,
			&entry.Rank,
			&entry.TotalSolved,
			&entry.Streak,
			&entry.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard entries: %w", err)
	}

	return entries, nil
}

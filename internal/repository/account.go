package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"codetrack/internal/model"
)

// PlatformAccountRepository handles platform account persistence.
type PlatformAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPlatformAccountRepository creates a new PlatformAccountRepository instance.
func NewPlatformAccountRepository(pool *pgxpool.Pool) *PlatformAccountRepository {
	return &PlatformAccountRepository{pool: pool}
}

// Connect links a platform username to a student. The (student, platform)
// pair is unique; connecting twice replaces the username.
func (r *PlatformAccountRepository) Connect(ctx context.Context, studentID uuid.UUID, platform model.Platform, username string) (*model.PlatformAccount, error) {
	const query = `
		INSERT INTO platform_accounts (id, student_id, platform, username, connected_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (student_id, platform)
		DO UPDATE SET username = EXCLUDED.username
		RETURNING id, student_id, platform, username, connected_at, last_synced_at
	`

	var account model.PlatformAccount
	err := r.pool.QueryRow(ctx, query, uuid.New(), studentID, platform, username).Scan(
		&account.ID,
		&account.StudentID,
		&account.Platform,
		&account.Username,
		&account.ConnectedAt,
		&account.LastSyncedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect platform account: %w", err)
	}

	return &account, nil
}

// ListByStudent retrieves all platform accounts connected by a student.
func (r *PlatformAccountRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.PlatformAccount, error) {
	const query = `
		SELECT id, student_id, platform, username, connected_at, last_synced_at
		FROM platform_accounts
		WHERE student_id = $1
		ORDER BY platform
	`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list platform accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*model.PlatformAccount
	for rows.Next() {
		var account model.PlatformAccount
		err := rows.Scan(
			&account.ID,
			&account.StudentID,
			&account.Platform,
			&account.Username,
			&account.ConnectedAt,
			&account.LastSyncedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan platform account: %w", err)
		}
		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating platform accounts: %w", err)
	}

	return accounts, nil
}

// TouchLastSynced records a sync attempt on an account. A zero count is
// still a synced observation, so this runs regardless of the fetched value.
func (r *PlatformAccountRepository) TouchLastSynced(ctx context.Context, accountID uuid.UUID, syncedAt time.Time) error {
	const query = `
		UPDATE platform_accounts
		SET last_synced_at = $2
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, accountID, syncedAt); err != nil {
		return fmt.Errorf("failed to touch last_synced_at: %w", err)
	}

	return nil
}

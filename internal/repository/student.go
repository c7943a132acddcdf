// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codetrack/internal/model"
)

// Common errors for repository operations.
var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrActivityNotFound = errors.New("activity not found")
)

// StudentRepository handles student data persistence. Enrollment fields are
// owned by an external process; this repository only reads them and writes
// current_streak.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository instance.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// Create inserts a new student with a zero streak.
func (r *StudentRepository) Create(ctx context.Context, rollNo, name string) (*model.Student, error) {
	const query = `
		INSERT INTO students (id, roll_no, name, current_streak, created_at, updated_at)
		VALUES ($1, $2, $3, 0, NOW(), NOW())
		RETURNING id, roll_no, name, current_streak, created_at, updated_at
	`

	var student model.Student
	err := r.pool.QueryRow(ctx, query, uuid.New(), rollNo, name).Scan(
		&student.ID,
		&student.RollNo,
		&student.Name,
		&student.CurrentStreak,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	return &student, nil
}

// GetByID retrieves a student by ID.
// Returns ErrStudentNotFound if the student does not exist.
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	const query = `
		SELECT id, roll_no, name, current_streak, created_at, updated_at
		FROM students
		WHERE id = $1
	`

	var student model.Student
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.RollNo,
		&student.Name,
		&student.CurrentStreak,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return &student, nil
}

// ListAll retrieves the full student roster.
func (r *StudentRepository) ListAll(ctx context.Context) ([]*model.Student, error) {
	const query = `
		SELECT id, roll_no, name, current_streak, created_at, updated_at
		FROM students
		ORDER BY roll_no
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		var student model.Student
		err := rows.Scan(
			&student.ID,
			&student.RollNo,
			&student.Name,
			&student.CurrentStreak,
			&student.CreatedAt,
			&student.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, &student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	return students, nil
}

// UpdateStreak sets a student's current streak to an exact value.
// The streak is exclusively mutated here, once per student per sync run.
func (r *StudentRepository) UpdateStreak(ctx context.Context, id uuid.UUID, streak int) error {
	const query = `
		UPDATE students
		SET current_streak = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, streak)
	if err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrStudentNotFound
	}

	return nil
}

// GetStreaks retrieves current streaks for a set of students in one query.
// Students missing from the result were not found; callers treat them as 0.
func (r *StudentRepository) GetStreaks(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	const query = `
		SELECT id, current_streak
		FROM students
		WHERE id = ANY($1::uuid[])
	`

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	rows, err := r.pool.Query(ctx, query, idStrings)
	if err != nil {
		return nil, fmt.Errorf("failed to get streaks: %w", err)
	}
	defer rows.Close()

	streaks := make(map[uuid.UUID]int, len(ids))
	for rows.Next() {
		var id uuid.UUID
		var streak int
		if err := rows.Scan(&id, &streak); err != nil {
			return nil, fmt.Errorf("failed to scan streak: %w", err)
		}
		streaks[id] = streak
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating streaks: %w", err)
	}

	return streaks, nil
}

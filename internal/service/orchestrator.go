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
	"codetrack/internal/pkg/pace"
)

// RosterStore loads the full student roster.
type RosterStore interface {
	ListAll(ctx context.Context) ([]*model.Student, error)
}

// Syncer syncs one student for one (today, yesterday) date pair.
type Syncer interface {
	Sync(ctx context.Context, studentID uuid.UUID, today, yesterday time.Time) error
}

// Recomputer rebuilds the leaderboard cache for one date.
type Recomputer interface {
	Recompute(ctx context.Context, date time.Time) error
}

// Orchestrator drives the daily sync: batched concurrent student syncs,
// paced between batches, followed by exactly one leaderboard recompute.
type Orchestrator struct {
	roster      RosterStore
	syncer      Syncer
	leaderboard Recomputer
	pacer       pace.Pacer
	batchSize   int
	timezone    *time.Location
}

// NewOrchestrator creates a new Orchestrator instance. The batch size is
// the sole admission-control knob against the external platforms.
func NewOrchestrator(
	roster RosterStore,
	syncer Syncer,
	leaderboard Recomputer,
	pacer pace.Pacer,
	batchSize int,
	timezone *time.Location,
) *Orchestrator {
	if batchSize < 1 {
		batchSize = 10
	}
	if timezone == nil {
		timezone = time.UTC
	}
	return &Orchestrator{
		roster:      roster,
		syncer:      syncer,
		leaderboard: leaderboard,
		pacer:       pacer,
		batchSize:   batchSize,
		timezone:    timezone,
	}
}

// RunDailySync syncs the whole roster and recomputes the leaderboard.
//
// The roster is loaded once and the today/yesterday date keys are computed
// once up front, so a long run cannot skew across a date rollover. Batches
// are strictly sequential; students within a batch run concurrently and a
// per-student failure only skips that student. A roster-load or recompute
// failure fails the run so the scheduler can alert and retry next cycle;
// per-student rows already committed stay committed either way.
func (o *Orchestrator) RunDailySync(ctx context.Context) error {
	start := time.Now()

	today, yesterday := o.dateKeys(start)
	log.Info().
		Str("today", model.DateKey(today)).
		Int("batch_size", o.batchSize).
		Msg("Starting daily sync")

	students, err := o.roster.ListAll(ctx)
	if err != nil {
		observability.RecordRun("failure", time.Since(start))
		return fmt.Errorf("load student roster: %w", err)
	}

	for batchStart := 0; batchStart < len(students); batchStart += o.batchSize {
		if batchStart > 0 {
			if err := o.pacer.Pause(ctx); err != nil {
				observability.RecordRun("failure", time.Since(start))
				return fmt.Errorf("sync interrupted: %w", err)
			}
		}

		batchEnd := batchStart + o.batchSize
		if batchEnd > len(students) {
			batchEnd = len(students)
		}
		o.syncBatch(ctx, students[batchStart:batchEnd], today, yesterday)
	}

	if err := o.leaderboard.Recompute(ctx, today); err != nil {
		log.Error().Err(err).Msg("Leaderboard recompute failed")
		observability.RecordRun("failure", time.Since(start))
		return fmt.Errorf("recompute leaderboard: %w", err)
	}

	observability.RecordRun("success", time.Since(start))
	log.Info().
		Int("students", len(students)).
		Dur("elapsed", time.Since(start)).
		Msg("Daily sync completed")

	return nil
}

// syncBatch syncs one batch of students concurrently and waits for all of
// them to settle before returning.
func (o *Orchestrator) syncBatch(ctx context.Context, batch []*model.Student, today, yesterday time.Time) {
	var wg sync.WaitGroup
	for _, student := range batch {
		wg.Add(1)
		go func(student *model.Student) {
			defer wg.Done()
			if err := o.syncer.Sync(ctx, student.ID, today, yesterday); err != nil {
				observability.RecordStudentFailure()
				log.Error().
					Str("student_id", student.ID.String()).
					Err(err).
					Msg("Student sync failed, continuing with remaining students")
			}
		}(student)
	}
	wg.Wait()
}

// dateKeys derives the run's calendar dates in the configured timezone,
// normalized to midnight UTC so they compare cleanly against DATE columns.
func (o *Orchestrator) dateKeys(now time.Time) (today, yesterday time.Time) {
	local := now.In(o.timezone)
	today = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return today, today.AddDate(0, 0, -1)
}

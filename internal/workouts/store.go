package workouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/liftbook/pkg"

	"github.com/jackc/pgx/v5"
)

// Statements used by the ingestion transaction. Each takes the transaction
// explicitly.

func lockWorkoutOwner(ctx context.Context, tx pgx.Tx, workoutID, userID int64) error {
	var ownerID int64
	err := tx.QueryRow(ctx,
		`SELECT user_id FROM workout WHERE id = $1 FOR UPDATE`,
		workoutID,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrWorkoutNotFound
		}
		return fmt.Errorf("lock workout: %w", err)
	}
	if ownerID != userID {
		return ErrWorkoutNotFound
	}
	return nil
}

// clearWorkoutChildren removes, in dependency order, everything a replace
// recreates: tag links, the groupings of the workout's sets, then the
// workout-exercise rows (sets cascade).
func clearWorkoutChildren(ctx context.Context, tx pgx.Tx, workoutID int64) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM workout_tag_link WHERE workout_id = $1`,
		workoutID,
	); err != nil {
		return fmt.Errorf("delete tag links: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM set_grouping WHERE id IN (
			SELECT es.set_grouping_id
			FROM exercise_set es
			JOIN workout_exercise we ON we.id = es.workout_exercise_id
			WHERE we.workout_id = $1 AND es.set_grouping_id IS NOT NULL
		)`,
		workoutID,
	); err != nil {
		return fmt.Errorf("delete set groupings: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM workout_exercise WHERE workout_id = $1`,
		workoutID,
	); err != nil {
		return fmt.Errorf("delete workout exercises: %w", err)
	}

	return nil
}

func insertWorkout(ctx context.Context, tx pgx.Tx, w *Workout) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO workout (user_id, name, date, location, notes, status)
			VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		w.UserID, w.Name, w.Date, nullIfEmpty(w.Location), nullIfEmpty(w.Notes), string(w.Status),
	).Scan(&id)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("insert workout: %w", err)
	}
	return id, nil
}

func updateWorkout(ctx context.Context, tx pgx.Tx, workoutID int64, w *Workout) error {
	tag, err := tx.Exec(ctx,
		`UPDATE workout
			SET name = $1, date = $2, location = $3, notes = $4, status = $5, updated_at = now()
		WHERE id = $6`,
		w.Name, w.Date, nullIfEmpty(w.Location), nullIfEmpty(w.Notes), string(w.Status), workoutID,
	)
	if err != nil {
		return fmt.Errorf("update workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// resolveExercise returns the user's catalog entry for name, creating it on
// first use.
func resolveExercise(ctx context.Context, tx pgx.Tx, userID int64, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO exercise (user_id, name) VALUES ($1, $2)
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		userID, name,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("resolve exercise %q: %w", name, err)
	}
	return id, nil
}

func insertWorkoutExercise(ctx context.Context, tx pgx.Tx, workoutID, exerciseID int64, number int) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO workout_exercise (workout_id, exercise_id, exercise_number)
			VALUES ($1, $2, $3)
		RETURNING id`,
		workoutID, exerciseID, number,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert workout exercise %d: %w", number, err)
	}
	return id, nil
}

func insertSet(ctx context.Context, tx pgx.Tx, workoutExerciseID int64, set Set) (int64, error) {
	cols := set.columns()
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO exercise_set
			(workout_exercise_id, set_number, weight, reps, low_reps, high_reps, rpe, rir, cheat_reps, partial_reps)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		workoutExerciseID, set.Number, cols.weight, cols.reps, cols.lowReps, cols.highReps,
		cols.rpe, cols.rir, cols.cheatReps, cols.partialReps,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert set %d: %w", set.Number, err)
	}
	return id, nil
}

func insertGrouping(ctx context.Context, tx pgx.Tx, groupingType GroupingType, setIDs []int64) (int64, error) {
	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO set_grouping (type) VALUES ($1) RETURNING id`,
		string(groupingType),
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert set grouping: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE exercise_set SET set_grouping_id = $1 WHERE id = ANY($2)`,
		id, setIDs,
	); err != nil {
		return 0, fmt.Errorf("link sets to grouping %d: %w", id, err)
	}
	return id, nil
}

func linkTag(ctx context.Context, tx pgx.Tx, userID, workoutID int64, name string) error {
	var tagID int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO workout_tag (user_id, name) VALUES ($1, $2)
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		userID, name,
	).Scan(&tagID); err != nil {
		return fmt.Errorf("resolve tag %q: %w", name, err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO workout_tag_link (workout_id, tag_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		workoutID, tagID,
	); err != nil {
		return fmt.Errorf("link tag %q: %w", name, err)
	}
	return nil
}

// deleteOrphanTags removes the user's tags no workout links to anymore.
func deleteOrphanTags(ctx context.Context, tx pgx.Tx, userID int64) (int64, error) {
	tag, err := tx.Exec(ctx,
		`DELETE FROM workout_tag t
		WHERE t.user_id = $1
			AND NOT EXISTS (SELECT 1 FROM workout_tag_link l WHERE l.tag_id = t.id)`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete orphan tags: %w", err)
	}
	return tag.RowsAffected(), nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

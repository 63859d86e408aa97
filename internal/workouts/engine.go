package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/liftbook/internal/db"
	"github.com/2beens/liftbook/internal/telemetry/metrics"
	"github.com/2beens/liftbook/internal/telemetry/tracing"
	"github.com/2beens/liftbook/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Mode selects between creating a workout and replacing an existing one.
type Mode struct {
	replace   bool
	workoutID int64
}

func CreateMode() Mode {
	return Mode{}
}

func ReplaceMode(workoutID int64) Mode {
	return Mode{replace: true, workoutID: workoutID}
}

func (m Mode) String() string {
	if m.replace {
		return "replace"
	}
	return "create"
}

type Engine struct {
	db             *pgxpool.Pool
	metricsManager *metrics.Manager
}

func NewEngine(db *pgxpool.Pool, metricsManager *metrics.Manager) *Engine {
	return &Engine{
		db:             db,
		metricsManager: metricsManager,
	}
}

// Submit validates req and writes the whole workout (exercises, sets,
// groupings, tags) in one transaction. In replace mode every child row of
// the existing workout is removed and recreated.
func (e *Engine) Submit(ctx context.Context, req WorkoutRequest, mode Mode) (workoutID int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.engine.submit")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("mode", mode.String()),
		attribute.Int64("user.id", req.UserID),
	)

	start := time.Now()
	defer func() {
		e.observeSubmit(mode, err, time.Since(start))
	}()

	workout, err := req.Validate()
	if err != nil {
		return 0, err
	}

	err = db.WithTx(ctx, e.db, func(tx pgx.Tx) error {
		var txErr error
		workoutID, txErr = ingest(ctx, tx, workout, mode)
		return txErr
	})
	if err != nil {
		return 0, err
	}

	span.SetAttributes(attribute.Int64("workout.id", workoutID))
	log.Debugf("workout [%d] %sd for user [%d]", workoutID, mode, workout.UserID)
	return workoutID, nil
}

// ingest is the ordered write: workout, exercises, sets, groupings, tags.
func ingest(ctx context.Context, tx pgx.Tx, w *Workout, mode Mode) (int64, error) {
	var workoutID int64
	if mode.replace {
		workoutID = mode.workoutID
		if err := lockWorkoutOwner(ctx, tx, workoutID, w.UserID); err != nil {
			return 0, err
		}
		if err := clearWorkoutChildren(ctx, tx, workoutID); err != nil {
			return 0, err
		}
		if err := updateWorkout(ctx, tx, workoutID, w); err != nil {
			return 0, err
		}
	} else {
		id, err := insertWorkout(ctx, tx, w)
		if err != nil {
			return 0, err
		}
		workoutID = id
	}

	// "exerciseNumber-setNumber" -> set id, for the grouping step
	setIDs := make(map[SetRef]int64)
	exerciseIDs := make(map[string]int64, len(w.Exercises))
	for _, exercise := range w.Exercises {
		exerciseID, ok := exerciseIDs[exercise.Name]
		if !ok {
			id, err := resolveExercise(ctx, tx, w.UserID, exercise.Name)
			if err != nil {
				return 0, err
			}
			exerciseID = id
			exerciseIDs[exercise.Name] = id
		}

		workoutExerciseID, err := insertWorkoutExercise(ctx, tx, workoutID, exerciseID, exercise.Number)
		if err != nil {
			return 0, err
		}

		for _, set := range exercise.Sets {
			setID, err := insertSet(ctx, tx, workoutExerciseID, set)
			if err != nil {
				return 0, err
			}
			setIDs[SetRef{ExerciseNumber: exercise.Number, SetNumber: set.Number}] = setID
		}
	}

	for i, grouping := range w.Groupings {
		ids := make([]int64, 0, len(grouping.Sets))
		for _, ref := range grouping.Sets {
			setID, ok := setIDs[ref]
			if !ok {
				return 0, fmt.Errorf("%w: setGroupings[%d] references set %s", ErrSetNotFound, i, ref)
			}
			ids = append(ids, setID)
		}
		if _, err := insertGrouping(ctx, tx, grouping.Type, ids); err != nil {
			return 0, err
		}
	}

	for _, tag := range w.Tags {
		if err := linkTag(ctx, tx, w.UserID, workoutID, tag); err != nil {
			return 0, err
		}
	}

	if mode.replace {
		if _, err := deleteOrphanTags(ctx, tx, w.UserID); err != nil {
			return 0, err
		}
	}

	return workoutID, nil
}

func (e *Engine) observeSubmit(mode Mode, err error, took time.Duration) {
	if e.metricsManager == nil {
		return
	}
	result := "ok"
	var validationErr *pkg.ValidationError
	switch {
	case err == nil:
		e.metricsManager.HistogramIngestDuration.Observe(took.Seconds())
	case errors.As(err, &validationErr):
		result = "invalid"
	case errors.Is(err, ErrWorkoutNotFound), errors.Is(err, ErrSetNotFound), errors.Is(err, ErrUserNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	e.metricsManager.CounterWorkoutSubmissions.WithLabelValues(mode.String(), result).Inc()
}

// GetFull reads the workout with its exercises, sets, groupings and tags from
// one snapshot.
func (e *Engine) GetFull(ctx context.Context, workoutID int64) (_ *WorkoutView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.engine.getFull")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("workout.id", workoutID))

	tx, err := e.db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("begin read tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	base := WorkoutView{ID: workoutID}
	var status string
	err = tx.QueryRow(ctx,
		`SELECT user_id, name, date, location, notes, status, created_at, updated_at
		FROM workout WHERE id = $1`,
		workoutID,
	).Scan(&base.UserID, &base.Name, &base.Date, &base.Location, &base.Notes, &status, &base.CreatedAt, &base.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("select workout: %w", err)
	}
	base.Status = Status(status)

	rows, err := tx.Query(ctx,
		`SELECT we.exercise_number, e.name,
			es.set_number, es.weight, es.reps, es.low_reps, es.high_reps,
			es.rpe, es.rir, es.cheat_reps, es.partial_reps,
			es.set_grouping_id, sg.type
		FROM workout_exercise we
		JOIN exercise e ON e.id = we.exercise_id
		LEFT JOIN exercise_set es ON es.workout_exercise_id = we.id
		LEFT JOIN set_grouping sg ON sg.id = es.set_grouping_id
		WHERE we.workout_id = $1
		ORDER BY we.exercise_number, es.set_number`,
		workoutID,
	)
	if err != nil {
		return nil, fmt.Errorf("select exercises: %w", err)
	}
	var setRows []exerciseSetRow
	for rows.Next() {
		var r exerciseSetRow
		if err := rows.Scan(
			&r.exerciseNumber, &r.exerciseName,
			&r.setNumber, &r.cols.weight, &r.cols.reps, &r.cols.lowReps, &r.cols.highReps,
			&r.cols.rpe, &r.cols.rir, &r.cols.cheatReps, &r.cols.partialReps,
			&r.groupingID, &r.groupingType,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan exercise row: %w", err)
		}
		setRows = append(setRows, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("exercise rows: %w", err)
	}

	tags, err := selectTagNames(ctx, tx, workoutID)
	if err != nil {
		return nil, err
	}

	return assembleView(base, setRows, tags), nil
}

func selectTagNames(ctx context.Context, tx pgx.Tx, workoutID int64) ([]string, error) {
	rows, err := tx.Query(ctx,
		`SELECT t.name
		FROM workout_tag t
		JOIN workout_tag_link l ON l.tag_id = t.id
		WHERE l.workout_id = $1
		ORDER BY t.name`,
		workoutID,
	)
	if err != nil {
		return nil, fmt.Errorf("select tags: %w", err)
	}
	tags, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect tags: %w", err)
	}
	return tags, nil
}

// Delete removes a workout, its groupings and any of the user's tags left
// without links. A nil ownerID skips the ownership check.
func (e *Engine) Delete(ctx context.Context, workoutID int64, ownerID *int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.engine.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("workout.id", workoutID))

	return db.WithTx(ctx, e.db, func(tx pgx.Tx) error {
		var userID int64
		if err := tx.QueryRow(ctx,
			`SELECT user_id FROM workout WHERE id = $1 FOR UPDATE`,
			workoutID,
		).Scan(&userID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrWorkoutNotFound
			}
			return fmt.Errorf("lock workout: %w", err)
		}
		if ownerID != nil && *ownerID != userID {
			return ErrWorkoutNotFound
		}

		if err := clearWorkoutChildren(ctx, tx, workoutID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM workout WHERE id = $1`, workoutID); err != nil {
			return fmt.Errorf("delete workout: %w", err)
		}

		removedTags, err := deleteOrphanTags(ctx, tx, userID)
		if err != nil {
			return err
		}
		log.Debugf("workout [%d] deleted, %d orphan tags removed", workoutID, removedTags)
		return nil
	})
}

// ListByUser returns a page (1-based) of the user's workouts, newest first,
// and the user's total workout count.
func (e *Engine) ListByUser(ctx context.Context, userID int64, page, size int) (_ []Summary, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.engine.listByUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", userID))

	page, size = normalizePage(page, size)

	if err := e.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout WHERE user_id = $1`,
		userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count workouts: %w", err)
	}

	rows, err := e.db.Query(ctx,
		`SELECT w.id, w.name, w.date, w.location, w.status, COUNT(we.id)
		FROM workout w
		LEFT JOIN workout_exercise we ON we.workout_id = w.id
		WHERE w.user_id = $1
		GROUP BY w.id
		ORDER BY w.date DESC, w.id DESC
		LIMIT $2 OFFSET $3`,
		userID, size, (page-1)*size,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var s Summary
		var status string
		if err := rows.Scan(&s.ID, &s.Name, &s.Date, &s.Location, &status, &s.ExerciseCount); err != nil {
			return nil, 0, fmt.Errorf("scan workout summary: %w", err)
		}
		s.Status = Status(status)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

package weights

import (
	"context"
	"fmt"

	"github.com/2beens/liftbook/internal/telemetry/tracing"
	"github.com/2beens/liftbook/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(dbPool *pgxpool.Pool) *Repo {
	return &Repo{
		db: dbPool,
	}
}

func (r *Repo) Add(ctx context.Context, entry *Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "weightsRepo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx,
		`INSERT INTO weight_entry (user_id, date, weight, unit, notes)
			VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		entry.UserID, entry.Date, entry.Weight, entry.Unit, entry.Notes,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		switch {
		case pkg.IsUniqueViolationError(err):
			return nil, ErrDuplicateDate
		case pkg.IsForeignKeyViolationError(err):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("insert weight entry: %w", err)
	}
	return entry, nil
}

// ListByUser returns the user's entries, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID int64) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "weightsRepo.listByUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, date, weight, unit, notes, created_at
		FROM weight_entry
		WHERE user_id = $1
		ORDER BY date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select weight entries: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.Weight, &e.Unit, &e.Notes, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect weight entries: %w", err)
	}
	return entries, nil
}

// Delete removes the entry. A nil ownerID skips the ownership check.
func (r *Repo) Delete(ctx context.Context, id int64, ownerID *int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "weightsRepo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var tag pgconn.CommandTag
	if ownerID == nil {
		tag, err = r.db.Exec(ctx, `DELETE FROM weight_entry WHERE id = $1`, id)
	} else {
		tag, err = r.db.Exec(ctx,
			`DELETE FROM weight_entry WHERE id = $1 AND user_id = $2`,
			id, *ownerID,
		)
	}
	if err != nil {
		return fmt.Errorf("delete weight entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

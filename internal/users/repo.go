package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/liftbook/internal/auth"
	"github.com/2beens/liftbook/internal/db"
	"github.com/2beens/liftbook/internal/telemetry/tracing"
	"github.com/2beens/liftbook/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	identityConstraint     = "user_provider_identity_key"
	userProviderConstraint = "user_provider_user_key"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(dbPool *pgxpool.Pool) *Repo {
	return &Repo{
		db: dbPool,
	}
}

// CreateUser inserts the user and its first provider link in one transaction.
func (r *Repo) CreateUser(ctx context.Context, newUser NewUser) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.createUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user := &User{
		FirstName: newUser.FirstName,
		LastName:  newUser.LastName,
		Email:     newUser.Email,
	}
	err = db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO app_user (first_name, last_name, email) VALUES ($1, $2, $3)
			RETURNING id, created_at`,
			newUser.FirstName, newUser.LastName, newUser.Email,
		).Scan(&user.ID, &user.CreatedAt); err != nil {
			if pkg.IsUniqueViolationError(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("insert user: %w", err)
		}

		provider, err := insertProvider(ctx, tx, user.ID, newUser.Provider, newUser.ProviderID, newUser.ProviderEmail)
		if err != nil {
			return err
		}
		user.Providers = []Provider{*provider}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	return user, nil
}

func (r *Repo) GetUser(ctx context.Context, id int64) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.getUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user := &User{ID: id}
	if err := r.db.QueryRow(ctx,
		`SELECT first_name, last_name, email, created_at FROM app_user WHERE id = $1`,
		id,
	).Scan(&user.FirstName, &user.LastName, &user.Email, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT provider, provider_id, provider_email, created_at
		FROM user_provider WHERE user_id = $1 ORDER BY created_at, id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("select providers: %w", err)
	}
	user.Providers, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (Provider, error) {
		var p Provider
		err := row.Scan(&p.Provider, &p.ProviderID, &p.ProviderEmail, &p.CreatedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect providers: %w", err)
	}

	return user, nil
}

// LinkProvider binds providerID to the user. A user holds at most one link
// per provider and a provider identity belongs to at most one user.
func (r *Repo) LinkProvider(ctx context.Context, userID int64, provider, providerID, providerEmail string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.linkProvider")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("user.id", userID),
		attribute.String("provider", provider),
	)

	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var userExists, linked bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM app_user WHERE id = $1),
				EXISTS (SELECT 1 FROM user_provider WHERE user_id = $1 AND provider = $2)`,
			userID, provider,
		).Scan(&userExists, &linked); err != nil {
			return fmt.Errorf("check provider link: %w", err)
		}
		if !userExists {
			return ErrUserNotFound
		}
		if linked {
			return ErrAlreadyLinked
		}

		_, err := insertProvider(ctx, tx, userID, provider, providerID, providerEmail)
		return err
	})
}

// FindIdentity resolves a provider identity to the bound user. An empty
// provider matches a link of any provider.
func (r *Repo) FindIdentity(ctx context.Context, provider, providerID string) (_ *auth.Identity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.findIdentity")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var user User
	var linkedProvider string
	err = r.db.QueryRow(ctx,
		`SELECT u.id, u.first_name, u.last_name, u.email, p.provider
		FROM user_provider p
		JOIN app_user u ON u.id = p.user_id
		WHERE p.provider_id = $1 AND ($2 = '' OR p.provider = $2)
		ORDER BY p.id
		LIMIT 1`,
		providerID, provider,
	).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &linkedProvider)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("select identity: %w", err)
	}

	return &auth.Identity{
		UserID:   user.ID,
		Subject:  providerID,
		Name:     user.FullName(),
		Email:    user.Email,
		Provider: linkedProvider,
	}, nil
}

func (r *Repo) HasProvider(ctx context.Context, userID int64, provider string) (bool, error) {
	var linked bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_provider WHERE user_id = $1 AND provider = $2)`,
		userID, provider,
	).Scan(&linked)
	if err != nil {
		return false, fmt.Errorf("check provider link: %w", err)
	}
	return linked, nil
}

// DeleteUser removes the user; every owned row goes with it.
func (r *Repo) DeleteUser(ctx context.Context, id int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.deleteUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// groupings reference sets, not users
		if _, err := tx.Exec(ctx,
			`DELETE FROM set_grouping WHERE id IN (
				SELECT es.set_grouping_id
				FROM exercise_set es
				JOIN workout_exercise we ON we.id = es.workout_exercise_id
				JOIN workout w ON w.id = we.workout_id
				WHERE w.user_id = $1 AND es.set_grouping_id IS NOT NULL
			)`,
			id,
		); err != nil {
			return fmt.Errorf("delete set groupings: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM app_user WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func insertProvider(ctx context.Context, tx pgx.Tx, userID int64, provider, providerID, providerEmail string) (*Provider, error) {
	p := &Provider{
		Provider:   provider,
		ProviderID: providerID,
	}
	if providerEmail != "" {
		p.ProviderEmail = &providerEmail
	}
	err := tx.QueryRow(ctx,
		`INSERT INTO user_provider (user_id, provider, provider_id, provider_email)
			VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		userID, provider, providerID, p.ProviderEmail,
	).Scan(&p.CreatedAt)
	if err != nil {
		switch {
		case pkg.IsUniqueViolationError(err) && pkg.ConstraintName(err) == identityConstraint:
			return nil, ErrProviderIdentityTaken
		case pkg.IsUniqueViolationError(err) && pkg.ConstraintName(err) == userProviderConstraint:
			return nil, ErrAlreadyLinked
		case pkg.IsForeignKeyViolationError(err):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("insert provider: %w", err)
	}
	return p, nil
}

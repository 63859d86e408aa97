package pkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert exercise: %w", &pgconn.PgError{Code: "23505", ConstraintName: "exercise_user_id_name_key"})
	assert.True(t, IsUniqueViolationError(unique))
	assert.False(t, IsForeignKeyViolationError(unique))
	assert.Equal(t, "exercise_user_id_name_key", ConstraintName(unique))

	fk := &pgconn.PgError{Code: "23503"}
	assert.True(t, IsForeignKeyViolationError(fk))
	assert.False(t, IsUniqueViolationError(fk))

	check := &pgconn.PgError{Code: "23514"}
	assert.True(t, IsCheckViolationError(check))

	plain := errors.New("boom")
	assert.False(t, IsUniqueViolationError(plain))
	assert.False(t, IsForeignKeyViolationError(plain))
	assert.Empty(t, ConstraintName(plain))
	assert.False(t, IsUniqueViolationError(nil))
}

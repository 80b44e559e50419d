package errorutil

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("no rows becomes not found", func(t *testing.T) {
		err := MapError(pgx.ErrNoRows)
		var domainErr *DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
		assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
	})

	t.Run("unique violation becomes conflict", func(t *testing.T) {
		err := MapError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
		var domainErr *DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
		assert.Equal(t, "users_username_key", domainErr.Details["constraint"])
	})

	t.Run("foreign key violation becomes conflict", func(t *testing.T) {
		err := MapError(&pgconn.PgError{Code: "23503"})
		assert.True(t, IsConflict(err))
	})

	t.Run("domain errors pass through unchanged", func(t *testing.T) {
		original := NewForbidden("nope")
		assert.Equal(t, original, MapError(original))
	})

	t.Run("unknown errors become internal", func(t *testing.T) {
		err := MapError(errors.New("boom"))
		var domainErr *DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
		assert.EqualError(t, errors.Unwrap(domainErr), "boom")
	})
}

func TestToDomainErrorAlwaysYieldsEnvelopeFields(t *testing.T) {
	for _, err := range []error{
		NewValidationError("bad", map[string]any{"field": "title"}),
		NewNotFound("ticket", nil),
		NewUnauthorized("no token"),
		NewForbidden("no role"),
		NewConflict("dup", nil),
		NewAttachmentError("too big", nil),
		errors.New("raw"),
		pgx.ErrNoRows,
	} {
		domainErr := ToDomainError(err)
		assert.NotEmpty(t, domainErr.Code)
		assert.NotEmpty(t, domainErr.Message)
		assert.GreaterOrEqual(t, domainErr.HTTPStatus, 400)
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("ticket", nil)))
	assert.False(t, IsNotFound(NewConflict("dup", nil)))
	assert.False(t, IsNotFound(errors.New("other")))
}

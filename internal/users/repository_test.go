package users

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLCreateMapsUniqueViolationToDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The pgx stdlib driver surfaces server errors as *pgconn.PgError.
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	repo := NewSQLRepository(db)
	_, err = repo.Create(t.Context(), "Priya", "priya@example.com", "hash", "")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCreatePassesThroughOtherErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23502", ColumnName: "username"})

	repo := NewSQLRepository(db)
	_, err = repo.Create(t.Context(), "", "priya@example.com", "hash", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCreateNormalizesEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSQLRepository(db)
	u, err := repo.Create(t.Context(), "Priya", "  Priya@Example.COM ", "hash", "")
	require.NoError(t, err)
	assert.Equal(t, "priya@example.com", u.Email)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLGetByEmailNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "email", "password_hash", "phone", "created_at",
		}))

	repo := NewSQLRepository(db)
	_, _, err = repo.GetByEmail(t.Context(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}



package doctors

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doctorRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "category_id", "category_name", "name", "location",
		"rating", "reviews_count", "total_bookings", "qualification", "experience",
		"specialization", "clinic_address", "phone", "email", "image_url",
		"availability", "created_at",
	})
}

func TestSQLListByCategoryUsesCaseInsensitiveMatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "name", "category_id", "category_name", "location",
		"rating", "reviews_count", "total_bookings", "qualification", "experience",
		"specialization", "clinic_address", "phone", "email", "image_url",
		"availability", "created_at",
	}).AddRow(
		"d1", "Dr. Ayesha Khan", "", "Cardiologist", "Mumbai",
		4.8, 120, 540, "MBBS, MD", 12,
		"{\"Heart Failure\",\"Angioplasty\"}", "12 Marine Drive", "", "", "",
		[]byte(`{"2026-09-01":["10:00 AM"]}`), time.Now(),
	)

	mock.ExpectQuery(`ILIKE '%' \|\| \$1 \|\| '%'`).
		WithArgs("cardio").
		WillReturnRows(rows)

	repo := NewSQLRepository(db)
	list, err := repo.ListByCategory(t.Context(), "cardio")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dr. Ayesha Khan", list[0].Name)
	assert.Equal(t, []string{"Heart Failure", "Angioplasty"}, list[0].Specialization)
	assert.True(t, list[0].Availability.HasSlot("2026-09-01", "10:00 AM"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM doctors WHERE id = \$1`).
		WithArgs("missing-id").
		WillReturnRows(doctorRows())

	repo := NewSQLRepository(db)
	_, err = repo.GetByID(t.Context(), "missing-id")
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDeleteReportsMissingDoctor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM doctors WHERE id = \$1`).
		WithArgs("missing-id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewSQLRepository(db)
	assert.ErrorIs(t, repo.Delete(t.Context(), "missing-id"), ErrDoctorNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLIncrementBookings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE doctors SET total_bookings = total_bookings \+ 1`).
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSQLRepository(db)
	require.NoError(t, repo.IncrementBookings(t.Context(), "d1"))
	require.NoError(t, mock.ExpectationsWereMet())
}



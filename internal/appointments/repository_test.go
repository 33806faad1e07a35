package appointments

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLCreateMapsUniqueViolationToSlotTaken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The pgx stdlib driver surfaces server errors as *pgconn.PgError.
	mock.ExpectExec(`INSERT INTO appointments`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_appointments_slot"})

	repo := NewSQLRepository(db)
	err = repo.Create(t.Context(), &Appointment{
		UserID:   "u1",
		DoctorID: "d1",
		Date:     "2026-09-01",
		TimeSlot: "10:00 AM",
	})
	assert.ErrorIs(t, err, ErrSlotTaken)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCreatePassesThroughOtherErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO appointments`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "appointments_doctor_id_fkey"})

	repo := NewSQLRepository(db)
	err = repo.Create(t.Context(), &Appointment{UserID: "u1", DoctorID: "missing"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSlotTaken)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCreateGeneratesUUIDForIDColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO appointments`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSQLRepository(db)
	a := &Appointment{UserID: "u1", DoctorID: "d1", Date: "2026-09-01", TimeSlot: "10:00 AM"}
	require.NoError(t, repo.Create(t.Context(), a))

	// appointments.id is a UUID column; anything else fails to encode.
	_, err = uuid.Parse(a.ID)
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, a.Status)
	assert.Equal(t, PaymentPending, a.PaymentStatus)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLGetForUserNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM appointments`).
		WithArgs("missing-id", "u1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "doctor_id", "doctor_name", "category",
			"date", "time_slot", "status", "payment_status", "created_at",
		}))

	repo := NewSQLRepository(db)
	_, err = repo.GetForUser(t.Context(), "u1", "missing-id")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}



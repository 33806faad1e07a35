package appointments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository defines the interface for appointment storage
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Appointment, error)
	GetForUser(ctx context.Context, userID, id string) (*Appointment, error)
	Create(ctx context.Context, a *Appointment) error
	SetPaymentStatus(ctx context.Context, userID, id, paymentStatus string) (*Appointment, error)
}

const appointmentColumns = `id, user_id, doctor_id, doctor_name, category, date,
	time_slot, status, payment_status, created_at`

// SQLRepository is a Postgres-backed Repository.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a repository backed by database/sql.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// ListByUser returns the user's appointments, newest first.
func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+` FROM appointments
		WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.DoctorID, &a.DoctorName, &a.Category,
			&a.Date, &a.TimeSlot, &a.Status, &a.PaymentStatus, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, a)
	}
	if out == nil {
		out = []Appointment{}
	}
	return out, rows.Err()
}

func (r *SQLRepository) GetForUser(ctx context.Context, userID, id string) (*Appointment, error) {
	var a Appointment
	err := r.db.QueryRowContext(ctx, `
		SELECT `+appointmentColumns+` FROM appointments
		WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&a.ID, &a.UserID, &a.DoctorID, &a.DoctorName, &a.Category,
			&a.Date, &a.TimeSlot, &a.Status, &a.PaymentStatus, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: get: %w", err)
	}
	return &a, nil
}

// Create inserts a booking. A unique index on (doctor_id, date, time_slot) for
// non-cancelled rows turns double-booking into ErrSlotTaken.
func (r *SQLRepository) Create(ctx context.Context, a *Appointment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = StatusConfirmed
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = PaymentPending
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (id, user_id, doctor_id, doctor_name, category,
			date, time_slot, status, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.UserID, a.DoctorID, a.DoctorName, a.Category,
		a.Date, a.TimeSlot, a.Status, a.PaymentStatus, a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotTaken
		}
		return fmt.Errorf("appointments: insert: %w", err)
	}
	return nil
}

// SetPaymentStatus updates the payment status of the user's appointment.
func (r *SQLRepository) SetPaymentStatus(ctx context.Context, userID, id, paymentStatus string) (*Appointment, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments SET payment_status = $1
		WHERE id = $2 AND user_id = $3`, paymentStatus, id, userID)
	if err != nil {
		return nil, fmt.Errorf("appointments: set payment status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrAppointmentNotFound
	}
	return r.GetForUser(ctx, userID, id)
}

// InMemoryRepository is a stub implementation of Repository using in-memory storage
type InMemoryRepository struct {
	mu           sync.RWMutex
	appointments map[string]*Appointment
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{appointments: make(map[string]*Appointment)}
}

func (r *InMemoryRepository) ListByUser(ctx context.Context, userID string) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appointment, 0)
	for _, a := range r.appointments {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepository) GetForUser(ctx context.Context, userID, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok || a.UserID != userID {
		return nil, ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.appointments {
		if existing.DoctorID == a.DoctorID &&
			existing.Date == a.Date &&
			existing.TimeSlot == a.TimeSlot &&
			existing.Status != StatusCancelled {
			return ErrSlotTaken
		}
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = StatusConfirmed
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = PaymentPending
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	copied := *a
	r.appointments[a.ID] = &copied
	return nil
}

func (r *InMemoryRepository) SetPaymentStatus(ctx context.Context, userID, id, paymentStatus string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok || a.UserID != userID {
		return nil, ErrAppointmentNotFound
	}
	a.PaymentStatus = paymentStatus
	copied := *a
	return &copied, nil
}

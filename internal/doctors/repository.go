package doctors

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repository defines the interface for doctor storage
type Repository interface {
	List(ctx context.Context) ([]Doctor, error)
	ListByCategory(ctx context.Context, categoryName string) ([]Doctor, error)
	GetByID(ctx context.Context, id string) (*Doctor, error)
	Create(ctx context.Context, req *CreateDoctorRequest, categoryName, imageURL string) (*Doctor, error)
	Delete(ctx context.Context, id string) error
	IncrementBookings(ctx context.Context, id string) error
}

const doctorColumns = `id, name, COALESCE(category_id::text, ''), category_name, location,
	rating, reviews_count, total_bookings, qualification, experience,
	specialization, clinic_address, phone, email, image_url, availability, created_at`

// SQLRepository is a Postgres-backed Repository.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a repository backed by database/sql.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) List(ctx context.Context) ([]Doctor, error) {
	return r.query(ctx, `SELECT `+doctorColumns+` FROM doctors ORDER BY created_at DESC`)
}

// ListByCategory matches the category name case-insensitively as a substring,
// mirroring the original admin API behavior. An empty name returns all doctors.
func (r *SQLRepository) ListByCategory(ctx context.Context, categoryName string) ([]Doctor, error) {
	categoryName = strings.TrimSpace(categoryName)
	if categoryName == "" {
		return r.List(ctx)
	}
	return r.query(ctx, `
		SELECT `+doctorColumns+` FROM doctors
		WHERE category_name ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC`, categoryName)
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id)
	d, err := scanDoctor(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("doctors: get by id: %w", err)
	}
	return d, nil
}

func (r *SQLRepository) Create(ctx context.Context, req *CreateDoctorRequest, categoryName, imageURL string) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d := &Doctor{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		CategoryID:      req.CategoryID,
		Category:        categoryName,
		Location:        req.Location,
		Rating:          req.Rating,
		Qualification:   req.Qualification,
		Experience:      req.Experience,
		Specialization:  req.Specialization,
		ClinicAddress:   req.ClinicAddress,
		Phone:           req.Phone,
		Email:           req.Email,
		ProfileImageURL: imageURL,
		Availability:    req.Availability,
		CreatedAt:       time.Now().UTC(),
	}
	if d.Specialization == nil {
		d.Specialization = []string{}
	}
	if d.Availability == nil {
		d.Availability = Availability{}
	}

	availabilityJSON, err := json.Marshal(d.Availability)
	if err != nil {
		return nil, fmt.Errorf("doctors: marshal availability: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO doctors (id, name, category_id, category_name, location, rating,
			qualification, experience, specialization, clinic_address, phone, email,
			image_url, availability, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		d.ID, d.Name, nullableID(d.CategoryID), d.Category, d.Location, d.Rating,
		d.Qualification, d.Experience, pq.Array(d.Specialization), d.ClinicAddress,
		d.Phone, d.Email, d.ProfileImageURL, availabilityJSON, d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("doctors: insert: %w", err)
	}
	return d, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("doctors: delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

// IncrementBookings bumps the doctor's total bookings counter after a booking.
func (r *SQLRepository) IncrementBookings(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE doctors SET total_bookings = total_bookings + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("doctors: increment bookings: %w", err)
	}
	return nil
}

func (r *SQLRepository) query(ctx context.Context, q string, args ...any) ([]Doctor, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("doctors: query: %w", err)
	}
	defer rows.Close()

	var out []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("doctors: scan: %w", err)
		}
		out = append(out, *d)
	}
	if out == nil {
		out = []Doctor{}
	}
	return out, rows.Err()
}

func scanDoctor(scan func(dest ...any) error) (*Doctor, error) {
	var d Doctor
	var availabilityJSON []byte
	err := scan(&d.ID, &d.Name, &d.CategoryID, &d.Category, &d.Location,
		&d.Rating, &d.ReviewsCount, &d.TotalBookings, &d.Qualification, &d.Experience,
		pq.Array(&d.Specialization), &d.ClinicAddress, &d.Phone, &d.Email,
		&d.ProfileImageURL, &availabilityJSON, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	if d.Specialization == nil {
		d.Specialization = []string{}
	}
	d.Availability = Availability{}
	if len(availabilityJSON) > 0 {
		if err := json.Unmarshal(availabilityJSON, &d.Availability); err != nil {
			return nil, fmt.Errorf("unmarshal availability: %w", err)
		}
	}
	return &d, nil
}

func nullableID(id string) any {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return id
}

// InMemoryRepository is a stub implementation of Repository using in-memory storage
type InMemoryRepository struct {
	mu      sync.RWMutex
	doctors map[string]*Doctor
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{doctors: make(map[string]*Doctor)}
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepository) ListByCategory(ctx context.Context, categoryName string) ([]Doctor, error) {
	categoryName = strings.TrimSpace(categoryName)
	if categoryName == "" {
		return r.List(ctx)
	}

	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(categoryName)
	out := make([]Doctor, 0, len(all))
	for _, d := range all {
		if strings.Contains(strings.ToLower(d.Category), needle) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, req *CreateDoctorRequest, categoryName, imageURL string) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d := &Doctor{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		CategoryID:      req.CategoryID,
		Category:        categoryName,
		Location:        req.Location,
		Rating:          req.Rating,
		Qualification:   req.Qualification,
		Experience:      req.Experience,
		Specialization:  req.Specialization,
		ClinicAddress:   req.ClinicAddress,
		Phone:           req.Phone,
		Email:           req.Email,
		ProfileImageURL: imageURL,
		Availability:    req.Availability,
		CreatedAt:       time.Now().UTC(),
	}
	if d.Specialization == nil {
		d.Specialization = []string{}
	}
	if d.Availability == nil {
		d.Availability = Availability{}
	}
	r.doctors[d.ID] = d
	return d, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doctors[id]; !ok {
		return ErrDoctorNotFound
	}
	delete(r.doctors, id)
	return nil
}

func (r *InMemoryRepository) IncrementBookings(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.doctors[id]
	if !ok {
		return ErrDoctorNotFound
	}
	d.TotalBookings++
	return nil
}

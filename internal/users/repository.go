package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository defines the interface for user storage
type Repository interface {
	Create(ctx context.Context, name, email, passwordHash, phone string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, string, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// SQLRepository is a Postgres-backed Repository.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a repository backed by database/sql.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, name, email, passwordHash, phone string) (*User, error) {
	u := &User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Phone:     phone,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Name, u.Email, passwordHash, u.Phone, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("users: insert: %w", err)
	}
	return u, nil
}

// GetByEmail returns the user and the stored password hash.
func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (*User, string, error) {
	var u User
	var hash string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, phone, created_at
		FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.Name, &u.Email, &hash, &u.Phone, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrUserNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("users: get by email: %w", err)
	}
	return &u, hash, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, phone, created_at
		FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("users: get by id: %w", err)
	}
	return &u, nil
}

// InMemoryRepository is a stub implementation of Repository using in-memory storage
type InMemoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]*User
	hashes map[string]string // keyed by email
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:   make(map[string]*User),
		hashes: make(map[string]string),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, name, email, passwordHash, phone string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	if _, exists := r.hashes[email]; exists {
		return nil, ErrDuplicateEmail
	}
	u := &User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now().UTC(),
	}
	r.byID[u.ID] = u
	r.hashes[email] = passwordHash
	return u, nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*User, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	hash, ok := r.hashes[email]
	if !ok {
		return nil, "", ErrUserNotFound
	}
	for _, u := range r.byID {
		if u.Email == email {
			copied := *u
			return &copied, hash, nil
		}
	}
	return nil, "", ErrUserNotFound
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

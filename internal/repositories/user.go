package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/openmusic/internal/models"
	"github.com/desertthunder/openmusic/internal/shared"
)

// UserRepository persists [models.User] accounts.
type UserRepository struct {
	db *shared.Database
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *shared.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with generated ID and sequence.
//
// user.PasswordHash must already be hashed.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sequence, err := NextSequence(ctx, r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	ts := now()
	user.ID = shared.NewID("user")
	user.Sequence = sequence
	user.CreatedAt = ts
	user.UpdatedAt = ts

	query := `
		INSERT INTO users (id, sequence, username, password, fullname, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, user.ID, user.Sequence, user.Username, user.PasswordHash, user.Fullname, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return expectRows(result, shared.InvariantError("failed to add user"))
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, sequence, username, password, fullname, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, sequence, username, password, fullname, created_at, updated_at
		FROM users
		WHERE username = ?
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

// UsernameExists reports whether the username is already registered
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)", username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// scanOne scans a single row into a [models.User]
func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	var user models.User

	err := row.Scan(&user.ID, &user.Sequence, &user.Username, &user.PasswordHash, &user.Fullname, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFoundError("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

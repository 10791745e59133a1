package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/openmusic/internal/shared"
)

// AuthenticationRepository stores the refresh credentials that are still allowed to mint access tokens.
//
// Removing a token revokes it. Expiry is carried inside the token itself, so ttl is not stored.
type AuthenticationRepository struct {
	db *shared.Database
}

// NewAuthenticationRepository creates a new AuthenticationRepository with the given database connection
func NewAuthenticationRepository(db *shared.Database) *AuthenticationRepository {
	return &AuthenticationRepository{db: db}
}

// Save records token as active
func (r *AuthenticationRepository) Save(ctx context.Context, token string, _ time.Duration) error {
	result, err := r.db.ExecContext(ctx, "INSERT INTO authentications (token, created_at) VALUES (?, ?)", token, now())
	if err != nil {
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return expectRows(result, shared.InvariantError("failed to store refresh token"))
}

// Exists reports whether token is still active
func (r *AuthenticationRepository) Exists(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM authentications WHERE token = ?)", token).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check refresh token: %w", err)
	}
	return exists, nil
}

// Delete revokes token; deleting an unknown token is an invariant failure
func (r *AuthenticationRepository) Delete(ctx context.Context, token string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM authentications WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return expectRows(result, shared.InvariantError("refresh token not found"))
}

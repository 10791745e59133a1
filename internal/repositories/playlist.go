package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/openmusic/internal/models"
	"github.com/desertthunder/openmusic/internal/shared"
)

// PlaylistRepository persists [models.Playlist] rows.
//
// There is no update: a playlist's owner is fixed at creation.
type PlaylistRepository struct {
	db *shared.Database
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *shared.Database) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist with generated ID and sequence
func (r *PlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	sequence, err := NextSequence(ctx, r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	ts := now()
	playlist.ID = shared.NewID("playlist")
	playlist.Sequence = sequence
	playlist.CreatedAt = ts
	playlist.UpdatedAt = ts

	query := `
		INSERT INTO playlists (id, sequence, name, owner, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, playlist.ID, playlist.Sequence, playlist.Name, playlist.Owner, playlist.CreatedAt, playlist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return expectRows(result, shared.InvariantError("failed to add playlist"))
}

// Get retrieves a playlist by ID
func (r *PlaylistRepository) Get(ctx context.Context, id string) (*models.Playlist, error) {
	query := `
		SELECT id, sequence, name, owner, created_at, updated_at
		FROM playlists
		WHERE id = ?
	`

	var playlist models.Playlist
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&playlist.ID,
		&playlist.Sequence,
		&playlist.Name,
		&playlist.Owner,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFoundError("playlist not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist: %w", err)
	}

	return &playlist, nil
}

// GetSummary retrieves a playlist joined with its owner's username
func (r *PlaylistRepository) GetSummary(ctx context.Context, id string) (*models.PlaylistSummary, error) {
	query := `
		SELECT p.id, p.name, u.username
		FROM playlists AS p
		JOIN users AS u ON p.owner = u.id
		WHERE p.id = ?
	`

	var summary models.PlaylistSummary
	err := r.db.QueryRowContext(ctx, query, id).Scan(&summary.ID, &summary.Name, &summary.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFoundError("playlist not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist: %w", err)
	}

	return &summary, nil
}

// ListByOwner retrieves the playlists owned by owner in creation order
func (r *PlaylistRepository) ListByOwner(ctx context.Context, owner string) ([]models.PlaylistSummary, error) {
	query := `
		SELECT p.id, p.name, u.username
		FROM playlists AS p
		JOIN users AS u ON p.owner = u.id
		WHERE p.owner = ?
		ORDER BY p.sequence ASC
	`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := []models.PlaylistSummary{}
	for rows.Next() {
		var summary models.PlaylistSummary
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Username); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// Delete removes a playlist; its membership rows cascade
func (r *PlaylistRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	return expectRows(result, shared.NotFoundError("failed to delete playlist, id not found"))
}

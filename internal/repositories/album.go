package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/openmusic/internal/models"
	"github.com/desertthunder/openmusic/internal/shared"
)

// AlbumRepository persists [models.Album] rows.
type AlbumRepository struct {
	db *shared.Database
}

// NewAlbumRepository creates a new AlbumRepository with the given database connection
func NewAlbumRepository(db *shared.Database) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// Create inserts a new album with generated ID and sequence
func (r *AlbumRepository) Create(ctx context.Context, album *models.Album) error {
	sequence, err := NextSequence(ctx, r.db, "albums")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	ts := now()
	album.ID = shared.NewID("album")
	album.Sequence = sequence
	album.CreatedAt = ts
	album.UpdatedAt = ts

	query := `
		INSERT INTO albums (id, sequence, name, year, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, album.ID, album.Sequence, album.Name, album.Year, album.CreatedAt, album.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert album: %w", err)
	}

	return expectRows(result, shared.InvariantError("failed to add album"))
}

// Get retrieves an album by ID without its songs
func (r *AlbumRepository) Get(ctx context.Context, id string) (*models.Album, error) {
	query := `
		SELECT id, sequence, name, year, created_at, updated_at
		FROM albums
		WHERE id = ?
	`

	var album models.Album
	err := r.db.QueryRowContext(ctx, query, id).Scan(&album.ID, &album.Sequence, &album.Name, &album.Year, &album.CreatedAt, &album.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFoundError("album not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query album: %w", err)
	}

	return &album, nil
}

// Update overwrites the writable fields of an album
func (r *AlbumRepository) Update(ctx context.Context, id string, fields models.AlbumFields) error {
	query := `
		UPDATE albums
		SET name = ?, year = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, fields.Name, fields.Year, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}

	return expectRows(result, shared.NotFoundError("failed to update album, id not found"))
}

// Delete removes an album; the songs table cascades the delete to its songs
func (r *AlbumRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM albums WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}

	return expectRows(result, shared.NotFoundError("failed to delete album, id not found"))
}

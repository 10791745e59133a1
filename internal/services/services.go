// package services implements the catalog, identity and playlist operations on top of storage
package services

import (
	"context"

	"github.com/desertthunder/openmusic/internal/models"
)

// AlbumStore persists albums.
type AlbumStore interface {
	Create(ctx context.Context, album *models.Album) error
	Get(ctx context.Context, id string) (*models.Album, error)
	Update(ctx context.Context, id string, fields models.AlbumFields) error
	Delete(ctx context.Context, id string) error
}

// SongStore persists songs.
type SongStore interface {
	Create(ctx context.Context, song *models.Song) error
	Get(ctx context.Context, id string) (*models.Song, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter models.SongFilter) ([]models.SongSummary, error)
	ListByAlbum(ctx context.Context, albumID string) ([]models.SongSummary, error)
	Update(ctx context.Context, id string, fields models.SongFields) error
	Delete(ctx context.Context, id string) error
}

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// PlaylistStore persists playlists.
type PlaylistStore interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	Get(ctx context.Context, id string) (*models.Playlist, error)
	GetSummary(ctx context.Context, id string) (*models.PlaylistSummary, error)
	ListByOwner(ctx context.Context, owner string) ([]models.PlaylistSummary, error)
	Delete(ctx context.Context, id string) error
}

// PlaylistSongStore persists playlist membership.
type PlaylistSongStore interface {
	Add(ctx context.Context, entry *models.PlaylistEntry) error
	Exists(ctx context.Context, playlistID, songID string) (bool, error)
	ListSongs(ctx context.Context, playlistID string) ([]models.SongSummary, error)
	ListSongDetails(ctx context.Context, playlistID string) ([]models.Song, error)
	Delete(ctx context.Context, playlistID, songID string) error
}

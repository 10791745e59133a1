// package models defines the data model for the openmusic service
package models

import (
	"time"
)

// Album is a named release grouping zero or more songs.
type Album struct {
	ID        string        `json:"id"`
	Sequence  int           `json:"-"`
	Name      string        `json:"name"`
	Year      int           `json:"year"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Songs     []SongSummary `json:"songs"`
}

// AlbumFields holds the writable attributes of an [Album].
type AlbumFields struct {
	Name string
	Year int
}

// Song is a single track. Duration and AlbumID are optional.
type Song struct {
	ID        string    `json:"id"`
	Sequence  int       `json:"-"`
	Title     string    `json:"title"`
	Year      int       `json:"year"`
	Performer string    `json:"performer"`
	Genre     string    `json:"genre"`
	Duration  *int      `json:"duration"`
	AlbumID   *string   `json:"albumId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary projects the song onto its list representation.
func (s *Song) Summary() SongSummary {
	return SongSummary{ID: s.ID, Title: s.Title, Performer: s.Performer}
}

// SongFields holds the writable attributes of a [Song].
type SongFields struct {
	Title     string
	Year      int
	Performer string
	Genre     string
	Duration  *int
	AlbumID   *string
}

// SongSummary is the list representation of a song.
type SongSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Performer string `json:"performer"`
}

// SongFilter narrows song listings. Empty fields match everything.
type SongFilter struct {
	Title     string
	Performer string
}

// User is an account able to own playlists.
type User struct {
	ID           string    `json:"id"`
	Sequence     int       `json:"-"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Fullname     string    `json:"fullname"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUserFields holds what is needed to register a [User]; Password is plain text.
type NewUserFields struct {
	Username string
	Password string
	Fullname string
}

// Playlist is owned by exactly one user for its whole lifetime.
type Playlist struct {
	ID        string    `json:"id"`
	Sequence  int       `json:"-"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PlaylistEntry links one song to one playlist.
type PlaylistEntry struct {
	ID         string    `json:"id"`
	Sequence   int       `json:"-"`
	PlaylistID string    `json:"playlistId"`
	SongID     string    `json:"songId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PlaylistSummary is a playlist joined with the username of its owner.
type PlaylistSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// PlaylistSongs is a playlist summary with its songs in insertion order.
type PlaylistSongs struct {
	PlaylistSummary
	Songs []SongSummary `json:"songs"`
}

// PlaylistExport is a playlist with full song records, written by the export formats.
type PlaylistExport struct {
	Playlist   PlaylistSummary `json:"playlist"`
	Songs      []Song          `json:"songs"`
	ExportedAt time.Time       `json:"exportedAt"`
}

// Package models defines the domain entities of the openmusic catalog and playlist service.
//
// The package contains two categories of types:
//
// 1. Persistent entities, one per table:
//   - [Album] : an album and, when loaded in detail, the songs it owns
//   - [Song] : a song, optionally owned by an album
//   - [User] : an account, the identity root for playlists and bearer credentials
//   - [Playlist] : a named, owner-scoped collection of songs
//   - [PlaylistEntry] : the membership row linking one song to one playlist
//
// 2. Read models returned by listing operations:
//   - [SongSummary] : id, title and performer of a song
//   - [PlaylistSummary] : a playlist with its owner's username
//   - [PlaylistSongs] : a playlist summary together with its songs
//
// Field updates go through the *Fields types so partial payloads never clobber ids or timestamps.
package models

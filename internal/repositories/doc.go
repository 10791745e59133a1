// Package repositories implements SQL persistence for all domain entities.
//
// Each repository handles CRUD operations over a [shared.Database] pool with atomic sequence
// generation for stable, creation-ordered listings. Queries are written once with "?" placeholders
// and run unchanged on sqlite3 and postgres.
//
// Key Implementations:
//   - [AlbumRepository] : Album persistence; deleting an album cascades to its songs
//   - [SongRepository] : Song persistence with case-insensitive title/performer filtering
//   - [UserRepository] : User accounts with username lookups
//   - [AuthenticationRepository] : Refresh credentials that may still mint access tokens
//   - [PlaylistRepository] : Playlists and owner-joined summaries
//   - [PlaylistSongRepository] : Junction table managing playlist song membership
//
// Lookups of a missing row return a [shared.KindNotFound] error, and writes that affect no row
// return a [shared.KindInvariant] error. Driver failures are returned wrapped and unclassified.
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories

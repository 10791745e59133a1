// Package services implements the catalog, identity and playlist operations on top of storage.
//
// # Catalog
//
// [CatalogService] owns albums and songs. Deleting an album deletes its songs; adding a song
// that references an album requires the album to exist.
//
// # Playlists
//
// [PlaylistService] owns playlists and their membership rows. Callers gate every mutation with
// [PlaylistService.VerifyPlaylistOwner] before acting. A song appears at most once per playlist
// and removal only affects the playlist it is removed from.
// [PlaylistService.ExportPlaylist] snapshots a playlist with full song records for the
// operator export commands.
//
// # Identity
//
// [IdentityService] registers users and checks username and password pairs with bcrypt.
//
// # Errors
//
// Methods return [shared.Error] values classified by kind, or an unclassified error when
// storage itself fails.
package services

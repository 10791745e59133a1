package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/openmusic/internal/models"
	"github.com/desertthunder/openmusic/internal/repositories"
	"github.com/desertthunder/openmusic/internal/shared"
	tu "github.com/desertthunder/openmusic/internal/testing"
)

type fixture struct {
	db        *shared.Database
	catalog   *CatalogService
	playlists *PlaylistService
	identity  *IdentityService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := tu.NewTestDatabase(t)

	catalog := NewCatalogService(repositories.NewAlbumRepository(db), repositories.NewSongRepository(db))
	return &fixture{
		db:      db,
		catalog: catalog,
		playlists: NewPlaylistService(
			repositories.NewPlaylistRepository(db),
			repositories.NewPlaylistSongRepository(db),
			catalog,
		),
		identity: NewIdentityService(repositories.NewUserRepository(db), tu.TestConfig().Auth.BcryptCost),
	}
}

func (f *fixture) user(t *testing.T, username string) string {
	t.Helper()
	id, err := f.identity.AddUser(context.Background(), models.NewUserFields{Username: username, Password: "secret", Fullname: username})
	require.NoError(t, err)
	return id
}

func (f *fixture) song(t *testing.T, title string, albumID *string) string {
	t.Helper()
	id, err := f.catalog.AddSong(context.Background(), models.SongFields{Title: title, Year: 1970, Performer: "The Beatles", Genre: "Rock", AlbumID: albumID})
	require.NoError(t, err)
	return id
}

func (f *fixture) playlist(t *testing.T, name, owner string) string {
	t.Helper()
	id, err := f.playlists.AddPlaylist(context.Background(), name, owner)
	require.NoError(t, err)
	return id
}

func TestCatalogService(t *testing.T) {
	ctx := context.Background()

	t.Run("Album Delete Cascades", func(t *testing.T) {
		f := newFixture(t)

		albumID, err := f.catalog.AddAlbum(ctx, models.AlbumFields{Name: "Let It Be", Year: 1970})
		require.NoError(t, err)
		assert.Regexp(t, `^album-[0-9a-f]{32}$`, albumID)

		otherID, err := f.catalog.AddAlbum(ctx, models.AlbumFields{Name: "Abbey Road", Year: 1969})
		require.NoError(t, err)

		songID := f.song(t, "Two of Us", &albumID)
		otherSong := f.song(t, "Something", &otherID)

		require.NoError(t, f.catalog.DeleteAlbumByID(ctx, albumID))

		_, err = f.catalog.GetSongByID(ctx, songID)
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))

		_, err = f.catalog.GetSongByID(ctx, otherSong)
		assert.NoError(t, err)
	})

	t.Run("GetAlbumByID Includes Songs", func(t *testing.T) {
		f := newFixture(t)

		albumID, err := f.catalog.AddAlbum(ctx, models.AlbumFields{Name: "Let It Be", Year: 1970})
		require.NoError(t, err)
		first := f.song(t, "Two of Us", &albumID)
		second := f.song(t, "Dig a Pony", &albumID)
		f.song(t, "Hey Jude", nil)

		album, err := f.catalog.GetAlbumByID(ctx, albumID)
		require.NoError(t, err)
		assert.Equal(t, "Let It Be", album.Name)
		require.Len(t, album.Songs, 2)
		assert.Equal(t, first, album.Songs[0].ID)
		assert.Equal(t, second, album.Songs[1].ID)

		empty, err := f.catalog.AddAlbum(ctx, models.AlbumFields{Name: "Empty", Year: 2000})
		require.NoError(t, err)
		album, err = f.catalog.GetAlbumByID(ctx, empty)
		require.NoError(t, err)
		assert.NotNil(t, album.Songs)
		assert.Empty(t, album.Songs)
	})

	t.Run("Album NotFound", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.catalog.GetAlbumByID(ctx, "album-missing")
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))

		err = f.catalog.EditAlbumByID(ctx, "album-missing", models.AlbumFields{Name: "x", Year: 1})
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))

		err = f.catalog.DeleteAlbumByID(ctx, "album-missing")
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	})

	t.Run("AddSong", func(t *testing.T) {
		f := newFixture(t)

		id, err := f.catalog.AddSong(ctx, models.SongFields{Year: 2000, Performer: "Nobody", Genre: "Pop"})
		require.NoError(t, err)
		assert.Regexp(t, `^song-[0-9a-f]{32}$`, id)

		song, err := f.catalog.GetSongByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, DefaultSongTitle, song.Title)

		missing := "album-missing"
		_, err = f.catalog.AddSong(ctx, models.SongFields{Title: "t", Year: 2000, Performer: "p", Genre: "g", AlbumID: &missing})
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
		assert.Equal(t, 1, tu.MustCount(t, f.db, "songs", ""))
	})

	t.Run("EditSongByID", func(t *testing.T) {
		f := newFixture(t)
		id := f.song(t, "Two of Us", nil)

		duration := 200
		err := f.catalog.EditSongByID(ctx, id, models.SongFields{Title: "Let It Be", Year: 1970, Performer: "The Beatles", Genre: "Rock", Duration: &duration})
		require.NoError(t, err)

		song, err := f.catalog.GetSongByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Let It Be", song.Title)
		require.NotNil(t, song.Duration)
		assert.Equal(t, 200, *song.Duration)

		missing := "album-missing"
		err = f.catalog.EditSongByID(ctx, id, models.SongFields{Title: "x", Year: 1, Performer: "p", Genre: "g", AlbumID: &missing})
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))

		err = f.catalog.EditSongByID(ctx, "song-missing", models.SongFields{Title: "x", Year: 1, Performer: "p", Genre: "g"})
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	})

	t.Run("GetSongs Filters", func(t *testing.T) {
		f := newFixture(t)
		f.song(t, "Two of Us", nil)
		f.song(t, "Let It Be", nil)

		songs, err := f.catalog.GetSongs(ctx, models.SongFilter{Title: "let"})
		require.NoError(t, err)
		require.Len(t, songs, 1)
		assert.Equal(t, "Let It Be", songs[0].Title)

		songs, err = f.catalog.GetSongs(ctx, models.SongFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Two of Us", "Let It Be"}, []string{songs[0].Title, songs[1].Title})
	})

	t.Run("Verify Songs", func(t *testing.T) {
		f := newFixture(t)
		id := f.song(t, "Two of Us", nil)

		assert.NoError(t, f.catalog.VerifyAddSong(ctx, id))
		assert.NoError(t, f.catalog.VerifyDeleteSong(ctx, id))
		assert.Equal(t, shared.KindNotFound, shared.KindOf(f.catalog.VerifyAddSong(ctx, "song-missing")))
		assert.Equal(t, shared.KindNotFound, shared.KindOf(f.catalog.VerifyDeleteSong(ctx, "song-missing")))
	})
}

func TestIdentityService(t *testing.T) {
	ctx := context.Background()

	t.Run("AddUser", func(t *testing.T) {
		f := newFixture(t)

		id, err := f.identity.AddUser(ctx, models.NewUserFields{Username: "dicoding", Password: "secret", Fullname: "Dicoding Indonesia"})
		require.NoError(t, err)
		assert.Regexp(t, `^user-[0-9a-f]{32}$`, id)

		user, err := f.identity.GetUserByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "dicoding", user.Username)
		assert.NotEqual(t, "secret", user.PasswordHash)

		_, err = f.identity.AddUser(ctx, models.NewUserFields{Username: "dicoding", Password: "other", Fullname: "Other"})
		assert.Equal(t, shared.KindInvariant, shared.KindOf(err))
	})

	t.Run("VerifyUserCredential", func(t *testing.T) {
		f := newFixture(t)
		id := f.user(t, "dicoding")

		got, err := f.identity.VerifyUserCredential(ctx, "dicoding", "secret")
		require.NoError(t, err)
		assert.Equal(t, id, got)

		_, err = f.identity.VerifyUserCredential(ctx, "dicoding", "wrong")
		assert.Equal(t, shared.KindAuthentication, shared.KindOf(err))

		_, err = f.identity.VerifyUserCredential(ctx, "nobody", "secret")
		assert.Equal(t, shared.KindAuthentication, shared.KindOf(err))
	})

	t.Run("GetUserByID NotFound", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.identity.GetUserByID(ctx, "user-missing")
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	})
}

func TestPlaylistService(t *testing.T) {
	ctx := context.Background()

	t.Run("VerifyPlaylistOwner", func(t *testing.T) {
		f := newFixture(t)
		alice := f.user(t, "alice")
		bob := f.user(t, "bob")
		playlistID := f.playlist(t, "Favorites", alice)

		assert.NoError(t, f.playlists.VerifyPlaylistOwner(ctx, playlistID, alice))

		err := f.playlists.VerifyPlaylistOwner(ctx, playlistID, bob)
		assert.Equal(t, shared.KindAuthorization, shared.KindOf(err))

		err = f.playlists.VerifyPlaylistOwner(ctx, "playlist-missing", alice)
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	})

	t.Run("Non Owner Cannot Delete", func(t *testing.T) {
		f := newFixture(t)
		alice := f.user(t, "alice")
		bob := f.user(t, "bob")
		playlistID := f.playlist(t, "Favorites", alice)

		err := f.playlists.VerifyPlaylistOwner(ctx, playlistID, bob)
		require.Equal(t, shared.KindAuthorization, shared.KindOf(err))

		playlists, err := f.playlists.GetPlaylists(ctx, alice)
		require.NoError(t, err)
		require.Len(t, playlists, 1)
		assert.Equal(t, playlistID, playlists[0].ID)
	})

	t.Run("GetPlaylists", func(t *testing.T) {
		f := newFixture(t)
		alice := f.user(t, "alice")
		bob := f.user(t, "bob")
		first := f.playlist(t, "First", alice)
		f.playlist(t, "Bob's", bob)
		second := f.playlist(t, "Second", alice)

		playlists, err := f.playlists.GetPlaylists(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, []models.PlaylistSummary{
			{ID: first, Name: "First", Username: "alice"},
			{ID: second, Name: "Second", Username: "alice"},
		}, playlists)
	})

	t.Run("AddPlaylistSong Unknown Song", func(t *testing.T) {
		f := newFixture(t)
		owner := f.user(t, "alice")
		playlistID := f.playlist(t, "Favorites", owner)

		err := f.playlists.AddPlaylistSong(ctx, playlistID, "song-missing")
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
		assert.Equal(t, 0, tu.MustCount(t, f.db, "playlist_songs", ""))
	})

	t.Run("AddPlaylistSong Once", func(t *testing.T) {
		f := newFixture(t)
		owner := f.user(t, "alice")
		playlistID := f.playlist(t, "Favorites", owner)
		songID := f.song(t, "Two of Us", nil)

		require.NoError(t, f.playlists.AddPlaylistSong(ctx, playlistID, songID))

		err := f.playlists.AddPlaylistSong(ctx, playlistID, songID)
		assert.Equal(t, shared.KindInvariant, shared.KindOf(err))

		playlist, err := f.playlists.GetPlaylistSongsByPlaylistID(ctx, playlistID)
		require.NoError(t, err)
		assert.Equal(t, playlistID, playlist.ID)
		assert.Equal(t, "alice", playlist.Username)
		require.Len(t, playlist.Songs, 1)
		assert.Equal(t, songID, playlist.Songs[0].ID)
	})

	t.Run("Empty Playlist Songs", func(t *testing.T) {
		f := newFixture(t)
		owner := f.user(t, "alice")
		playlistID := f.playlist(t, "Favorites", owner)

		playlist, err := f.playlists.GetPlaylistSongsByPlaylistID(ctx, playlistID)
		require.NoError(t, err)
		assert.Equal(t, "Favorites", playlist.Name)
		assert.NotNil(t, playlist.Songs)
		assert.Empty(t, playlist.Songs)

		_, err = f.playlists.GetPlaylistSongsByPlaylistID(ctx, "playlist-missing")
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	})

	t.Run("DeletePlaylistSongBySongID Is Scoped", func(t *testing.T) {
		f := newFixture(t)
		owner := f.user(t, "alice")
		p1 := f.playlist(t, "One", owner)
		p2 := f.playlist(t, "Two", owner)
		songID := f.song(t, "Two of Us", nil)

		require.NoError(t, f.playlists.AddPlaylistSong(ctx, p1, songID))
		require.NoError(t, f.playlists.AddPlaylistSong(ctx, p2, songID))

		require.NoError(t, f.playlists.DeletePlaylistSongBySongID(ctx, p1, songID))

		one, err := f.playlists.GetPlaylistSongsByPlaylistID(ctx, p1)
		require.NoError(t, err)
		assert.Empty(t, one.Songs)

		two, err := f.playlists.GetPlaylistSongsByPlaylistID(ctx, p2)
		require.NoError(t, err)
		require.Len(t, two.Songs, 1)
		assert.Equal(t, songID, two.Songs[0].ID)

		err = f.playlists.DeletePlaylistSongBySongID(ctx, p1, songID)
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))

		err = f.playlists.DeletePlaylistSongBySongID(ctx, p1, "song-missing")
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	})

	t.Run("ExportPlaylist", func(t *testing.T) {
		f := newFixture(t)
		owner := f.user(t, "alice")
		playlistID := f.playlist(t, "Favorites", owner)
		first := f.song(t, "Two of Us", nil)
		second := f.song(t, "Let It Be", nil)
		require.NoError(t, f.playlists.AddPlaylistSong(ctx, playlistID, first))
		require.NoError(t, f.playlists.AddPlaylistSong(ctx, playlistID, second))

		export, err := f.playlists.ExportPlaylist(ctx, playlistID)
		require.NoError(t, err)
		assert.Equal(t, "alice", export.Playlist.Username)
		require.Len(t, export.Songs, 2)
		assert.Equal(t, first, export.Songs[0].ID)
		assert.Equal(t, "Rock", export.Songs[0].Genre)
		assert.Equal(t, second, export.Songs[1].ID)
		assert.False(t, export.ExportedAt.IsZero())

		_, err = f.playlists.ExportPlaylist(ctx, "playlist-missing")
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	})

	t.Run("DeletePlaylistByID", func(t *testing.T) {
		f := newFixture(t)
		owner := f.user(t, "alice")
		playlistID := f.playlist(t, "Favorites", owner)
		songID := f.song(t, "Two of Us", nil)
		require.NoError(t, f.playlists.AddPlaylistSong(ctx, playlistID, songID))

		require.NoError(t, f.playlists.DeletePlaylistByID(ctx, playlistID))
		assert.Equal(t, 0, tu.MustCount(t, f.db, "playlist_songs", ""))

		err := f.playlists.VerifyPlaylistOwner(ctx, playlistID, owner)
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	})
}

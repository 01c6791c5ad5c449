package services

import (
	"context"
	"testing"
	"time"

	"github.com/fittrack/fittrack-back/internal/cache"
	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPlaylists struct {
	playlists []*models.Playlist
}

func (m *memoryPlaylists) Create(_ context.Context, userID int64, name string, workoutType string) (*models.Playlist, error) {
	p := &models.Playlist{ID: int64(len(m.playlists) + 1), UserID: userID, Name: name, WorkoutType: workoutType, Songs: []models.Song{}}
	m.playlists = append(m.playlists, p)
	return p, nil
}

func (m *memoryPlaylists) ListByUser(_ context.Context, userID int64) ([]models.Playlist, error) {
	out := make([]models.Playlist, 0)
	for _, p := range m.playlists {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memoryPlaylists) find(userID, playlistID int64) (*models.Playlist, error) {
	for _, p := range m.playlists {
		if p.ID == playlistID && p.UserID == userID {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryPlaylists) AddSong(_ context.Context, userID int64, playlistID int64, song models.Song) (*models.Playlist, error) {
	p, err := m.find(userID, playlistID)
	if err != nil {
		return nil, err
	}
	p.Songs = append(p.Songs, song)
	return p, nil
}

func (m *memoryPlaylists) RemoveSong(_ context.Context, userID int64, playlistID int64, songID string) (*models.Playlist, error) {
	p, err := m.find(userID, playlistID)
	if err != nil {
		return nil, err
	}
	kept := p.Songs[:0]
	for _, s := range p.Songs {
		if s.SongID != songID {
			kept = append(kept, s)
		}
	}
	p.Songs = kept
	return p, nil
}

func (m *memoryPlaylists) GetByWorkoutType(_ context.Context, userID int64, workoutType string) (*models.Playlist, error) {
	for _, p := range m.playlists {
		if p.UserID == userID && p.WorkoutType == workoutType {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

type countingSearcher struct {
	songs []models.SearchSong
	calls int
}

func (c *countingSearcher) Search(context.Context, string) ([]models.SearchSong, error) {
	c.calls++
	return c.songs, nil
}

func TestPlaylistLifecycle(t *testing.T) {
	store := &memoryPlaylists{}
	service := NewPlaylistService(store, &countingSearcher{}, nil, nil)
	ctx := context.Background()

	playlist, err := service.Create(ctx, 1, "Leg day", "")
	require.NoError(t, err)
	assert.Equal(t, models.PlaylistWorkoutCustom, playlist.WorkoutType)

	_, err = service.Create(ctx, 1, "Leg day", "dancing")
	assert.ErrorIs(t, err, ErrInvalidInput)

	playlist, err = service.AddSong(ctx, 1, playlist.ID, models.SearchSong{ID: "s1", Title: "One"})
	require.NoError(t, err)
	require.Len(t, playlist.Songs, 1)
	assert.Equal(t, "s1", playlist.Songs[0].SongID)

	_, err = service.AddSong(ctx, 2, playlist.ID, models.SearchSong{ID: "s2", Title: "Two"})
	assert.ErrorIs(t, err, ErrPlaylistNotFound)

	playlist, err = service.RemoveSong(ctx, 1, playlist.ID, "s1")
	require.NoError(t, err)
	assert.Empty(t, playlist.Songs)

	found, err := service.ByWorkoutType(ctx, 1, "custom")
	require.NoError(t, err)
	assert.Equal(t, playlist.ID, found.ID)

	_, err = service.ByWorkoutType(ctx, 1, "HIIT")
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
}

func TestSearchSongsCachesResults(t *testing.T) {
	songCache, mr := newMatchCache(t)
	searcher := &countingSearcher{songs: []models.SearchSong{{ID: "a1", Title: "Run Fast"}}}
	service := NewPlaylistService(&memoryPlaylists{}, searcher, songCache, nil)
	ctx := context.Background()

	first, err := service.SearchSongs(ctx, "Running ")
	require.NoError(t, err)
	second, err := service.SearchSongs(ctx, "running")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, searcher.calls)
	assert.Equal(t, cache.SongSearchTTL, mr.TTL(cache.KeyForSongSearch("running")))

	mr.FastForward(cache.SongSearchTTL + time.Second)
	_, err = service.SearchSongs(ctx, "running")
	require.NoError(t, err)
	assert.Equal(t, 2, searcher.calls)
}

func TestSearchSongsWithoutHits(t *testing.T) {
	service := NewPlaylistService(&memoryPlaylists{}, &countingSearcher{}, nil, nil)

	_, err := service.SearchSongs(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrNoSongsFound)

	_, err = service.SearchSongs(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

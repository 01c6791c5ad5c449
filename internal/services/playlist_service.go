package services

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/repository"
	"go.uber.org/zap"
)

type playlistStore interface {
	Create(ctx context.Context, userID int64, name string, workoutType string) (*models.Playlist, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Playlist, error)
	AddSong(ctx context.Context, userID int64, playlistID int64, song models.Song) (*models.Playlist, error)
	RemoveSong(ctx context.Context, userID int64, playlistID int64, songID string) (*models.Playlist, error)
	GetByWorkoutType(ctx context.Context, userID int64, workoutType string) (*models.Playlist, error)
}

type SongSearcher interface {
	Search(ctx context.Context, query string) ([]models.SearchSong, error)
}

type SongSearchCache interface {
	GetSongSearch(ctx context.Context, query string) ([]models.SearchSong, bool, error)
	SetSongSearch(ctx context.Context, query string, songs []models.SearchSong) error
}

type PlaylistService struct {
	playlists playlistStore
	songs     SongSearcher
	cache     SongSearchCache
	log       *zap.Logger
}

func NewPlaylistService(playlists playlistStore, songs SongSearcher, cache SongSearchCache, log *zap.Logger) *PlaylistService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlaylistService{
		playlists: playlists,
		songs:     songs,
		cache:     cache,
		log:       log.Named("playlists"),
	}
}

func (s *PlaylistService) Create(ctx context.Context, userID int64, name string, workoutType string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	workoutType = strings.ToUpper(strings.TrimSpace(workoutType))
	if workoutType == "" {
		workoutType = models.PlaylistWorkoutCustom
	}
	if name == "" || !slices.Contains(models.PlaylistWorkoutTypes, workoutType) {
		return nil, ErrInvalidInput
	}

	return s.playlists.Create(ctx, userID, name, workoutType)
}

func (s *PlaylistService) List(ctx context.Context, userID int64) ([]models.Playlist, error) {
	return s.playlists.ListByUser(ctx, userID)
}

func (s *PlaylistService) AddSong(ctx context.Context, userID int64, playlistID int64, song models.SearchSong) (*models.Playlist, error) {
	if playlistID <= 0 || strings.TrimSpace(song.ID) == "" || strings.TrimSpace(song.Title) == "" {
		return nil, ErrInvalidInput
	}
	return playlistResult(s.playlists.AddSong(ctx, userID, playlistID, song.ToSong()))
}

func (s *PlaylistService) RemoveSong(ctx context.Context, userID int64, playlistID int64, songID string) (*models.Playlist, error) {
	if playlistID <= 0 || songID == "" {
		return nil, ErrInvalidInput
	}
	return playlistResult(s.playlists.RemoveSong(ctx, userID, playlistID, songID))
}

func (s *PlaylistService) ByWorkoutType(ctx context.Context, userID int64, workoutType string) (*models.Playlist, error) {
	return playlistResult(s.playlists.GetByWorkoutType(ctx, userID, strings.ToUpper(strings.TrimSpace(workoutType))))
}

func (s *PlaylistService) SearchSongs(ctx context.Context, query string) ([]models.SearchSong, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidInput
	}

	if s.cache != nil {
		songs, ok, err := s.cache.GetSongSearch(ctx, query)
		if err != nil {
			s.log.Warn("song search cache read failed", zap.Error(err))
		} else if ok {
			return songs, nil
		}
	}

	songs, err := s.songs.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		return nil, ErrNoSongsFound
	}

	if s.cache != nil {
		if err := s.cache.SetSongSearch(ctx, query, songs); err != nil {
			s.log.Warn("song search cache write failed", zap.Error(err))
		}
	}
	return songs, nil
}

func playlistResult(playlist *models.Playlist, err error) (*models.Playlist, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPlaylistNotFound
	}
	return playlist, err
}

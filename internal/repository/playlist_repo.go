package repository

import (
	"context"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/jackc/pgx/v5"
)

type PlaylistRepository struct {
	db DBTX
}

func NewPlaylistRepository(db DBTX) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

const playlistColumns = `id, user_id, name, workout_type, songs, is_default, last_played, created_at, updated_at`

func (r *PlaylistRepository) Create(
	ctx context.Context,
	userID int64,
	name string,
	workoutType string,
) (*models.Playlist, error) {
	return scanPlaylist(r.db.QueryRow(ctx, `
		INSERT INTO playlists (user_id, name, workout_type, songs)
		VALUES ($1, $2, $3, '[]'::jsonb)
		RETURNING `+playlistColumns, userID, name, workoutType))
}

func (r *PlaylistRepository) ListByUser(ctx context.Context, userID int64) ([]models.Playlist, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+playlistColumns+`
		FROM playlists
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playlists := make([]models.Playlist, 0)
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return playlists, nil
}

func (r *PlaylistRepository) AddSong(
	ctx context.Context,
	userID int64,
	playlistID int64,
	song models.Song,
) (*models.Playlist, error) {
	return scanPlaylist(r.db.QueryRow(ctx, `
		UPDATE playlists
		SET songs = songs || $3::jsonb, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+playlistColumns, playlistID, userID, []models.Song{song}))
}

func (r *PlaylistRepository) RemoveSong(
	ctx context.Context,
	userID int64,
	playlistID int64,
	songID string,
) (*models.Playlist, error) {
	return scanPlaylist(r.db.QueryRow(ctx, `
		UPDATE playlists
		SET songs = COALESCE(
				(SELECT jsonb_agg(s) FROM jsonb_array_elements(songs) AS s WHERE s->>'songId' <> $3),
				'[]'::jsonb
			),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+playlistColumns, playlistID, userID, songID))
}

func (r *PlaylistRepository) GetByWorkoutType(
	ctx context.Context,
	userID int64,
	workoutType string,
) (*models.Playlist, error) {
	return scanPlaylist(r.db.QueryRow(ctx, `
		SELECT `+playlistColumns+`
		FROM playlists
		WHERE user_id = $1 AND workout_type = $2
		ORDER BY is_default DESC, updated_at DESC, id ASC
		LIMIT 1
	`, userID, workoutType))
}

func scanPlaylist(row pgx.Row) (*models.Playlist, error) {
	var playlist models.Playlist
	err := row.Scan(
		&playlist.ID,
		&playlist.UserID,
		&playlist.Name,
		&playlist.WorkoutType,
		&playlist.Songs,
		&playlist.IsDefault,
		&playlist.LastPlayed,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if playlist.Songs == nil {
		playlist.Songs = []models.Song{}
	}
	return &playlist, nil
}

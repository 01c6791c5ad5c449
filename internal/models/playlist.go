package models

import "time"

const PlaylistWorkoutCustom = "CUSTOM"

var PlaylistWorkoutTypes = []string{"HIIT", "CARDIO", "STRENGTH", "YOGA", "STRETCHING", PlaylistWorkoutCustom}

type Song struct {
	SongID     string `json:"songId"`
	Title      string `json:"title"`
	Artist     string `json:"artist,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	Duration   string `json:"duration,omitempty"`
	URL        string `json:"url,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

type Playlist struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	WorkoutType string    `json:"workoutType"`
	Songs       []Song    `json:"songs"`
	IsDefault   bool      `json:"isDefault"`
	LastPlayed  time.Time `json:"lastPlayed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SearchSong is a catalogue hit as returned by the song search proxy.
type SearchSong struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Thumbnail  string `json:"thumbnail"`
	Duration   string `json:"duration"`
	URL        string `json:"url"`
	PreviewURL string `json:"previewUrl"`
}

func (s SearchSong) ToSong() Song {
	return Song{
		SongID:     s.ID,
		Title:      s.Title,
		Artist:     s.Artist,
		Thumbnail:  s.Thumbnail,
		Duration:   s.Duration,
		URL:        s.URL,
		PreviewURL: s.PreviewURL,
	}
}

package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const primaryResponse = `{
  "data": {
    "results": [
      {
        "id": "a1",
        "name": "Run Fast",
        "primaryArtists": "The Sprinters",
        "duration": 215,
        "image": [
          {"quality": "50x50", "link": "https://img/50"},
          {"quality": "150x150", "link": "https://img/150"},
          {"quality": "500x500", "link": "https://img/500"}
        ],
        "downloadUrl": [
          {"quality": "96kbps", "link": "https://dl/96"},
          {"quality": "160kbps", "link": "https://dl/160"},
          {"quality": "320kbps", "link": "https://dl/320"}
        ],
        "previewUrl": "https://preview/a1"
      },
      {"id": "", "name": "Nameless"}
    ]
  }
}`

const backupResponse = `{
  "results": [
    {
      "id": "b1",
      "name": "Cool Down",
      "primaryArtists": "Slow Motion",
      "duration": "180",
      "image": "https://img/b1",
      "downloadUrl": "https://dl/b1"
    }
  ]
}`

func catalogueServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "running", r.URL.Query().Get("query"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSongSearchUsesPrimary(t *testing.T) {
	var primaryHits, backupHits int32
	primary := catalogueServer(t, http.StatusOK, primaryResponse, &primaryHits)
	backup := catalogueServer(t, http.StatusOK, backupResponse, &backupHits)

	songs, err := NewSongCatalogue(primary.URL, backup.URL, nil).Search(context.Background(), "running")
	require.NoError(t, err)
	require.Len(t, songs, 1)

	song := songs[0]
	assert.Equal(t, "a1", song.ID)
	assert.Equal(t, "Run Fast", song.Title)
	assert.Equal(t, "The Sprinters", song.Artist)
	assert.Equal(t, "215", song.Duration)
	assert.Equal(t, "https://img/500", song.Thumbnail)
	assert.Equal(t, "https://dl/320", song.URL)
	assert.Equal(t, "https://preview/a1", song.PreviewURL)
	assert.Equal(t, int32(0), atomic.LoadInt32(&backupHits))
}

func TestSongSearchFallsBackToBackup(t *testing.T) {
	var primaryHits, backupHits int32
	primary := catalogueServer(t, http.StatusBadGateway, `{"message":"down"}`, &primaryHits)
	backup := catalogueServer(t, http.StatusOK, backupResponse, &backupHits)

	songs, err := NewSongCatalogue(primary.URL, backup.URL, nil).Search(context.Background(), "running")
	require.NoError(t, err)
	require.Len(t, songs, 1)

	assert.Equal(t, "b1", songs[0].ID)
	assert.Equal(t, "https://img/b1", songs[0].Thumbnail)
	assert.Equal(t, "180", songs[0].Duration)
	assert.Equal(t, int32(1), atomic.LoadInt32(&primaryHits))
	assert.Equal(t, int32(1), atomic.LoadInt32(&backupHits))
}

func TestSongSearchWithNoHitsAnywhere(t *testing.T) {
	var hits int32
	empty := catalogueServer(t, http.StatusOK, `{"data":{"results":[]},"results":[]}`, &hits)

	songs, err := NewSongCatalogue(empty.URL, empty.URL, nil).Search(context.Background(), "running")
	require.NoError(t, err)
	assert.Empty(t, songs)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

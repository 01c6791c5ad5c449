package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const songSearchLimit = 10

// SongCatalogue queries the public song catalogue, falling back to the
// backup mirror when the primary fails or has no hits.
type SongCatalogue struct {
	primaryURL string
	backupURL  string
	httpClient *http.Client
	log        *zap.Logger
}

func NewSongCatalogue(primaryURL, backupURL string, log *zap.Logger) *SongCatalogue {
	if log == nil {
		log = zap.NewNop()
	}
	return &SongCatalogue{
		primaryURL: primaryURL,
		backupURL:  backupURL,
		httpClient: &http.Client{Timeout: 8 * time.Second},
		log:        log.Named("songs"),
	}
}

func (c *SongCatalogue) Search(ctx context.Context, query string) ([]models.SearchSong, error) {
	songs, err := c.searchPrimary(ctx, query)
	if err != nil {
		c.log.Warn("primary song search failed, trying backup", zap.Error(err))
	}
	if len(songs) > 0 {
		return songs, nil
	}

	songs, err = c.searchBackup(ctx, query)
	if err != nil {
		c.log.Warn("backup song search failed", zap.Error(err))
		return nil, nil
	}
	return songs, nil
}

func (c *SongCatalogue) searchPrimary(ctx context.Context, query string) ([]models.SearchSong, error) {
	if c.primaryURL == "" {
		return nil, nil
	}
	body, err := c.get(ctx, c.primaryURL, url.Values{
		"query": {query},
		"type":  {"song"},
		"limit": {fmt.Sprint(songSearchLimit)},
	})
	if err != nil {
		return nil, err
	}
	return decodeSongs(gjson.GetBytes(body, "data.results")), nil
}

func (c *SongCatalogue) searchBackup(ctx context.Context, query string) ([]models.SearchSong, error) {
	if c.backupURL == "" {
		return nil, nil
	}
	body, err := c.get(ctx, c.backupURL, url.Values{
		"query": {query},
		"limit": {fmt.Sprint(songSearchLimit)},
	})
	if err != nil {
		return nil, err
	}
	return decodeSongs(gjson.GetBytes(body, "results")), nil
}

func (c *SongCatalogue) get(ctx context.Context, base string, params url.Values) ([]byte, error) {
	endpoint, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse search url: %w", err)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("search songs: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body[:min(len(body), 256)])))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("search songs: invalid json")
	}
	return body, nil
}

// decodeSongs accepts both catalogue shapes: image and download links may be
// plain strings or arrays of {quality, link|url}.
func decodeSongs(results gjson.Result) []models.SearchSong {
	if !results.IsArray() {
		return nil
	}

	songs := make([]models.SearchSong, 0, len(results.Array()))
	for _, item := range results.Array() {
		song := models.SearchSong{
			ID:         item.Get("id").String(),
			Title:      firstString(item, "name", "title"),
			Artist:     firstString(item, "primaryArtists", "artist", "artists.primary.0.name"),
			Thumbnail:  firstString(item, "thumbnail"),
			Duration:   item.Get("duration").String(),
			URL:        firstString(item, "url"),
			PreviewURL: firstString(item, "previewUrl", "preview_url"),
		}
		if image := mediaLink(item.Get("image")); image != "" {
			song.Thumbnail = image
		}
		if download := mediaLink(item.Get("downloadUrl")); download != "" {
			song.URL = download
		}
		if song.ID == "" || song.Title == "" {
			continue
		}
		songs = append(songs, song)
	}
	return songs
}

func firstString(item gjson.Result, paths ...string) string {
	for _, path := range paths {
		if value := item.Get(path); value.Exists() && value.String() != "" {
			return value.String()
		}
	}
	return ""
}

// mediaLink prefers the third (high quality) variant, as the catalogue
// orders variants by ascending quality.
func mediaLink(value gjson.Result) string {
	if !value.IsArray() {
		return value.String()
	}
	variants := value.Array()
	if len(variants) == 0 {
		return ""
	}
	pick := variants[len(variants)-1]
	if len(variants) > 2 {
		pick = variants[2]
	}
	return firstString(pick, "link", "url")
}

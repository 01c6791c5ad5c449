package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/redis/go-redis/v9"
)

const SongSearchTTL = 10 * time.Minute

type RedisCache struct {
	Client *redis.Client
}

// Connect parses a redis:// URL and verifies the server is reachable.
func Connect(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	c := NewRedisCache(redis.NewClient(opts))
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = c.Client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return c, nil
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{Client: client}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

func (c *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.Client.Set(ctx, key, payload, ttl).Err()
}

// GetJSON decodes key into dest. It reports false on a cache miss.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	return c.Client.Del(ctx, keys...).Err()
}

const matchGenerationKey = "buddy:matches:gen"

// KeyForMatches scopes a cached match list to a generation. Bumping the
// generation orphans every list computed before it.
func KeyForMatches(generation, userID int64) string {
	return fmt.Sprintf("buddy:matches:%d:%d", generation, userID)
}

func KeyForSongSearch(query string) string {
	return "music:search:" + strings.ToLower(strings.TrimSpace(query))
}

// MatchGeneration reads the current match list generation. A missing counter is generation 0.
func (c *RedisCache) MatchGeneration(ctx context.Context) (int64, error) {
	gen, err := c.Client.Get(ctx, matchGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisCache) GetMatches(ctx context.Context, generation, userID int64) ([]models.BuddyMatch, bool, error) {
	var matches []models.BuddyMatch
	ok, err := c.GetJSON(ctx, KeyForMatches(generation, userID), &matches)
	if err != nil || !ok {
		return nil, false, err
	}
	return matches, true, nil
}

func (c *RedisCache) SetMatches(ctx context.Context, generation, userID int64, matches []models.BuddyMatch, ttl time.Duration) error {
	return c.SetJSON(ctx, KeyForMatches(generation, userID), matches, ttl)
}

// InvalidateMatches bumps the generation. Any preference change can add or
// remove a candidate from other users' lists, so all cached lists go stale.
func (c *RedisCache) InvalidateMatches(ctx context.Context) error {
	return c.Client.Incr(ctx, matchGenerationKey).Err()
}

func (c *RedisCache) GetSongSearch(ctx context.Context, query string) ([]models.SearchSong, bool, error) {
	var songs []models.SearchSong
	ok, err := c.GetJSON(ctx, KeyForSongSearch(query), &songs)
	if err != nil || !ok {
		return nil, false, err
	}
	return songs, true, nil
}

func (c *RedisCache) SetSongSearch(ctx context.Context, query string, songs []models.SearchSong) error {
	return c.SetJSON(ctx, KeyForSongSearch(query), songs, SongSearchTTL)
}

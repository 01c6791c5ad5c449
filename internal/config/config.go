package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	DBUrl                string
	JWTSecret            string
	AppEnv               string
	LogLevel             string
	CORSOrigins          string
	MongoURL             string
	MongoDatabase        string
	RedisURL             string
	MatchCacheTTL        time.Duration
	SupabaseURL          string
	SupabaseBucket       string
	SupabaseServiceKey   string
	SongSearchPrimaryURL string
	SongSearchBackupURL  string
	EnableDocs           bool
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	matchCacheTTL, err := getEnvDuration("MATCH_CACHE_TTL", 2*time.Minute)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		DBUrl:                getEnv("DB_URL", ""),
		JWTSecret:            jwtSecret,
		AppEnv:               normalizeEnv(getEnv("APP_ENV", "production")),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CORSOrigins:          getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
		MongoURL:             getEnv("MONGODB_URL", ""),
		MongoDatabase:        getEnv("MONGODB_DATABASE", "fittrack"),
		RedisURL:             getEnv("REDIS_URL", ""),
		MatchCacheTTL:        matchCacheTTL,
		SupabaseURL:          getEnv("SUPABASE_URL", ""),
		SupabaseBucket:       getEnv("SUPABASE_BUCKET", ""),
		SupabaseServiceKey:   getEnv("SUPABASE_SERVICE_KEY", ""),
		SongSearchPrimaryURL: getEnv("SONG_SEARCH_PRIMARY_URL", "https://saavn.dev/api/search"),
		SongSearchBackupURL:  getEnv("SONG_SEARCH_BACKUP_URL", "https://jiosaavn-api.vercel.app/search/songs"),
		EnableDocs:           getEnvBool("ENABLE_API_DOCS", false),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	return parsed, nil
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) DocsEnabled() bool {
	return c != nil && c.EnableDocs && c.AppEnv == "development"
}

func (c *Config) MongoEnabled() bool {
	return c != nil && c.MongoURL != ""
}

func (c *Config) StorageEnabled() bool {
	return c != nil && c.SupabaseURL != "" && c.SupabaseBucket != "" && c.SupabaseServiceKey != ""
}

func (c *Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return strings.Join(origins, ",")
}

package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/fittrack/fittrack-back/internal/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	envErr := godotenv.Load()

	log, err := logger.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()
	if envErr != nil {
		log.Info("no .env file found")
	}

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("DB_URL environment variable is required")
	}

	migrationsPath, err := findMigrationsDir()
	if err != nil {
		log.Fatal("migrations directory not found", zap.Error(err))
	}

	m, err := migrate.New("file://"+filepath.ToSlash(migrationsPath), dbURL)
	if err != nil {
		log.Fatal("open migrations", zap.Error(err))
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			log.Warn("close migrations", zap.Error(err))
		}
	}()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			log.Fatal("read version", zap.Error(verr))
		}
		log.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return
	default:
		log.Fatal("unknown command, expected up, down or version", zap.String("command", cmd))
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal("migration failed", zap.String("command", cmd), zap.Error(err))
	}
	log.Info("migration complete", zap.String("command", cmd), zap.String("path", migrationsPath))
}

// findMigrationsDir looks for migrations/ above the working directory and
// next to the binary.
func findMigrationsDir() (string, error) {
	var candidates []string

	if cwd, err := os.Getwd(); err == nil {
		current := cwd
		for i := 0; i < 6; i++ {
			candidates = append(candidates, filepath.Join(current, "migrations"))
			parent := filepath.Dir(current)
			if parent == current {
				break
			}
			current = parent
		}
	}
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		candidates = append(candidates,
			filepath.Join(exeDir, "migrations"),
			filepath.Join(exeDir, "..", "migrations"),
			filepath.Join(exeDir, "..", "..", "migrations"),
		)
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return filepath.Abs(candidate)
		}
	}
	return "", os.ErrNotExist
}

package repository

import (
	"context"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/jackc/pgx/v5"
)

type MoodEntryRepository struct {
	db DBTX
}

func NewMoodEntryRepository(db DBTX) *MoodEntryRepository {
	return &MoodEntryRepository{db: db}
}

const moodEntryColumns = `id::text, user_id, mood, motivation_level, workout_type, journal_entry, recorded_at, is_pre_workout, created_at`

func (r *MoodEntryRepository) Create(ctx context.Context, entry *models.MoodEntry) error {
	query := `
		INSERT INTO mood_entries (id, user_id, mood, motivation_level, workout_type, journal_entry, recorded_at, is_pre_workout)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	return r.db.QueryRow(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		entry.Mood,
		entry.MotivationLevel,
		entry.WorkoutType,
		entry.JournalEntry,
		entry.Timestamp,
		entry.IsPreWorkout,
	).Scan(&entry.CreatedAt)
}

// ListInRange returns entries recorded in [from, to], oldest first.
func (r *MoodEntryRepository) ListInRange(
	ctx context.Context,
	userID int64,
	from time.Time,
	to time.Time,
) ([]models.MoodEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+moodEntryColumns+`
		FROM mood_entries
		WHERE user_id = $1 AND recorded_at >= $2 AND recorded_at <= $3
		ORDER BY recorded_at ASC, created_at ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.MoodEntry, 0)
	for rows.Next() {
		entry, err := scanMoodEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *MoodEntryRepository) Latest(ctx context.Context, userID int64) (*models.MoodEntry, error) {
	return scanMoodEntry(r.db.QueryRow(ctx, `
		SELECT `+moodEntryColumns+`
		FROM mood_entries
		WHERE user_id = $1
		ORDER BY recorded_at DESC, created_at DESC
		LIMIT 1
	`, userID))
}

func scanMoodEntry(row pgx.Row) (*models.MoodEntry, error) {
	var entry models.MoodEntry
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Mood,
		&entry.MotivationLevel,
		&entry.WorkoutType,
		&entry.JournalEntry,
		&entry.Timestamp,
		&entry.IsPreWorkout,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

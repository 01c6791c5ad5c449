package repository

import (
	"context"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/jackc/pgx/v5"
)

type WorkoutMoodRepository struct {
	db DBTX
}

func NewWorkoutMoodRepository(db DBTX) *WorkoutMoodRepository {
	return &WorkoutMoodRepository{db: db}
}

const workoutMoodColumns = `
	r.id, r.user_id, r.workout_id, w.category,
	r.pre_mood, r.pre_level, r.pre_journal, r.pre_at,
	r.post_mood, r.post_level, r.post_journal, r.post_at,
	r.created_at, r.updated_at`

// UpsertPre creates the record for a workout or overwrites its pre-workout side.
func (r *WorkoutMoodRepository) UpsertPre(
	ctx context.Context,
	userID int64,
	workoutID int64,
	snapshot models.MoodSnapshot,
) (*models.WorkoutMoodRecord, error) {
	query := `
		WITH upserted AS (
			INSERT INTO workout_mood_records (user_id, workout_id, pre_mood, pre_level, pre_journal, pre_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, workout_id) DO UPDATE SET
				pre_mood = EXCLUDED.pre_mood,
				pre_level = EXCLUDED.pre_level,
				pre_journal = EXCLUDED.pre_journal,
				pre_at = EXCLUDED.pre_at,
				updated_at = NOW()
			RETURNING *
		)
		SELECT ` + workoutMoodColumns + `
		FROM upserted r
		JOIN workouts w ON w.id = r.workout_id
	`
	return scanWorkoutMood(r.db.QueryRow(
		ctx,
		query,
		userID,
		workoutID,
		snapshot.Mood,
		snapshot.MotivationLevel,
		snapshot.Journal,
		snapshot.Timestamp,
	))
}

// SetPost writes the post-workout side. Records without a pre-workout side
// are left untouched and reported as not found.
func (r *WorkoutMoodRepository) SetPost(
	ctx context.Context,
	userID int64,
	workoutID int64,
	snapshot models.MoodSnapshot,
) (*models.WorkoutMoodRecord, error) {
	query := `
		WITH updated AS (
			UPDATE workout_mood_records
			SET post_mood = $3, post_level = $4, post_journal = $5, post_at = $6, updated_at = NOW()
			WHERE user_id = $1 AND workout_id = $2 AND pre_mood IS NOT NULL
			RETURNING *
		)
		SELECT ` + workoutMoodColumns + `
		FROM updated r
		JOIN workouts w ON w.id = r.workout_id
	`
	return scanWorkoutMood(r.db.QueryRow(
		ctx,
		query,
		userID,
		workoutID,
		snapshot.Mood,
		snapshot.EnergyLevel,
		snapshot.Journal,
		snapshot.Timestamp,
	))
}

// ListCompletedSince returns records whose post-workout side was written at
// or after since, oldest first.
func (r *WorkoutMoodRepository) ListCompletedSince(
	ctx context.Context,
	userID int64,
	since time.Time,
) ([]models.WorkoutMoodRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+workoutMoodColumns+`
		FROM workout_mood_records r
		JOIN workouts w ON w.id = r.workout_id
		WHERE r.user_id = $1
		  AND r.pre_at IS NOT NULL
		  AND r.post_at IS NOT NULL
		  AND r.post_at >= $2
		ORDER BY r.post_at ASC, r.id ASC
	`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.WorkoutMoodRecord, 0)
	for rows.Next() {
		record, err := scanWorkoutMood(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func scanWorkoutMood(row pgx.Row) (*models.WorkoutMoodRecord, error) {
	var (
		record                        models.WorkoutMoodRecord
		preMood, preLevel, preJournal *string
		postMood, postLevel           *string
		postJournal                   *string
		preAt, postAt                 *time.Time
	)
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.WorkoutID,
		&record.WorkoutCategory,
		&preMood,
		&preLevel,
		&preJournal,
		&preAt,
		&postMood,
		&postLevel,
		&postJournal,
		&postAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	if preMood != nil && preAt != nil {
		record.PreWorkout = &models.MoodSnapshot{
			Mood:            *preMood,
			MotivationLevel: stringValue(preLevel),
			Journal:         preJournal,
			Timestamp:       *preAt,
		}
	}
	if postMood != nil && postAt != nil {
		record.PostWorkout = &models.MoodSnapshot{
			Mood:        *postMood,
			EnergyLevel: stringValue(postLevel),
			Journal:     postJournal,
			Timestamp:   *postAt,
		}
	}
	record.MoodImprovement = record.Improvement()

	return &record, nil
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

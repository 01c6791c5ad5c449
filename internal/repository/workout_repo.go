package repository

import (
	"context"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/jackc/pgx/v5"
)

type WorkoutRepository struct {
	db DBTX
}

func NewWorkoutRepository(db DBTX) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

const workoutColumns = `id, user_id, category, workout_name, sets, reps, weight, duration, calories_burned, performed_at, created_at`

func (r *WorkoutRepository) Create(ctx context.Context, workout *models.Workout) error {
	query := `
		INSERT INTO workouts (user_id, category, workout_name, sets, reps, weight, duration, calories_burned, performed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	return r.db.QueryRow(
		ctx,
		query,
		workout.UserID,
		workout.Category,
		workout.WorkoutName,
		workout.Sets,
		workout.Reps,
		workout.Weight,
		workout.Duration,
		workout.CaloriesBurned,
		workout.Date,
	).Scan(&workout.ID, &workout.CreatedAt)
}

func (r *WorkoutRepository) GetByIDForUser(ctx context.Context, userID int64, workoutID int64) (*models.Workout, error) {
	return scanWorkout(r.db.QueryRow(ctx, `
		SELECT `+workoutColumns+`
		FROM workouts
		WHERE id = $1 AND user_id = $2
	`, workoutID, userID))
}

// ListBetween returns workouts performed in [from, to), oldest first.
func (r *WorkoutRepository) ListBetween(
	ctx context.Context,
	userID int64,
	from time.Time,
	to time.Time,
) ([]models.Workout, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+workoutColumns+`
		FROM workouts
		WHERE user_id = $1 AND performed_at >= $2 AND performed_at < $3
		ORDER BY performed_at ASC, id ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]models.Workout, 0)
	for rows.Next() {
		workout, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *workout)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workouts, nil
}

// CaloriesByCategory sums calories per category for workouts in [from, to).
func (r *WorkoutRepository) CaloriesByCategory(
	ctx context.Context,
	userID int64,
	from time.Time,
	to time.Time,
) ([]models.PieSlice, error) {
	rows, err := r.db.Query(ctx, `
		SELECT category, COALESCE(SUM(calories_burned), 0)
		FROM workouts
		WHERE user_id = $1 AND performed_at >= $2 AND performed_at < $3
		GROUP BY category
		ORDER BY MIN(performed_at) ASC, category ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slices := make([]models.PieSlice, 0)
	for rows.Next() {
		var slice models.PieSlice
		if err := rows.Scan(&slice.Label, &slice.Value); err != nil {
			return nil, err
		}
		if slice.Label == "" {
			slice.Label = "Uncategorized"
		}
		slice.ID = len(slices)
		slices = append(slices, slice)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slices, nil
}

func scanWorkout(row pgx.Row) (*models.Workout, error) {
	var workout models.Workout
	err := row.Scan(
		&workout.ID,
		&workout.UserID,
		&workout.Category,
		&workout.WorkoutName,
		&workout.Sets,
		&workout.Reps,
		&workout.Weight,
		&workout.Duration,
		&workout.CaloriesBurned,
		&workout.Date,
		&workout.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &workout, nil
}

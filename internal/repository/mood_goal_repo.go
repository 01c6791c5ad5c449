package repository

import (
	"context"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/jackc/pgx/v5"
)

type MoodGoalRepository struct {
	db DBTX
}

func NewMoodGoalRepository(db DBTX) *MoodGoalRepository {
	return &MoodGoalRepository{db: db}
}

const moodGoalColumns = `id, user_id, goal_type, target, start_date, end_date, achieved, created_at`

func (r *MoodGoalRepository) Create(ctx context.Context, goal *models.MoodGoal) error {
	query := `
		INSERT INTO mood_goals (user_id, goal_type, target, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, achieved, created_at
	`
	return r.db.QueryRow(ctx, query, goal.UserID, goal.Type, goal.Target, goal.StartDate, goal.EndDate).
		Scan(&goal.ID, &goal.Achieved, &goal.CreatedAt)
}

func (r *MoodGoalRepository) ListByUser(ctx context.Context, userID int64) ([]models.MoodGoal, error) {
	return r.list(ctx, `
		SELECT `+moodGoalColumns+`
		FROM mood_goals
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, userID)
}

func (r *MoodGoalRepository) MarkAchieved(ctx context.Context, userID int64, goalID int64) (*models.MoodGoal, error) {
	return scanMoodGoal(r.db.QueryRow(ctx, `
		UPDATE mood_goals
		SET achieved = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING `+moodGoalColumns, goalID, userID))
}

func (r *MoodGoalRepository) list(ctx context.Context, query string, args ...any) ([]models.MoodGoal, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]models.MoodGoal, 0)
	for rows.Next() {
		goal, err := scanMoodGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return goals, nil
}

func scanMoodGoal(row pgx.Row) (*models.MoodGoal, error) {
	var goal models.MoodGoal
	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Type,
		&goal.Target,
		&goal.StartDate,
		&goal.EndDate,
		&goal.Achieved,
		&goal.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &goal, nil
}

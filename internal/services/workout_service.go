package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/repository"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const dashboardDays = 7

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type workoutReader interface {
	GetByIDForUser(ctx context.Context, userID int64, workoutID int64) (*models.Workout, error)
	ListBetween(ctx context.Context, userID int64, from time.Time, to time.Time) ([]models.Workout, error)
	CaloriesByCategory(ctx context.Context, userID int64, from time.Time, to time.Time) ([]models.PieSlice, error)
}

type WorkoutService struct {
	db       txBeginner
	workouts workoutReader
	now      func() time.Time
	log      *zap.Logger
}

func NewWorkoutService(db txBeginner, workouts workoutReader, log *zap.Logger) *WorkoutService {
	if log == nil {
		log = zap.NewNop()
	}
	return &WorkoutService{
		db:       db,
		workouts: workouts,
		now:      time.Now,
		log:      log.Named("workouts"),
	}
}

// AddWorkouts parses the bulk string and stores every workout in one
// transaction. Nothing is stored when a block fails to parse.
func (s *WorkoutService) AddWorkouts(ctx context.Context, userID int64, input string) ([]models.Workout, error) {
	workouts, err := ParseWorkoutString(input)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	repo := repository.NewWorkoutRepository(tx)
	performedAt := s.now()
	for i := range workouts {
		workouts[i].UserID = userID
		workouts[i].Date = performedAt
		if err := repo.Create(ctx, &workouts[i]); err != nil {
			return nil, fmt.Errorf("store workout %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.log.Debug("workouts added", zap.Int64("user_id", userID), zap.Int("count", len(workouts)))
	return workouts, nil
}

func (s *WorkoutService) GetWorkout(ctx context.Context, userID int64, workoutID int64) (*models.Workout, error) {
	workout, err := s.workouts.GetByIDForUser(ctx, userID, workoutID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrWorkoutNotFound
	}
	return workout, err
}

func (s *WorkoutService) WorkoutsByDate(ctx context.Context, userID int64, day time.Time) (*models.DailyWorkouts, error) {
	from := startOfDay(day)
	workouts, err := s.workouts.ListBetween(ctx, userID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return &models.DailyWorkouts{
		TodaysWorkouts:     workouts,
		TotalCaloriesBurnt: sumCalories(workouts),
	}, nil
}

func (s *WorkoutService) Dashboard(ctx context.Context, userID int64) (*models.Dashboard, error) {
	today := startOfDay(s.now())
	tomorrow := today.AddDate(0, 0, 1)
	weekStart := today.AddDate(0, 0, -(dashboardDays - 1))

	recent, err := s.workouts.ListBetween(ctx, userID, weekStart, tomorrow)
	if err != nil {
		return nil, err
	}
	pie, err := s.workouts.CaloriesByCategory(ctx, userID, today, tomorrow)
	if err != nil {
		return nil, err
	}

	dashboard := &models.Dashboard{
		PieChartData: pie,
		TotalWeeksCaloriesBurnt: models.WeeklyCalories{
			Weeks:          make([]string, dashboardDays),
			CaloriesBurned: make([]float64, dashboardDays),
		},
	}
	for i := 0; i < dashboardDays; i++ {
		dashboard.TotalWeeksCaloriesBurnt.Weeks[i] = fmt.Sprintf("%dth", weekStart.AddDate(0, 0, i).Day())
	}

	for _, w := range recent {
		day := startOfDay(w.Date.In(today.Location()))
		index := daysBetween(weekStart, day)
		if index < 0 || index >= dashboardDays {
			continue
		}
		dashboard.TotalWeeksCaloriesBurnt.CaloriesBurned[index] += w.CaloriesBurned
		if index == dashboardDays-1 {
			dashboard.TotalWorkouts++
			dashboard.TotalCaloriesBurnt += w.CaloriesBurned
		}
	}

	if dashboard.TotalWorkouts > 0 {
		dashboard.AvgCaloriesBurntPerWorkout = dashboard.TotalCaloriesBurnt / float64(dashboard.TotalWorkouts)
	}
	return dashboard, nil
}

func sumCalories(workouts []models.Workout) float64 {
	total := 0.0
	for _, w := range workouts {
		total += w.CaloriesBurned
	}
	return total
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days, so DST shifts do not skew the index.
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MoodEntryStore interface {
	Create(ctx context.Context, entry *models.MoodEntry) error
	ListInRange(ctx context.Context, userID int64, from time.Time, to time.Time) ([]models.MoodEntry, error)
	Latest(ctx context.Context, userID int64) (*models.MoodEntry, error)
}

type workoutMoodStore interface {
	UpsertPre(ctx context.Context, userID int64, workoutID int64, snapshot models.MoodSnapshot) (*models.WorkoutMoodRecord, error)
	SetPost(ctx context.Context, userID int64, workoutID int64, snapshot models.MoodSnapshot) (*models.WorkoutMoodRecord, error)
	ListCompletedSince(ctx context.Context, userID int64, since time.Time) ([]models.WorkoutMoodRecord, error)
}

type moodGoalStore interface {
	Create(ctx context.Context, goal *models.MoodGoal) error
	ListByUser(ctx context.Context, userID int64) ([]models.MoodGoal, error)
	MarkAchieved(ctx context.Context, userID int64, goalID int64) (*models.MoodGoal, error)
}

type workoutLookup interface {
	GetByIDForUser(ctx context.Context, userID int64, workoutID int64) (*models.Workout, error)
}

type EmotionalStateService struct {
	entries  MoodEntryStore
	records  workoutMoodStore
	goals    moodGoalStore
	workouts workoutLookup
	now      func() time.Time
	loc      *time.Location
	log      *zap.Logger
}

func NewEmotionalStateService(
	entries MoodEntryStore,
	records workoutMoodStore,
	goals moodGoalStore,
	workouts workoutLookup,
	log *zap.Logger,
) *EmotionalStateService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EmotionalStateService{
		entries:  entries,
		records:  records,
		goals:    goals,
		workouts: workouts,
		now:      time.Now,
		loc:      time.Local,
		log:      log.Named("emotional_state"),
	}
}

type MoodEntryInput struct {
	Mood            string
	MotivationLevel string
	WorkoutType     string
	JournalEntry    *string
	IsPreWorkout    bool
}

func (s *EmotionalStateService) CreateEntry(ctx context.Context, userID int64, input MoodEntryInput) (*models.MoodEntry, error) {
	if models.MoodValue(input.Mood) == 0 || strings.TrimSpace(input.WorkoutType) == "" {
		return nil, ErrInvalidInput
	}

	entry := &models.MoodEntry{
		ID:              uuid.NewString(),
		UserID:          userID,
		Mood:            input.Mood,
		MotivationLevel: input.MotivationLevel,
		WorkoutType:     strings.TrimSpace(input.WorkoutType),
		JournalEntry:    input.JournalEntry,
		Timestamp:       s.now(),
		IsPreWorkout:    input.IsPreWorkout,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *EmotionalStateService) GetTrends(ctx context.Context, userID int64, timeRange string) (*models.MoodTrends, error) {
	now := s.now().In(s.loc)
	entries, err := s.entries.ListInRange(ctx, userID, TimeRangeStart(timeRange, now), EndOfDay(now))
	if err != nil {
		return nil, err
	}

	trends := AggregateMoodTrends(entries, s.loc)
	return &trends, nil
}

func (s *EmotionalStateService) Latest(ctx context.Context, userID int64) (*models.MoodEntry, error) {
	entry, err := s.entries.Latest(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoMoodEntries
	}
	return entry, err
}

func (s *EmotionalStateService) RecordPreWorkout(
	ctx context.Context,
	userID int64,
	workoutID int64,
	snapshot models.MoodSnapshot,
) (*models.WorkoutMoodRecord, error) {
	if models.MoodValue(snapshot.Mood) == 0 {
		return nil, ErrInvalidInput
	}
	if _, err := s.workouts.GetByIDForUser(ctx, userID, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	snapshot.EnergyLevel = ""
	snapshot.Timestamp = s.now()
	return s.records.UpsertPre(ctx, userID, workoutID, snapshot)
}

func (s *EmotionalStateService) RecordPostWorkout(
	ctx context.Context,
	userID int64,
	workoutID int64,
	snapshot models.MoodSnapshot,
) (*models.WorkoutMoodRecord, error) {
	if models.MoodValue(snapshot.Mood) == 0 {
		return nil, ErrInvalidInput
	}

	snapshot.MotivationLevel = ""
	snapshot.Timestamp = s.now()
	record, err := s.records.SetPost(ctx, userID, workoutID, snapshot)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPreWorkoutMissing
	}
	if err != nil {
		return nil, err
	}

	s.log.Debug("post-workout mood recorded",
		zap.Int64("user_id", userID),
		zap.Int64("workout_id", workoutID),
		zap.Float64("improvement", record.MoodImprovement),
	)
	return record, nil
}

func (s *EmotionalStateService) WorkoutTrends(ctx context.Context, userID int64, timeframe string) (*models.WorkoutTrendReport, error) {
	records, err := s.records.ListCompletedSince(ctx, userID, RollingWindowStart(timeframe, s.now()))
	if err != nil {
		return nil, err
	}

	report := BuildWorkoutTrendReport(records, s.loc)
	return &report, nil
}

type MoodGoalInput struct {
	Type    string
	Target  float64
	EndDate time.Time
}

// SetGoal stores a goal starting now and returns all of the user's goals.
func (s *EmotionalStateService) SetGoal(ctx context.Context, userID int64, input MoodGoalInput) ([]models.MoodGoal, error) {
	now := s.now()
	if !slices.Contains(models.MoodGoalTypes, input.Type) || input.Target <= 0 || !input.EndDate.After(now) {
		return nil, ErrInvalidInput
	}

	goal := &models.MoodGoal{
		UserID:    userID,
		Type:      input.Type,
		Target:    input.Target,
		StartDate: now,
		EndDate:   input.EndDate,
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}

	return s.goals.ListByUser(ctx, userID)
}

func (s *EmotionalStateService) GoalsProgress(ctx context.Context, userID int64) ([]models.MoodGoalProgress, error) {
	goals, err := s.goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, ErrNoMoodGoals
	}

	now := s.now()
	active := make([]models.MoodGoal, 0, len(goals))
	earliest := now
	for _, goal := range goals {
		if !goal.IsActive(now) {
			continue
		}
		active = append(active, goal)
		if goal.StartDate.Before(earliest) {
			earliest = goal.StartDate
		}
	}

	progress := make([]models.MoodGoalProgress, 0, len(active))
	if len(active) == 0 {
		return progress, nil
	}

	records, err := s.records.ListCompletedSince(ctx, userID, earliest)
	if err != nil {
		return nil, err
	}
	for _, goal := range active {
		progress = append(progress, models.MoodGoalProgress{
			MoodGoal:        goal,
			CurrentProgress: goalProgress(goal, records, now),
		})
	}
	return progress, nil
}

func (s *EmotionalStateService) AchieveGoal(ctx context.Context, userID int64, goalID int64) (*models.MoodGoal, error) {
	goal, err := s.goals.MarkAchieved(ctx, userID, goalID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrGoalNotFound
	}
	return goal, err
}

package handlers

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/services"
	"github.com/gofiber/fiber/v2"
)

type emotionalStateService interface {
	CreateEntry(ctx context.Context, userID int64, input services.MoodEntryInput) (*models.MoodEntry, error)
	GetTrends(ctx context.Context, userID int64, timeRange string) (*models.MoodTrends, error)
	Latest(ctx context.Context, userID int64) (*models.MoodEntry, error)
	RecordPreWorkout(ctx context.Context, userID int64, workoutID int64, snapshot models.MoodSnapshot) (*models.WorkoutMoodRecord, error)
	RecordPostWorkout(ctx context.Context, userID int64, workoutID int64, snapshot models.MoodSnapshot) (*models.WorkoutMoodRecord, error)
	WorkoutTrends(ctx context.Context, userID int64, timeframe string) (*models.WorkoutTrendReport, error)
	SetGoal(ctx context.Context, userID int64, input services.MoodGoalInput) ([]models.MoodGoal, error)
	GoalsProgress(ctx context.Context, userID int64) ([]models.MoodGoalProgress, error)
	AchieveGoal(ctx context.Context, userID int64, goalID int64) (*models.MoodGoal, error)
}

type EmotionalStateHandler struct {
	service emotionalStateService
}

func NewEmotionalStateHandler(service emotionalStateService) *EmotionalStateHandler {
	return &EmotionalStateHandler{service: service}
}

type moodEntryRequest struct {
	Mood            string  `json:"mood"`
	MotivationLevel string  `json:"motivationLevel"`
	WorkoutType     string  `json:"workoutType"`
	JournalEntry    *string `json:"journalEntry"`
	IsPreWorkout    *bool   `json:"isPreWorkout"`
}

type workoutMoodRequest struct {
	WorkoutID       int64   `json:"workoutId"`
	Mood            string  `json:"mood"`
	MotivationLevel string  `json:"motivationLevel"`
	EnergyLevel     string  `json:"energyLevel"`
	Journal         *string `json:"journal"`
}

type moodGoalRequest struct {
	Type    string  `json:"type"`
	Target  float64 `json:"target"`
	EndDate string  `json:"endDate"`
}

func validLevel(level string) bool {
	return level == "" || slices.Contains(models.LevelOptions, level)
}

// parseGoalDate accepts RFC 3339 timestamps and plain dates.
func parseGoalDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.DateOnly, raw); err == nil {
		return parsed.Add(24*time.Hour - time.Nanosecond), true
	}
	return time.Time{}, false
}

func (h *EmotionalStateHandler) CreateEntry(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req moodEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !slices.Contains(models.MoodOptions, req.Mood) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mood must be happy, satisfied, neutral or sad"})
	}
	if req.MotivationLevel == "" || !validLevel(req.MotivationLevel) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "motivationLevel must be low, medium or high"})
	}
	if strings.TrimSpace(req.WorkoutType) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "workoutType is required"})
	}

	isPre := true
	if req.IsPreWorkout != nil {
		isPre = *req.IsPreWorkout
	}

	entry, err := h.service.CreateEntry(c.Context(), userID, services.MoodEntryInput{
		Mood:            req.Mood,
		MotivationLevel: req.MotivationLevel,
		WorkoutType:     req.WorkoutType,
		JournalEntry:    req.JournalEntry,
		IsPreWorkout:    isPre,
	})
	if err != nil {
		return mapEmotionalStateError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *EmotionalStateHandler) Trends(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	trends, err := h.service.GetTrends(c.Context(), userID, c.Query("timeRange", "month"))
	if err != nil {
		return mapEmotionalStateError(c, err)
	}

	return c.JSON(trends)
}

func (h *EmotionalStateHandler) Latest(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	entry, err := h.service.Latest(c.Context(), userID)
	if err != nil {
		return mapEmotionalStateError(c, err)
	}

	return c.JSON(entry)
}

func (h *EmotionalStateHandler) PreWorkout(c *fiber.Ctx) error {
	return h.recordWorkoutMood(c, true)
}

func (h *EmotionalStateHandler) PostWorkout(c *fiber.Ctx) error {
	return h.recordWorkoutMood(c, false)
}

func (h *EmotionalStateHandler) recordWorkoutMood(c *fiber.Ctx, pre bool) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req workoutMoodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.WorkoutID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "workoutId is required"})
	}
	if !slices.Contains(models.MoodOptions, req.Mood) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mood must be happy, satisfied, neutral or sad"})
	}
	if !validLevel(req.MotivationLevel) || !validLevel(req.EnergyLevel) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "levels must be low, medium or high"})
	}

	snapshot := models.MoodSnapshot{
		Mood:            req.Mood,
		MotivationLevel: req.MotivationLevel,
		EnergyLevel:     req.EnergyLevel,
		Journal:         req.Journal,
	}

	var record *models.WorkoutMoodRecord
	if pre {
		record, err = h.service.RecordPreWorkout(c.Context(), userID, req.WorkoutID, snapshot)
	} else {
		record, err = h.service.RecordPostWorkout(c.Context(), userID, req.WorkoutID, snapshot)
	}
	if err != nil {
		return mapEmotionalStateError(c, err)
	}

	return c.JSON(record)
}

func (h *EmotionalStateHandler) WorkoutTrends(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	report, err := h.service.WorkoutTrends(c.Context(), userID, c.Query("timeframe", "month"))
	if err != nil {
		return mapEmotionalStateError(c, err)
	}

	return c.JSON(report)
}

func (h *EmotionalStateHandler) SetGoal(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req moodGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	endDate, ok := parseGoalDate(req.EndDate)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "endDate must be a date"})
	}

	goals, err := h.service.SetGoal(c.Context(), userID, services.MoodGoalInput{
		Type:    req.Type,
		Target:  req.Target,
		EndDate: endDate,
	})
	if err != nil {
		return mapEmotionalStateError(c, err)
	}

	return c.JSON(goals)
}

func (h *EmotionalStateHandler) GoalsProgress(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	progress, err := h.service.GoalsProgress(c.Context(), userID)
	if err != nil {
		return mapEmotionalStateError(c, err)
	}

	return c.JSON(progress)
}

func (h *EmotionalStateHandler) AchieveGoal(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid goal id"})
	}

	goal, err := h.service.AchieveGoal(c.Context(), userID, goalID)
	if err != nil {
		return mapEmotionalStateError(c, err)
	}

	return c.JSON(goal)
}

func mapEmotionalStateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrPreWorkoutMissing),
		errors.Is(err, services.ErrWorkoutNotFound),
		errors.Is(err, services.ErrNoMoodEntries),
		errors.Is(err, services.ErrNoMoodGoals),
		errors.Is(err, services.ErrGoalNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": capitalize(err.Error())})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process emotional state request"})
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/services"
	"github.com/gofiber/fiber/v2"
)

type workoutService interface {
	AddWorkouts(ctx context.Context, userID int64, input string) ([]models.Workout, error)
	GetWorkout(ctx context.Context, userID int64, workoutID int64) (*models.Workout, error)
	WorkoutsByDate(ctx context.Context, userID int64, day time.Time) (*models.DailyWorkouts, error)
	Dashboard(ctx context.Context, userID int64) (*models.Dashboard, error)
}

type WorkoutHandler struct {
	service workoutService
	now     func() time.Time
}

func NewWorkoutHandler(service workoutService) *WorkoutHandler {
	return &WorkoutHandler{service: service, now: time.Now}
}

type addWorkoutsRequest struct {
	WorkoutString string `json:"workoutString"`
}

func (h *WorkoutHandler) AddWorkouts(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req addWorkoutsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	workouts, err := h.service.AddWorkouts(c.Context(), userID, req.WorkoutString)
	if err != nil {
		var formatErr *services.WorkoutFormatError
		if errors.As(err, &formatErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatErr.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add workouts"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Workouts added successfully",
		"workouts": workouts,
	})
}

func (h *WorkoutHandler) ListByDate(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	day := h.now()
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, raw, day.Location())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
		}
		day = parsed
	}

	daily, err := h.service.WorkoutsByDate(c.Context(), userID, day)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch workouts"})
	}

	return c.JSON(daily)
}

func (h *WorkoutHandler) GetWorkout(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	workoutID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid workout id"})
	}

	workout, err := h.service.GetWorkout(c.Context(), userID, workoutID)
	if err != nil {
		if errors.Is(err, services.ErrWorkoutNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Workout not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch workout"})
	}

	return c.JSON(workout)
}

func (h *WorkoutHandler) Dashboard(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	dashboard, err := h.service.Dashboard(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build dashboard"})
	}

	return c.JSON(dashboard)
}

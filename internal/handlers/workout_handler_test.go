package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/services"
)

type stubWorkoutService struct {
	lastInput string
	lastDay   time.Time
	workout   *models.Workout
	err       error
}

func (s *stubWorkoutService) AddWorkouts(_ context.Context, _ int64, input string) ([]models.Workout, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return services.ParseWorkoutString(input)
}

func (s *stubWorkoutService) GetWorkout(_ context.Context, _ int64, _ int64) (*models.Workout, error) {
	return s.workout, s.err
}

func (s *stubWorkoutService) WorkoutsByDate(_ context.Context, _ int64, day time.Time) (*models.DailyWorkouts, error) {
	s.lastDay = day
	return &models.DailyWorkouts{TodaysWorkouts: []models.Workout{}}, s.err
}

func (s *stubWorkoutService) Dashboard(_ context.Context, _ int64) (*models.Dashboard, error) {
	return &models.Dashboard{TotalWorkouts: 2}, s.err
}

func TestAddWorkoutsReturnsCreated(t *testing.T) {
	service := &stubWorkoutService{}
	handler := NewWorkoutHandler(service)
	app := newAuthedApp("1")
	app.Post("/api/workouts", handler.AddWorkouts)

	resp := performRequest(t, app, http.MethodPost, "/api/workouts",
		`{"workoutString":"#Legs\n-Back Squat\n-5 setsX15 reps\n-30 kg\n-10 min"}`)
	expectStatus(t, resp, http.StatusCreated)

	var body struct {
		Message  string           `json:"message"`
		Workouts []models.Workout `json:"workouts"`
	}
	decodeBody(t, resp, &body)
	if body.Message == "" || len(body.Workouts) != 1 || body.Workouts[0].CaloriesBurned != 1500 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAddWorkoutsReportsFormatErrors(t *testing.T) {
	handler := NewWorkoutHandler(&stubWorkoutService{})
	app := newAuthedApp("1")
	app.Post("/api/workouts", handler.AddWorkouts)

	resp := performRequest(t, app, http.MethodPost, "/api/workouts", `{"workoutString":"#Legs\n-Squat"}`)
	expectStatus(t, resp, http.StatusBadRequest)

	var body map[string]string
	decodeBody(t, resp, &body)
	if body["error"] == "" {
		t.Fatalf("expected an error message")
	}
}

func TestListByDateParsesDate(t *testing.T) {
	service := &stubWorkoutService{}
	handler := NewWorkoutHandler(service)
	handler.now = func() time.Time { return time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC) }
	app := newAuthedApp("1")
	app.Get("/api/workouts", handler.ListByDate)

	resp := performRequest(t, app, http.MethodGet, "/api/workouts?date=2024-02-29", "")
	expectStatus(t, resp, http.StatusOK)
	if want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC); !service.lastDay.Equal(want) {
		t.Fatalf("expected %s, got %s", want, service.lastDay)
	}

	resp = performRequest(t, app, http.MethodGet, "/api/workouts", "")
	expectStatus(t, resp, http.StatusOK)
	if service.lastDay.Day() != 6 {
		t.Fatalf("expected today by default, got %s", service.lastDay)
	}

	resp = performRequest(t, app, http.MethodGet, "/api/workouts?date=29/02/2024", "")
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestGetWorkoutReturnsNotFound(t *testing.T) {
	handler := NewWorkoutHandler(&stubWorkoutService{err: services.ErrWorkoutNotFound})
	app := newAuthedApp("1")
	app.Get("/api/workouts/:id", handler.GetWorkout)

	resp := performRequest(t, app, http.MethodGet, "/api/workouts/4", "")
	expectStatus(t, resp, http.StatusNotFound)
}

func TestDashboardReturnsAggregate(t *testing.T) {
	handler := NewWorkoutHandler(&stubWorkoutService{})
	app := newAuthedApp("1")
	app.Get("/api/workouts/dashboard", handler.Dashboard)

	resp := performRequest(t, app, http.MethodGet, "/api/workouts/dashboard", "")
	expectStatus(t, resp, http.StatusOK)

	var body models.Dashboard
	decodeBody(t, resp, &body)
	if body.TotalWorkouts != 2 {
		t.Fatalf("unexpected dashboard: %+v", body)
	}
}

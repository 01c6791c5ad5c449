package handlers

import (
	"context"
	"errors"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/services"
	"github.com/gofiber/fiber/v2"
)

type playlistService interface {
	Create(ctx context.Context, userID int64, name string, workoutType string) (*models.Playlist, error)
	List(ctx context.Context, userID int64) ([]models.Playlist, error)
	AddSong(ctx context.Context, userID int64, playlistID int64, song models.SearchSong) (*models.Playlist, error)
	RemoveSong(ctx context.Context, userID int64, playlistID int64, songID string) (*models.Playlist, error)
	ByWorkoutType(ctx context.Context, userID int64, workoutType string) (*models.Playlist, error)
	SearchSongs(ctx context.Context, query string) ([]models.SearchSong, error)
}

type PlaylistHandler struct {
	service playlistService
}

func NewPlaylistHandler(service playlistService) *PlaylistHandler {
	return &PlaylistHandler{service: service}
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	WorkoutType string `json:"workoutType"`
}

type addSongRequest struct {
	PlaylistID int64             `json:"playlistId"`
	Song       models.SearchSong `json:"song"`
}

func (h *PlaylistHandler) Search(c *fiber.Ctx) error {
	songs, err := h.service.SearchSongs(c.Context(), c.Query("query"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Search query is required"})
		case errors.Is(err, services.ErrNoSongsFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No songs found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to search songs"})
		}
	}

	return c.JSON(songs)
}

func (h *PlaylistHandler) Create(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req createPlaylistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	playlist, err := h.service.Create(c.Context(), userID, req.Name, req.WorkoutType)
	if err != nil {
		return mapPlaylistError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(playlist)
}

func (h *PlaylistHandler) List(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	playlists, err := h.service.List(c.Context(), userID)
	if err != nil {
		return mapPlaylistError(c, err)
	}

	return c.JSON(playlists)
}

func (h *PlaylistHandler) AddSong(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req addSongRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	playlist, err := h.service.AddSong(c.Context(), userID, req.PlaylistID, req.Song)
	if err != nil {
		return mapPlaylistError(c, err)
	}

	return c.JSON(playlist)
}

func (h *PlaylistHandler) RemoveSong(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	playlistID, ok := parseIDParam(c, "playlistId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid playlist id"})
	}

	playlist, err := h.service.RemoveSong(c.Context(), userID, playlistID, c.Params("songId"))
	if err != nil {
		return mapPlaylistError(c, err)
	}

	return c.JSON(playlist)
}

func (h *PlaylistHandler) ByWorkoutType(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	playlist, err := h.service.ByWorkoutType(c.Context(), userID, c.Params("workoutType"))
	if err != nil {
		return mapPlaylistError(c, err)
	}

	return c.JSON(playlist)
}

func mapPlaylistError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrPlaylistNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Playlist not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process playlist request"})
	}
}

package handlers

import (
	"context"
	"errors"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/services"
	"github.com/gofiber/fiber/v2"
)

type buddyService interface {
	UpsertPreferences(ctx context.Context, userID int64, pref *models.BuddyPreference) (*models.BuddyPreference, error)
	GetPreferences(ctx context.Context, userID int64) (*models.BuddyPreference, error)
	FindMatches(ctx context.Context, userID int64) ([]models.BuddyMatch, error)
	Deactivate(ctx context.Context, userID int64) error
}

type BuddyHandler struct {
	service buddyService
}

func NewBuddyHandler(service buddyService) *BuddyHandler {
	return &BuddyHandler{service: service}
}

func (h *BuddyHandler) SavePreferences(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req models.BuddyPreference
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msg := validateBuddyPreference(&req, c.Body()); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}
	req.IsActive = true

	saved, err := h.service.UpsertPreferences(c.Context(), userID, &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save buddy preferences"})
	}

	return c.JSON(saved)
}

func (h *BuddyHandler) GetPreferences(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	pref, err := h.service.GetPreferences(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrPreferencesMissing) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Buddy preferences not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch buddy preferences"})
	}

	return c.JSON(pref)
}

func (h *BuddyHandler) FindMatches(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	matches, err := h.service.FindMatches(c.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPreferencesMissing):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please set your buddy preferences first"})
		case errors.Is(err, services.ErrCandidateQueryFailed):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to search for buddies"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to find matches"})
		}
	}

	return c.JSON(matches)
}

func (h *BuddyHandler) Deactivate(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.service.Deactivate(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate buddy matching"})
	}

	return c.JSON(fiber.Map{"message": "Buddy matching deactivated"})
}

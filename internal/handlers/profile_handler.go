package handlers

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/repository"
	"github.com/fittrack/fittrack-back/internal/services"
	"github.com/gofiber/fiber/v2"
)

const maxAvatarSizeBytes = 5 * 1024 * 1024

type profileService interface {
	Me(ctx context.Context, userID int64) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID int64, file io.Reader, ext string) (*models.User, error)
}

type ProfileHandler struct {
	accounts profileService
}

func NewProfileHandler(accounts profileService) *ProfileHandler {
	return &ProfileHandler{accounts: accounts}
}

func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	user, err := h.accounts.Me(c.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user"})
	}

	return c.JSON(user)
}

func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is empty"})
	}
	if fileHeader.Size > maxAvatarSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file exceeds 5MB limit"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar must be a jpg, jpeg, png, or webp file"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open avatar file"})
	}
	defer file.Close()

	user, err := h.accounts.UpdateAvatar(c.Context(), userID, file, ext)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStorageUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage service is not configured"})
		case errors.Is(err, repository.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload avatar"})
		}
	}

	return c.JSON(user)
}

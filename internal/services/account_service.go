package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/repository"
	"github.com/fittrack/fittrack-back/pkg/utils"
	"go.uber.org/zap"
)

const avatarFolder = "users/avatars"

type userStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateImg(ctx context.Context, id int64, img string) (*models.User, error)
}

type AccountService struct {
	users     userStore
	storage   StorageService
	jwtSecret string
	log       *zap.Logger
}

func NewAccountService(users userStore, storage StorageService, jwtSecret string, log *zap.Logger) *AccountService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{
		users:     users,
		storage:   storage,
		jwtSecret: jwtSecret,
		log:       log.Named("accounts"),
	}
}

type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register expects an already normalised email.
func (s *AccountService) Register(ctx context.Context, name, email, password string, img *string) (*Session, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hashed,
		Img:          img,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.session(user)
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.session(user)
}

func (s *AccountService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateAvatar uploads the new image, points the user at it and removes the
// previous object. A failed cleanup is logged, not returned.
func (s *AccountService) UpdateAvatar(ctx context.Context, userID int64, file io.Reader, ext string) (*models.User, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%d-%d%s", userID, time.Now().UnixNano(), ext)
	avatarURL, err := s.storage.UploadFile(ctx, file, filename, avatarFolder)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	updated, err := s.users.UpdateImg(ctx, userID, avatarURL)
	if err != nil {
		return nil, err
	}

	if current.Img != nil && *current.Img != "" && *current.Img != avatarURL {
		if err := s.storage.DeleteFile(ctx, *current.Img); err != nil {
			s.log.Warn("failed to delete previous avatar", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	return updated, nil
}

func (s *AccountService) session(user *models.User) (*Session, error) {
	token, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}

package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/repository"
	"github.com/fittrack/fittrack-back/pkg/utils"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUsers struct {
	users []*models.User
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	user.ID = int64(len(m.users) + 1)
	m.users = append(m.users, user)
	return nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) UpdateImg(ctx context.Context, id int64, img string) (*models.User, error) {
	u, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Img = &img
	return u, nil
}

type recordingStorage struct {
	uploaded []string
	deleted  []string
}

func (r *recordingStorage) UploadFile(_ context.Context, file io.Reader, filename string, folder string) (string, error) {
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	url := "https://cdn.test/" + folder + "/" + filename
	r.uploaded = append(r.uploaded, url)
	return url, nil
}

func (r *recordingStorage) DeleteFile(_ context.Context, fileURL string) error {
	r.deleted = append(r.deleted, fileURL)
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	service := NewAccountService(&memoryUsers{}, nil, "secret", nil)
	ctx := context.Background()

	session, err := service.Register(ctx, " Ada ", "ada@example.com", "password123", nil)
	require.NoError(t, err)
	assert.Equal(t, "Ada", session.User.Name)

	claims, err := utils.ValidateToken(session.Token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)

	_, err = service.Register(ctx, "Ada", "ada@example.com", "password123", nil)
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = service.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session, err = service.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}

func TestUpdateAvatarWithoutStorage(t *testing.T) {
	service := NewAccountService(&memoryUsers{}, nil, "secret", nil)

	_, err := service.UpdateAvatar(context.Background(), 1, strings.NewReader("img"), ".png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestUpdateAvatarReplacesPreviousImage(t *testing.T) {
	users := &memoryUsers{}
	storage := &recordingStorage{}
	service := NewAccountService(users, storage, "secret", nil)
	ctx := context.Background()

	session, err := service.Register(ctx, "Ada", "ada@example.com", "password123", nil)
	require.NoError(t, err)

	first, err := service.UpdateAvatar(ctx, session.User.ID, strings.NewReader("one"), ".png")
	require.NoError(t, err)
	require.NotNil(t, first.Img)
	firstURL := *first.Img
	assert.Empty(t, storage.deleted)

	second, err := service.UpdateAvatar(ctx, session.User.ID, strings.NewReader("two"), ".jpg")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(*second.Img, ".jpg"))
	assert.Equal(t, []string{firstURL}, storage.deleted)
	assert.Len(t, storage.uploaded, 2)
}

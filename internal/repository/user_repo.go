package repository

import (
	"context"

	"github.com/fittrack/fittrack-back/internal/models"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, img, created_at, updated_at`

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, img)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash, user.Img).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) UpdateImg(ctx context.Context, id int64, img string) (*models.User, error) {
	return r.getOne(ctx, `
		UPDATE users
		SET img = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns, id, img)
}

// GetPublicByIDs loads the public fields of the given users keyed by id.
// Unknown ids are absent from the map.
func (r *UserRepository) GetPublicByIDs(ctx context.Context, ids []int64) (map[int64]models.PublicUser, error) {
	users := make(map[int64]models.PublicUser, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, img
		FROM users
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var user models.PublicUser
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Img); err != nil {
			return nil, err
		}
		users[user.ID] = user
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Img,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nickcheng/taskapp-backend/internal/apperr"
	"github.com/nickcheng/taskapp-backend/internal/models"
)

type usersRepo struct{ pool *pgxpool.Pool }

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = uuid.NewString()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users(id, name, email, age, password_hash)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING created_at, updated_at`,
		u.ID, u.Name, u.Email, u.Age, u.PasswordHash,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, age, password_hash, created_at, updated_at
		   FROM users WHERE id=$1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, translate(err)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, age, password_hash, created_at, updated_at
		   FROM users WHERE email=$1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, translate(err)
}

func (r *usersRepo) Update(ctx context.Context, u models.User) (models.User, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE users
		    SET name=$2, email=$3, age=$4, password_hash=$5, updated_at=now()
		  WHERE id=$1
		  RETURNING created_at, updated_at`,
		u.ID, u.Name, u.Email, u.Age, u.PasswordHash,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}

func (r *usersRepo) AddToken(ctx context.Context, userID, token string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_tokens(id, user_id, token) VALUES($1,$2,$3)`,
		uuid.NewString(), userID, token,
	)
	return err
}

func (r *usersRepo) RemoveToken(ctx context.Context, userID, token string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM user_tokens WHERE user_id=$1 AND token=$2`, userID, token)
	return err
}

func (r *usersRepo) ClearTokens(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_tokens WHERE user_id=$1`, userID)
	return err
}

func (r *usersRepo) HasToken(ctx context.Context, userID, token string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_tokens WHERE user_id=$1 AND token=$2)`,
		userID, token,
	).Scan(&exists)
	return exists, err
}

func (r *usersRepo) UpdateAvatar(ctx context.Context, userID string, avatar []byte) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET avatar=$2, updated_at=now() WHERE id=$1`, userID, avatar)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("not found")
	}
	return nil
}

func (r *usersRepo) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	var avatar []byte
	err := r.pool.QueryRow(ctx,
		`SELECT avatar FROM users WHERE id=$1`, userID,
	).Scan(&avatar)
	if err != nil {
		return nil, translate(err)
	}
	if len(avatar) == 0 {
		return nil, apperr.NotFound("not found")
	}
	return avatar, nil
}

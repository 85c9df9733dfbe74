package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nickcheng/taskapp-backend/internal/apperr"
	repo "github.com/nickcheng/taskapp-backend/internal/repository"
)

type Repositories struct {
	Users repo.Users
	Tasks repo.Tasks
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users: &usersRepo{pool},
		Tasks: &tasksRepo{pool},
	}
}

const uniqueViolation = "23505"

// translate turns driver-level failures into the service error taxonomy so
// callers never import pgx.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Validation("email is already in use")
	}
	return err
}

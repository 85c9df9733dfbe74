package postgres

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nickcheng/taskapp-backend/internal/apperr"
	"github.com/nickcheng/taskapp-backend/internal/models"
	repo "github.com/nickcheng/taskapp-backend/internal/repository"
)

type tasksRepo struct{ pool *pgxpool.Pool }

func (r *tasksRepo) Create(ctx context.Context, t models.Task) (models.Task, error) {
	t.ID = uuid.NewString()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tasks(id, description, completed, owner_id)
		 VALUES($1,$2,$3,$4)
		 RETURNING created_at, updated_at`,
		t.ID, t.Description, t.Completed, t.OwnerID,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Task{}, translate(err)
	}
	t.Images = []models.TaskImage{}
	return t, nil
}

// GetByOwner scopes the lookup to the owner in the query itself: a task that
// exists but belongs to someone else is indistinguishable from one that does
// not exist.
func (r *tasksRepo) GetByOwner(ctx context.Context, id, ownerID string) (models.Task, error) {
	var t models.Task
	err := r.pool.QueryRow(ctx,
		`SELECT id, description, completed, owner_id, created_at, updated_at
		   FROM tasks WHERE id=$1 AND owner_id=$2`, id, ownerID,
	).Scan(&t.ID, &t.Description, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Task{}, translate(err)
	}
	if err := r.loadImageIDs(ctx, &t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (r *tasksRepo) loadImageIDs(ctx context.Context, t *models.Task) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, created_at FROM task_images WHERE task_id=$1 ORDER BY created_at`, t.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	t.Images = []models.TaskImage{}
	for rows.Next() {
		var img models.TaskImage
		if err := rows.Scan(&img.ID, &img.CreatedAt); err != nil {
			return err
		}
		t.Images = append(t.Images, img)
	}
	return rows.Err()
}

func (r *tasksRepo) ListByOwner(ctx context.Context, ownerID string, f repo.TaskFilter) ([]models.Task, error) {
	q := `SELECT id, description, completed, owner_id, created_at, updated_at
	        FROM tasks WHERE owner_id=$1`
	args := []any{ownerID}
	if f.Completed != nil {
		q += ` AND completed=$2`
		args = append(args, *f.Completed)
	}

	col := f.SortBy
	if col == "" {
		col = "created_at"
	}
	// f.SortBy comes from repository.SortColumn, never directly from the client
	q += ` ORDER BY ` + col
	if f.Desc {
		q += ` DESC`
	}
	if f.Limit > 0 {
		q += ` LIMIT ` + strconv.Itoa(f.Limit)
	}
	if f.Skip > 0 {
		q += ` OFFSET ` + strconv.Itoa(f.Skip)
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Description, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Images = []models.TaskImage{}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tasksRepo) Update(ctx context.Context, t models.Task) (models.Task, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE tasks
		    SET description=$3, completed=$4, updated_at=now()
		  WHERE id=$1 AND owner_id=$2
		  RETURNING created_at, updated_at`,
		t.ID, t.OwnerID, t.Description, t.Completed,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Task{}, translate(err)
	}
	return t, nil
}

func (r *tasksRepo) DeleteByOwner(ctx context.Context, id, ownerID string) (models.Task, error) {
	var t models.Task
	err := r.pool.QueryRow(ctx,
		`DELETE FROM tasks WHERE id=$1 AND owner_id=$2
		 RETURNING id, description, completed, owner_id, created_at, updated_at`,
		id, ownerID,
	).Scan(&t.ID, &t.Description, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Task{}, translate(err)
	}
	t.Images = []models.TaskImage{}
	return t, nil
}

func (r *tasksRepo) DeleteAllByOwner(ctx context.Context, ownerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE owner_id=$1`, ownerID)
	return err
}

func (r *tasksRepo) AddImage(ctx context.Context, taskID string, data []byte) (models.TaskImage, error) {
	img := models.TaskImage{ID: uuid.NewString(), Data: data}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO task_images(id, task_id, data) VALUES($1,$2,$3)
		 RETURNING created_at`,
		img.ID, taskID, data,
	).Scan(&img.CreatedAt)
	if err != nil {
		return models.TaskImage{}, translate(err)
	}
	return img, nil
}

func (r *tasksRepo) GetImage(ctx context.Context, taskID, imageID string) ([]byte, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM task_images WHERE task_id=$1 AND id=$2`, taskID, imageID,
	).Scan(&data)
	if err != nil {
		return nil, translate(err)
	}
	return data, nil
}

func (r *tasksRepo) RemoveImage(ctx context.Context, taskID, imageID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM task_images WHERE task_id=$1 AND id=$2`, taskID, imageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("image not found")
	}
	return nil
}

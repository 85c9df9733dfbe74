package repository

import (
	"context"

	"github.com/nickcheng/taskapp-backend/internal/models"
)

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Update(ctx context.Context, u models.User) (models.User, error)
	Delete(ctx context.Context, id string) error

	// Token list operations. Logins append; concurrent appends from two
	// devices must both survive, so these are row inserts/deletes rather
	// than a read-modify-write of one column.
	AddToken(ctx context.Context, userID, token string) error
	RemoveToken(ctx context.Context, userID, token string) error
	ClearTokens(ctx context.Context, userID string) error
	HasToken(ctx context.Context, userID, token string) (bool, error)

	UpdateAvatar(ctx context.Context, userID string, avatar []byte) error
	GetAvatar(ctx context.Context, userID string) ([]byte, error)
}

// TaskFilter narrows and orders an owner-scoped list query. SortBy must be a
// column returned by SortColumn; zero value means created_at ascending with
// no limit or skip.
type TaskFilter struct {
	Completed *bool
	SortBy    string
	Desc      bool
	Limit     int
	Skip      int
}

type Tasks interface {
	Create(ctx context.Context, t models.Task) (models.Task, error)
	GetByOwner(ctx context.Context, id, ownerID string) (models.Task, error)
	ListByOwner(ctx context.Context, ownerID string, f TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, t models.Task) (models.Task, error)
	DeleteByOwner(ctx context.Context, id, ownerID string) (models.Task, error)
	DeleteAllByOwner(ctx context.Context, ownerID string) error

	AddImage(ctx context.Context, taskID string, data []byte) (models.TaskImage, error)
	GetImage(ctx context.Context, taskID, imageID string) ([]byte, error)
	RemoveImage(ctx context.Context, taskID, imageID string) error
}

var sortColumns = map[string]string{
	"description": "description",
	"completed":   "completed",
	"createdAt":   "created_at",
	"created_at":  "created_at",
	"updatedAt":   "updated_at",
	"updated_at":  "updated_at",
}

// SortColumn maps a client-supplied sort field to a storable column name.
// Anything outside the allow-list is rejected so the field can never reach
// an ORDER BY clause raw.
func SortColumn(field string) (string, bool) {
	col, ok := sortColumns[field]
	return col, ok
}

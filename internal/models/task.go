package models

import (
	"strings"
	"time"

	"github.com/nickcheng/taskapp-backend/internal/api/validate"
	"github.com/nickcheng/taskapp-backend/internal/apperr"
)

type Task struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Completed   bool        `json:"completed"`
	OwnerID     string      `json:"owner_id"`
	Images      []TaskImage `json:"images"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TaskImage is serialized without its binary; clients fetch the bytes through
// the image endpoint.
type TaskImage struct {
	ID        string    `json:"id"`
	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Task) Normalize() {
	t.Description = strings.TrimSpace(t.Description)
}

func (t *Task) Validate() error {
	if e := validate.Required("description", t.Description); e != nil {
		return apperr.Validation(e.Field + ": " + e.Msg)
	}
	return nil
}

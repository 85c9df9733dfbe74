package services

import (
	"context"
	"encoding/json"

	"github.com/nickcheng/taskapp-backend/internal/apperr"
	"github.com/nickcheng/taskapp-backend/internal/images"
	"github.com/nickcheng/taskapp-backend/internal/metrics"
	"github.com/nickcheng/taskapp-backend/internal/models"
	repo "github.com/nickcheng/taskapp-backend/internal/repository"
	"github.com/nickcheng/taskapp-backend/internal/worker"
)

type TaskService struct {
	tasks repo.Tasks
	wp    *worker.Pool
}

func NewTaskService(tasks repo.Tasks, wp *worker.Pool) *TaskService {
	return &TaskService{tasks: tasks, wp: wp}
}

// Create always takes the owner from the authenticated session, never from
// the request body.
func (s *TaskService) Create(ctx context.Context, ownerID, description string, completed bool) (models.Task, error) {
	t := models.Task{Description: description, Completed: completed, OwnerID: ownerID}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return models.Task{}, err
	}
	return s.tasks.Create(ctx, t)
}

func (s *TaskService) List(ctx context.Context, ownerID string, f repo.TaskFilter) ([]models.Task, error) {
	return s.tasks.ListByOwner(ctx, ownerID, f)
}

func (s *TaskService) Get(ctx context.Context, id, ownerID string) (models.Task, error) {
	return s.tasks.GetByOwner(ctx, id, ownerID)
}

var taskUpdatable = map[string]bool{
	"description": true,
	"completed":   true,
}

func (s *TaskService) Update(ctx context.Context, id, ownerID string, patch map[string]json.RawMessage) (models.Task, error) {
	for field := range patch {
		if !taskUpdatable[field] {
			return models.Task{}, apperr.Validation("Invalid operation")
		}
	}

	// Fetch first so a foreign or missing task 404s before any field is
	// touched.
	t, err := s.tasks.GetByOwner(ctx, id, ownerID)
	if err != nil {
		return models.Task{}, err
	}

	if raw, ok := patch["description"]; ok {
		if err := json.Unmarshal(raw, &t.Description); err != nil {
			return models.Task{}, apperr.Validation("description: must be a string")
		}
	}
	if raw, ok := patch["completed"]; ok {
		if err := json.Unmarshal(raw, &t.Completed); err != nil {
			return models.Task{}, apperr.Validation("completed: must be a boolean")
		}
	}

	t.Normalize()
	if err := t.Validate(); err != nil {
		return models.Task{}, err
	}
	updated, err := s.tasks.Update(ctx, t)
	if err != nil {
		return models.Task{}, err
	}
	updated.Images = t.Images
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, id, ownerID string) (models.Task, error) {
	return s.tasks.DeleteByOwner(ctx, id, ownerID)
}

// AddImage re-encodes the upload to PNG on the worker pool and appends it to
// the task's image list. Ownership is checked before the CPU work starts.
func (s *TaskService) AddImage(ctx context.Context, taskID, ownerID, filename string, data []byte) (models.TaskImage, error) {
	if !images.AllowedExt(filename) {
		return models.TaskImage{}, apperr.Validation("file must be an image")
	}
	t, err := s.tasks.GetByOwner(ctx, taskID, ownerID)
	if err != nil {
		return models.TaskImage{}, err
	}

	var png []byte
	s.wp.SubmitWait(func() { png, err = images.ToPNG(data) })
	if err != nil {
		return models.TaskImage{}, err
	}
	metrics.ImagesProcessedTotal.Inc()
	return s.tasks.AddImage(ctx, t.ID, png)
}

func (s *TaskService) GetImage(ctx context.Context, taskID, ownerID, imageID string) ([]byte, error) {
	if _, err := s.tasks.GetByOwner(ctx, taskID, ownerID); err != nil {
		return nil, err
	}
	return s.tasks.GetImage(ctx, taskID, imageID)
}

func (s *TaskService) RemoveImage(ctx context.Context, taskID, ownerID, imageID string) error {
	t, err := s.tasks.GetByOwner(ctx, taskID, ownerID)
	if err != nil {
		return err
	}
	if len(t.Images) == 0 {
		return apperr.NotFound("images not found")
	}
	return s.tasks.RemoveImage(ctx, taskID, imageID)
}

package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nickcheng/taskapp-backend/internal/apperr"
	"github.com/nickcheng/taskapp-backend/internal/models"
	repo "github.com/nickcheng/taskapp-backend/internal/repository"
)

// In-memory stand-ins for the postgres repositories, honoring the same error
// taxonomy and scoping contracts.

type fakeUsers struct {
	mu      sync.Mutex
	users   map[string]models.User
	tokens  map[string][]string
	avatars map[string][]byte
}

var _ repo.Users = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users:   map[string]models.User{},
		tokens:  map[string][]string{},
		avatars: map[string][]byte{},
	}
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.users {
		if ex.Email == u.Email {
			return models.User{}, apperr.Validation("email is already in use")
		}
	}
	u.ID = uuid.NewString()
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("not found")
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, apperr.NotFound("not found")
}

func (f *fakeUsers) Update(_ context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.users[u.ID]
	if !ok {
		return models.User{}, apperr.NotFound("not found")
	}
	for id, ex := range f.users {
		if id != u.ID && ex.Email == u.Email {
			return models.User{}, apperr.Validation("email is already in use")
		}
	}
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	delete(f.tokens, id)
	delete(f.avatars, id)
	return nil
}

func (f *fakeUsers) AddToken(_ context.Context, userID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[userID] = append(f.tokens[userID], token)
	return nil
}

func (f *fakeUsers) RemoveToken(_ context.Context, userID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tokens[userID][:0]
	for _, t := range f.tokens[userID] {
		if t != token {
			kept = append(kept, t)
		}
	}
	f.tokens[userID] = kept
	return nil
}

func (f *fakeUsers) ClearTokens(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[userID] = nil
	return nil
}

func (f *fakeUsers) HasToken(_ context.Context, userID, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens[userID] {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) UpdateAvatar(_ context.Context, userID string, avatar []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return apperr.NotFound("not found")
	}
	if avatar == nil {
		delete(f.avatars, userID)
		return nil
	}
	f.avatars[userID] = avatar
	return nil
}

func (f *fakeUsers) GetAvatar(_ context.Context, userID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return nil, apperr.NotFound("not found")
	}
	data, ok := f.avatars[userID]
	if !ok || len(data) == 0 {
		return nil, apperr.NotFound("not found")
	}
	return data, nil
}

func (f *fakeUsers) tokenCount(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens[userID])
}

func (f *fakeUsers) byEmail(email string) (models.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

type fakeTasks struct {
	mu    sync.Mutex
	tasks map[string]models.Task
	seq   int
}

var _ repo.Tasks = (*fakeTasks)(nil)

func newFakeTasks() *fakeTasks {
	return &fakeTasks{tasks: map[string]models.Task{}}
}

func (f *fakeTasks) nextTime() time.Time {
	f.seq++
	return time.Now().UTC().Add(time.Duration(f.seq) * time.Millisecond)
}

func (f *fakeTasks) Create(_ context.Context, t models.Task) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = uuid.NewString()
	now := f.nextTime()
	t.CreatedAt, t.UpdatedAt = now, now
	t.Images = []models.TaskImage{}
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeTasks) GetByOwner(_ context.Context, id, ownerID string) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return models.Task{}, apperr.NotFound("not found")
	}
	return t, nil
}

func (f *fakeTasks) ListByOwner(_ context.Context, ownerID string, fl repo.TaskFilter) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Task{}
	for _, t := range f.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if fl.Completed != nil && t.Completed != *fl.Completed {
			continue
		}
		t.Images = []models.TaskImage{}
		out = append(out, t)
	}

	col := fl.SortBy
	if col == "" {
		col = "created_at"
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less bool
		switch col {
		case "description":
			less = a.Description < b.Description
		case "completed":
			less = !a.Completed && b.Completed
		case "updated_at":
			less = a.UpdatedAt.Before(b.UpdatedAt)
		default:
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if fl.Desc {
			less = !less
		}
		return less
	})

	if fl.Skip > 0 {
		if fl.Skip >= len(out) {
			return []models.Task{}, nil
		}
		out = out[fl.Skip:]
	}
	if fl.Limit > 0 && fl.Limit < len(out) {
		out = out[:fl.Limit]
	}
	return out, nil
}

func (f *fakeTasks) Update(_ context.Context, t models.Task) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.tasks[t.ID]
	if !ok || cur.OwnerID != t.OwnerID {
		return models.Task{}, apperr.NotFound("not found")
	}
	cur.Description = t.Description
	cur.Completed = t.Completed
	cur.UpdatedAt = f.nextTime()
	f.tasks[t.ID] = cur
	return cur, nil
}

func (f *fakeTasks) DeleteByOwner(_ context.Context, id, ownerID string) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return models.Task{}, apperr.NotFound("not found")
	}
	delete(f.tasks, id)
	return t, nil
}

func (f *fakeTasks) DeleteAllByOwner(_ context.Context, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.tasks {
		if t.OwnerID == ownerID {
			delete(f.tasks, id)
		}
	}
	return nil
}

func (f *fakeTasks) AddImage(_ context.Context, taskID string, data []byte) (models.TaskImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok {
		return models.TaskImage{}, apperr.NotFound("not found")
	}
	img := models.TaskImage{ID: uuid.NewString(), Data: data, CreatedAt: f.nextTime()}
	t.Images = append(t.Images, img)
	f.tasks[taskID] = t
	return img, nil
}

func (f *fakeTasks) GetImage(_ context.Context, taskID, imageID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, apperr.NotFound("not found")
	}
	for _, img := range t.Images {
		if img.ID == imageID {
			return img.Data, nil
		}
	}
	return nil, apperr.NotFound("not found")
}

func (f *fakeTasks) RemoveImage(_ context.Context, taskID, imageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok {
		return apperr.NotFound("not found")
	}
	kept := t.Images[:0]
	found := false
	for _, img := range t.Images {
		if img.ID == imageID {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return apperr.NotFound("image not found")
	}
	t.Images = kept
	f.tasks[taskID] = t
	return nil
}

func (f *fakeTasks) get(id string) (models.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	return t, ok
}

package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/nickcheng/taskapp-backend/internal/apperr"
	"github.com/nickcheng/taskapp-backend/internal/auth"
	"github.com/nickcheng/taskapp-backend/internal/images"
	"github.com/nickcheng/taskapp-backend/internal/mailer"
	"github.com/nickcheng/taskapp-backend/internal/metrics"
	"github.com/nickcheng/taskapp-backend/internal/models"
	repo "github.com/nickcheng/taskapp-backend/internal/repository"
	"github.com/nickcheng/taskapp-backend/internal/worker"
)

const avatarThumbSize = 250

type UserService struct {
	users repo.Users
	tasks repo.Tasks
	tm    *auth.TokenManager
	mail  *mailer.Mailer
	wp    *worker.Pool
}

func NewUserService(users repo.Users, tasks repo.Tasks, tm *auth.TokenManager, mail *mailer.Mailer, wp *worker.Pool) *UserService {
	return &UserService{users: users, tasks: tasks, tm: tm, mail: mail, wp: wp}
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	Password string `json:"password"`
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (models.User, string, error) {
	u := models.User{Name: in.Name, Email: in.Email, Age: in.Age}
	u.Normalize()
	if err := u.Validate(); err != nil {
		return models.User{}, "", err
	}
	if err := models.ValidatePassword(in.Password); err != nil {
		return models.User{}, "", err
	}

	hash, err := auth.HashPassword(strings.TrimSpace(in.Password))
	if err != nil {
		return models.User{}, "", err
	}
	u.PasswordHash = hash

	u, err = s.users.Create(ctx, u)
	if err != nil {
		return models.User{}, "", err
	}

	token, err := s.issueToken(ctx, u.ID)
	if err != nil {
		return models.User{}, "", err
	}

	metrics.SignupsTotal.Inc()
	s.wp.Submit(func() { s.mail.SendWelcome(u.Email, u.Name) })
	return u, token, nil
}

// Login deliberately reports the same failure for an unknown email and a
// wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return models.User{}, "", apperr.Auth("unable to login")
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return models.User{}, "", apperr.Auth("unable to login")
	}

	token, err := s.issueToken(ctx, u.ID)
	if err != nil {
		return models.User{}, "", err
	}
	metrics.LoginsTotal.Inc()
	return u, token, nil
}

// issueToken signs a fresh token and appends it to the stored list. Appends
// never replace earlier tokens, so each device keeps its own session.
func (s *UserService) issueToken(ctx context.Context, userID string) (string, error) {
	token, err := s.tm.Issue(userID)
	if err != nil {
		return "", err
	}
	if err := s.users.AddToken(ctx, userID, token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *UserService) Logout(ctx context.Context, userID, token string) error {
	return s.users.RemoveToken(ctx, userID, token)
}

func (s *UserService) LogoutAll(ctx context.Context, userID string) error {
	return s.users.ClearTokens(ctx, userID)
}

var userUpdatable = map[string]bool{
	"name":     true,
	"email":    true,
	"password": true,
	"age":      true,
}

// Update applies an allow-listed patch field by field so validation and the
// password rehash trigger run exactly when the matching field changes.
// Any field outside the allow-list rejects the whole request.
func (s *UserService) Update(ctx context.Context, u models.User, patch map[string]json.RawMessage) (models.User, error) {
	for field := range patch {
		if !userUpdatable[field] {
			return models.User{}, apperr.Validation("Invalid updates")
		}
	}

	if raw, ok := patch["name"]; ok {
		if err := json.Unmarshal(raw, &u.Name); err != nil {
			return models.User{}, apperr.Validation("name: must be a string")
		}
	}
	if raw, ok := patch["email"]; ok {
		if err := json.Unmarshal(raw, &u.Email); err != nil {
			return models.User{}, apperr.Validation("email: must be a string")
		}
	}
	if raw, ok := patch["age"]; ok {
		if err := json.Unmarshal(raw, &u.Age); err != nil {
			return models.User{}, apperr.Validation("age: must be a number")
		}
	}
	if raw, ok := patch["password"]; ok {
		var plain string
		if err := json.Unmarshal(raw, &plain); err != nil {
			return models.User{}, apperr.Validation("password: must be a string")
		}
		if err := models.ValidatePassword(plain); err != nil {
			return models.User{}, err
		}
		hash, err := auth.HashPassword(strings.TrimSpace(plain))
		if err != nil {
			return models.User{}, err
		}
		u.PasswordHash = hash
	}

	u.Normalize()
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	return s.users.Update(ctx, u)
}

// Delete removes the account and cascades to everything the user owns. Task
// cleanup happens here, not in the database schema.
func (s *UserService) Delete(ctx context.Context, u models.User) error {
	if err := s.tasks.DeleteAllByOwner(ctx, u.ID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, u.ID); err != nil {
		return err
	}
	s.wp.Submit(func() { s.mail.SendCancellation(u.Email, u.Name) })
	return nil
}

// SetAvatar re-encodes the upload to a square PNG thumbnail on the worker
// pool and stores it on the user record.
func (s *UserService) SetAvatar(ctx context.Context, userID, filename string, data []byte) error {
	if !images.AllowedExt(filename) {
		return apperr.Validation("file must be an image")
	}

	var thumb []byte
	var err error
	s.wp.SubmitWait(func() { thumb, err = images.Thumbnail(data, avatarThumbSize) })
	if err != nil {
		return err
	}
	metrics.ImagesProcessedTotal.Inc()
	return s.users.UpdateAvatar(ctx, userID, thumb)
}

func (s *UserService) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	return s.users.GetAvatar(ctx, userID)
}

func (s *UserService) DeleteAvatar(ctx context.Context, userID string) error {
	return s.users.UpdateAvatar(ctx, userID, nil)
}

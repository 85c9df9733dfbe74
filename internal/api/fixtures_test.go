package api

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nickcheng/taskapp-backend/internal/auth"
	"github.com/nickcheng/taskapp-backend/internal/config"
	"github.com/nickcheng/taskapp-backend/internal/mailer"
	"github.com/nickcheng/taskapp-backend/internal/middleware"
	"github.com/nickcheng/taskapp-backend/internal/models"
	"github.com/nickcheng/taskapp-backend/internal/services"
	"github.com/nickcheng/taskapp-backend/internal/worker"
)

const (
	passwordOne = "nmslwdnmd"
	passwordTwo = "wdnmdnmsl"
)

// fixture mirrors the seeded state the service is tested against: two users
// with one active session each, two tasks for user one and one for user two.
type fixture struct {
	handler http.Handler
	users   *fakeUsers
	tasks   *fakeTasks
	tm      *auth.TokenManager

	userOne  models.User
	tokenOne string
	userTwo  models.User
	tokenTwo string

	taskOne   models.Task // userOne, incomplete
	taskTwo   models.Task // userOne, completed
	taskThree models.Task // userTwo, completed
}

func setup(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{
		users: newFakeUsers(),
		tasks: newFakeTasks(),
		tm:    auth.NewTokenManager("test-secret"),
	}

	wp := worker.NewPool(2)
	t.Cleanup(wp.Stop)
	mail := mailer.New("", "noreply@example.com")

	userSvc := services.NewUserService(fx.users, fx.tasks, fx.tm, mail, wp)
	taskSvc := services.NewTaskService(fx.tasks, wp)
	gate := middleware.NewAuthMiddleware(fx.tm, fx.users)
	fx.handler = NewRouter(config.Config{Env: "test"}, userSvc, taskSvc, gate)

	fx.userOne, fx.tokenOne = fx.seedUser(t, "test", "test@ccc.com", passwordOne)
	fx.userTwo, fx.tokenTwo = fx.seedUser(t, "test2", "test2@aaa.com", passwordTwo)
	fx.taskOne = fx.seedTask(t, fx.userOne.ID, "game", false)
	fx.taskTwo = fx.seedTask(t, fx.userOne.ID, "stock", true)
	fx.taskThree = fx.seedTask(t, fx.userTwo.ID, "LL", true)
	return fx
}

func (fx *fixture) seedUser(t *testing.T, name, email, password string) (models.User, string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u, err := fx.users.Create(context.Background(), models.User{Name: name, Email: email, PasswordHash: hash})
	require.NoError(t, err)
	token, err := fx.tm.Issue(u.ID)
	require.NoError(t, err)
	require.NoError(t, fx.users.AddToken(context.Background(), u.ID, token))
	return u, token
}

func (fx *fixture) seedTask(t *testing.T, ownerID, description string, completed bool) models.Task {
	t.Helper()
	task, err := fx.tasks.Create(context.Background(), models.Task{
		Description: description,
		Completed:   completed,
		OwnerID:     ownerID,
	})
	require.NoError(t, err)
	return task
}

func bearer(token string) string { return "Bearer " + token }

// pngFixture renders a small valid PNG for upload tests.
func pngFixture(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// multipartUpload builds a single-file multipart body and its content type.
func multipartUpload(t *testing.T, field, filename string, data []byte) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.String(), w.FormDataContentType()
}

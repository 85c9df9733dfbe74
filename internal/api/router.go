package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/nickcheng/taskapp-backend/internal/api/handlers"
	"github.com/nickcheng/taskapp-backend/internal/config"
	"github.com/nickcheng/taskapp-backend/internal/metrics"
	"github.com/nickcheng/taskapp-backend/internal/middleware"
	"github.com/nickcheng/taskapp-backend/internal/services"
)

func NewRouter(cfg config.Config, us *services.UserService, ts *services.TaskService, gate *middleware.AuthMiddleware) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	uh := handlers.NewUserHandler(us)
	th := handlers.NewTaskHandler(ts)

	// public
	r.Post("/users", uh.Signup)
	r.Post("/users/login", uh.Login)
	r.Get("/users/{id}/avatar", uh.GetAvatar)

	// everything else sits behind the auth gate
	r.Group(func(r chi.Router) {
		r.Use(gate.Auth)

		r.Post("/users/logout", uh.Logout)
		r.Post("/users/logoutAll", uh.LogoutAll)
		r.Get("/users/me", uh.Me)
		r.Patch("/users/me", uh.UpdateMe)
		r.Delete("/users/me", uh.DeleteMe)
		r.Post("/users/me/avatar", uh.UploadAvatar)
		r.Delete("/users/me/avatar", uh.DeleteAvatar)

		r.Post("/tasks", th.Create)
		r.Get("/tasks", th.List)
		r.Get("/tasks/{id}", th.Get)
		r.Patch("/tasks/{id}", th.Update)
		r.Delete("/tasks/{id}", th.Delete)
		r.Post("/tasks/{id}/image", th.AddImage)
		r.Get("/tasks/{id}/image/{imgid}", th.GetImage)
		r.Delete("/tasks/{id}/image/{imgid}", th.RemoveImage)
	})

	return r
}

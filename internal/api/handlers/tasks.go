package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nickcheng/taskapp-backend/internal/api/httpx"
	repo "github.com/nickcheng/taskapp-backend/internal/repository"
	"github.com/nickcheng/taskapp-backend/internal/services"
)

const maxTaskImageBytes = 6 << 20 // 6 MB upload ceiling

type TaskHandler struct {
	svc *services.TaskService
}

func NewTaskHandler(svc *services.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := h.svc.Create(r.Context(), session(r).User.ID, req.Description, req.Completed)
	if err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, t)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	f := parseTaskFilter(r)
	tasks, err := h.svc.List(r.Context(), session(r).User.ID, f)
	if err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tasks)
}

// parseTaskFilter reads completed / sortby / limit / skip query params.
// Unknown sort fields and malformed numbers fall back to defaults rather
// than failing the request, matching the reference behavior.
func parseTaskFilter(r *http.Request) repo.TaskFilter {
	var f repo.TaskFilter
	q := r.URL.Query()

	if v := q.Get("completed"); v != "" {
		completed := v == "true"
		f.Completed = &completed
	}
	if v := q.Get("sortby"); v != "" {
		field, dir, _ := strings.Cut(v, ":")
		if col, ok := repo.SortColumn(field); ok {
			f.SortBy = col
			f.Desc = dir == "desc"
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}
	if v := q.Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Skip = n
		}
	}
	return f
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), session(r).User.ID)
	if err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), session(r).User.ID, patch)
	if err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), session(r).User.ID)
	if err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := readUpload(w, r, "image", maxTaskImageBytes)
	if !ok {
		return
	}
	if _, err := h.svc.AddImage(r.Context(), chi.URLParam(r, "id"), session(r).User.ID, filename, data); err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *TaskHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.GetImage(r.Context(), chi.URLParam(r, "id"), session(r).User.ID, chi.URLParam(r, "imgid"))
	if err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}

func (h *TaskHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RemoveImage(r.Context(), chi.URLParam(r, "id"), session(r).User.ID, chi.URLParam(r, "imgid"))
	if err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

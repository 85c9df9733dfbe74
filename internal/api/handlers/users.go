package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nickcheng/taskapp-backend/internal/api/httpx"
	"github.com/nickcheng/taskapp-backend/internal/middleware"
	"github.com/nickcheng/taskapp-backend/internal/services"
)

const maxAvatarBytes = 1 << 20 // 1 MB upload ceiling

type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// session returns the identity bound by the auth gate. Handlers behind the
// gate can rely on it being present.
func session(r *http.Request) middleware.Session {
	s, _ := middleware.SessionFrom(r.Context())
	return s
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, token, err := h.svc.Signup(r.Context(), in)
	if err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"user": u, "token": token})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"user": u, "token": token})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s := session(r)
	if err := h.svc.Logout(r.Context(), s.User.ID, s.Token); err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	s := session(r)
	if err := h.svc.LogoutAll(r.Context(), s.User.ID); err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, session(r).User)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.svc.Update(r.Context(), session(r).User, patch)
	if err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	s := session(r)
	if err := h.svc.Delete(r.Context(), s.User); err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s.User)
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := readUpload(w, r, "avatar", maxAvatarBytes)
	if !ok {
		return
	}
	if err := h.svc.SetAvatar(r.Context(), session(r).User.ID, filename, data); err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.GetAvatar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}

func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAvatar(r.Context(), session(r).User.ID); err != nil {
		httpx.WriteFromError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// readUpload pulls one multipart file out of the request, enforcing the size
// ceiling before the body is read in full. Writes the error response itself
// when ok is false.
func readUpload(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (filename string, data []byte, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+4096) // headroom for multipart framing
	file, hdr, err := r.FormFile(field)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "unable to read upload")
		return "", nil, false
	}
	defer file.Close()

	if hdr.Size > maxBytes {
		httpx.WriteError(w, http.StatusBadRequest, "file too large")
		return "", nil, false
	}
	data, err = io.ReadAll(file)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "unable to read upload")
		return "", nil, false
	}
	return hdr.Filename, data, true
}

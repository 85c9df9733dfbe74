package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nickcheng/taskapp-backend/internal/apperr"
)

type APIError struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, APIError{Error: msg})
}

// WriteFromError maps the error taxonomy to status codes: validation and
// credential failures are 400, not-found is 404, anything else is a 500
// with the detail kept out of the response.
func WriteFromError(w http.ResponseWriter, err error) {
	kind, ok := apperr.KindOf(err)
	if !ok {
		slog.Error("request failed", "err", err)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	switch kind {
	case apperr.KindValidation, apperr.KindAuth:
		WriteError(w, http.StatusBadRequest, err.Error())
	case apperr.KindNotFound:
		WriteError(w, http.StatusNotFound, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

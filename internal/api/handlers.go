package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mmynk/todo/internal/middleware"
	"github.com/mmynk/todo/internal/models"
	"github.com/mmynk/todo/internal/storage"
)

type todoHandler struct {
	svc      TodoService
	basePath string
}

// create handles POST {base}
func (h *todoHandler) create(w http.ResponseWriter, r *http.Request) {
	if !acceptsJSON(r) {
		w.WriteHeader(http.StatusUnsupportedMediaType)
		return
	}

	var todo models.Todo
	if err := decodeJSON(w, r, &todo); err != nil {
		slog.Info("Rejected todo body", "error", err, "request_id", middleware.GetRequestID(r.Context()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	created, err := h.svc.Create(r.Context(), todo)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Location", h.basePath+strconv.FormatInt(*created.ID, 10))
	writeJSON(w, http.StatusCreated, created)
}

// list handles GET {base}
func (h *todoHandler) list(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}

	writeJSON(w, http.StatusOK, todos)
}

// get handles GET {base}{id}
func (h *todoHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	todo, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

// delete handles DELETE {base}{id}
func (h *todoHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *todoHandler) readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ready(r.Context()); err != nil {
		slog.Warn("Store not ready", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, status{Status: "DOWN"})
		return
	}
	writeJSON(w, http.StatusOK, status{Status: "UP"})
}

func healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, status{Status: "UP"})
}

type status struct {
	Status string `json:"status"`
}

// fail maps a service error to a bodiless status response.
func (h *todoHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	slog.Error("Request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
		"request_id", middleware.GetRequestID(r.Context()),
	)
	w.WriteHeader(http.StatusInternalServerError)
}

// pathID parses the {id} path segment. Only plain decimal digits name a
// todo; signs and overflowing values do not.
func pathID(r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	if raw == "" || strings.IndexFunc(raw, func(c rune) bool { return c < '0' || c > '9' }) >= 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

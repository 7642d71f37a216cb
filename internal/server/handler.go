// Package server serves a user collection over HTTP in the shape the widget
// consumes: GET/POST on the collection, GET/PUT/DELETE on an item.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/userdesk/internal/database/repository"
	"github.com/jask/userdesk/internal/remote"
	"github.com/jask/userdesk/internal/user"
)

const maxBody = 1 << 20

// Store is the persistence the handler needs.
type Store interface {
	List(ctx context.Context) ([]repository.User, error)
	Get(ctx context.Context, id string) (repository.User, error)
	Insert(ctx context.Context, u repository.User) error
	Update(ctx context.Context, u repository.User) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	mux   *http.ServeMux
	store Store
	newID func() string
}

// New returns the collection handler mounted at /<collection>.
func New(s Store, collection string) http.Handler {
	h := &Handler{
		mux:   http.NewServeMux(),
		store: s,
		newID: uuid.NewString,
	}
	h.routes("/" + strings.Trim(collection, "/"))
	return h
}

func (h *Handler) routes(base string) {
	h.mux.HandleFunc("GET /healthz", h.health)
	h.mux.HandleFunc("GET "+base, h.list)
	h.mux.HandleFunc("POST "+base, h.create)
	h.mux.HandleFunc("GET "+base+"/{id}", h.get)
	h.mux.HandleFunc("PUT "+base+"/{id}", h.update)
	h.mux.HandleFunc("DELETE "+base+"/{id}", h.delete)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "store", err)
		return
	}
	out := make([]user.Record, 0, len(rows))
	for _, u := range rows {
		out = append(out, toRecord(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecord(u))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	f, ok := decodeFields(w, r)
	if !ok {
		return
	}
	u := fromFields(h.newID(), f)
	if err := h.store.Insert(r.Context(), u); err != nil {
		writeError(w, r, http.StatusInternalServerError, "store", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecord(u))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	f, ok := decodeFields(w, r)
	if !ok {
		return
	}
	u := fromFields(r.PathValue("id"), f)
	if err := h.store.Update(r.Context(), u); err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecord(u))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not_found", nil)
		return
	}
	writeError(w, r, http.StatusInternalServerError, "store", err)
}

func decodeFields(w http.ResponseWriter, r *http.Request) (user.Fields, bool) {
	var f user.Fields
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(&f); err != nil {
		writeError(w, r, http.StatusBadRequest, "json", nil)
		return f, false
	}
	if strings.TrimSpace(f.Email) == "" {
		writeError(w, r, http.StatusBadRequest, "email", nil)
		return f, false
	}
	return f, true
}

func toRecord(u repository.User) user.Record {
	return user.New(user.StringID(u.ID), user.Fields{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Department: u.Department,
	})
}

func fromFields(id string, f user.Fields) repository.User {
	return repository.User{ID: id, FirstName: f.FirstName, LastName: f.LastName, Email: f.Email, Department: f.Department}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, cause error) {
	if cause != nil {
		log.Printf("%s %s [%s]: %v", r.Method, r.URL.Path, r.Header.Get(remote.RequestIDHeader), cause)
	}
	writeJSON(w, status, map[string]string{"error": code})
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LogRequests logs one line per request with its status, duration and the
// caller's request id.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s [%s]", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond), r.Header.Get(remote.RequestIDHeader))
	})
}

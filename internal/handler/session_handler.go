package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tuitionbook/internal/model"
	"tuitionbook/internal/repository"
	"tuitionbook/internal/service"
)

// SessionHandler holds the HTTP handlers for the session catalog.
type SessionHandler struct {
	sessions *service.SessionService
	bookings *service.BookingService
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(sessions *service.SessionService, bookings *service.BookingService) *SessionHandler {
	return &SessionHandler{sessions: sessions, bookings: bookings}
}

// List handles GET /sessions
// Returns every session, newest first.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.ListSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if sessions == nil {
		sessions = []model.Session{}
	}

	writeJSON(w, http.StatusOK, sessions)
}

// ListByTeacher handles GET /sessions/teacher/{teacherId}
func (h *SessionHandler) ListByTeacher(w http.ResponseWriter, r *http.Request) {
	teacherID := chi.URLParam(r, "teacherId")

	sessions, err := h.sessions.ListByTeacher(r.Context(), teacherID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	if sessions == nil {
		sessions = []model.Session{}
	}

	writeJSON(w, http.StatusOK, sessions)
}

// Create handles POST /sessions
// Only teachers may publish sessions; the owner is the caller.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if identity.Role != model.RoleTeacher {
		writeError(w, http.StatusForbidden, "only teachers can create sessions")
		return
	}

	var req model.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	sess, err := h.sessions.CreateSession(r.Context(), req, identity.UserID)
	if err != nil {
		if service.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

// ListBookings handles GET /sessions/{sessionId}/bookings
// Returns the session's bookings with each booker's display name.
func (h *SessionHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	bookings, err := h.bookings.ListForSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	if bookings == nil {
		bookings = []model.SessionBooking{}
	}

	writeJSON(w, http.StatusOK, bookings)
}

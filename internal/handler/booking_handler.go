package handler

import (
	"errors"
	"net/http"

	"tuitionbook/internal/model"
	"tuitionbook/internal/repository"
	"tuitionbook/internal/service"
)

// BookingHandler holds the HTTP handlers for seat reservations.
type BookingHandler struct {
	svc *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// List handles GET /bookings
// Returns the caller's bookings joined with session details.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	bookings, err := h.svc.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	if bookings == nil {
		bookings = []model.UserBooking{}
	}

	writeJSON(w, http.StatusOK, bookings)
}

// Create handles POST /bookings
// Performs a concurrency-safe reservation for the caller.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req model.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	booking, err := h.svc.Book(r.Context(), identity.UserID, req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, repository.ErrSessionFull):
			writeError(w, http.StatusBadRequest, "session is full")
		case errors.Is(err, repository.ErrAlreadyBooked):
			writeError(w, http.StatusBadRequest, "you have already booked this session")
		case errors.Is(err, repository.ErrBookingConflict):
			// Losing a commit race is retryable by the client.
			writeError(w, http.StatusConflict, "booking conflicted, please retry")
		case service.IsValidation(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create booking")
		}
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

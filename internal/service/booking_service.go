package service

import (
	"context"
	"errors"
	"fmt"

	"tuitionbook/internal/model"
	"tuitionbook/internal/repository"
)

// BookingLedger is the persistence surface BookingService needs. Book must
// uphold the capacity and uniqueness invariants under concurrent callers.
type BookingLedger interface {
	Book(ctx context.Context, userID, sessionID string) (*model.Booking, error)
	ListForSession(ctx context.Context, sessionID string) ([]model.SessionBooking, error)
	ListForUser(ctx context.Context, userID string) ([]model.UserBooking, error)
}

// BookingService orchestrates seat reservations.
type BookingService struct {
	bookings BookingLedger
	sessions SessionStore
}

// NewBookingService constructs a BookingService.
func NewBookingService(bookings BookingLedger, sessions SessionStore) *BookingService {
	return &BookingService{bookings: bookings, sessions: sessions}
}

// Book reserves a seat for the user. The concurrency-safe part lives in the
// ledger; this layer only validates input and surfaces domain errors.
func (s *BookingService) Book(ctx context.Context, userID, sessionID string) (*model.Booking, error) {
	if sessionID == "" {
		return nil, validationf("session_id is required")
	}

	booking, err := s.bookings.Book(ctx, userID, sessionID)
	if err != nil {
		// Surface domain errors directly so handlers can set correct HTTP status.
		if errors.Is(err, repository.ErrNotFound) ||
			errors.Is(err, repository.ErrSessionFull) ||
			errors.Is(err, repository.ErrAlreadyBooked) ||
			errors.Is(err, repository.ErrBookingConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("book session: %w", err)
	}
	return booking, nil
}

// ListForUser returns the caller's bookings joined with session details.
func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]model.UserBooking, error) {
	return s.bookings.ListForUser(ctx, userID)
}

// ListForSession returns a session's bookings with booker names, or
// ErrNotFound when the session does not exist.
func (s *BookingService) ListForSession(ctx context.Context, sessionID string) ([]model.SessionBooking, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("look up session: %w", err)
	}
	return s.bookings.ListForSession(ctx, sessionID)
}

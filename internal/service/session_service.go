package service

import (
	"context"
	"strings"

	"tuitionbook/internal/model"
)

// SessionStore is the persistence surface SessionService needs.
type SessionStore interface {
	Create(ctx context.Context, req model.CreateSessionRequest, teacherID string) (*model.Session, error)
	List(ctx context.Context) ([]model.Session, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.Session, error)
	GetByID(ctx context.Context, id string) (*model.Session, error)
}

// SessionService orchestrates session catalog operations.
type SessionService struct {
	sessions SessionStore
}

// NewSessionService constructs a SessionService.
func NewSessionService(sessions SessionStore) *SessionService {
	return &SessionService{sessions: sessions}
}

// CreateSession validates the request and delegates to the repository.
func (s *SessionService) CreateSession(ctx context.Context, req model.CreateSessionRequest, teacherID string) (*model.Session, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	req.Details = strings.TrimSpace(req.Details)

	if req.Subject == "" {
		return nil, validationf("subject is required")
	}
	if req.Details == "" {
		return nil, validationf("details are required")
	}
	if req.StartsAt.IsZero() {
		return nil, validationf("datetime is required")
	}
	if req.DurationMinutes <= 0 {
		return nil, validationf("duration must be a positive number of minutes")
	}
	if req.MaxStudents <= 0 {
		return nil, validationf("maxStudents must be a positive integer")
	}
	if req.MaxStudents > 1000 {
		return nil, validationf("maxStudents cannot exceed 1,000")
	}

	return s.sessions.Create(ctx, req, teacherID)
}

// ListSessions returns all sessions, newest first.
func (s *SessionService) ListSessions(ctx context.Context) ([]model.Session, error) {
	return s.sessions.List(ctx)
}

// ListByTeacher returns the sessions a teacher owns, newest first.
func (s *SessionService) ListByTeacher(ctx context.Context, teacherID string) ([]model.Session, error) {
	if teacherID == "" {
		return nil, validationf("teacher id is required")
	}
	return s.sessions.ListByTeacher(ctx, teacherID)
}

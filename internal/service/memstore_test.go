package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tuitionbook/internal/model"
	"tuitionbook/internal/repository"
)

// memCatalog is an in-memory stand-in for the session and booking
// repositories. Book enforces the same capacity and uniqueness rules the
// real transaction does, with a mutex standing in for the row lock, so the
// concurrency properties of the service and handler layers can be tested
// without a database.
type memCatalog struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	order    []string // session ids in insertion order
	bookings []model.Booking
	users    map[string]string // user id -> display name
	nextID   int
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		sessions: make(map[string]*model.Session),
		users:    make(map[string]string),
	}
}

func (m *memCatalog) genID() string {
	m.nextID++
	return fmt.Sprintf("id-%d", m.nextID)
}

func (m *memCatalog) addUser(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.genID()
	m.users[id] = name
	return id
}

func (m *memCatalog) Create(_ context.Context, req model.CreateSessionRequest, teacherID string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &model.Session{
		ID:              m.genID(),
		Subject:         req.Subject,
		Details:         req.Details,
		StartsAt:        req.StartsAt,
		DurationMinutes: req.DurationMinutes,
		MaxStudents:     req.MaxStudents,
		TeacherID:       teacherID,
		CreatedAt:       time.Now().UTC(),
	}
	m.sessions[s.ID] = s
	m.order = append(m.order, s.ID)
	return s, nil
}

// List returns sessions newest first, like the real repository's
// ORDER BY created_at DESC.
func (m *memCatalog) List(context.Context) ([]model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Session
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, *m.sessions[m.order[i]])
	}
	return out, nil
}

func (m *memCatalog) ListByTeacher(_ context.Context, teacherID string) ([]model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Session
	for i := len(m.order) - 1; i >= 0; i-- {
		if s := m.sessions[m.order[i]]; s.TeacherID == teacherID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memCatalog) GetByID(_ context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memCatalog) Book(_ context.Context, userID, sessionID string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if s.CurrentBookings >= s.MaxStudents {
		return nil, repository.ErrSessionFull
	}
	for _, b := range m.bookings {
		if b.UserID == userID && b.SessionID == sessionID {
			return nil, repository.ErrAlreadyBooked
		}
	}

	booking := model.Booking{
		ID:        m.genID(),
		UserID:    userID,
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
	}
	m.bookings = append(m.bookings, booking)
	s.CurrentBookings++
	return &booking, nil
}

func (m *memCatalog) ListForSession(_ context.Context, sessionID string) ([]model.SessionBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.SessionBooking
	for i := len(m.bookings) - 1; i >= 0; i-- {
		b := m.bookings[i]
		if b.SessionID == sessionID {
			out = append(out, model.SessionBooking{
				ID:          b.ID,
				StudentID:   b.UserID,
				StudentName: m.users[b.UserID],
				CreatedAt:   b.CreatedAt,
			})
		}
	}
	return out, nil
}

func (m *memCatalog) ListForUser(_ context.Context, userID string) ([]model.UserBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.UserBooking
	for i := len(m.bookings) - 1; i >= 0; i-- {
		b := m.bookings[i]
		if b.UserID != userID {
			continue
		}
		s := m.sessions[b.SessionID]
		out = append(out, model.UserBooking{
			ID:              b.ID,
			SessionID:       b.SessionID,
			Subject:         s.Subject,
			StartsAt:        s.StartsAt,
			DurationMinutes: s.DurationMinutes,
			TeacherName:     m.users[s.TeacherID],
			CreatedAt:       b.CreatedAt,
		})
	}
	return out, nil
}

// countBookings reports how many bookings exist for a session.
func (m *memCatalog) countBookings(sessionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.SessionID == sessionID {
			n++
		}
	}
	return n
}

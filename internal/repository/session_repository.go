package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tuitionbook/internal/database"
	"tuitionbook/internal/model"
)

// SessionRepository handles persistence for tutoring sessions.
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, subject, details, starts_at, duration_minutes,
	max_students, current_bookings, teacher_id, created_at`

// Create inserts a new session with zero bookings and returns it.
func (r *SessionRepository) Create(ctx context.Context, req model.CreateSessionRequest, teacherID string) (*model.Session, error) {
	sess := &model.Session{
		ID:              uuid.New().String(),
		Subject:         req.Subject,
		Details:         req.Details,
		StartsAt:        req.StartsAt.UTC(),
		DurationMinutes: req.DurationMinutes,
		MaxStudents:     req.MaxStudents,
		CurrentBookings: 0,
		TeacherID:       teacherID,
		CreatedAt:       time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO sessions (id, subject, details, starts_at, duration_minutes,
		                       max_students, current_bookings, teacher_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sess.ID, sess.Subject, sess.Details, sess.StartsAt, sess.DurationMinutes,
		sess.MaxStudents, sess.CurrentBookings, sess.TeacherID, sess.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// List returns all sessions ordered by creation time descending.
func (r *SessionRepository) List(ctx context.Context) ([]model.Session, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// ListByTeacher returns the sessions owned by a teacher, newest first.
func (r *SessionRepository) ListByTeacher(ctx context.Context, teacherID string) ([]model.Session, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE teacher_id = $1
		 ORDER BY created_at DESC`,
		teacherID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions by teacher: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// GetByID returns a single session or ErrNotFound.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	err := r.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Subject, &s.Details, &s.StartsAt, &s.DurationMinutes,
		&s.MaxStudents, &s.CurrentBookings, &s.TeacherID, &s.CreatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSessions(rows rowScanner) ([]model.Session, error) {
	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.Subject, &s.Details, &s.StartsAt, &s.DurationMinutes,
			&s.MaxStudents, &s.CurrentBookings, &s.TeacherID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

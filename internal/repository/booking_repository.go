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

// BookingRepository handles persistence for bookings, including the
// concurrency-safe seat reservation.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Book reserves one seat in a session for a student, inside a single
// serialised transaction.
//
// Two concurrent requests that both read free capacity before either writes
// would overbook the session (check-then-act race). To prevent it, the
// session row is locked with SELECT ... FOR UPDATE for the duration of the
// transaction, so conflicting writers on the same session queue up behind
// each other. The counter increment additionally carries a
// current_bookings < max_students guard, so even a writer that slipped past
// the read cannot push the counter over capacity.
//
// All failure paths roll back; a cancelled request context aborts the
// transaction the same way.
func (r *BookingRepository) Book(ctx context.Context, userID, sessionID string) (*model.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	// Ensure the transaction is always resolved.
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Lock the session row. Concurrent bookings for the same session block
	// here until we commit or roll back.
	var maxStudents, currentBookings int
	err = tx.QueryRow(ctx,
		`SELECT max_students, current_bookings
		 FROM sessions
		 WHERE id = $1
		 FOR UPDATE`,
		sessionID,
	).Scan(&maxStudents, &currentBookings)
	if err != nil {
		if database.IsNoRows(err) {
			err = ErrNotFound
			return nil, err
		}
		return nil, fmt.Errorf("lock session row: %w", err)
	}

	if currentBookings >= maxStudents {
		err = ErrSessionFull
		return nil, err
	}

	var dupCount int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND session_id = $2`,
		userID, sessionID,
	).Scan(&dupCount)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dupCount > 0 {
		err = ErrAlreadyBooked
		return nil, err
	}

	booking := &model.Booking{
		ID:        uuid.New().String(),
		UserID:    userID,
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, user_id, session_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		booking.ID, booking.UserID, booking.SessionID, booking.CreatedAt,
	)
	if err != nil {
		// The (user_id, session_id) unique constraint backs up the
		// duplicate check above.
		if database.IsUniqueViolation(err) {
			err = ErrAlreadyBooked
			return nil, err
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	// Conditional increment: zero rows affected means the capacity check
	// no longer holds, so treat it exactly like a full session.
	tag, err := tx.Exec(ctx,
		`UPDATE sessions
		 SET current_bookings = current_bookings + 1
		 WHERE id = $1 AND current_bookings < max_students`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("increment booking count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = ErrSessionFull
		return nil, err
	}

	if cerr := tx.Commit(ctx); cerr != nil {
		err = fmt.Errorf("commit booking (%v): %w", cerr, ErrBookingConflict)
		return nil, err
	}

	return booking, nil
}

// ListForSession returns a session's bookings joined with each booker's
// display name, newest first.
func (r *BookingRepository) ListForSession(ctx context.Context, sessionID string) ([]model.SessionBooking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.user_id, u.name, b.created_at
		 FROM bookings b
		 JOIN users u ON u.id = b.user_id
		 WHERE b.session_id = $1
		 ORDER BY b.created_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list session bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.SessionBooking
	for rows.Next() {
		var b model.SessionBooking
		if err := rows.Scan(&b.ID, &b.StudentID, &b.StudentName, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ListForUser returns a user's bookings joined with the sessions they
// reserve, newest first.
func (r *BookingRepository) ListForUser(ctx context.Context, userID string) ([]model.UserBooking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.session_id, s.subject, s.starts_at, s.duration_minutes, u.name, b.created_at
		 FROM bookings b
		 JOIN sessions s ON s.id = b.session_id
		 JOIN users u ON u.id = s.teacher_id
		 WHERE b.user_id = $1
		 ORDER BY b.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.UserBooking
	for rows.Next() {
		var b model.UserBooking
		if err := rows.Scan(&b.ID, &b.SessionID, &b.Subject, &b.StartsAt,
			&b.DurationMinutes, &b.TeacherName, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

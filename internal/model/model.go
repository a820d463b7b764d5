// Package model defines the core domain types for the tuition booking system.
package model

import "time"

// Roles a registered user can hold.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// User is a registered account: a student who books sessions or a
// teacher who offers them. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session represents a scheduled tutoring slot offered by a teacher.
type Session struct {
	ID              string    `json:"id"`
	Subject         string    `json:"subject"`
	Details         string    `json:"details"`
	StartsAt        time.Time `json:"datetime"`
	DurationMinutes int       `json:"duration"`
	MaxStudents     int       `json:"maxStudents"`
	CurrentBookings int       `json:"currentBookings"`
	TeacherID       string    `json:"teacherId"`
	CreatedAt       time.Time `json:"created_at"`
}

// Remaining returns the number of available seats.
func (s *Session) Remaining() int {
	return s.MaxStudents - s.CurrentBookings
}

// IsFull returns true when no seats remain.
func (s *Session) IsFull() bool {
	return s.CurrentBookings >= s.MaxStudents
}

// Booking reserves one seat in a session for one student.
type Booking struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionBooking is a booking row joined with the booker's display name,
// as shown on the teacher dashboard.
type SessionBooking struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"studentId"`
	StudentName string    `json:"studentName"`
	CreatedAt   time.Time `json:"bookingDate"`
}

// UserBooking is a booking row joined with the session it reserves,
// as shown on the student dashboard.
type UserBooking struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id"`
	Subject         string    `json:"subject"`
	StartsAt        time.Time `json:"datetime"`
	DurationMinutes int       `json:"duration"`
	TeacherName     string    `json:"teacherName"`
	CreatedAt       time.Time `json:"booked_at"`
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest is the payload for exchanging credentials for a token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateSessionRequest is the payload for a teacher publishing a new session.
type CreateSessionRequest struct {
	Subject         string    `json:"subject"`
	Details         string    `json:"details"`
	StartsAt        time.Time `json:"datetime"`
	DurationMinutes int       `json:"duration"`
	MaxStudents     int       `json:"maxStudents"`
}

// CreateBookingRequest is the payload for reserving a seat.
type CreateBookingRequest struct {
	SessionID string `json:"session_id"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

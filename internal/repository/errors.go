// Package repository implements all database queries for the tuition
// booking system. It uses pgx directly (no ORM) for transparency and
// performance.
package repository

import "errors"

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// ErrSessionFull is returned when a session has no remaining capacity.
var ErrSessionFull = errors.New("session is fully booked")

// ErrAlreadyBooked is returned when the same user books a session twice.
var ErrAlreadyBooked = errors.New("session already booked by this user")

// ErrBookingConflict is returned when a booking transaction fails to commit,
// typically because a concurrent writer won the race. The caller may retry.
var ErrBookingConflict = errors.New("booking transaction conflict")

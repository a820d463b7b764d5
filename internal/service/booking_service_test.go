package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tuitionbook/internal/model"
	"tuitionbook/internal/repository"
)

func sessionReq(capacity int) model.CreateSessionRequest {
	return model.CreateSessionRequest{
		Subject:         "Math",
		Details:         "Intro to algebra",
		StartsAt:        time.Now().Add(24 * time.Hour),
		DurationMinutes: 60,
		MaxStudents:     capacity,
	}
}

func TestBookRequiresSessionID(t *testing.T) {
	cat := newMemCatalog()
	svc := NewBookingService(cat, cat)

	_, err := svc.Book(context.Background(), "user-1", "")
	if err == nil {
		t.Fatalf("expected missing session_id to fail")
	}
	if !IsValidation(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestBookUnknownSession(t *testing.T) {
	cat := newMemCatalog()
	svc := NewBookingService(cat, cat)

	_, err := svc.Book(context.Background(), "user-1", "no-such-session")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n := cat.countBookings("no-such-session"); n != 0 {
		t.Fatalf("expected no bookings inserted, got %d", n)
	}
}

func TestBookDuplicateLeavesCounterUnchanged(t *testing.T) {
	ctx := context.Background()
	cat := newMemCatalog()
	svc := NewBookingService(cat, cat)

	teacher := cat.addUser("Teacher")
	student := cat.addUser("Student")
	sess, err := cat.Create(ctx, sessionReq(5), teacher)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if _, err := svc.Book(ctx, student, sess.ID); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := svc.Book(ctx, student, sess.ID); !errors.Is(err, repository.ErrAlreadyBooked) {
		t.Fatalf("expected ErrAlreadyBooked, got %v", err)
	}

	got, err := cat.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.CurrentBookings != 1 {
		t.Fatalf("expected counter unchanged at 1, got %d", got.CurrentBookings)
	}
}

func TestConcurrentBookingsNeverOverbook(t *testing.T) {
	ctx := context.Background()
	cat := newMemCatalog()
	svc := NewBookingService(cat, cat)

	const capacity = 5
	const students = 20

	teacher := cat.addUser("Teacher")
	sess, err := cat.Create(ctx, sessionReq(capacity), teacher)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, students)
	for i := 0; i < students; i++ {
		student := cat.addUser("Student")
		wg.Add(1)
		go func(i int, student string) {
			defer wg.Done()
			_, errs[i] = svc.Book(ctx, student, sess.ID)
		}(i, student)
	}
	wg.Wait()

	succeeded, full := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, repository.ErrSessionFull):
			full++
		default:
			t.Fatalf("unexpected booking error: %v", err)
		}
	}
	if succeeded != capacity {
		t.Fatalf("expected exactly %d successful bookings, got %d", capacity, succeeded)
	}
	if full != students-capacity {
		t.Fatalf("expected %d full rejections, got %d", students-capacity, full)
	}

	got, err := cat.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.CurrentBookings != capacity {
		t.Fatalf("counter drifted: %d != %d", got.CurrentBookings, capacity)
	}
	if n := cat.countBookings(sess.ID); n != got.CurrentBookings {
		t.Fatalf("counter %d disagrees with booking rows %d", got.CurrentBookings, n)
	}
}

func TestListForSessionUnknownSession(t *testing.T) {
	cat := newMemCatalog()
	svc := NewBookingService(cat, cat)

	_, err := svc.ListForSession(context.Background(), "no-such-session")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// flakySessions fails session lookups with an arbitrary error.
type flakySessions struct {
	*memCatalog
	getErr error
}

func (f flakySessions) GetByID(context.Context, string) (*model.Session, error) {
	return nil, f.getErr
}

func TestListForSessionKeepsStoreFailuresDistinct(t *testing.T) {
	cat := newMemCatalog()
	dbDown := errors.New("failed to connect to `host=db`: dial error (SQLSTATE 08006)")
	svc := NewBookingService(cat, flakySessions{memCatalog: cat, getErr: dbDown})

	_, err := svc.ListForSession(context.Background(), "s-1")
	if errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("store failure reported as not found: %v", err)
	}
	if !errors.Is(err, dbDown) {
		t.Fatalf("expected the store error to propagate, got %v", err)
	}
}

func TestListForSessionNewestFirst(t *testing.T) {
	ctx := context.Background()
	cat := newMemCatalog()
	svc := NewBookingService(cat, cat)

	teacher := cat.addUser("Teacher")
	sess, err := cat.Create(ctx, sessionReq(5), teacher)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	for _, name := range []string{"One", "Two", "Three"} {
		student := cat.addUser(name)
		if _, err := svc.Book(ctx, student, sess.ID); err != nil {
			t.Fatalf("book %s: %v", name, err)
		}
	}

	bookings, err := svc.ListForSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("list for session: %v", err)
	}
	want := []string{"Three", "Two", "One"}
	if len(bookings) != len(want) {
		t.Fatalf("expected %d bookings, got %d", len(want), len(bookings))
	}
	for i, b := range bookings {
		if b.StudentName != want[i] {
			t.Fatalf("expected newest first %v, got %+v", want, bookings)
		}
	}
}

func TestListForUserJoinsSessionFields(t *testing.T) {
	ctx := context.Background()
	cat := newMemCatalog()
	svc := NewBookingService(cat, cat)

	teacher := cat.addUser("Ms. Lina")
	student := cat.addUser("Student")
	sess, err := cat.Create(ctx, sessionReq(3), teacher)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := svc.Book(ctx, student, sess.ID); err != nil {
		t.Fatalf("book: %v", err)
	}

	bookings, err := svc.ListForUser(ctx, student)
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}
	b := bookings[0]
	if b.Subject != "Math" || b.TeacherName != "Ms. Lina" || b.SessionID != sess.ID {
		t.Fatalf("joined fields wrong: %+v", b)
	}
}

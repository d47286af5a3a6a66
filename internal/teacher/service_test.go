package teacher

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"asistedocente/internal/model"
	"asistedocente/internal/store"
	"asistedocente/internal/validate"
)

func newService(t *testing.T) *Service {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st)
}

func register(t *testing.T, svc *Service) model.Teacher {
	t.Helper()
	teacher, err := svc.Register(context.Background(), model.Teacher{
		Name:     "Laura",
		Surname:  "Otero",
		Email:    "laura@example.edu",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return teacher
}

func TestRegisterValidates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, model.Teacher{Name: "L4ura", Surname: "Otero", Email: "a@b.edu", Password: "x"})
	var fieldErr *validate.FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "name" {
		t.Fatalf("expected name field error, got %v", err)
	}

	_, err = svc.Register(ctx, model.Teacher{Name: "Laura", Surname: "Otero", Email: "a@b.edu", Password: ""})
	if !errors.As(err, &fieldErr) || fieldErr.Field != "password" {
		t.Fatalf("expected password field error, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newService(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), model.Teacher{
		Name:     "Otra",
		Surname:  "Persona",
		Email:    "laura@example.edu",
		Password: "whatever",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newService(t)
	teacher := register(t, svc)
	ctx := context.Background()

	got, err := svc.Authenticate(ctx, "laura@example.edu", "secret123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != teacher.ID {
		t.Fatalf("expected teacher %d, got %d", teacher.ID, got.ID)
	}

	if _, err := svc.Authenticate(ctx, "laura@example.edu", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.edu", "secret123"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for unknown email, got %v", err)
	}
}

func TestAuthenticateRejectsDeactivated(t *testing.T) {
	svc := newService(t)
	teacher := register(t, svc)
	ctx := context.Background()

	if err := svc.Deactivate(ctx, teacher.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "laura@example.edu", "secret123"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for inactive account, got %v", err)
	}
}

func TestUpdateKeepsPasswordWhenBlank(t *testing.T) {
	svc := newService(t)
	teacher := register(t, svc)
	ctx := context.Background()

	teacher.Name = "Laura Beatriz"
	teacher.Password = ""
	if _, err := svc.Update(ctx, teacher); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "laura@example.edu", "secret123"); err != nil {
		t.Fatalf("expected original password kept, got %v", err)
	}

	teacher.Password = "newpass"
	if _, err := svc.Update(ctx, teacher); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "laura@example.edu", "newpass"); err != nil {
		t.Fatalf("expected new password active, got %v", err)
	}
}

func TestUpdateKeepsAccountActive(t *testing.T) {
	svc := newService(t)
	teacher := register(t, svc)
	ctx := context.Background()

	updated, err := svc.Update(ctx, model.Teacher{
		ID:      teacher.ID,
		Name:    "Laura Beatriz",
		Surname: teacher.Surname,
		Email:   teacher.Email,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Active {
		t.Fatalf("expected account still active, got %+v", updated)
	}
	if _, err := svc.Authenticate(ctx, teacher.Email, "secret123"); err != nil {
		t.Fatalf("expected login to keep working after update, got %v", err)
	}
}

func TestSetPhoto(t *testing.T) {
	svc := newService(t)
	teacher := register(t, svc)
	ctx := context.Background()

	if err := svc.SetPhoto(ctx, teacher.ID, "/photos/abc.jpg"); err != nil {
		t.Fatalf("set photo: %v", err)
	}
	got, err := svc.Get(ctx, teacher.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Photo == nil || *got.Photo != "/photos/abc.jpg" {
		t.Fatalf("expected photo path stored, got %v", got.Photo)
	}

	old, err := svc.ClearPhoto(ctx, teacher.ID)
	if err != nil {
		t.Fatalf("clear photo: %v", err)
	}
	if old != "/photos/abc.jpg" {
		t.Fatalf("expected old path returned, got %q", old)
	}
	got, err = svc.Get(ctx, teacher.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Photo != nil {
		t.Fatalf("expected photo cleared, got %v", *got.Photo)
	}
}

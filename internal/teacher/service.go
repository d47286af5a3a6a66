// Package teacher manages teacher accounts and credential checks.
package teacher

import (
	"context"
	"errors"

	"asistedocente/internal/model"
	"asistedocente/internal/store"
	"asistedocente/internal/validate"
)

var (
	// ErrNotFound is returned when the referenced teacher is absent.
	ErrNotFound = errors.New("teacher not found")
	// ErrBadCredentials is returned on a failed login.
	ErrBadCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering an email already in use.
	ErrEmailTaken = errors.New("email already registered")
)

// Service validates and persists teachers.
type Service struct {
	store *store.Store
}

// NewService creates a service backed by the store.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

func validateTeacher(t model.Teacher) error {
	if err := validate.PersonName("name", t.Name); err != nil {
		return err
	}
	if err := validate.PersonName("surname", t.Surname); err != nil {
		return err
	}
	if err := validate.Email(t.Email, true); err != nil {
		return err
	}
	if t.Phone != nil {
		if err := validate.Phone(*t.Phone); err != nil {
			return err
		}
	}
	return nil
}

// Register creates a new active teacher account.
func (s *Service) Register(ctx context.Context, t model.Teacher) (model.Teacher, error) {
	if err := validateTeacher(t); err != nil {
		return model.Teacher{}, err
	}
	if err := validate.Required("password", t.Password); err != nil {
		return model.Teacher{}, err
	}
	existing, err := s.store.GetTeacherByEmail(ctx, t.Email)
	if err != nil {
		return model.Teacher{}, err
	}
	if existing != nil {
		return model.Teacher{}, ErrEmailTaken
	}
	t.ID = 0
	t.Active = true
	if err := s.store.InsertTeacher(ctx, &t); err != nil {
		return model.Teacher{}, err
	}
	return t, nil
}

// Authenticate checks an email and password pair and returns the matching
// active teacher. Passwords are compared as exact plaintext strings; this
// mirrors the stored representation.
func (s *Service) Authenticate(ctx context.Context, email, password string) (model.Teacher, error) {
	t, err := s.store.GetTeacherByEmail(ctx, email)
	if err != nil {
		return model.Teacher{}, err
	}
	if t == nil || !t.Active || t.Password != password {
		return model.Teacher{}, ErrBadCredentials
	}
	return *t, nil
}

// Get returns a teacher by id.
func (s *Service) Get(ctx context.Context, id int64) (model.Teacher, error) {
	t, err := s.store.GetTeacher(ctx, id)
	if err != nil {
		return model.Teacher{}, err
	}
	if t == nil {
		return model.Teacher{}, ErrNotFound
	}
	return *t, nil
}

// List returns all active teachers.
func (s *Service) List(ctx context.Context) ([]model.Teacher, error) {
	return s.store.ListTeachers(ctx)
}

// Update rewrites a teacher's profile. The password is kept when the
// incoming value is blank.
func (s *Service) Update(ctx context.Context, t model.Teacher) (model.Teacher, error) {
	if err := validateTeacher(t); err != nil {
		return model.Teacher{}, err
	}
	current, err := s.store.GetTeacher(ctx, t.ID)
	if err != nil {
		return model.Teacher{}, err
	}
	if current == nil {
		return model.Teacher{}, ErrNotFound
	}
	if t.Password == "" {
		t.Password = current.Password
	}
	t.Active = current.Active
	t.CreatedAt = current.CreatedAt
	if err := s.store.UpdateTeacher(ctx, t); err != nil {
		return model.Teacher{}, err
	}
	return t, nil
}

// SetPhoto stores the durable photo path on the teacher record.
func (s *Service) SetPhoto(ctx context.Context, id int64, path string) error {
	t, err := s.store.GetTeacher(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNotFound
	}
	t.Photo = &path
	return s.store.UpdateTeacher(ctx, *t)
}

// ClearPhoto removes the photo path from the teacher record and returns
// the old path so the caller can delete the file.
func (s *Service) ClearPhoto(ctx context.Context, id int64) (string, error) {
	t, err := s.store.GetTeacher(ctx, id)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", ErrNotFound
	}
	old := ""
	if t.Photo != nil {
		old = *t.Photo
	}
	t.Photo = nil
	if err := s.store.UpdateTeacher(ctx, *t); err != nil {
		return "", err
	}
	return old, nil
}

// Deactivate soft-deletes a teacher. Old attendance data stays reachable.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.store.DeactivateTeacher(ctx, id)
}

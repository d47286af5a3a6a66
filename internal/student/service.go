// Package student manages rosters: enrollment, search and transfers.
package student

import (
	"context"
	"errors"

	"github.com/mattn/go-sqlite3"

	"asistedocente/internal/model"
	"asistedocente/internal/store"
	"asistedocente/internal/validate"
)

var (
	// ErrNotFound is returned when the referenced student is absent.
	ErrNotFound = errors.New("student not found")
	// ErrDuplicateCode is the fixed message for a code uniqueness violation.
	ErrDuplicateCode = errors.New("a student with that code already exists")
)

// Service validates and persists students.
type Service struct {
	store *store.Store
}

// NewService creates a service backed by the store.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

func validateStudent(st model.Student) error {
	if err := validate.PersonName("name", st.Name); err != nil {
		return err
	}
	if err := validate.PersonName("surname", st.Surname); err != nil {
		return err
	}
	if err := validate.StudentCode(st.Code); err != nil {
		return err
	}
	if st.Email != nil {
		if err := validate.Email(*st.Email, false); err != nil {
			return err
		}
	}
	return nil
}

// translateUnique maps the sqlite unique-constraint error for the code
// column to the fixed user-facing message.
func translateUnique(err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicateCode
	}
	return err
}

// Enroll adds a new active student to a group. A duplicate enrollment code
// fails and adds no row.
func (s *Service) Enroll(ctx context.Context, st model.Student) (model.Student, error) {
	if err := validateStudent(st); err != nil {
		return model.Student{}, err
	}
	st.ID = 0
	st.Active = true
	if err := s.store.InsertStudent(ctx, &st); err != nil {
		return model.Student{}, translateUnique(err)
	}
	return st, nil
}

// Get returns a student by id.
func (s *Service) Get(ctx context.Context, id int64) (model.Student, error) {
	st, err := s.store.GetStudent(ctx, id)
	if err != nil {
		return model.Student{}, err
	}
	if st == nil {
		return model.Student{}, ErrNotFound
	}
	return *st, nil
}

// List returns all active students ordered by surname then name.
func (s *Service) List(ctx context.Context) ([]model.Student, error) {
	return s.store.ListStudents(ctx)
}

// ListByGroup returns a group's active roster.
func (s *Service) ListByGroup(ctx context.Context, groupID int64) ([]model.Student, error) {
	return s.store.ListStudentsByGroup(ctx, groupID)
}

// Search matches name, surname or code by substring.
func (s *Service) Search(ctx context.Context, query string) ([]model.Student, error) {
	return s.store.SearchStudents(ctx, query)
}

// Update rewrites an existing student. The group is changed through
// Transfer, not here.
func (s *Service) Update(ctx context.Context, st model.Student) (model.Student, error) {
	if err := validateStudent(st); err != nil {
		return model.Student{}, err
	}
	current, err := s.store.GetStudent(ctx, st.ID)
	if err != nil {
		return model.Student{}, err
	}
	if current == nil {
		return model.Student{}, ErrNotFound
	}
	st.GroupID = current.GroupID
	st.Active = current.Active
	st.CreatedAt = current.CreatedAt
	if err := s.store.UpdateStudent(ctx, st); err != nil {
		return model.Student{}, translateUnique(err)
	}
	return st, nil
}

// Transfer reassigns a student to another group in place. Past attendance
// records keep their original group.
func (s *Service) Transfer(ctx context.Context, studentID, newGroupID int64) error {
	st, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		return err
	}
	if st == nil {
		return ErrNotFound
	}
	g, err := s.store.GetGroup(ctx, newGroupID)
	if err != nil {
		return err
	}
	if g == nil {
		return errors.New("destination group not found")
	}
	return s.store.TransferStudent(ctx, studentID, newGroupID)
}

// Delete hard-deletes a student; attendance records cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteStudent(ctx, id)
}

// Deactivate soft-deletes a student, keeping old records reachable.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.store.DeactivateStudent(ctx, id)
}

// CountByGroup counts a group's active roster.
func (s *Service) CountByGroup(ctx context.Context, groupID int64) (int, error) {
	return s.store.CountStudentsByGroup(ctx, groupID)
}

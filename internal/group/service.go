// Package group manages class groups.
package group

import (
	"context"
	"errors"

	"asistedocente/internal/model"
	"asistedocente/internal/store"
	"asistedocente/internal/validate"
)

// ErrNotFound is returned when the referenced group is absent.
var ErrNotFound = errors.New("group not found")

// Service validates and persists groups.
type Service struct {
	store *store.Store
}

// NewService creates a service backed by the store.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

func validateGroup(g model.Group) error {
	if err := validate.GroupName("name", g.Name); err != nil {
		return err
	}
	if err := validate.GroupName("subject", g.Subject); err != nil {
		return err
	}
	if g.Schedule != nil {
		if err := validate.MaxLen("schedule", *g.Schedule, 100); err != nil {
			return err
		}
	}
	if g.Description != nil {
		if err := validate.MaxLen("description", *g.Description, 500); err != nil {
			return err
		}
	}
	return nil
}

// Create adds a new active group owned by g.TeacherID.
func (s *Service) Create(ctx context.Context, g model.Group) (model.Group, error) {
	if err := validateGroup(g); err != nil {
		return model.Group{}, err
	}
	g.ID = 0
	g.Active = true
	if err := s.store.InsertGroup(ctx, &g); err != nil {
		return model.Group{}, err
	}
	return g, nil
}

// Get returns a group by id.
func (s *Service) Get(ctx context.Context, id int64) (model.Group, error) {
	g, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return model.Group{}, err
	}
	if g == nil {
		return model.Group{}, ErrNotFound
	}
	return *g, nil
}

// List returns all active groups ordered by name.
func (s *Service) List(ctx context.Context) ([]model.Group, error) {
	return s.store.ListGroups(ctx)
}

// ListByTeacher returns a teacher's active groups.
func (s *Service) ListByTeacher(ctx context.Context, teacherID int64) ([]model.Group, error) {
	return s.store.ListGroupsByTeacher(ctx, teacherID)
}

// Update rewrites an existing group.
func (s *Service) Update(ctx context.Context, g model.Group) (model.Group, error) {
	if err := validateGroup(g); err != nil {
		return model.Group{}, err
	}
	current, err := s.store.GetGroup(ctx, g.ID)
	if err != nil {
		return model.Group{}, err
	}
	if current == nil {
		return model.Group{}, ErrNotFound
	}
	g.TeacherID = current.TeacherID
	g.Active = current.Active
	g.CreatedAt = current.CreatedAt
	if err := s.store.UpdateGroup(ctx, g); err != nil {
		return model.Group{}, err
	}
	return g, nil
}

// Delete hard-deletes a group. Students and attendance records cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteGroup(ctx, id)
}

// Deactivate soft-deletes a group, keeping its history referenceable.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.store.DeactivateGroup(ctx, id)
}

// CountByTeacher counts a teacher's active groups.
func (s *Service) CountByTeacher(ctx context.Context, teacherID int64) (int, error) {
	return s.store.CountGroupsByTeacher(ctx, teacherID)
}

// Package attendance implements the attendance-taking workflow: a
// per-(group, date) session with in-memory choices persisted via
// lookup-then-upsert on the (student, day) natural key.
package attendance

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"asistedocente/internal/model"
	"asistedocente/internal/store"
)

var recordsSaved = promauto.NewCounter(prometheus.CounterOpts{
	Name: "attendance_records_saved_total",
	Help: "Attendance records written by session saves.",
})

// Service opens sessions and exposes the record-level operations that live
// outside a session.
type Service struct {
	store *store.Store
}

// NewService creates a service backed by the store.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Open starts an attendance session for a group and calendar day.
func (s *Service) Open(ctx context.Context, groupID int64, date time.Time) *Session {
	return NewSession(ctx, s.store, groupID, date)
}

// RecordsForDay returns a group's persisted records for one day.
func (s *Service) RecordsForDay(ctx context.Context, groupID int64, date time.Time) ([]model.AttendanceRecord, error) {
	return s.store.ListRecordsByGroupAndDate(ctx, groupID, date)
}

// StudentHistory returns a student's records, newest first.
func (s *Service) StudentHistory(ctx context.Context, studentID int64) ([]model.AttendanceRecord, error) {
	return s.store.ListRecordsByStudent(ctx, studentID)
}

// Dates lists the distinct days a group has records for.
func (s *Service) Dates(ctx context.Context, groupID int64) ([]time.Time, error) {
	return s.store.ListRecordDatesByGroup(ctx, groupID)
}

// ClearDay hard-deletes every record a group has for one day.
func (s *Service) ClearDay(ctx context.Context, groupID int64, date time.Time) error {
	return s.store.DeleteRecordsByGroupAndDate(ctx, groupID, date)
}

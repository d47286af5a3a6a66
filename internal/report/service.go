// Package report computes attendance statistics over inclusive date
// ranges, for one student or a whole group.
package report

import (
	"context"
	"time"

	"asistedocente/internal/model"
	"asistedocente/internal/store"
)

// GroupReport is the aggregate for one group over [Start, End].
type GroupReport struct {
	GroupID       int64     `json:"group_id"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	TotalStudents int       `json:"total_students"`
	DaysRecorded  int       `json:"days_recorded"`
	TotalRecords  int       `json:"total_records"`

	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Excused int `json:"excused"`

	PresentPct float64 `json:"present_pct"`
	AbsentPct  float64 `json:"absent_pct"`
	LatePct    float64 `json:"late_pct"`
	ExcusedPct float64 `json:"excused_pct"`

	// OverallPct is presents over (students x distinct days with records).
	// The denominator models markable student-days and is a different
	// metric than the per-status percentages above.
	OverallPct float64 `json:"overall_pct"`
}

// Service aggregates attendance records.
type Service struct {
	store *store.Store
}

// NewService creates a service backed by the store.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// StudentPercentage returns presents over total records for the student in
// [start, end], as a 0-100 figure. A student with no records scores 0.
func (s *Service) StudentPercentage(ctx context.Context, studentID int64, start, end time.Time) (float64, error) {
	total, err := s.store.CountRecordsByStudentInRange(ctx, studentID, start, end)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	present, err := s.store.CountRecordsByStudentStatusInRange(ctx, studentID, model.StatusPresent, start, end)
	if err != nil {
		return 0, err
	}
	return float64(present) / float64(total) * 100, nil
}

// ForGroup computes the group aggregate over [start, end], endpoints
// included.
func (s *Service) ForGroup(ctx context.Context, groupID int64, start, end time.Time) (*GroupReport, error) {
	totalStudents, err := s.store.CountStudentsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListRecordsByGroupInRange(ctx, groupID, start, end)
	if err != nil {
		return nil, err
	}

	r := &GroupReport{
		GroupID:       groupID,
		Start:         model.DateOnly(start),
		End:           model.DateOnly(end),
		TotalStudents: totalStudents,
		TotalRecords:  len(records),
	}

	days := map[time.Time]struct{}{}
	for _, rec := range records {
		days[model.DateOnly(rec.Date)] = struct{}{}
		switch rec.Status {
		case model.StatusPresent:
			r.Present++
		case model.StatusAbsent:
			r.Absent++
		case model.StatusLate:
			r.Late++
		case model.StatusExcused:
			r.Excused++
		}
	}
	r.DaysRecorded = len(days)

	if r.TotalRecords > 0 {
		total := float64(r.TotalRecords)
		r.PresentPct = float64(r.Present) / total * 100
		r.AbsentPct = float64(r.Absent) / total * 100
		r.LatePct = float64(r.Late) / total * 100
		r.ExcusedPct = float64(r.Excused) / total * 100
	}
	if r.TotalStudents > 0 && r.DaysRecorded > 0 {
		r.OverallPct = float64(r.Present) / float64(r.TotalStudents*r.DaysRecorded) * 100
	}
	return r, nil
}

// StudentRecords returns the records backing a per-student export.
func (s *Service) StudentRecords(ctx context.Context, studentID int64, start, end time.Time) ([]model.AttendanceRecord, error) {
	return s.store.ListRecordsByStudentInRange(ctx, studentID, start, end)
}

// GroupRecords returns the records backing a per-group export.
func (s *Service) GroupRecords(ctx context.Context, groupID int64, start, end time.Time) ([]model.AttendanceRecord, error) {
	return s.store.ListRecordsByGroupInRange(ctx, groupID, start, end)
}

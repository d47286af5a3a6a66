package report

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"asistedocente/internal/model"
	"asistedocente/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func seedGroup(t *testing.T, st *store.Store, size int) (model.Group, []model.Student) {
	t.Helper()
	ctx := context.Background()
	teacher := model.Teacher{Name: "Laura", Surname: "Otero", Email: "laura@example.edu", Password: "secret", Active: true}
	if err := st.InsertTeacher(ctx, &teacher); err != nil {
		t.Fatalf("insert teacher: %v", err)
	}
	group := model.Group{Name: "5A", Subject: "Math", TeacherID: teacher.ID, Active: true}
	if err := st.InsertGroup(ctx, &group); err != nil {
		t.Fatalf("insert group: %v", err)
	}
	students := make([]model.Student, 0, size)
	for i := 0; i < size; i++ {
		s := model.Student{Name: "Alumno", Surname: "N", Code: "EST-" + string(rune('1'+i)), GroupID: group.ID, Active: true}
		if err := st.InsertStudent(ctx, &s); err != nil {
			t.Fatalf("insert student: %v", err)
		}
		students = append(students, s)
	}
	return group, students
}

func record(t *testing.T, st *store.Store, studentID, groupID int64, day time.Time, status model.Status) {
	t.Helper()
	r := model.AttendanceRecord{StudentID: studentID, GroupID: groupID, Date: day, Status: status, RecordedAt: day}
	if err := st.InsertRecord(context.Background(), &r); err != nil {
		t.Fatalf("insert record: %v", err)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestStudentPercentageNoRecords(t *testing.T) {
	st := newTestStore(t)
	_, students := seedGroup(t, st, 1)
	svc := NewService(st)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	pct, err := svc.StudentPercentage(context.Background(), students[0].ID, start, end)
	if err != nil {
		t.Fatalf("percentage: %v", err)
	}
	if pct != 0 {
		t.Fatalf("expected 0 for no records, got %v", pct)
	}
}

func TestStudentPercentage(t *testing.T) {
	st := newTestStore(t)
	group, students := seedGroup(t, st, 1)
	svc := NewService(st)

	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	record(t, st, students[0].ID, group.ID, base, model.StatusPresent)
	record(t, st, students[0].ID, group.ID, base.AddDate(0, 0, 1), model.StatusAbsent)
	record(t, st, students[0].ID, group.ID, base.AddDate(0, 0, 2), model.StatusPresent)
	record(t, st, students[0].ID, group.ID, base.AddDate(0, 0, 3), model.StatusLate)

	pct, err := svc.StudentPercentage(context.Background(), students[0].ID, base, base.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("percentage: %v", err)
	}
	if !almostEqual(pct, 50) {
		t.Fatalf("expected 50, got %v", pct)
	}

	// Records outside the range are excluded; endpoints are inclusive.
	pct, err = svc.StudentPercentage(context.Background(), students[0].ID, base, base)
	if err != nil {
		t.Fatalf("percentage: %v", err)
	}
	if !almostEqual(pct, 100) {
		t.Fatalf("expected 100 for the single in-range day, got %v", pct)
	}
}

func TestForGroupEmpty(t *testing.T) {
	st := newTestStore(t)
	group, _ := seedGroup(t, st, 2)
	svc := NewService(st)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	r, err := svc.ForGroup(context.Background(), group.ID, start, start.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if r.TotalRecords != 0 || r.DaysRecorded != 0 {
		t.Fatalf("expected empty report, got %+v", r)
	}
	if r.PresentPct != 0 || r.OverallPct != 0 {
		t.Fatalf("expected zero percentages, got %+v", r)
	}
}

func TestForGroup(t *testing.T) {
	st := newTestStore(t)
	group, students := seedGroup(t, st, 2)
	svc := NewService(st)

	day1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	// Day 1: both present. Day 2: one absent, one unmarked.
	record(t, st, students[0].ID, group.ID, day1, model.StatusPresent)
	record(t, st, students[1].ID, group.ID, day1, model.StatusPresent)
	record(t, st, students[0].ID, group.ID, day2, model.StatusAbsent)

	r, err := svc.ForGroup(context.Background(), group.ID, day1, day2)
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	if r.TotalStudents != 2 || r.DaysRecorded != 2 || r.TotalRecords != 3 {
		t.Fatalf("unexpected counts: %+v", r)
	}
	if r.Present != 2 || r.Absent != 1 {
		t.Fatalf("unexpected tallies: %+v", r)
	}

	// Per-status shares divide by records on file.
	if !almostEqual(r.PresentPct, 2.0/3.0*100) {
		t.Fatalf("expected present pct %.4f, got %v", 2.0/3.0*100, r.PresentPct)
	}
	if !almostEqual(r.AbsentPct, 1.0/3.0*100) {
		t.Fatalf("expected absent pct %.4f, got %v", 1.0/3.0*100, r.AbsentPct)
	}

	// Overall divides by students x distinct recorded days: 2 of 4.
	if !almostEqual(r.OverallPct, 50) {
		t.Fatalf("expected overall 50, got %v", r.OverallPct)
	}
}

func TestForGroupRangeFilters(t *testing.T) {
	st := newTestStore(t)
	group, students := seedGroup(t, st, 1)
	svc := NewService(st)

	inRange := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	outside := inRange.AddDate(0, 0, 10)
	record(t, st, students[0].ID, group.ID, inRange, model.StatusPresent)
	record(t, st, students[0].ID, group.ID, outside, model.StatusAbsent)

	r, err := svc.ForGroup(context.Background(), group.ID, inRange, inRange.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if r.TotalRecords != 1 || r.Absent != 0 {
		t.Fatalf("expected out-of-range record excluded, got %+v", r)
	}
}

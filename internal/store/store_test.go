package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"

	"asistedocente/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func seedGroup(t *testing.T, st *Store) (model.Teacher, model.Group) {
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
	return teacher, group
}

func seedStudent(t *testing.T, st *Store, groupID int64, code string) model.Student {
	t.Helper()
	s := model.Student{Name: "Ana", Surname: "García", Code: code, GroupID: groupID, Active: true}
	if err := st.InsertStudent(context.Background(), &s); err != nil {
		t.Fatalf("insert student: %v", err)
	}
	return s
}

func TestInsertAssignsIDs(t *testing.T) {
	st := newTestStore(t)
	teacher, group := seedGroup(t, st)
	if teacher.ID == 0 || group.ID == 0 {
		t.Fatalf("expected generated ids, got teacher=%d group=%d", teacher.ID, group.ID)
	}
}

func TestStudentCodeUnique(t *testing.T) {
	st := newTestStore(t)
	_, group := seedGroup(t, st)
	seedStudent(t, st, group.ID, "EST-1")

	dup := model.Student{Name: "Luis", Surname: "Pérez", Code: "EST-1", GroupID: group.ID, Active: true}
	err := st.InsertStudent(context.Background(), &dup)
	if err == nil {
		t.Fatal("expected unique constraint error")
	}
	var sqlErr sqlite3.Error
	if !errors.As(err, &sqlErr) || sqlErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		t.Fatalf("expected ErrConstraintUnique, got %v", err)
	}
}

func TestRecordUniquePerStudentAndDay(t *testing.T) {
	st := newTestStore(t)
	_, group := seedGroup(t, st)
	student := seedStudent(t, st, group.ID, "EST-1")
	ctx := context.Background()
	day := model.DateOnly(time.Date(2026, 3, 10, 13, 45, 0, 0, time.UTC))

	first := model.AttendanceRecord{StudentID: student.ID, GroupID: group.ID, Date: day, Status: model.StatusAbsent, RecordedAt: time.Now().UTC()}
	if err := st.InsertRecord(ctx, &first); err != nil {
		t.Fatalf("insert record: %v", err)
	}

	// Same student, same calendar day: the row is replaced, not duplicated.
	second := model.AttendanceRecord{StudentID: student.ID, GroupID: group.ID, Date: day, Status: model.StatusLate, RecordedAt: time.Now().UTC()}
	if err := st.InsertRecord(ctx, &second); err != nil {
		t.Fatalf("insert replacement: %v", err)
	}

	records, err := st.ListRecordsByGroupAndDate(ctx, group.ID, day)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Status != model.StatusLate {
		t.Fatalf("expected LATE after replace, got %s", records[0].Status)
	}
}

func TestRecordDateNormalizedToMidnight(t *testing.T) {
	st := newTestStore(t)
	_, group := seedGroup(t, st)
	student := seedStudent(t, st, group.ID, "EST-1")
	ctx := context.Background()

	noon := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := model.AttendanceRecord{StudentID: student.ID, GroupID: group.ID, Date: noon, Status: model.StatusPresent, RecordedAt: noon}
	if err := st.InsertRecord(ctx, &rec); err != nil {
		t.Fatalf("insert record: %v", err)
	}

	got, err := st.GetRecordByStudentAndDate(ctx, student.ID, time.Date(2026, 3, 10, 22, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if got == nil {
		t.Fatal("expected record looked up by another time on the same day")
	}
	if !got.Date.Equal(model.DateOnly(noon)) {
		t.Fatalf("expected midnight date, got %v", got.Date)
	}
}

func TestDeleteStudentCascadesRecords(t *testing.T) {
	st := newTestStore(t)
	_, group := seedGroup(t, st)
	student := seedStudent(t, st, group.ID, "EST-1")
	ctx := context.Background()

	rec := model.AttendanceRecord{StudentID: student.ID, GroupID: group.ID, Date: model.Today(), Status: model.StatusPresent, RecordedAt: time.Now().UTC()}
	if err := st.InsertRecord(ctx, &rec); err != nil {
		t.Fatalf("insert record: %v", err)
	}

	if err := st.DeleteStudent(ctx, student.ID); err != nil {
		t.Fatalf("delete student: %v", err)
	}

	records, err := st.ListRecordsByStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected cascade delete, got %d records", len(records))
	}
}

func TestDeleteGroupCascades(t *testing.T) {
	st := newTestStore(t)
	_, group := seedGroup(t, st)
	student := seedStudent(t, st, group.ID, "EST-1")
	ctx := context.Background()

	rec := model.AttendanceRecord{StudentID: student.ID, GroupID: group.ID, Date: model.Today(), Status: model.StatusPresent, RecordedAt: time.Now().UTC()}
	if err := st.InsertRecord(ctx, &rec); err != nil {
		t.Fatalf("insert record: %v", err)
	}

	if err := st.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("delete group: %v", err)
	}

	if got, err := st.GetStudent(ctx, student.ID); err != nil || got != nil {
		t.Fatalf("expected student gone, got %v err %v", got, err)
	}
	records, err := st.ListRecordsByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected group records gone, got %d", len(records))
	}
}

func TestDeactivateHidesFromLists(t *testing.T) {
	st := newTestStore(t)
	_, group := seedGroup(t, st)
	student := seedStudent(t, st, group.ID, "EST-1")
	ctx := context.Background()

	if err := st.DeactivateStudent(ctx, student.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	roster, err := st.ListStudentsByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	if len(roster) != 0 {
		t.Fatalf("expected inactive student hidden, got %d", len(roster))
	}

	// Code lookup still sees inactive students so codes stay reserved.
	byCode, err := st.GetStudentByCode(ctx, "EST-1")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if byCode == nil {
		t.Fatal("expected inactive student by code")
	}
}

func TestTransferStudentKeepsHistory(t *testing.T) {
	st := newTestStore(t)
	teacher, group := seedGroup(t, st)
	ctx := context.Background()
	other := model.Group{Name: "6B", Subject: "Science", TeacherID: teacher.ID, Active: true}
	if err := st.InsertGroup(ctx, &other); err != nil {
		t.Fatalf("insert group: %v", err)
	}
	student := seedStudent(t, st, group.ID, "EST-1")

	rec := model.AttendanceRecord{StudentID: student.ID, GroupID: group.ID, Date: model.Today(), Status: model.StatusPresent, RecordedAt: time.Now().UTC()}
	if err := st.InsertRecord(ctx, &rec); err != nil {
		t.Fatalf("insert record: %v", err)
	}

	if err := st.TransferStudent(ctx, student.ID, other.ID); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	got, err := st.GetStudent(ctx, student.ID)
	if err != nil || got == nil {
		t.Fatalf("get student: %v", err)
	}
	if got.GroupID != other.ID {
		t.Fatalf("expected group %d, got %d", other.ID, got.GroupID)
	}
	history, err := st.ListRecordsByStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected history kept, got %d records", len(history))
	}
}

func TestListRecordDatesByGroup(t *testing.T) {
	st := newTestStore(t)
	_, group := seedGroup(t, st)
	student := seedStudent(t, st, group.ID, "EST-1")
	ctx := context.Background()

	d1 := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, d := range []time.Time{d1, d2} {
		rec := model.AttendanceRecord{StudentID: student.ID, GroupID: group.ID, Date: d, Status: model.StatusPresent, RecordedAt: d}
		if err := st.InsertRecord(ctx, &rec); err != nil {
			t.Fatalf("insert record: %v", err)
		}
	}

	dates, err := st.ListRecordDatesByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("list dates: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(dates))
	}
	if !dates[0].Equal(d2) || !dates[1].Equal(d1) {
		t.Fatalf("expected newest first, got %v", dates)
	}
}

func TestGetAndDeleteRecord(t *testing.T) {
	st := newTestStore(t)
	_, group := seedGroup(t, st)
	student := seedStudent(t, st, group.ID, "EST-1")
	ctx := context.Background()

	rec := model.AttendanceRecord{StudentID: student.ID, GroupID: group.ID, Date: model.Today(), Status: model.StatusExcused, RecordedAt: time.Now().UTC()}
	if err := st.InsertRecord(ctx, &rec); err != nil {
		t.Fatalf("insert record: %v", err)
	}

	got, err := st.GetRecord(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if got == nil || got.Status != model.StatusExcused {
		t.Fatalf("unexpected record %+v", got)
	}

	if err := st.DeleteRecord(ctx, rec.ID); err != nil {
		t.Fatalf("delete record: %v", err)
	}
	got, err = st.GetRecord(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("expected record gone, got %+v", got)
	}
}

func TestListRecordsNewestFirst(t *testing.T) {
	st := newTestStore(t)
	_, group := seedGroup(t, st)
	student := seedStudent(t, st, group.ID, "EST-1")
	ctx := context.Background()

	older := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 0, 1)
	for _, d := range []time.Time{older, newer} {
		rec := model.AttendanceRecord{StudentID: student.ID, GroupID: group.ID, Date: d, Status: model.StatusPresent, RecordedAt: d}
		if err := st.InsertRecord(ctx, &rec); err != nil {
			t.Fatalf("insert record: %v", err)
		}
	}

	records, err := st.ListRecords(ctx)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].Date.Equal(newer) {
		t.Fatalf("expected newest first, got %v", records[0].Date)
	}
}

func TestDeleteRecordsByStudent(t *testing.T) {
	st := newTestStore(t)
	_, group := seedGroup(t, st)
	keep := seedStudent(t, st, group.ID, "EST-1")
	purge := seedStudent(t, st, group.ID, "EST-2")
	ctx := context.Background()
	day := model.Today()

	for _, s := range []model.Student{keep, purge} {
		rec := model.AttendanceRecord{StudentID: s.ID, GroupID: group.ID, Date: day, Status: model.StatusPresent, RecordedAt: time.Now().UTC()}
		if err := st.InsertRecord(ctx, &rec); err != nil {
			t.Fatalf("insert record: %v", err)
		}
	}

	if err := st.DeleteRecordsByStudent(ctx, purge.ID); err != nil {
		t.Fatalf("delete by student: %v", err)
	}

	records, err := st.ListRecordsByGroupAndDate(ctx, group.ID, day)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 || records[0].StudentID != keep.ID {
		t.Fatalf("expected only the other student's record kept, got %+v", records)
	}
}

func TestDeleteTeacherCascades(t *testing.T) {
	st := newTestStore(t)
	teacher, group := seedGroup(t, st)
	student := seedStudent(t, st, group.ID, "EST-1")
	ctx := context.Background()

	rec := model.AttendanceRecord{StudentID: student.ID, GroupID: group.ID, Date: model.Today(), Status: model.StatusPresent, RecordedAt: time.Now().UTC()}
	if err := st.InsertRecord(ctx, &rec); err != nil {
		t.Fatalf("insert record: %v", err)
	}

	if err := st.DeleteTeacher(ctx, teacher.ID); err != nil {
		t.Fatalf("delete teacher: %v", err)
	}

	if g, err := st.GetGroup(ctx, group.ID); err != nil || g != nil {
		t.Fatalf("expected group gone, got %v err %v", g, err)
	}
	if s, err := st.GetStudent(ctx, student.ID); err != nil || s != nil {
		t.Fatalf("expected student gone, got %v err %v", s, err)
	}
	records, err := st.ListRecords(ctx)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected records gone, got %d", len(records))
	}
}

func TestActiveCounts(t *testing.T) {
	st := newTestStore(t)
	_, group := seedGroup(t, st)
	student := seedStudent(t, st, group.ID, "EST-1")
	ctx := context.Background()

	groups, err := st.CountGroups(ctx)
	if err != nil {
		t.Fatalf("count groups: %v", err)
	}
	students, err := st.CountStudents(ctx)
	if err != nil {
		t.Fatalf("count students: %v", err)
	}
	if groups != 1 || students != 1 {
		t.Fatalf("expected 1 group and 1 student, got %d and %d", groups, students)
	}

	// Deactivation drops the counts; the rows stay.
	if err := st.DeactivateGroup(ctx, group.ID); err != nil {
		t.Fatalf("deactivate group: %v", err)
	}
	if err := st.DeactivateStudent(ctx, student.ID); err != nil {
		t.Fatalf("deactivate student: %v", err)
	}
	groups, err = st.CountGroups(ctx)
	if err != nil {
		t.Fatalf("count groups: %v", err)
	}
	students, err = st.CountStudents(ctx)
	if err != nil {
		t.Fatalf("count students: %v", err)
	}
	if groups != 0 || students != 0 {
		t.Fatalf("expected 0 after deactivation, got %d and %d", groups, students)
	}
}

func TestBulkInserts(t *testing.T) {
	st := newTestStore(t)
	_, group := seedGroup(t, st)
	ctx := context.Background()

	students := []model.Student{
		{Name: "Ana", Surname: "García", Code: "B-1", GroupID: group.ID, Active: true},
		{Name: "Luis", Surname: "Pérez", Code: "B-2", GroupID: group.ID, Active: true},
	}
	if err := st.InsertStudents(ctx, students); err != nil {
		t.Fatalf("bulk insert students: %v", err)
	}
	roster, err := st.ListStudentsByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("expected 2 students, got %d", len(roster))
	}

	day := model.Today()
	records := []model.AttendanceRecord{
		{StudentID: roster[0].ID, GroupID: group.ID, Date: day, Status: model.StatusPresent, RecordedAt: time.Now().UTC()},
		{StudentID: roster[1].ID, GroupID: group.ID, Date: day, Status: model.StatusAbsent, RecordedAt: time.Now().UTC()},
	}
	if err := st.InsertRecords(ctx, records); err != nil {
		t.Fatalf("bulk insert records: %v", err)
	}
	got, err := st.ListRecordsByGroupAndDate(ctx, group.ID, day)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
}

func TestNotifierPublishesWrites(t *testing.T) {
	st := newTestStore(t)
	ch, cancel := st.Changes().Subscribe()
	defer cancel()

	teacher := model.Teacher{Name: "Laura", Surname: "Otero", Email: "laura@example.edu", Password: "secret", Active: true}
	if err := st.InsertTeacher(context.Background(), &teacher); err != nil {
		t.Fatalf("insert teacher: %v", err)
	}

	select {
	case change := <-ch:
		if change.Table != "teachers" || change.ID != teacher.ID {
			t.Fatalf("unexpected change %+v", change)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a change event")
	}
}

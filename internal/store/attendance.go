package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"asistedocente/internal/model"
)

const recordCols = `id, student_id, group_id, date, status, notes, recorded_at`

// Calendar dates travel as midnight-UTC unix seconds so that equality and
// BETWEEN comparisons in SQL match model.DateOnly exactly.
func dateArg(t time.Time) int64 { return model.DateOnly(t).Unix() }

func scanRecord(row interface{ Scan(...any) error }) (model.AttendanceRecord, error) {
	var (
		r    model.AttendanceRecord
		date int64
	)
	err := row.Scan(&r.ID, &r.StudentID, &r.GroupID, &date, &r.Status, &r.Notes, &r.RecordedAt)
	if err != nil {
		return r, err
	}
	r.Date = time.Unix(date, 0).UTC()
	return r, nil
}

func (s *Store) collectRecords(rows *sql.Rows) ([]model.AttendanceRecord, error) {
	defer rows.Close()
	var records []model.AttendanceRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ListRecords returns every attendance record, newest day first.
func (s *Store) ListRecords(ctx context.Context) ([]model.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordCols+` FROM attendance_records ORDER BY date DESC, recorded_at DESC`)
	if err != nil {
		return nil, err
	}
	return s.collectRecords(rows)
}

// GetRecord returns a single record by id, nil when absent.
func (s *Store) GetRecord(ctx context.Context, id int64) (*model.AttendanceRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordCols+` FROM attendance_records WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRecordByStudentAndDate resolves the natural key, nil when no record
// exists for that day.
func (s *Store) GetRecordByStudentAndDate(ctx context.Context, studentID int64, date time.Time) (*model.AttendanceRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordCols+` FROM attendance_records WHERE student_id = ? AND date = ?`,
		studentID, dateArg(date))
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRecordsByStudent returns a student's records, newest day first.
func (s *Store) ListRecordsByStudent(ctx context.Context, studentID int64) ([]model.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordCols+` FROM attendance_records WHERE student_id = ? ORDER BY date DESC`, studentID)
	if err != nil {
		return nil, err
	}
	return s.collectRecords(rows)
}

// ListRecordsByGroup returns a group's records, newest day first.
func (s *Store) ListRecordsByGroup(ctx context.Context, groupID int64) ([]model.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordCols+` FROM attendance_records WHERE group_id = ? ORDER BY date DESC`, groupID)
	if err != nil {
		return nil, err
	}
	return s.collectRecords(rows)
}

// ListRecordsByGroupAndDate returns a group's records for one calendar day.
func (s *Store) ListRecordsByGroupAndDate(ctx context.Context, groupID int64, date time.Time) ([]model.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordCols+` FROM attendance_records WHERE group_id = ? AND date = ?`,
		groupID, dateArg(date))
	if err != nil {
		return nil, err
	}
	return s.collectRecords(rows)
}

// ListRecordsByGroupInRange returns a group's records for [start, end],
// both endpoints included, newest day first.
func (s *Store) ListRecordsByGroupInRange(ctx context.Context, groupID int64, start, end time.Time) ([]model.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordCols+` FROM attendance_records
		WHERE group_id = ? AND date BETWEEN ? AND ?
		ORDER BY date DESC`, groupID, dateArg(start), dateArg(end))
	if err != nil {
		return nil, err
	}
	return s.collectRecords(rows)
}

// ListRecordsByStudentInRange returns a student's records for [start, end].
func (s *Store) ListRecordsByStudentInRange(ctx context.Context, studentID int64, start, end time.Time) ([]model.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordCols+` FROM attendance_records
		WHERE student_id = ? AND date BETWEEN ? AND ?
		ORDER BY date DESC`, studentID, dateArg(start), dateArg(end))
	if err != nil {
		return nil, err
	}
	return s.collectRecords(rows)
}

// CountRecordsByStudentInRange counts a student's records for [start, end].
func (s *Store) CountRecordsByStudentInRange(ctx context.Context, studentID int64, start, end time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance_records WHERE student_id = ? AND date BETWEEN ? AND ?`,
		studentID, dateArg(start), dateArg(end)).Scan(&n)
	return n, err
}

// CountRecordsByStudentStatusInRange counts one status for a student over
// [start, end].
func (s *Store) CountRecordsByStudentStatusInRange(ctx context.Context, studentID int64, status model.Status, start, end time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM attendance_records
		WHERE student_id = ? AND status = ? AND date BETWEEN ? AND ?`,
		studentID, status, dateArg(start), dateArg(end)).Scan(&n)
	return n, err
}

// ListRecordDatesByGroup returns the distinct calendar days that have at
// least one record for a group, newest first.
func (s *Store) ListRecordDatesByGroup(ctx context.Context, groupID int64) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT date FROM attendance_records WHERE group_id = ? ORDER BY date DESC`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d int64
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, time.Unix(d, 0).UTC())
	}
	return dates, rows.Err()
}

// InsertRecord writes a record, replacing any row that collides on the
// primary key or on the (student, date) natural key.
func (s *Store) InsertRecord(ctx context.Context, r *model.AttendanceRecord) error {
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now().UTC()
	}
	r.Date = model.DateOnly(r.Date)
	var idArg any
	if r.ID != 0 {
		idArg = r.ID
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO attendance_records (id, student_id, group_id, date, status, notes, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		idArg, r.StudentID, r.GroupID, r.Date.Unix(), r.Status, r.Notes, r.RecordedAt)
	if err != nil {
		return err
	}
	if r.ID == 0 {
		r.ID, _ = res.LastInsertId()
	}
	s.notifier.publish(Change{Table: "attendance_records", ID: r.ID})
	return nil
}

// InsertRecords bulk-inserts records. Stops at the first failure; earlier
// rows stay written.
func (s *Store) InsertRecords(ctx context.Context, records []model.AttendanceRecord) error {
	for i := range records {
		if err := s.InsertRecord(ctx, &records[i]); err != nil {
			return err
		}
	}
	return nil
}

// UpdateRecord rewrites an existing record in place, keeping its id.
func (s *Store) UpdateRecord(ctx context.Context, r model.AttendanceRecord) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE attendance_records SET student_id = ?, group_id = ?, date = ?, status = ?, notes = ?, recorded_at = ?
		WHERE id = ?`,
		r.StudentID, r.GroupID, dateArg(r.Date), r.Status, r.Notes, r.RecordedAt, r.ID)
	if err != nil {
		return err
	}
	s.notifier.publish(Change{Table: "attendance_records", ID: r.ID})
	return nil
}

// DeleteRecord hard-deletes a single record.
func (s *Store) DeleteRecord(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE id = ?`, id)
	if err != nil {
		return err
	}
	s.notifier.publish(Change{Table: "attendance_records", ID: id})
	return nil
}

// DeleteRecordsByGroupAndDate clears every record a group has for one day.
func (s *Store) DeleteRecordsByGroupAndDate(ctx context.Context, groupID int64, date time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM attendance_records WHERE group_id = ? AND date = ?`, groupID, dateArg(date))
	if err != nil {
		return err
	}
	s.notifier.publish(Change{Table: "attendance_records"})
	return nil
}

// DeleteRecordsByStudent clears a student's whole history.
func (s *Store) DeleteRecordsByStudent(ctx context.Context, studentID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE student_id = ?`, studentID)
	if err != nil {
		return err
	}
	s.notifier.publish(Change{Table: "attendance_records"})
	return nil
}

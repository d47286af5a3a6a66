package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"asistedocente/internal/model"
)

const studentCols = `id, name, surname, code, email, photo, group_id, active, created_at`

func scanStudent(row interface{ Scan(...any) error }) (model.Student, error) {
	var st model.Student
	err := row.Scan(&st.ID, &st.Name, &st.Surname, &st.Code, &st.Email, &st.Photo, &st.GroupID, &st.Active, &st.CreatedAt)
	return st, err
}

func (s *Store) collectStudents(rows *sql.Rows) ([]model.Student, error) {
	defer rows.Close()
	var students []model.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// ListStudents returns all active students ordered by surname then name.
func (s *Store) ListStudents(ctx context.Context) ([]model.Student, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+studentCols+` FROM students WHERE active = 1 ORDER BY surname, name`)
	if err != nil {
		return nil, err
	}
	return s.collectStudents(rows)
}

// ListStudentsByGroup returns a group's active roster ordered by surname
// then name.
func (s *Store) ListStudentsByGroup(ctx context.Context, groupID int64) ([]model.Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+studentCols+` FROM students WHERE group_id = ? AND active = 1 ORDER BY surname, name`, groupID)
	if err != nil {
		return nil, err
	}
	return s.collectStudents(rows)
}

// SearchStudents matches name, surname or code by case-insensitive
// substring, active rows only.
func (s *Store) SearchStudents(ctx context.Context, query string) ([]model.Student, error) {
	like := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+studentCols+` FROM students
		WHERE (name LIKE ? OR surname LIKE ? OR code LIKE ?) AND active = 1
		ORDER BY surname, name`, like, like, like)
	if err != nil {
		return nil, err
	}
	return s.collectStudents(rows)
}

// GetStudent returns a single student by id, nil when absent.
func (s *Store) GetStudent(ctx context.Context, id int64) (*model.Student, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+studentCols+` FROM students WHERE id = ?`, id)
	st, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// GetStudentByCode looks a student up by enrollment code, inactive rows
// included so duplicate codes are always detected.
func (s *Store) GetStudentByCode(ctx context.Context, code string) (*model.Student, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+studentCols+` FROM students WHERE code = ?`, code)
	st, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// InsertStudent writes a student, replacing any row with the same id.
// A duplicate code surfaces as a sqlite unique-constraint error.
func (s *Store) InsertStudent(ctx context.Context, st *model.Student) error {
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	var (
		res sql.Result
		err error
	)
	if st.ID == 0 {
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO students (name, surname, code, email, photo, group_id, active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			st.Name, st.Surname, st.Code, st.Email, st.Photo, st.GroupID, st.Active, st.CreatedAt)
	} else {
		res, err = s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO students (id, name, surname, code, email, photo, group_id, active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			st.ID, st.Name, st.Surname, st.Code, st.Email, st.Photo, st.GroupID, st.Active, st.CreatedAt)
	}
	if err != nil {
		return err
	}
	if st.ID == 0 {
		st.ID, _ = res.LastInsertId()
	}
	s.notifier.publish(Change{Table: "students", ID: st.ID})
	return nil
}

// InsertStudents bulk-inserts a roster. Stops at the first failure.
func (s *Store) InsertStudents(ctx context.Context, students []model.Student) error {
	for i := range students {
		if err := s.InsertStudent(ctx, &students[i]); err != nil {
			return err
		}
	}
	return nil
}

// UpdateStudent rewrites every mutable column of an existing student.
func (s *Store) UpdateStudent(ctx context.Context, st model.Student) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE students SET name = ?, surname = ?, code = ?, email = ?, photo = ?, group_id = ?, active = ?
		WHERE id = ?`,
		st.Name, st.Surname, st.Code, st.Email, st.Photo, st.GroupID, st.Active, st.ID)
	if err != nil {
		return err
	}
	s.notifier.publish(Change{Table: "students", ID: st.ID})
	return nil
}

// DeleteStudent hard-deletes a student; attendance records cascade.
func (s *Store) DeleteStudent(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return err
	}
	s.notifier.publish(Change{Table: "students", ID: id})
	return nil
}

// DeactivateStudent flips the active flag without deleting anything.
func (s *Store) DeactivateStudent(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE students SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	s.notifier.publish(Change{Table: "students", ID: id})
	return nil
}

// TransferStudent moves a student to another group in place.
func (s *Store) TransferStudent(ctx context.Context, studentID, newGroupID int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE students SET group_id = ? WHERE id = ?`, newGroupID, studentID)
	if err != nil {
		return err
	}
	s.notifier.publish(Change{Table: "students", ID: studentID})
	return nil
}

// CountStudents counts active students.
func (s *Store) CountStudents(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students WHERE active = 1`).Scan(&n)
	return n, err
}

// CountStudentsByGroup counts a group's active roster.
func (s *Store) CountStudentsByGroup(ctx context.Context, groupID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM students WHERE group_id = ? AND active = 1`, groupID).Scan(&n)
	return n, err
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"asistedocente/internal/model"
)

const teacherCols = `id, name, surname, email, password, phone, photo, active, created_at`

func scanTeacher(row interface{ Scan(...any) error }) (model.Teacher, error) {
	var t model.Teacher
	err := row.Scan(&t.ID, &t.Name, &t.Surname, &t.Email, &t.Password, &t.Phone, &t.Photo, &t.Active, &t.CreatedAt)
	return t, err
}

// ListTeachers returns all active teachers ordered by surname then name.
func (s *Store) ListTeachers(ctx context.Context) ([]model.Teacher, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+teacherCols+` FROM teachers WHERE active = 1 ORDER BY surname, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teachers []model.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

// GetTeacher returns a single teacher by id, nil when absent.
func (s *Store) GetTeacher(ctx context.Context, id int64) (*model.Teacher, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+teacherCols+` FROM teachers WHERE id = ?`, id)
	t, err := scanTeacher(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTeacherByEmail looks a teacher up by login identifier.
func (s *Store) GetTeacherByEmail(ctx context.Context, email string) (*model.Teacher, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+teacherCols+` FROM teachers WHERE email = ?`, email)
	t, err := scanTeacher(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// InsertTeacher writes a teacher, replacing any row with the same id.
// A zero id lets sqlite assign the next one.
func (s *Store) InsertTeacher(ctx context.Context, t *model.Teacher) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	var (
		res sql.Result
		err error
	)
	if t.ID == 0 {
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO teachers (name, surname, email, password, phone, photo, active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.Name, t.Surname, t.Email, t.Password, t.Phone, t.Photo, t.Active, t.CreatedAt)
	} else {
		res, err = s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO teachers (id, name, surname, email, password, phone, photo, active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Name, t.Surname, t.Email, t.Password, t.Phone, t.Photo, t.Active, t.CreatedAt)
	}
	if err != nil {
		return err
	}
	if t.ID == 0 {
		t.ID, _ = res.LastInsertId()
	}
	s.notifier.publish(Change{Table: "teachers", ID: t.ID})
	return nil
}

// UpdateTeacher rewrites every mutable column of an existing teacher.
func (s *Store) UpdateTeacher(ctx context.Context, t model.Teacher) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE teachers SET name = ?, surname = ?, email = ?, password = ?, phone = ?, photo = ?, active = ?
		WHERE id = ?`,
		t.Name, t.Surname, t.Email, t.Password, t.Phone, t.Photo, t.Active, t.ID)
	if err != nil {
		return err
	}
	s.notifier.publish(Change{Table: "teachers", ID: t.ID})
	return nil
}

// DeleteTeacher hard-deletes a teacher; groups, students and records
// cascade at the schema level.
func (s *Store) DeleteTeacher(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	s.notifier.publish(Change{Table: "teachers", ID: id})
	return nil
}

// DeactivateTeacher flips the active flag without deleting anything.
func (s *Store) DeactivateTeacher(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE teachers SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	s.notifier.publish(Change{Table: "teachers", ID: id})
	return nil
}

// CountTeachers counts active teachers.
func (s *Store) CountTeachers(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teachers WHERE active = 1`).Scan(&n)
	return n, err
}

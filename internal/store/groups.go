package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"asistedocente/internal/model"
)

const groupCols = `id, name, subject, schedule, description, teacher_id, active, created_at`

func scanGroup(row interface{ Scan(...any) error }) (model.Group, error) {
	var g model.Group
	err := row.Scan(&g.ID, &g.Name, &g.Subject, &g.Schedule, &g.Description, &g.TeacherID, &g.Active, &g.CreatedAt)
	return g, err
}

func (s *Store) collectGroups(rows *sql.Rows) ([]model.Group, error) {
	defer rows.Close()
	var groups []model.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ListGroups returns all active groups ordered by name.
func (s *Store) ListGroups(ctx context.Context) ([]model.Group, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+groupCols+` FROM groups WHERE active = 1 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return s.collectGroups(rows)
}

// ListGroupsByTeacher returns a teacher's active groups ordered by name.
func (s *Store) ListGroupsByTeacher(ctx context.Context, teacherID int64) ([]model.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+groupCols+` FROM groups WHERE teacher_id = ? AND active = 1 ORDER BY name`, teacherID)
	if err != nil {
		return nil, err
	}
	return s.collectGroups(rows)
}

// GetGroup returns a single group by id, nil when absent.
func (s *Store) GetGroup(ctx context.Context, id int64) (*model.Group, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+groupCols+` FROM groups WHERE id = ?`, id)
	g, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// InsertGroup writes a group, replacing any row with the same id.
func (s *Store) InsertGroup(ctx context.Context, g *model.Group) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	var (
		res sql.Result
		err error
	)
	if g.ID == 0 {
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO groups (name, subject, schedule, description, teacher_id, active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			g.Name, g.Subject, g.Schedule, g.Description, g.TeacherID, g.Active, g.CreatedAt)
	} else {
		res, err = s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO groups (id, name, subject, schedule, description, teacher_id, active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, g.Name, g.Subject, g.Schedule, g.Description, g.TeacherID, g.Active, g.CreatedAt)
	}
	if err != nil {
		return err
	}
	if g.ID == 0 {
		g.ID, _ = res.LastInsertId()
	}
	s.notifier.publish(Change{Table: "groups", ID: g.ID})
	return nil
}

// UpdateGroup rewrites every mutable column of an existing group.
func (s *Store) UpdateGroup(ctx context.Context, g model.Group) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE groups SET name = ?, subject = ?, schedule = ?, description = ?, teacher_id = ?, active = ?
		WHERE id = ?`,
		g.Name, g.Subject, g.Schedule, g.Description, g.TeacherID, g.Active, g.ID)
	if err != nil {
		return err
	}
	s.notifier.publish(Change{Table: "groups", ID: g.ID})
	return nil
}

// DeleteGroup hard-deletes a group; its students and their attendance
// records cascade.
func (s *Store) DeleteGroup(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return err
	}
	s.notifier.publish(Change{Table: "groups", ID: id})
	return nil
}

// DeactivateGroup flips the active flag without deleting anything.
func (s *Store) DeactivateGroup(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE groups SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	s.notifier.publish(Change{Table: "groups", ID: id})
	return nil
}

// CountGroups counts active groups.
func (s *Store) CountGroups(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups WHERE active = 1`).Scan(&n)
	return n, err
}

// CountGroupsByTeacher counts a teacher's active groups.
func (s *Store) CountGroupsByTeacher(ctx context.Context, teacherID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM groups WHERE teacher_id = ? AND active = 1`, teacherID).Scan(&n)
	return n, err
}

package model

import "time"

// Teacher owns groups and takes attendance. Login identifier is the email.
type Teacher struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Phone     *string   `json:"phone,omitempty"`
	Photo     *string   `json:"photo,omitempty"` // durable local file path
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Group is a class owned by exactly one teacher.
type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Subject     string    `json:"subject"`
	Schedule    *string   `json:"schedule,omitempty"`
	Description *string   `json:"description,omitempty"`
	TeacherID   int64     `json:"teacher_id"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Student belongs to exactly one group at a time. Code is globally unique.
type Student struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Code      string    `json:"code"`
	Email     *string   `json:"email,omitempty"`
	Photo     *string   `json:"photo,omitempty"`
	GroupID   int64     `json:"group_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// AttendanceRecord maps a (student, calendar day) to a status. At most one
// record exists per pair; the group id is denormalized for range queries.
type AttendanceRecord struct {
	ID         int64     `json:"id"`
	StudentID  int64     `json:"student_id"`
	GroupID    int64     `json:"group_id"`
	Date       time.Time `json:"date"` // midnight UTC
	Status     Status    `json:"status"`
	Notes      *string   `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

package attendance

import (
	"context"
	"errors"
	"time"

	"asistedocente/internal/model"
	"asistedocente/internal/store"
)

// ErrGroupNotFound is the load failure for a missing group.
var ErrGroupNotFound = errors.New("group not found")

// State is the lifecycle of an attendance-taking session.
type State int

const (
	// StateLoading means the group and roster are being fetched.
	StateLoading State = iota
	// StateEmpty means the group exists but has no active students.
	StateEmpty
	// StateSuccess means the roster and current choices are available.
	StateSuccess
	// StateError means the load failed; Err holds the message.
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Session holds one attendance-taking workflow for a (group, date) pair.
// Choices live in memory until Save; a student with no choice is never
// written and never deleted. Sessions are not safe for concurrent use.
type Session struct {
	store   *store.Store
	groupID int64
	date    time.Time

	state     State
	err       error
	groupName string
	roster    []model.Student
	choices   map[int64]model.Status
}

// NewSession loads the roster and any persisted records for the date.
func NewSession(ctx context.Context, st *store.Store, groupID int64, date time.Time) *Session {
	s := &Session{
		store:   st,
		groupID: groupID,
		date:    model.DateOnly(date),
		choices: map[int64]model.Status{},
	}
	s.load(ctx)
	return s
}

func (s *Session) load(ctx context.Context) {
	s.state = StateLoading

	g, err := s.store.GetGroup(ctx, s.groupID)
	if err != nil {
		s.fail(err)
		return
	}
	if g == nil {
		s.fail(ErrGroupNotFound)
		return
	}
	s.groupName = g.Name

	roster, err := s.store.ListStudentsByGroup(ctx, s.groupID)
	if err != nil {
		s.fail(err)
		return
	}
	if len(roster) == 0 {
		s.roster = nil
		s.choices = map[int64]model.Status{}
		s.state = StateEmpty
		return
	}

	records, err := s.store.ListRecordsByGroupAndDate(ctx, s.groupID, s.date)
	if err != nil {
		s.fail(err)
		return
	}

	choices := make(map[int64]model.Status, len(records))
	for _, r := range records {
		choices[r.StudentID] = r.Status
	}
	s.roster = roster
	s.choices = choices
	s.state = StateSuccess
}

func (s *Session) fail(err error) {
	s.state = StateError
	s.err = err
}

// State returns the current session state.
func (s *Session) State() State { return s.state }

// Err returns the load failure, nil outside StateError.
func (s *Session) Err() error { return s.err }

// GroupName returns the loaded group's name.
func (s *Session) GroupName() string { return s.groupName }

// Date returns the session's calendar day.
func (s *Session) Date() time.Time { return s.date }

// Roster returns the loaded roster.
func (s *Session) Roster() []model.Student { return s.roster }

// Choices returns a copy of the in-memory status map.
func (s *Session) Choices() map[int64]model.Status {
	out := make(map[int64]model.Status, len(s.choices))
	for id, st := range s.choices {
		out[id] = st
	}
	return out
}

// SetStatus overwrites the in-memory choice for one student. Nothing is
// persisted until Save.
func (s *Session) SetStatus(studentID int64, status model.Status) error {
	if s.state != StateSuccess {
		return errors.New("session not ready")
	}
	if !status.Valid() {
		return errors.New("invalid status")
	}
	s.choices[studentID] = status
	return nil
}

// MarkAllPresent sets every roster student to present, discarding prior
// choices.
func (s *Session) MarkAllPresent() error {
	if s.state != StateSuccess {
		return errors.New("session not ready")
	}
	all := make(map[int64]model.Status, len(s.roster))
	for _, st := range s.roster {
		all[st.ID] = model.StatusPresent
	}
	s.choices = all
	return nil
}

// ClearAll empties the in-memory map; every student becomes unset.
func (s *Session) ClearAll() {
	s.choices = map[int64]model.Status{}
}

// ChangeDate switches the session to another day and reloads its
// persisted records, replacing the in-memory map.
func (s *Session) ChangeDate(ctx context.Context, newDate time.Time) {
	s.date = model.DateOnly(newDate)
	s.load(ctx)
}

// Save persists one record per student with a choice: an existing record
// for (student, date) is updated in place keeping its id, otherwise a new
// record is inserted. Students without a choice are untouched. The save is
// not atomic: a midway failure leaves earlier records written, and only
// the overall error is reported.
func (s *Session) Save(ctx context.Context) error {
	if s.state != StateSuccess {
		return errors.New("session not ready")
	}
	now := time.Now().UTC()
	for _, st := range s.roster {
		status, ok := s.choices[st.ID]
		if !ok {
			continue
		}
		existing, err := s.store.GetRecordByStudentAndDate(ctx, st.ID, s.date)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.Status = status
			existing.RecordedAt = now
			if err := s.store.UpdateRecord(ctx, *existing); err != nil {
				return err
			}
		} else {
			rec := model.AttendanceRecord{
				StudentID:  st.ID,
				GroupID:    s.groupID,
				Date:       s.date,
				Status:     status,
				RecordedAt: now,
			}
			if err := s.store.InsertRecord(ctx, &rec); err != nil {
				return err
			}
		}
		recordsSaved.Inc()
	}
	return nil
}

// Summary counts the in-memory choices per status. Unmarked is the roster
// remainder.
type Summary struct {
	Present  int `json:"present"`
	Absent   int `json:"absent"`
	Late     int `json:"late"`
	Excused  int `json:"excused"`
	Unmarked int `json:"unmarked"`
}

// Summary tallies the current choices. Only roster members count: a
// persisted record for a since-deactivated student is ignored.
func (s *Session) Summary() Summary {
	var sum Summary
	for _, st := range s.roster {
		status, ok := s.choices[st.ID]
		if !ok {
			sum.Unmarked++
			continue
		}
		switch status {
		case model.StatusPresent:
			sum.Present++
		case model.StatusAbsent:
			sum.Absent++
		case model.StatusLate:
			sum.Late++
		case model.StatusExcused:
			sum.Excused++
		}
	}
	return sum
}

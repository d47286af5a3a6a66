// Package export renders finished reports into PDF or Excel files. Jobs
// run asynchronously on a worker loop fed by the in-process queue; callers
// poll job status and fetch the file when done.
package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"asistedocente/internal/model"
	"asistedocente/internal/queue"
	"asistedocente/internal/report"
	"asistedocente/internal/store"
)

// Format selects the output file type.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "xlsx"
)

// JobStatus is the lifecycle of an export job.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job tracks one export request.
type Job struct {
	ID        string    `json:"id"`
	Status    JobStatus `json:"status"`
	Path      string    `json:"path,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	format    Format
	groupID   int64
	studentID int64 // zero for group exports
	start     time.Time
	end       time.Time
}

// Service owns export jobs and the worker that processes them.
type Service struct {
	store   *store.Store
	reports *report.Service
	dir     string
	q       queue.Queue

	mu   sync.Mutex
	jobs map[string]*Job
}

// NewService creates the reports directory when missing.
func NewService(st *store.Store, reports *report.Service, dir string, q queue.Queue) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir: %w", err)
	}
	return &Service{store: st, reports: reports, dir: dir, q: q, jobs: make(map[string]*Job)}, nil
}

func (s *Service) enqueue(ctx context.Context, job *Job) (*Job, error) {
	job.ID = uuid.NewString()
	job.Status = JobPending
	job.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if err := s.q.Publish(ctx, queue.Message{Type: "export", Body: []byte(job.ID)}); err != nil {
		s.mu.Lock()
		delete(s.jobs, job.ID)
		s.mu.Unlock()
		return nil, err
	}
	return job, nil
}

// EnqueueGroup schedules a group export over [start, end].
func (s *Service) EnqueueGroup(ctx context.Context, groupID int64, start, end time.Time, format Format) (*Job, error) {
	if format != FormatPDF && format != FormatExcel {
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, errors.New("group not found")
	}
	return s.enqueue(ctx, &Job{format: format, groupID: groupID, start: start, end: end})
}

// EnqueueStudent schedules a per-student export over [start, end].
func (s *Service) EnqueueStudent(ctx context.Context, studentID int64, start, end time.Time, format Format) (*Job, error) {
	if format != FormatPDF && format != FormatExcel {
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	st, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errors.New("student not found")
	}
	return s.enqueue(ctx, &Job{format: format, groupID: st.GroupID, studentID: studentID, start: start, end: end})
}

// Job returns a snapshot of one job.
func (s *Service) Job(id string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

func (s *Service) setResult(id, path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return
	}
	if err != nil {
		j.Status = JobFailed
		j.Error = err.Error()
		return
	}
	j.Status = JobDone
	j.Path = path
}

// Run consumes the queue until ctx ends. Call it on its own goroutine.
func (s *Service) Run(ctx context.Context) error {
	messages, err := s.q.Consume(ctx)
	if err != nil {
		return err
	}
	for msg := range messages {
		if msg.Type != "export" {
			continue
		}
		id := string(msg.Body)
		s.mu.Lock()
		j, ok := s.jobs[id]
		var snapshot Job
		if ok {
			snapshot = *j
		}
		s.mu.Unlock()
		if !ok {
			continue
		}
		path, err := s.process(ctx, snapshot)
		if err != nil {
			log.Printf("export %s failed: %v", id, err)
		}
		s.setResult(id, path, err)
	}
	return nil
}

func (s *Service) process(ctx context.Context, job Job) (string, error) {
	g, err := s.store.GetGroup(ctx, job.groupID)
	if err != nil {
		return "", err
	}
	if g == nil {
		return "", errors.New("group not found")
	}

	if job.studentID != 0 {
		return s.processStudent(ctx, job, *g)
	}
	return s.processGroup(ctx, job, *g)
}

func (s *Service) processGroup(ctx context.Context, job Job, g model.Group) (string, error) {
	rep, err := s.reports.ForGroup(ctx, job.groupID, job.start, job.end)
	if err != nil {
		return "", err
	}
	records, err := s.reports.GroupRecords(ctx, job.groupID, job.start, job.end)
	if err != nil {
		return "", err
	}
	roster, err := s.store.ListStudentsByGroup(ctx, job.groupID)
	if err != nil {
		return "", err
	}
	names := make(map[int64]string, len(roster))
	for _, st := range roster {
		names[st.ID] = st.Name + " " + st.Surname
	}
	nameOf := func(id int64) string {
		if n, ok := names[id]; ok {
			return n
		}
		return fmt.Sprintf("student %d", id)
	}

	path := s.filePath("group", job)
	if job.format == FormatExcel {
		err = writeGroupExcel(path, g, rep, records, nameOf)
	} else {
		err = writeGroupPDF(path, g, rep, records, nameOf)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func (s *Service) processStudent(ctx context.Context, job Job, g model.Group) (string, error) {
	st, err := s.store.GetStudent(ctx, job.studentID)
	if err != nil {
		return "", err
	}
	if st == nil {
		return "", errors.New("student not found")
	}
	records, err := s.reports.StudentRecords(ctx, job.studentID, job.start, job.end)
	if err != nil {
		return "", err
	}
	pct, err := s.reports.StudentPercentage(ctx, job.studentID, job.start, job.end)
	if err != nil {
		return "", err
	}

	path := s.filePath("student", job)
	if job.format == FormatExcel {
		err = writeStudentExcel(path, *st, g, records, model.DateOnly(job.start), model.DateOnly(job.end), pct)
	} else {
		err = writeStudentPDF(path, *st, g, records, model.DateOnly(job.start), model.DateOnly(job.end), pct)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func (s *Service) filePath(kind string, job Job) string {
	name := fmt.Sprintf("%s_%d_%s.%s", kind, job.groupID, job.ID[:8], job.format)
	return filepath.Join(s.dir, name)
}

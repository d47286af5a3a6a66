package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"asistedocente/internal/attendance"
	"asistedocente/internal/model"
)

// sessionView is what the day sheet looks like on the wire.
type sessionView struct {
	State     string                 `json:"state"`
	Error     string                 `json:"error,omitempty"`
	GroupName string                 `json:"group_name,omitempty"`
	Date      string                 `json:"date"`
	Roster    []model.Student        `json:"roster,omitempty"`
	Choices   map[int64]model.Status `json:"choices,omitempty"`
	Statuses  []statusView           `json:"statuses"`
	Summary   attendance.Summary     `json:"summary"`
}

type statusView struct {
	Value model.Status `json:"value"`
	Label string       `json:"label"`
	Color string       `json:"color"`
}

func statusViews() []statusView {
	out := make([]statusView, 0, len(model.Statuses))
	for _, s := range model.Statuses {
		info := s.Info()
		out = append(out, statusView{Value: s, Label: info.Label, Color: info.Color})
	}
	return out
}

func viewOf(s *attendance.Session) sessionView {
	v := sessionView{
		State:     s.State().String(),
		GroupName: s.GroupName(),
		Date:      s.Date().Format(dateLayout),
		Roster:    s.Roster(),
		Choices:   s.Choices(),
		Statuses:  statusViews(),
		Summary:   s.Summary(),
	}
	if err := s.Err(); err != nil {
		v.Error = err.Error()
	}
	return v
}

// DaySheet opens an attendance session for a group and date and returns
// the roster with the choices already on record.
func (h *Handler) DaySheet(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	date, ok := queryDate(c, "date")
	if !ok {
		return
	}

	s := h.attendance.Open(c.Request.Context(), id, date)
	c.JSON(http.StatusOK, viewOf(s))
}

type saveAttendanceRequest struct {
	Date           string                 `json:"date" binding:"required"`
	MarkAllPresent bool                   `json:"mark_all_present"`
	Statuses       map[int64]model.Status `json:"statuses"`
}

// SaveAttendance replays a day's choices onto a fresh session and saves
// them. Students absent from the statuses map keep whatever is on record.
func (h *Handler) SaveAttendance(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req saveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	ctx := c.Request.Context()
	s := h.attendance.Open(ctx, id, date)
	switch s.State() {
	case attendance.StateError:
		fail(c, s.Err())
		return
	case attendance.StateEmpty:
		c.JSON(http.StatusConflict, gin.H{"error": "group has no active students"})
		return
	}

	if req.MarkAllPresent {
		if err := s.MarkAllPresent(); err != nil {
			fail(c, err)
			return
		}
	}
	for studentID, status := range req.Statuses {
		if err := s.SetStatus(studentID, status); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := s.Save(ctx); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(s))
}

// ClearDay removes every record for a group and date.
func (h *Handler) ClearDay(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	date, ok := queryDate(c, "date")
	if !ok {
		return
	}
	if err := h.attendance.ClearDay(c.Request.Context(), id, date); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AttendanceDates lists the days a group has records for, newest first.
func (h *Handler) AttendanceDates(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	dates, err := h.attendance.Dates(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(dateLayout))
	}
	c.JSON(http.StatusOK, out)
}

// DayRecords lists the persisted records for a group and date.
func (h *Handler) DayRecords(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	date, ok := queryDate(c, "date")
	if !ok {
		return
	}
	records, err := h.attendance.RecordsForDay(c.Request.Context(), id, date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

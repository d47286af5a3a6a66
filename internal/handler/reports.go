package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GroupReport computes the aggregate for a group over [start, end].
func (h *Handler) GroupReport(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	start, end, ok := queryRange(c)
	if !ok {
		return
	}

	if _, err := h.groups.Get(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	r, err := h.reports.ForGroup(c.Request.Context(), id, start, end)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// StudentPercentage returns a student's present percentage over [start, end].
func (h *Handler) StudentPercentage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	start, end, ok := queryRange(c)
	if !ok {
		return
	}

	if _, err := h.students.Get(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	pct, err := h.reports.StudentPercentage(c.Request.Context(), id, start, end)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"student_id": id,
		"start":      start.Format(dateLayout),
		"end":        end.Format(dateLayout),
		"percentage": pct,
	})
}

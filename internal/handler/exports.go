package handler

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"asistedocente/internal/export"
)

type exportRequest struct {
	Start  string `json:"start" binding:"required"`
	End    string `json:"end" binding:"required"`
	Format string `json:"format" binding:"required,oneof=pdf xlsx"`
}

// rangeOf parses and validates the request's date range, writing the
// error response itself on failure.
func (r exportRequest) rangeOf(c *gin.Context) (start, end time.Time, ok bool) {
	start, err := parseDate(r.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start, want YYYY-MM-DD"})
		return
	}
	end, err = parseDate(r.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end, want YYYY-MM-DD"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end before start"})
		return
	}
	return start, end, true
}

// ExportGroup schedules an async export of a group's report.
func (h *Handler) ExportGroup(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, ok := req.rangeOf(c)
	if !ok {
		return
	}

	job, err := h.exports.EnqueueGroup(c.Request.Context(), id, start, end, export.Format(req.Format))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, job)
}

// ExportStudent schedules an async export of one student's history.
func (h *Handler) ExportStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, ok := req.rangeOf(c)
	if !ok {
		return
	}

	job, err := h.exports.EnqueueStudent(c.Request.Context(), id, start, end, export.Format(req.Format))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, job)
}

// ExportJob reports the status of an export job.
func (h *Handler) ExportJob(c *gin.Context) {
	job, ok := h.exports.Job(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// ExportFile serves a finished export's file.
func (h *Handler) ExportFile(c *gin.Context) {
	job, ok := h.exports.Job(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if job.Status != export.JobDone {
		c.JSON(http.StatusConflict, gin.H{"error": "job is " + string(job.Status)})
		return
	}
	c.FileAttachment(job.Path, filepath.Base(job.Path))
}

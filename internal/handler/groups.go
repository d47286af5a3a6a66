package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"asistedocente/internal/auth"
	"asistedocente/internal/model"
)

type groupRequest struct {
	Name        string  `json:"name" binding:"required"`
	Subject     string  `json:"subject" binding:"required"`
	Schedule    *string `json:"schedule"`
	Description *string `json:"description"`
}

// CreateGroup creates a group owned by the acting teacher.
func (h *Handler) CreateGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.groups.Create(c.Request.Context(), model.Group{
		Name:        req.Name,
		Subject:     req.Subject,
		Schedule:    req.Schedule,
		Description: req.Description,
		TeacherID:   auth.TeacherID(c),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// ListGroups returns the acting teacher's active groups.
func (h *Handler) ListGroups(c *gin.Context) {
	groups, err := h.groups.ListByTeacher(c.Request.Context(), auth.TeacherID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetGroup returns a group with its student count.
func (h *Handler) GetGroup(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	g, err := h.groups.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	count, err := h.students.CountByGroup(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": g, "student_count": count})
}

// UpdateGroup rewrites a group's editable fields.
func (h *Handler) UpdateGroup(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.groups.Update(c.Request.Context(), model.Group{
		ID:          id,
		Name:        req.Name,
		Subject:     req.Subject,
		Schedule:    req.Schedule,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// DeleteGroup hard-deletes a group. Students and attendance in the group
// go with it.
func (h *Handler) DeleteGroup(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.groups.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeactivateGroup hides a group without touching its history.
func (h *Handler) DeactivateGroup(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.groups.Deactivate(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GroupStudents returns the group's active roster.
func (h *Handler) GroupStudents(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	students, err := h.students.ListByGroup(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

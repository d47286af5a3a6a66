package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"asistedocente/internal/model"
)

type studentRequest struct {
	Name    string  `json:"name" binding:"required"`
	Surname string  `json:"surname" binding:"required"`
	Code    string  `json:"code" binding:"required"`
	GroupID int64   `json:"group_id" binding:"required"`
	Email   *string `json:"email"`
	Photo   *string `json:"photo"`
}

// EnrollStudent adds a student to a group.
func (h *Handler) EnrollStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, err := h.students.Enroll(c.Request.Context(), model.Student{
		Name:    req.Name,
		Surname: req.Surname,
		Code:    req.Code,
		GroupID: req.GroupID,
		Email:   req.Email,
		Photo:   req.Photo,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// ListStudents lists active students, optionally filtered by a search query.
func (h *Handler) ListStudents(c *gin.Context) {
	ctx := c.Request.Context()
	if q := c.Query("q"); q != "" {
		students, err := h.students.Search(ctx, q)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, students)
		return
	}
	students, err := h.students.List(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (h *Handler) GetStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	st, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// UpdateStudent rewrites a student's editable fields. Group membership
// changes go through Transfer instead.
func (h *Handler) UpdateStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, err := h.students.Update(c.Request.Context(), model.Student{
		ID:      id,
		Name:    req.Name,
		Surname: req.Surname,
		Code:    req.Code,
		Email:   req.Email,
		Photo:   req.Photo,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type transferRequest struct {
	GroupID int64 `json:"group_id" binding:"required"`
}

// TransferStudent moves a student to another group. Attendance history
// stays with the student.
func (h *Handler) TransferStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.students.Transfer(c.Request.Context(), id, req.GroupID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteStudent hard-deletes a student and their attendance records.
func (h *Handler) DeleteStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeactivateStudent hides a student without touching their history.
func (h *Handler) DeactivateStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.students.Deactivate(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StudentHistory returns every attendance record for a student, newest first.
func (h *Handler) StudentHistory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	records, err := h.attendance.StudentHistory(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

package handler

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"asistedocente/internal/auth"
	"asistedocente/internal/model"
)

type registerRequest struct {
	Name     string  `json:"name" binding:"required"`
	Surname  string  `json:"surname" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	Phone    *string `json:"phone"`
}

// Register creates a teacher account and logs it in.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.teachers.Register(c.Request.Context(), model.Teacher{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		fail(c, err)
		return
	}

	tokens, err := auth.Issue(t.ID, h.authCfg.Issuer, h.authCfg.SigningKey, h.authCfg.AccessTTL, h.authCfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"teacher":       t,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and issues tokens.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.teachers.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	tokens, err := auth.Issue(t.ID, h.authCfg.Issuer, h.authCfg.SigningKey, h.authCfg.AccessTTL, h.authCfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"teacher":       t,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
	})
}

// Me returns the acting teacher's profile with their group count.
func (h *Handler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	id := auth.TeacherID(c)
	t, err := h.teachers.Get(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	groups, err := h.groups.CountByTeacher(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teacher": t, "group_count": groups})
}

type profileRequest struct {
	Name     string  `json:"name" binding:"required"`
	Surname  string  `json:"surname" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
}

// UpdateMe rewrites the acting teacher's profile. A blank password keeps
// the stored one.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := auth.TeacherID(c)
	current, err := h.teachers.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	current.Name = req.Name
	current.Surname = req.Surname
	current.Email = req.Email
	current.Password = req.Password
	current.Phone = req.Phone

	t, err := h.teachers.Update(c.Request.Context(), current)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// UploadPhoto stores a profile photo locally and records its path.
// Expects multipart form with a "photo" file field.
func (h *Handler) UploadPhoto(c *gin.Context) {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read photo"})
		return
	}

	path, err := h.photos.Save(data, header.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.teachers.SetPhoto(c.Request.Context(), auth.TeacherID(c), path); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo": path})
}

// DeletePhoto clears the profile photo and removes its file.
func (h *Handler) DeletePhoto(c *gin.Context) {
	old, err := h.teachers.ClearPhoto(c.Request.Context(), auth.TeacherID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if old != "" {
		if err := h.photos.Delete(old); err != nil {
			log.Printf("delete photo %s: %v", old, err)
		}
	}
	c.Status(http.StatusNoContent)
}

// DeactivateMe soft-deletes the acting teacher's account.
func (h *Handler) DeactivateMe(c *gin.Context) {
	if err := h.teachers.Deactivate(c.Request.Context(), auth.TeacherID(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

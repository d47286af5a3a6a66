// Package handler carries the HTTP surface. Handlers translate between
// JSON and the domain services and hold no domain logic of their own.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"asistedocente/internal/attendance"
	"asistedocente/internal/export"
	"asistedocente/internal/group"
	"asistedocente/internal/model"
	"asistedocente/internal/photostore"
	"asistedocente/internal/report"
	"asistedocente/internal/store"
	"asistedocente/internal/student"
	"asistedocente/internal/teacher"
	"asistedocente/internal/validate"
)

// AuthConfig is what the login handlers need to issue tokens.
type AuthConfig struct {
	Issuer     string
	SigningKey string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Handler struct {
	store      *store.Store
	teachers   *teacher.Service
	groups     *group.Service
	students   *student.Service
	attendance *attendance.Service
	reports    *report.Service
	exports    *export.Service
	photos     *photostore.Store
	authCfg    AuthConfig
}

func New(
	st *store.Store,
	teachers *teacher.Service,
	groups *group.Service,
	students *student.Service,
	att *attendance.Service,
	reports *report.Service,
	exports *export.Service,
	photos *photostore.Store,
	authCfg AuthConfig,
) *Handler {
	return &Handler{
		store:      st,
		teachers:   teachers,
		groups:     groups,
		students:   students,
		attendance: att,
		reports:    reports,
		exports:    exports,
		photos:     photos,
		authCfg:    authCfg,
	}
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

const dateLayout = "2006-01-02"

func parseDate(v string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return model.DateOnly(d), nil
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// queryDate reads a date query param, defaulting to today.
func queryDate(c *gin.Context, key string) (time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		return model.Today(), true
	}
	d, err := time.ParseInLocation(dateLayout, v, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key + ", want YYYY-MM-DD"})
		return time.Time{}, false
	}
	return model.DateOnly(d), true
}

// queryRange reads the inclusive [start, end] query params.
func queryRange(c *gin.Context) (time.Time, time.Time, bool) {
	start, ok := queryDate(c, "start")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok := queryDate(c, "end")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end before start"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// fail maps a service error onto a status code and a JSON message. Every
// failure is reported once; nothing retries.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var fieldErr *validate.FieldError
	switch {
	case errors.As(err, &fieldErr):
		status = http.StatusBadRequest
	case errors.Is(err, teacher.ErrNotFound),
		errors.Is(err, group.ErrNotFound),
		errors.Is(err, student.ErrNotFound),
		errors.Is(err, attendance.ErrGroupNotFound):
		status = http.StatusNotFound
	case errors.Is(err, student.ErrDuplicateCode),
		errors.Is(err, teacher.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, teacher.ErrBadCredentials):
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

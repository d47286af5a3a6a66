// Package validate holds the field rules shared by the domain services.
// Failures abort the operation before any write.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldError reports which field failed and why, so callers can surface
// it inline.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Reason
}

func fieldErr(field, format string, args ...any) error {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	nameRe  = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
	codeRe  = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
	phoneRe = regexp.MustCompile(`^[0-9-]+$`)
)

// PersonName validates a person's name or surname.
func PersonName(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fieldErr(field, "is required")
	}
	if len(v) < 2 || len(v) > 50 {
		return fieldErr(field, "must be between 2 and 50 characters")
	}
	if !nameRe.MatchString(v) {
		return fieldErr(field, "must contain letters only")
	}
	return nil
}

// GroupName validates a group's name or subject.
func GroupName(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fieldErr(field, "is required")
	}
	if len(v) < 2 || len(v) > 50 {
		return fieldErr(field, "must be between 2 and 50 characters")
	}
	return nil
}

// StudentCode validates an enrollment code.
func StudentCode(v string) error {
	if strings.TrimSpace(v) == "" {
		return fieldErr("code", "is required")
	}
	if len(v) < 3 || len(v) > 20 {
		return fieldErr("code", "must be between 3 and 20 characters")
	}
	if !codeRe.MatchString(v) {
		return fieldErr("code", "must be alphanumeric")
	}
	return nil
}

// Email validates an email address. Blank is accepted unless required.
func Email(v string, required bool) error {
	if v == "" {
		if required {
			return fieldErr("email", "is required")
		}
		return nil
	}
	if !emailRe.MatchString(v) {
		return fieldErr("email", "is invalid")
	}
	return nil
}

// Phone validates an optional phone number.
func Phone(v string) error {
	if v == "" {
		return nil
	}
	if !phoneRe.MatchString(v) {
		return fieldErr("phone", "must contain digits and dashes only")
	}
	digits := strings.ReplaceAll(v, "-", "")
	if len(digits) < 8 || len(digits) > 15 {
		return fieldErr("phone", "must have between 8 and 15 digits")
	}
	return nil
}

// Required validates a generic required field.
func Required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fieldErr(field, "is required")
	}
	return nil
}

// MaxLen validates an optional free-text field against a length cap.
func MaxLen(field, v string, max int) error {
	if len(v) > max {
		return fieldErr(field, "cannot exceed %d characters", max)
	}
	return nil
}

package validator

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/dateutil"
)

// ValidationError is a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects field failures for one request. A non-empty
// value satisfies errors.Is(err, apperror.ErrValidation).
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

func (v ValidationErrors) Is(target error) bool {
	return target == apperror.ErrValidation
}

// ToMap keys messages by field; a later message for the same field wins.
func (v ValidationErrors) ToMap() map[string]string {
	fields := make(map[string]string, len(v))
	for _, fe := range v {
		fields[fe.Field] = fe.Message
	}
	return fields
}

func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns nil when nothing was collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidDate accepts calendar dates in YYYY-MM-DD form.
func IsValidDate(s string) (time.Time, bool) {
	date, err := dateutil.Parse(s)
	return date, err == nil
}

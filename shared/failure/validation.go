package failure

import (
	"errors"

	"github.com/lib/pq"
)

// ValidationError rejects a request payload. Field names the offending JSON field
// and is empty for rules that span several fields.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"error"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation returns a new ValidationError for the given field.
func Validation(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// AsValidation reports whether err carries a ValidationError and returns it.
func AsValidation(err error) (*ValidationError, bool) {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation, true
	}

	return nil, false
}

// PostgresCode returns the SQLSTATE of a lib/pq error wrapped in err, or an empty string.
func PostgresCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

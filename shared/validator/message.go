package validator

import (
	"errors"
	"strings"

	"travel/shared/failure"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":    "{field} is required",
		"gte":         "{field} must be greater than or equal to {param}",
		"lte":         "{field} must be less than or equal to {param}",
		"gt":          "{field} must be greater than {param}",
		"lt":          "{field} must be less than {param}",
		"oneof":       "{field} must be one of {param}",
		"max":         "{field} must be less than or equal to {param}",
		"min":         "{field} must be greater than or equal to {param}",
		"email":       "{field} must be a valid email address",
		"uuid":        "{field} must be a valid UUID",
		"alphanum":    "{field} must contain only letters and numbers",
		"date":        "{field} must be a date formatted as YYYY-MM-DD",
		"mimetypes":   "{field} must be one of {param}",
		"maxfilesize": "{field} must not be larger than {param} MB",
		"nefield":     "{field} must be different from {param}",
	}
)

// toFailure converts the first failing rule into a ValidationError naming the JSON field.
func toFailure(err error) error {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			field := valErr.Field()
			param := valErr.Param()

			errStr := messages[valErr.Tag()]
			if errStr != "" {
				errStr = strings.ReplaceAll(errStr, "{field}", field)
				errStr = strings.ReplaceAll(errStr, "{param}", param)

				return failure.Validation(field, errStr) //nolint:wrapcheck
			}

			return failure.Validation(field, valErr.Error()) //nolint:wrapcheck
		}
	}

	return failure.BadRequestFromString(err.Error()) //nolint:wrapcheck
}

package validation

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateCreate checks a task creation payload. Limits apply to the
// trimmed values, which is also what gets stored.
func ValidateCreate(title string, description *string) []FieldError {
	var errs []FieldError

	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title must not be empty"})
	} else if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		errs = append(errs, FieldError{Field: "title", Message: "title must be at most 200 characters"})
	}

	if description != nil && utf8.RuneCountInString(strings.TrimSpace(*description)) > MaxDescriptionLength {
		errs = append(errs, FieldError{Field: "description", Message: "description must be at most 1000 characters"})
	}

	return errs
}

// ValidateUpdate checks a partial update payload. Nil fields are left
// untouched by the update and are not validated.
func ValidateUpdate(title, description *string) []FieldError {
	var errs []FieldError

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			errs = append(errs, FieldError{Field: "title", Message: "title must not be empty"})
		} else if utf8.RuneCountInString(trimmed) > MaxTitleLength {
			errs = append(errs, FieldError{Field: "title", Message: "title must be at most 200 characters"})
		}
	}

	if description != nil && utf8.RuneCountInString(strings.TrimSpace(*description)) > MaxDescriptionLength {
		errs = append(errs, FieldError{Field: "description", Message: "description must be at most 1000 characters"})
	}

	return errs
}

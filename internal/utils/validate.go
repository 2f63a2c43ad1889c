package utils

import (
	"regexp"
	"strings"
	"unicode"
)

// FieldError is a validation failure scoped to a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const passwordSpecials = "#?!@$%^&*-"

func ValidateName(field, value string) *FieldError {
	if l := len(value); l < 1 || l > 50 {
		return &FieldError{Field: field, Message: field + " must be between 1 and 50 characters"}
	}
	return nil
}

func ValidateUsername(value string) *FieldError {
	if !usernameRe.MatchString(value) {
		return &FieldError{
			Field:   "username",
			Message: "Username must be between 3 and 20 characters and can only contain alphanumeric characters, dots, dashes, and underscores",
		}
	}
	return nil
}

func ValidateEmail(value string) *FieldError {
	if !emailRe.MatchString(value) {
		return &FieldError{Field: "email", Message: "Invalid email address"}
	}
	return nil
}

// ValidatePassword requires 8-50 characters with at least one uppercase
// letter, one lowercase letter, one digit, and one special character.
func ValidatePassword(value string) *FieldError {
	var hasUpper, hasLower, hasDigit, hasSpecial bool

	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}

	if l := len(value); l < 8 || l > 50 || !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return &FieldError{
			Field:   "password",
			Message: "Password must be between 8 and 50 characters, contain one uppercase letter, one lowercase letter, one number, and one special character",
		}
	}

	return nil
}

package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MaxCommentLength caps file comments.
const MaxCommentLength = 500

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("username", validateUsername); err != nil {
		panic(fmt.Sprintf("failed to register username validation: %v", err))
	}
	if err := validate.RegisterValidation("password", validatePassword); err != nil {
		panic(fmt.Sprintf("failed to register password validation: %v", err))
	}
	if err := validate.RegisterValidation("filename", validateFilename); err != nil {
		panic(fmt.Sprintf("failed to register filename validation: %v", err))
	}
}

// Validate validates a struct using tags
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// ValidateUsername validates a username separately
func ValidateUsername(username string) error {
	return validate.Var(username, "required,username")
}

// ValidatePassword validates a password separately
func ValidatePassword(password string) error {
	return validate.Var(password, "required,password")
}

// ValidateFilename validates a display filename separately
func ValidateFilename(name string) error {
	return validate.Var(name, "required,filename")
}

// ValidateComment validates a file comment separately
func ValidateComment(comment string) error {
	return validate.Var(comment, fmt.Sprintf("max=%d", MaxCommentLength))
}

// Custom validation functions

func validateUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()

	// Username requirements:
	// - Length between 4 and 20 characters
	// - Only letters and numbers
	if len(username) < 4 || len(username) > 20 {
		return false
	}

	for _, char := range username {
		if !unicode.IsLetter(char) && !unicode.IsNumber(char) {
			return false
		}
	}

	return true
}

func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	// Password requirements:
	// - Minimum 6 characters
	// - At least one uppercase letter
	// - At least one number
	// - At least one special character
	if len(password) < 6 {
		return false
	}

	var (
		hasUpper   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasUpper && hasNumber && hasSpecial
}

func validateFilename(fl validator.FieldLevel) bool {
	name := fl.Field().String()

	// Filename requirements:
	// - Length between 1 and 255 characters
	// - Only letters, numbers, dots, underscores, and hyphens
	// - No path separators, so a display name can never traverse directories
	if len(name) < 1 || len(name) > 255 {
		return false
	}

	for _, char := range name {
		if char > unicode.MaxASCII {
			return false
		}
		if !unicode.IsLetter(char) && !unicode.IsNumber(char) &&
			char != '.' && char != '_' && char != '-' {
			return false
		}
	}

	return true
}

// ValidationError represents a validation error
type ValidationError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// FormatError formats a validation error into human-readable messages
func FormatError(err error) []ValidationError {
	var validationErrors []ValidationError

	if err == nil {
		return validationErrors
	}

	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range errs {
			var message string

			switch e.Tag() {
			case "required":
				message = fmt.Sprintf("%s is required", e.Field())
			case "email":
				message = "Invalid email format"
			case "username":
				message = "Username must be 4-20 characters and contain only letters and numbers"
			case "password":
				message = "Password must be at least 6 characters long and contain at least one uppercase letter, one number, and one special character"
			case "filename":
				message = "File name may contain only letters, numbers, dots, underscores, and hyphens"
			case "max":
				message = fmt.Sprintf("%s is too long", e.Field())
			default:
				message = fmt.Sprintf("Invalid value for %s", e.Field())
			}

			validationErrors = append(validationErrors, ValidationError{
				Field: strings.ToLower(e.Field()),
				Error: message,
			})
		}
	}

	return validationErrors
}

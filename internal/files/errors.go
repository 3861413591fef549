package files

import "errors"

var (
	ErrUnauthenticated      = errors.New("authentication required")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("file not found")
	ErrDuplicateName        = errors.New("a file with this name already exists")
	ErrDuplicateLink        = errors.New("special link already issued")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrExtensionNotAllowed  = errors.New("file extension not allowed")
	ErrStorageInconsistency = errors.New("file record exists but stored content is missing")
)

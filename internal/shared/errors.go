package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Job file errors
	ErrFileNotFound  = fmt.Errorf("file not found")
	ErrMissingField  = fmt.Errorf("missing field")
	ErrInvalidNumber = fmt.Errorf("invalid number")

	// Reconciliation errors
	ErrFilamentNotFound  = fmt.Errorf("filament not found")
	ErrPrinterNotFound   = fmt.Errorf("printer not found")
	ErrInsufficientStock = fmt.Errorf("insufficient stock")

	// Account errors
	ErrAuthFailed        = fmt.Errorf("authentication failed")
	ErrDuplicateUsername = fmt.Errorf("username already exists")
	ErrUserNotFound      = fmt.Errorf("user not found")
	ErrPermissionDenied  = fmt.Errorf("permission denied")
	ErrRateLimited       = fmt.Errorf("too many failed attempts")

	// Persistence errors
	ErrPersistenceRead  = fmt.Errorf("failed to read document")
	ErrPersistenceWrite = fmt.Errorf("failed to write document")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidID       = fmt.Errorf("invalid id")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)

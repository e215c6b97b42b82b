package backup

import "errors"

var (
	// ErrParse indicates the backup payload is not well-formed JSON.
	ErrParse = errors.New("backup: malformed json")
	// ErrValidation indicates structurally valid JSON that is not an
	// importable backup, or missing required import input.
	ErrValidation = errors.New("backup: validation failed")
	// ErrImportInProgress indicates another import holds the guard.
	ErrImportInProgress = errors.New("backup: import already in progress")
)

package services

import "errors"

var (
	ErrValidation       = errors.New("validation failed")
	ErrDuplicateContent = errors.New("file was already uploaded")
	ErrNotFound         = errors.New("not found")
	ErrLinkExpired      = errors.New("link expired")
	ErrForbidden        = errors.New("access denied")
	ErrStorageIO        = errors.New("storage failure")
)

// Validation failures carry their own client-facing message and match ErrValidation.
var (
	ErrFileRequired        error = validationError("file is required")
	ErrNoFileSelected      error = validationError("no file selected")
	ErrEmptyFile           error = validationError("file is empty")
	ErrExtensionNotAllowed error = validationError("file extension is not allowed")
	ErrEmptyDescription    error = validationError("description must not be empty")
)

type validationError string

func (e validationError) Error() string { return string(e) }

func (e validationError) Is(target error) bool { return target == ErrValidation }

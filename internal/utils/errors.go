package utils

import "errors"

// Common application errors used across services. Handlers map these to
// HTTP status codes; raw collaborator error text is never sent to clients.
var (
	ErrValidation           = errors.New("VALIDATION_ERROR")
	ErrAuthentication       = errors.New("AUTHENTICATION_ERROR")
	ErrInvalidCredentials   = errors.New("INVALID_CREDENTIALS")
	ErrEmailTaken           = errors.New("EMAIL_TAKEN")
	ErrNotFound             = errors.New("NOT_FOUND")
	ErrConfirmationRequired = errors.New("CONFIRMATION_REQUIRED")
	ErrUpload               = errors.New("UPLOAD_ERROR")
	ErrStore                = errors.New("STORE_ERROR")
)

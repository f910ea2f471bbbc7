package handlers

const (
	ErrInvalidJSON         = "Invalid JSON body"
	ErrInvalidMode         = "Invalid game mode"
	ErrInvalidPoemID       = "Invalid poem ID"
	ErrInvalidCSRFToken    = "Invalid CSRF token"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "Internal server error"

	maxBodyBytes = 64 << 10
)

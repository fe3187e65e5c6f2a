package handlers

const (
	ErrInvalidRequestBody  = "Invalid request body"
	ErrUnauthorized        = "Unauthorized"
	ErrForbidden           = "Invalid CSRF token"
	ErrTooManyRequests     = "Too many requests, please try again later"
	ErrInternalServerError = "Internal server error"
	ErrNotFound            = "Not found"
	ErrUsernameTaken       = "Username already exists"
	ErrBadUsername         = "Please choose a different username"
	ErrInvalidCredentials  = "Invalid username or password"
	ErrMessageRequired     = "Message is required"
	ErrInvalidPoints       = "Invalid points amount"
	ErrNotEnoughPoints     = "Not enough points available"
	ErrActivityNotFound    = "Activity not found"

	// maxBodyBytes bounds every JSON request body
	maxBodyBytes = 1 << 20
)

package handlers

const (
	ErrInvalidFormData     = "Invalid form data"
	ErrUnauthorized        = "Unauthorized"
	ErrInternalServerError = "Internal server error"

	MsgTooManyAttempts   = "Too many login attempts. Please wait a minute and try again."
	MsgLoginFailed       = "Invalid student name or password"
	MsgPageIncomplete    = "Please answer all questions on this page first."
	MsgProgressSaveRetry = "Your answers are recorded but could not be saved yet. They will be saved with your next completed day."
)

package app_errors

import "github.com/gofiber/fiber/v2"

// AppError is the error value every repo and use-case returns. Code is the HTTP
// status, MessageKey the i18n key rendered by the error middleware, Err the
// underlying cause (logged, never sent to the client).
type AppError struct {
	Code       int
	Type       string
	MessageKey string
	Details    []FieldError
	Err        error
}

const (
	ErrValidation   = "VALIDATION_ERROR"
	ErrInvalidBody  = "INVALID_BODY"
	ErrInvalidParam = "INVALID_PARAM"
	ErrInvalidQuery = "INVALID_QUERY"
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN"
	ErrNotFound     = "NOT_FOUND"
	ErrConflict     = "CONFLICT"
	ErrRateLimited  = "RATE_LIMITED"
	ErrInternal     = "INTERNAL_ERROR"
)

type FieldError struct {
	Field      string         `json:"field"`
	Reason     string         `json:"reason"`
	MessageKey string         `json:"message_key"`
	Params     map[string]any `json:"params,omitempty"`
}

func NewAppError(code int, errType string, messageKey string, err error) *AppError {
	return &AppError{
		Code:       code,
		Type:       errType,
		MessageKey: messageKey,
		Err:        err,
	}
}

func NewValidationError(details []FieldError) *AppError {
	return &AppError{
		Code:       fiber.StatusBadRequest,
		Type:       ErrValidation,
		MessageKey: "invalid_request",
		Details:    details,
	}
}

func Internal(err error) *AppError {
	return NewAppError(fiber.StatusInternalServerError, ErrInternal, "internal_error", err)
}

func Forbidden(messageKey string) *AppError {
	return NewAppError(fiber.StatusForbidden, ErrForbidden, messageKey, nil)
}

func NotFound(messageKey string) *AppError {
	return NewAppError(fiber.StatusNotFound, ErrNotFound, messageKey, nil)
}

func Conflict(messageKey string, err error) *AppError {
	return NewAppError(fiber.StatusConflict, ErrConflict, messageKey, err)
}

func TooManyRequests() *AppError {
	return NewAppError(fiber.StatusTooManyRequests, ErrRateLimited, "too_many_request", nil)
}

func InvalidBody(err error) *AppError {
	return NewAppError(fiber.StatusBadRequest, ErrInvalidBody, "request.invalid_body", err)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.MessageKey
}

func (e *AppError) Unwrap() error {
	return e.Err
}

package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeDuplicateAccount   = "DUPLICATE_ACCOUNT"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeNoProfile          = "NO_PROFILE"
	CodeAlreadyLiked       = "ALREADY_LIKED"
	CodeNotLiked           = "NOT_LIKED"
	CodeInternal           = "INTERNAL_ERROR"
)

// FieldError is one entry of a validation failure.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// ValidationResponse is the body for validation, credential and duplicate failures.
type ValidationResponse struct {
	Errors []FieldError `json:"errors"`
}

// ErrorResponse is the body for every other domain failure.
type ErrorResponse struct {
	Msg  string `json:"msg"`
	Code string `json:"code"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports a single request validation failure.
func NewValidationError(message string) *AppError {
	return NewFieldErrors([]FieldError{{Msg: message}})
}

// NewFieldError reports a validation failure tied to one request field.
func NewFieldError(param, message string) *AppError {
	return NewFieldErrors([]FieldError{{Msg: message, Param: param}})
}

// NewFieldErrors collects several validation failures into one error.
func NewFieldErrors(fields []FieldError) *AppError {
	msg := "Validation failed"
	if len(fields) > 0 {
		msg = fields[0].Msg
	}
	return &AppError{Code: CodeValidation, Message: msg, Fields: fields}
}

// NewInvalidCredentialsError is returned for every failed login, whatever the cause.
func NewInvalidCredentialsError() *AppError {
	return &AppError{Code: CodeInvalidCredentials, Message: "Invalid Credentials"}
}

func NewDuplicateAccountError() *AppError {
	return &AppError{Code: CodeDuplicateAccount, Message: "User already exists", Fields: []FieldError{{Msg: "User already exists", Param: "email"}}}
}

func NewUnauthenticatedError() *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: "No token, authorization denied"}
}

func NewInvalidTokenError(err error) *AppError {
	return &AppError{Code: CodeInvalidToken, Message: "Token is not valid", Err: err}
}

// NewForbiddenError reports an authenticated caller acting on something it does not own.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

func NewNoProfileError() *AppError {
	return &AppError{Code: CodeNoProfile, Message: "There is no profile for this user"}
}

func NewAlreadyLikedError() *AppError {
	return &AppError{Code: CodeAlreadyLiked, Message: "Post already liked"}
}

func NewNotLikedError() *AppError {
	return &AppError{Code: CodeNotLiked, Message: "Post has not yet been liked"}
}

func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Server Error", Err: err}
}

// IsCode reports whether err wraps an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusFor maps an error to its HTTP status. Unknown errors are internal.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation, CodeInvalidCredentials, CodeDuplicateAccount,
		CodeNoProfile, CodeAlreadyLiked, CodeNotLiked:
		return fiber.StatusBadRequest
	case CodeUnauthenticated, CodeInvalidToken:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the standard error body for err with the given status.
// Internal failures never leak their cause; callers log it.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code == CodeInternal || status >= fiber.StatusInternalServerError {
		return c.Status(fiber.StatusInternalServerError).SendString("Server Error")
	}

	switch appErr.Code {
	case CodeValidation, CodeInvalidCredentials, CodeDuplicateAccount:
		fields := appErr.Fields
		if len(fields) == 0 {
			fields = []FieldError{{Msg: appErr.Message}}
		}
		return c.Status(status).JSON(ValidationResponse{Errors: fields})
	default:
		return c.Status(status).JSON(ErrorResponse{Msg: appErr.Message, Code: appErr.Code})
	}
}

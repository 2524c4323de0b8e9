// Package apperrors contains the application error type carried from the data
// access layer up to the transport layers.
package apperrors

import (
	"errors"
	"net/http"
)

// Error codes shared by the repositories and services.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeBadRequest        = "BAD_REQUEST"
)

var (
	// ErrNotFound matches any AppError with CodeNotFound.
	ErrNotFound = &AppError{Code: CodeNotFound, StatusCode: http.StatusNotFound}

	// ErrInsufficientStock matches any AppError with CodeInsufficientStock.
	ErrInsufficientStock = &AppError{Code: CodeInsufficientStock, StatusCode: http.StatusBadRequest}
)

// AppError is a domain error with an HTTP-style status code.
type AppError struct {
	Code       string
	Message    string
	StatusCode int
}

// New creates an AppError with the given message and status code.
func New(message string, statusCode int) *AppError {
	code := CodeBadRequest
	if statusCode == http.StatusNotFound {
		code = CodeNotFound
	}
	return &AppError{Code: code, Message: message, StatusCode: statusCode}
}

// NotFound creates a 404 AppError.
func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, StatusCode: http.StatusNotFound}
}

// InsufficientStock creates a 400 AppError for a stock decrement that would go negative.
func InsufficientStock(message string) *AppError {
	return &AppError{Code: CodeInsufficientStock, Message: message, StatusCode: http.StatusBadRequest}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// StatusCode returns the status carried by err, or 500 for anything else.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

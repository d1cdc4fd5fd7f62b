// Package errors provides structured error handling for the application
// Following enterprise patterns for error management and observability
package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

// Common error codes following RESTful API conventions
const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Server errors (5xx)
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeRepositoryError ErrorCode = "REPOSITORY_ERROR"
	CodeCacheError      ErrorCode = "CACHE_ERROR"

	// Engine contract errors
	CodeInvalidInput     ErrorCode = "INVALID_INPUT"
	CodeProfileNotFound  ErrorCode = "PROFILE_NOT_FOUND"
	CodeRecipeNotFound   ErrorCode = "RECIPE_NOT_FOUND"
	CodeMealPlanNotFound ErrorCode = "MEAL_PLAN_NOT_FOUND"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound, CodeProfileNotFound, CodeRecipeNotFound, CodeMealPlanNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewInvalidInputError reports a caller-contract violation. The engine never
// fails on well-formed input, so this always points at the calling layer.
func NewInvalidInputError(details string) *AppError {
	return NewAppError(CodeInvalidInput, "Invalid engine input", details)
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewProfileNotFoundError creates a profile not found error
func NewProfileNotFoundError(userID string) *AppError {
	return NewAppError(
		CodeProfileNotFound,
		"Dietary profile not found",
		fmt.Sprintf("No dietary profile exists for user %s", userID),
	).WithMetadata("user_id", userID)
}

// NewRecipeNotFoundError creates a recipe not found error
func NewRecipeNotFoundError(recipeID string) *AppError {
	return NewAppError(
		CodeRecipeNotFound,
		"Recipe not found",
		fmt.Sprintf("Recipe with ID %s does not exist", recipeID),
	).WithMetadata("recipe_id", recipeID)
}

// NewMealPlanNotFoundError creates a meal plan not found error
func NewMealPlanNotFoundError(planID string) *AppError {
	return NewAppError(
		CodeMealPlanNotFound,
		"Meal plan not found",
		fmt.Sprintf("Meal plan with ID %s does not exist", planID),
	).WithMetadata("meal_plan_id", planID)
}

// NewRepositoryError creates a repository error
func NewRepositoryError(operation string, cause error) *AppError {
	return NewAppError(
		CodeRepositoryError,
		"Repository operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails represents the error details in API responses
type ErrorDetails struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ToErrorResponse converts an AppError to an API error response
func ToErrorResponse(err *AppError) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:     err.Code,
			Message:  err.Message,
			Details:  err.Details,
			Metadata: err.Metadata,
		},
	}
}

// joinMessages is used when collecting several validation failures into one
// error string.
func joinMessages(messages []string) string {
	return strings.Join(messages, "; ")
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

// NewValidationErrors creates a single AppError from multiple field errors
func NewValidationErrors(errs []ValidationError) *AppError {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Message)
	}

	return NewAppError(
		CodeValidationFailed,
		"Validation failed",
		joinMessages(messages),
	).WithMetadata("validation_errors", errs)
}

package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Tutoring specific errors
	ErrStudentNotFound ErrorCode = "STUDENT_NOT_FOUND"
	ErrTaskNotFound    ErrorCode = "TASK_NOT_FOUND"
	ErrCourseNotFound  ErrorCode = "COURSE_NOT_FOUND"
	ErrLLMServiceError ErrorCode = "LLM_SERVICE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(err error) *DomainError {
	return NewError(ErrInternal, "An unexpected internal error occurred", err)
}

func NewStudentNotFoundError(studentID string) *DomainError {
	return NewError(ErrStudentNotFound, fmt.Sprintf("Student not found with ID: %s", studentID), nil)
}

func NewTaskNotFoundError(taskID string) *DomainError {
	return NewError(ErrTaskNotFound, fmt.Sprintf("Task not found with ID: %s", taskID), nil)
}

func NewCourseNotFoundError(courseID string) *DomainError {
	return NewError(ErrCourseNotFound, fmt.Sprintf("Course not found with ID: %s", courseID), nil)
}


package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/buildboard/internal/domain/project"
)

// Error codes returned to clients.
const (
	CodeProjectNotFound = "PROJECT_NOT_FOUND"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeConflict        = "CONFLICT"
	CodeInvalidParams   = "INVALID_PARAMS"
	CodeMethodNotFound  = "METHOD_NOT_FOUND"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: CodeProjectNotFound, Message: "project not found", RecoveryHint: "Check the ID with list_projects"}
	case errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: CodeInvalidInput, Message: "invalid project input", RecoveryHint: "A project needs a non-empty name"}
	case errors.Is(err, project.ErrDuplicateID):
		return &APIError{Code: CodeConflict, Message: "project id already exists", RecoveryHint: "Omit id to have one generated"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

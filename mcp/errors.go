package mcp

import (
	"errors"
	"fmt"

	"bountyhub-backend/core/bounty"
)

// ToolError represents a structured error from tool execution
type ToolError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Tool       string `json:"tool,omitempty"`
	Field      string `json:"field,omitempty"`
	Hint       string `json:"hint,omitempty"`
	HttpStatus int    `json:"http_status,omitempty"`
}

func (e *ToolError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Tool-specific error code constants
const (
	ErrCodeMissingRequired = "MISSING_REQUIRED_FIELD"
	ErrCodeInvalidValue    = "INVALID_FIELD_VALUE"

	ErrCodeNotFound        = "RESOURCE_NOT_FOUND"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeWrongStage      = "WRONG_STAGE"
	ErrCodePastDeadline    = "PAST_DEADLINE"
	ErrCodeUnderfunded     = "UNDERFUNDED"
	ErrCodeAlreadyAccepted = "ALREADY_ACCEPTED"
	ErrCodeAlreadyPaid     = "ALREADY_PAID"
	ErrCodeNotAccepted     = "NOT_ACCEPTED"
	ErrCodeTransferFailed  = "TRANSFER_FAILED"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// NewMissingFieldError creates an error for missing required field
func NewMissingFieldError(tool, field string) *ToolError {
	return &ToolError{
		Code:       ErrCodeMissingRequired,
		Message:    fmt.Sprintf("Field '%s' is required", field),
		Tool:       tool,
		Field:      field,
		HttpStatus: 400,
		Hint:       fmt.Sprintf("Add '%s' to your request parameters", field),
	}
}

// NewEngineError wraps an engine error with its structured tool code.
func NewEngineError(tool string, err error) *ToolError {
	code, status, hint := classify(err)
	return &ToolError{
		Code:       code,
		Message:    err.Error(),
		Tool:       tool,
		HttpStatus: status,
		Hint:       hint,
	}
}

func classify(err error) (code string, status int, hint string) {
	switch {
	case errors.Is(err, bounty.ErrNotFound):
		return ErrCodeNotFound, 404, "Verify the bounty and fulfillment ids"
	case errors.Is(err, bounty.ErrUnauthorized):
		return ErrCodeUnauthorized, 403, "Only the issuer (or arbiter, where allowed) may perform this operation"
	case errors.Is(err, bounty.ErrWrongStage):
		return ErrCodeWrongStage, 409, "Check the bounty stage with get_bounty first"
	case errors.Is(err, bounty.ErrPastDeadline):
		return ErrCodePastDeadline, 400, "The bounty deadline has passed"
	case errors.Is(err, bounty.ErrUnderfunded):
		return ErrCodeUnderfunded, 402, "Contribute more funds before retrying"
	case errors.Is(err, bounty.ErrAlreadyAccepted):
		return ErrCodeAlreadyAccepted, 409, ""
	case errors.Is(err, bounty.ErrAlreadyPaid):
		return ErrCodeAlreadyPaid, 409, ""
	case errors.Is(err, bounty.ErrNotAccepted):
		return ErrCodeNotAccepted, 409, "The fulfillment must be accepted before payment"
	case errors.Is(err, bounty.ErrTransferFailed):
		return ErrCodeTransferFailed, 502, "The value transfer failed; state was rolled back"
	case errors.Is(err, bounty.ErrInvalidDeadline),
		errors.Is(err, bounty.ErrZeroAmount),
		errors.Is(err, bounty.ErrValueMismatch):
		return ErrCodeInvalidValue, 400, ""
	default:
		return ErrCodeInternalError, 500, ""
	}
}

// IsToolError checks if error is a ToolError
func IsToolError(err error) (*ToolError, bool) {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr, true
	}
	return nil, false
}

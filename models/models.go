package models

import "time"

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Code      int    `json:"code,omitempty"`
	Hint      string `json:"hint,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// APIResponse represents a generic API response.
type APIResponse struct {
	Success bool                   `json:"success"`
	Data    interface{}            `json:"data,omitempty"`
	Error   *ErrorResponse         `json:"error,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// NewSuccessResponse creates a success response.
func NewSuccessResponse(data interface{}) *APIResponse {
	return &APIResponse{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(error string, code int) *APIResponse {
	return &APIResponse{
		Success: false,
		Error: &ErrorResponse{
			Error:     error,
			Message:   error,
			Code:      code,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// NewErrorResponseWithHint creates an error response with a hint.
func NewErrorResponseWithHint(error string, code int, hint string) *APIResponse {
	resp := NewErrorResponse(error, code)
	if resp != nil && resp.Error != nil {
		resp.Error.Hint = hint
	}
	return resp
}

// NewSuccessResponseWithMeta creates a success response with metadata.
func NewSuccessResponseWithMeta(data interface{}, meta map[string]interface{}) *APIResponse {
	return &APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	}
}

// IssueBountyRequest is the request body for creating a bounty. Caller is
// the explicit issuer identity; AttachedSats models native value sent with
// the call. When Activate is true, DepositSats is pulled and the bounty is
// created directly in the active stage.
type IssueBountyRequest struct {
	Caller            string `json:"caller"`
	Deadline          int64  `json:"deadline"` // unix seconds
	Data              string `json:"data"`
	FulfillmentAmount int64  `json:"fulfillment_amount_sats"`
	Arbiter           string `json:"arbiter,omitempty"`
	PaysTokens        bool   `json:"pays_tokens,omitempty"`
	TokenRef          string `json:"token_ref,omitempty"`
	Activate          bool   `json:"activate,omitempty"`
	DepositSats       int64  `json:"deposit_sats,omitempty"`
	AttachedSats      int64  `json:"attached_sats,omitempty"`
}

// FundBountyRequest is the request body for contribute and activate.
type FundBountyRequest struct {
	Caller       string `json:"caller"`
	ValueSats    int64  `json:"value_sats"`
	AttachedSats int64  `json:"attached_sats"`
}

// CallerRequest is the request body for operations that only need the
// caller identity.
type CallerRequest struct {
	Caller string `json:"caller"`
}

// ChangeBountyRequest is the request body for draft-stage field edits.
// Only the fields present are applied.
type ChangeBountyRequest struct {
	Caller            string  `json:"caller"`
	Data              *string `json:"data,omitempty"`
	Deadline          *int64  `json:"deadline,omitempty"`
	Arbiter           *string `json:"arbiter,omitempty"`
	FulfillmentAmount *int64  `json:"fulfillment_amount_sats,omitempty"`
	PaysTokens        *bool   `json:"pays_tokens,omitempty"`
	TokenRef          *string `json:"token_ref,omitempty"`
}

// TransferIssuerRequest is the request body for issuer transfer.
type TransferIssuerRequest struct {
	Caller    string `json:"caller"`
	NewIssuer string `json:"new_issuer"`
}

// ExtendDeadlineRequest is the request body for deadline extension.
type ExtendDeadlineRequest struct {
	Caller      string `json:"caller"`
	NewDeadline int64  `json:"new_deadline"` // unix seconds
}

// IncreasePayoutRequest is the request body for raising the reward rate.
type IncreasePayoutRequest struct {
	Caller    string `json:"caller"`
	NewAmount int64  `json:"new_amount_sats"`
}

// FulfillmentRequest is the request body for submitting or updating a
// fulfillment.
type FulfillmentRequest struct {
	Caller string `json:"caller"`
	Data   string `json:"data"`
}

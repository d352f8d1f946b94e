package errors

import (
	"encoding/json"
)

// ErrorCode represents a specific error code.
type ErrorCode string

const (
	GenericErrorCode        ErrorCode = "0"
	ConnectFailedCode       ErrorCode = "ConnectFailed"
	SessionNotFoundCode     ErrorCode = "SessionNotFound"
	UnsupportedMethodCode   ErrorCode = "UnsupportedMethod"
	TypedDataInvalidCode    ErrorCode = "TypedDataInvalid"
	SigningFailedCode       ErrorCode = "SigningFailed"
	DuplicateRequestCode    ErrorCode = "DuplicateRequest"
	InvalidParamsCode       ErrorCode = "InvalidParams"
	UnauthorizedAccountCode ErrorCode = "UnauthorizedAccount"
	ChainIDMismatchCode     ErrorCode = "ChainIDMismatch"
	SignerNotConfiguredCode ErrorCode = "SignerNotConfigured"
)

// ErrorResponse represents an error response structure.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface for ErrorResponse.
func (e *ErrorResponse) Error() string {
	errorJSON, _ := json.Marshal(e)
	return string(errorJSON)
}

// NewErrorResponse returns an ErrorResponse with the given code, details taken from err.
func NewErrorResponse(code ErrorCode, err error) *ErrorResponse {
	resp := &ErrorResponse{Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	return resp
}

// CreateErrorResponseFromError creates an ErrorResponse from a generic error.
func CreateErrorResponseFromError(err error) error {
	if err == nil {
		return nil
	}
	if errResp, ok := err.(*ErrorResponse); ok {
		return errResp
	}
	return &ErrorResponse{
		Code:    GenericErrorCode,
		Details: err.Error(),
	}
}

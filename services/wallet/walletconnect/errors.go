package walletconnect

import (
	"errors"
	"fmt"
)

var (
	ErrConnectFailed       = errors.New("failed to connect")
	ErrSessionNotFound     = errors.New("session not found")
	ErrUnsupportedMethod   = errors.New("method not supported")
	ErrTypedDataInvalid    = errors.New("typed data is invalid")
	ErrSigningFailed       = errors.New("signing failed")
	ErrInvalidParamsCount  = errors.New("invalid params count")
	ErrInvalidParams       = errors.New("invalid params")
	ErrDuplicateRequest    = errors.New("request id already handled for this session")
	ErrSessionIDReused     = errors.New("session id was already used")
	ErrInvalidSession      = errors.New("invalid session")
	ErrUnauthorizedAccount = errors.New("account is not part of the session")
	ErrChainIDMismatch     = errors.New("chain id does not match the session")
	ErrStoreNotLoaded      = errors.New("persisted sessions could not be read")
)

// UnsupportedMethodError carries the method name nothing is routed for.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedMethod, e.Method)
}

func (e *UnsupportedMethodError) Is(target error) bool {
	return target == ErrUnsupportedMethod
}

// SigningFailedError is returned when the signer rejected or failed the operation.
// The original error stays reachable through errors.Is/As.
type SigningFailedError struct {
	Method string
	Cause  error
}

func (e *SigningFailedError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSigningFailed, e.Method, e.Cause)
}

func (e *SigningFailedError) Unwrap() error {
	return e.Cause
}

func (e *SigningFailedError) Is(target error) bool {
	return target == ErrSigningFailed
}

package ledger

import (
	"errors"
	"fmt"
)

// Code is a stable machine-readable failure class. Callers branch on
// codes, never on error strings.
type Code string

const (
	CodeDirCreateFailed Code = "DIR_CREATE_FAILED"
	CodeAppendFailed    Code = "APPEND_BLOCK_FAILED"
	CodeSoulInvalid     Code = "SOUL_INVALID"
	CodeReadChainFailed Code = "READ_CHAIN_FAILED"
	CodeChainLocked     Code = "CHAIN_LOCKED"
	CodeWorkspaceDenied Code = "WORKSPACE_DENIED"
	CodeBackendUnknown  Code = "BACKEND_UNKNOWN"
	CodeBlockNotFound   Code = "BLOCK_NOT_FOUND"
)

// StoreError wraps a storage failure with its class and the chain it
// happened on.
type StoreError struct {
	Code  Code
	Chain string
	Err   error
}

func (e *StoreError) Error() string {
	if e.Chain == "" {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("%s: chain %s: %v", e.Code, e.Chain, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError builds a StoreError; chain may be empty for failures
// not scoped to one chain.
func NewStoreError(code Code, chain string, err error) *StoreError {
	return &StoreError{Code: code, Chain: chain, Err: err}
}

// CodeOf extracts the failure class from an error chain, or "" when the
// error is not a StoreError.
func CodeOf(err error) Code {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

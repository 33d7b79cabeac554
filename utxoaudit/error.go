// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxoaudit

import (
	"fmt"
)

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific ErrorKind.
const (
	// ErrStoreRead indicates the underlying coin store failed while the audit
	// was iterating the unspent output set.
	ErrStoreRead = ErrorKind("ErrStoreRead")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// ContextError wraps an error with additional context.  It has full support
// for errors.Is and errors.As, so the caller can ascertain the specific
// wrapped error.
//
// RawErr contains the original error from the underlying store when it is
// relevant.
type ContextError struct {
	Err         error
	Description string
	RawErr      error
}

// Error satisfies the error interface and prints human-readable errors.
func (e ContextError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e ContextError) Unwrap() error {
	return e.Err
}

// storeReadError creates a ContextError with the kind of error set to
// ErrStoreRead and the passed store error as the raw error.
func storeReadError(desc string, storeErr error) ContextError {
	str := fmt.Sprintf("%s: %v", desc, storeErr)
	return ContextError{Err: ErrStoreRead, Description: str, RawErr: storeErr}
}

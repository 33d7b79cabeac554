// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinstore

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
)

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific ErrorKind.
const (
	// ErrStore indicates a generic error with the underlying coin database.
	ErrStore = ErrorKind("ErrStore")

	// ErrStoreCorruption indicates an underlying coin database error that is
	// the result of corruption, including malformed coin records.
	ErrStoreCorruption = ErrorKind("ErrStoreCorruption")

	// ErrStoreNotOpen indicates the underlying coin database has been closed.
	ErrStoreNotOpen = ErrorKind("ErrStoreNotOpen")

	// ErrSnapshotClosed indicates an operation was performed on a released
	// snapshot or iterator.
	ErrSnapshotClosed = ErrorKind("ErrSnapshotClosed")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// ContextError wraps an error with additional context.  It has full support
// for errors.Is and errors.As, so the caller can ascertain the specific
// wrapped error.
//
// RawErr contains the original error in the case where an error has been
// converted.
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

// contextError creates a ContextError given a set of arguments.
func contextError(kind ErrorKind, desc string) ContextError {
	return ContextError{Err: kind, Description: desc}
}

// convertLdbErr converts the passed leveldb error into a context error with
// an equivalent error kind and the passed description.  It also sets the
// passed error as the underlying error and adds its error string to the
// description.
func convertLdbErr(ldbErr error, desc string) ContextError {
	// Use the general store error kind by default.  The code below will
	// update this with the converted error if it's recognized.
	var kind = ErrStore

	switch {
	// Database corruption errors.
	case ldberrors.IsCorrupted(ldbErr):
		kind = ErrStoreCorruption

	// Database open/close errors.
	case errors.Is(ldbErr, leveldb.ErrClosed):
		kind = ErrStoreNotOpen

	// Snapshot and iterator lifetime errors.
	case errors.Is(ldbErr, leveldb.ErrSnapshotReleased):
		kind = ErrSnapshotClosed
	case errors.Is(ldbErr, leveldb.ErrIterReleased):
		kind = ErrSnapshotClosed
	}

	// Include the original error in description.
	desc = fmt.Sprintf("%s: %v", desc, ldbErr)

	err := contextError(kind, desc)
	err.RawErr = ldbErr

	return err
}

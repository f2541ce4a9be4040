// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"

	"code.ringfabric.dev/ring/internal/backend"
	"code.ringfabric.dev/ring/internal/segment"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For TryPush: the ring is full (backpressure).
// For TryPop: the ring is empty (no data available).
//
// ErrWouldBlock is a control flow signal, not a failure. Callers that want
// to block should use Push/Pop instead of looping on TryPush/TryPop
// themselves.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrInvalidParam guards use of a closed ring (TryPush, TryPop, Push, Pop
// and a second Close), and malformed constructor arguments (negative
// capacity, empty shared-memory name). Methods called on a nil ring
// pointer are not guarded.
var ErrInvalidParam = errors.New("ring: invalid parameter")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

// CapacityMismatchError reports that an existing segment's stored capacity
// disagrees with the capacity requested when attaching to it.
type CapacityMismatchError = segment.ErrCapacityMismatch

// SizeMismatchError reports that an existing named shared region's size
// disagrees with the size requested when attaching to it.
type SizeMismatchError = backend.ErrSizeMismatch

// SizeOverflowError reports that a requested size could not be represented
// after page rounding.
type SizeOverflowError = backend.ErrSizeOverflow

// SystemError wraps an OS error raised by a memory backend's open,
// ftruncate, fstat, mmap, close or unlink call. Errors from unmapping are
// not reported.
// Unwrap returns the underlying error, so errors.Is/errors.As reach the
// wrapped [golang.org/x/sys/unix.Errno].
type SystemError = backend.ErrSystem

// invalidCapacityError is returned by constructors given a negative
// capacity; 0 is valid (rounds to the minimum effective capacity of 1).
func invalidCapacityError(capacity int) error {
	return fmt.Errorf("%w: capacity %d must not be negative", ErrInvalidParam, capacity)
}

func invalidNameError(name string) error {
	return fmt.Errorf("%w: shared region name %q must not be empty", ErrInvalidParam, name)
}

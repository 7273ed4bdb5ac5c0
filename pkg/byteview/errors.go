package byteview

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is against these; the concrete types below carry
// the context needed to act on a failure (bounds, lengths, handle counts).
var (
	// ErrLengthOverflow indicates a requested or combined length exceeds the
	// maximum representable length, 2^32 - 1.
	ErrLengthOverflow = errors.New("byteview: length overflow")

	// ErrOutOfRange indicates a sub-slice range was inverted or exceeded the
	// source value's length.
	ErrOutOfRange = errors.New("byteview: range out of bounds")

	// ErrAllocationFailed indicates the backing-buffer registry could not
	// service an allocation request (its handle space is exhausted).
	ErrAllocationFailed = errors.New("byteview: allocation failed")
)

// LengthOverflowError reports a length that exceeds math.MaxUint32.
//
// Example:
//
//	_, err := FromBytes(huge)
//	var lenErr *LengthOverflowError
//	if errors.As(err, &lenErr) {
//	    log.Printf("requested %d bytes, max is %d", lenErr.Requested, lenErr.Max)
//	}
type LengthOverflowError struct {
	// Op names the constructor that rejected the length (e.g. "FromBytes", "Concat").
	Op string

	// Requested is the length that was asked for.
	Requested uint64

	// Max is the largest representable length, math.MaxUint32.
	Max uint64
}

// Error implements the error interface.
func (e *LengthOverflowError) Error() string {
	return fmt.Sprintf("byteview: %s: length %d exceeds maximum %d", e.Op, e.Requested, e.Max)
}

// Unwrap allows errors.Is(err, ErrLengthOverflow) to succeed.
func (e *LengthOverflowError) Unwrap() error {
	return ErrLengthOverflow
}

// OutOfRangeError reports an invalid sub-slice range.
//
// Example:
//
//	_, err := v.Slice(10, 5)
//	var rangeErr *OutOfRangeError
//	if errors.As(err, &rangeErr) {
//	    log.Printf("requested [%d,%d) of a %d-byte value", rangeErr.Start, rangeErr.End, rangeErr.Length)
//	}
type OutOfRangeError struct {
	// Start and End are the requested sub-slice bounds.
	Start, End uint32

	// Length is the actual length of the source value.
	Length uint32
}

// Error implements the error interface.
func (e *OutOfRangeError) Error() string {
	if e.Start > e.End {
		return fmt.Sprintf("byteview: range [%d,%d) is inverted", e.Start, e.End)
	}
	return fmt.Sprintf("byteview: range [%d,%d) exceeds length %d", e.Start, e.End, e.Length)
}

// Unwrap allows errors.Is(err, ErrOutOfRange) to succeed.
func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRange
}

// AllocationFailedError reports that the backing-buffer registry could not
// admit a new buffer.
//
// Example:
//
//	_, err := FromBytes(big)
//	if IsAllocationFailed(err) {
//	    // back off and retry, or surface a resource-exhaustion error upstream
//	}
type AllocationFailedError struct {
	// Op names the constructor that failed (e.g. "FromBytes", "Concat", "WithWriter").
	Op string

	// Requested is the payload size, in bytes, that was being allocated.
	Requested uint64

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *AllocationFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("byteview: %s: allocation of %d bytes failed: %v", e.Op, e.Requested, e.Err)
	}
	return fmt.Sprintf("byteview: %s: allocation of %d bytes failed", e.Op, e.Requested)
}

// Unwrap allows errors.Is(err, ErrAllocationFailed) to succeed, and chains to
// the underlying cause when present.
func (e *AllocationFailedError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrAllocationFailed, e.Err}
	}
	return []error{ErrAllocationFailed}
}

// wrapLengthOverflow builds a *LengthOverflowError for op.
func wrapLengthOverflow(op string, requested uint64) error {
	return &LengthOverflowError{Op: op, Requested: requested, Max: maxLength}
}

// wrapOutOfRange builds an *OutOfRangeError for an invalid [start,end) request.
func wrapOutOfRange(start, end, length uint32) error {
	return &OutOfRangeError{Start: start, End: end, Length: length}
}

// wrapAllocationFailed builds an *AllocationFailedError for op.
func wrapAllocationFailed(op string, requested uint64, cause error) error {
	return &AllocationFailedError{Op: op, Requested: requested, Err: cause}
}

// IsLengthOverflow returns true if err is or wraps ErrLengthOverflow.
func IsLengthOverflow(err error) bool {
	return errors.Is(err, ErrLengthOverflow)
}

// IsOutOfRange returns true if err is or wraps ErrOutOfRange.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// IsAllocationFailed returns true if err is or wraps ErrAllocationFailed.
func IsAllocationFailed(err error) bool {
	return errors.Is(err, ErrAllocationFailed)
}

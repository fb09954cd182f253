package store

import "fmt"

// BoundsError reports an offset/width access outside a store's legal
// range, carrying the (offset, advance, [low, high)) context spec.md §7
// calls for.
type BoundsError struct {
	Offset, Advance, Low, High int64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("store: bounds error at offset %d advance %d, valid range [%d, %d)", e.Offset, e.Advance, e.Low, e.High)
}

// IndexBoundsError is the bulk-operation form: (index, low, high).
type IndexBoundsError struct {
	Index, Low, High int64
}

func (e *IndexBoundsError) Error() string {
	return fmt.Sprintf("store: index %d out of range [%d, %d)", e.Index, e.Low, e.High)
}

// ReleasedError reports an operation attempted on a store that has
// already run its terminal release.
type ReleasedError struct {
	Op string
}

func (e *ReleasedError) Error() string {
	return fmt.Sprintf("store: %s on released store", e.Op)
}

// UnsupportedError reports a primitive the concrete store variant
// cannot perform: the null store rejecting any memory op, or a heap
// store asked for a raw address.
type UnsupportedError struct {
	Op     string
	Reason string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("store: %s unsupported: %s", e.Op, e.Reason)
}

// ArgumentError reports a negative length or mismatched region sizes.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string { return "store: " + e.Msg }

// OverflowError reports a requested extent that exceeds a store's
// capacity.
type OverflowError struct {
	Requested, Capacity int64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("store: requested %d exceeds capacity %d", e.Requested, e.Capacity)
}

// AllocatorError reports a native allocation that could not be
// satisfied.
type AllocatorError struct {
	Requested int64
	Cause     error
}

func (e *AllocatorError) Error() string {
	return fmt.Sprintf("store: allocator failed for %d bytes: %v", e.Requested, e.Cause)
}

func (e *AllocatorError) Unwrap() error { return e.Cause }

// Package store implements the C3 byte-store layer: fixed-extent
// random-access memory regions with reference-counted lifetimes, plus
// the C6 content-equality procedure and the C7 null store. It is
// grounded on original_source's AbstractByteStore/NativeByteStore/
// OnHeapByteStore/NoByteStore family, adapted into Go capability
// interfaces per the "derived interfaces" design note (composed
// traits, not a class hierarchy).
package store

import (
	"io"

	"github.com/vishifu/zarp-byte/platform"
	"github.com/vishifu/zarp-byte/refcount"
)

// RandomInput is the read half of a store: random-access loads at a
// store-local logical offset.
type RandomInput interface {
	ReadByte(offset int64) (byte, error)
	ReadByteVolatile(offset int64) (byte, error)
	ReadShort(offset int64) (int16, error)
	ReadShortVolatile(offset int64) (int16, error)
	ReadInt(offset int64) (int32, error)
	ReadIntVolatile(offset int64) (int32, error)
	ReadLong(offset int64) (int64, error)
	ReadLongVolatile(offset int64) (int64, error)
	ReadFloat(offset int64) (float32, error)
	ReadFloatVolatile(offset int64) (float32, error)
	ReadDouble(offset int64) (float64, error)
	ReadDoubleVolatile(offset int64) (float64, error)

	Read(offset int64, dst []byte, dstBegin, length int64) (int64, error)
}

// RandomOutput is the write half.
type RandomOutput interface {
	WriteByte(offset int64, v byte) error
	WriteByteOrdered(offset int64, v byte) error
	WriteByteVolatile(offset int64, v byte) error
	WriteShort(offset int64, v int16) error
	WriteShortOrdered(offset int64, v int16) error
	WriteShortVolatile(offset int64, v int16) error
	WriteInt(offset int64, v int32) error
	WriteIntOrdered(offset int64, v int32) error
	WriteIntVolatile(offset int64, v int32) error
	WriteLong(offset int64, v int64) error
	WriteLongOrdered(offset int64, v int64) error
	WriteLongVolatile(offset int64, v int64) error
	WriteFloat(offset int64, v float32) error
	WriteFloatOrdered(offset int64, v float32) error
	WriteFloatVolatile(offset int64, v float32) error
	WriteDouble(offset int64, v float64) error
	WriteDoubleOrdered(offset int64, v float64) error
	WriteDoubleVolatile(offset int64, v float64) error

	CompareAndSwapInt(offset int64, expected, v int32) (bool, error)
	CompareAndSwapLong(offset int64, expected, v int64) (bool, error)
	CompareAndSwapFloat(offset int64, expected, v float32) (bool, error)
	CompareAndSwapDouble(offset int64, expected, v float64) (bool, error)
	TestAndSetInt(offset int64, expected, v int32) (bool, error)
	TestAndSetLong(offset int64, expected, v int64) (bool, error)
	AddAndGetInt(offset int64, delta int32) (int32, error)
	AddAndGetLong(offset int64, delta int64) (int64, error)

	Write(offset int64, src []byte, srcBegin, length int64) error
	ZeroOut(begin, end int64) error
	Move(from, to, length int64) error
}

// RandomAccess composes RandomInput and RandomOutput, matching the
// RandomAccess -> (RandomInput, RandomOutput) trait graph spec.md's
// design notes describe.
type RandomAccess interface {
	RandomInput
	RandomOutput
}

// UncheckedRandomInput is the 4.4.2 fast-path view: plain reads with no
// bounds or release checks, legal only over a pre-validated range.
type UncheckedRandomInput interface {
	UncheckedReadByte(offset int64) byte
	UncheckedReadLong(offset int64) int64
}

// HasUncheckedRandomInput is implemented by stores that can hand out an
// UncheckedRandomInput view, mirroring the marker interface
// original_source's content-equality loop type-switches on.
type HasUncheckedRandomInput interface {
	Unchecked() UncheckedRandomInput
}

// Store is the full C3 contract.
type Store interface {
	RandomAccess

	RefCount() int32
	Reserve(owner refcount.Owner) error
	TryReserve(owner refcount.Owner) bool
	Release(owner refcount.Owner) error
	ReleaseLast(owner refcount.Owner) error

	IsNative() bool
	IsHeap() bool
	IsReleased() bool

	Start() int64
	Size() int64
	Capacity() int64
	SafeLimit() int64
	ReadAvailable() int64
	ReadRemaining() int64

	IsInside(offset int64) bool
	IsInsideRange(offset, length int64) bool

	NativeRead(offset int64, rawAddress platform.Address, length int64) error
	NativeWrite(rawAddress platform.Address, offset int64, length int64) error

	AddressForRead(offset int64) (platform.Address, error)
	AddressForWrite(offset int64) (platform.Address, error)

	CopyTo(dst Store) error
	CopyToWriter(w io.Writer) (int64, error)
}

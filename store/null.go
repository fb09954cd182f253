package store

import (
	"io"

	"github.com/vishifu/zarp-byte/platform"
	"github.com/vishifu/zarp-byte/refcount"
)

// Null is the C7 zero-capacity sentinel: every memory operation fails
// with UnsupportedError, reference-count operations are no-ops, and it
// is declared neither heap nor native. There is exactly one instance,
// NullStore, a process-wide immortal singleton matching
// NullByteStore.INSTANCE.
type Null struct{}

// NullStore is the process-wide singleton.
var NullStore = &Null{}

func (n *Null) IsNative() bool   { return false }
func (n *Null) IsHeap() bool     { return false }
func (n *Null) IsReleased() bool { return false }

func (n *Null) RefCount() int32                          { return 1 }
func (n *Null) Reserve(owner refcount.Owner) error        { return nil }
func (n *Null) TryReserve(owner refcount.Owner) bool      { return true }
func (n *Null) Release(owner refcount.Owner) error        { return nil }
func (n *Null) ReleaseLast(owner refcount.Owner) error     { return nil }

func (n *Null) Start() int64         { return 0 }
func (n *Null) Size() int64          { return 0 }
func (n *Null) Capacity() int64      { return 0 }
func (n *Null) SafeLimit() int64     { return 0 }
func (n *Null) ReadAvailable() int64 { return 0 }
func (n *Null) ReadRemaining() int64 { return 0 }

func (n *Null) IsInside(offset int64) bool                 { return false }
func (n *Null) IsInsideRange(offset, length int64) bool    { return length == 0 && offset == 0 }

func unsupported(op string) error {
	return &UnsupportedError{Op: op, Reason: "null store accepts no memory operations"}
}

func (n *Null) ReadByte(offset int64) (byte, error)           { return 0, unsupported("readByte") }
func (n *Null) ReadByteVolatile(offset int64) (byte, error)    { return 0, unsupported("readByteVolatile") }
func (n *Null) ReadShort(offset int64) (int16, error)          { return 0, unsupported("readShort") }
func (n *Null) ReadShortVolatile(offset int64) (int16, error)  { return 0, unsupported("readShortVolatile") }
func (n *Null) ReadInt(offset int64) (int32, error)            { return 0, unsupported("readInt") }
func (n *Null) ReadIntVolatile(offset int64) (int32, error)    { return 0, unsupported("readIntVolatile") }
func (n *Null) ReadLong(offset int64) (int64, error)           { return 0, unsupported("readLong") }
func (n *Null) ReadLongVolatile(offset int64) (int64, error)   { return 0, unsupported("readLongVolatile") }
func (n *Null) ReadFloat(offset int64) (float32, error)        { return 0, unsupported("readFloat") }
func (n *Null) ReadFloatVolatile(offset int64) (float32, error) {
	return 0, unsupported("readFloatVolatile")
}
func (n *Null) ReadDouble(offset int64) (float64, error) { return 0, unsupported("readDouble") }
func (n *Null) ReadDoubleVolatile(offset int64) (float64, error) {
	return 0, unsupported("readDoubleVolatile")
}

func (n *Null) Read(offset int64, dst []byte, dstBegin, length int64) (int64, error) {
	return 0, unsupported("read")
}

func (n *Null) WriteByte(offset int64, v byte) error          { return unsupported("writeByte") }
func (n *Null) WriteByteOrdered(offset int64, v byte) error   { return unsupported("writeByteOrdered") }
func (n *Null) WriteByteVolatile(offset int64, v byte) error  { return unsupported("writeByteVolatile") }
func (n *Null) WriteShort(offset int64, v int16) error        { return unsupported("writeShort") }
func (n *Null) WriteShortOrdered(offset int64, v int16) error { return unsupported("writeShortOrdered") }
func (n *Null) WriteShortVolatile(offset int64, v int16) error {
	return unsupported("writeShortVolatile")
}
func (n *Null) WriteInt(offset int64, v int32) error        { return unsupported("writeInt") }
func (n *Null) WriteIntOrdered(offset int64, v int32) error { return unsupported("writeIntOrdered") }
func (n *Null) WriteIntVolatile(offset int64, v int32) error {
	return unsupported("writeIntVolatile")
}
func (n *Null) WriteLong(offset int64, v int64) error        { return unsupported("writeLong") }
func (n *Null) WriteLongOrdered(offset int64, v int64) error { return unsupported("writeLongOrdered") }
func (n *Null) WriteLongVolatile(offset int64, v int64) error {
	return unsupported("writeLongVolatile")
}
func (n *Null) WriteFloat(offset int64, v float32) error { return unsupported("writeFloat") }
func (n *Null) WriteFloatOrdered(offset int64, v float32) error {
	return unsupported("writeFloatOrdered")
}
func (n *Null) WriteFloatVolatile(offset int64, v float32) error {
	return unsupported("writeFloatVolatile")
}
func (n *Null) WriteDouble(offset int64, v float64) error { return unsupported("writeDouble") }
func (n *Null) WriteDoubleOrdered(offset int64, v float64) error {
	return unsupported("writeDoubleOrdered")
}
func (n *Null) WriteDoubleVolatile(offset int64, v float64) error {
	return unsupported("writeDoubleVolatile")
}

func (n *Null) CompareAndSwapInt(offset int64, expected, v int32) (bool, error) {
	return false, unsupported("compareAndSwapInt")
}
func (n *Null) CompareAndSwapLong(offset int64, expected, v int64) (bool, error) {
	return false, unsupported("compareAndSwapLong")
}
func (n *Null) CompareAndSwapFloat(offset int64, expected, v float32) (bool, error) {
	return false, unsupported("compareAndSwapFloat")
}
func (n *Null) CompareAndSwapDouble(offset int64, expected, v float64) (bool, error) {
	return false, unsupported("compareAndSwapDouble")
}
func (n *Null) TestAndSetInt(offset int64, expected, v int32) (bool, error) {
	return false, unsupported("testAndSetInt")
}
func (n *Null) TestAndSetLong(offset int64, expected, v int64) (bool, error) {
	return false, unsupported("testAndSetLong")
}
func (n *Null) AddAndGetInt(offset int64, delta int32) (int32, error) {
	return 0, unsupported("addAndGetInt")
}
func (n *Null) AddAndGetLong(offset int64, delta int64) (int64, error) {
	return 0, unsupported("addAndGetLong")
}

func (n *Null) Write(offset int64, src []byte, srcBegin, length int64) error {
	return unsupported("write")
}
func (n *Null) ZeroOut(begin, end int64) error { return unsupported("zeroOut") }
func (n *Null) Move(from, to, length int64) error { return unsupported("move") }

func (n *Null) NativeRead(offset int64, rawAddress platform.Address, length int64) error {
	return unsupported("nativeRead")
}
func (n *Null) NativeWrite(rawAddress platform.Address, offset int64, length int64) error {
	return unsupported("nativeWrite")
}

func (n *Null) AddressForRead(offset int64) (platform.Address, error) {
	return 0, unsupported("addressForRead")
}
func (n *Null) AddressForWrite(offset int64) (platform.Address, error) {
	return 0, unsupported("addressForWrite")
}

func (n *Null) CopyTo(dst Store) error { return nil }
func (n *Null) CopyToWriter(w io.Writer) (int64, error) { return 0, nil }

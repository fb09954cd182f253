package store

import (
	"io"
	"math"

	"github.com/vishifu/zarp-byte/platform"
	"github.com/vishifu/zarp-byte/refcount"
)

// OnHeap is a fixed-capacity store backed by a Go byte slice, addressed
// through platform.Memory's (base, offset) form. Grounded on
// original_source/internal/OnHeapByteStore.java: array-backed, no raw
// address support.
type OnHeap struct {
	buf      []byte
	dataOff  int64
	size     int64
	capacity int64
	rc       *refcount.Count
}

// NewOnHeap wraps buf[dataOff:dataOff+size] as a fixed store of the
// given capacity (capacity may exceed size only for elastic growth
// callers that pre-size the backing slice; ordinary construction sets
// capacity == size).
func NewOnHeap(owner refcount.Owner, buf []byte, dataOff, size, capacity int64) *OnHeap {
	s := &OnHeap{buf: buf, dataOff: dataOff, size: size, capacity: capacity}
	s.rc = refcount.New(owner, func() {
		s.buf = nil
	})
	return s
}

// Wrap builds a fixed, non-elastic on-heap store over the whole of
// array, matching the wrap(array) construction interface.
func Wrap(owner refcount.Owner, array []byte) *OnHeap {
	return NewOnHeap(owner, array, 0, int64(len(array)), int64(len(array)))
}

func (s *OnHeap) IsNative() bool { return false }
func (s *OnHeap) IsHeap() bool   { return true }
func (s *OnHeap) IsReleased() bool {
	return s.rc.RefCount() <= 0
}

func (s *OnHeap) RefCount() int32                          { return s.rc.RefCount() }
func (s *OnHeap) Reserve(owner refcount.Owner) error        { return s.rc.Reserve(owner) }
func (s *OnHeap) TryReserve(owner refcount.Owner) bool      { return s.rc.TryReserve(owner) }
func (s *OnHeap) Release(owner refcount.Owner) error        { return s.rc.Release(owner) }
func (s *OnHeap) ReleaseLast(owner refcount.Owner) error    { return s.rc.ReleaseLast(owner) }

func (s *OnHeap) Start() int64         { return 0 }
func (s *OnHeap) Size() int64          { return s.size }
func (s *OnHeap) Capacity() int64      { return s.capacity }
func (s *OnHeap) SafeLimit() int64     { return s.size }
func (s *OnHeap) ReadAvailable() int64 { return s.size }
func (s *OnHeap) ReadRemaining() int64 { return s.size }

func (s *OnHeap) IsInside(offset int64) bool {
	return offset >= 0 && offset < s.size
}

func (s *OnHeap) IsInsideRange(offset, length int64) bool {
	return offset >= 0 && length >= 0 && offset+length <= s.size
}

func (s *OnHeap) ensureNotReleased(op string) error {
	if s.IsReleased() {
		return &ReleasedError{Op: op}
	}
	return nil
}

func (s *OnHeap) checkBounds(op string, offset, width int64) error {
	if platform.BoundsCheckDisabled() {
		return nil
	}
	if offset < 0 || offset+width > s.size {
		return &BoundsError{Offset: offset, Advance: width, Low: 0, High: s.size}
	}
	return nil
}

func (s *OnHeap) at(offset int64) int64 { return s.dataOff + offset }

// --- reads ---

func (s *OnHeap) ReadByte(offset int64) (byte, error) {
	if err := s.ensureNotReleased("readByte"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readByte", offset, 1); err != nil {
		return 0, err
	}
	return platform.Mem().ReadByte(s.buf, s.at(offset)), nil
}

func (s *OnHeap) ReadByteVolatile(offset int64) (byte, error) {
	return s.ReadByte(offset)
}

func (s *OnHeap) ReadShort(offset int64) (int16, error) {
	if err := s.ensureNotReleased("readShort"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readShort", offset, 2); err != nil {
		return 0, err
	}
	return platform.Mem().ReadShort(s.buf, s.at(offset)), nil
}

func (s *OnHeap) ReadShortVolatile(offset int64) (int16, error) {
	if err := s.ensureNotReleased("readShortVolatile"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readShortVolatile", offset, 2); err != nil {
		return 0, err
	}
	return platform.Mem().ReadShortVolatile(s.buf, s.at(offset)), nil
}

func (s *OnHeap) ReadInt(offset int64) (int32, error) {
	if err := s.ensureNotReleased("readInt"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readInt", offset, 4); err != nil {
		return 0, err
	}
	return platform.Mem().ReadInt(s.buf, s.at(offset)), nil
}

func (s *OnHeap) ReadIntVolatile(offset int64) (int32, error) {
	if err := s.ensureNotReleased("readIntVolatile"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readIntVolatile", offset, 4); err != nil {
		return 0, err
	}
	return platform.Mem().ReadIntVolatile(s.buf, s.at(offset)), nil
}

func (s *OnHeap) ReadLong(offset int64) (int64, error) {
	if err := s.ensureNotReleased("readLong"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readLong", offset, 8); err != nil {
		return 0, err
	}
	return platform.Mem().ReadLong(s.buf, s.at(offset)), nil
}

func (s *OnHeap) ReadLongVolatile(offset int64) (int64, error) {
	if err := s.ensureNotReleased("readLongVolatile"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readLongVolatile", offset, 8); err != nil {
		return 0, err
	}
	return platform.Mem().ReadLongVolatile(s.buf, s.at(offset)), nil
}

func (s *OnHeap) ReadFloat(offset int64) (float32, error) {
	if err := s.ensureNotReleased("readFloat"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readFloat", offset, 4); err != nil {
		return 0, err
	}
	return platform.Mem().ReadFloat(s.buf, s.at(offset)), nil
}

func (s *OnHeap) ReadFloatVolatile(offset int64) (float32, error) {
	v, err := s.ReadIntVolatile(offset)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

func (s *OnHeap) ReadDouble(offset int64) (float64, error) {
	if err := s.ensureNotReleased("readDouble"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readDouble", offset, 8); err != nil {
		return 0, err
	}
	return platform.Mem().ReadDouble(s.buf, s.at(offset)), nil
}

func (s *OnHeap) ReadDoubleVolatile(offset int64) (float64, error) {
	v, err := s.ReadLongVolatile(offset)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(v)), nil
}

func (s *OnHeap) Read(offset int64, dst []byte, dstBegin, length int64) (int64, error) {
	if err := s.ensureNotReleased("read"); err != nil {
		return 0, err
	}
	if length < 0 || dstBegin < 0 {
		return 0, &ArgumentError{Msg: "negative length or destination offset"}
	}
	avail := s.size - offset
	if avail <= 0 {
		return -1, nil
	}
	n := length
	if n > avail {
		n = avail
	}
	if err := s.checkBounds("read", offset, n); err != nil {
		return 0, err
	}
	platform.Mem().Copy(s.buf, s.at(offset), dst, dstBegin, n)
	return n, nil
}

// --- writes ---

func (s *OnHeap) WriteByte(offset int64, v byte) error {
	if err := s.ensureNotReleased("writeByte"); err != nil {
		return err
	}
	if err := s.checkBounds("writeByte", offset, 1); err != nil {
		return err
	}
	platform.Mem().WriteByte(s.buf, s.at(offset), v)
	return nil
}

func (s *OnHeap) WriteByteOrdered(offset int64, v byte) error  { return s.WriteByte(offset, v) }
func (s *OnHeap) WriteByteVolatile(offset int64, v byte) error { return s.WriteByte(offset, v) }

func (s *OnHeap) WriteShort(offset int64, v int16) error {
	if err := s.ensureNotReleased("writeShort"); err != nil {
		return err
	}
	if err := s.checkBounds("writeShort", offset, 2); err != nil {
		return err
	}
	platform.Mem().WriteShort(s.buf, s.at(offset), v)
	return nil
}

func (s *OnHeap) WriteShortOrdered(offset int64, v int16) error {
	if err := s.ensureNotReleased("writeShortOrdered"); err != nil {
		return err
	}
	if err := s.checkBounds("writeShortOrdered", offset, 2); err != nil {
		return err
	}
	platform.Mem().WriteShortOrdered(s.buf, s.at(offset), v)
	return nil
}

func (s *OnHeap) WriteShortVolatile(offset int64, v int16) error {
	if err := s.ensureNotReleased("writeShortVolatile"); err != nil {
		return err
	}
	if err := s.checkBounds("writeShortVolatile", offset, 2); err != nil {
		return err
	}
	platform.Mem().WriteShortVolatile(s.buf, s.at(offset), v)
	return nil
}

func (s *OnHeap) WriteInt(offset int64, v int32) error {
	if err := s.ensureNotReleased("writeInt"); err != nil {
		return err
	}
	if err := s.checkBounds("writeInt", offset, 4); err != nil {
		return err
	}
	platform.Mem().WriteInt(s.buf, s.at(offset), v)
	return nil
}

func (s *OnHeap) WriteIntOrdered(offset int64, v int32) error {
	if err := s.ensureNotReleased("writeIntOrdered"); err != nil {
		return err
	}
	if err := s.checkBounds("writeIntOrdered", offset, 4); err != nil {
		return err
	}
	platform.Mem().WriteIntOrdered(s.buf, s.at(offset), v)
	return nil
}

func (s *OnHeap) WriteIntVolatile(offset int64, v int32) error {
	if err := s.ensureNotReleased("writeIntVolatile"); err != nil {
		return err
	}
	if err := s.checkBounds("writeIntVolatile", offset, 4); err != nil {
		return err
	}
	platform.Mem().WriteIntVolatile(s.buf, s.at(offset), v)
	return nil
}

func (s *OnHeap) WriteLong(offset int64, v int64) error {
	if err := s.ensureNotReleased("writeLong"); err != nil {
		return err
	}
	if err := s.checkBounds("writeLong", offset, 8); err != nil {
		return err
	}
	platform.Mem().WriteLong(s.buf, s.at(offset), v)
	return nil
}

func (s *OnHeap) WriteLongOrdered(offset int64, v int64) error {
	if err := s.ensureNotReleased("writeLongOrdered"); err != nil {
		return err
	}
	if err := s.checkBounds("writeLongOrdered", offset, 8); err != nil {
		return err
	}
	platform.Mem().WriteLongOrdered(s.buf, s.at(offset), v)
	return nil
}

func (s *OnHeap) WriteLongVolatile(offset int64, v int64) error {
	if err := s.ensureNotReleased("writeLongVolatile"); err != nil {
		return err
	}
	if err := s.checkBounds("writeLongVolatile", offset, 8); err != nil {
		return err
	}
	platform.Mem().WriteLongVolatile(s.buf, s.at(offset), v)
	return nil
}

func (s *OnHeap) WriteFloat(offset int64, v float32) error {
	if err := s.ensureNotReleased("writeFloat"); err != nil {
		return err
	}
	if err := s.checkBounds("writeFloat", offset, 4); err != nil {
		return err
	}
	platform.Mem().WriteFloat(s.buf, s.at(offset), v)
	return nil
}

func (s *OnHeap) WriteFloatOrdered(offset int64, v float32) error {
	return s.WriteIntOrdered(offset, int32(math.Float32bits(v)))
}

func (s *OnHeap) WriteFloatVolatile(offset int64, v float32) error {
	return s.WriteIntVolatile(offset, int32(math.Float32bits(v)))
}

func (s *OnHeap) WriteDouble(offset int64, v float64) error {
	if err := s.ensureNotReleased("writeDouble"); err != nil {
		return err
	}
	if err := s.checkBounds("writeDouble", offset, 8); err != nil {
		return err
	}
	platform.Mem().WriteDouble(s.buf, s.at(offset), v)
	return nil
}

func (s *OnHeap) WriteDoubleOrdered(offset int64, v float64) error {
	return s.WriteLongOrdered(offset, int64(math.Float64bits(v)))
}

func (s *OnHeap) WriteDoubleVolatile(offset int64, v float64) error {
	return s.WriteLongVolatile(offset, int64(math.Float64bits(v)))
}

// --- atomics ---

func (s *OnHeap) CompareAndSwapInt(offset int64, expected, v int32) (bool, error) {
	if err := s.ensureNotReleased("compareAndSwapInt"); err != nil {
		return false, err
	}
	if err := s.checkBounds("compareAndSwapInt", offset, 4); err != nil {
		return false, err
	}
	return platform.Mem().CompareAndSwapInt(s.buf, s.at(offset), expected, v), nil
}

func (s *OnHeap) CompareAndSwapLong(offset int64, expected, v int64) (bool, error) {
	if err := s.ensureNotReleased("compareAndSwapLong"); err != nil {
		return false, err
	}
	if err := s.checkBounds("compareAndSwapLong", offset, 8); err != nil {
		return false, err
	}
	return platform.Mem().CompareAndSwapLong(s.buf, s.at(offset), expected, v), nil
}

func (s *OnHeap) CompareAndSwapFloat(offset int64, expected, v float32) (bool, error) {
	return s.CompareAndSwapInt(offset, int32(math.Float32bits(expected)), int32(math.Float32bits(v)))
}

func (s *OnHeap) CompareAndSwapDouble(offset int64, expected, v float64) (bool, error) {
	return s.CompareAndSwapLong(offset, int64(math.Float64bits(expected)), int64(math.Float64bits(v)))
}

func (s *OnHeap) TestAndSetInt(offset int64, expected, v int32) (bool, error) {
	if err := s.ensureNotReleased("testAndSetInt"); err != nil {
		return false, err
	}
	if err := s.checkBounds("testAndSetInt", offset, 4); err != nil {
		return false, err
	}
	return platform.Mem().TestAndSetInt(s.buf, s.at(offset), expected, v), nil
}

func (s *OnHeap) TestAndSetLong(offset int64, expected, v int64) (bool, error) {
	if err := s.ensureNotReleased("testAndSetLong"); err != nil {
		return false, err
	}
	if err := s.checkBounds("testAndSetLong", offset, 8); err != nil {
		return false, err
	}
	return platform.Mem().CompareAndSwapLong(s.buf, s.at(offset), expected, v), nil
}

func (s *OnHeap) AddAndGetInt(offset int64, delta int32) (int32, error) {
	if err := s.ensureNotReleased("addAndGetInt"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("addAndGetInt", offset, 4); err != nil {
		return 0, err
	}
	return platform.Mem().AddAndGetInt(s.buf, s.at(offset), delta), nil
}

func (s *OnHeap) AddAndGetLong(offset int64, delta int64) (int64, error) {
	if err := s.ensureNotReleased("addAndGetLong"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("addAndGetLong", offset, 8); err != nil {
		return 0, err
	}
	return platform.Mem().AddAndGetLong(s.buf, s.at(offset), delta), nil
}

// --- bulk ---

func (s *OnHeap) Write(offset int64, src []byte, srcBegin, length int64) error {
	if err := s.ensureNotReleased("write"); err != nil {
		return err
	}
	if length < 0 || srcBegin < 0 {
		return &ArgumentError{Msg: "negative length or source offset"}
	}
	if err := s.checkBounds("write", offset, length); err != nil {
		return err
	}
	platform.Mem().Copy(src, srcBegin, s.buf, s.at(offset), length)
	return nil
}

func (s *OnHeap) ZeroOut(begin, end int64) error {
	if err := s.ensureNotReleased("zeroOut"); err != nil {
		return err
	}
	if end < begin {
		return &ArgumentError{Msg: "zeroOut end before begin"}
	}
	if err := s.checkBounds("zeroOut", begin, end-begin); err != nil {
		return err
	}
	platform.Mem().Set(s.buf, s.at(begin), end-begin, 0)
	return nil
}

func (s *OnHeap) Move(from, to, length int64) error {
	if err := s.ensureNotReleased("move"); err != nil {
		return err
	}
	if length < 0 {
		return &ArgumentError{Msg: "negative move length"}
	}
	if err := s.checkBounds("move", from, length); err != nil {
		return err
	}
	if err := s.checkBounds("move", to, length); err != nil {
		return err
	}
	// Go's builtin copy is already overlap-safe for a single slice.
	copy(s.buf[s.at(to):s.at(to)+length], s.buf[s.at(from):s.at(from)+length])
	return nil
}

func (s *OnHeap) NativeRead(offset int64, rawAddress platform.Address, length int64) error {
	if err := s.ensureNotReleased("nativeRead"); err != nil {
		return err
	}
	if err := s.checkBounds("nativeRead", offset, length); err != nil {
		return err
	}
	dst := make([]byte, length)
	platform.Mem().Copy(s.buf, s.at(offset), dst, 0, length)
	for i := int64(0); i < length; i++ {
		platform.Mem().WriteByteAt(rawAddress, i, dst[i])
	}
	return nil
}

func (s *OnHeap) NativeWrite(rawAddress platform.Address, offset int64, length int64) error {
	if err := s.ensureNotReleased("nativeWrite"); err != nil {
		return err
	}
	if err := s.checkBounds("nativeWrite", offset, length); err != nil {
		return err
	}
	for i := int64(0); i < length; i++ {
		s.buf[s.at(offset)+i] = platform.Mem().ReadByteAt(rawAddress, i)
	}
	return nil
}

func (s *OnHeap) AddressForRead(offset int64) (platform.Address, error) {
	return 0, &UnsupportedError{Op: "addressForRead", Reason: "on-heap store has no raw address"}
}

func (s *OnHeap) AddressForWrite(offset int64) (platform.Address, error) {
	return 0, &UnsupportedError{Op: "addressForWrite", Reason: "on-heap store has no raw address"}
}

func (s *OnHeap) CopyTo(dst Store) error {
	n := s.size
	buf := make([]byte, n)
	if _, err := s.Read(0, buf, 0, n); err != nil {
		return err
	}
	return dst.Write(0, buf, 0, n)
}

func (s *OnHeap) CopyToWriter(w io.Writer) (int64, error) {
	n, err := w.Write(s.buf[s.dataOff : s.dataOff+s.size])
	return int64(n), err
}

// Unchecked returns a bounds-free random input view over this store,
// for use only by pre-validated hot loops (content equality).
func (s *OnHeap) Unchecked() UncheckedRandomInput { return uncheckedOnHeap{s} }

type uncheckedOnHeap struct{ s *OnHeap }

func (u uncheckedOnHeap) UncheckedReadByte(offset int64) byte {
	return platform.Mem().ReadByte(u.s.buf, u.s.at(offset))
}

func (u uncheckedOnHeap) UncheckedReadLong(offset int64) int64 {
	return platform.Mem().ReadLong(u.s.buf, u.s.at(offset))
}

package store

import (
	"io"
	"math"
	"runtime"

	"github.com/vishifu/zarp-byte/platform"
	"github.com/vishifu/zarp-byte/refcount"
)

// largeMemoryBlock is the 128 KiB threshold original_source's
// NativeByteStore treats as "already zero" for allocator blocks, and
// above which a resize logs a perf warning.
const largeMemoryBlock = 128 << 10

// Native is a fixed-capacity store backed by a raw platform.Address.
// Grounded on original_source/internal/NativeByteStore.java.
type Native struct {
	addr     platform.Address
	size     int64
	capacity int64
	rc       *refcount.Count
	owns     bool
}

// NewNative allocates capacity bytes of native memory and returns a
// store of the given size. Regions below the 128 KiB already-zero
// allocator threshold are always zeroed; zeroFill also forces zeroing
// of regions at or above it.
func NewNative(owner refcount.Owner, size, capacity int64, zeroFill bool) (*Native, error) {
	addr, err := platform.Allocate(capacity)
	if err != nil {
		return nil, &AllocatorError{Requested: capacity, Cause: err}
	}
	if zeroFill || capacity < largeMemoryBlock {
		for i := int64(0); i < capacity; i++ {
			platform.Mem().WriteByteAt(addr, i, 0)
		}
	}
	s := &Native{addr: addr, size: size, capacity: capacity, owns: true}
	s.rc = refcount.New(owner, func() {
		runtime.SetFinalizer(s, nil)
		platform.Free(s.addr, s.capacity)
	})
	runtime.SetFinalizer(s, finalizeNative)
	return s, nil
}

// finalizeNative warns through platform.Logger() when an owned native
// store is garbage collected without ever reaching a terminal release,
// the unreleased-native-memory diagnostic resource tracing enables.
// NewNative's onZero callback clears the finalizer on a proper release,
// so this only fires on the leak path. Pairs with growth.go's slow-grow
// warning as the other half of the native-memory diagnostics.
func finalizeNative(s *Native) {
	if !platform.ResourceTracing() {
		return
	}
	if s.IsReleased() {
		return
	}
	platform.Logger().Sugar().Warnw("native store garbage collected without release",
		"address", uint64(s.addr), "size", s.size, "capacity", s.capacity)
}

// FollowNative wraps an address this store does not own (will not free
// on release), mirroring NativeByteStore.follow.
func FollowNative(owner refcount.Owner, addr platform.Address, size, capacity int64) *Native {
	s := &Native{addr: addr, size: size, capacity: capacity, owns: false}
	s.rc = refcount.New(owner, func() {})
	return s
}

func (s *Native) IsNative() bool   { return true }
func (s *Native) IsHeap() bool     { return false }
func (s *Native) IsReleased() bool { return s.rc.RefCount() <= 0 }

func (s *Native) RefCount() int32                       { return s.rc.RefCount() }
func (s *Native) Reserve(owner refcount.Owner) error     { return s.rc.Reserve(owner) }
func (s *Native) TryReserve(owner refcount.Owner) bool   { return s.rc.TryReserve(owner) }
func (s *Native) Release(owner refcount.Owner) error     { return s.rc.Release(owner) }
func (s *Native) ReleaseLast(owner refcount.Owner) error { return s.rc.ReleaseLast(owner) }

func (s *Native) Start() int64         { return 0 }
func (s *Native) Size() int64          { return s.size }
func (s *Native) Capacity() int64      { return s.capacity }
func (s *Native) SafeLimit() int64     { return s.size }
func (s *Native) ReadAvailable() int64 { return s.size }
func (s *Native) ReadRemaining() int64 { return s.size }

func (s *Native) IsInside(offset int64) bool { return offset >= 0 && offset < s.size }
func (s *Native) IsInsideRange(offset, length int64) bool {
	return offset >= 0 && length >= 0 && offset+length <= s.size
}

func (s *Native) ensureNotReleased(op string) error {
	if s.IsReleased() {
		return &ReleasedError{Op: op}
	}
	return nil
}

func (s *Native) checkBounds(op string, offset, width int64) error {
	if platform.BoundsCheckDisabled() {
		return nil
	}
	if offset < 0 || offset+width > s.size {
		return &BoundsError{Offset: offset, Advance: width, Low: 0, High: s.size}
	}
	return nil
}

func (s *Native) ReadByte(offset int64) (byte, error) {
	if err := s.ensureNotReleased("readByte"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readByte", offset, 1); err != nil {
		return 0, err
	}
	return platform.Mem().ReadByteAt(s.addr, offset), nil
}

func (s *Native) ReadByteVolatile(offset int64) (byte, error) { return s.ReadByte(offset) }

func (s *Native) ReadShort(offset int64) (int16, error) {
	if err := s.ensureNotReleased("readShort"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readShort", offset, 2); err != nil {
		return 0, err
	}
	// Composed byte-by-byte in little-endian order rather than through a
	// 2-byte unsafe read.
	lo := int16(platform.Mem().ReadByteAt(s.addr, offset))
	hi := int16(platform.Mem().ReadByteAt(s.addr, offset+1))
	return lo | (hi << 8), nil
}

func (s *Native) ReadShortVolatile(offset int64) (int16, error) {
	if err := s.ensureNotReleased("readShortVolatile"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readShortVolatile", offset, 2); err != nil {
		return 0, err
	}
	return platform.Mem().ReadShortVolatileAt(s.addr, offset), nil
}

func (s *Native) ReadInt(offset int64) (int32, error) {
	if err := s.ensureNotReleased("readInt"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readInt", offset, 4); err != nil {
		return 0, err
	}
	return platform.Mem().ReadIntAt(s.addr, offset), nil
}

func (s *Native) ReadIntVolatile(offset int64) (int32, error) {
	if err := s.ensureNotReleased("readIntVolatile"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readIntVolatile", offset, 4); err != nil {
		return 0, err
	}
	return platform.Mem().ReadIntVolatileAt(s.addr, offset), nil
}

func (s *Native) ReadLong(offset int64) (int64, error) {
	if err := s.ensureNotReleased("readLong"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readLong", offset, 8); err != nil {
		return 0, err
	}
	return platform.Mem().ReadLongAt(s.addr, offset), nil
}

func (s *Native) ReadLongVolatile(offset int64) (int64, error) {
	if err := s.ensureNotReleased("readLongVolatile"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("readLongVolatile", offset, 8); err != nil {
		return 0, err
	}
	return platform.Mem().ReadLongVolatileAt(s.addr, offset), nil
}

func (s *Native) ReadFloat(offset int64) (float32, error) {
	v, err := s.ReadInt(offset)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

func (s *Native) ReadFloatVolatile(offset int64) (float32, error) {
	v, err := s.ReadIntVolatile(offset)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

func (s *Native) ReadDouble(offset int64) (float64, error) {
	v, err := s.ReadLong(offset)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(v)), nil
}

func (s *Native) ReadDoubleVolatile(offset int64) (float64, error) {
	v, err := s.ReadLongVolatile(offset)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(v)), nil
}

func (s *Native) Read(offset int64, dst []byte, dstBegin, length int64) (int64, error) {
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
	for i := int64(0); i < n; i++ {
		dst[dstBegin+i] = platform.Mem().ReadByteAt(s.addr, offset+i)
	}
	return n, nil
}

func (s *Native) WriteByte(offset int64, v byte) error {
	if err := s.ensureNotReleased("writeByte"); err != nil {
		return err
	}
	if err := s.checkBounds("writeByte", offset, 1); err != nil {
		return err
	}
	platform.Mem().WriteByteAt(s.addr, offset, v)
	return nil
}

func (s *Native) WriteByteOrdered(offset int64, v byte) error  { return s.WriteByte(offset, v) }
func (s *Native) WriteByteVolatile(offset int64, v byte) error { return s.WriteByte(offset, v) }

func (s *Native) WriteShort(offset int64, v int16) error {
	if err := s.ensureNotReleased("writeShort"); err != nil {
		return err
	}
	if err := s.checkBounds("writeShort", offset, 2); err != nil {
		return err
	}
	platform.Mem().WriteByteAt(s.addr, offset, byte(v))
	platform.Mem().WriteByteAt(s.addr, offset+1, byte(v>>8))
	return nil
}

func (s *Native) WriteShortOrdered(offset int64, v int16) error {
	if err := s.ensureNotReleased("writeShortOrdered"); err != nil {
		return err
	}
	if err := s.checkBounds("writeShortOrdered", offset, 2); err != nil {
		return err
	}
	platform.Mem().WriteShortOrderedAt(s.addr, offset, v)
	return nil
}

func (s *Native) WriteShortVolatile(offset int64, v int16) error {
	if err := s.ensureNotReleased("writeShortVolatile"); err != nil {
		return err
	}
	if err := s.checkBounds("writeShortVolatile", offset, 2); err != nil {
		return err
	}
	platform.Mem().WriteShortVolatileAt(s.addr, offset, v)
	return nil
}

func (s *Native) WriteInt(offset int64, v int32) error {
	if err := s.ensureNotReleased("writeInt"); err != nil {
		return err
	}
	if err := s.checkBounds("writeInt", offset, 4); err != nil {
		return err
	}
	platform.Mem().WriteIntAt(s.addr, offset, v)
	return nil
}

func (s *Native) WriteIntOrdered(offset int64, v int32) error {
	if err := s.ensureNotReleased("writeIntOrdered"); err != nil {
		return err
	}
	if err := s.checkBounds("writeIntOrdered", offset, 4); err != nil {
		return err
	}
	platform.Mem().WriteIntAt(s.addr, offset, v)
	return nil
}

func (s *Native) WriteIntVolatile(offset int64, v int32) error {
	if err := s.ensureNotReleased("writeIntVolatile"); err != nil {
		return err
	}
	if err := s.checkBounds("writeIntVolatile", offset, 4); err != nil {
		return err
	}
	platform.Mem().WriteIntAt(s.addr, offset, v)
	return nil
}

func (s *Native) WriteLong(offset int64, v int64) error {
	if err := s.ensureNotReleased("writeLong"); err != nil {
		return err
	}
	if err := s.checkBounds("writeLong", offset, 8); err != nil {
		return err
	}
	platform.Mem().WriteLongAt(s.addr, offset, v)
	return nil
}

func (s *Native) WriteLongOrdered(offset int64, v int64) error {
	if err := s.ensureNotReleased("writeLongOrdered"); err != nil {
		return err
	}
	if err := s.checkBounds("writeLongOrdered", offset, 8); err != nil {
		return err
	}
	platform.Mem().WriteLongAt(s.addr, offset, v)
	return nil
}

func (s *Native) WriteLongVolatile(offset int64, v int64) error {
	if err := s.ensureNotReleased("writeLongVolatile"); err != nil {
		return err
	}
	if err := s.checkBounds("writeLongVolatile", offset, 8); err != nil {
		return err
	}
	platform.Mem().WriteLongAt(s.addr, offset, v)
	return nil
}

func (s *Native) WriteFloat(offset int64, v float32) error {
	return s.WriteInt(offset, int32(math.Float32bits(v)))
}
func (s *Native) WriteFloatOrdered(offset int64, v float32) error {
	return s.WriteIntOrdered(offset, int32(math.Float32bits(v)))
}
func (s *Native) WriteFloatVolatile(offset int64, v float32) error {
	return s.WriteIntVolatile(offset, int32(math.Float32bits(v)))
}

func (s *Native) WriteDouble(offset int64, v float64) error {
	return s.WriteLong(offset, int64(math.Float64bits(v)))
}
func (s *Native) WriteDoubleOrdered(offset int64, v float64) error {
	return s.WriteLongOrdered(offset, int64(math.Float64bits(v)))
}
func (s *Native) WriteDoubleVolatile(offset int64, v float64) error {
	return s.WriteLongVolatile(offset, int64(math.Float64bits(v)))
}

func (s *Native) CompareAndSwapInt(offset int64, expected, v int32) (bool, error) {
	if err := s.ensureNotReleased("compareAndSwapInt"); err != nil {
		return false, err
	}
	if err := s.checkBounds("compareAndSwapInt", offset, 4); err != nil {
		return false, err
	}
	return platform.Mem().CompareAndSwapIntAt(s.addr, offset, expected, v), nil
}

func (s *Native) CompareAndSwapLong(offset int64, expected, v int64) (bool, error) {
	if err := s.ensureNotReleased("compareAndSwapLong"); err != nil {
		return false, err
	}
	if err := s.checkBounds("compareAndSwapLong", offset, 8); err != nil {
		return false, err
	}
	return platform.Mem().CompareAndSwapLongAt(s.addr, offset, expected, v), nil
}

func (s *Native) CompareAndSwapFloat(offset int64, expected, v float32) (bool, error) {
	return s.CompareAndSwapInt(offset, int32(math.Float32bits(expected)), int32(math.Float32bits(v)))
}

func (s *Native) CompareAndSwapDouble(offset int64, expected, v float64) (bool, error) {
	return s.CompareAndSwapLong(offset, int64(math.Float64bits(expected)), int64(math.Float64bits(v)))
}

func (s *Native) TestAndSetInt(offset int64, expected, v int32) (bool, error) {
	return s.CompareAndSwapInt(offset, expected, v)
}

func (s *Native) TestAndSetLong(offset int64, expected, v int64) (bool, error) {
	return s.CompareAndSwapLong(offset, expected, v)
}

func (s *Native) AddAndGetInt(offset int64, delta int32) (int32, error) {
	if err := s.ensureNotReleased("addAndGetInt"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("addAndGetInt", offset, 4); err != nil {
		return 0, err
	}
	for {
		cur, err := s.ReadIntVolatile(offset)
		if err != nil {
			return 0, err
		}
		next := cur + delta
		ok, err := s.CompareAndSwapInt(offset, cur, next)
		if err != nil {
			return 0, err
		}
		if ok {
			return next, nil
		}
	}
}

func (s *Native) AddAndGetLong(offset int64, delta int64) (int64, error) {
	if err := s.ensureNotReleased("addAndGetLong"); err != nil {
		return 0, err
	}
	if err := s.checkBounds("addAndGetLong", offset, 8); err != nil {
		return 0, err
	}
	for {
		cur, err := s.ReadLongVolatile(offset)
		if err != nil {
			return 0, err
		}
		next := cur + delta
		ok, err := s.CompareAndSwapLong(offset, cur, next)
		if err != nil {
			return 0, err
		}
		if ok {
			return next, nil
		}
	}
}

func (s *Native) Write(offset int64, src []byte, srcBegin, length int64) error {
	if err := s.ensureNotReleased("write"); err != nil {
		return err
	}
	if length < 0 || srcBegin < 0 {
		return &ArgumentError{Msg: "negative length or source offset"}
	}
	if err := s.checkBounds("write", offset, length); err != nil {
		return err
	}
	for i := int64(0); i < length; i++ {
		platform.Mem().WriteByteAt(s.addr, offset+i, src[srcBegin+i])
	}
	return nil
}

func (s *Native) ZeroOut(begin, end int64) error {
	if err := s.ensureNotReleased("zeroOut"); err != nil {
		return err
	}
	if end < begin {
		return &ArgumentError{Msg: "zeroOut end before begin"}
	}
	if err := s.checkBounds("zeroOut", begin, end-begin); err != nil {
		return err
	}
	for i := begin; i < end; i++ {
		platform.Mem().WriteByteAt(s.addr, i, 0)
	}
	return nil
}

func (s *Native) Move(from, to, length int64) error {
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
	tmp := make([]byte, length)
	for i := int64(0); i < length; i++ {
		tmp[i] = platform.Mem().ReadByteAt(s.addr, from+i)
	}
	for i := int64(0); i < length; i++ {
		platform.Mem().WriteByteAt(s.addr, to+i, tmp[i])
	}
	return nil
}

func (s *Native) NativeRead(offset int64, rawAddress platform.Address, length int64) error {
	if err := s.ensureNotReleased("nativeRead"); err != nil {
		return err
	}
	if err := s.checkBounds("nativeRead", offset, length); err != nil {
		return err
	}
	platform.Mem().CopyAt(s.addr, offset, rawAddress, 0, length)
	return nil
}

func (s *Native) NativeWrite(rawAddress platform.Address, offset int64, length int64) error {
	if err := s.ensureNotReleased("nativeWrite"); err != nil {
		return err
	}
	if err := s.checkBounds("nativeWrite", offset, length); err != nil {
		return err
	}
	platform.Mem().CopyAt(rawAddress, 0, s.addr, offset, length)
	return nil
}

func (s *Native) AddressForRead(offset int64) (platform.Address, error) {
	if err := s.ensureNotReleased("addressForRead"); err != nil {
		return 0, err
	}
	return s.addr + platform.Address(offset), nil
}

func (s *Native) AddressForWrite(offset int64) (platform.Address, error) {
	return s.AddressForRead(offset)
}

func (s *Native) CopyTo(dst Store) error {
	n := s.size
	buf := make([]byte, n)
	if _, err := s.Read(0, buf, 0, n); err != nil {
		return err
	}
	return dst.Write(0, buf, 0, n)
}

func (s *Native) CopyToWriter(w io.Writer) (int64, error) {
	buf := make([]byte, s.size)
	if _, err := s.Read(0, buf, 0, s.size); err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	return int64(n), err
}

func (s *Native) Unchecked() UncheckedRandomInput { return uncheckedNative{s} }

type uncheckedNative struct{ s *Native }

func (u uncheckedNative) UncheckedReadByte(offset int64) byte {
	return platform.Mem().ReadByteAt(u.s.addr, offset)
}

func (u uncheckedNative) UncheckedReadLong(offset int64) int64 {
	return platform.Mem().ReadLongAt(u.s.addr, offset)
}

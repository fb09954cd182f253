package cursor

import (
	"github.com/vishifu/zarp-byte/store"
)

// maxHeapCapacity mirrors spec.md's heap-region ceiling: 2^31-1 minus
// word-alignment slack.
const maxHeapCapacity = (1<<31 - 1) - 15

// largeMemoryBlock is the 128 KiB threshold past which a grow logs a
// warning.
const largeMemoryBlock = 128 << 10

// Cursor is the C4 bytes handle. The zero value is not usable;
// construct with Wrap, WrapElastic, ElasticBuffer, FixedCapacity or
// LazyFixedCapacity.
type Cursor struct {
	store         store.Store
	native        bool
	elastic       bool
	capacityLimit int64

	start      int64
	readPos    int64
	writePos   int64
	writeLimit int64
	lenient    bool

	writerBusy busyFlag
}

// Wrap builds a fixed, non-elastic on-heap cursor over the whole of
// array, matching the wrap(array) construction interface.
func Wrap(array []byte) *Cursor {
	c := &Cursor{}
	c.store = store.Wrap(c, array)
	c.capacityLimit = int64(len(array))
	c.writeLimit = c.capacityLimit
	return c
}

// WrapElastic builds an elastic on-heap cursor over array, able to
// grow its backing store up to capacityLimit.
func WrapElastic(array []byte, capacityLimit int64) *Cursor {
	c := &Cursor{elastic: true, capacityLimit: capacityLimit}
	c.store = store.NewOnHeap(c, array, 0, int64(len(array)), int64(len(array)))
	c.writeLimit = capacityLimit
	return c
}

// ElasticBuffer builds an always-elastic native cursor, matching
// elasticBuffer([initialSize[, capacityLimit]]).
func ElasticBuffer(initialSize, capacityLimit int64) (*Cursor, error) {
	c := &Cursor{native: true, elastic: true, capacityLimit: capacityLimit}
	s, err := store.NewNative(c, initialSize, initialSize, false)
	if err != nil {
		return nil, err
	}
	c.store = s
	c.writeLimit = capacityLimit
	return c, nil
}

// FixedCapacity builds a fixed-size native cursor, matching
// fixedCapacity(size[, zeroFill]).
func FixedCapacity(size int64, zeroFill bool) (*Cursor, error) {
	c := &Cursor{native: true, capacityLimit: size}
	s, err := store.NewNative(c, size, size, zeroFill)
	if err != nil {
		return nil, err
	}
	c.store = s
	c.writeLimit = size
	return c, nil
}

// LazyFixedCapacity builds a fixed-size native cursor without eagerly
// zero-filling, matching lazyFixedCapacity(size). Go's allocator
// zero-fills new slices regardless, so "lazy" here only waives the
// forced zero-fill of regions of 128 KiB or more; NewNative still zeroes
// smaller regions. There is no true deferred-allocation benefit to
// reproduce.
func LazyFixedCapacity(size int64) (*Cursor, error) {
	return FixedCapacity(size, false)
}

// Store returns the underlying byte-store the cursor currently holds a
// reference on. The returned store must not be released by the caller.
func (c *Cursor) Store() store.Store { return c.store }

func (c *Cursor) IsElastic() bool { return c.elastic }
func (c *Cursor) IsNative() bool  { return c.native }

func (c *Cursor) Lenient() bool      { return c.lenient }
func (c *Cursor) SetLenient(v bool)  { c.lenient = v }

func (c *Cursor) Start() int64    { return c.start }
func (c *Cursor) Capacity() int64 { return c.capacityLimit }

func (c *Cursor) ReadPosition() int64  { return c.readPos }
func (c *Cursor) WritePosition() int64 { return c.writePos }
func (c *Cursor) WriteLimit() int64    { return c.writeLimit }

// ReadLimit is a derived view equal to WritePosition: reads may not
// pass the writer.
func (c *Cursor) ReadLimit() int64 { return c.writePos }

// SetWritePosition requires start <= p <= writeLimit. Advancing it
// widens the readable window since readLimit tracks writePosition.
func (c *Cursor) SetWritePosition(p int64) error {
	if p < c.start || p > c.writeLimit {
		return &store.BoundsError{Offset: p, Low: c.start, High: c.writeLimit}
	}
	c.writePos = p
	return nil
}

// SetReadPosition requires start <= p <= readLimit.
func (c *Cursor) SetReadPosition(p int64) error {
	if p < c.start || p > c.ReadLimit() {
		return &store.BoundsError{Offset: p, Low: c.start, High: c.ReadLimit()}
	}
	c.readPos = p
	return nil
}

// SetWriteLimit requires start <= L <= capacity.
func (c *Cursor) SetWriteLimit(limit int64) error {
	if limit < c.start || limit > c.capacityLimit {
		return &store.BoundsError{Offset: limit, Low: c.start, High: c.capacityLimit}
	}
	c.writeLimit = limit
	return nil
}

// Clear is idempotent: readPos = writePos = start, writeLimit =
// capacity.
func (c *Cursor) Clear() {
	c.readPos = c.start
	c.writePos = c.start
	c.writeLimit = c.capacityLimit
}

// readSeqBounds validates and advances readPos by size, returning the
// pre-advance offset to read from. In lenient mode, advancing past
// readLimit clamps at the limit and reports ok=false instead of
// erroring, signaling the caller to synthesize a zero value without
// touching the store.
func (c *Cursor) readSeqBounds(size int64) (offset int64, ok bool, err error) {
	off := c.readPos
	next := off + size
	limit := c.ReadLimit()
	if next > limit {
		if c.lenient {
			c.readPos = limit
			return off, false, nil
		}
		return off, false, &store.BoundsError{Offset: off, Advance: size, Low: c.start, High: limit}
	}
	c.readPos = next
	return off, true, nil
}

// ReadAdvance moves readPos by n without reading through the store,
// honoring the lenient clamp-at-limit rule.
func (c *Cursor) ReadAdvance(n int64) error {
	_, _, err := c.readSeqBounds(n)
	return err
}

// writeSeqBounds validates writePos+size against writeLimit, growing
// the store via the elastic protocol if size pushes past the store's
// current safe limit, then advances writePos and returns the
// pre-advance offset to write at.
func (c *Cursor) writeSeqBounds(size int64) (offset int64, err error) {
	c.writerBusy.enter()
	defer c.writerBusy.exit()

	off := c.writePos
	end := off + size
	if end > c.writeLimit {
		return 0, &store.OverflowError{Requested: end, Capacity: c.writeLimit}
	}
	if end > c.store.SafeLimit() {
		if err := c.growTo(end); err != nil {
			return 0, err
		}
	}
	c.writePos = end
	return off, nil
}

// WriteAdvance moves writePos by n, growing the backing store through
// the elastic protocol (4.4.1) if needed and permitted.
func (c *Cursor) WriteAdvance(n int64) error {
	_, err := c.writeSeqBounds(n)
	return err
}

// ReadPositionForHeader returns readPos and, if skipPadding, advances
// past (-p) & 0x3F bytes of 64-byte header padding first.
func (c *Cursor) ReadPositionForHeader(skipPadding bool) (int64, error) {
	if skipPadding {
		pad := (-c.readPos) & 0x3f
		if pad > 0 {
			if err := c.ReadAdvance(pad); err != nil {
				return 0, err
			}
		}
	}
	return c.readPos, nil
}

// WritePositionForHeader is the write-side counterpart of
// ReadPositionForHeader.
func (c *Cursor) WritePositionForHeader(skipPadding bool) (int64, error) {
	if skipPadding {
		pad := (-c.writePos) & 0x3f
		if pad > 0 {
			if err := c.WriteAdvance(pad); err != nil {
				return 0, err
			}
		}
	}
	return c.writePos, nil
}

// Release drops the cursor's reservation on its store. Every cursor
// must have exactly one Release call on every exit path.
func (c *Cursor) Release() error {
	return c.store.Release(c)
}

package platform

import (
	"fmt"
	"os"
	"sync"
	"unsafe"
)

// Address is a raw process-wide memory address, analogous to the long
// addresses ZPlatform.memory() hands out in the engine this package
// mirrors. It is only ever produced by Allocate or by translating a
// ByteStore-local offset against one.
type Address uintptr

// NullAddress is the sentinel address backing the null byte-store: never
// legal to dereference, only ever compared against.
const NullAddress Address = 1

var (
	regionsMu sync.Mutex
	regions   = map[Address][]byte{}
)

// Allocate reserves n bytes of off-heap-simulated memory and returns its
// base address. Go has no portable off-heap malloc without cgo, so the
// "native" region is an ordinary heap-allocated slice pinned in a
// process-wide registry: the registry entry, not GC roots reachable from
// caller code, is what keeps the backing array alive between Allocate and
// Free, which is exactly the lifetime a raw allocator provides.
func Allocate(n int64) (Address, error) {
	if n < 0 {
		return 0, fmt.Errorf("platform: allocate negative length %d", n)
	}
	if n == 0 {
		return NullAddress, nil
	}
	buf := make([]byte, n)
	addr := Address(uintptr(unsafe.Pointer(&buf[0])))

	regionsMu.Lock()
	regions[addr] = buf
	regionsMu.Unlock()
	return addr, nil
}

// Free releases a region obtained from Allocate. len is accepted for
// parity with the C1 free(address, len) contract but is not required to
// locate the region.
func Free(addr Address, _ int64) {
	if addr == NullAddress {
		return
	}
	regionsMu.Lock()
	delete(regions, addr)
	regionsMu.Unlock()
}

// regionFor resolves an address back to its backing slice. Only Memory
// uses this; it is the one place a raw Address is turned back into a Go
// slice header so bounds-checked unsafe.Pointer arithmetic stays confined
// to this package.
func regionFor(addr Address) ([]byte, uintptr, bool) {
	regionsMu.Lock()
	defer regionsMu.Unlock()
	// Fast path: exact base address.
	if buf, ok := regions[addr]; ok {
		return buf, 0, true
	}
	// Slow path: addr points inside some region (an address handed out
	// with a nonzero offset, such as a raw address given to NativeRead or
	// NativeWrite). Linear scan is acceptable: allocation count is low
	// relative to access count for any real workload, and the native
	// store's own operations pass a region's base address and take the
	// fast path above.
	for base, buf := range regions {
		start := uintptr(base)
		end := start + uintptr(len(buf))
		a := uintptr(addr)
		if a >= start && a < end+1 {
			return buf, a - start, true
		}
	}
	return nil, 0, false
}

// PageSize returns the host's native memory page size.
func PageSize() int64 {
	return int64(os.Getpagesize())
}

// PageAlign rounds requested up to the next multiple of pageSize.
func PageAlign(requested, pageSize int64) int64 {
	if pageSize <= 0 {
		return requested
	}
	rem := requested % pageSize
	if rem == 0 {
		return requested
	}
	return requested + (pageSize - rem)
}

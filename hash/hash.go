// Package hash implements the C5 content-hash algorithm: a
// length-conditioned 64-bit mixer over a store's byte range, with a
// vanilla variant operating through a store's logical offset API and an
// optimized variant operating directly on a native address. Grounded on
// original_source/algo/{ByteStoreHash,VanillaByteStoreHash,OptimisedByteStoreHash}.java.
package hash

import "github.com/vishifu/zarp-byte/platform"

// The four 32-bit "key" and four 32-bit "mix" constants are declared as
// Java ints in original_source, so multiplying them into a 64-bit
// accumulator sign-extends the top bit. int64(int32(...)) reproduces
// that sign extension in Go; treating the literals as unsigned 32-bit
// patterns instead would change every hash value derived from a block
// whose corresponding constant has its high bit set.
var (
	k1u32 uint32 = 0xc1f3bfc9
	m1u32 uint32 = 0xea7585d7
	m3u32 uint32 = 0x855dd4db
)

var (
	k0 = int64(int32(0x6d0f27bd))
	k1 = int64(int32(k1u32))
	k2 = int64(int32(0x6b192397))
	k3 = int64(int32(0x6b915657))

	m0 = int64(int32(0x5bc80bad))
	m1 = int64(int32(m1u32))
	m2 = int64(int32(0x7a646e19))
	m3 = int64(int32(m3u32))
)

func rotl(x int64, n uint) int64 {
	u := uint64(x)
	return int64(u<<n | u>>(64-n))
}

func rotr(x int64, n uint) int64 {
	u := uint64(x)
	return int64(u>>n | u<<(64-n))
}

// agitate is the domain mixing function: x ^= rotl(x,26), then
// x ^= rotr(x,17) applied to that updated x.
func agitate(x int64) int64 {
	x ^= rotl(x, 26)
	x ^= rotr(x, 17)
	return x
}

// hiBytes selects the byte offset of the high 32 bits of a little-
// endian-laid-out 8-byte word on the host. All Go ports of this engine
// target little-endian hosts (amd64/arm64), so this resolves to 4; kept
// as a named constant rather than inlined 4 because the algorithm's
// correctness depends on it matching host layout, same as
// original_source's HI_BYTES.
const hiBytes = 4

// source is the minimal read surface the hash core needs: full 8-byte
// loads plus an incomplete-tail load. Both Vanilla and the native-
// address optimization satisfy it without either depending on the
// other or on package store (avoiding an import cycle, since store
// wants to expose hashing as a convenience over this package).
type source interface {
	readLong(offset int64) int64
	readInt(offset int64) int32
	readIncomplete(offset, available int64) int64
}

// Reader is the logical-offset surface a vanilla hash reads through:
// satisfied structurally by store.Store (and by any narrower test
// double), without hash importing store.
type Reader interface {
	ReadLong(offset int64) (int64, error)
	ReadInt(offset int64) (int32, error)
	ReadByte(offset int64) (byte, error)
	ReadRemaining() int64
}

// NativeReader is additionally satisfied by stores that can hand out a
// raw address, enabling the optimized specialization.
type NativeReader interface {
	Reader
	AddressForRead(offset int64) (platform.Address, error)
	IsNative() bool
}

type vanillaSource struct{ r Reader }

func (v vanillaSource) readLong(offset int64) int64 {
	x, err := v.r.ReadLong(offset)
	if err != nil {
		panic(err)
	}
	return x
}

func (v vanillaSource) readInt(offset int64) int32 {
	x, err := v.r.ReadInt(offset)
	if err != nil {
		panic(err)
	}
	return x
}

func (v vanillaSource) readIncomplete(offset, available int64) int64 {
	return readIncompleteVia(func(o int64) byte {
		b, err := v.r.ReadByte(o)
		if err != nil {
			panic(err)
		}
		return b
	}, func(o int64) int32 {
		x, err := v.r.ReadInt(o)
		if err != nil {
			panic(err)
		}
		return x
	}, offset, available)
}

type nativeSource struct{ addr platform.Address }

func (n nativeSource) readLong(offset int64) int64 {
	return platform.Mem().ReadLongAt(n.addr, offset)
}

func (n nativeSource) readInt(offset int64) int32 {
	return platform.Mem().ReadIntAt(n.addr, offset)
}

func (n nativeSource) readIncomplete(offset, available int64) int64 {
	return readIncompleteVia(
		func(o int64) byte { return platform.Mem().ReadByteAt(n.addr, o) },
		func(o int64) int32 { return platform.Mem().ReadIntAt(n.addr, o) },
		offset, available)
}

// readIncompleteVia implements readLongIncomplete: 8 bytes if
// available, else 4 zero-extended, else assembled byte-by-byte in
// host (little-endian) order, zero-extended to 64 bits.
func readIncompleteVia(readByte func(int64) byte, readInt func(int64) int32, offset, available int64) int64 {
	switch {
	case available >= 8:
		// Callers only take this branch through readLong directly;
		// kept here too so readIncomplete is correct standalone.
		lo := int64(uint32(readInt(offset)))
		hi := int64(uint32(readInt(offset + 4)))
		return lo | hi<<32
	case available >= 4:
		return int64(uint32(readInt(offset)))
	default:
		var v int64
		for i := int64(0); i < available; i++ {
			v |= int64(readByte(offset+i)) << (8 * uint(i))
		}
		return v
	}
}

// Of dispatches to the optimized native-address specialization when s
// exposes one, falling back to the vanilla logical-offset path
// otherwise.
func Of(s Reader) (h int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				panic(r)
			}
		}
	}()

	if ns, ok := s.(NativeReader); ok && ns.IsNative() {
		if addr, aerr := ns.AddressForRead(0); aerr == nil {
			return hashCore(ns.ReadRemaining(), nativeSource{addr: addr}), nil
		}
	}
	return hashCore(s.ReadRemaining(), vanillaSource{r: s}), nil
}

// hashCore implements the five-step algorithm of spec §4.5 against any
// source.
func hashCore(length int64, src source) int64 {
	if length == 0 {
		return 0
	}
	if length <= 8 {
		l := src.readIncomplete(0, length)
		return agitate(l*k0 + (l>>32)*k1)
	}

	h0 := length * k0
	var h1, h2, h3 int64

	const blockSize = 32
	off := int64(0)
	first := true
	for remaining := length; remaining >= blockSize; remaining -= blockSize {
		l0 := src.readLong(off)
		l1 := src.readLong(off + 8)
		l2 := src.readLong(off + 16)
		l3 := src.readLong(off + 24)
		hi0 := int64(src.readInt(off + hiBytes))
		hi1 := int64(src.readInt(off + 8 + hiBytes))
		hi2 := int64(src.readInt(off + 16 + hiBytes))
		hi3 := int64(src.readInt(off + 24 + hiBytes))

		if !first {
			h0 *= k0
			h1 *= k1
			h2 *= k2
			h3 *= k3
		}
		first = false

		h0 += (l0 + hi1 - hi2) * m0
		h1 += (l1 + hi2 - hi3) * m1
		h2 += (l2 + hi3 - hi0) * m2
		h3 += (l3 + hi0 - hi1) * m3

		off += blockSize
	}

	tailLen := length - off
	if tailLen > 0 {
		l0 := tailLong(src, off, tailLen, 0)
		l1 := tailLong(src, off, tailLen, 8)
		l2 := tailLong(src, off, tailLen, 16)
		l3 := tailLong(src, off, tailLen, 24)
		hi0 := tailHi(src, off, tailLen, 0)
		hi1 := tailHi(src, off, tailLen, 8)
		hi2 := tailHi(src, off, tailLen, 16)
		hi3 := tailHi(src, off, tailLen, 24)

		if !first {
			h0 *= k0
			h1 *= k1
			h2 *= k2
			h3 *= k3
		}

		h0 += (l0 + hi1 - hi2) * m0
		h1 += (l1 + hi2 - hi3) * m1
		h2 += (l2 + hi3 - hi0) * m2
		h3 += (l3 + hi0 - hi1) * m3
	}

	return agitate(h0) ^ agitate(h1) ^ agitate(h2) ^ agitate(h3)
}

// tailLong reads the 8-byte word at tailOff+wordOff within a tail of
// tailLen bytes total, zero for any word entirely past the tail.
func tailLong(src source, tailOff, tailLen, wordOff int64) int64 {
	avail := tailLen - wordOff
	if avail <= 0 {
		return 0
	}
	if avail >= 8 {
		return src.readLong(tailOff + wordOff)
	}
	return src.readIncomplete(tailOff+wordOff, avail)
}

// tailHi reads the high 32 bits of the word at wordOff the same way
// tailLong does, zero if the word or its high half is past the tail.
func tailHi(src source, tailOff, tailLen, wordOff int64) int64 {
	avail := tailLen - wordOff
	if avail < hiBytes+4 {
		return 0
	}
	return int64(src.readInt(tailOff + wordOff + hiBytes))
}

// Hash32 folds a 64-bit hash down to 32 bits: (int)(h ^ (h >> 32)).
func Hash32(h int64) int32 {
	return int32(h ^ (h >> 32))
}

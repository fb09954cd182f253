// Package varint provides the small LEB128-style varuint helpers shared by
// the frame layer for lengths and offsets.
package varint

// AppendTo appends the varuint encoding of x to dst using a fixed stack
// scratch, avoiding a heap allocation for the common case.
func AppendTo(dst []byte, x uint64) []byte {
	var scratch [10]byte
	i := 0
	for x >= 0x80 {
		scratch[i] = byte(x) | 0x80
		x >>= 7
		i++
	}
	scratch[i] = byte(x)
	i++
	return append(dst, scratch[:i]...)
}

// Read decodes a varuint from b, returning the value and the number of
// bytes consumed. It returns (0, 0) if b does not contain a complete,
// well-formed varuint.
func Read(b []byte) (uint64, int) {
	var x uint64
	var s uint
	for i, c := range b {
		if i == 9 && c > 1 {
			return 0, 0 // would overflow 64 bits
		}
		x |= uint64(c&0x7f) << s
		if c&0x80 == 0 {
			return x, i + 1
		}
		s += 7
	}
	return 0, 0
}

// Size returns the number of bytes AppendTo would emit for x.
func Size(x uint64) int {
	n := 1
	for x >= 0x80 {
		x >>= 7
		n++
	}
	return n
}

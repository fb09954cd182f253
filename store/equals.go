package store

import "github.com/vishifu/zarp-byte/platform"

// VectorizedCompare is the optional feature-flagged fast-comparison
// primitive spec.md §6 lists as "absent is fine." No pack example
// exposes a SIMD memory-compare routine, so this defaults to nil; it
// exists purely as an injection point (set it to benchmark an
// alternative mismatch-finder without touching ContentEquals itself).
// Returns the index of the first mismatching byte, or -1 if the two
// regions are equal.
var VectorizedCompare func(a, b []byte) int

// ContentEquals implements the C6 procedure: reject released stores,
// compare lengths, attempt the vectorized fast path when eligible, then
// fall back to an 8-byte-stride-then-byte-stride compare with a
// zero-extension tail rule for unequal-length stores. Grounded on
// original_source/utils/ByteCommon.java's contentEquals.
func ContentEquals(a, b Store) (bool, error) {
	if a == nil || b == nil {
		return a == b, nil
	}
	if a.IsReleased() {
		return false, &ReleasedError{Op: "contentEquals"}
	}
	if b.IsReleased() {
		return false, &ReleasedError{Op: "contentEquals"}
	}

	la, lb := a.ReadRemaining(), b.ReadRemaining()
	longer := b
	shortLen, longLen := la, lb
	if lb < la {
		longer = a
		shortLen, longLen = lb, la
	}

	if !platform.VectorizedEqualsDisabled() && VectorizedCompare != nil &&
		la == lb && la == a.ReadAvailable() && lb == b.ReadAvailable() &&
		la <= int64(^uint32(0)>>1) && la > 7 {
		if ab, aerr := readAll(a); aerr == nil {
			if bb, berr := readAll(b); berr == nil {
				return VectorizedCompare(ab, bb) == -1, nil
			}
		}
	}

	au, aok := interface{}(a).(HasUncheckedRandomInput)
	bu, bok := interface{}(b).(HasUncheckedRandomInput)
	if aok && bok {
		return contentEqualLoopUnchecked(au.Unchecked(), bu.Unchecked(), longer == a, shortLen, longLen)
	}
	return contentEqualLoop(a, b, shortLen, longLen)
}

func readAll(s Store) ([]byte, error) {
	n := s.ReadRemaining()
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if _, err := s.Read(0, buf, 0, n); err != nil {
		return nil, err
	}
	return buf, nil
}

func contentEqualLoop(a, b Store, shortLen, longLen int64) (bool, error) {
	var i int64
	for ; i+8 <= shortLen; i += 8 {
		av, err := a.ReadLong(i)
		if err != nil {
			return false, err
		}
		bv, err := b.ReadLong(i)
		if err != nil {
			return false, err
		}
		if av != bv {
			return false, nil
		}
	}
	for ; i < shortLen; i++ {
		av, err := a.ReadByte(i)
		if err != nil {
			return false, err
		}
		bv, err := b.ReadByte(i)
		if err != nil {
			return false, err
		}
		if av != bv {
			return false, nil
		}
	}
	return tailIsZero(a, b, shortLen, longLen)
}

func contentEqualLoopUnchecked(a, b UncheckedRandomInput, aIsLonger bool, shortLen, longLen int64) (bool, error) {
	var i int64
	for ; i+8 <= shortLen; i += 8 {
		if a.UncheckedReadLong(i) != b.UncheckedReadLong(i) {
			return false, nil
		}
	}
	for ; i < shortLen; i++ {
		if a.UncheckedReadByte(i) != b.UncheckedReadByte(i) {
			return false, nil
		}
	}
	if shortLen == longLen {
		return true, nil
	}
	longer := b
	if aIsLonger {
		longer = a
	}
	for ; i < longLen; i++ {
		if longer.UncheckedReadByte(i) != 0 {
			return false, nil
		}
	}
	return true, nil
}

// tailIsZero implements the zero-extension equality rule: when one
// store's readable range is longer than the other's, the surplus bytes
// must all be zero for the stores to compare equal.
func tailIsZero(a, b Store, shortLen, longLen int64) (bool, error) {
	if shortLen == longLen {
		return true, nil
	}
	longer := b
	if a.ReadRemaining() > b.ReadRemaining() {
		longer = a
	}
	for i := shortLen; i < longLen; i++ {
		v, err := longer.ReadByte(i)
		if err != nil {
			return false, err
		}
		if v != 0 {
			return false, nil
		}
	}
	return true, nil
}

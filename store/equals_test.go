package store

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestContentEqualsIdenticalBytes(t *testing.T) {
	a := Wrap("owner", []byte{1, 2, 3, 4, 5, 6, 7, 8, 9})
	b := Wrap("owner", []byte{1, 2, 3, 4, 5, 6, 7, 8, 9})
	eq, err := ContentEquals(a, b)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestContentEqualsDiffersAtByte(t *testing.T) {
	a := Wrap("owner", []byte{1, 2, 3, 4, 5, 6, 7, 8, 9})
	b := Wrap("owner", []byte{1, 2, 3, 4, 5, 6, 7, 8, 0})
	eq, err := ContentEquals(a, b)
	require.NoError(t, err)
	require.False(t, eq)
}

func TestContentEqualsZeroExtensionTail(t *testing.T) {
	a := Wrap("owner", []byte{1, 2, 3, 4})
	b := Wrap("owner", []byte{1, 2, 3, 4, 0, 0, 0})
	eq, err := ContentEquals(a, b)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestContentEqualsZeroExtensionTailRejectsNonzero(t *testing.T) {
	a := Wrap("owner", []byte{1, 2, 3, 4})
	b := Wrap("owner", []byte{1, 2, 3, 4, 0, 1, 0})
	eq, err := ContentEquals(a, b)
	require.NoError(t, err)
	require.False(t, eq)
}

func TestContentEqualsIsSymmetric(t *testing.T) {
	condition := func(data []byte, extra []byte) bool {
		a := Wrap("owner", append([]byte{}, data...))
		nonzeroExtra := false
		for _, e := range extra {
			if e != 0 {
				nonzeroExtra = true
			}
		}
		_ = nonzeroExtra
		b := Wrap("owner", append(append([]byte{}, data...), extra...))

		ab, errAB := ContentEquals(a, b)
		ba, errBA := ContentEquals(b, a)
		return errAB == nil && errBA == nil && ab == ba
	}
	require.NoError(t, quick.Check(condition, nil))
}

func TestContentEqualsReflexive(t *testing.T) {
	condition := func(data []byte) bool {
		a := Wrap("owner", data)
		eq, err := ContentEquals(a, a)
		return err == nil && eq
	}
	require.NoError(t, quick.Check(condition, nil))
}

func TestContentEqualsReleasedStoreErrors(t *testing.T) {
	a := Wrap("owner", make([]byte, 4))
	b := Wrap("owner", make([]byte, 4))
	require.NoError(t, a.Release("owner"))

	_, err := ContentEquals(a, b)
	require.Error(t, err)
	var re *ReleasedError
	require.ErrorAs(t, err, &re)
}

func TestContentEqualsNilStores(t *testing.T) {
	eq, err := ContentEquals(nil, nil)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestContentEqualsUncheckedPath(t *testing.T) {
	// Both OnHeap stores implement HasUncheckedRandomInput, so this
	// exercises the unchecked comparison loop rather than the checked one.
	a := Wrap("owner", make([]byte, 24))
	b := Wrap("owner", make([]byte, 24))
	for i := int64(0); i < 24; i++ {
		require.NoError(t, a.WriteByte(i, byte(i)))
		require.NoError(t, b.WriteByte(i, byte(i)))
	}
	eq, err := ContentEquals(a, b)
	require.NoError(t, err)
	require.True(t, eq)

	require.NoError(t, b.WriteByte(23, 0xff))
	eq, err = ContentEquals(a, b)
	require.NoError(t, err)
	require.False(t, eq)
}

func TestContentEqualsMixedHeapAndNative(t *testing.T) {
	a := Wrap("owner", []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	n, err := NewNative("owner", 10, 10, true)
	require.NoError(t, err)
	defer n.Release("owner")
	require.NoError(t, n.Write(0, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0, 10))

	eq, err := ContentEquals(a, n)
	require.NoError(t, err)
	require.True(t, eq)
}

package store

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"

	"github.com/vishifu/zarp-byte/platform"
)

func TestOnHeapReadWriteRoundTrip(t *testing.T) {
	s := Wrap("owner", make([]byte, 32))

	require.NoError(t, s.WriteByte(0, 9))
	b, err := s.ReadByte(0)
	require.NoError(t, err)
	require.Equal(t, byte(9), b)

	require.NoError(t, s.WriteLong(8, -123456789))
	l, err := s.ReadLong(8)
	require.NoError(t, err)
	require.Equal(t, int64(-123456789), l)
}

func TestOnHeapRoundTripQuick(t *testing.T) {
	condition := func(v int32) bool {
		s := Wrap("owner", make([]byte, 8))
		if err := s.WriteInt(0, v); err != nil {
			return false
		}
		got, err := s.ReadInt(0)
		return err == nil && got == v
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestOnHeapBoundsError(t *testing.T) {
	s := Wrap("owner", make([]byte, 4))
	_, err := s.ReadInt(2)
	require.Error(t, err)
	var be *BoundsError
	require.ErrorAs(t, err, &be)
}

func TestOnHeapBoundsCheckDisableFlag(t *testing.T) {
	s := NewOnHeap("owner", make([]byte, 16), 0, 4, 4)
	err := s.WriteLong(0, 1) // 8 bytes requested against a declared size of 4
	require.Error(t, err)

	platform.SetBoundsCheckDisabled(true)
	defer platform.SetBoundsCheckDisabled(false)
	require.NoError(t, s.WriteLong(0, 1))
}

func TestOnHeapReleaseThenOperationFails(t *testing.T) {
	s := Wrap("owner", make([]byte, 8))
	require.NoError(t, s.Release("owner"))
	require.True(t, s.IsReleased())
	_, err := s.ReadByte(0)
	require.Error(t, err)
	var re *ReleasedError
	require.ErrorAs(t, err, &re)
}

func TestOnHeapCompareAndSwap(t *testing.T) {
	s := Wrap("owner", make([]byte, 8))
	require.NoError(t, s.WriteInt(0, 5))

	ok, err := s.CompareAndSwapInt(0, 5, 6)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.CompareAndSwapInt(0, 5, 7)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOnHeapAddAndGet(t *testing.T) {
	s := Wrap("owner", make([]byte, 8))
	v, err := s.AddAndGetInt(0, 10)
	require.NoError(t, err)
	require.Equal(t, int32(10), v)

	v, err = s.AddAndGetInt(0, 0)
	require.NoError(t, err)
	require.Equal(t, int32(10), v)
}

func TestOnHeapWriteThenRead(t *testing.T) {
	s := Wrap("owner", make([]byte, 16))
	src := []byte{1, 2, 3, 4, 5}
	require.NoError(t, s.Write(4, src, 0, int64(len(src))))

	dst := make([]byte, 5)
	n, err := s.Read(4, dst, 0, 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	require.Equal(t, src, dst)
}

func TestOnHeapZeroOut(t *testing.T) {
	s := Wrap("owner", []byte{1, 1, 1, 1, 1, 1, 1, 1})
	require.NoError(t, s.ZeroOut(2, 6))
	dst := make([]byte, 8)
	_, err := s.Read(0, dst, 0, 8)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 1, 0, 0, 0, 0, 1, 1}, dst)
}

func TestOnHeapMoveOverlapping(t *testing.T) {
	s := Wrap("owner", []byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, s.Move(0, 2, 4))
	dst := make([]byte, 8)
	_, err := s.Read(0, dst, 0, 8)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 1, 2, 3, 4, 7, 8}, dst)
}

func TestOnHeapAddressUnsupported(t *testing.T) {
	s := Wrap("owner", make([]byte, 4))
	_, err := s.AddressForRead(0)
	require.Error(t, err)
	var ue *UnsupportedError
	require.ErrorAs(t, err, &ue)
}

func TestOnHeapUncheckedMatchesChecked(t *testing.T) {
	s := Wrap("owner", []byte{0, 0, 0, 0, 0, 0, 0, 1, 2, 3})
	require.NoError(t, s.WriteLong(0, 42))
	u := s.Unchecked()
	require.Equal(t, int64(42), u.UncheckedReadLong(0))
	require.Equal(t, byte(0), u.UncheckedReadByte(7))
	require.Equal(t, byte(2), u.UncheckedReadByte(8))
}

func TestOnHeapCopyTo(t *testing.T) {
	src := Wrap("owner", []byte{1, 2, 3, 4})
	dst := Wrap("owner", make([]byte, 4))
	require.NoError(t, src.CopyTo(dst))
	out := make([]byte, 4)
	_, err := dst.Read(0, out, 0, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, out)
}

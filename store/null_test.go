package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNullStoreEveryMemoryOpIsUnsupported(t *testing.T) {
	n := NullStore

	_, err := n.ReadByte(0)
	require.Error(t, err)
	var ue *UnsupportedError
	require.ErrorAs(t, err, &ue)

	require.Error(t, n.WriteByte(0, 1))
	require.Error(t, n.ZeroOut(0, 0))
	require.Error(t, n.Move(0, 0, 0))
	_, err = n.Read(0, make([]byte, 1), 0, 1)
	require.Error(t, err)
	_, err = n.AddressForRead(0)
	require.Error(t, err)
}

func TestNullStoreLifecycleIsNoOp(t *testing.T) {
	n := NullStore
	require.Equal(t, int32(1), n.RefCount())
	require.NoError(t, n.Reserve("x"))
	require.True(t, n.TryReserve("x"))
	require.NoError(t, n.Release("x"))
	require.False(t, n.IsReleased())
	require.Equal(t, int32(1), n.RefCount())
}

func TestNullStoreZeroExtent(t *testing.T) {
	n := NullStore
	require.Equal(t, int64(0), n.Size())
	require.Equal(t, int64(0), n.Capacity())
	require.False(t, n.IsNative())
	require.False(t, n.IsHeap())
	require.True(t, n.IsInsideRange(0, 0))
	require.False(t, n.IsInsideRange(0, 1))
}

func TestNullStoreCopyToIsNoOp(t *testing.T) {
	n := NullStore
	dst := Wrap("owner", make([]byte, 4))
	require.NoError(t, n.CopyTo(dst))
}

package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocateFreeLifecycle(t *testing.T) {
	addr, err := Allocate(64)
	require.NoError(t, err)
	require.NotEqual(t, NullAddress, addr)

	Mem().WriteByteAt(addr, 0, 0xab)
	require.Equal(t, byte(0xab), Mem().ReadByteAt(addr, 0))

	Free(addr, 64)
}

func TestAllocateZeroReturnsNullAddress(t *testing.T) {
	addr, err := Allocate(0)
	require.NoError(t, err)
	require.Equal(t, NullAddress, addr)
}

func TestAllocateNegativeIsError(t *testing.T) {
	_, err := Allocate(-1)
	require.Error(t, err)
}

func TestPageAlign(t *testing.T) {
	page := PageSize()
	require.Equal(t, page, PageAlign(1, page))
	require.Equal(t, page, PageAlign(page, page))
	require.Equal(t, 2*page, PageAlign(page+1, page))
}

func TestFlagEnvOverride(t *testing.T) {
	t.Setenv("ZBYTES_BOUNDS_CHECK_DISABLE", "true")
	f := newFlag("ZBYTES_BOUNDS_CHECK_DISABLE", false)
	require.True(t, f.Get())

	f.Set(false)
	require.False(t, f.Get())
}

package cursor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUncheckedViewMatchesSequentialReads(t *testing.T) {
	c := Wrap(make([]byte, 16))
	require.NoError(t, c.WriteLong(99))

	u := c.Unchecked()
	require.NotNil(t, u)
	require.Equal(t, int64(99), u.UncheckedReadLong(0))
}

func TestUncheckedViewOverNativeCursor(t *testing.T) {
	c, err := FixedCapacity(16, true)
	require.NoError(t, err)
	defer c.Release()

	require.NoError(t, c.WriteByte(0xab))
	u := c.Unchecked()
	require.NotNil(t, u)
	require.Equal(t, byte(0xab), u.UncheckedReadByte(0))
}

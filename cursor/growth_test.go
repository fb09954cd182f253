package cursor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vishifu/zarp-byte/platform"
)

func TestElasticGrowthPreservesWrittenBytes(t *testing.T) {
	c := WrapElastic(make([]byte, 4), 1024)
	require.NoError(t, c.WriteInt(1))
	require.NoError(t, c.WriteInt(2)) // forces growth past the initial 4-byte store
	require.NoError(t, c.WriteInt(3))

	require.NoError(t, c.SetReadPosition(0))
	v1, err := c.ReadInt()
	require.NoError(t, err)
	v2, err := c.ReadInt()
	require.NoError(t, err)
	v3, err := c.ReadInt()
	require.NoError(t, err)
	require.Equal(t, int32(1), v1)
	require.Equal(t, int32(2), v2)
	require.Equal(t, int32(3), v3)
}

func TestElasticGrowthRejectsOverCapacity(t *testing.T) {
	c := WrapElastic(make([]byte, 4), 8)
	require.NoError(t, c.WriteInt(1))
	err := c.WriteLong(2)
	require.Error(t, err)
}

func TestElasticBufferIsNativeAndGrows(t *testing.T) {
	c, err := ElasticBuffer(4, 4096)
	require.NoError(t, err)
	defer c.Release()

	require.True(t, c.IsNative())
	for i := 0; i < 100; i++ {
		require.NoError(t, c.WriteLong(int64(i)))
	}
	require.NoError(t, c.SetReadPosition(0))
	for i := 0; i < 100; i++ {
		v, err := c.ReadLong()
		require.NoError(t, err)
		require.Equal(t, int64(i), v)
	}
}

func TestFixedCapacityZeroFill(t *testing.T) {
	c, err := FixedCapacity(16, true)
	require.NoError(t, err)
	defer c.Release()

	for i := int64(0); i < 16; i++ {
		b, err := c.Store().ReadByte(i)
		require.NoError(t, err)
		require.Equal(t, byte(0), b)
	}
}

func TestLazyFixedCapacityStillUsable(t *testing.T) {
	c, err := LazyFixedCapacity(16)
	require.NoError(t, err)
	defer c.Release()
	require.NoError(t, c.WriteByte(5))
}

func TestGrowLogsWarningPastLargeMemoryThreshold(t *testing.T) {
	prior := platform.Logger()
	core, logs := observer.New(zap.WarnLevel)
	platform.SetLogger(zap.New(core))
	defer platform.SetLogger(prior)

	c := WrapElastic(make([]byte, 4), largeMemoryBlock*2)
	require.NoError(t, c.growTo(largeMemoryBlock+1))
	require.Equal(t, 1, logs.Len())
}

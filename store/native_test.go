package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vishifu/zarp-byte/platform"
)

func TestNativeReadWriteRoundTrip(t *testing.T) {
	s, err := NewNative("owner", 32, 32, true)
	require.NoError(t, err)
	defer s.Release("owner")

	require.NoError(t, s.WriteInt(0, 123))
	v, err := s.ReadInt(0)
	require.NoError(t, err)
	require.Equal(t, int32(123), v)

	require.NoError(t, s.WriteLong(8, -9876543210))
	lv, err := s.ReadLong(8)
	require.NoError(t, err)
	require.Equal(t, int64(-9876543210), lv)
}

func TestNativeZeroFilledOnAllocate(t *testing.T) {
	s, err := NewNative("owner", 16, 16, true)
	require.NoError(t, err)
	defer s.Release("owner")

	for i := int64(0); i < 16; i++ {
		b, err := s.ReadByte(i)
		require.NoError(t, err)
		require.Equal(t, byte(0), b)
	}
}

func TestNativeCompareAndSwapConcurrent(t *testing.T) {
	s, err := NewNative("owner", 8, 8, true)
	require.NoError(t, err)
	defer s.Release("owner")

	const n = 1000
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				cur, err := s.ReadIntVolatile(0)
				require.NoError(t, err)
				ok, err := s.CompareAndSwapInt(0, cur, cur+1)
				require.NoError(t, err)
				if ok {
					return
				}
			}
		}()
	}
	wg.Wait()

	v, err := s.ReadInt(0)
	require.NoError(t, err)
	require.Equal(t, int32(n), v)
}

func TestNativeAddAndGetUnderContention(t *testing.T) {
	s, err := NewNative("owner", 8, 8, true)
	require.NoError(t, err)
	defer s.Release("owner")

	const total = 1_000_000
	const goroutines = 100
	perGoroutine := total / goroutines

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				_, err := s.AddAndGetLong(0, 1)
				require.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	v, err := s.ReadLong(0)
	require.NoError(t, err)
	require.Equal(t, int64(total), v)
}

func TestNativeAddressForReadWrite(t *testing.T) {
	s, err := NewNative("owner", 16, 16, true)
	require.NoError(t, err)
	defer s.Release("owner")

	addr, err := s.AddressForWrite(4)
	require.NoError(t, err)
	require.NotEqual(t, addr, s.addr) // offset applied
}

func TestFollowNativeDoesNotFree(t *testing.T) {
	owner1 := "first"
	s, err := NewNative(owner1, 16, 16, true)
	require.NoError(t, err)

	followed := FollowNative("second", s.addr, 16, 16)
	require.NoError(t, followed.WriteByte(0, 7))

	require.NoError(t, followed.Release("second"))

	b, err := s.ReadByte(0)
	require.NoError(t, err)
	require.Equal(t, byte(7), b)

	require.NoError(t, s.Release(owner1))
}

func TestNativeCopyTo(t *testing.T) {
	src, err := NewNative("owner", 4, 4, true)
	require.NoError(t, err)
	defer src.Release("owner")
	require.NoError(t, src.Write(0, []byte{9, 8, 7, 6}, 0, 4))

	dst, err := NewNative("owner", 4, 4, true)
	require.NoError(t, err)
	defer dst.Release("owner")

	require.NoError(t, src.CopyTo(dst))
	out := make([]byte, 4)
	_, err = dst.Read(0, out, 0, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 8, 7, 6}, out)
}

func TestNativeUncheckedMatchesChecked(t *testing.T) {
	s, err := NewNative("owner", 16, 16, true)
	require.NoError(t, err)
	defer s.Release("owner")

	require.NoError(t, s.WriteLong(0, 555))
	u := s.Unchecked()
	require.Equal(t, int64(555), u.UncheckedReadLong(0))
}

func TestNativeShortVolatileRoundTrip(t *testing.T) {
	s, err := NewNative("owner", 8, 8, true)
	require.NoError(t, err)
	defer s.Release("owner")

	require.NoError(t, s.WriteShortVolatile(0, 1234))
	v, err := s.ReadShortVolatile(0)
	require.NoError(t, err)
	require.Equal(t, int16(1234), v)

	require.NoError(t, s.WriteShortOrdered(2, -42))
	v2, err := s.ReadShort(2)
	require.NoError(t, err)
	require.Equal(t, int16(-42), v2)
}

func TestNativeShortVolatileStripingUnderContention(t *testing.T) {
	s, err := NewNative("owner", 2, 2, true)
	require.NoError(t, err)
	defer s.Release("owner")

	const n = 500
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, s.WriteShortVolatile(0, 7))
			_, err := s.ReadShortVolatile(0)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	v, err := s.ReadShortVolatile(0)
	require.NoError(t, err)
	require.Equal(t, int16(7), v)
}

func TestFinalizeNativeWarnsOnlyWhenTracingAndUnreleased(t *testing.T) {
	prior := platform.ResourceTracing()
	defer platform.SetResourceTracing(prior)
	priorLogger := platform.Logger()
	core, logs := observer.New(zap.WarnLevel)
	platform.SetLogger(zap.New(core))
	defer platform.SetLogger(priorLogger)

	released, err := NewNative("owner", 4, 4, true)
	require.NoError(t, err)
	require.NoError(t, released.Release("owner"))

	leaked, err := NewNative("owner", 4, 4, true)
	require.NoError(t, err)
	defer leaked.Release("owner")

	// Tracing off: finalizeNative must not touch an already-released
	// store's state either way.
	platform.SetResourceTracing(false)
	finalizeNative(released)
	finalizeNative(leaked)
	require.Equal(t, 0, logs.Len())

	// Tracing on: the released store is a no-op (IsReleased guard), the
	// still-live store warns once.
	platform.SetResourceTracing(true)
	finalizeNative(released)
	require.Equal(t, 0, logs.Len())
	finalizeNative(leaked)
	require.Equal(t, 1, logs.Len())
}

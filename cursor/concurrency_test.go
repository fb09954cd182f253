package cursor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBusyFlagEnterExitToggles(t *testing.T) {
	var b busyFlag
	b.enter()
	require.True(t, b.inUse.Load())
	b.exit()
	require.False(t, b.inUse.Load())
}

func TestBusyFlagReentryWarnsWithoutMutatingState(t *testing.T) {
	var b busyFlag
	b.enter()
	b.enter() // reentrant: warns via the logger, does not panic or block
	require.True(t, b.inUse.Load())
	b.exit()
	require.False(t, b.inUse.Load())
}

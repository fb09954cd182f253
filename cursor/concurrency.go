package cursor

import (
	"sync/atomic"

	"github.com/vishifu/zarp-byte/platform"
)

// busyFlag backs the optional single-threaded-check assertion (§5):
// cursors are documented single-writer, and this trips a diagnostic
// warning rather than an error when a mutating call re-enters while
// another is already in flight on the same cursor, matching "debug/
// assertion paths emit diagnostics... but never mutate program state."
type busyFlag struct {
	inUse atomic.Bool
}

func (b *busyFlag) enter() {
	if platform.SingleThreadedCheckDisabled() {
		return
	}
	if !b.inUse.CompareAndSwap(false, true) {
		platform.Logger().Sugar().Warn("cursor: concurrent mutation detected; cursors are single-writer")
	}
}

func (b *busyFlag) exit() {
	if platform.SingleThreadedCheckDisabled() {
		return
	}
	b.inUse.Store(false)
}

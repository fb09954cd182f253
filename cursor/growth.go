package cursor

import (
	"github.com/vishifu/zarp-byte/platform"
	"github.com/vishifu/zarp-byte/store"
)

// growTo implements the 4.4.1 elastic growth protocol: reject
// negative/over-capacity requests, skip growth if the current store
// already covers the request, otherwise compute the new size (the
// unified max(requested+7, size*1.5+32) formula — see DESIGN.md for
// why this collapses original_source's two slightly different
// OnHeapByte/NativeByte formulas into one), allocate a replacement
// store of the cursor's kind, copy payload across, and swap.
func (c *Cursor) growTo(requested int64) error {
	if !c.elastic {
		return &store.ArgumentError{Msg: "grow requested on a non-elastic cursor"}
	}
	if requested < 0 {
		return &store.ArgumentError{Msg: "negative grow request"}
	}
	if requested > c.capacityLimit {
		return &store.OverflowError{Requested: requested, Capacity: c.capacityLimit}
	}

	size := c.store.Size()
	if size >= requested {
		return nil
	}

	growSize := requested + 7
	if alt := size*3/2 + 32; alt > growSize {
		growSize = alt
	}

	var newSize int64
	oversizedHeap := !c.native && size > maxHeapCapacity
	if c.native || oversizedHeap {
		newSize = platform.PageAlign(growSize, platform.PageSize())
	} else {
		newSize = growSize &^ 7
	}
	if newSize > c.capacityLimit {
		newSize = c.capacityLimit
	}

	becomingNative := c.native
	var newStore store.Store
	var err error
	switch {
	case c.native:
		newStore, err = store.NewNative(c, newSize, newSize, false)
	case newSize > maxHeapCapacity:
		newStore, err = store.NewNative(c, newSize, newSize, false)
		becomingNative = true
	default:
		newStore = store.NewOnHeap(c, make([]byte, newSize), 0, newSize, newSize)
	}
	if err != nil {
		return err
	}

	if err := c.store.CopyTo(newStore); err != nil {
		newStore.Release(c)
		return err
	}

	old := c.store
	c.store = newStore
	c.native = becomingNative
	old.Release(c)

	if newSize >= largeMemoryBlock && size < largeMemoryBlock {
		platform.Logger().Sugar().Warnw("cursor: store grew past resize warning threshold",
			"oldSize", size, "newSize", newSize)
	}
	return nil
}

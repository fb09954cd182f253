// Package refcount implements the C2 reference-count capability:
// thread-safe reservation tracking with an explicit owner token, a
// single terminal release hook, and optional double-release
// diagnostics. spec.md lists this as an assumed-external collaborator,
// but no such package exists anywhere in the retrieved corpus, so it is
// built here in the idiom the rest of this module is written in rather
// than left as an unimplemented interface.
package refcount

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vishifu/zarp-byte/platform"
)

// Owner is the opaque token identifying a reservation holder. Any
// distinct pointer value is a valid owner; it is never dereferenced,
// only compared and printed for diagnostics.
type Owner interface{}

// ReleasedError is returned by any operation attempted once a Count has
// reached zero.
type ReleasedError struct {
	Op string
}

func (e *ReleasedError) Error() string {
	return fmt.Sprintf("refcount: %s on already-released reference", e.Op)
}

// DoubleReleaseError is returned when Release or ReleaseLast is called
// by an owner that does not currently hold a reservation.
type DoubleReleaseError struct {
	Owner Owner
}

func (e *DoubleReleaseError) Error() string {
	return fmt.Sprintf("refcount: double release by owner %v", e.Owner)
}

// Listener is notified exactly once, after the count reaches zero and
// the release hook has run.
type Listener func()

// Count is a thread-safe reference count with an owner ledger. The zero
// value is not usable; construct with New.
type Count struct {
	n       atomic.Int32
	onZero  func()
	mu      sync.Mutex
	owners  map[Owner]struct{}
	closed  bool
	listens []Listener
}

// New returns a Count starting at one reservation held by initialOwner,
// invoking onZero exactly once when the count reaches zero through
// Release/ReleaseLast.
func New(initialOwner Owner, onZero func()) *Count {
	c := &Count{onZero: onZero, owners: map[Owner]struct{}{initialOwner: {}}}
	c.n.Store(1)
	return c
}

// RefCount returns the current outstanding reservation count.
func (c *Count) RefCount() int32 { return c.n.Load() }

// Reserve adds a reservation for owner. It fails if the count has
// already reached zero: a released reference cannot be resurrected.
func (c *Count) Reserve(owner Owner) error {
	if !c.TryReserve(owner) {
		return &ReleasedError{Op: "reserve"}
	}
	return nil
}

// TryReserve behaves like Reserve but reports failure instead of
// returning an error, matching the capability's "may fail if closed"
// contract: a losing race on a count about to reach zero is reported as
// false rather than as an error.
func (c *Count) TryReserve(owner Owner) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	for {
		cur := c.n.Load()
		if cur <= 0 {
			return false
		}
		if c.n.CompareAndSwap(cur, cur+1) {
			c.owners[owner] = struct{}{}
			return true
		}
	}
}

// Release removes owner's reservation, invoking the release hook
// exactly once if the count reaches zero.
func (c *Count) Release(owner Owner) error {
	c.mu.Lock()
	if _, ok := c.owners[owner]; !ok {
		c.mu.Unlock()
		return &DoubleReleaseError{Owner: owner}
	}
	delete(c.owners, owner)
	c.mu.Unlock()

	if c.n.Add(-1) == 0 {
		c.mu.Lock()
		if !c.closed {
			c.closed = true
			listeners := c.listens
			c.mu.Unlock()
			if c.onZero != nil {
				c.onZero()
			}
			for _, l := range listeners {
				l()
			}
		} else {
			c.mu.Unlock()
		}
	}
	return nil
}

// ReleaseLast asserts that this call drives the count to zero; it is
// the caller declaring "I know I hold the only remaining reservation."
// When assertions are enabled and the count is not 1, it logs a warning
// (a surviving reservation elsewhere); it then releases like Release.
func (c *Count) ReleaseLast(owner Owner) error {
	if platform.AssertEnabled() && c.n.Load() != 1 {
		platform.Logger().Sugar().Warnf("refcount: ReleaseLast by %v with refCount=%d, expected 1", owner, c.n.Load())
	}
	return c.Release(owner)
}

// AddListener registers l to run after the release hook fires. Returns
// false without registering if the count has already reached zero.
func (c *Count) AddListener(l Listener) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.listens = append(c.listens, l)
	return true
}

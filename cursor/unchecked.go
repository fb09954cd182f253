package cursor

import "github.com/vishifu/zarp-byte/store"

// Unchecked returns the cursor's bounds-free random input view (4.4.2):
// a function-object reading plain primitives with no bounds or
// release checks, legal only over a range the caller has already
// validated. Used exclusively by hot inner loops such as content
// equality.
func (c *Cursor) Unchecked() store.UncheckedRandomInput {
	if u, ok := c.store.(store.HasUncheckedRandomInput); ok {
		return u.Unchecked()
	}
	return nil
}

// Package cursor implements the C4 bytes-cursor layer: a handle that
// reserves one reference on an underlying store.Store and maintains
// readPosition/writePosition/writeLimit/lenient state, including the
// elastic growth protocol that swaps in a larger store transparently
// while preserving cursor identity. Grounded on
// original_source/NativeByte.java, AbstractBytes.java and
// OnHeapByte.java, expressed as one concrete type parameterized by a
// growth strategy rather than a class hierarchy, per the "derived
// interfaces" design note.
package cursor

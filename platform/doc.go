// Package platform hosts the process-wide capabilities the byte-store and
// cursor layers are built on: the raw memory primitive (load/store/atomics
// against a host object plus offset, or a raw address), the native
// allocator, page size/alignment, logging, and the environment-driven
// feature flags. These mirror the role ZPlatform.memory() / Jvm.getBoolean
// play in the design this package is modeled on: read-mostly, init-once
// globals rather than injected dependencies, because every byte-store in
// the process shares exactly one of each.
package platform

package platform

import (
	"os"
	"strconv"
	"sync/atomic"
)

// Flag is a read-mostly boolean toggle seeded from an environment variable
// at first use and cached thereafter, matching the Jvm.getBoolean(name)
// pattern the original engine reads its platform flags through.
type Flag struct {
	name    string
	def     bool
	once    atomic.Bool
	value   atomic.Bool
	resolve func()
}

func newFlag(envVar string, def bool) *Flag {
	f := &Flag{name: envVar, def: def}
	f.resolve = func() {
		v := f.def
		if raw, ok := os.LookupEnv(f.name); ok {
			if parsed, err := strconv.ParseBool(raw); err == nil {
				v = parsed
			}
		}
		f.value.Store(v)
		f.once.Store(true)
	}
	return f
}

// Get returns the current flag value, resolving it from the environment on
// first access.
func (f *Flag) Get() bool {
	if !f.once.Load() {
		f.resolve()
	}
	return f.value.Load()
}

// Set overrides the flag value, bypassing the environment. Intended for
// tests and for cmd/zbytesctl's explicit flag switches
// (--bounds-check-disable and the like).
func (f *Flag) Set(v bool) {
	f.value.Store(v)
	f.once.Store(true)
}

var (
	boundsCheckDisabled           = newFlag("ZBYTES_BOUNDS_CHECK_DISABLE", false)
	vectorizedEqualsDisabled      = newFlag("ZBYTES_VECTORIZED_EQUALS_DISABLE", false)
	singleThreadedCheckDisabled   = newFlag("ZBYTES_SINGLE_THREADED_CHECK_DISABLE", false)
	resourceTracingEnabled        = newFlag("ZBYTES_RESOURCE_TRACING", false)
	assertEnabled                 = newFlag("ZBYTES_ASSERT", false)
)

// BoundsCheckDisabled reports whether offset/width bounds checking on
// ZByteStore operations is disabled for speed (installation-time flag).
func BoundsCheckDisabled() bool { return boundsCheckDisabled.Get() }

// SetBoundsCheckDisabled overrides BoundsCheckDisabled.
func SetBoundsCheckDisabled(v bool) { boundsCheckDisabled.Set(v) }

// VectorizedEqualsDisabled reports whether the vectorized content-equality
// fast path is disabled, forcing the portable word-stride loop.
func VectorizedEqualsDisabled() bool { return vectorizedEqualsDisabled.Get() }

// SetVectorizedEqualsDisabled overrides VectorizedEqualsDisabled.
func SetVectorizedEqualsDisabled(v bool) { vectorizedEqualsDisabled.Set(v) }

// SingleThreadedCheckDisabled reports whether the optional single-writer
// assertion on cursors is disabled.
func SingleThreadedCheckDisabled() bool { return singleThreadedCheckDisabled.Get() }

// SetSingleThreadedCheckDisabled overrides SingleThreadedCheckDisabled.
func SetSingleThreadedCheckDisabled(v bool) { singleThreadedCheckDisabled.Set(v) }

// ResourceTracing reports whether native stores should warn on GC finalize
// without having been released first.
func ResourceTracing() bool { return resourceTracingEnabled.Get() }

// SetResourceTracing overrides ResourceTracing.
func SetResourceTracing(v bool) { resourceTracingEnabled.Set(v) }

// AssertEnabled reports whether debug-only assertions (extra validation,
// double-release diagnostics) should run.
func AssertEnabled() bool { return assertEnabled.Get() }

// SetAssertEnabled overrides AssertEnabled.
func SetAssertEnabled(v bool) { assertEnabled.Set(v) }

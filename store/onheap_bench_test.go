package store

import "testing"

func BenchmarkOnHeapWriteLong(b *testing.B) {
	s := Wrap("owner", make([]byte, 64))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = s.WriteLong(0, int64(i))
	}
}

func BenchmarkOnHeapReadLong(b *testing.B) {
	s := Wrap("owner", make([]byte, 64))
	_ = s.WriteLong(0, 42)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = s.ReadLong(0)
	}
}

func BenchmarkOnHeapCompareAndSwapInt(b *testing.B) {
	s := Wrap("owner", make([]byte, 64))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = s.CompareAndSwapInt(0, int32(i), int32(i+1))
	}
}

package hash

import (
	"testing"

	"github.com/vishifu/zarp-byte/store"
)

func benchData(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i * 31)
	}
	return buf
}

func BenchmarkOfOnHeap64(b *testing.B) {
	s := store.Wrap("owner", benchData(64))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Of(s)
	}
}

func BenchmarkOfOnHeap4096(b *testing.B) {
	s := store.Wrap("owner", benchData(4096))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Of(s)
	}
}

func BenchmarkOfNative4096(b *testing.B) {
	data := benchData(4096)
	s, err := store.NewNative("owner", int64(len(data)), int64(len(data)), true)
	if err != nil {
		b.Fatal(err)
	}
	defer s.Release("owner")
	if err := s.Write(0, data, 0, int64(len(data))); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Of(s)
	}
}

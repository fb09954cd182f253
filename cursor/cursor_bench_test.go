package cursor

import "testing"

func BenchmarkSequentialWriteLong(b *testing.B) {
	c := Wrap(make([]byte, 16))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Clear()
		_ = c.WriteLong(int64(i))
	}
}

func BenchmarkElasticGrowth(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c := WrapElastic(make([]byte, 8), 1<<20)
		_ = c.WriteLong(int64(i))
		_ = c.growTo(4096)
	}
}

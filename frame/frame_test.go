package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vishifu/zarp-byte/cursor"
)

func TestEncodeDecodeRoundTripUncompressed(t *testing.T) {
	w, err := NewWriter(false)
	require.NoError(t, err)

	fields := []Field{
		{Tag: 1, Hot: true, Data: []byte{1, 2, 3, 4}},
		{Tag: 2, Hot: true, Data: []byte{5, 6, 7, 8}},
		{Tag: 10, Hot: false, Data: []byte("cold field value")},
		{Tag: 11, Hot: false, Data: []byte{}},
	}

	c := cursor.WrapElastic(make([]byte, 16), 4096)
	require.NoError(t, w.Encode(c, 7, fields))
	require.NoError(t, c.SetReadPosition(0))

	r, err := NewReader()
	require.NoError(t, err)
	decoded, err := r.Decode(c)
	require.NoError(t, err)

	require.Equal(t, uint32(7), decoded.Header.SchemaID)
	require.Equal(t, uint16(0), decoded.Header.Flags)
	require.Equal(t, []byte{1, 2, 3, 4}, decoded.Hot[1])
	require.Equal(t, []byte{5, 6, 7, 8}, decoded.Hot[2])
	require.Equal(t, []byte("cold field value"), decoded.Cold[10])
	require.Equal(t, []byte{}, decoded.Cold[11])
}

func TestEncodeDecodeRoundTripCompressed(t *testing.T) {
	w, err := NewWriter(true)
	require.NoError(t, err)

	fields := []Field{
		{Tag: 1, Hot: true, Data: []byte{9, 9, 9, 9}},
		{Tag: 20, Hot: false, Data: []byte("the quick brown fox jumps over the lazy dog, repeated: the quick brown fox jumps over the lazy dog")},
	}

	c := cursor.WrapElastic(make([]byte, 16), 8192)
	require.NoError(t, w.Encode(c, 3, fields))
	require.NoError(t, c.SetReadPosition(0))

	r, err := NewReader()
	require.NoError(t, err)
	decoded, err := r.Decode(c)
	require.NoError(t, err)

	require.NotEqual(t, uint16(0), decoded.Header.Flags&FlagCompressed)
	require.Equal(t, []byte{9, 9, 9, 9}, decoded.Hot[1])
	require.Equal(t, fields[1].Data, decoded.Cold[20])
}

func TestEncodeNoColdFieldsSkipsCompression(t *testing.T) {
	w, err := NewWriter(true)
	require.NoError(t, err)

	fields := []Field{{Tag: 1, Hot: true, Data: []byte{1}}}
	c := cursor.WrapElastic(make([]byte, 16), 1024)
	require.NoError(t, w.Encode(c, 1, fields))
	require.NoError(t, c.SetReadPosition(0))

	r, err := NewReader()
	require.NoError(t, err)
	decoded, err := r.Decode(c)
	require.NoError(t, err)
	require.Equal(t, uint16(0), decoded.Header.Flags&FlagCompressed)
}

func TestPartitionFieldsPreservesOrderWithinHalves(t *testing.T) {
	fields := []Field{
		{Tag: 1, Hot: true},
		{Tag: 2, Hot: false},
		{Tag: 3, Hot: true},
		{Tag: 4, Hot: false},
	}
	hot, cold := PartitionFields(fields)
	require.Equal(t, []uint16{1, 3}, tagsOf(hot))
	require.Equal(t, []uint16{2, 4}, tagsOf(cold))
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	c := cursor.Wrap(make([]byte, 64))
	require.NoError(t, c.WriteInt(int32(-559038737))) // not MagicV1
	require.NoError(t, c.WriteShort(1))
	require.NoError(t, c.WriteShort(0))
	require.NoError(t, c.WriteInt(0))
	require.NoError(t, c.WriteInt(0))
	require.NoError(t, c.WriteInt(0))
	require.NoError(t, c.WriteInt(0))
	require.NoError(t, c.SetReadPosition(0))

	r, err := NewReader()
	require.NoError(t, err)
	_, err = r.Decode(c)
	require.Error(t, err)
}

func TestWriterReusesBuffersAcrossCalls(t *testing.T) {
	w, err := NewWriter(false)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		c := cursor.WrapElastic(make([]byte, 16), 4096)
		fields := []Field{{Tag: uint16(i), Hot: true, Data: []byte{byte(i)}}}
		require.NoError(t, w.Encode(c, uint32(i), fields))
		require.NoError(t, c.SetReadPosition(0))

		r, err := NewReader()
		require.NoError(t, err)
		decoded, err := r.Decode(c)
		require.NoError(t, err)
		require.Equal(t, uint32(i), decoded.Header.SchemaID)
		require.Equal(t, []byte{byte(i)}, decoded.Hot[uint16(i)])
	}
}

func tagsOf(fields []Field) []uint16 {
	out := make([]uint16, len(fields))
	for i, f := range fields {
		out[i] = f.Tag
	}
	return out
}

// Package frame is a supplemental zero-copy message-frame format: a
// magic/version/flags/schema-id header, a hot-field vtable addressing a
// fixed-layout payload region, and a tag-walked cold-field region with
// optional zstd compression. Grounded on rawbytedev-fractus's
// zc/engine.go, zc/zc.go and subengine/engine.go, rehosted on
// cursor.Cursor instead of a raw []byte target and with the duplicate
// dbflat/compactwire subsystem dropped (see DESIGN.md).
package frame

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/vishifu/zarp-byte/cursor"
	"github.com/vishifu/zarp-byte/internal/varint"
)

const (
	MagicV1   uint32 = 0x5a425931 // "ZBY1"
	VersionV1 uint16 = 1

	// HeaderSize is magic(4) + version(2) + flags(2) + schemaID(4).
	HeaderSize = 12
	// SlotSize is tag(2) + offset(4) in the hot-field vtable.
	SlotSize = 6
)

// Flags.
const (
	FlagCompressed uint16 = 1 << 0
	FlagNoSchemaID uint16 = 1 << 1
)

// Header is the fixed frame preamble.
type Header struct {
	Magic    uint32
	Version  uint16
	Flags    uint16
	SchemaID uint32
}

// Field is one named value to encode. Hot fields are promoted into the
// vtable-addressed payload region for O(1) access; cold fields are
// walked linearly by tag on read.
type Field struct {
	Tag  uint16
	Hot  bool
	Data []byte
}

// VTableSlot locates one hot field's data within the payload region.
type VTableSlot struct {
	Tag    uint16
	Offset uint32
}

// PartitionFields splits fields by their Hot flag, preserving relative
// order within each half. Grounded on zc/engine.go's PartitionFields,
// which did the same split keyed off a schema-driven hot-tag set;
// here the caller marks hotness directly on each Field.
func PartitionFields(fields []Field) (hot, cold []Field) {
	for _, f := range fields {
		if f.Hot {
			hot = append(hot, f)
		} else {
			cold = append(cold, f)
		}
	}
	return hot, cold
}

// Writer encodes frames, reusing its scratch buffers across calls
// instead of allocating fresh ones each time, the same buffer-reuse
// shape as subengine/engine.go's Record type.
type Writer struct {
	vt         []VTableSlot
	payload    []byte
	tagwalk    []byte
	compressed []byte

	compress bool
	encoder  *zstd.Encoder
}

// NewWriter builds a Writer. If compress is true, the cold tag-walk
// region is zstd-compressed before being written.
func NewWriter(compress bool) (*Writer, error) {
	w := &Writer{compress: compress}
	if compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("frame: zstd writer: %w", err)
		}
		w.encoder = enc
	}
	return w, nil
}

// Encode writes one frame to cur: header, vtable, hot payload, then
// the (possibly compressed) cold tag-walk region.
func (w *Writer) Encode(cur *cursor.Cursor, schemaID uint32, fields []Field) error {
	w.vt = w.vt[:0]
	w.payload = w.payload[:0]
	w.tagwalk = w.tagwalk[:0]

	hot, cold := PartitionFields(fields)

	for _, f := range hot {
		w.vt = append(w.vt, VTableSlot{Tag: f.Tag, Offset: uint32(len(w.payload))})
		w.payload = append(w.payload, f.Data...)
	}
	for _, f := range cold {
		w.tagwalk = varint.AppendTo(w.tagwalk, uint64(f.Tag))
		w.tagwalk = varint.AppendTo(w.tagwalk, uint64(len(f.Data)))
		w.tagwalk = append(w.tagwalk, f.Data...)
	}

	tagwalkOut := w.tagwalk
	flags := uint16(0)
	if w.compress && len(w.tagwalk) > 0 {
		w.compressed = w.encoder.EncodeAll(w.tagwalk, w.compressed[:0])
		tagwalkOut = w.compressed
		flags |= FlagCompressed
	}

	hdr := Header{Magic: MagicV1, Version: VersionV1, Flags: flags, SchemaID: schemaID}
	if err := writeHeader(cur, hdr); err != nil {
		return err
	}
	if err := cur.WriteInt(int32(len(w.vt))); err != nil {
		return err
	}
	for _, slot := range w.vt {
		if err := cur.WriteShort(int16(slot.Tag)); err != nil {
			return err
		}
		if err := cur.WriteInt(int32(slot.Offset)); err != nil {
			return err
		}
	}
	if err := cur.WriteInt(int32(len(w.payload))); err != nil {
		return err
	}
	if err := cur.Write(w.payload); err != nil {
		return err
	}
	if err := cur.WriteInt(int32(len(tagwalkOut))); err != nil {
		return err
	}
	return cur.Write(tagwalkOut)
}

func writeHeader(cur *cursor.Cursor, h Header) error {
	if err := cur.WriteInt(int32(h.Magic)); err != nil {
		return err
	}
	if err := cur.WriteShort(int16(h.Version)); err != nil {
		return err
	}
	if err := cur.WriteShort(int16(h.Flags)); err != nil {
		return err
	}
	return cur.WriteInt(int32(h.SchemaID))
}

// Decoded is the result of reading one frame back: the header, hot
// fields keyed by tag (payload already sliced per the vtable), and
// cold fields keyed by tag (from the tag-walk).
type Decoded struct {
	Header Header
	Hot    map[uint16][]byte
	Cold   map[uint16][]byte
}

// Reader decodes frames previously written by Writer. It holds a zstd
// decoder for reuse across calls when frames are compressed.
type Reader struct {
	decoder *zstd.Decoder
}

// NewReader builds a Reader able to decode both compressed and
// uncompressed frames.
func NewReader() (*Reader, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("frame: zstd reader: %w", err)
	}
	return &Reader{decoder: dec}, nil
}

// Decode reads one frame from cur.
func (r *Reader) Decode(cur *cursor.Cursor) (*Decoded, error) {
	hdr, err := readHeader(cur)
	if err != nil {
		return nil, err
	}
	if hdr.Magic != MagicV1 {
		return nil, fmt.Errorf("frame: bad magic %#x", hdr.Magic)
	}

	slotCount, err := cur.ReadInt()
	if err != nil {
		return nil, err
	}
	slots := make([]VTableSlot, slotCount)
	for i := range slots {
		tag, err := cur.ReadShort()
		if err != nil {
			return nil, err
		}
		off, err := cur.ReadInt()
		if err != nil {
			return nil, err
		}
		slots[i] = VTableSlot{Tag: uint16(tag), Offset: uint32(off)}
	}

	payloadLen, err := cur.ReadInt()
	if err != nil {
		return nil, err
	}
	payload := make([]byte, payloadLen)
	if len(payload) > 0 {
		if n, err := cur.Read(payload); err != nil {
			return nil, err
		} else if n != int64(len(payload)) {
			return nil, fmt.Errorf("frame: short read of payload: got %d want %d", n, len(payload))
		}
	}

	hot := make(map[uint16][]byte, len(slots))
	for i, slot := range slots {
		end := int32(len(payload))
		if i+1 < len(slots) {
			end = int32(slots[i+1].Offset)
		}
		hot[slot.Tag] = payload[slot.Offset:end]
	}

	tagwalkLen, err := cur.ReadInt()
	if err != nil {
		return nil, err
	}
	tagwalk := make([]byte, tagwalkLen)
	if len(tagwalk) > 0 {
		if n, err := cur.Read(tagwalk); err != nil {
			return nil, err
		} else if n != int64(len(tagwalk)) {
			return nil, fmt.Errorf("frame: short read of tag-walk: got %d want %d", n, len(tagwalk))
		}
	}
	if hdr.Flags&FlagCompressed != 0 {
		tagwalk, err = r.decoder.DecodeAll(tagwalk, nil)
		if err != nil {
			return nil, fmt.Errorf("frame: zstd decode: %w", err)
		}
	}

	cold, err := decodeTagWalk(tagwalk)
	if err != nil {
		return nil, err
	}

	return &Decoded{Header: hdr, Hot: hot, Cold: cold}, nil
}

// decodeTagWalk performs the linear tag-walk scan over the cold
// region, grounded on zc/engine.go's GenTagWalk/EncodeRecordTagWalk
// counterpart on the read side.
func decodeTagWalk(b []byte) (map[uint16][]byte, error) {
	out := map[uint16][]byte{}
	for len(b) > 0 {
		tag, n := varint.Read(b)
		if n == 0 {
			return nil, fmt.Errorf("frame: truncated tag-walk tag")
		}
		b = b[n:]
		length, n := varint.Read(b)
		if n == 0 {
			return nil, fmt.Errorf("frame: truncated tag-walk length")
		}
		b = b[n:]
		if uint64(len(b)) < length {
			return nil, fmt.Errorf("frame: truncated tag-walk value")
		}
		out[uint16(tag)] = b[:length]
		b = b[length:]
	}
	return out, nil
}

func readHeader(cur *cursor.Cursor) (Header, error) {
	magic, err := cur.ReadInt()
	if err != nil {
		return Header{}, err
	}
	version, err := cur.ReadShort()
	if err != nil {
		return Header{}, err
	}
	flags, err := cur.ReadShort()
	if err != nil {
		return Header{}, err
	}
	schemaID, err := cur.ReadInt()
	if err != nil {
		return Header{}, err
	}
	return Header{
		Magic:    uint32(magic),
		Version:  uint16(version),
		Flags:    uint16(flags),
		SchemaID: uint32(schemaID),
	}, nil
}

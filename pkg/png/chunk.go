package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	lengthSize = 4
	typeSize   = 4
	crcSize    = 4

	// recordOverhead is the size of a chunk record with empty data.
	recordOverhead = lengthSize + typeSize + crcSize
)

// Chunk is a single PNG chunk record. A Chunk is immutable and its CRC always
// matches its type and data.
type Chunk struct {
	length uint32
	typ    ChunkType
	data   []byte
	crc    uint32
}

// NewChunk builds a chunk and computes its length and CRC. data is copied.
// It panics if data is longer than a record length field can express.
func NewChunk(t ChunkType, data []byte) *Chunk {
	if uint64(len(data)) > math.MaxUint32 {
		panic("png: chunk data exceeds 4 GiB")
	}
	d := bytes.Clone(data)
	if d == nil {
		d = []byte{}
	}
	return &Chunk{
		length: uint32(len(d)),
		typ:    t,
		data:   d,
		crc:    chunkCRC(t, d),
	}
}

// ParseChunk decodes one complete chunk record. b must hold exactly the
// record: its embedded length has to match len(b)-12.
func ParseChunk(b []byte, opts ...Option) (*Chunk, error) {
	o := buildOptions(opts)

	if len(b) < recordOverhead {
		return nil, &MalformedRecordError{
			Reason:   "record shorter than minimum",
			Declared: recordOverhead,
			Actual:   uint64(len(b)),
		}
	}

	length := binary.BigEndian.Uint32(b[0:4])
	span := uint64(len(b) - recordOverhead)
	if uint64(length) != span {
		return nil, &MalformedRecordError{
			Reason:   "length field does not match record size",
			Declared: uint64(length),
			Actual:   span,
		}
	}

	var raw [4]byte
	copy(raw[:], b[4:8])
	t, err := ChunkTypeFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("chunk type: %w", err)
	}
	if o.strict && !t.IsReservedBitValid() {
		return nil, fmt.Errorf("%w: %s", ErrReservedBit, t)
	}

	end := len(b) - crcSize
	data := bytes.Clone(b[8:end])
	found := binary.BigEndian.Uint32(b[end:])
	expected := chunkCRC(t, data)
	if found != expected {
		return nil, &ChecksumError{Found: found, Expected: expected}
	}

	return &Chunk{
		length: length,
		typ:    t,
		data:   data,
		crc:    found,
	}, nil
}

func (c *Chunk) Length() uint32 {
	return c.length
}

func (c *Chunk) CRC() uint32 {
	return c.crc
}

func (c *Chunk) Type() ChunkType {
	return c.typ
}

// Data returns a copy of the chunk payload.
func (c *Chunk) Data() []byte {
	return bytes.Clone(c.data)
}

// Size is the number of bytes Bytes produces.
func (c *Chunk) Size() int {
	return recordOverhead + len(c.data)
}

// Text returns the payload as a string if every byte is 7-bit ASCII.
func (c *Chunk) Text() (string, error) {
	for i, v := range c.data {
		if v >= 0x80 {
			return "", &NonASCIIError{Offset: i, Value: v}
		}
	}
	return string(c.data), nil
}

// Bytes serializes the chunk as length || type || data || crc.
func (c *Chunk) Bytes() []byte {
	return c.appendTo(make([]byte, 0, c.Size()))
}

func (c *Chunk) appendTo(buf []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, c.length)
	buf = append(buf, c.typ.b[:]...)
	buf = append(buf, c.data...)
	return binary.BigEndian.AppendUint32(buf, c.crc)
}

// WriteTo writes the serialized record to w.
func (c *Chunk) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.Bytes())
	return int64(n), err
}

// Equal reports whether both chunks hold the same record.
func (c *Chunk) Equal(o *Chunk) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.length == o.length &&
		c.typ == o.typ &&
		c.crc == o.crc &&
		bytes.Equal(c.data, o.data)
}

func (c *Chunk) String() string {
	return fmt.Sprintf("type=%s length=%d crc=0x%08x", c.typ, c.length, c.crc)
}

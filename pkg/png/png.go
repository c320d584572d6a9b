// Package png implements the PNG chunk layer: the file signature, chunk type
// codes, checksummed chunk records and an editable ordered list of chunks.
//
// It never decodes pixels. Chunk payloads are carried as opaque bytes so that
// ancillary chunks can hold arbitrary data without disturbing the image.
package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// Signature is the 8-byte magic that starts every PNG stream.
var Signature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// PNG is an ordered sequence of chunks behind the PNG signature.
//
// A PNG is not safe for concurrent mutation.
type PNG struct {
	chunks []*Chunk
}

// New returns a PNG holding chunks in the given order.
func New(chunks ...*Chunk) *PNG {
	p := &PNG{chunks: make([]*Chunk, 0, len(chunks))}
	for _, c := range chunks {
		p.Append(c)
	}
	return p
}

// Parse decodes a complete PNG byte stream. Any invalid chunk fails the
// whole parse.
func Parse(b []byte, opts ...Option) (*PNG, error) {
	if len(b) < len(Signature) || !bytes.Equal(b[:len(Signature)], Signature[:]) {
		return nil, ErrBadSignature
	}

	p := &PNG{}
	off := len(Signature)
	for off < len(b) {
		rest := len(b) - off
		if rest < recordOverhead {
			return nil, fmt.Errorf("chunk %d at offset %d: %w", len(p.chunks), off, &MalformedRecordError{
				Reason:   "trailing bytes shorter than a chunk record",
				Declared: recordOverhead,
				Actual:   uint64(rest),
			})
		}

		length := uint64(binary.BigEndian.Uint32(b[off : off+4]))
		size := length + recordOverhead
		if size > uint64(rest) {
			return nil, fmt.Errorf("chunk %d at offset %d: %w", len(p.chunks), off, &MalformedRecordError{
				Reason:   "chunk extends past end of input",
				Declared: length,
				Actual:   uint64(rest - recordOverhead),
			})
		}

		c, err := ParseChunk(b[off:off+int(size)], opts...)
		if err != nil {
			return nil, fmt.Errorf("chunk %d at offset %d: %w", len(p.chunks), off, err)
		}
		p.chunks = append(p.chunks, c)
		off += int(size)
	}
	return p, nil
}

// Append adds c after the last chunk. No ordering rules are checked, so
// appending after IEND yields a stream most decoders stop reading early.
func (p *PNG) Append(c *Chunk) {
	if c == nil {
		return
	}
	p.chunks = append(p.chunks, c)
}

// ChunkByType returns the first chunk whose type string equals t, or nil if
// it does not exist.
func (p *PNG) ChunkByType(t string) *Chunk {
	if i := p.index(t); i >= 0 {
		return p.chunks[i]
	}
	return nil
}

// RemoveChunk removes the first chunk whose type string equals t and returns
// it. A missing chunk is reported as a *NotFoundError.
func (p *PNG) RemoveChunk(t string) (*Chunk, error) {
	i := p.index(t)
	if i < 0 {
		return nil, &NotFoundError{Type: t}
	}
	c := p.chunks[i]
	p.chunks = append(p.chunks[:i], p.chunks[i+1:]...)
	return c, nil
}

func (p *PNG) index(t string) int {
	for i, c := range p.chunks {
		if c.typ.String() == t {
			return i
		}
	}
	return -1
}

// Chunks returns the chunks in order. The slice is a copy; the chunks are
// shared but immutable.
func (p *PNG) Chunks() []*Chunk {
	out := make([]*Chunk, len(p.chunks))
	copy(out, p.chunks)
	return out
}

func (p *PNG) Len() int {
	return len(p.chunks)
}

// Size is the number of bytes Bytes produces.
func (p *PNG) Size() int {
	n := len(Signature)
	for _, c := range p.chunks {
		n += c.Size()
	}
	return n
}

// Bytes serializes the signature followed by every chunk in order.
func (p *PNG) Bytes() []byte {
	buf := make([]byte, 0, p.Size())
	buf = append(buf, Signature[:]...)
	for _, c := range p.chunks {
		buf = c.appendTo(buf)
	}
	return buf
}

// WriteTo streams the serialized PNG to w one record at a time.
func (p *PNG) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(Signature[:])
	total := int64(n)
	if err != nil {
		return total, err
	}
	for _, c := range p.chunks {
		m, err := c.WriteTo(w)
		total += m
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Equal reports whether both PNGs hold equal chunks in the same order.
func (p *PNG) Equal(o *PNG) bool {
	if p == nil || o == nil {
		return p == o
	}
	if len(p.chunks) != len(o.chunks) {
		return false
	}
	for i := range p.chunks {
		if !p.chunks[i].Equal(o.chunks[i]) {
			return false
		}
	}
	return true
}

func (p *PNG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PNG{%d chunks", len(p.chunks))
	for _, c := range p.chunks {
		sb.WriteString("; ")
		sb.WriteString(c.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

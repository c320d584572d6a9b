// Package stego hides, recovers and strips text messages carried in PNG
// chunks. It owns the IEND-last convention that the codec leaves to callers.
package stego

import (
	"context"
	"errors"
	"fmt"

	"github.com/samcharles93/pngme/internal/logger"
	"github.com/samcharles93/pngme/pkg/png"
)

var (
	// ErrCriticalType rejects message chunks decoders would refuse to skip.
	ErrCriticalType = errors.New("stego: critical chunk type")
	// ErrReservedType rejects chunk types the image structure depends on.
	ErrReservedType = errors.New("stego: chunk type is reserved for image structure")
)

type EncodeOptions struct {
	// Strict refuses chunk types with the reserved bit set.
	Strict bool
	// AllowCritical permits an uppercase first letter. Standard decoders
	// reject images carrying unknown critical chunks.
	AllowCritical bool
}

// Message is a decoded message chunk.
type Message struct {
	Type png.ChunkType `json:"chunk_type" yaml:"chunk_type"`
	Text string        `json:"message" yaml:"message"`
	Data []byte        `json:"-" yaml:"-"`
}

// Encode stores msg in a chunk of type chunkType, replacing any existing
// chunk of that type, and keeps IEND as the final chunk.
func Encode(ctx context.Context, p *png.PNG, chunkType string, msg []byte, opts EncodeOptions) (*png.Chunk, error) {
	log := logger.FromContext(ctx).With("chunk_type", chunkType)

	t, err := messageType(chunkType, opts)
	if err != nil {
		return nil, err
	}
	if !t.IsReservedBitValid() {
		log.Warn("chunk type has reserved bit set")
	}

	if _, err := p.RemoveChunk(png.TypeIEND.String()); err != nil {
		if !errors.Is(err, png.ErrNotFound) {
			return nil, err
		}
		log.Warn("image has no IEND chunk, appending one")
	}
	if old, err := p.RemoveChunk(chunkType); err == nil {
		log.Info("replacing existing message chunk", "old_length", old.Length())
	} else if !errors.Is(err, png.ErrNotFound) {
		return nil, err
	}

	c := png.NewChunk(t, msg)
	p.Append(c)
	p.Append(png.NewChunk(png.TypeIEND, nil))
	log.Debug("encoded message", "length", c.Length(), "crc", c.CRC())
	return c, nil
}

func messageType(chunkType string, opts EncodeOptions) (png.ChunkType, error) {
	t, err := png.ParseChunkType(chunkType)
	if err != nil {
		return png.ChunkType{}, err
	}
	switch t {
	case png.TypeIHDR, png.TypePLTE, png.TypeIDAT, png.TypeIEND:
		return png.ChunkType{}, fmt.Errorf("%w: %s", ErrReservedType, t)
	}
	if opts.Strict && !t.IsReservedBitValid() {
		return png.ChunkType{}, fmt.Errorf("%w: %s", png.ErrReservedBit, t)
	}
	if t.IsCritical() && !opts.AllowCritical {
		return png.ChunkType{}, fmt.Errorf("%w: %s (use a lowercase first letter)", ErrCriticalType, t)
	}
	return t, nil
}

// Decode returns the message in the first chunk of type chunkType.
func Decode(ctx context.Context, p *png.PNG, chunkType string) (Message, error) {
	if _, err := png.ParseChunkType(chunkType); err != nil {
		return Message{}, err
	}
	c := p.ChunkByType(chunkType)
	if c == nil {
		return Message{}, &png.NotFoundError{Type: chunkType}
	}
	text, err := c.Text()
	if err != nil {
		return Message{}, fmt.Errorf("chunk %s: %w", chunkType, err)
	}
	logger.FromContext(ctx).Debug("decoded message", "chunk_type", chunkType, "length", c.Length())
	return Message{Type: c.Type(), Text: text, Data: c.Data()}, nil
}

// Remove deletes the first chunk of type chunkType. A missing chunk is
// reported as png.ErrNotFound so callers decide whether that matters.
func Remove(ctx context.Context, p *png.PNG, chunkType string) (*png.Chunk, error) {
	if _, err := png.ParseChunkType(chunkType); err != nil {
		return nil, err
	}
	if chunkType == png.TypeIEND.String() {
		return nil, fmt.Errorf("%w: %s", ErrReservedType, chunkType)
	}
	c, err := p.RemoveChunk(chunkType)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("removed chunk", "chunk_type", chunkType, "length", c.Length())
	return c, nil
}

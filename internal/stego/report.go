package stego

import (
	"fmt"

	"github.com/samcharles93/pngme/pkg/png"
)

// ChunkInfo describes one chunk and where it sits in the serialized stream.
type ChunkInfo struct {
	Index            int           `json:"index" yaml:"index"`
	Offset           int           `json:"offset" yaml:"offset"`
	Type             png.ChunkType `json:"type" yaml:"type"`
	Length           uint32        `json:"length" yaml:"length"`
	CRC              uint32        `json:"crc" yaml:"crc"`
	Critical         bool          `json:"critical" yaml:"critical"`
	Public           bool          `json:"public" yaml:"public"`
	ReservedBitValid bool          `json:"reserved_bit_valid" yaml:"reserved_bit_valid"`
	SafeToCopy       bool          `json:"safe_to_copy" yaml:"safe_to_copy"`
}

type Report struct {
	Size     int         `json:"size" yaml:"size"`
	Chunks   []ChunkInfo `json:"chunks" yaml:"chunks"`
	IENDLast bool        `json:"iend_last" yaml:"iend_last"`
	Warnings []string    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Inspect summarises the chunk layout of p.
func Inspect(p *png.PNG) Report {
	chunks := p.Chunks()
	r := Report{
		Size:   p.Size(),
		Chunks: make([]ChunkInfo, 0, len(chunks)),
	}

	off := len(png.Signature)
	iends := 0
	for i, c := range chunks {
		t := c.Type()
		r.Chunks = append(r.Chunks, ChunkInfo{
			Index:            i,
			Offset:           off,
			Type:             t,
			Length:           c.Length(),
			CRC:              c.CRC(),
			Critical:         t.IsCritical(),
			Public:           t.IsPublic(),
			ReservedBitValid: t.IsReservedBitValid(),
			SafeToCopy:       t.IsSafeToCopy(),
		})
		off += c.Size()

		if t == png.TypeIEND {
			iends++
		}
		if !t.IsReservedBitValid() {
			r.Warnings = append(r.Warnings, fmt.Sprintf("chunk %d (%s) has the reserved bit set", i, t))
		}
	}

	r.IENDLast = len(chunks) > 0 && chunks[len(chunks)-1].Type() == png.TypeIEND
	switch {
	case iends == 0:
		r.Warnings = append(r.Warnings, "no IEND chunk")
	case iends > 1:
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d IEND chunks", iends))
	case !r.IENDLast:
		r.Warnings = append(r.Warnings, "IEND is not the last chunk")
	}
	return r
}

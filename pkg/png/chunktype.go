package png

import "strings"

// Bit 5 of every type byte is the case bit: set for lowercase letters.
const caseBit = 1 << 5

// Well-known chunk types.
var (
	TypeIHDR = MustChunkType("IHDR")
	TypePLTE = MustChunkType("PLTE")
	TypeIDAT = MustChunkType("IDAT")
	TypeIEND = MustChunkType("IEND")
)

// ChunkType is the 4-byte type code of a chunk. Each byte is an ASCII letter
// and the case of each letter carries one property flag.
//
// The zero value is not a valid chunk type; build one with ChunkTypeFromBytes
// or ParseChunkType. ChunkType values are comparable with ==.
type ChunkType struct {
	b [4]byte
}

// ChunkTypeFromBytes validates b and returns it as a ChunkType.
func ChunkTypeFromBytes(b [4]byte) (ChunkType, error) {
	for i, c := range b {
		if !isLetter(c) {
			return ChunkType{}, &InvalidByteError{Value: c, Position: i}
		}
	}
	return ChunkType{b: b}, nil
}

// ParseChunkType parses a 4-byte string such as "IEND" or "ruSt".
func ParseChunkType(s string) (ChunkType, error) {
	if len(s) != 4 {
		return ChunkType{}, &InvalidLengthError{Length: len(s)}
	}
	var b [4]byte
	copy(b[:], s)
	return ChunkTypeFromBytes(b)
}

// MustChunkType is like ParseChunkType but panics on error.
func MustChunkType(s string) ChunkType {
	t, err := ParseChunkType(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t ChunkType) Bytes() [4]byte {
	return t.b
}

func (t ChunkType) String() string {
	return strings.ToValidUTF8(string(t.b[:]), "�")
}

// IsCritical reports whether decoders must understand the chunk to render
// the image (uppercase first letter).
func (t ChunkType) IsCritical() bool {
	return t.b[0]&caseBit == 0
}

// IsAncillary is the inverse of IsCritical.
func (t ChunkType) IsAncillary() bool {
	return !t.IsCritical()
}

// IsPublic reports whether the type is registered (uppercase second letter).
func (t ChunkType) IsPublic() bool {
	return t.b[1]&caseBit == 0
}

// IsReservedBitValid reports whether the third letter is uppercase.
// A lowercase third letter is a convention violation, not a parse error.
func (t ChunkType) IsReservedBitValid() bool {
	return t.b[2]&caseBit == 0
}

// IsSafeToCopy reports whether editors that do not understand the chunk may
// copy it into a modified image (lowercase fourth letter).
func (t ChunkType) IsSafeToCopy() bool {
	return t.b[3]&caseBit != 0
}

// IsValid reports IsReservedBitValid and nothing more. Letter ranges are
// already enforced at construction; IsValid does not check the type against
// the registered PNG chunk list or any other compliance rule.
func (t ChunkType) IsValid() bool {
	return t.IsReservedBitValid()
}

func (t ChunkType) MarshalText() ([]byte, error) {
	if t == (ChunkType{}) {
		return nil, &InvalidByteError{Value: 0, Position: 0}
	}
	return []byte(t.String()), nil
}

func (t *ChunkType) UnmarshalText(text []byte) error {
	parsed, err := ParseChunkType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func isLetter(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

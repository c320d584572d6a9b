package png

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidByte      = errors.New("png: invalid chunk type byte")
	ErrInvalidLength    = errors.New("png: invalid chunk type length")
	ErrBadSignature     = errors.New("png: bad signature")
	ErrMalformedRecord  = errors.New("png: malformed chunk record")
	ErrChecksumMismatch = errors.New("png: checksum mismatch")
	ErrNonASCII         = errors.New("png: chunk data is not ASCII")
	ErrNotFound         = errors.New("png: chunk not found")
	ErrReservedBit      = errors.New("png: reserved bit set in chunk type")
)

// InvalidByteError reports a chunk type byte outside A-Z and a-z.
type InvalidByteError struct {
	Value    byte
	Position int
}

func (e *InvalidByteError) Error() string {
	return fmt.Sprintf("%v: 0x%02x at position %d", ErrInvalidByte, e.Value, e.Position)
}

func (e *InvalidByteError) Unwrap() error { return ErrInvalidByte }

// InvalidLengthError reports a chunk type string that is not exactly 4 bytes.
type InvalidLengthError struct {
	Length int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("%v: got %d bytes, want 4", ErrInvalidLength, e.Length)
}

func (e *InvalidLengthError) Unwrap() error { return ErrInvalidLength }

// MalformedRecordError reports a chunk record whose byte span cannot hold
// the record it claims to be.
type MalformedRecordError struct {
	Reason   string
	Declared uint64
	Actual   uint64
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%v: %s (declared %d, have %d)", ErrMalformedRecord, e.Reason, e.Declared, e.Actual)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// ChecksumError reports a stored CRC that does not match type+data.
type ChecksumError struct {
	Found    uint32
	Expected uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%v: found %d, expected %d", ErrChecksumMismatch, e.Found, e.Expected)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// NonASCIIError reports the first data byte with its high bit set.
type NonASCIIError struct {
	Offset int
	Value  byte
}

func (e *NonASCIIError) Error() string {
	return fmt.Sprintf("%v: byte 0x%02x at offset %d", ErrNonASCII, e.Value, e.Offset)
}

func (e *NonASCIIError) Unwrap() error { return ErrNonASCII }

type NotFoundError struct {
	Type string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %q", ErrNotFound, e.Type)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

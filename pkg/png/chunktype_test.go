package png

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTypeFromBytes(t *testing.T) {
	t.Parallel()

	ct, err := ChunkTypeFromBytes([4]byte{82, 117, 83, 116})
	require.NoError(t, err)
	assert.Equal(t, [4]byte{82, 117, 83, 116}, ct.Bytes())
	assert.Equal(t, "RuSt", ct.String())
}

func TestParseChunkTypeMatchesBytes(t *testing.T) {
	t.Parallel()

	fromBytes, err := ChunkTypeFromBytes([4]byte{82, 117, 83, 116})
	require.NoError(t, err)
	fromString, err := ParseChunkType("RuSt")
	require.NoError(t, err)
	assert.True(t, fromBytes == fromString)
	assert.NotEqual(t, MustChunkType("rust"), fromString, "equality is case-sensitive")
}

func TestChunkTypeStringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"IHDR", "IEND", "tEXt", "RuSt", "ruSt", "zzzz", "AAAA", "aZbY"} {
		ct, err := ParseChunkType(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, ct.String())
	}
}

func TestChunkTypeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code          string
		critical      bool
		public        bool
		reservedValid bool
		safeToCopy    bool
	}{
		{code: "RuSt", critical: true, public: false, reservedValid: true, safeToCopy: true},
		{code: "ruSt", critical: false, public: false, reservedValid: true, safeToCopy: true},
		{code: "RUSt", critical: true, public: true, reservedValid: true, safeToCopy: true},
		{code: "Rust", critical: true, public: false, reservedValid: false, safeToCopy: true},
		{code: "RuST", critical: true, public: false, reservedValid: true, safeToCopy: false},
		{code: "IEND", critical: true, public: true, reservedValid: true, safeToCopy: false},
		{code: "tEXt", critical: false, public: true, reservedValid: true, safeToCopy: true},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			ct := MustChunkType(tt.code)
			assert.Equal(t, tt.critical, ct.IsCritical(), "critical")
			assert.Equal(t, !tt.critical, ct.IsAncillary(), "ancillary")
			assert.Equal(t, tt.public, ct.IsPublic(), "public")
			assert.Equal(t, tt.reservedValid, ct.IsReservedBitValid(), "reserved")
			assert.Equal(t, tt.reservedValid, ct.IsValid(), "valid")
			assert.Equal(t, tt.safeToCopy, ct.IsSafeToCopy(), "safe to copy")
		})
	}
}

func TestChunkTypeRejectsNonLetters(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"Ru1t", "Ru t", "RuS\x00", "@AAA", "[AAA", "`aaa", "{aaa"} {
		_, err := ParseChunkType(s)
		require.ErrorIs(t, err, ErrInvalidByte, "%q", s)
	}

	_, err := ChunkTypeFromBytes([4]byte{'R', 'u', 0xC3, 't'})
	var ibe *InvalidByteError
	require.ErrorAs(t, err, &ibe)
	assert.Equal(t, byte(0xC3), ibe.Value)
	assert.Equal(t, 2, ibe.Position)
}

func TestParseChunkTypeLength(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "RuS", "RuStR", "é1"} {
		_, err := ParseChunkType(s)
		var ile *InvalidLengthError
		require.ErrorAs(t, err, &ile, "%q", s)
		assert.Equal(t, len(s), ile.Length)
		assert.ErrorIs(t, err, ErrInvalidLength)
	}
}

func TestParseChunkTypeMultibyteRune(t *testing.T) {
	t.Parallel()

	// Four bytes, three runes: length passes, letter check fails.
	_, err := ParseChunkType("éRu")
	assert.ErrorIs(t, err, ErrInvalidByte)
}

func TestMustChunkTypePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustChunkType("no") })
}

func TestChunkTypeText(t *testing.T) {
	t.Parallel()

	type payload struct {
		Type ChunkType `json:"type"`
	}
	out, err := json.Marshal(payload{Type: MustChunkType("ruSt")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ruSt"}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"type":"tEXt"}`), &in))
	assert.Equal(t, MustChunkType("tEXt"), in.Type)

	assert.Error(t, json.Unmarshal([]byte(`{"type":"t3Xt"}`), &in))

	_, err = ChunkType{}.MarshalText()
	assert.ErrorIs(t, err, ErrInvalidByte)
}

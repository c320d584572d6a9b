package pngstore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/pngme/internal/logger"
	"github.com/samcharles93/pngme/pkg/png"
)

func testCtx() context.Context {
	return logger.WithContext(context.Background(), logger.Discard())
}

func samplePNG() *png.PNG {
	return png.New(
		png.NewChunk(png.TypeIHDR, []byte{0, 0, 0, 1, 0, 0, 0, 1, 8, 6, 0, 0, 0}),
		png.NewChunk(png.MustChunkType("ruSt"), []byte("hidden")),
		png.NewChunk(png.TypeIEND, nil),
	)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "image.png")
	want := samplePNG()
	require.NoError(t, Save(testCtx(), path, want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want.Bytes(), raw)

	got, err := Load(testCtx(), path)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestSavePreservesMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "image.png")
	require.NoError(t, os.WriteFile(path, samplePNG().Bytes(), 0o600))
	require.NoError(t, Save(testCtx(), path, samplePNG()))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestSaveMissingDir(t *testing.T) {
	t.Parallel()

	err := Save(testCtx(), filepath.Join(t.TempDir(), "nope", "image.png"), samplePNG())
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Load(testCtx(), filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = Load(testCtx(), empty)
	assert.ErrorIs(t, err, png.ErrBadSignature)

	corrupt := samplePNG().Bytes()
	corrupt[len(corrupt)-20] ^= 0xff
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, corrupt, 0o644))
	_, err = Load(testCtx(), bad)
	assert.ErrorIs(t, err, png.ErrChecksumMismatch)

	_, err = Load(testCtx(), dir)
	assert.Error(t, err)
}

func TestLoadStrict(t *testing.T) {
	t.Parallel()

	p := png.New(png.NewChunk(png.MustChunkType("Rust"), nil), png.NewChunk(png.TypeIEND, nil))
	path := filepath.Join(t.TempDir(), "strict.png")
	require.NoError(t, Save(testCtx(), path, p))

	_, err := Load(testCtx(), path)
	require.NoError(t, err)
	_, err = Load(testCtx(), path, png.WithStrict())
	assert.ErrorIs(t, err, png.ErrReservedBit)
}

func TestLoadReaderAt(t *testing.T) {
	t.Parallel()

	raw := samplePNG().Bytes()
	got, err := LoadReaderAt(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	assert.True(t, samplePNG().Equal(got))

	_, err = LoadReaderAt(bytes.NewReader(raw), int64(len(raw)+10))
	assert.Error(t, err)

	_, err = LoadReaderAt(bytes.NewReader(raw), -1)
	assert.ErrorIs(t, err, ErrTooLarge)
}

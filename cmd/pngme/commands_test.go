package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/pngme/internal/logger"
	"github.com/samcharles93/pngme/pkg/png"
)

// useTestIO swaps the package seams and globals for the duration of a test.
// Tests using it must not run in parallel.
func useTestIO(t *testing.T, in string, tty bool) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer

	origIn, origOut, origErr, origTTY := stdin, stdout, stderr, stdinIsTTY
	origCfg, origStrict, origConfig, origLevel, origFormat := cfg, strict, configFile, logLevel, logFormat
	t.Cleanup(func() {
		stdin, stdout, stderr, stdinIsTTY = origIn, origOut, origErr, origTTY
		cfg, strict, configFile, logLevel, logFormat = origCfg, origStrict, origConfig, origLevel, origFormat
	})

	stdin = strings.NewReader(in)
	stdout = &out
	stderr = io.Discard
	stdinIsTTY = func() bool { return tty }
	cfg = Config{}
	strict = false
	return &out
}

func quietCtx() context.Context {
	return logger.WithContext(context.Background(), logger.Discard())
}

func writeTestPNG(t *testing.T) string {
	t.Helper()
	p := png.New(
		png.NewChunk(png.TypeIHDR, []byte{0, 0, 0, 1, 0, 0, 0, 1, 8, 6, 0, 0, 0}),
		png.NewChunk(png.TypeIEND, nil),
	)
	path := filepath.Join(t.TempDir(), "image.png")
	require.NoError(t, os.WriteFile(path, p.Bytes(), 0o644))
	return path
}

func TestEncodeDecodeRemove(t *testing.T) {
	out := useTestIO(t, "", false)
	path := writeTestPNG(t)
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, runEncode(quietCtx(), encodeArgs{File: path, ChunkType: "ruSt", Message: "hello there"}))

	require.NoError(t, runDecode(quietCtx(), path, "ruSt", false))
	assert.Equal(t, "hello there\n", out.String())

	out.Reset()
	require.NoError(t, runDecode(quietCtx(), path, "ruSt", true))
	assert.Contains(t, out.String(), "bytes: [104 101 108 108 111")

	require.NoError(t, runRemove(quietCtx(), path, "ruSt", ""))
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, after)

	err = runRemove(quietCtx(), path, "ruSt", "")
	assert.ErrorIs(t, err, png.ErrNotFound)
	err = runDecode(quietCtx(), path, "ruSt", false)
	assert.ErrorIs(t, err, png.ErrNotFound)
}

func TestEncodeToOutput(t *testing.T) {
	useTestIO(t, "", false)
	path := writeTestPNG(t)
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, runEncode(quietCtx(), encodeArgs{File: path, ChunkType: "ruSt", Message: "m", Output: outPath}))

	unchanged, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, unchanged)

	encoded, err := os.ReadFile(outPath)
	require.NoError(t, err)
	p, err := png.Parse(encoded)
	require.NoError(t, err)
	assert.NotNil(t, p.ChunkByType("ruSt"))
}

func TestEncodeConfirmation(t *testing.T) {
	path := writeTestPNG(t)

	useTestIO(t, "", false)
	require.NoError(t, runEncode(quietCtx(), encodeArgs{File: path, ChunkType: "ruSt", Message: "first"}))

	t.Run("declined", func(t *testing.T) {
		useTestIO(t, "n\n", true)
		err := runEncode(quietCtx(), encodeArgs{File: path, ChunkType: "ruSt", Message: "second"})
		assert.True(t, errors.Is(err, errAborted), "got %v", err)
	})

	t.Run("accepted", func(t *testing.T) {
		out := useTestIO(t, "y\n", true)
		require.NoError(t, runEncode(quietCtx(), encodeArgs{File: path, ChunkType: "ruSt", Message: "third"}))
		require.NoError(t, runDecode(quietCtx(), path, "ruSt", false))
		assert.Equal(t, "third\n", out.String())
	})

	t.Run("yes flag skips prompt", func(t *testing.T) {
		out := useTestIO(t, "n\n", true)
		require.NoError(t, runEncode(quietCtx(), encodeArgs{File: path, ChunkType: "ruSt", Message: "fourth", Yes: true}))
		require.NoError(t, runDecode(quietCtx(), path, "ruSt", false))
		assert.Equal(t, "fourth\n", out.String())
	})
}

func TestChunkTypeFromConfig(t *testing.T) {
	out := useTestIO(t, "", false)
	path := writeTestPNG(t)

	err := runEncode(quietCtx(), encodeArgs{File: path, Message: "m"})
	assert.ErrorContains(t, err, "--chunk is required")

	cfg.ChunkType = "cfGt"
	require.NoError(t, runEncode(quietCtx(), encodeArgs{File: path, Message: "from config"}))
	require.NoError(t, runDecode(quietCtx(), path, "", false))
	assert.Equal(t, "from config\n", out.String())
}

func TestStrictEncode(t *testing.T) {
	useTestIO(t, "", false)
	path := writeTestPNG(t)

	strict = true
	err := runEncode(quietCtx(), encodeArgs{File: path, ChunkType: "rust", Message: "m"})
	assert.ErrorIs(t, err, png.ErrReservedBit)
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	p := png.New(
		png.NewChunk(png.TypeIHDR, nil),
		png.NewChunk(png.MustChunkType("ruSt"), []byte("hi")),
		png.NewChunk(png.TypeIEND, nil),
	)

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, p, "table"))
	assert.Contains(t, buf.String(), "ruSt")
	assert.Contains(t, buf.String(), "---S")
	assert.Contains(t, buf.String(), "3 chunks, 46 bytes")

	buf.Reset()
	require.NoError(t, writeReport(&buf, p, "json"))
	assert.Contains(t, buf.String(), `"type": "ruSt"`)

	buf.Reset()
	require.NoError(t, writeReport(&buf, p, "yaml"))
	assert.Contains(t, buf.String(), "type: ruSt")
	assert.Contains(t, buf.String(), "iend_last: true")

	buf.Reset()
	require.NoError(t, writeReport(&buf, p, "hex"))
	assert.True(t, strings.HasPrefix(buf.String(), "00000000  89 50 4e 47 0d 0a 1a 0a"), buf.String())

	assert.Error(t, writeReport(&buf, p, "xml"))
}

func TestAppRun(t *testing.T) {
	out := useTestIO(t, "", false)
	path := writeTestPNG(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("chunk_type: apPt\nlog_format: text\n"), 0o644))

	ctx := context.Background()
	require.NoError(t, newApp().Run(ctx, []string{"pngme", "--config", configPath, "e", "-f", path, "-m", "via app"}))
	require.NoError(t, newApp().Run(ctx, []string{"pngme", "--config", configPath, "decode", "-f", path}))
	assert.Equal(t, "via app\n", out.String())

	out.Reset()
	require.NoError(t, newApp().Run(ctx, []string{"pngme", "--config", configPath, "p", "-f", path, "--format", "json"}))
	assert.Contains(t, out.String(), `"type": "apPt"`)

	err := newApp().Run(ctx, []string{"pngme", "--config", configPath, "--log-level", "loud", "version"})
	assert.Error(t, err)
}

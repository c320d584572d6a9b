// Package pngstore loads PNG files into the chunk codec and writes edited
// streams back to disk atomically.
package pngstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samcharles93/pngme/internal/logger"
	"github.com/samcharles93/pngme/pkg/png"
)

var ErrTooLarge = errors.New("pngstore: file too large")

// Load reads and parses the PNG at path. Where the platform allows it the
// file is mapped read-only and unmapped once parsing has copied the chunks.
func Load(ctx context.Context, path string, opts ...png.Option) (*png.PNG, error) {
	log := logger.FromContext(ctx).With("path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !st.Mode().IsRegular() {
		return nil, fmt.Errorf("pngstore: %s is not a regular file", path)
	}
	size, err := checkSize(st.Size())
	if err != nil {
		return nil, err
	}

	data, unmap, err := mapFile(f, size)
	if err == nil {
		log.Debug("mapped file", "bytes", size)
		p, perr := png.Parse(data, opts...)
		if uerr := unmap(); uerr != nil {
			log.Warn("unmap failed", "err", uerr)
		}
		if perr != nil {
			return nil, fmt.Errorf("parse %s: %w", path, perr)
		}
		return p, nil
	}

	log.Debug("mmap unavailable, reading file", "err", err)
	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	p, err := png.Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, nil
}

// LoadReaderAt parses a PNG of the given size from a random-access reader.
func LoadReaderAt(r io.ReaderAt, size int64, opts ...png.Option) (*png.PNG, error) {
	n, err := checkSize(size)
	if err != nil {
		return nil, err
	}
	data, err := readAllAt(r, n)
	if err != nil {
		return nil, err
	}
	return png.Parse(data, opts...)
}

func checkSize(size int64) (int, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return 0, ErrTooLarge
	}
	return int(size), nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

// Save writes p to path through a temporary file in the same directory and
// renames it into place, so readers never observe a half-written image.
// An existing file keeps its permission bits.
func Save(ctx context.Context, path string, p *png.PNG) (err error) {
	log := logger.FromContext(ctx).With("path", path)

	mode := fs.FileMode(0o644)
	if st, statErr := os.Stat(path); statErr == nil {
		mode = st.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = writeFull(tmp, p.Bytes()); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(mode); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	log.Debug("saved png", "chunks", p.Len(), "bytes", p.Size())
	return nil
}

func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

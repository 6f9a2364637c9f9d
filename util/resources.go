// util/resources.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Unfortunately, unlike io.ReadCloser, the zstd Decoder's Close() method
// doesn't return an error, so we need to make our own custom ReadCloser
// interface.
type ResourceReadCloser interface {
	io.Reader
	Close()
}

type bytesReadCloser struct {
	*bytes.Reader
}

func (bytesReadCloser) Close() {}

// OpenResource provides a ResourceReadCloser to access the specified file
// in fsys; if it's zstd compressed, the Reader will handle decompression
// transparently. A nil fsys reads from the local filesystem.
func OpenResource(fsys fs.FS, path string) (ResourceReadCloser, error) {
	var f []byte
	var err error
	if fsys == nil {
		f, err = os.ReadFile(path)
	} else {
		f, err = fs.ReadFile(fsys, path)
	}
	if err != nil {
		return nil, err
	}
	br := bytesReadCloser{bytes.NewReader(f)}

	if filepath.Ext(path) == ".zst" {
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return zr, nil
	}

	return br, nil
}

// ReadResource returns the (decompressed) contents of the given file.
func ReadResource(fsys fs.FS, path string) ([]byte, error) {
	r, err := OpenResource(fsys, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// ResourceFormat returns the extension of the given path after any ".zst"
// suffix is removed, e.g., ".json" for "f16.json.zst".
func ResourceFormat(path string) string {
	return filepath.Ext(strings.TrimSuffix(path, ".zst"))
}

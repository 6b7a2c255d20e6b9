// internal/tabio/open.go
package tabio

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
)

// snappyMagic starts every framed snappy stream (stream identifier chunk).
var snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader over path with gzip or framed snappy input decoded
// transparently. "-" reads stdin. Compression is detected by magic bytes,
// so misnamed files still work.
func Open(path string) (io.ReadCloser, error) {
	var src io.ReadCloser = io.NopCloser(os.Stdin)
	if path != "-" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src = fh
	}
	rc, err := Decode(src)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return rc, nil
}

// Decode wraps an already open stream. Closing the result closes src.
func Decode(src io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(src, 64<<10)
	head, _ := br.Peek(len(snappyMagic))
	switch {
	case len(head) >= 2 && head[0] == 0x1f && head[1] == 0x8b:
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, src}}, nil
	case bytes.Equal(head, snappyMagic):
		return &multiReadCloser{Reader: snappy.NewReader(br), closers: []io.Closer{src}}, nil
	}
	return &multiReadCloser{Reader: br, closers: []io.Closer{src}}, nil
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (w *writeCloser) Close() error {
	var err error
	for _, c := range w.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Create opens path for writing, compressing by suffix: ".gz" gzip,
// ".sz" framed snappy, anything else plain.
func Create(path string) (io.WriteCloser, error) {
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return Encode(fh, path), nil
}

// Encode wraps w with the compressor matching name's suffix.
func Encode(w io.WriteCloser, name string) io.WriteCloser {
	switch {
	case strings.HasSuffix(name, ".gz"):
		gw := gzip.NewWriter(w)
		return &writeCloser{Writer: gw, closers: []io.Closer{gw, w}}
	case strings.HasSuffix(name, ".sz"):
		sw := snappy.NewBufferedWriter(w)
		return &writeCloser{Writer: sw, closers: []io.Closer{sw, w}}
	}
	return w
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// CreateOr is Create, except that "" and "-" write to stdout, which is
// never closed.
func CreateOr(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{stdout}, nil
	}
	return Create(path)
}

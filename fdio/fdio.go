// Package fdio plugs *os.File into the buffered-mixin contract:
// FdReader and FdWriter are thin stream/bufio subclasses whose
// ReadRaw/WriteRaw hooks call the file's own Read/Write directly.
// File-descriptor I/O itself is an external collaborator, so these add
// nothing beyond that plumbing.
package fdio

import (
	"os"

	"github.com/quillhq/streamio/ownership"
	"github.com/quillhq/streamio/stream"
	"github.com/quillhq/streamio/stream/bufio"
)

// FdReader reads from a *os.File through a pooled scratch buffer.
type FdReader struct {
	*bufio.BufferedReader
	down ownership.Downstream[*os.File]
}

// NewReader wraps down. bufSize <= 0 uses bufio.DefaultBufferSize.
func NewReader(down ownership.Downstream[*os.File], bufSize int) *FdReader {
	r := &FdReader{down: down}
	r.BufferedReader = bufio.NewBufferedReader(r, bufSize)
	return r
}

// Open opens path for reading and wraps it as an owned FdReader.
func Open(path string, bufSize int) (*FdReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewReader(ownership.OwnedCloser(f), bufSize), nil
}

// ReadRaw implements bufio.RawReader.
func (r *FdReader) ReadRaw(p []byte) (int, error) {
	return r.down.Get().Read(p)
}

// CloseRaw implements bufio.RawReader.
func (r *FdReader) CloseRaw() error {
	return r.down.Close()
}

var _ stream.Reader = (*FdReader)(nil)

// FdWriter writes to a *os.File through a pooled scratch buffer.
type FdWriter struct {
	*bufio.BufferedWriter
	down ownership.Downstream[*os.File]
}

// NewWriter wraps down. bufSize <= 0 uses bufio.DefaultBufferSize.
func NewWriter(down ownership.Downstream[*os.File], bufSize int) *FdWriter {
	w := &FdWriter{down: down}
	w.BufferedWriter = bufio.NewBufferedWriter(w, bufSize)
	return w
}

// Create truncates (or creates) path for writing and wraps it as an
// owned FdWriter.
func Create(path string, bufSize int) (*FdWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return NewWriter(ownership.OwnedCloser(f), bufSize), nil
}

// WriteRaw implements bufio.RawWriter.
func (w *FdWriter) WriteRaw(p []byte) (int, error) {
	return w.down.Get().Write(p)
}

// FlushRaw implements the optional hook BufferedWriter.Flush looks for
// on FlushFromProcess: fsync the file.
func (w *FdWriter) FlushRaw() error {
	return w.down.Get().Sync()
}

// CloseRaw implements bufio.RawWriter.
func (w *FdWriter) CloseRaw() error {
	return w.down.Close()
}

var _ stream.Writer = (*FdWriter)(nil)

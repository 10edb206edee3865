// Package bufio supplies the buffered-mixin base types every byte-level
// adapter in this module builds on: BufferedReader and BufferedWriter
// hold a pooled scratch buffer and drive a subclass-supplied hook
// (ReadRaw/WriteRaw) only once that buffer is exhausted, keeping the
// fast path (ordinary slice copies against the buffer window) free of
// any virtual dispatch into the hook.
package bufio

import (
	"io"

	"github.com/quillhq/streamio/internal/bytepool"
	"github.com/quillhq/streamio/stream"
)

// DefaultBufferSize is the scratch buffer size used when a subclass
// doesn't ask for a specific one: one size class above the small
// protocol-message buffers this module's own pool classes otherwise
// serve, since this layer is meant for bulk I/O.
const DefaultBufferSize = 64 * 1024

// RawReader is the hook a BufferedReader subclass supplies: how to pull
// more bytes once the scratch buffer is empty, and how to release the
// underlying resource.
type RawReader interface {
	ReadRaw(p []byte) (int, error)
	CloseRaw() error
}

// RawWriter is the hook a BufferedWriter subclass supplies: how to push
// buffered bytes onward once the scratch buffer is full (or on Flush),
// and how to release the underlying resource.
type RawWriter interface {
	WriteRaw(p []byte) (int, error)
	CloseRaw() error
}

// BufferedReader is the layer-3 reader mixin: it owns a pooled scratch
// buffer and exposes it through stream.Cursor, refilling via a
// subclass's ReadRaw hook on the slow path.
type BufferedReader struct {
	stream.Cursor
	raw     RawReader
	bufSize int
	buf     []byte
	closed  bool
}

// NewBufferedReader returns a BufferedReader driven by raw. bufSize <= 0
// uses DefaultBufferSize.
func NewBufferedReader(raw RawReader, bufSize int) *BufferedReader {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	r := &BufferedReader{raw: raw, bufSize: bufSize}
	r.Cursor = stream.NewCursor()
	return r
}

// FillBuffer is the reader mixin's slow path: requests the scratch
// buffer if none is held yet, calls ReadRaw, and installs whatever was
// read as the new window. Returns false (without failing) on a clean
// io.EOF with nothing read.
func (r *BufferedReader) FillBuffer() bool {
	if r.buf == nil {
		r.buf = bytepool.Get(r.bufSize)
	}
	pos := r.Pos()
	n, err := r.raw.ReadRaw(r.buf)
	if n > 0 {
		r.SetWindow(r.buf, 0, n, pos)
	} else {
		r.Clear(pos)
	}
	if err != nil && err != io.EOF {
		return r.FailWrap("downstream read failed", err)
	}
	return n > 0
}

// Pull implements stream.Reader.
func (r *BufferedReader) Pull() bool {
	if r.Available() > 0 {
		return true
	}
	if !r.Healthy() {
		return false
	}
	return r.FillBuffer()
}

// Read implements stream.Reader.
func (r *BufferedReader) Read(dst []byte) bool {
	for len(dst) > 0 {
		if !r.Pull() {
			return false
		}
		n := copy(dst, r.Buffered())
		r.Advance(n)
		dst = dst[n:]
	}
	return true
}

// CopyTo implements stream.Reader via the generic pooled-scratch
// fallback; subclasses with a cheaper zero-copy path override it.
func (r *BufferedReader) CopyTo(w stream.Writer, n uint64) bool {
	return stream.CopyViaScratch(r, w, n)
}

// CopyToBackward implements stream.Reader via the generic fallback.
func (r *BufferedReader) CopyToBackward(w stream.BackwardWriter, n uint64) bool {
	return stream.CopyViaScratchBackward(r, w, n)
}

// SupportsRandomAccess implements stream.Reader. A buffered reader over
// an arbitrary RawReader hook has no seek primitive of its own;
// subclasses backed by a seekable resource override this and Seek.
func (r *BufferedReader) SupportsRandomAccess() bool { return false }

// Seek implements stream.Reader.
func (r *BufferedReader) Seek(pos uint64) bool {
	return r.Fail("stream does not support random access")
}

// Size implements stream.Reader.
func (r *BufferedReader) Size() (uint64, bool) { return 0, false }

// Close implements stream.Reader: releases the scratch buffer and
// delegates to the subclass's own teardown of the underlying resource.
func (r *BufferedReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.buf != nil {
		bytepool.Put(r.buf)
		r.buf = nil
	}
	r.Clear(r.Pos())
	return r.raw.CloseRaw()
}

// BufferedWriter is the layer-3 writer mixin: it owns a pooled scratch
// buffer and drains it through a subclass's WriteRaw hook once full or
// on Flush.
type BufferedWriter struct {
	stream.Cursor
	raw     RawWriter
	bufSize int
	buf     []byte
	start   int
	closed  bool
}

// NewBufferedWriter returns a BufferedWriter driven by raw. bufSize <= 0
// uses DefaultBufferSize.
func NewBufferedWriter(raw RawWriter, bufSize int) *BufferedWriter {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	w := &BufferedWriter{raw: raw, bufSize: bufSize}
	w.Cursor = stream.NewCursor()
	w.openBuffer()
	return w
}

func (w *BufferedWriter) openBuffer() {
	if w.buf == nil {
		w.buf = bytepool.Get(w.bufSize)
	}
	w.start = 0
	w.SetWindow(w.buf, 0, len(w.buf), w.Pos())
}

// DrainBuffer is the writer mixin's slow path: flushes whatever has
// been written into the scratch buffer so far via WriteRaw, then resets
// the cursor so the full scratch buffer is available again.
func (w *BufferedWriter) DrainBuffer() bool {
	pending := w.CursorIndex() - w.start
	if pending > 0 {
		n, err := w.raw.WriteRaw(w.buf[w.start:w.CursorIndex()])
		w.start += n
		if err != nil {
			return w.FailWrap("downstream write failed", err)
		}
		if n < pending {
			return w.Fail("short write to downstream")
		}
	}
	pos := w.Pos()
	w.start = 0
	w.SetWindow(w.buf, 0, len(w.buf), pos)
	return true
}

// Push implements stream.Writer.
func (w *BufferedWriter) Push() bool {
	if w.Available() > 0 {
		return true
	}
	if !w.Healthy() {
		return false
	}
	return w.DrainBuffer()
}

// Write implements stream.Writer.
func (w *BufferedWriter) Write(src []byte) bool {
	for len(src) > 0 {
		if !w.Push() {
			return false
		}
		n := copy(w.Buffered(), src)
		w.Advance(n)
		src = src[n:]
	}
	return true
}

// Flush implements stream.Writer.
func (w *BufferedWriter) Flush(kind stream.FlushKind) bool {
	if !w.DrainBuffer() {
		return false
	}
	if kind == FlushFromProcess {
		if f, ok := w.raw.(interface{ FlushRaw() error }); ok {
			if err := f.FlushRaw(); err != nil {
				return w.FailWrap("downstream flush failed", err)
			}
		}
	}
	return true
}

// FlushFromProcess re-exports stream.FlushFromProcess for callers that
// only import this package.
const FlushFromProcess = stream.FlushFromProcess

var _ stream.Reader = (*BufferedReader)(nil)
var _ stream.Writer = (*BufferedWriter)(nil)

// Close implements stream.Writer: drains pending bytes, releases the
// scratch buffer, then delegates to the subclass's own teardown.
func (w *BufferedWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	ok := w.DrainBuffer()
	if w.buf != nil {
		bytepool.Put(w.buf)
		w.buf = nil
	}
	w.Clear(w.Pos())
	if err := w.raw.CloseRaw(); err != nil {
		return err
	}
	if !ok {
		return w.Err()
	}
	return nil
}

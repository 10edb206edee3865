// Package memio implements the in-memory stream siblings: readers and
// writers whose entire content is already resident, so their fast path
// never allocates and Seek is O(1).
package memio

import (
	"unsafe"

	"github.com/quillhq/streamio/stream"
)

// BytesReader wraps a caller-owned []byte directly as its buffer
// window. It never refills (there is no source behind it) and becomes
// permanently unavailable past the end of data without ever failing.
type BytesReader struct {
	stream.Cursor
	data []byte
}

// NewBytesReader wraps data. The caller must not mutate data while the
// reader is in use.
func NewBytesReader(data []byte) *BytesReader {
	r := &BytesReader{data: data}
	r.Cursor = stream.NewCursor()
	r.SetWindow(data, 0, len(data), 0)
	return r
}

// Pull implements stream.Reader. There is no slow path: once the
// window is exhausted there is nothing further to pull, ever.
func (r *BytesReader) Pull() bool { return r.Available() > 0 }

// Read implements stream.Reader.
func (r *BytesReader) Read(dst []byte) bool {
	if r.Available() < len(dst) {
		n := copy(dst, r.Window()[r.CursorIndex():])
		r.Advance(n)
		return false
	}
	n := copy(dst, r.Buffered())
	r.Advance(n)
	return true
}

// CopyTo implements stream.Reader, handing the writer a direct slice
// of the resident buffer instead of copying through scratch space.
func (r *BytesReader) CopyTo(w stream.Writer, n uint64) bool {
	if uint64(r.Available()) < n {
		return false
	}
	span := r.Window()[r.CursorIndex() : r.CursorIndex()+int(n)]
	r.Advance(int(n))
	return w.Write(span)
}

// CopyToBackward implements stream.Reader.
func (r *BytesReader) CopyToBackward(w stream.BackwardWriter, n uint64) bool {
	if uint64(r.Available()) < n {
		return false
	}
	span := r.Window()[r.CursorIndex() : r.CursorIndex()+int(n)]
	r.Advance(int(n))
	return w.Write(span)
}

// Seek implements stream.Reader in O(1), since the whole buffer is
// already resident.
func (r *BytesReader) Seek(pos uint64) bool {
	if pos > uint64(len(r.data)) {
		return false
	}
	r.SetWindow(r.data, int(pos), len(r.data), 0)
	return true
}

// SupportsRandomAccess implements stream.Reader.
func (r *BytesReader) SupportsRandomAccess() bool { return true }

// Size implements stream.Reader.
func (r *BytesReader) Size() (uint64, bool) { return uint64(len(r.data)), true }

// Close implements stream.Reader. There is no resource to release.
func (r *BytesReader) Close() error { return nil }

var _ stream.Reader = (*BytesReader)(nil)

// BytesWriter wraps a caller-owned, fixed-capacity []byte. Push fails
// once the slice is exhausted, demonstrating a fast path that never
// allocates.
type BytesWriter struct {
	stream.Cursor
	data []byte
}

// NewBytesWriter wraps buf; Write can place at most len(buf) bytes
// before Push starts failing.
func NewBytesWriter(buf []byte) *BytesWriter {
	w := &BytesWriter{data: buf}
	w.Cursor = stream.NewCursor()
	w.SetWindow(buf, 0, len(buf), 0)
	return w
}

// Push implements stream.Writer.
func (w *BytesWriter) Push() bool {
	if w.Available() > 0 {
		return true
	}
	return w.Fail("BytesWriter: destination buffer exhausted")
}

// Write implements stream.Writer.
func (w *BytesWriter) Write(src []byte) bool {
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

// Flush implements stream.Writer. There is no downstream to push into.
func (w *BytesWriter) Flush(stream.FlushKind) bool { return w.Healthy() }

// Close implements stream.Writer. There is no resource to release.
func (w *BytesWriter) Close() error { return nil }

// Written returns the portion of the wrapped buffer written so far.
func (w *BytesWriter) Written() []byte { return w.data[:w.CursorIndex()] }

var _ stream.Writer = (*BytesWriter)(nil)

// NewStringReader wraps s as a read-only BytesReader, reinterpreting
// its backing array without copying. Safe because BytesReader's Read
// and CopyTo paths only ever read from the window, never write into it.
func NewStringReader(s string) *BytesReader {
	var data []byte
	if len(s) > 0 {
		data = unsafe.Slice(unsafe.StringData(s), len(s))
	}
	return NewBytesReader(data)
}

// Package chainio implements forward readers and writers over a
// chain.Chain: ChainReader exposes each block as the buffer window
// without copying it, and ChainWriter appends.
package chainio

import (
	"github.com/quillhq/streamio/chain"
	"github.com/quillhq/streamio/stream"
)

// ChainReader reads forward through a chain.Chain, exposing each block
// as its buffer window in turn and releasing pool-owned blocks as it
// advances past them.
type ChainReader struct {
	stream.Cursor
	src      *chain.Chain
	consumed int
}

// NewReader reads src from its current front. src is drained (its
// front advances) as the reader consumes it.
func NewReader(src *chain.Chain) *ChainReader {
	r := &ChainReader{src: src}
	r.Cursor = stream.NewCursor()
	r.installBlock()
	return r
}

func (r *ChainReader) installBlock() {
	if r.consumed > 0 {
		r.src.RemovePrefix(int64(r.consumed))
		r.consumed = 0
	}
	data, _, ok := r.src.FirstBlock()
	if !ok || len(data) == 0 {
		r.Clear(r.Pos())
		return
	}
	r.SetWindow(data, 0, len(data), r.Pos())
}

// Pull implements stream.Reader.
func (r *ChainReader) Pull() bool {
	if r.Available() > 0 {
		return true
	}
	if !r.Healthy() {
		return false
	}
	return r.PullSlow()
}

// PullSlow advances past the fully-consumed block and installs the
// Chain's next block as the window.
func (r *ChainReader) PullSlow() bool {
	r.consumed = r.CursorIndex()
	r.installBlock()
	return r.Available() > 0
}

// Read implements stream.Reader.
func (r *ChainReader) Read(dst []byte) bool {
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

// CopyTo implements stream.Reader via the generic pooled fallback.
func (r *ChainReader) CopyTo(w stream.Writer, n uint64) bool {
	return stream.CopyViaScratch(r, w, n)
}

// CopyToBackward implements stream.Reader via the generic fallback.
func (r *ChainReader) CopyToBackward(w stream.BackwardWriter, n uint64) bool {
	return stream.CopyViaScratchBackward(r, w, n)
}

// SupportsRandomAccess implements stream.Reader. A Chain has no
// indexed seek primitive.
func (r *ChainReader) SupportsRandomAccess() bool { return false }

// Seek implements stream.Reader.
func (r *ChainReader) Seek(uint64) bool { return r.Fail("ChainReader does not support random access") }

// Size implements stream.Reader: Pos() plus whatever remains in src past
// the cursor. src still holds the current window from its offset 0, so
// this is the window's start position plus src's length.
func (r *ChainReader) Size() (uint64, bool) {
	return r.StartPos() + uint64(r.src.Len()), true
}

// Close implements stream.Reader: releases whatever remains of the
// current block back to the Chain (and the pool, if owned), leaving
// src positioned wherever this reader stopped.
func (r *ChainReader) Close() error {
	if r.CursorIndex() > 0 {
		r.src.RemovePrefix(int64(r.CursorIndex()))
	}
	r.Clear(r.Pos())
	return nil
}

var _ stream.Reader = (*ChainReader)(nil)

// ChainWriter appends forward into a chain.Chain: the writer symmetric
// to backward.ChainBackwardWriter, sharing the Chain type.
type ChainWriter struct {
	stream.Cursor
	dest *chain.Chain
	buf  []byte
}

const chainWriterReserve = 4096

// NewWriter appends into dest.
func NewWriter(dest *chain.Chain) *ChainWriter {
	w := &ChainWriter{dest: dest}
	w.Cursor = stream.NewCursor()
	w.Clear(uint64(dest.Len()))
	return w
}

// Push implements stream.Writer.
func (w *ChainWriter) Push() bool {
	if w.Available() > 0 {
		return true
	}
	return w.PushSlow()
}

// PushSlow commits the current block (trimming unused tail space) and
// requests a fresh append buffer.
func (w *ChainWriter) PushSlow() bool {
	w.commit()
	buf := chain.Alloc(chainWriterReserve)
	w.buf = buf
	w.dest.AppendPooled(buf)
	w.SetWindow(buf, 0, len(buf), w.Pos())
	return true
}

// commit trims the unused tail of the currently installed block back
// off the Chain, leaving the Chain's length equal to Pos().
func (w *ChainWriter) commit() {
	if w.buf == nil {
		return
	}
	unused := w.Available()
	if unused > 0 {
		w.dest.RemoveSuffix(int64(unused))
	}
	w.buf = nil
}

// Write implements stream.Writer.
func (w *ChainWriter) Write(src []byte) bool {
	if len(src) == 0 {
		return true
	}
	if len(src) > w.Available() {
		return w.WriteSlow(src)
	}
	n := copy(w.Buffered(), src)
	w.Advance(n)
	return true
}

// WriteSlow bypasses the reserved buffer for a large payload.
func (w *ChainWriter) WriteSlow(src []byte) bool {
	w.commit()
	w.dest.AppendCopy(src)
	w.SetWindow(nil, 0, 0, w.Pos()+uint64(len(src)))
	return true
}

// WriteOwned appends src directly, transferring ownership.
func (w *ChainWriter) WriteOwned(src []byte) bool {
	w.commit()
	w.dest.AppendOwned(src)
	w.SetWindow(nil, 0, 0, w.Pos()+uint64(len(src)))
	return true
}

// Flush implements stream.Writer.
func (w *ChainWriter) Flush(stream.FlushKind) bool {
	w.commit()
	w.SetWindow(nil, 0, 0, w.Pos())
	return true
}

// Close implements stream.Writer.
func (w *ChainWriter) Close() error {
	w.commit()
	return nil
}

var _ stream.Writer = (*ChainWriter)(nil)

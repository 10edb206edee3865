// Package backward implements ChainBackwardWriter: a writer that grows
// a chain.Chain at its *front*. Each Write call's bytes land before
// every previously written call's bytes, while the bytes within one
// call keep their own order — the shape a tail-first serializer (e.g.
// one that computes a varint length prefix only after encoding the
// payload it prefixes) needs.
package backward

import (
	"github.com/quillhq/streamio/chain"
	"github.com/quillhq/streamio/internal/debugassert"
	"github.com/quillhq/streamio/stream"
)

// minReserve is the smallest prepend buffer PushSlow requests; small
// enough that a byte-at-a-time caller doesn't thrash the allocator, but
// resyncing this often is cheap relative to WriteSlow's bypass path.
const minReserve = 4096

// ChainBackwardWriter is a stream.BackwardWriter over a chain.Chain.
type ChainBackwardWriter struct {
	stream.BackwardCursor
	dest   *chain.Chain
	closed bool
}

// New returns a ChainBackwardWriter prepending into dest.
func New(dest *chain.Chain) *ChainBackwardWriter {
	w := &ChainBackwardWriter{dest: dest}
	w.BackwardCursor = stream.NewBackwardCursor()
	w.syncPos()
	return w
}

// syncPos re-derives BackwardCursor's startPos bookkeeping from the
// rope's current length, since an empty reserved window has start ==
// cursor == limit == 0 and startPos must equal dest.Len().
func (w *ChainBackwardWriter) syncPos() {
	w.SetWindow(nil, 0, 0, 0, uint64(w.dest.Len()))
}

// checkExternalChange is the external-change-detection assertion: a
// caller mutating the rope behind this writer's back is undefined
// behavior, but it must fire loudly in debug builds rather than
// silently corrupt state.
func (w *ChainBackwardWriter) checkExternalChange() {
	debugassert.Invariant(w.LimitPos() == uint64(w.dest.Len()), "ChainBackwardWriter: backing chain mutated externally")
}

// Push implements stream.Writer.
func (w *ChainBackwardWriter) Push() bool {
	if w.Available() > 0 {
		return true
	}
	if !w.Healthy() {
		return false
	}
	return w.PushSlow()
}

// PushSlow commits whatever has been written into the current reserved
// window back to the rope (it's already there, physically; this just
// advances startPos), then requests a fresh prepend buffer.
func (w *ChainBackwardWriter) PushSlow() bool {
	debugassert.Precondition(w.Available() == 0, "ChainBackwardWriter.PushSlow requires available() == 0")
	w.checkExternalChange()

	if stream.AddOverflows(w.Pos(), 1) {
		return w.Fail(stream.ErrOverflowMessage)
	}

	buf := chain.Alloc(minReserve)
	w.dest.PrependPooled(buf)
	w.SetWindow(buf, len(buf), len(buf), 0, w.Pos())
	return true
}

// Write implements stream.Writer. Bytes land at the high end (nearest
// cursor) of the not-yet-written space and cursor retreats past them,
// so a later call's bytes end up at a lower index than an earlier
// call's — read first once the window's slack is trimmed away, giving
// each Write call's bytes priority over every call before it.
func (w *ChainBackwardWriter) Write(src []byte) bool {
	n := len(src)
	if n > w.Available() {
		return w.WriteSlow(src)
	}
	c := w.CursorIndex()
	copy(w.Window()[c-n:c], src)
	w.Retreat(n)
	return true
}

// WriteSlow bypasses the reserved buffer for a large payload: syncs
// (dropping the unused portion of the current reservation) and
// prepends src directly, copying it into a fresh block.
func (w *ChainBackwardWriter) WriteSlow(src []byte) bool {
	debugassert.Precondition(uint64(len(src)) > uint64(w.Available()), "ChainBackwardWriter.WriteSlow requires len(src) > available()")
	w.checkExternalChange()
	if stream.AddOverflows(w.Pos(), uint64(len(src))) {
		return w.Fail(stream.ErrOverflowMessage)
	}
	w.syncUnusedPrefix()
	w.dest.PrependCopy(src)
	w.SetWindow(nil, 0, 0, 0, w.Pos()+uint64(len(src)))
	return true
}

// WriteOwned prepends s directly, transferring ownership: no copy
// occurs. s must not be referenced by the caller afterwards.
func (w *ChainBackwardWriter) WriteOwned(s []byte) bool {
	w.checkExternalChange()
	if stream.AddOverflows(w.Pos(), uint64(len(s))) {
		return w.Fail(stream.ErrOverflowMessage)
	}
	w.syncUnusedPrefix()
	w.dest.PrependOwned(s)
	w.SetWindow(nil, 0, 0, 0, w.Pos()+uint64(len(s)))
	return true
}

// WriteChain prepends a copy of src's contents.
func (w *ChainBackwardWriter) WriteChain(src *chain.Chain) bool {
	w.checkExternalChange()
	n := src.Len()
	if stream.AddOverflows(w.Pos(), uint64(n)) {
		return w.Fail(stream.ErrOverflowMessage)
	}
	w.syncUnusedPrefix()
	w.dest.PrependChainCopy(src)
	w.SetWindow(nil, 0, 0, 0, w.Pos()+uint64(n))
	return true
}

// WriteOwnedChain splices src's blocks directly into the front of the
// destination rope, transferring ownership of every block: no
// byte-level copy is performed regardless of src's size. src is left
// empty.
func (w *ChainBackwardWriter) WriteOwnedChain(src *chain.Chain) bool {
	w.checkExternalChange()
	n := src.Len()
	if stream.AddOverflows(w.Pos(), uint64(n)) {
		return w.Fail(stream.ErrOverflowMessage)
	}
	w.syncUnusedPrefix()
	w.dest.PrependChain(src)
	w.SetWindow(nil, 0, 0, 0, w.Pos()+uint64(n))
	return true
}

// syncUnusedPrefix drops the not-yet-written remainder of the current
// reservation back to the rope (RemovePrefix of [limit, cursor)), so
// the rope's length again equals pos before a bypass prepend runs.
func (w *ChainBackwardWriter) syncUnusedPrefix() {
	if unused := w.Available(); unused > 0 {
		w.dest.RemovePrefix(int64(unused))
	}
}

// Flush implements stream.Writer: there is no further downstream to
// push into, so flushing just syncs the reservation.
func (w *ChainBackwardWriter) Flush(stream.FlushKind) bool {
	w.checkExternalChange()
	w.syncUnusedPrefix()
	w.SetWindow(nil, 0, 0, 0, w.Pos())
	return true
}

// Truncate implements stream.BackwardWriter. newSize must not exceed
// Pos(); shrinking within the currently reserved window just moves the
// cursor, since the whole reservation is already physically present in
// the rope. Shrinking past the window's base commits by trimming the
// rope's own front.
func (w *ChainBackwardWriter) Truncate(newSize uint64) bool {
	if newSize > w.Pos() {
		return false
	}
	base := w.WindowBasePos()
	if newSize >= base {
		w.Advance(int(w.Pos() - newSize))
		return true
	}
	w.dest.RemovePrefix(int64(w.LimitPos() - newSize))
	w.SetWindow(nil, 0, 0, 0, newSize)
	return true
}

// Close implements stream.Writer: commits any pending unused prefix
// back to the rope, leaving the rope's length equal to Pos().
func (w *ChainBackwardWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.syncUnusedPrefix()
	if err := w.BackwardCursor.Err(); err != nil {
		return err
	}
	return nil
}

var _ stream.BackwardWriter = (*ChainBackwardWriter)(nil)

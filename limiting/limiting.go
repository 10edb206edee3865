// Package limiting implements LimitingReader, a stream.Reader that
// composes over another Reader and caps the absolute position a caller
// can reach through it, without owning any buffer of its own: it plugs
// directly into layer 2, sharing its source's buffer window.
package limiting

import (
	"github.com/quillhq/streamio/internal/debugassert"
	"github.com/quillhq/streamio/ownership"
	"github.com/quillhq/streamio/stream"
)

// LimitingReader enforces sizeLimit as a ceiling on its source's
// absolute position. Running past the limit is not a failure: Pull
// simply returns false once pos == sizeLimit, leaving the reader
// healthy.
type LimitingReader struct {
	down      ownership.Downstream[stream.Reader]
	source    stream.Reader
	sizeLimit uint64
}

// New wraps down, capping it at sizeLimit.
func New(down ownership.Downstream[stream.Reader], sizeLimit uint64) *LimitingReader {
	return &LimitingReader{down: down, source: down.Get(), sizeLimit: sizeLimit}
}

// Pull implements stream.Reader's fast-checked entry point; the actual
// fast path (checking the source's own available bytes) lives in the
// source itself, since LimitingReader has no buffer to check — every
// call goes through PullSlow once the source's fast path is exhausted.
func (r *LimitingReader) Pull() bool {
	if r.source.Pos() >= r.sizeLimit {
		return false
	}
	return r.PullSlow()
}

// PullSlow refills from the source, refusing once the position has
// reached sizeLimit.
func (r *LimitingReader) PullSlow() bool {
	debugassert.Precondition(r.source.Pos() <= r.sizeLimit, "LimitingReader: source advanced past size_limit")
	if r.source.Pos() >= r.sizeLimit {
		return false
	}
	return r.source.Pull()
}

// Read implements stream.Reader: reads min(len(dst), sizeLimit-pos)
// bytes, returning false iff fewer than len(dst) were delivered because
// the limit was reached (the source itself failing is still a failure
// state, distinguished via Err).
func (r *LimitingReader) Read(dst []byte) bool {
	remaining := r.sizeLimit - r.source.Pos()
	if uint64(len(dst)) <= remaining {
		return r.source.Read(dst)
	}
	return r.ReadSlow(dst, uint64(len(dst)))
}

// ReadSlow is the truncating slow path: reads at most sizeLimit-pos
// bytes into dst[:that], returns false since n was not fully satisfied.
func (r *LimitingReader) ReadSlow(dst []byte, n uint64) bool {
	remaining := r.sizeLimit - r.source.Pos()
	debugassert.Precondition(n > remaining, "LimitingReader.ReadSlow requires n > remaining")
	if remaining == 0 {
		return false
	}
	r.source.Read(dst[:remaining])
	return false
}

// CopyTo implements stream.Reader with the same truncation rule as Read.
func (r *LimitingReader) CopyTo(w stream.Writer, n uint64) bool {
	remaining := r.sizeLimit - r.source.Pos()
	if n <= remaining {
		return r.source.CopyTo(w, n)
	}
	return r.CopyToSlow(w, n)
}

// CopyToSlow truncates n to the remainder and copies that much, still
// returning false since the requested n wasn't fully satisfied.
func (r *LimitingReader) CopyToSlow(w stream.Writer, n uint64) bool {
	remaining := r.sizeLimit - r.source.Pos()
	debugassert.Precondition(n > remaining, "LimitingReader.CopyToSlow requires n > remaining")
	if remaining > 0 {
		r.source.CopyTo(w, remaining)
	}
	return false
}

// CopyToBackward implements stream.Reader. A BackwardWriter can't
// accept a partial copy meaningfully, so once n exceeds the remainder
// the source is seeked to sizeLimit and nothing is emitted.
func (r *LimitingReader) CopyToBackward(w stream.BackwardWriter, n uint64) bool {
	remaining := r.sizeLimit - r.source.Pos()
	if n <= remaining {
		return r.source.CopyToBackward(w, n)
	}
	return r.CopyToBackwardSlow(w, n)
}

// CopyToBackwardSlow implements the Open Question's resolution: seek
// the source to sizeLimit and return false without emitting anything.
func (r *LimitingReader) CopyToBackwardSlow(w stream.BackwardWriter, n uint64) bool {
	remaining := r.sizeLimit - r.source.Pos()
	debugassert.Precondition(n > remaining, "LimitingReader.CopyToBackwardSlow requires n > remaining")
	r.source.Seek(r.sizeLimit)
	return false
}

// Seek implements stream.Reader, clamping the target to sizeLimit.
// Returns false (leaving pos at sizeLimit) when the caller's requested
// position exceeded the limit, even though the underlying seek itself
// succeeded.
func (r *LimitingReader) Seek(pos uint64) bool {
	return r.SeekSlow(pos)
}

// SeekSlow seeks the source to min(pos, sizeLimit); returns true iff
// pos was within the limit and the source seek succeeded.
func (r *LimitingReader) SeekSlow(pos uint64) bool {
	target := pos
	withinLimit := pos <= r.sizeLimit
	if !withinLimit {
		target = r.sizeLimit
	}
	if !r.source.Seek(target) {
		return false
	}
	return withinLimit
}

// SupportsRandomAccess implements stream.Reader.
func (r *LimitingReader) SupportsRandomAccess() bool { return r.source.SupportsRandomAccess() }

// Size implements stream.Reader: the source's size clamped to sizeLimit.
func (r *LimitingReader) Size() (uint64, bool) {
	size, ok := r.source.Size()
	if !ok {
		return 0, false
	}
	if size > r.sizeLimit {
		size = r.sizeLimit
	}
	return size, true
}

// Pos implements stream.Reader.
func (r *LimitingReader) Pos() uint64 { return r.source.Pos() }

// Healthy implements stream.Reader.
func (r *LimitingReader) Healthy() bool { return r.source.Healthy() }

// Err implements stream.Reader.
func (r *LimitingReader) Err() error { return r.source.Err() }

// Close implements stream.Reader: never closes a borrowed source, and
// closes an owned one, per the Downstream capability it was built with.
func (r *LimitingReader) Close() error { return r.down.Close() }

var _ stream.Reader = (*LimitingReader)(nil)

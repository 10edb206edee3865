// Package codec adapts io.Writer-shaped streaming compressors
// (klauspost/compress's zstd/zlib, andybalholm/brotli) into the
// lazily-initialized create/compress/flush/end state machine this
// module's compressing writers drive, and supplies the literal error
// vocabulary each one reports.
package codec

import (
	"fmt"
	"io"

	"github.com/quillhq/streamio/stream"
)

// StreamEncoder is the shape every codec library used here already
// exposes: write compressed bytes to an underlying io.Writer, flush
// pending output without ending the stream, and end the stream on
// Close.
type StreamEncoder interface {
	io.WriteCloser
	Flush() error
}

// Messages is the literal, library-independent error vocabulary a
// codec writer reports — named after the call being modeled, not the
// concrete library that implements it.
type Messages struct {
	Create   string
	Init     string
	Compress string
	Flush    string
	End      string
}

type state int

const (
	stateUncreated state = iota
	stateInitialized
	stateEnded
)

// sink is the io.Writer the encoder writes compressed bytes into: each
// Write loops on the downstream stream.Writer until every byte lands,
// satisfying the "codec output pressure" requirement by delegating to
// the downstream Writer's own Push-driven Write.
type sink struct {
	w stream.Writer
}

func (s *sink) Write(p []byte) (int, error) {
	if !s.w.Write(p) {
		if err := s.w.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrShortWrite
	}
	return len(p), nil
}

// bufferedSource is the optional fast path a stream.Reader's
// concrete type may expose (every type built on stream.Cursor does, by
// promotion): direct access to its already-pulled buffer, letting
// Source avoid a byte-at-a-time Read/Pull round trip per call.
type bufferedSource interface {
	Buffered() []byte
	Advance(int)
}

// Source adapts a stream.Reader into an io.Reader for codec libraries
// that expect one. stream.Reader.Read requires an exact-length fill,
// which doesn't tell Source how many bytes landed on a short read, so
// the generic fallback reads one byte at a time; concrete readers
// exposing bufferedSource get a direct, allocation-free fast path.
type Source struct {
	r stream.Reader
}

// NewSource wraps r.
func NewSource(r stream.Reader) *Source { return &Source{r: r} }

func (s *Source) Read(p []byte) (int, error) {
	if bs, ok := s.r.(bufferedSource); ok {
		if !s.r.Pull() {
			if err := s.r.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		n := copy(p, bs.Buffered())
		bs.Advance(n)
		return n, nil
	}

	n := 0
	for n < len(p) {
		if !s.r.Pull() {
			if err := s.r.Err(); err != nil {
				return n, err
			}
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		}
		if !s.r.Read(p[n : n+1]) {
			if err := s.r.Err(); err != nil {
				return n, err
			}
			return n, nil
		}
		n++
	}
	return n, nil
}

// Writer drives one codec's create/compress/flush/end lifecycle,
// reporting failures through Messages. It implements the
// stream/bufio.RawWriter hook contract (WriteRaw/CloseRaw), plus
// FlushRaw for stream/bufio.BufferedWriter's FlushFromProcess path.
type Writer struct {
	newEncoder func(io.Writer, Options) (StreamEncoder, error)
	opts       Options
	msgs       Messages
	sink       *sink
	enc        StreamEncoder
	state      state
}

// Options configures the underlying codec. Not every field applies to
// every codec; unused fields are ignored by that codec's constructor.
type Options struct {
	Level     int
	WindowLog int
	SizeHint  int64
	HaveHint  bool
}

// NewWriter returns a Writer that lazily builds its encoder via
// newEncoder over downstream on first use.
func NewWriter(downstream stream.Writer, newEncoder func(io.Writer, Options) (StreamEncoder, error), opts Options, msgs Messages) *Writer {
	return &Writer{newEncoder: newEncoder, opts: opts, msgs: msgs, sink: &sink{w: downstream}}
}

func (w *Writer) ensureInitialized() error {
	if w.state != stateUncreated {
		return nil
	}
	enc, err := w.newEncoder(w.sink, w.opts)
	if err != nil {
		return fmt.Errorf("%s: %w", w.msgs.Init, err)
	}
	w.enc = enc
	w.state = stateInitialized
	return nil
}

// WriteRaw compresses p and forwards the output to the downstream
// writer, exerting output pressure via sink.Write until every
// compressed byte has landed.
func (w *Writer) WriteRaw(p []byte) (int, error) {
	if err := w.ensureInitialized(); err != nil {
		return 0, err
	}
	n, err := w.enc.Write(p)
	if err != nil {
		return n, fmt.Errorf("%s: %w", w.msgs.Compress, err)
	}
	return n, nil
}

// FlushRaw flushes pending codec output without ending the stream.
func (w *Writer) FlushRaw() error {
	if w.state != stateInitialized {
		return nil
	}
	if err := w.enc.Flush(); err != nil {
		return fmt.Errorf("%s: %w", w.msgs.Flush, err)
	}
	return nil
}

// CloseRaw ends the codec stream, idempotent once ended or never
// created (lazy init means a writer that never received a byte never
// created a codec context at all).
func (w *Writer) CloseRaw() error {
	if w.state != stateInitialized {
		return nil
	}
	w.state = stateEnded
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("%s: %w", w.msgs.End, err)
	}
	return nil
}

// Package zlibio implements ZlibWriter and ZlibReader, the streaming
// zlib compressor/decompressor pair, same shape as zstdio, backed by
// github.com/klauspost/compress/zlib. Unlike zstdio/brotlio, it
// defaults to an owned downstream, mirroring compress/zlib's own
// io.WriteCloser return type.
package zlibio

import (
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/quillhq/streamio/internal/codec"
	"github.com/quillhq/streamio/internal/xlog"
	"github.com/quillhq/streamio/ownership"
	"github.com/quillhq/streamio/stream"
	"github.com/quillhq/streamio/stream/bufio"
)

const (
	ErrCreateCStream = "deflateInit() failed"
	ErrInitCStream   = "deflateSetDictionary() failed"
	ErrCompress      = "deflate() failed"
	ErrFlush         = "deflate(Z_SYNC_FLUSH) failed"
	ErrEnd           = "deflate(Z_FINISH) failed"
)

var messages = codec.Messages{
	Create:   ErrCreateCStream,
	Init:     ErrInitCStream,
	Compress: ErrCompress,
	Flush:    ErrFlush,
	End:      ErrEnd,
}

// Option configures a ZlibWriter.
type Option func(*codec.Options)

// WithLevel sets the compression level, in compress/flate's -2..9 scale.
func WithLevel(level int) Option {
	return func(o *codec.Options) { o.Level = level }
}

func newEncoder(w io.Writer, opts codec.Options) (codec.StreamEncoder, error) {
	level := zlib.DefaultCompression
	if opts.Level != 0 {
		level = opts.Level
	}
	return zlib.NewWriterLevel(w, level)
}

// ZlibWriter compresses every byte written and forwards it to a
// downstream Writer.
type ZlibWriter struct {
	*bufio.BufferedWriter
	down  ownership.Downstream[stream.Writer]
	codec *codec.Writer
}

// New wraps down, taking ownership of it: closing the returned writer
// closes down too, mirroring compress/zlib's own io.WriteCloser shape.
func New(down stream.Writer, opts ...Option) *ZlibWriter {
	return newWriter(ownership.Owned(down, func(w stream.Writer) error { return w.Close() }), opts...)
}

// NewBorrowed wraps down without taking ownership of it.
func NewBorrowed(down stream.Writer, opts ...Option) *ZlibWriter {
	return newWriter(ownership.Borrowed(down), opts...)
}

func newWriter(down ownership.Downstream[stream.Writer], opts ...Option) *ZlibWriter {
	var o codec.Options
	for _, opt := range opts {
		opt(&o)
	}
	w := &ZlibWriter{down: down}
	w.codec = codec.NewWriter(down.Get(), newEncoder, o, messages)
	w.BufferedWriter = bufio.NewBufferedWriter(w, bufio.DefaultBufferSize)
	return w
}

// WriteRaw implements bufio.RawWriter.
func (w *ZlibWriter) WriteRaw(p []byte) (int, error) {
	if stream.AddOverflows(w.Pos(), uint64(len(p))) {
		return 0, errOverflow{}
	}
	return w.codec.WriteRaw(p)
}

// FlushRaw implements the optional hook stream/bufio.BufferedWriter
// looks for on FlushFromProcess.
func (w *ZlibWriter) FlushRaw() error {
	if err := w.codec.FlushRaw(); err != nil {
		return err
	}
	if !w.down.Get().Flush(stream.FlushFromProcess) {
		return w.down.Get().Err()
	}
	return nil
}

// CloseRaw implements bufio.RawWriter.
func (w *ZlibWriter) CloseRaw() error {
	err := w.codec.CloseRaw()
	if cerr := w.down.Close(); cerr != nil {
		if err == nil {
			err = cerr
		} else {
			xlog.Warningf("zlibio: downstream close failed after stream already finalized: %v", cerr)
		}
	}
	return err
}

type errOverflow struct{}

func (errOverflow) Error() string { return stream.ErrOverflowMessage }

var _ stream.Writer = (*ZlibWriter)(nil)

// ZlibReader decompresses a zlib stream pulled from a downstream
// Reader.
type ZlibReader struct {
	*bufio.BufferedReader
	down ownership.Downstream[stream.Reader]
	dec  io.ReadCloser
}

// NewReader wraps down, taking ownership of it.
func NewReader(down stream.Reader) *ZlibReader {
	return newReader(ownership.Owned(down, func(r stream.Reader) error { return r.Close() }))
}

// NewReaderBorrowed wraps down without taking ownership of it.
func NewReaderBorrowed(down stream.Reader) *ZlibReader {
	return newReader(ownership.Borrowed(down))
}

func newReader(down ownership.Downstream[stream.Reader]) *ZlibReader {
	r := &ZlibReader{down: down}
	r.BufferedReader = bufio.NewBufferedReader(r, bufio.DefaultBufferSize)
	return r
}

func (r *ZlibReader) ensureDecoder() error {
	if r.dec != nil {
		return nil
	}
	dec, err := zlib.NewReader(codec.NewSource(r.down.Get()))
	if err != nil {
		return err
	}
	r.dec = dec
	return nil
}

// ReadRaw implements bufio.RawReader.
func (r *ZlibReader) ReadRaw(p []byte) (int, error) {
	if err := r.ensureDecoder(); err != nil {
		return 0, err
	}
	return r.dec.Read(p)
}

// CloseRaw implements bufio.RawReader.
func (r *ZlibReader) CloseRaw() error {
	var err error
	if r.dec != nil {
		err = r.dec.Close()
	}
	if cerr := r.down.Close(); cerr != nil {
		if err == nil {
			err = cerr
		} else {
			xlog.Warningf("zlibio: downstream close failed after stream already finalized: %v", cerr)
		}
	}
	return err
}

var _ stream.Reader = (*ZlibReader)(nil)

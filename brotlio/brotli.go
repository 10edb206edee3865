// Package brotlio implements BrotliWriter and BrotliReader, the
// streaming Brotli compressor/decompressor pair, same state machine
// and ownership model as zstdio, backed by
// github.com/andybalholm/brotli.
package brotlio

import (
	"io"

	"github.com/andybalholm/brotli"

	"github.com/quillhq/streamio/internal/codec"
	"github.com/quillhq/streamio/internal/xlog"
	"github.com/quillhq/streamio/ownership"
	"github.com/quillhq/streamio/stream"
	"github.com/quillhq/streamio/stream/bufio"
)

const (
	ErrCreateCStream = "BrotliEncoderCreateInstance() failed"
	ErrInitCStream   = "BrotliEncoderSetParameter() failed"
	ErrCompress      = "BrotliEncoderCompressStream() failed"
	ErrFlush         = "BrotliEncoderFlush() failed"
	ErrEnd           = "BrotliEncoderFinish() failed"
)

var messages = codec.Messages{
	Create:   ErrCreateCStream,
	Init:     ErrInitCStream,
	Compress: ErrCompress,
	Flush:    ErrFlush,
	End:      ErrEnd,
}

// Option configures a BrotliWriter.
type Option func(*codec.Options)

// WithLevel sets the quality level, 0..11. Without it the encoder is
// built with Quality left at 0.
func WithLevel(level int) Option {
	return func(o *codec.Options) { o.Level = level }
}

// WithWindowLog sets the LGWIN window size parameter.
func WithWindowLog(log int) Option {
	return func(o *codec.Options) { o.WindowLog = log }
}

// WithSizeHint records size in the writer's options. The Brotli encoder
// is not given it: newEncoder sets only quality and window size.
func WithSizeHint(size int64) Option {
	return func(o *codec.Options) { o.SizeHint = size; o.HaveHint = true }
}

func newEncoder(w io.Writer, opts codec.Options) (codec.StreamEncoder, error) {
	bopts := brotli.WriterOptions{}
	if opts.Level != 0 {
		bopts.Quality = opts.Level
	}
	if opts.WindowLog > 0 {
		bopts.LGWin = opts.WindowLog
	}
	return brotli.NewWriterOptions(w, bopts), nil
}

// BrotliWriter compresses every byte written and forwards it to a
// downstream Writer. Like ZstdWriter, it takes an explicit
// ownership.Downstream and has no default ownership mode.
type BrotliWriter struct {
	*bufio.BufferedWriter
	down  ownership.Downstream[stream.Writer]
	codec *codec.Writer
}

// New wraps down, compressing everything written through the returned
// writer before forwarding it.
func New(down ownership.Downstream[stream.Writer], opts ...Option) *BrotliWriter {
	var o codec.Options
	for _, opt := range opts {
		opt(&o)
	}
	w := &BrotliWriter{down: down}
	w.codec = codec.NewWriter(down.Get(), newEncoder, o, messages)
	w.BufferedWriter = bufio.NewBufferedWriter(w, bufio.DefaultBufferSize)
	return w
}

// WriteRaw implements bufio.RawWriter.
func (w *BrotliWriter) WriteRaw(p []byte) (int, error) {
	if stream.AddOverflows(w.Pos(), uint64(len(p))) {
		return 0, errOverflow{}
	}
	return w.codec.WriteRaw(p)
}

// FlushRaw implements the optional hook stream/bufio.BufferedWriter
// looks for on FlushFromProcess.
func (w *BrotliWriter) FlushRaw() error {
	if err := w.codec.FlushRaw(); err != nil {
		return err
	}
	if !w.down.Get().Flush(stream.FlushFromProcess) {
		return w.down.Get().Err()
	}
	return nil
}

// CloseRaw implements bufio.RawWriter.
func (w *BrotliWriter) CloseRaw() error {
	err := w.codec.CloseRaw()
	if cerr := w.down.Close(); cerr != nil {
		if err == nil {
			err = cerr
		} else {
			xlog.Warningf("brotlio: downstream close failed after stream already finalized: %v", cerr)
		}
	}
	return err
}

type errOverflow struct{}

func (errOverflow) Error() string { return stream.ErrOverflowMessage }

var _ stream.Writer = (*BrotliWriter)(nil)

// BrotliReader decompresses a Brotli stream pulled from a downstream
// Reader.
type BrotliReader struct {
	*bufio.BufferedReader
	down ownership.Downstream[stream.Reader]
	dec  *brotli.Reader
}

// NewReader wraps down, decompressing everything read through the
// returned reader.
func NewReader(down ownership.Downstream[stream.Reader]) *BrotliReader {
	r := &BrotliReader{down: down}
	r.BufferedReader = bufio.NewBufferedReader(r, bufio.DefaultBufferSize)
	return r
}

func (r *BrotliReader) ensureDecoder() {
	if r.dec == nil {
		r.dec = brotli.NewReader(codec.NewSource(r.down.Get()))
	}
}

// ReadRaw implements bufio.RawReader.
func (r *BrotliReader) ReadRaw(p []byte) (int, error) {
	r.ensureDecoder()
	return r.dec.Read(p)
}

// CloseRaw implements bufio.RawReader.
func (r *BrotliReader) CloseRaw() error {
	return r.down.Close()
}

var _ stream.Reader = (*BrotliReader)(nil)

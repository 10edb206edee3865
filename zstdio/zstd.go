// Package zstdio implements ZstdWriter and ZstdReader, the streaming
// Zstandard compressor/decompressor pair spec.md §4.4 names, backed by
// github.com/klauspost/compress/zstd.
package zstdio

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/quillhq/streamio/internal/codec"
	"github.com/quillhq/streamio/internal/xlog"
	"github.com/quillhq/streamio/ownership"
	"github.com/quillhq/streamio/stream"
	"github.com/quillhq/streamio/stream/bufio"
)

// Error message vocabulary, literal per spec.md §4.4, independent of
// which concrete library call actually produced the failure: these
// name the logical libzstd streaming call being modeled.
const (
	ErrCreateCStream = "ZSTD_createCStream() failed"
	ErrInitCStream   = "ZSTD_initCStream_advanced() failed"
	ErrCompress      = "ZSTD_compressStream() failed"
	ErrFlush         = "ZSTD_flushStream() failed"
	ErrEnd           = "ZSTD_endStream() failed"
)

var messages = codec.Messages{
	Create:   ErrCreateCStream,
	Init:     ErrInitCStream,
	Compress: ErrCompress,
	Flush:    ErrFlush,
	End:      ErrEnd,
}

// Option configures a ZstdWriter.
type Option func(*codec.Options)

// WithLevel sets the compression level, in the library's own 1..22
// scale. The default is roughly level 3.
func WithLevel(level int) Option {
	return func(o *codec.Options) { o.Level = level }
}

// WithWindowLog sets window_log; any value <= 0 (-1, or the 0 left when
// the option is absent) lets the codec choose.
func WithWindowLog(log int) Option {
	return func(o *codec.Options) { o.WindowLog = log }
}

// WithSizeHint passes size as pledgedSrcSize to the codec.
func WithSizeHint(size int64) Option {
	return func(o *codec.Options) { o.SizeHint = size; o.HaveHint = true }
}

func newEncoder(w io.Writer, opts codec.Options) (codec.StreamEncoder, error) {
	zopts := []zstd.EOption{}
	if opts.Level != 0 {
		zopts = append(zopts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(opts.Level)))
	}
	if opts.WindowLog > 0 {
		zopts = append(zopts, zstd.WithWindowSize(1<<opts.WindowLog))
	}
	enc, err := zstd.NewWriter(w, zopts...)
	if err != nil {
		return nil, err
	}
	if opts.HaveHint {
		enc.ResetContentSize(w, opts.SizeHint)
	}
	return enc, nil
}

// ZstdWriter compresses every byte written and forwards it to a
// downstream Writer. The codec context is created lazily, on the
// first byte of actual data, so construction itself can never fail.
type ZstdWriter struct {
	*bufio.BufferedWriter
	down  ownership.Downstream[stream.Writer]
	codec *codec.Writer
}

// New wraps down, compressing everything written through the returned
// writer before forwarding it.
func New(down ownership.Downstream[stream.Writer], opts ...Option) *ZstdWriter {
	var o codec.Options
	for _, opt := range opts {
		opt(&o)
	}
	w := &ZstdWriter{down: down}
	w.codec = codec.NewWriter(down.Get(), newEncoder, o, messages)
	w.BufferedWriter = bufio.NewBufferedWriter(w, bufio.DefaultBufferSize)
	return w
}

// WriteRaw implements bufio.RawWriter: overflow-checks, then hands the
// chunk to the codec, which exerts output pressure on the downstream
// writer until every compressed byte lands.
func (w *ZstdWriter) WriteRaw(p []byte) (int, error) {
	if stream.AddOverflows(w.Pos(), uint64(len(p))) {
		return 0, errOverflow{}
	}
	return w.codec.WriteRaw(p)
}

// FlushRaw implements the optional hook stream/bufio.BufferedWriter
// looks for on FlushFromProcess: flushes the codec, then the
// downstream writer.
func (w *ZstdWriter) FlushRaw() error {
	if err := w.codec.FlushRaw(); err != nil {
		return err
	}
	if !w.down.Get().Flush(stream.FlushFromProcess) {
		return w.down.Get().Err()
	}
	return nil
}

// CloseRaw implements bufio.RawWriter: ends the codec stream, then
// closes the downstream writer per its ownership mode.
func (w *ZstdWriter) CloseRaw() error {
	err := w.codec.CloseRaw()
	if cerr := w.down.Close(); cerr != nil {
		if err == nil {
			err = cerr
		} else {
			xlog.Warningf("zstdio: downstream close failed after stream already finalized: %v", cerr)
		}
	}
	return err
}

type errOverflow struct{}

func (errOverflow) Error() string { return stream.ErrOverflowMessage }

var _ stream.Writer = (*ZstdWriter)(nil)

package zstdio

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/quillhq/streamio/internal/codec"
	"github.com/quillhq/streamio/ownership"
	"github.com/quillhq/streamio/stream"
	"github.com/quillhq/streamio/stream/bufio"
)

// ZstdReader decompresses a Zstandard stream pulled from a downstream
// Reader, built the same way ZstdWriter is: a bufio.BufferedReader
// whose ReadRaw hook decompresses instead of reading raw bytes.
type ZstdReader struct {
	*bufio.BufferedReader
	down ownership.Downstream[stream.Reader]
	dec  *zstd.Decoder
}

// NewReader wraps down, decompressing everything read through the
// returned reader.
func NewReader(down ownership.Downstream[stream.Reader]) *ZstdReader {
	r := &ZstdReader{down: down}
	r.BufferedReader = bufio.NewBufferedReader(r, bufio.DefaultBufferSize)
	return r
}

func (r *ZstdReader) ensureDecoder() error {
	if r.dec != nil {
		return nil
	}
	dec, err := zstd.NewReader(codec.NewSource(r.down.Get()))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrCreateCStream, err)
	}
	r.dec = dec
	return nil
}

// ReadRaw implements bufio.RawReader.
func (r *ZstdReader) ReadRaw(p []byte) (int, error) {
	if err := r.ensureDecoder(); err != nil {
		return 0, err
	}
	return r.dec.Read(p)
}

// CloseRaw implements bufio.RawReader: releases the decoder context,
// then closes the downstream reader per its ownership mode.
func (r *ZstdReader) CloseRaw() error {
	if r.dec != nil {
		r.dec.Close()
	}
	return r.down.Close()
}

var _ stream.Reader = (*ZstdReader)(nil)

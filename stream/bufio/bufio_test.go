package bufio

import (
	"bytes"
	"io"
	"testing"

	"github.com/quillhq/streamio/stream"
	"github.com/stretchr/testify/require"
)

type bytesRawReader struct {
	r      *bytes.Reader
	closed bool
}

func (b *bytesRawReader) ReadRaw(p []byte) (int, error) { return b.r.Read(p) }
func (b *bytesRawReader) CloseRaw() error               { b.closed = true; return nil }

type bytesRawWriter struct {
	buf    bytes.Buffer
	closed bool
}

func (b *bytesRawWriter) WriteRaw(p []byte) (int, error) { return b.buf.Write(p) }
func (b *bytesRawWriter) CloseRaw() error                { b.closed = true; return nil }

func TestBufferedReaderReadsAcrossRefills(t *testing.T) {
	raw := &bytesRawReader{r: bytes.NewReader([]byte("hello world"))}
	r := NewBufferedReader(raw, 4)

	dst := make([]byte, 11)
	require.True(t, r.Read(dst))
	require.Equal(t, "hello world", string(dst))
	require.Equal(t, uint64(11), r.Pos())

	require.False(t, r.Pull())
	require.True(t, r.Healthy())
	require.NoError(t, r.Err())

	require.NoError(t, r.Close())
	require.True(t, raw.closed)
}

func TestBufferedReaderPropagatesFailure(t *testing.T) {
	r := NewBufferedReader(&failingRawReader{err: io.ErrClosedPipe}, 4)

	dst := make([]byte, 1)
	require.False(t, r.Read(dst))
	require.False(t, r.Healthy())
	require.ErrorIs(t, r.Err(), io.ErrClosedPipe)
}

type failingRawReader struct{ err error }

func (f *failingRawReader) ReadRaw(p []byte) (int, error) { return 0, f.err }
func (f *failingRawReader) CloseRaw() error               { return nil }

func TestBufferedWriterDrainsOnOverflow(t *testing.T) {
	raw := &bytesRawWriter{}
	w := NewBufferedWriter(raw, 4)

	require.True(t, w.Write([]byte("hello world")))
	require.True(t, w.Flush(stream.FlushFromObject))
	require.Equal(t, "hello world", raw.buf.String())

	require.NoError(t, w.Close())
	require.True(t, raw.closed)
}

func TestBufferedWriterFlushFromProcess(t *testing.T) {
	raw := &flushingRawWriter{}
	w := NewBufferedWriter(raw, 64)

	require.True(t, w.Write([]byte("abc")))
	require.True(t, w.Flush(FlushFromProcess))
	require.True(t, raw.flushed)
}

type flushingRawWriter struct {
	buf     bytes.Buffer
	flushed bool
}

func (f *flushingRawWriter) WriteRaw(p []byte) (int, error) { return f.buf.Write(p) }
func (f *flushingRawWriter) CloseRaw() error                { return nil }
func (f *flushingRawWriter) FlushRaw() error                { f.flushed = true; return nil }

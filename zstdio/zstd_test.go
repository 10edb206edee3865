package zstdio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillhq/streamio/memio"
	"github.com/quillhq/streamio/ownership"
	"github.com/quillhq/streamio/stream"
)

func TestRoundTripSmall(t *testing.T) {
	out := memio.NewBytesWriter(make([]byte, 256))
	w := New(ownership.Borrowed[stream.Writer](out))

	payload := []byte("abcabcabc")
	require.True(t, w.Write(payload))
	require.Equal(t, uint64(9), w.Pos())
	require.NoError(t, w.Close())

	r := NewReader(ownership.Borrowed[stream.Reader](memio.NewBytesReader(out.Written())))
	dst := make([]byte, len(payload))
	require.True(t, r.Read(dst))
	require.Equal(t, payload, dst)
	require.NoError(t, r.Close())
}

func TestRoundTripDownstreamPressure(t *testing.T) {
	var dest bytes.Buffer
	bw := newTinyWriter(&dest)
	w := New(ownership.Borrowed[stream.Writer](bw))

	payload := make([]byte, 1<<20)
	for i := range payload {
		payload[i] = byte(i * 7)
	}
	require.True(t, w.Write(payload))
	require.NoError(t, w.Close())
	require.True(t, bw.Flush(stream.FlushFromProcess))

	r := NewReader(ownership.Borrowed[stream.Reader](memio.NewBytesReader(dest.Bytes())))
	dst := make([]byte, len(payload))
	require.True(t, r.Read(dst))
	require.Equal(t, payload, dst)
}

// tinyWriter is a stream.Writer whose Push only ever frees one byte of
// room at a time, forcing the codec to exert output pressure across
// many small pushes rather than a single one.
type tinyWriter struct {
	stream.Cursor
	dest *bytes.Buffer
	buf  [1]byte
}

func newTinyWriter(dest *bytes.Buffer) *tinyWriter {
	w := &tinyWriter{dest: dest}
	w.Cursor = stream.NewCursor()
	w.SetWindow(w.buf[:], 0, 0, 0)
	return w
}

func (w *tinyWriter) Push() bool {
	if w.Available() > 0 {
		return true
	}
	if w.CursorIndex() > 0 {
		w.dest.Write(w.buf[:w.CursorIndex()])
	}
	w.SetWindow(w.buf[:], 0, 1, w.Pos())
	return true
}

func (w *tinyWriter) Write(src []byte) bool {
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

func (w *tinyWriter) Flush(stream.FlushKind) bool {
	if w.CursorIndex() > 0 {
		w.dest.Write(w.buf[:w.CursorIndex()])
		w.SetWindow(w.buf[:], 0, 0, w.Pos())
	}
	return true
}

func (w *tinyWriter) Close() error { return nil }

var _ stream.Writer = (*tinyWriter)(nil)

package limiting

import (
	"testing"

	"github.com/quillhq/streamio/ownership"
	"github.com/quillhq/streamio/stream"
	"github.com/stretchr/testify/require"
)

// fakeReader is a minimal, fully in-memory stream.Reader test double
// backed by a byte slice, with no buffering concerns of its own.
type fakeReader struct {
	data      []byte
	pos       int
	seekCalls []uint64
	healthy   bool
}

func newFakeReader(data []byte) *fakeReader {
	return &fakeReader{data: data, healthy: true}
}

func (f *fakeReader) Pull() bool { return f.pos < len(f.data) }
func (f *fakeReader) Read(dst []byte) bool {
	n := copy(dst, f.data[f.pos:])
	f.pos += n
	return n == len(dst)
}
func (f *fakeReader) CopyTo(w stream.Writer, n uint64) bool {
	buf := make([]byte, n)
	if !f.Read(buf) {
		return false
	}
	return w.Write(buf)
}
func (f *fakeReader) CopyToBackward(w stream.BackwardWriter, n uint64) bool {
	buf := make([]byte, n)
	if !f.Read(buf) {
		return false
	}
	return w.Write(buf)
}
func (f *fakeReader) Seek(pos uint64) bool {
	f.seekCalls = append(f.seekCalls, pos)
	if pos > uint64(len(f.data)) {
		return false
	}
	f.pos = int(pos)
	return true
}
func (f *fakeReader) SupportsRandomAccess() bool { return true }
func (f *fakeReader) Size() (uint64, bool)       { return uint64(len(f.data)), true }
func (f *fakeReader) Pos() uint64                { return uint64(f.pos) }
func (f *fakeReader) Healthy() bool              { return f.healthy }
func (f *fakeReader) Err() error                 { return nil }
func (f *fakeReader) Close() error               { return nil }

type sinkWriter struct{ buf []byte }

func (s *sinkWriter) Push() bool                  { return true }
func (s *sinkWriter) Write(src []byte) bool       { s.buf = append(s.buf, src...); return true }
func (s *sinkWriter) Flush(stream.FlushKind) bool { return true }
func (s *sinkWriter) Pos() uint64                 { return uint64(len(s.buf)) }
func (s *sinkWriter) Healthy() bool               { return true }
func (s *sinkWriter) Err() error                  { return nil }
func (s *sinkWriter) Close() error                { return nil }
func (s *sinkWriter) Truncate(newSize uint64) bool {
	if newSize > uint64(len(s.buf)) {
		return false
	}
	s.buf = s.buf[:newSize]
	return true
}

func TestLimitTruncation(t *testing.T) {
	src := newFakeReader(bytesOf('A', 100))
	r := New(ownership.Borrowed[stream.Reader](src), 30)

	dst := make([]byte, 50)
	ok := r.Read(dst)
	require.False(t, ok)
	require.Equal(t, bytesOf('A', 30), dst[:30])
	require.True(t, r.Healthy())
	require.Equal(t, uint64(30), r.Pos())
	require.False(t, r.Pull())
}

func TestLimitSeekClamp(t *testing.T) {
	src := newFakeReader(bytesOf('A', 100))
	r := New(ownership.Borrowed[stream.Reader](src), 30)

	ok := r.Seek(1000)
	require.False(t, ok)
	require.Equal(t, uint64(30), r.Pos())
	require.True(t, r.Healthy())
}

func TestLimitSizeClamped(t *testing.T) {
	src := newFakeReader(bytesOf('A', 100))
	r := New(ownership.Borrowed[stream.Reader](src), 30)

	size, ok := r.Size()
	require.True(t, ok)
	require.Equal(t, uint64(30), size)
}

func TestCopyToBackwardOverflowSeeksAndFails(t *testing.T) {
	src := newFakeReader(bytesOf('A', 100))
	r := New(ownership.Borrowed[stream.Reader](src), 30)

	w := &sinkWriter{}
	ok := r.CopyToBackward(w, 50)
	require.False(t, ok)
	require.Empty(t, w.buf)
	require.Contains(t, src.seekCalls, uint64(30))
}

func bytesOf(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

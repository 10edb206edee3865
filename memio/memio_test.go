package memio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesReaderReadAndSeek(t *testing.T) {
	r := NewBytesReader([]byte("hello world"))

	dst := make([]byte, 5)
	require.True(t, r.Read(dst))
	require.Equal(t, "hello", string(dst))

	require.True(t, r.Seek(6))
	require.True(t, r.Read(dst))
	require.Equal(t, "world", string(dst))

	require.False(t, r.Pull())
}

func TestBytesReaderShortReadAtEnd(t *testing.T) {
	r := NewBytesReader([]byte("abc"))
	dst := make([]byte, 5)
	require.False(t, r.Read(dst))
	require.Equal(t, "abc\x00\x00", string(dst))
	require.True(t, r.Healthy())
}

func TestBytesWriterExhaustion(t *testing.T) {
	buf := make([]byte, 4)
	w := NewBytesWriter(buf)

	require.True(t, w.Write([]byte("ab")))
	require.False(t, w.Write([]byte("cde")))
	require.False(t, w.Healthy())
	require.Equal(t, "abcd", string(w.Written()))
}

func TestStringReaderZeroCopy(t *testing.T) {
	s := "zero copy view"
	r := NewStringReader(s)

	dst := make([]byte, len(s))
	require.True(t, r.Read(dst))
	require.Equal(t, s, string(dst))
}

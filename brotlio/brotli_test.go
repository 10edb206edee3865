package brotlio

import (
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
	require.NoError(t, w.Close())

	r := NewReader(ownership.Borrowed[stream.Reader](memio.NewBytesReader(out.Written())))
	dst := make([]byte, len(payload))
	require.True(t, r.Read(dst))
	require.Equal(t, payload, dst)
	require.NoError(t, r.Close())
}

func TestRoundTripLarge(t *testing.T) {
	out := memio.NewBytesWriter(make([]byte, 1<<21))
	w := New(ownership.Borrowed[stream.Writer](out), WithLevel(5))

	payload := make([]byte, 1<<19)
	for i := range payload {
		payload[i] = byte(i * 3)
	}
	require.True(t, w.Write(payload))
	require.NoError(t, w.Close())

	r := NewReader(ownership.Borrowed[stream.Reader](memio.NewBytesReader(out.Written())))
	dst := make([]byte, len(payload))
	require.True(t, r.Read(dst))
	require.Equal(t, payload, dst)
}

package zlibio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillhq/streamio/memio"
)

func TestRoundTripOwnedDownstream(t *testing.T) {
	out := memio.NewBytesWriter(make([]byte, 256))
	w := New(out)

	payload := []byte("hello hello hello")
	require.True(t, w.Write(payload))
	require.NoError(t, w.Close())

	r := NewReader(memio.NewBytesReader(out.Written()))
	dst := make([]byte, len(payload))
	require.True(t, r.Read(dst))
	require.Equal(t, payload, dst)
	require.NoError(t, r.Close())
}

func TestBorrowedDownstreamSurvivesClose(t *testing.T) {
	out := memio.NewBytesWriter(make([]byte, 256))
	w := NewBorrowed(out)

	require.True(t, w.Write([]byte("abc")))
	require.NoError(t, w.Close())

	// Borrowed downstream was not closed: writing to it directly still
	// works.
	require.True(t, out.Write([]byte("x")))
}

package fdio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillhq/streamio/ownership"
)

func TestWriteThenReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.bin")

	w, err := Create(path, 16)
	require.NoError(t, err)

	payload := make([]byte, 1<<16)
	for i := range payload {
		payload[i] = byte(i)
	}
	require.True(t, w.Write(payload))
	require.NoError(t, w.Close())

	r, err := Open(path, 16)
	require.NoError(t, err)
	dst := make([]byte, len(payload))
	require.True(t, r.Read(dst))
	require.Equal(t, payload, dst)
	require.NoError(t, r.Close())
}

func TestBorrowedDownstreamNotClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "borrowed.bin")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := NewWriter(ownership.Borrowed(f), 0)
	require.True(t, w.Write([]byte("hello")))
	require.NoError(t, w.Close())

	// The file is still open because the writer only borrowed it.
	_, err = f.WriteString("x")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

package chainio

import (
	"testing"

	"github.com/quillhq/streamio/chain"
	"github.com/stretchr/testify/require"
)

func TestChainWriterThenReaderRoundTrip(t *testing.T) {
	var c chain.Chain
	w := NewWriter(&c)

	require.True(t, w.Write([]byte("hello ")))
	require.True(t, w.Write([]byte("world")))
	require.NoError(t, w.Close())

	require.Equal(t, int64(11), c.Len())

	r := NewReader(&c)
	dst := make([]byte, 11)
	require.True(t, r.Read(dst))
	require.Equal(t, "hello world", string(dst))
	require.NoError(t, r.Close())
}

func TestChainReaderAcrossBlocks(t *testing.T) {
	var c chain.Chain
	c.AppendCopy([]byte("abc"))
	c.AppendCopy([]byte("def"))

	r := NewReader(&c)
	dst := make([]byte, 6)
	require.True(t, r.Read(dst))
	require.Equal(t, "abcdef", string(dst))
	require.False(t, r.Pull())
}

func TestChainWriterLargeWriteBypassesBuffer(t *testing.T) {
	var c chain.Chain
	w := NewWriter(&c)

	big := make([]byte, 10_000)
	for i := range big {
		big[i] = byte(i)
	}
	require.True(t, w.Write(big))
	require.NoError(t, w.Close())
	require.Equal(t, int64(10_000), c.Len())
}

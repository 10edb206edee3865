package backward

import (
	"strings"
	"testing"

	"github.com/quillhq/streamio/chain"
	"github.com/stretchr/testify/require"
)

func drain(c *chain.Chain) string {
	var sb strings.Builder
	for {
		data, _, ok := c.FirstBlock()
		if !ok || len(data) == 0 {
			break
		}
		sb.Write(data)
		c.RemovePrefix(int64(len(data)))
	}
	return sb.String()
}

func TestBackwardPrependOrder(t *testing.T) {
	var dest chain.Chain
	w := New(&dest)

	require.True(t, w.Write([]byte("world")))
	require.True(t, w.Write([]byte("hello ")))
	require.NoError(t, w.Close())

	require.Equal(t, "hello world", drain(&dest))
}

func TestBackwardFastPathWithinOneReservation(t *testing.T) {
	var dest chain.Chain
	w := New(&dest)

	require.True(t, w.Push())
	require.True(t, w.Write([]byte("ab")))
	require.True(t, w.Write([]byte("cd")))
	require.NoError(t, w.Close())

	require.Equal(t, "cdab", drain(&dest))
}

func TestBackwardOwnedChainZeroCopy(t *testing.T) {
	var dest chain.Chain
	var src chain.Chain

	payload := make([]byte, 10_000_000)
	for i := range payload {
		payload[i] = 'X'
	}
	src.AppendOwned(payload)

	w := New(&dest)
	require.True(t, w.WriteOwnedChain(&src))
	require.NoError(t, w.Close())

	require.Equal(t, int64(10_000_000), dest.Len())
	require.Equal(t, int64(0), src.Len())
}

func TestTruncateWithinReservation(t *testing.T) {
	var dest chain.Chain
	w := New(&dest)

	require.True(t, w.Push())
	require.True(t, w.Write([]byte("hello world")))
	require.True(t, w.Truncate(5))
	require.NoError(t, w.Close())

	require.Equal(t, "world", drain(&dest))
}

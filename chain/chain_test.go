package chain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(c *Chain) []byte {
	var out []byte
	for {
		data, _, ok := c.FirstBlock()
		if !ok {
			break
		}
		out = append(out, data...)
		n := int64(len(data))
		if n == 0 {
			break
		}
		c.RemovePrefix(n)
	}
	return out
}

func TestAppendPrependOrder(t *testing.T) {
	var c Chain
	c.AppendCopy([]byte("world"))
	c.PrependCopy([]byte("hello "))

	require.Equal(t, int64(11), c.Len())
	require.Equal(t, "hello world", string(collect(&c)))
}

func TestRemovePrefixAcrossBlocks(t *testing.T) {
	var c Chain
	c.AppendCopy([]byte("abc"))
	c.AppendCopy([]byte("def"))
	c.AppendCopy([]byte("ghi"))

	c.RemovePrefix(4)
	require.Equal(t, int64(5), c.Len())
	require.Equal(t, "efghi", string(collect(&c)))
}

func TestRemoveSuffixAcrossBlocks(t *testing.T) {
	var c Chain
	c.AppendCopy([]byte("abc"))
	c.AppendCopy([]byte("def"))
	c.AppendCopy([]byte("ghi"))

	c.RemoveSuffix(4)
	require.Equal(t, int64(5), c.Len())
	require.Equal(t, "abcde", string(collect(&c)))
}

func TestSplitInsideBlock(t *testing.T) {
	var c Chain
	c.AppendCopy([]byte("abcdef"))
	c.AppendCopy([]byte("ghijkl"))

	head, tail := c.Split(4)
	require.Equal(t, int64(4), head.Len())
	require.Equal(t, int64(8), tail.Len())
	require.Equal(t, "abcd", string(collect(&head)))
	require.Equal(t, "efghijkl", string(collect(&tail)))
	require.Equal(t, int64(0), c.Len())
}

func TestSplitAtBlockBoundary(t *testing.T) {
	var c Chain
	c.AppendCopy([]byte("abc"))
	c.AppendCopy([]byte("def"))

	head, tail := c.Split(3)
	require.Equal(t, "abc", string(collect(&head)))
	require.Equal(t, "def", string(collect(&tail)))
}

func TestSplitWithFrontOffset(t *testing.T) {
	var c Chain
	c.AppendCopy([]byte("abcdef"))
	c.RemovePrefix(2)

	head, tail := c.Split(2)
	require.Equal(t, "cd", string(collect(&head)))
	require.Equal(t, "ef", string(collect(&tail)))
}

// Package chain implements Chain, a double-ended rope of byte blocks:
// amortized O(1) append of whole blocks, prepend of whole blocks in time
// linear in the block count, O(1) amortized trimming from either end,
// and O(blocks) split. It generalizes the retrieved zippy
// package's append-only, single-reader-offset Buffer into a true
// double-ended structure, since ChainBackwardWriter needs to grow the
// rope at its front as often as readers drain it from either end.
package chain

import (
	pool "github.com/libp2p/go-buffer-pool"

	"github.com/quillhq/streamio/internal/xlog"
)

// maxPooledAlloc is the largest block size go-buffer-pool keeps a
// sync.Pool size class for; past it, Get degrades to a plain make() and
// Put becomes a no-op, so every block this large or larger is really an
// unpooled allocation wearing a pool-shaped API.
const maxPooledAlloc = 1 << 18

// alloc is pool.Get with a debug trace on the silent unpooled-fallback
// path, so a caller growing past the pool's ceiling is at least
// observable instead of quietly eating the extra allocation cost.
func alloc(n int) []byte {
	if n > maxPooledAlloc {
		xlog.Debugf("chain: block size %d exceeds pool ceiling %d, falling back to unpooled allocation", n, maxPooledAlloc)
	}
	return pool.Get(n)
}

// block is one link of the rope. owned is true when the block came from
// the pool and must be returned to it once fully consumed; blocks handed
// in by a caller via Prepend/Append (owned-buffer variants) are never
// pool-released, only dropped.
type block struct {
	data  []byte
	owned bool
}

// Chain is a double-ended rope of byte blocks. The zero value is an
// empty Chain ready to use.
type Chain struct {
	blocks []block
	// front/back are byte offsets into blocks[0]/blocks[len-1] already
	// logically removed from the respective end.
	front int
	back  int
	size  int64
}

// Len returns the number of bytes currently held.
func (c *Chain) Len() int64 { return c.size }

// Alloc returns a pool-backed block of size n, for callers that want to
// fill it directly before handing it to AppendOwned/PrependOwned (the
// zero-copy path for data produced fresh, as opposed to AppendCopy).
func Alloc(n int) []byte { return alloc(n) }

// Release returns a block obtained from Alloc back to the pool without
// adding it to any Chain. Callers that Alloc but decide not to use the
// block should call this instead of leaking it.
func Release(b []byte) { pool.Put(b) }

// AppendCopy copies p into a freshly pooled block and appends it.
func (c *Chain) AppendCopy(p []byte) {
	if len(p) == 0 {
		return
	}
	buf := alloc(len(p))
	copy(buf, p)
	c.appendBlock(block{data: buf, owned: true})
}

// AppendOwned appends p directly, taking ownership: p must not be
// obtained from Alloc (use AppendPooled for that) and is never
// pool-released, only dropped when fully consumed.
func (c *Chain) AppendOwned(p []byte) {
	if len(p) == 0 {
		return
	}
	c.appendBlock(block{data: p})
}

// AppendPooled appends a block previously returned by Alloc, taking
// ownership of its pool lifetime.
func (c *Chain) AppendPooled(p []byte) {
	if len(p) == 0 {
		return
	}
	c.appendBlock(block{data: p, owned: true})
}

func (c *Chain) appendBlock(b block) {
	c.blocks = append(c.blocks, b)
	c.size += int64(len(b.data))
}

// PrependCopy copies p into a freshly pooled block and prepends it, so
// it becomes the first bytes of the Chain ahead of everything already
// present — the primitive ChainBackwardWriter's Write builds on.
func (c *Chain) PrependCopy(p []byte) {
	if len(p) == 0 {
		return
	}
	buf := alloc(len(p))
	copy(buf, p)
	c.prependBlock(block{data: buf, owned: true})
}

// PrependOwned prepends p directly, taking ownership.
func (c *Chain) PrependOwned(p []byte) {
	if len(p) == 0 {
		return
	}
	c.prependBlock(block{data: p})
}

// PrependPooled prepends a block previously returned by Alloc, taking
// ownership of its pool lifetime.
func (c *Chain) PrependPooled(p []byte) {
	if len(p) == 0 {
		return
	}
	c.prependBlock(block{data: p, owned: true})
}

// PrependChainCopy copies all of src's bytes into a single fresh block
// and prepends it, preserving src's own byte order. src is left
// unmodified.
func (c *Chain) PrependChainCopy(src *Chain) {
	n := src.Len()
	if n == 0 {
		return
	}
	buf := alloc(int(n))
	src.copyAllInto(buf)
	c.prependBlock(block{data: buf, owned: true})
}

// PrependChain splices src's blocks directly into the front of c,
// transferring ownership of every block: no byte-level copy occurs
// regardless of src's size. src is left empty.
func (c *Chain) PrependChain(src *Chain) {
	n := src.Len()
	if n == 0 {
		return
	}
	src.compactFront()
	src.compactBack()
	blocks := src.blocks
	src.blocks = nil
	src.front, src.back, src.size = 0, 0, 0

	if c.front != 0 {
		c.compactFront()
	}
	c.blocks = append(blocks, c.blocks...)
	c.size += n
}

// copyAllInto copies every byte currently held, in order, into dst,
// which must be at least Len() bytes long.
func (c *Chain) copyAllInto(dst []byte) {
	off := 0
	for i, b := range c.blocks {
		start := 0
		if i == 0 {
			start = c.front
		}
		end := len(b.data)
		if i == len(c.blocks)-1 {
			end -= c.back
		}
		off += copy(dst[off:], b.data[start:end])
	}
}

func (c *Chain) prependBlock(b block) {
	if c.front != 0 {
		// Can't prepend ahead of a partially-consumed first block
		// without shifting it; materialize the trim first.
		c.compactFront()
	}
	c.blocks = append([]block{b}, c.blocks...)
	c.size += int64(len(b.data))
}

// compactFront bakes any partial consumption of the first block into a
// re-sliced view, so front is always 0 afterwards. The re-sliced block
// still holds live bytes, so it is not returned to the pool; it is
// marked not pool-owned and only dropped once fully consumed.
func (c *Chain) compactFront() {
	if c.front == 0 {
		return
	}
	b := c.blocks[0]
	c.blocks[0] = block{data: b.data[c.front:], owned: false}
	c.front = 0
}

// compactBack drops fully-consumed trailing space and bakes any
// partial back-trim into a re-sliced view of the last block, so back
// is always 0 afterwards.
func (c *Chain) compactBack() {
	if c.back == 0 || len(c.blocks) == 0 {
		return
	}
	last := len(c.blocks) - 1
	b := c.blocks[last]
	c.blocks[last] = block{data: b.data[:len(b.data)-c.back], owned: b.owned}
	c.back = 0
}

// RemovePrefix drops n bytes from the front of the Chain, releasing any
// pool-owned block fully consumed in the process.
func (c *Chain) RemovePrefix(n int64) {
	if n <= 0 {
		return
	}
	if n > c.size {
		n = c.size
	}
	c.size -= n
	for n > 0 {
		b := &c.blocks[0]
		avail := int64(len(b.data) - c.front)
		if n < avail {
			c.front += int(n)
			return
		}
		n -= avail
		if b.owned {
			pool.Put(b.data)
		}
		c.blocks = c.blocks[1:]
		c.front = 0
	}
}

// RemoveSuffix drops n bytes from the back of the Chain, releasing any
// pool-owned block fully consumed in the process.
func (c *Chain) RemoveSuffix(n int64) {
	if n <= 0 {
		return
	}
	if n > c.size {
		n = c.size
	}
	c.size -= n
	for n > 0 {
		last := len(c.blocks) - 1
		b := &c.blocks[last]
		avail := int64(len(b.data) - c.back)
		if n < avail {
			c.back += int(n)
			return
		}
		n -= avail
		if b.owned {
			pool.Put(b.data)
		}
		c.blocks = c.blocks[:last]
		c.back = 0
	}
}

// FirstBlock returns the not-yet-consumed slice of the first block, and
// whether the Chain owns it (so a reader advancing past it knows
// whether to Release it itself rather than call RemovePrefix).
func (c *Chain) FirstBlock() (data []byte, owned bool, ok bool) {
	if len(c.blocks) == 0 {
		return nil, false, false
	}
	b := c.blocks[0]
	end := len(b.data)
	if len(c.blocks) == 1 {
		end -= c.back
	}
	return b.data[c.front:end], b.owned, true
}

// Split divides the Chain at offset n into (head, tail): head holds the
// first n bytes, tail the rest. c is left empty. Whole blocks entirely
// on one side of the cut are handed over by reference; a block the cut
// falls inside of is copied into two fresh blocks (releasing the
// original if pool-owned) so neither half ever double-releases a
// shared block.
func (c *Chain) Split(n int64) (head, tail Chain) {
	if n <= 0 {
		tail = *c
		*c = Chain{}
		return Chain{}, tail
	}
	if n >= c.size {
		head = *c
		*c = Chain{}
		return head, Chain{}
	}

	remaining := n
	idx := 0
	for {
		b := c.blocks[idx]
		start := 0
		if idx == 0 {
			start = c.front
		}
		end := len(b.data)
		if idx == len(c.blocks)-1 {
			end -= c.back
		}
		avail := int64(end - start)
		if remaining < avail {
			break
		}
		remaining -= avail
		idx++
	}

	head.blocks = append([]block(nil), c.blocks[:idx]...)
	if idx > 0 {
		head.front = c.front
	}
	head.size = n

	tail.blocks = append([]block(nil), c.blocks[idx+1:]...)
	if idx < len(c.blocks)-1 {
		tail.back = c.back
	}
	tail.size = c.size - n

	split := c.blocks[idx]
	start := 0
	if idx == 0 {
		start = c.front
	}
	cut := start + int(remaining)

	if leftLen := cut - start; leftLen > 0 {
		leftBuf := alloc(leftLen)
		copy(leftBuf, split.data[start:cut])
		head.blocks = append(head.blocks, block{data: leftBuf, owned: true})
	}

	end := len(split.data)
	if idx == len(c.blocks)-1 {
		end -= c.back
	}
	if rightLen := end - cut; rightLen > 0 {
		rightBuf := alloc(rightLen)
		copy(rightBuf, split.data[cut:end])
		tail.blocks = append([]block{{data: rightBuf, owned: true}}, tail.blocks...)
	}

	if split.owned {
		pool.Put(split.data)
	}

	*c = Chain{}
	return head, tail
}

package stream

import "github.com/quillhq/streamio/internal/bytepool"

// CopyViaScratch transfers exactly n bytes from r to w using a pooled
// scratch buffer. It is the fallback every adapter's CopyTo can use when
// it has no cheaper, buffer-window-sharing path of its own; returns
// false (without necessarily failing either side) if fewer than n bytes
// could be transferred.
func CopyViaScratch(r Reader, w Writer, n uint64) bool {
	if n == 0 {
		return true
	}
	const chunk = 64 * 1024
	buf := bytepool.Get(chunk)
	defer bytepool.Put(buf)

	for n > 0 {
		want := uint64(len(buf))
		if n < want {
			want = n
		}
		dst := buf[:want]
		if !r.Read(dst) {
			return false
		}
		if !w.Write(dst) {
			return false
		}
		n -= want
	}
	return true
}

// CopyViaScratchBackward transfers exactly n bytes from r to a
// BackwardWriter using a pooled scratch buffer, reading forward and
// writing the chunk (itself forward-ordered) to w in reverse chunk
// order, preserving overall byte order per BackwardWriter's contract.
func CopyViaScratchBackward(r Reader, w BackwardWriter, n uint64) bool {
	if n == 0 {
		return true
	}
	const chunk = 64 * 1024
	buf := bytepool.Get(chunk)
	defer bytepool.Put(buf)

	chunks := make([][]byte, 0, (n+chunk-1)/chunk)
	for n > 0 {
		want := uint64(len(buf))
		if n < want {
			want = n
		}
		dst := make([]byte, want)
		if !r.Read(dst) {
			return false
		}
		chunks = append(chunks, dst)
		n -= want
	}
	for i := len(chunks) - 1; i >= 0; i-- {
		if !w.Write(chunks[i]) {
			return false
		}
	}
	return true
}

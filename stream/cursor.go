package stream

// Cursor is the shared buffer-window bookkeeping for forward readers and
// writers: start is implicitly window[:0]'s base (offset 0 of window),
// cursor and limit are offsets with 0 <= cursor <= limit <= len(window).
//
// For a reader, [cursor, limit) is not-yet-consumed. For a forward
// writer, [cursor, limit) is not-yet-written space.
type Cursor struct {
	window   []byte
	cursor   int
	limit    int
	startPos uint64
	healthy  bool
	message  string
	wrapped  error
}

// NewCursor returns a healthy, empty Cursor.
func NewCursor() Cursor {
	return Cursor{healthy: true}
}

// Window is the full buffer window currently installed.
func (c *Cursor) Window() []byte { return c.window }

// CursorIndex is the current read/write offset into Window().
func (c *Cursor) CursorIndex() int { return c.cursor }

// LimitIndex is the end of the currently installed window.
func (c *Cursor) LimitIndex() int { return c.limit }

// Available is the number of bytes remaining in the current window.
func (c *Cursor) Available() int { return c.limit - c.cursor }

// Buffered is the not-yet-consumed/not-yet-written slice of the current
// window: window[cursor:limit].
func (c *Cursor) Buffered() []byte { return c.window[c.cursor:c.limit] }

// Pos is the absolute position corresponding to the cursor.
func (c *Cursor) Pos() uint64 { return c.startPos + uint64(c.cursor) }

// LimitPos is the absolute position corresponding to the limit.
func (c *Cursor) LimitPos() uint64 { return c.startPos + uint64(c.limit) }

// StartPos is the absolute position corresponding to offset 0 of Window().
func (c *Cursor) StartPos() uint64 { return c.startPos }

// Healthy reports whether the stream can still make progress.
func (c *Cursor) Healthy() bool { return c.healthy }

// Err returns the reason the stream became unhealthy, or nil.
func (c *Cursor) Err() error {
	if c.healthy {
		return nil
	}
	if c.wrapped != nil {
		return c.wrapped
	}
	return errorString(c.message)
}

// Message is the raw, human-readable failure reason (empty while
// healthy), carried alongside Err() per the spec's health/message model.
func (c *Cursor) Message() string { return c.message }

// Fail marks the stream unhealthy with msg. Always returns false, so
// slow paths can `return c.Fail(...)`.
func (c *Cursor) Fail(msg string) bool {
	c.healthy = false
	c.message = msg
	c.wrapped = nil
	return false
}

// FailWrap marks the stream unhealthy, recording msg and wrapping err so
// Err() participates in errors.Is/As chains. Always returns false.
func (c *Cursor) FailWrap(msg string, err error) bool {
	c.healthy = false
	c.message = msg
	c.wrapped = WrapDownstream(msg, err)
	return false
}

// SetWindow installs a fresh buffer window. startPos is the absolute
// position corresponding to offset 0 of window.
func (c *Cursor) SetWindow(window []byte, cursor, limit int, startPos uint64) {
	c.window = window
	c.cursor = cursor
	c.limit = limit
	c.startPos = startPos
}

// Advance moves the cursor forward by n bytes, n <= Available().
func (c *Cursor) Advance(n int) { c.cursor += n }

// Clear installs an empty window at the given absolute position, used
// when a slow path has nothing left to expose (e.g. end of stream).
func (c *Cursor) Clear(startPos uint64) {
	c.window = nil
	c.cursor = 0
	c.limit = 0
	c.startPos = startPos
}

// BackwardCursor is the buffer-window bookkeeping for backward writers:
// limit <= cursor <= start <= len(window). [limit, cursor) is
// not-yet-written space; writing decreases cursor toward limit.
type BackwardCursor struct {
	window   []byte
	start    int
	cursor   int
	limit    int
	startPos uint64
	healthy  bool
	message  string
	wrapped  error
}

// NewBackwardCursor returns a healthy, empty BackwardCursor.
func NewBackwardCursor() BackwardCursor {
	return BackwardCursor{healthy: true}
}

func (c *BackwardCursor) Window() []byte   { return c.window }
func (c *BackwardCursor) CursorIndex() int { return c.cursor }
func (c *BackwardCursor) LimitIndex() int  { return c.limit }
func (c *BackwardCursor) StartIndex() int  { return c.start }

// Available is the number of bytes of not-yet-written space remaining.
func (c *BackwardCursor) Available() int { return c.cursor - c.limit }

// Buffered is the not-yet-written slice of the current window:
// window[limit:cursor]. A bulk Write must fill it from its high end
// (nearest cursor) down, since the bytes nearest cursor are read first
// once this window's slack is trimmed away.
func (c *BackwardCursor) Buffered() []byte { return c.window[c.limit:c.cursor] }

// Pos is the absolute position of the next byte a Write will place
// (equivalently, how many bytes of this window have been written so far
// plus startPos).
func (c *BackwardCursor) Pos() uint64 { return c.startPos + uint64(c.start-c.cursor) }

// LimitPos is the absolute position at which this window would be fully
// written (cursor == limit).
func (c *BackwardCursor) LimitPos() uint64 { return c.startPos + uint64(c.start-c.limit) }

func (c *BackwardCursor) Healthy() bool { return c.healthy }

func (c *BackwardCursor) Err() error {
	if c.healthy {
		return nil
	}
	if c.wrapped != nil {
		return c.wrapped
	}
	return errorString(c.message)
}

func (c *BackwardCursor) Message() string { return c.message }

func (c *BackwardCursor) Fail(msg string) bool {
	c.healthy = false
	c.message = msg
	c.wrapped = nil
	return false
}

func (c *BackwardCursor) FailWrap(msg string, err error) bool {
	c.healthy = false
	c.message = msg
	c.wrapped = WrapDownstream(msg, err)
	return false
}

// SetWindow installs a fresh buffer window. startPos is the absolute
// position corresponding to cursor == start (i.e. nothing written in
// this window yet).
func (c *BackwardCursor) SetWindow(window []byte, start, cursor, limit int, startPos uint64) {
	c.window = window
	c.start = start
	c.cursor = cursor
	c.limit = limit
	c.startPos = startPos
}

// Retreat moves the cursor backward (toward limit) by n bytes, as
// writing n bytes does.
func (c *BackwardCursor) Retreat(n int) { c.cursor -= n }

// Advance moves the cursor forward (toward start) by n bytes, undoing
// n bytes of pending writes in the current window (used by Truncate).
func (c *BackwardCursor) Advance(n int) { c.cursor += n }

// WindowBasePos is the absolute position corresponding to cursor ==
// start: nothing has been written in the current window yet.
func (c *BackwardCursor) WindowBasePos() uint64 { return c.startPos }

func (c *BackwardCursor) Clear(startPos uint64) {
	c.window = nil
	c.start, c.cursor, c.limit = 0, 0, 0
	c.startPos = startPos
}

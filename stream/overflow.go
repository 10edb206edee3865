package stream

// AddOverflows reports whether pos+delta would exceed the range of a
// uint64, the pre-check §4.1's "Stream position overflow" failure
// requires before any buffer arithmetic is attempted.
func AddOverflows(pos, delta uint64) bool {
	return pos+delta < pos
}

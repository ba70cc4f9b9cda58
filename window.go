package deflate

import "math"

// slidingWindow holds up to 2*size bytes of input history plus the
// chained hash table used to find repeated 3-byte prefixes within it.
// The two are combined in one type because sliding the window and
// expiring hash entries are the same operation, sharing the same
// cursors.
type slidingWindow struct {
	buf  []byte // length 2*size
	size int    // 1 << windowBits
	mask int    // size - 1

	strStart   int // next byte to hash/match, mirrors andybalholm/pack's state.index
	blockStart int // start of the current block within buf
	windowEnd  int // end of valid data copied into buf so far

	hashBits  int
	hashSize  int
	hashMask  uint32
	hashShift uint

	head       []uint32 // hashSize entries: most recent position for a hash
	prev       []uint32 // size entries: previous position with same hash
	hashOffset int
	hash       uint32
}

func newSlidingWindow(windowBits, memLevel int) *slidingWindow {
	size := 1 << uint(windowBits)
	hashBits := hashBitsForMemLevel(memLevel)
	w := &slidingWindow{
		buf:       make([]byte, 2*size),
		size:      size,
		mask:      size - 1,
		hashBits:  hashBits,
		hashSize:  1 << uint(hashBits),
		hashMask:  uint32(1<<uint(hashBits)) - 1,
		hashShift: (uint(hashBits) + minMatch - 1) / minMatch,
	}
	w.head = make([]uint32, w.hashSize)
	w.prev = make([]uint32, size)
	w.reset()
	return w
}

func (w *slidingWindow) reset() {
	for i := range w.buf {
		w.buf[i] = 0
	}
	for i := range w.head {
		w.head[i] = 0
	}
	for i := range w.prev {
		w.prev[i] = 0
	}
	w.strStart = 0
	w.blockStart = 0
	w.windowEnd = 0
	w.hashOffset = 1
	w.hash = 0
}

// hash3 computes the rolling hash of the 3 bytes at buf[pos:pos+3],
// following the classic zlib UPDATE_HASH recurrence generalized from
// andybalholm/pack's 4-byte oldHash: h = ((h<<shift)^next)&mask, seeded
// with the first two bytes.
func (w *slidingWindow) hash3(pos int) uint32 {
	h := uint32(w.buf[pos])
	h = (h<<w.hashShift ^ uint32(w.buf[pos+1])) & w.hashMask
	h = (h<<w.hashShift ^ uint32(w.buf[pos+2])) & w.hashMask
	return h
}

// bulkHash3 fills dst[i] with the hash of buf[start+i:start+i+3] for each
// valid i, mirroring bulkHash4's incremental-update trick so the cost is
// one multiply-free shift/xor per byte instead of three per position.
func (w *slidingWindow) bulkHash3(start, n int, dst []uint32) {
	if n <= 0 {
		return
	}
	h := w.hash3(start)
	dst[0] = h
	for i := 1; i < n; i++ {
		h = (h<<w.hashShift ^ uint32(w.buf[start+i+2])) & w.hashMask
		dst[i] = h
	}
}

// insert records buf[pos:pos+3]'s hash in the chain and returns the
// previous head of that chain (an absolute position, or a negative value
// if none).
func (w *slidingWindow) insert(pos int) int {
	return w.insertHashed(pos, w.hash3(pos))
}

// insertHashed is insert with the hash already computed, letting a
// caller that hashed a run of positions in bulk (bulkHash3) skip
// recomputing hash3 for each one.
func (w *slidingWindow) insertHashed(pos int, h uint32) int {
	w.hash = h
	head := w.head[h]
	w.prev[pos&w.mask] = head
	w.head[h] = uint32(pos + w.hashOffset)
	return int(head) - w.hashOffset
}

const maxHashOffset = 1 << 24

// fill copies as much of b as fits before the window needs a slide,
// returning the number of bytes consumed. The caller loops until b is
// empty.
func (w *slidingWindow) fill(b []byte) int {
	minLookahead := minMatch + maxMatch
	if w.strStart >= 2*w.size-minLookahead {
		w.slide()
	}
	n := copy(w.buf[w.windowEnd:], b)
	w.windowEnd += n
	return n
}

// slide copies the upper half of the window down by size bytes and
// rebases every cursor and hash entry accordingly.
func (w *slidingWindow) slide() {
	copy(w.buf, w.buf[w.size:2*w.size])
	w.strStart -= w.size
	w.windowEnd -= w.size
	if w.blockStart >= w.size {
		w.blockStart -= w.size
	} else {
		w.blockStart = math.MaxInt32
	}
	w.hashOffset += w.size
	if w.hashOffset > maxHashOffset {
		delta := w.hashOffset - 1
		w.hashOffset -= delta
		for i, v := range w.prev {
			if int(v) > delta {
				w.prev[i] = uint32(int(v) - delta)
			} else {
				w.prev[i] = 0
			}
		}
		for i, v := range w.head {
			if int(v) > delta {
				w.head[i] = uint32(int(v) - delta)
			} else {
				w.head[i] = 0
			}
		}
	}
}

// lookahead is the number of bytes available past strStart.
func (w *slidingWindow) lookahead() int {
	return w.windowEnd - w.strStart
}

// resetHash clears the hash chains without touching buffered bytes,
// giving a full flush an independent resynchronization point: no
// back-reference can cross it.
func (w *slidingWindow) resetHash() {
	for i := range w.head {
		w.head[i] = 0
	}
	for i := range w.prev {
		w.prev[i] = 0
	}
}

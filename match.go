package deflate

import (
	"encoding/binary"
	"math/bits"
)

// findMatch walks the hash chain rooted at prevHead, looking for the
// longest run starting at pos that beats prevLength. The chain-length
// limit is halved once a "good enough" match is found, and the search
// stops the moment a "nice" match is found. Ties go to the most recent
// (smallest-distance) candidate, since the chain is walked newest-first.
func (w *slidingWindow) findMatch(pos, prevHead, prevLength, lookahead int, mp matchParams) (length, distance int, ok bool) {
	lookMax := maxMatch
	if lookahead < lookMax {
		lookMax = lookahead
	}
	win := w.buf[:pos+lookMax]

	nice := len(win) - pos
	if mp.nice < nice {
		nice = mp.nice
	}

	tries := mp.chain
	length = prevLength
	if length >= mp.good {
		tries >>= 1
	}
	if tries == 0 {
		tries = 1
	}

	wEnd := win[pos+length]
	wPos := win[pos:]
	minIndex := pos - w.size
	if minIndex < 0 {
		minIndex = 0
	}
	if prevHead < minIndex {
		return
	}

	for i := prevHead; tries > 0; tries-- {
		if wEnd == win[i+length] {
			n := matchLen(win[i:i+lookMax], wPos)
			if n > length && (n > minMatch || pos-i <= 4096) {
				length = n
				distance = pos - i
				ok = true
				if n >= nice {
					break
				}
				wEnd = win[pos+n]
			}
		}
		if i == minIndex {
			break
		}
		i = int(w.prev[i&w.mask]) - w.hashOffset
		if i < minIndex || i < 0 {
			break
		}
	}
	return
}

// matchLen returns the length of the common prefix of a and b. a must be
// the shorter (or equal-length) slice.
func matchLen(a, b []byte) int {
	var checked int
	for len(a) >= 8 {
		if diff := binary.LittleEndian.Uint64(a) ^ binary.LittleEndian.Uint64(b); diff != 0 {
			return checked + bits.TrailingZeros64(diff)>>3
		}
		checked += 8
		a, b = a[8:], b[8:]
	}
	b = b[:len(a)]
	for i := range a {
		if a[i] != b[i] {
			return i + checked
		}
	}
	return len(a) + checked
}

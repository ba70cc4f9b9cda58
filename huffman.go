package deflate

import "sort"

// buildTree constructs a canonical Huffman code over the alphabet implied
// by freq (indexed by symbol). Symbols with zero frequency receive no
// code. DEFLATE requires every tree to have at least two codes (this
// matters most for the distance tree, which can otherwise end up with
// zero or one symbol in use), so buildTree invents dummy symbols with
// frequency 1 when fewer than two are present.
//
// maxLen bounds the longest code: 15 for the literal/length and distance
// alphabets, 7 for the bit-length alphabet. When the naturally-built tree
// would exceed it, buildTree redistributes bit lengths using the same
// technique as the classic Okumura/Gailly construction: leaves at the
// deepest overflowing level move up by one, compensated by moving a leaf
// at a shallower level down, until the bound holds.
//
// It returns, per symbol, the bit length and the canonical, bit-reversed
// code (DEFLATE transmits codes most-significant-bit first, but the bit
// sink packs least-significant-bit first), plus blCount[1..maxLen], the
// number of codes of each length. The block emitter uses only length and
// code.
func buildTree(freq []int32, maxLen int) (length []uint16, code []uint16, blCount []int32) {
	elems := len(freq)

	// Internal nodes are appended past the leaf region [0, elems), an
	// array-based tree representation instead of pointer-linked nodes.
	nodeFreq := make([]int32, 2*elems-1)
	left := make([]int32, 2*elems-1)
	right := make([]int32, 2*elems-1)
	depth := make([]uint8, 2*elems-1)
	for i := range left {
		left[i], right[i] = -1, -1
	}
	copy(nodeFreq, freq)

	heap := make([]int, 0, elems)
	for sym, f := range freq {
		if f > 0 {
			heap = append(heap, sym)
		}
	}
	for sym := 0; len(heap) < 2; sym++ {
		used := false
		for _, s := range heap {
			if s == sym {
				used = true
				break
			}
		}
		if used {
			continue
		}
		nodeFreq[sym] = 1
		heap = append(heap, sym)
	}

	// leaves records every symbol that ended up in the tree (real or
	// dummy), captured before the reduction loop below empties the heap.
	// It is used later, in ascending-frequency order, to reassign bit
	// lengths if overflow correction is needed.
	leaves := append([]int(nil), heap...)

	less := func(a, b int) bool {
		if nodeFreq[a] != nodeFreq[b] {
			return nodeFreq[a] < nodeFreq[b]
		}
		return depth[a] <= depth[b]
	}
	siftDown := func(root, n int) {
		for {
			child := 2*root + 1
			if child >= n {
				return
			}
			if child+1 < n && less(heap[child+1], heap[child]) {
				child++
			}
			if !less(heap[child], heap[root]) {
				return
			}
			heap[root], heap[child] = heap[child], heap[root]
			root = child
		}
	}
	for i := len(heap)/2 - 1; i >= 0; i-- {
		siftDown(i, len(heap))
	}
	pop := func() int {
		n := len(heap) - 1
		top := heap[0]
		heap[0] = heap[n]
		heap = heap[:n]
		siftDown(0, n)
		return top
	}
	push := func(v int) {
		heap = append(heap, v)
		i := len(heap) - 1
		for i > 0 {
			parent := (i - 1) / 2
			if !less(heap[i], heap[parent]) {
				break
			}
			heap[i], heap[parent] = heap[parent], heap[i]
			i = parent
		}
	}

	next := elems
	for len(heap) > 1 {
		n := pop()
		m := pop()
		nodeFreq[next] = nodeFreq[n] + nodeFreq[m]
		left[next], right[next] = int32(n), int32(m)
		d := depth[n]
		if depth[m] > d {
			d = depth[m]
		}
		depth[next] = d + 1
		push(next)
		next++
	}
	root := heap[0]

	length = make([]uint16, elems)
	overflow := 0
	var walk func(n, bits int)
	walk = func(n, bits int) {
		if bits > maxLen {
			bits = maxLen
			overflow++
		}
		if n < elems {
			length[n] = uint16(bits)
			return
		}
		walk(int(left[n]), bits+1)
		walk(int(right[n]), bits+1)
	}
	walk(root, 0)

	blCount = make([]int32, maxLen+1)
	for _, l := range length {
		if l > 0 {
			blCount[l]++
		}
	}

	if overflow > 0 {
		sort.Slice(leaves, func(i, j int) bool { return nodeFreq[leaves[i]] < nodeFreq[leaves[j]] })

		for overflow > 0 {
			bits := maxLen - 1
			for blCount[bits] == 0 {
				bits--
			}
			blCount[bits]--
			blCount[bits+1] += 2
			blCount[maxLen]--
			overflow -= 2
		}

		// Reassign lengths so the least-frequent leaves get the longest
		// codes: walk the corrected counts from the longest length down,
		// consuming leaves in ascending-frequency order.
		idx := 0
		for bits := maxLen; bits >= 1; bits-- {
			for n := int(blCount[bits]); n > 0; n-- {
				length[leaves[idx]] = uint16(bits)
				idx++
			}
		}
	}

	code = make([]uint16, elems)
	var c uint16
	nextCode := make([]uint16, maxLen+1)
	for bits := 1; bits <= maxLen; bits++ {
		c = (c + uint16(blCount[bits-1])) << 1
		nextCode[bits] = c
	}
	for sym, l := range length {
		if l == 0 {
			continue
		}
		code[sym] = reverseBits(nextCode[l], int(l))
		nextCode[l]++
	}

	return length, code, blCount
}

// reverseBits reverses the low n bits of v.
func reverseBits(v uint16, n int) uint16 {
	var r uint16
	for i := 0; i < n; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

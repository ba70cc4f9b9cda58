package deflate

const (
	repPrevLen  = 16 // copy the previous code length 3-6 times
	repZero3To  = 17 // repeat a zero length 3-10 times
	repZero11To = 18 // repeat a zero length 11-138 times
)

type blockType int

const (
	blockStored blockType = iota
	blockStatic
	blockDynamic
)

// DataType is the caller-facing hint from the block emitter's
// data-type detection step. It never affects the bitstream.
type DataType int

const (
	DataUnknown DataType = iota
	DataText
	DataBinary
)

func (t DataType) String() string {
	switch t {
	case DataText:
		return "text"
	case DataBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// detectDataType classifies a block by its literal frequencies: TEXT if
// no control byte from the black list has been seen and at least one
// byte from the white list has; BINARY otherwise. Bytes 7, 8, 11, 12, 26,
// 27 are gray-listed and ignored either way.
func detectDataType(litLenFreq *[litLenSyms]int32) DataType {
	blackList := [...]int{0, 1, 2, 3, 4, 5, 6, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 28, 29, 30, 31}
	for _, b := range blackList {
		if litLenFreq[b] != 0 {
			return DataBinary
		}
	}
	if litLenFreq[9] != 0 || litLenFreq[10] != 0 || litLenFreq[13] != 0 {
		return DataText
	}
	for b := 32; b < 256; b++ {
		if litLenFreq[b] != 0 {
			return DataText
		}
	}
	return DataBinary
}

// walkTreeRuns scans a code-length array the way RFC 1951's bit-length
// alphabet expects: runs of an identical nonzero length become a literal
// code followed by a REP_3_6 repeat, and runs of zero become REPZ_3_10 or
// REPZ_11_138. emit is called once per bit-length-alphabet symbol
// produced, with its extra-bit count and value, so the same walk serves
// both frequency tallying (build the bl tree) and actual bit emission.
func walkTreeRuns(length []uint16, maxCode int, emit func(sym int, extraBits uint, extraVal uint32)) {
	ext := make([]uint16, maxCode+2)
	copy(ext, length[:maxCode+1])
	ext[maxCode+1] = 0xffff // sentinel: never matches a real code length

	prevLen := -1
	nextLen := int(ext[0])
	count := 0
	maxCount, minCount := 7, 4
	if nextLen == 0 {
		maxCount, minCount = 138, 3
	}

	for n := 0; n <= maxCode; n++ {
		curLen := nextLen
		nextLen = int(ext[n+1])
		count++
		if count < maxCount && curLen == nextLen {
			continue
		} else if count < minCount {
			for ; count > 0; count-- {
				emit(curLen, 0, 0)
			}
		} else if curLen != 0 {
			if curLen != prevLen {
				emit(curLen, 0, 0)
				count--
			}
			emit(repPrevLen, 2, uint32(count-3))
		} else if count <= 10 {
			emit(repZero3To, 3, uint32(count-3))
		} else {
			emit(repZero11To, 7, uint32(count-11))
		}
		count = 0
		prevLen = curLen
		switch {
		case nextLen == 0:
			maxCount, minCount = 138, 3
		case curLen == nextLen:
			maxCount, minCount = 6, 3
		default:
			maxCount, minCount = 7, 4
		}
	}
}

func lastNonZero(length []uint16, floor int) int {
	max := floor
	for i, l := range length {
		if l != 0 && i > max {
			max = i
		}
	}
	return max
}

func litLenExtraBitsOf(sym int) uint {
	if sym > endBlock {
		return uint(lengthExtraBits[sym-literals-1])
	}
	return 0
}

func distExtraBitsOf(sym int) uint {
	return uint(distExtraBits[sym])
}

func treeBitCost(freq []int32, length []uint16, extra func(int) uint) int64 {
	var total int64
	for sym, f := range freq {
		if f == 0 {
			continue
		}
		total += int64(f) * int64(uint(length[sym])+extra(sym))
	}
	return total
}

// preparedTrees holds one block's worth of built trees, ready either to
// have their sizes compared or to be emitted.
type preparedTrees struct {
	litLenLen  []uint16
	litLenCode []uint16
	maxLitLen  int

	distLen  []uint16
	distCode []uint16
	maxDist  int

	blLen     []uint16
	blCode    []uint16
	maxBlIdx  int
	treeBits  int64
	dynBits   int64
	statBits  int64
}

func prepareTrees(lb *literalBuffer) *preparedTrees {
	lb.litLenFreq[endBlock]++ // END_BLOCK must always have nonzero frequency

	litLenLen, litLenCode, _ := buildTree(lb.litLenFreq[:], 15)
	distLen, distCode, _ := buildTree(lb.distFreq[:], 15)

	pt := &preparedTrees{
		litLenLen:  litLenLen,
		litLenCode: litLenCode,
		maxLitLen:  lastNonZero(litLenLen, endBlock),
		distLen:    distLen,
		distCode:   distCode,
		maxDist:    lastNonZero(distLen, 0),
	}

	var blFreq [blCodeSyms]int32
	count := func(sym int, _ uint, _ uint32) { blFreq[sym]++ }
	walkTreeRuns(pt.litLenLen, pt.maxLitLen, count)
	walkTreeRuns(pt.distLen, pt.maxDist, count)

	blLen, blCode, _ := buildTree(blFreq[:], 7)
	pt.blLen, pt.blCode = blLen, blCode

	maxBlIdx := blCodeSyms - 1
	for maxBlIdx >= 3 && blLen[blOrder[maxBlIdx]] == 0 {
		maxBlIdx--
	}
	pt.maxBlIdx = maxBlIdx

	cost := func(sym int, extraBits uint, _ uint32) { pt.treeBits += int64(blLen[sym]) + int64(extraBits) }
	walkTreeRuns(pt.litLenLen, pt.maxLitLen, cost)
	walkTreeRuns(pt.distLen, pt.maxDist, cost)

	payloadDyn := treeBitCost(lb.litLenFreq[:], pt.litLenLen, litLenExtraBitsOf) +
		treeBitCost(lb.distFreq[:], pt.distLen, distExtraBitsOf)
	pt.dynBits = 5 + 5 + 4 + 3*int64(pt.maxBlIdx+1) + pt.treeBits + payloadDyn

	pt.statBits = treeBitCost(lb.litLenFreq[:], fixedLitLenLen, litLenExtraBitsOf) +
		treeBitCost(lb.distFreq[:], fixedDistLen, distExtraBitsOf)

	return pt
}

// emitBlock chooses the smallest admissible encoding for the pending
// literal buffer (or forces one, per strategy/level) and writes the
// complete block, including its 3-bit header, to bw. raw is the window
// slice backing a stored-block fallback; when raw is nil (the block's
// bytes are no longer in the window) a stored block is never chosen. It
// returns the data-type hint for this block.
func emitBlock(bw *bitWriter, lb *literalBuffer, raw []byte, final bool, forceStored, forceStatic bool) DataType {
	dt := detectDataType(&lb.litLenFreq)

	if forceStored {
		writeStoredBlock(bw, raw, final)
		lb.reset()
		return dt
	}

	pt := prepareTrees(lb)

	dynBytes := (pt.dynBits + 3 + 7) >> 3
	statBytes := (pt.statBits + 3 + 7) >> 3

	optBytes := dynBytes
	if statBytes <= optBytes {
		optBytes = statBytes
	}

	bt := blockDynamic
	switch {
	case forceStatic:
		bt = blockStatic
	case raw != nil && int64(len(raw))+4 <= optBytes:
		bt = blockStored
	case statBytes == optBytes:
		bt = blockStatic
	}

	switch bt {
	case blockStored:
		writeStoredBlock(bw, raw, final)
	case blockStatic:
		writeHuffmanBlock(bw, lb, fixedLitLenLen, fixedLitLenCode, endBlock, fixedDistLen, fixedDistCode, distSyms-1, false, nil, final)
	default:
		writeHuffmanBlock(bw, lb, pt.litLenLen, pt.litLenCode, pt.maxLitLen, pt.distLen, pt.distCode, pt.maxDist, true, pt, final)
	}

	lb.reset()
	return dt
}

func writeStoredBlock(bw *bitWriter, raw []byte, final bool) {
	var lastBit uint32
	if final {
		lastBit = 1
	}
	bw.writeBits((0<<1)|lastBit, 3)
	bw.alignToByte()

	n := len(raw)
	bw.writeBytesAligned([]byte{byte(n), byte(n >> 8), byte(^uint16(n)), byte(^uint16(n) >> 8)})
	bw.writeBytesAligned(raw)
}

func writeHuffmanBlock(bw *bitWriter, lb *literalBuffer,
	litLenLen, litLenCode []uint16, maxLitLen int,
	distLen, distCode []uint16, maxDist int,
	dynamic bool, pt *preparedTrees, final bool,
) {
	var lastBit, btype uint32
	if final {
		lastBit = 1
	}
	if dynamic {
		btype = 2
	} else {
		btype = 1
	}
	bw.writeBits((btype<<1)|lastBit, 3)

	if dynamic {
		bw.writeBits(uint32(maxLitLen+1-257), 5)
		bw.writeBits(uint32(maxDist+1-1), 5)
		bw.writeBits(uint32(pt.maxBlIdx+1-4), 4)
		for i := 0; i <= pt.maxBlIdx; i++ {
			bw.writeBits(uint32(pt.blLen[blOrder[i]]), 3)
		}
		send := func(sym int, extraBits uint, extraVal uint32) {
			bw.writeCode(pt.blCode[sym], pt.blLen[sym])
			if extraBits > 0 {
				bw.writeBits(extraVal, extraBits)
			}
		}
		walkTreeRuns(litLenLen, maxLitLen, send)
		walkTreeRuns(distLen, maxDist, send)
	}

	for i := 0; i < lb.last; i++ {
		dist := lb.dBuf[i]
		lc := lb.lBuf[i]
		if dist == 0 {
			bw.writeCode(litLenCode[lc], litLenLen[lc])
			continue
		}

		lci := int(lengthCode[lc])
		lengthSym := lci + literals + 1
		bw.writeCode(litLenCode[lengthSym], litLenLen[lengthSym])
		if eb := lengthExtraBits[lci]; eb > 0 {
			extra := uint32(int(lc) - (int(lengthBase[lci]) - minMatch))
			bw.writeBits(extra, uint(eb))
		}

		distMinusOne := int(dist) - 1
		di := dCode(distMinusOne)
		bw.writeCode(distCode[di], distLen[di])
		if eb := distExtraBits[di]; eb > 0 {
			extra := uint32(distMinusOne - (int(distBase[di]) - 1))
			bw.writeBits(extra, uint(eb))
		}
	}
	bw.writeCode(litLenCode[endBlock], litLenLen[endBlock])
}

// writeAlignmentBlock emits a static-Huffman block containing nothing
// but END_BLOCK. This follows zlib's `_tr_align`: it pushes every bit of
// the preceding block into complete bytes for a partial flush that must
// not carry the empty-stored-block sync marker. The stream is not padded
// to a byte boundary; the few bits of this block that do not fill a byte
// stay in bw until the next block.
func writeAlignmentBlock(bw *bitWriter, final bool) {
	writeHuffmanBlock(bw, &literalBuffer{}, fixedLitLenLen, fixedLitLenCode, endBlock, fixedDistLen, fixedDistCode, distSyms-1, false, nil, final)
}

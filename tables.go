package deflate

const (
	endBlock    = 256 // the END_BLOCK literal/length symbol
	literals    = 256 // symbols 0..255 are literal bytes
	lengthCodes = 29  // length codes 257..285

	// litLenSyms is the dynamic literal/length alphabet size: 256
	// literals, END_BLOCK, and 29 length codes.
	litLenSyms = literals + 1 + lengthCodes

	// fixedLitLenSyms is the size of RFC 1951's fixed Huffman table,
	// which reserves two extra 8-bit codes (286, 287) that never appear
	// in a real stream but round out the fixed bit-length assignment.
	fixedLitLenSyms = litLenSyms + 2

	distSyms   = 30
	blCodeSyms = 19
	minMatch   = 3
	maxMatch   = 258
)

// lengthExtraBits and lengthBase describe the extra-bit count and base
// match length for length codes 257..285 (indices 0..28).
var lengthExtraBits = [lengthCodes]uint8{
	0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 1, 1,
	2, 2, 2, 2,
	3, 3, 3, 3,
	4, 4, 4, 4,
	5, 5, 5, 5,
	0,
}

var lengthBase = [lengthCodes]uint16{
	3, 4, 5, 6, 7, 8, 9, 10,
	11, 13, 15, 17,
	19, 23, 27, 31,
	35, 43, 51, 59,
	67, 83, 99, 115,
	131, 163, 195, 227,
	258,
}

// distExtraBits and distBase describe the extra-bit count and base
// distance for distance codes 0..29.
var distExtraBits = [distSyms]uint8{
	0, 0, 0, 0,
	1, 1,
	2, 2,
	3, 3,
	4, 4,
	5, 5,
	6, 6,
	7, 7,
	8, 8,
	9, 9,
	10, 10,
	11, 11,
	12, 12,
	13, 13,
}

var distBase = [distSyms]uint16{
	1, 2, 3, 4,
	5, 7,
	9, 13,
	17, 25,
	33, 49,
	65, 97,
	129, 193,
	257, 385,
	513, 769,
	1025, 1537,
	2049, 3073,
	4097, 6145,
	8193, 12289,
	16385, 24577,
}

// blOrder is the permutation in which bit-length code lengths are
// transmitted, so that trailing zero entries can usually be dropped.
var blOrder = [blCodeSyms]uint8{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// lengthCode maps (matchLength - minMatch), 0..255, to a length-code
// index 0..28 (i.e. relative to symbol 257). distCode maps a distance
// minus 1 to a distance-code index 0..29, using the two-part indexing
// scheme from zlib's tr_static_init: distances up to 256 are indexed
// directly, larger ones by (dist-1)>>7 offset into the table's upper
// half, since the extra-bit tables are geometric past code 16.
var lengthCode [maxMatch - minMatch + 1]uint8
var distCode [512]uint8

func init() {
	length := 0
	for code := 0; code < lengthCodes-1; code++ {
		for n := 0; n < 1<<lengthExtraBits[code]; n++ {
			lengthCode[length] = uint8(code)
			length++
		}
	}
	lengthCode[length-1] = lengthCodes - 1

	dist := 0
	for code := 0; code < 16; code++ {
		for n := 0; n < 1<<distExtraBits[code]; n++ {
			distCode[dist] = uint8(code)
			dist++
		}
	}
	dist >>= 7
	for code := 16; code < distSyms; code++ {
		for n := 0; n < 1<<(distExtraBits[code]-7); n++ {
			distCode[256+dist] = uint8(code)
			dist++
		}
	}
}

// dCode returns the distance-code index for a match distance minus one.
func dCode(distMinusOne int) int {
	if distMinusOne < 256 {
		return int(distCode[distMinusOne])
	}
	return int(distCode[256+(distMinusOne>>7)])
}

// Fixed Huffman trees for BTYPE=01 (static) blocks, built once at init
// time from the bit lengths RFC 1951 §3.2.6 assigns directly (rather than
// from frequency data): literal/length codes 0-143 get 8 bits, 144-255
// get 9, 256-279 get 7, and 280-287 get 8; every distance code gets 5.
var (
	fixedLitLenCode []uint16
	fixedLitLenLen  []uint16
	fixedDistCode   []uint16
	fixedDistLen    []uint16
)

func init() {
	litLenBits := make([]int32, fixedLitLenSyms)
	for i := 0; i < fixedLitLenSyms; i++ {
		switch {
		case i < 144:
			litLenBits[i] = 8
		case i < 256:
			litLenBits[i] = 9
		case i < 280:
			litLenBits[i] = 7
		default:
			litLenBits[i] = 8
		}
	}
	fixedLitLenLen, fixedLitLenCode = fixedCanonicalCodes(litLenBits)

	distBits := make([]int32, distSyms)
	for i := range distBits {
		distBits[i] = 5
	}
	fixedDistLen, fixedDistCode = fixedCanonicalCodes(distBits)
}

// fixedCanonicalCodes assigns canonical, bit-reversed codes directly from
// a table of fixed bit lengths (as opposed to buildTree, which derives
// lengths from frequencies). The construction is the same gen_codes step
// used for dynamic trees.
func fixedCanonicalCodes(bits []int32) (length []uint16, code []uint16) {
	maxLen := 0
	for _, b := range bits {
		if int(b) > maxLen {
			maxLen = int(b)
		}
	}
	blCount := make([]int32, maxLen+1)
	length = make([]uint16, len(bits))
	for i, b := range bits {
		length[i] = uint16(b)
		blCount[b]++
	}
	nextCode := make([]uint16, maxLen+1)
	var c uint16
	for l := 1; l <= maxLen; l++ {
		c = (c + uint16(blCount[l-1])) << 1
		nextCode[l] = c
	}
	code = make([]uint16, len(bits))
	for i, b := range bits {
		code[i] = reverseBits(nextCode[b], int(b))
		nextCode[b]++
	}
	return length, code
}

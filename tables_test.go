package deflate

import "testing"

func TestLengthCodeCoversRange(t *testing.T) {
	// Every (length - minMatch) value must map to a code whose base,
	// after adding back its own extra-bit range, actually reaches length.
	for lc := 0; lc <= maxMatch-minMatch; lc++ {
		code := lengthCode[lc]
		if int(code) >= lengthCodes {
			t.Fatalf("lengthCode[%d] = %d out of range", lc, code)
		}
		base := int(lengthBase[code]) - minMatch
		extra := int(lengthExtraBits[code])
		length := lc + minMatch
		if length < int(lengthBase[code]) || length > int(lengthBase[code])+(1<<extra)-1 {
			t.Fatalf("length %d (code %d) outside base %d + extra %d bits", length, code, base+minMatch, extra)
		}
	}
}

func TestDCodeCoversRange(t *testing.T) {
	samples := []int{0, 1, 2, 3, 4, 5, 255, 256, 257, 1000, 32767, 1 << 15}
	for _, distMinusOne := range samples {
		if distMinusOne >= 1<<15 {
			continue
		}
		code := dCode(distMinusOne)
		if code < 0 || code >= distSyms {
			t.Fatalf("dCode(%d) = %d out of range", distMinusOne, code)
		}
		base := int(distBase[code])
		extra := int(distExtraBits[code])
		dist := distMinusOne + 1
		if dist < base || dist > base+(1<<extra)-1 {
			t.Fatalf("distance %d (code %d) outside base %d + extra %d bits", dist, code, base, extra)
		}
	}
}

func TestFixedTablesAssignExpectedBitLengths(t *testing.T) {
	cases := []struct {
		sym  int
		want uint16
	}{
		{0, 8}, {143, 8}, {144, 9}, {255, 9}, {256, 7}, {279, 7}, {280, 8}, {287, 8},
	}
	for _, c := range cases {
		if got := fixedLitLenLen[c.sym]; got != c.want {
			t.Errorf("fixedLitLenLen[%d] = %d, want %d", c.sym, got, c.want)
		}
	}
	for i, l := range fixedDistLen {
		if l != 5 {
			t.Errorf("fixedDistLen[%d] = %d, want 5", i, l)
		}
	}
}

func TestFixedLitLenCodesAreCanonicalAndDistinct(t *testing.T) {
	type key struct{ length, code uint16 }
	seen := make(map[key]int)
	for sym, l := range fixedLitLenLen {
		k := key{l, fixedLitLenCode[sym]}
		if prev, ok := seen[k]; ok {
			t.Fatalf("symbols %d and %d share the same (length, code)", prev, sym)
		}
		seen[k] = sym
	}
}

func TestBlOrderIsAPermutationOf19Symbols(t *testing.T) {
	seen := make([]bool, blCodeSyms)
	for _, s := range blOrder {
		if s >= blCodeSyms || seen[s] {
			t.Fatalf("blOrder has a duplicate or out-of-range entry: %d", s)
		}
		seen[s] = true
	}
}

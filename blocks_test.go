package deflate

import "testing"

func TestDetectDataTypeText(t *testing.T) {
	var freq [litLenSyms]int32
	for _, b := range []byte("hello, world!\n") {
		freq[b]++
	}
	if got := detectDataType(&freq); got != DataText {
		t.Fatalf("detectDataType = %v, want DataText", got)
	}
}

func TestDetectDataTypeBinary(t *testing.T) {
	var freq [litLenSyms]int32
	freq[0] = 5 // NUL byte is black-listed
	freq['a'] = 3
	if got := detectDataType(&freq); got != DataBinary {
		t.Fatalf("detectDataType = %v, want DataBinary", got)
	}
}

func TestDetectDataTypeBinaryWhenEmpty(t *testing.T) {
	var freq [litLenSyms]int32
	if got := detectDataType(&freq); got != DataBinary {
		t.Fatalf("detectDataType = %v, want DataBinary", got)
	}
}

func TestWalkTreeRunsHandlesRepeatedNonzeroLength(t *testing.T) {
	// Six codes of length 4 in a row should collapse into one literal
	// code-length symbol followed by a single REP_3_6 (count-3=2).
	lengths := []uint16{4, 4, 4, 4, 4, 4}
	var emitted []int
	var extras []uint32
	walkTreeRuns(lengths, len(lengths)-1, func(sym int, extraBits uint, extraVal uint32) {
		emitted = append(emitted, sym)
		if extraBits > 0 {
			extras = append(extras, extraVal)
		}
	})
	if len(emitted) != 2 || emitted[0] != 4 || emitted[1] != repPrevLen {
		t.Fatalf("emitted = %v, want [4 %d]", emitted, repPrevLen)
	}
	if len(extras) != 1 || extras[0] != 2 {
		t.Fatalf("extras = %v, want [2] (6 - 1 - 3)", extras)
	}
}

func TestWalkTreeRunsHandlesLongZeroRun(t *testing.T) {
	lengths := make([]uint16, 20) // all zero
	var emitted []int
	walkTreeRuns(lengths, len(lengths)-1, func(sym int, extraBits uint, extraVal uint32) {
		emitted = append(emitted, sym)
	})
	if len(emitted) != 1 || emitted[0] != repZero11To {
		t.Fatalf("emitted = %v, want [%d]", emitted, repZero11To)
	}
}

func TestWalkTreeRunsShortRunEmitsLiterally(t *testing.T) {
	lengths := []uint16{3, 5}
	var emitted []int
	walkTreeRuns(lengths, len(lengths)-1, func(sym int, extraBits uint, extraVal uint32) {
		emitted = append(emitted, sym)
	})
	if len(emitted) != 2 || emitted[0] != 3 || emitted[1] != 5 {
		t.Fatalf("emitted = %v, want [3 5]", emitted)
	}
}

func TestLastNonZero(t *testing.T) {
	lengths := []uint16{0, 3, 0, 5, 0, 0}
	if got := lastNonZero(lengths, 0); got != 3 {
		t.Fatalf("lastNonZero = %d, want 3", got)
	}
	allZero := []uint16{0, 0, 0}
	if got := lastNonZero(allZero, 1); got != 1 {
		t.Fatalf("lastNonZero with floor = %d, want 1", got)
	}
}

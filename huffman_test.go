package deflate

import "testing"

// kraftSum sums 2^-length over every symbol buildTree actually assigned a
// code to. It deliberately ignores the caller's original frequency table:
// buildTree may invent up to two dummy symbols when fewer than two real
// ones exist, and those dummies carry real codes that must be counted too.
func kraftSum(length []uint16, maxLen int) float64 {
	var sum float64
	for _, l := range length {
		if l == 0 || int(l) > maxLen {
			continue
		}
		sum += 1.0 / float64(int64(1)<<uint(l))
	}
	return sum
}

func TestBuildTreeKraftEquality(t *testing.T) {
	cases := []struct {
		name string
		freq []int32
	}{
		{"single-symbol", []int32{0, 0, 5, 0, 0}},
		{"two-symbols", []int32{3, 0, 0, 7, 0}},
		{"uniform", []int32{1, 1, 1, 1, 1, 1, 1, 1}},
		{"skewed", []int32{1000, 1, 0, 0, 500, 0, 0, 2}},
		{"all-zero", []int32{0, 0, 0, 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			length, code, blCount := buildTree(append([]int32(nil), c.freq...), 15)
			sum := kraftSum(length, 15)
			if sum < 0.999999 || sum > 1.000001 {
				t.Fatalf("kraft sum = %v, want 1", sum)
			}
			for i, l := range length {
				if l > 15 {
					t.Fatalf("length[%d] = %d exceeds max 15", i, l)
				}
			}
			if len(code) != len(length) {
				t.Fatalf("code and length slices have different sizes")
			}
			var total int32
			for _, c := range blCount {
				total += c
			}
			if total == 0 {
				t.Fatalf("blCount reports no coded symbols")
			}
		})
	}
}

func TestBuildTreeMaxLenOverflow(t *testing.T) {
	// A Fibonacci-weighted frequency table is the classic construction
	// that forces gen_bitlen's overflow-redistribution path when maxLen
	// is small: the unconstrained tree wants depth greater than maxLen.
	freq := make([]int32, 20)
	a, b := int32(1), int32(1)
	for i := range freq {
		freq[i] = a
		a, b = b, a+b
	}
	length, _, _ := buildTree(freq, 6)
	for i, l := range length {
		if freq[i] != 0 && l > 6 {
			t.Fatalf("length[%d] = %d exceeds max 6 after overflow correction", i, l)
		}
	}
	sum := kraftSum(length, 6)
	if sum < 0.999999 || sum > 1.000001 {
		t.Fatalf("kraft sum after overflow correction = %v, want 1", sum)
	}
}

func TestReverseBits(t *testing.T) {
	cases := []struct {
		v    uint16
		n    int
		want uint16
	}{
		{0, 1, 0},
		{1, 1, 1},
		{0b10, 2, 0b01},
		{0b001, 3, 0b100},
		{0b1011, 4, 0b1101},
	}
	for _, c := range cases {
		if got := reverseBits(c.v, c.n); got != c.want {
			t.Errorf("reverseBits(%b, %d) = %b, want %b", c.v, c.n, got, c.want)
		}
	}
}

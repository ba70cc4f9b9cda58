package deflate

// Strategy selects the match-finding policy used by the encoder.
type Strategy int

const (
	// StrategyDefault performs ordinary lazy matching.
	StrategyDefault Strategy = iota
	// StrategyFiltered rejects matches shorter than 6 bytes, favoring
	// data with small, scattered repeats (e.g. filtered image rows).
	StrategyFiltered
	// StrategyHuffmanOnly disables matching entirely; every input byte
	// becomes a literal, and only the Huffman stage compresses.
	StrategyHuffmanOnly
	// StrategyRLE restricts match distance to 1, turning the encoder
	// into a run-length coder with DEFLATE framing.
	StrategyRLE
	// StrategyFixed forces every block to use the fixed (BTYPE=01)
	// Huffman trees. Dynamic trees are still built for each block but
	// never emitted.
	StrategyFixed
)

func (s Strategy) String() string {
	switch s {
	case StrategyDefault:
		return "default"
	case StrategyFiltered:
		return "filtered"
	case StrategyHuffmanOnly:
		return "huffmanOnly"
	case StrategyRLE:
		return "rle"
	case StrategyFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

const (
	// MinLevel is the lowest compression level (stored blocks only).
	MinLevel = 0
	// MaxLevel is the highest compression level (maximum search effort).
	MaxLevel = 9
	// DefaultLevel matches zlib's default tradeoff.
	DefaultLevel = 6

	// MinWindowBits is the smallest supported sliding-window size, 2^9 bytes.
	MinWindowBits = 9
	// MaxWindowBits is the largest supported sliding-window size, 2^15 bytes.
	MaxWindowBits = 15
	// DefaultWindowBits selects the full 32 KiB DEFLATE window.
	DefaultWindowBits = 15

	// MinMemLevel is the smallest hash-table/literal-buffer sizing.
	MinMemLevel = 1
	// MaxMemLevel is the largest hash-table/literal-buffer sizing.
	MaxMemLevel = 9
	// DefaultMemLevel matches zlib's default.
	DefaultMemLevel = 8
)

// Options configures a Writer at creation time.
type Options struct {
	// Level is the compression level, 0 (stored only) through 9 (best
	// compression). See DefaultLevel.
	Level int

	// WindowBits is log2 of the sliding-window size, 9 through 15.
	WindowBits int

	// MemLevel controls the size (log2) of the hash table and literal
	// buffer, 1 through 9. Higher values use more memory and search a
	// larger hash table before falling back to shorter chains.
	MemLevel int

	// Strategy selects the match-finding policy.
	Strategy Strategy
}

// DefaultOptions returns the zlib-equivalent defaults: level 6, a 32 KiB
// window, memLevel 8, and the default strategy.
func DefaultOptions() Options {
	return Options{
		Level:      DefaultLevel,
		WindowBits: DefaultWindowBits,
		MemLevel:   DefaultMemLevel,
		Strategy:   StrategyDefault,
	}
}

func (o Options) validate() error {
	if o.Level < MinLevel || o.Level > MaxLevel {
		return &ConfigError{Field: "Level", Value: o.Level, Reason: "must be between 0 and 9"}
	}
	if o.WindowBits < MinWindowBits || o.WindowBits > MaxWindowBits {
		return &ConfigError{Field: "WindowBits", Value: o.WindowBits, Reason: "must be between 9 and 15"}
	}
	if o.MemLevel < MinMemLevel || o.MemLevel > MaxMemLevel {
		return &ConfigError{Field: "MemLevel", Value: o.MemLevel, Reason: "must be between 1 and 9"}
	}
	switch o.Strategy {
	case StrategyDefault, StrategyFiltered, StrategyHuffmanOnly, StrategyRLE, StrategyFixed:
	default:
		return &ConfigError{Field: "Strategy", Value: int(o.Strategy), Reason: "unrecognized strategy"}
	}
	return nil
}

// matchParams holds the good/lazy/nice/chain quad for one compression
// level; the Writer uses its level's entry as is, whatever the strategy.
//
// Values for levels 1-9 are taken directly from andybalholm/pack's
// compressionLevel table (flate/matchfinder.go), which in turn rebalances
// zlib's defaults for a wider speed/ratio spread. Level 0 has no matching
// at all: input is emitted as stored blocks.
type matchParams struct {
	good, lazy, nice, chain int
}

var levelTable = [MaxLevel + 1]matchParams{
	{}, // 0: stored only
	// Levels 1-3 use greedy matching only; lazy=0 disables the lazy
	// lookahead comparison entirely (prevLength is never < 0).
	{0, 0, 0, 0},
	{0, 0, 0, 0},
	{0, 0, 0, 0},
	// Levels 4-9 use increasingly aggressive lazy matching.
	{4, 4, 8, 8},
	{4, 4, 12, 12},
	{4, 6, 16, 16},
	{8, 8, 24, 16},
	{10, 16, 24, 64},
	{32, 258, 258, 4096},
}

// hashBitsForMemLevel returns the size (log2) of the hash table for the given
// memLevel, following zlib's convention of memLevel+7 bits, clamped to
// the range that keeps hash entries addressable within the window.
func hashBitsForMemLevel(memLevel int) int {
	bits := memLevel + 7
	if bits > 15 {
		bits = 15
	}
	return bits
}

// litBufSize returns the size of the literal/length and distance token
// buffers for the given memLevel, following zlib's 1<<(memLevel+6).
func litBufSize(memLevel int) int {
	return 1 << uint(memLevel+6)
}

/*
Package deflate implements a streaming DEFLATE (RFC 1951) encoder.

It compresses an arbitrary byte sequence into a raw DEFLATE bitstream: LZ77
dictionary matching over a sliding window, canonical Huffman coding of the
resulting literal/length/distance symbols, and bit-packed block emission.
There is no outer zlib or gzip framing, and there is no decoder — any
conformant inflate implementation, including the standard library's
compress/flate, can read the output.

# Writing

	w, err := deflate.NewWriter(dst, deflate.DefaultOptions())
	if err != nil {
		// handle error
	}
	if _, err := w.Write(data); err != nil {
		// handle error
	}
	if err := w.Close(); err != nil {
		// handle error
	}

Close flushes all pending data, marks the final block, and pads to a byte
boundary. A Writer may be reused for a new stream with Reset, which keeps
its internal buffers.

# Levels and strategies

Options.Level selects a speed/ratio tradeoff from 0 (stored blocks only) to
9 (maximum search effort). Options.Strategy changes how the match finder
behaves: filtered data, RLE-only, Huffman-only (no matching), or forced
static-Huffman blocks. See Options for the full set of tunables.

# Flushing

Flush(mode) exposes the flush semantics of the underlying DEFLATE format:
SyncFlush aligns the stream on a byte boundary with an empty stored block,
letting a decoder resume mid-stream; FullFlush does the same and also
resets the match finder's history. Close is equivalent to Flush(Finish).
*/
package deflate

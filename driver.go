package deflate

import "io"

// FlushMode selects how much of the pending input must reach the output
// before a Write/Flush call returns.
type FlushMode int

const (
	NoFlush FlushMode = iota
	PartialFlush
	SyncFlush
	FullFlush
	Block
	Finish
)

// Writer is a streaming DEFLATE encoder. It buffers input in a sliding
// window, finds LZ77 matches, and emits canonical-Huffman-coded blocks to
// the wrapped io.Writer.
type Writer struct {
	dst  io.Writer
	opts Options
	mp   matchParams

	win *slidingWindow
	lb  *literalBuffer
	bw  bitWriter

	matchLength    int
	matchDistance  int
	matchAvailable bool

	lastDataType DataType
	closed       bool

	// hashScratch backs insertRun's bulk hashing so it doesn't allocate.
	hashScratch [insertRunLimit]uint32
}

// NewWriter returns a Writer that emits a complete, independently
// inflatable DEFLATE stream to dst as data is written to it.
func NewWriter(dst io.Writer, opts Options) (*Writer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	w := &Writer{
		dst:  dst,
		opts: opts,
		mp:   levelTable[opts.Level],
	}
	w.win = newSlidingWindow(opts.WindowBits, opts.MemLevel)
	w.lb = newLiteralBuffer(litBufSize(opts.MemLevel))
	w.matchLength = minMatch - 1
	return w, nil
}

// Reset discards any buffered state and rebinds the Writer to dst, so a
// Writer can be pooled instead of reallocated per stream.
func (w *Writer) Reset(dst io.Writer) {
	w.dst = dst
	w.win.reset()
	w.lb.reset()
	w.bw.reset()
	w.matchLength = minMatch - 1
	w.matchDistance = 0
	w.matchAvailable = false
	w.lastDataType = DataUnknown
	w.closed = false
}

// DataType reports the TEXT/BINARY heuristic computed from the most
// recently emitted block.
func (w *Writer) DataType() DataType { return w.lastDataType }

// Write feeds p into the encoder. It may buffer any or all of p without
// producing output; call Flush or Close to force output out.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errWriterClosed
	}
	if err := w.step(p, NoFlush); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush forces all buffered input out as one or more complete blocks
// using mode's semantics. NoFlush is a no-op.
func (w *Writer) Flush(mode FlushMode) error {
	if mode == NoFlush {
		return nil
	}
	if w.closed {
		return errWriterClosed
	}
	return w.step(nil, mode)
}

// Close finalizes the stream, emitting the last block with BFINAL set.
// The Writer must not be used again until Reset.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	return w.step(nil, Finish)
}

// step is the core of the stream driver: it drains p into the sliding
// window, runs the match finder over whatever became available, and then
// honors flush's byte-alignment and finalization contract.
func (w *Writer) step(p []byte, flush FlushMode) error {
	if w.closed {
		return errWriterClosed
	}
	remaining := p
	for {
		if len(remaining) > 0 {
			n := w.win.fill(remaining)
			remaining = remaining[n:]
		}
		finalizing := len(remaining) == 0 && flush != NoFlush
		w.processAvailable(finalizing)
		if len(remaining) == 0 {
			break
		}
	}

	switch flush {
	case NoFlush:
	case Block:
		w.flushPendingLiteral()
		w.emitCurrentBlock(false)
	case PartialFlush:
		w.flushPendingLiteral()
		w.emitCurrentBlock(false)
		writeAlignmentBlock(&w.bw, false)
	case SyncFlush:
		w.flushPendingLiteral()
		w.emitCurrentBlock(false)
		writeStoredBlock(&w.bw, nil, false)
	case FullFlush:
		w.flushPendingLiteral()
		w.emitCurrentBlock(false)
		writeStoredBlock(&w.bw, nil, false)
		w.win.resetHash()
	case Finish:
		w.flushPendingLiteral()
		w.emitCurrentBlock(true)
		w.bw.alignToByte()
		w.closed = true
	}

	if out := w.bw.takePending(); len(out) > 0 {
		n, err := w.dst.Write(out)
		if err != nil {
			return err
		}
		if n < len(out) {
			// dst accepted less than it was handed without returning an
			// error, violating io.Writer's contract: no further progress
			// is possible until the caller gives us a dst that drains.
			return &BufferError{Consumed: len(p), Produced: n}
		}
	}
	return nil
}

// flushPendingLiteral resolves the one-byte lookahead the lazy matcher
// keeps in flight: if a literal is waiting on a match decision that will
// never come because input ran out, tally it now.
func (w *Writer) flushPendingLiteral() {
	if w.matchAvailable {
		w.lb.tallyLiteral(w.win.buf[w.win.strStart-1])
		w.matchAvailable = false
		w.matchLength = minMatch - 1
	}
}

// processAvailable runs the match finder over every byte currently in
// the lookahead, emitting a block whenever the literal buffer fills.
// finalizing allows it to also consume a final short lookahead (below
// minMatch) as literals, which it must not do mid-stream since more
// input could still complete a hashable prefix.
func (w *Writer) processAvailable(finalizing bool) {
	for {
		lookahead := w.win.lookahead()
		if lookahead == 0 {
			return
		}
		if lookahead < minMatch && !finalizing {
			return
		}

		var full bool
		switch {
		case w.opts.Level == 0:
			w.storedChunkStep()
			continue
		case w.opts.Strategy == StrategyHuffmanOnly:
			full = w.literalOnlyStep()
		case w.opts.Strategy == StrategyRLE:
			full = w.rleStep()
		case w.mp.lazy == 0:
			full = w.fastStep()
		default:
			full = w.slowStep()
		}
		if full {
			w.emitCurrentBlock(false)
		}
	}
}

const maxStoredBlockSize = 65535

// storedChunkStep advances strStart by whatever fits in the current
// stored-block chunk, emitting the chunk once it hits the 16-bit LEN
// limit or once strStart reaches the point at which the next fill slides
// the window, so a chunk's bytes never slide out before it is written.
// Level 0 never builds a Huffman tree.
func (w *Writer) storedChunkStep() {
	pending := w.win.strStart - w.win.blockStart
	if pending >= maxStoredBlockSize {
		w.emitStoredChunk(false)
		return
	}
	n := w.win.lookahead()
	if room := maxStoredBlockSize - pending; n > room {
		n = room
	}
	w.win.strStart += n
	if w.win.strStart-w.win.blockStart >= maxStoredBlockSize ||
		w.win.strStart >= 2*w.win.size-(minMatch+maxMatch) {
		w.emitStoredChunk(false)
	}
}

func (w *Writer) emitStoredChunk(final bool) {
	raw := w.win.buf[w.win.blockStart:w.win.strStart]
	w.lastDataType = emitBlock(&w.bw, w.lb, raw, final, true, false)
	w.win.blockStart = w.win.strStart
}

func (w *Writer) emitCurrentBlock(final bool) {
	// Once the block's first bytes have slid out of the window, slide
	// leaves blockStart past strStart; raw is then nil and emitBlock does
	// not choose a stored block.
	var raw []byte
	if w.win.blockStart <= w.win.strStart {
		raw = w.win.buf[w.win.blockStart:w.win.strStart]
	}
	forceStatic := w.opts.Strategy == StrategyFixed
	if w.opts.Level == 0 {
		w.lastDataType = emitBlock(&w.bw, w.lb, raw, final, true, false)
	} else {
		w.lastDataType = emitBlock(&w.bw, w.lb, raw, final, false, forceStatic)
	}
	w.win.blockStart = w.win.strStart
}

// literalOnlyStep implements StrategyHuffmanOnly: every byte is a
// literal, so no distance code is ever transmitted.
func (w *Writer) literalOnlyStep() bool {
	pos := w.win.strStart
	full := w.lb.tallyLiteral(w.win.buf[pos])
	w.win.strStart++
	return full
}

// rleStep implements StrategyRLE: the only match ever attempted is a
// run of the immediately preceding byte.
func (w *Writer) rleStep() bool {
	win := w.win
	pos := win.strStart
	if lookahead := win.lookahead(); lookahead >= minMatch && pos > 0 {
		limit := lookahead
		if limit > maxMatch {
			limit = maxMatch
		}
		b := win.buf[pos-1]
		length := 0
		for length < limit && win.buf[pos+length] == b {
			length++
		}
		if length >= minMatch {
			full := w.lb.tallyMatch(length, 1)
			win.strStart += length
			return full
		}
	}
	full := w.lb.tallyLiteral(win.buf[pos])
	win.strStart++
	return full
}

// fastStep implements the greedy matcher used at levels 1-3
// (matchParams.lazy == 0): the first match found is taken immediately,
// with no one-byte lookahead to see if the next position matches better.
func (w *Writer) fastStep() bool {
	win := w.win
	pos := win.strStart
	lookahead := win.lookahead()
	if lookahead < minMatch {
		full := w.lb.tallyLiteral(win.buf[pos])
		win.strStart++
		return full
	}

	prevHead := win.insert(pos)
	if prevHead >= 0 {
		if length, distance, ok := win.findMatch(pos, prevHead, minMatch-1, lookahead, w.mp); ok &&
			!(w.opts.Strategy == StrategyFiltered && length <= 5) {
			full := w.lb.tallyMatch(length, distance)
			if length <= insertRunLimit {
				w.insertRun(pos+1, length-1)
			}
			win.strStart = pos + length
			return full
		}
	}
	full := w.lb.tallyLiteral(win.buf[pos])
	win.strStart++
	return full
}

// slowStep implements the lazy matcher used at levels 4-9
// (matchParams.lazy > 0): a match found at strStart is held for one byte
// to see if strStart+1 yields a strictly longer one, following the
// classic deflate_slow algorithm.
func (w *Writer) slowStep() bool {
	win := w.win
	pos := win.strStart
	lookahead := win.lookahead()

	prevHead := -1
	if lookahead >= minMatch {
		prevHead = win.insert(pos)
	}

	prevLength := w.matchLength
	prevDistance := w.matchDistance
	w.matchLength = minMatch - 1

	if prevHead >= 0 && prevLength < w.mp.lazy && pos-prevHead <= win.size && lookahead >= minMatch {
		length, distance, ok := win.findMatch(pos, prevHead, minMatch-1, lookahead, w.mp)
		if ok && length <= 5 &&
			(w.opts.Strategy == StrategyFiltered || (length == minMatch && distance > 4096)) {
			ok = false
		}
		if ok {
			w.matchLength = length
			w.matchDistance = distance
		}
	}

	if prevLength >= minMatch && w.matchLength <= prevLength {
		full := w.lb.tallyMatch(prevLength, prevDistance)
		if prevLength <= insertRunLimit {
			w.insertRun(pos+1, prevLength-2)
		}
		win.strStart = pos + prevLength - 1
		w.matchAvailable = false
		w.matchLength = minMatch - 1
		return full
	}
	if w.matchAvailable {
		// The block, if the buffer is now full, must end at pos: the byte
		// at pos is still pending and belongs to the next block.
		if w.lb.tallyLiteral(win.buf[pos-1]) {
			win.strStart = pos
			w.emitCurrentBlock(false)
		}
		win.strStart = pos + 1
		return false
	}
	w.matchAvailable = true
	win.strStart = pos + 1
	return false
}

// insertRunLimit bounds how long a match can be before its interior
// positions stop getting hashed. Very long matches (e.g. runs of a
// single repeated byte) are exceedingly unlikely to be beaten by
// starting a new match a few bytes later, so paying to insert every
// position is wasted work once a match is already this good.
const insertRunLimit = 128

// insertRun hashes the n positions starting at pos, used to keep the
// chain up to date for bytes consumed inside a match. It hashes the
// whole run in one bulkHash3 pass rather than recomputing hash3 per
// position, the same batching deflateLazy's bulk insert applies after
// committing a match.
func (w *Writer) insertRun(pos, n int) {
	win := w.win
	if n <= 0 || win.windowEnd-pos < minMatch {
		return
	}
	if limit := win.windowEnd - minMatch + 1 - pos; n > limit {
		n = limit
	}
	if n <= 0 {
		return
	}
	hashes := w.hashScratch[:n]
	win.bulkHash3(pos, n, hashes)
	for i := 0; i < n; i++ {
		win.insertHashed(pos+i, hashes[i])
	}
}

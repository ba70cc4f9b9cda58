package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dflutter/godeflate"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "deflate:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		level      int
		windowBits int
		memLevel   int
		strategy   string
		flush      string
	)

	cmd := &cobra.Command{
		Use:           "deflate",
		Short:         "Compress stdin to stdout as a raw DEFLATE (RFC 1951) stream",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			strat, err := parseStrategy(strategy)
			if err != nil {
				return err
			}
			flushMode, err := parseFlush(flush)
			if err != nil {
				return err
			}

			opts := deflate.Options{
				Level:      level,
				WindowBits: windowBits,
				MemLevel:   memLevel,
				Strategy:   strat,
			}

			w, err := deflate.NewWriter(os.Stdout, opts)
			if err != nil {
				return err
			}

			if _, err := io.Copy(&flushingWriter{w: w, mode: flushMode}, os.Stdin); err != nil {
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "deflate: data type %s\n", w.DataType())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&level, "level", deflate.DefaultLevel, "compression level (0-9)")
	flags.IntVar(&windowBits, "window-bits", deflate.DefaultWindowBits, "log2 of the sliding window size (9-15)")
	flags.IntVar(&memLevel, "mem-level", deflate.DefaultMemLevel, "log2 of the internal state memory (1-9)")
	flags.StringVar(&strategy, "strategy", "default", "match strategy: default, filtered, huffman-only, rle, fixed")
	flags.StringVar(&flush, "flush", "none", "flush mode applied after each write: none, partial, sync, full, block")

	return cmd
}

// flushingWriter drives every io.Copy chunk through Writer.Write followed
// by the requested Flush mode, so --flush can be exercised from the CLI
// without exposing the whole streaming API to a shell pipeline.
type flushingWriter struct {
	w    *deflate.Writer
	mode deflate.FlushMode
}

func (f *flushingWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil {
		return n, err
	}
	if f.mode != deflate.NoFlush {
		if err := f.w.Flush(f.mode); err != nil {
			return n, err
		}
	}
	return n, nil
}

func parseStrategy(s string) (deflate.Strategy, error) {
	switch s {
	case "default", "":
		return deflate.StrategyDefault, nil
	case "filtered":
		return deflate.StrategyFiltered, nil
	case "huffman-only":
		return deflate.StrategyHuffmanOnly, nil
	case "rle":
		return deflate.StrategyRLE, nil
	case "fixed":
		return deflate.StrategyFixed, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q", s)
	}
}

func parseFlush(s string) (deflate.FlushMode, error) {
	switch s {
	case "none", "":
		return deflate.NoFlush, nil
	case "partial":
		return deflate.PartialFlush, nil
	case "sync":
		return deflate.SyncFlush, nil
	case "full":
		return deflate.FullFlush, nil
	case "block":
		return deflate.Block, nil
	default:
		return 0, fmt.Errorf("unknown flush mode %q", s)
	}
}

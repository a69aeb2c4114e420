// Command subharmonic-wav runs a WAV file through the subharmonic bass
// synthesizer.
//
// Usage:
//
//	subharmonic-wav [flags] input.wav output.wav
//
// Examples:
//
//	subharmonic-wav in.wav out.wav
//	subharmonic-wav -crossover 80 -level 6 in.wav out.wav
//	subharmonic-wav -pregain -report -log-level debug in.wav out.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cwbudde/algo-subharmonic/dsp/effects/subharmonic"
)

const (
	defaultBlockFrames = 1024
	minRequiredArgs    = 2

	// reportFFTSize caps the analysed prefix of the first channel.
	reportFFTSize = 1 << 16
)

var errUsage = errors.New("insufficient arguments")

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "subharmonic-wav: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("subharmonic-wav", flag.ContinueOnError)
	crossover := fs.Int("crossover", subharmonic.DefaultCrossoverHz, "crossover frequency in Hz")
	level := fs.Int("level", subharmonic.DefaultLevelDB, fmt.Sprintf("subharmonic level in dB (%d..%d)", subharmonic.MinLevelDB, subharmonic.MaxLevelDB))
	pregain := fs.Bool("pregain", false, "attenuate the dry signal by 6 dB before mixing")
	block := fs.Int("block", defaultBlockFrames, "frames per processing block")
	report := fs.Bool("report", false, "print a before/after half-frequency analysis of the first channel")
	logLevel := fs.String("log-level", "warn", "log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: subharmonic-wav [flags] input.wav output.wav\n\n")
		fmt.Fprintf(fs.Output(), "Adds a synthesized octave-down bass line to a WAV file.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < minRequiredArgs {
		fs.Usage()
		return errUsage
	}

	lvl, err := resolveLogLevel(*logLevel)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	s := settings{
		crossoverHz: *crossover,
		levelDB:     *level,
		pregain:     *pregain,
		blockFrames: *block,
		report:      *report,
	}

	inputPath, outputPath := fs.Arg(0), fs.Arg(1)

	start := time.Now()

	st, err := processFile(inputPath, outputPath, s, logger)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	fmt.Printf("Processed %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz, %d channels, %d-bit, %d frames\n", st.rate, st.channels, st.bitDepth, st.frames)
	fmt.Printf("  crossover %d Hz, level %+d dB, pregain %t\n", s.crossoverHz, s.levelDB, s.pregain)
	fmt.Printf("  input:  peak %6.2f dBFS, rms %6.2f dBFS\n", st.input.Peak_dB, st.input.RMS_dB)
	fmt.Printf("  output: peak %6.2f dBFS, rms %6.2f dBFS, %d clipped\n", st.output.Peak_dB, st.output.RMS_dB, st.output.Clipped)
	if secs := elapsed.Seconds(); secs > 0 && st.rate > 0 {
		fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n", secs, float64(st.frames)/float64(st.rate)/secs)
	}

	if s.report {
		printReport(os.Stdout, st)
	}

	return nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-subharmonic/dsp/buffer"
	"github.com/cwbudde/algo-subharmonic/dsp/effects/subharmonic"
	"github.com/cwbudde/algo-subharmonic/dsp/pipeline"
	"github.com/cwbudde/algo-subharmonic/measure/level"
	"github.com/cwbudde/algo-subharmonic/measure/subband"
)

// PCM formats the effect accepts, left-aligned to 32 bits.
const (
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	wavFormatPCM = 1
)

var errUnsupportedBitDepth = errors.New("unsupported bit depth")

// settings holds the parsed command line.
type settings struct {
	crossoverHz int
	levelDB     int
	pregain     bool
	blockFrames int
	report      bool
}

// runStats summarises a processed file.
type runStats struct {
	rate     int
	channels int
	bitDepth int
	frames   int64

	// Levels over all channels.
	input  level.Stats
	output level.Stats

	// First-channel prefixes at 32-bit alignment, filled when reporting.
	before []int32
	after  []int32
}

func resolveLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// alignShift returns the left shift that maps a bitDepth sample to int32 full scale.
func alignShift(bitDepth int) (uint, error) {
	switch bitDepth {
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
		return uint(bitsPerSample32 - bitDepth), nil
	default:
		return 0, fmt.Errorf("%w: %d-bit", errUnsupportedBitDepth, bitDepth)
	}
}

// wavInput holds an open, validated input file.
type wavInput struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
	format   *audio.Format
}

func openWAVInput(path string) (*wavInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		_ = f.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	in := &wavInput{
		file:     f,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: int(decoder.BitDepth),
		format:   format,
	}

	if in.rate <= 0 || in.channels <= 0 {
		_ = f.Close()
		return nil, fmt.Errorf("invalid WAV format in %s: %d Hz, %d channels", path, in.rate, in.channels)
	}

	if _, err := alignShift(in.bitDepth); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return in, nil
}

func (w *wavInput) Close() error {
	return w.file.Close()
}

// wavOutput wraps the output file and its encoder.
type wavOutput struct {
	file    *os.File
	encoder *wav.Encoder
}

func createWAVOutput(path string, rate, bitDepth, channels int) (*wavOutput, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutput{
		file:    f,
		encoder: wav.NewEncoder(f, rate, bitDepth, channels, wavFormatPCM),
	}, nil
}

func (w *wavOutput) Write(buf *audio.IntBuffer) error {
	return w.encoder.Write(buf)
}

// Close finalises the WAV header and closes the file.
func (w *wavOutput) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to finalise WAV output: %w", err)
	}
	return w.file.Close()
}

// processor runs interleaved PCM blocks through a pipeline hosting the effect.
type processor struct {
	pipe     *pipeline.Pipeline
	effect   *subharmonic.Effect
	buf      *buffer.Buffer
	rate     int
	channels int
	shift    uint

	inMeter  level.Meter
	outMeter level.Meter
}

func newProcessor(s settings, rate, channels, bitDepth int, logger *slog.Logger) (*processor, error) {
	shift, err := alignShift(bitDepth)
	if err != nil {
		return nil, err
	}

	if rate <= 0 {
		return nil, fmt.Errorf("%w: %d", pipeline.ErrInvalidSampleRate, rate)
	}

	pipe := pipeline.New(
		pipeline.WithOutputFrequency(rate),
		pipeline.WithLogger(logger),
	)

	fx := subharmonic.New(pipe,
		subharmonic.WithCrossover(s.crossoverHz),
		subharmonic.WithLevel(s.levelDB),
		subharmonic.WithPregain(s.pregain),
	)

	if err := pipe.Register(fx.ID(), fx); err != nil {
		return nil, fmt.Errorf("failed to register effect: %w", err)
	}

	fx.SetEnabled(true)
	pipe.SetFormat(buffer.Format{NumChannels: channels, SampleRate: rate})

	return &processor{
		pipe:     pipe,
		effect:   fx,
		buf:      buffer.New(channels, 0),
		rate:     rate,
		channels: channels,
		shift:    shift,
	}, nil
}

// processInterleaved processes data in place and returns the frame count.
// A trailing partial frame is left untouched.
func (p *processor) processInterleaved(data []int) int {
	frames := len(data) / p.channels
	if frames == 0 {
		return 0
	}

	p.buf.Resize(p.channels, frames)
	p.buf.Format.SampleRate = p.rate

	for i := range frames {
		base := i * p.channels
		for ch := range p.channels {
			p.buf.Channels[ch][i] = int32(data[base+ch]) << p.shift
		}
	}

	for _, ch := range p.buf.Channels {
		p.inMeter.Update(ch)
	}

	p.pipe.Process(p.buf)

	for _, ch := range p.buf.Channels {
		p.outMeter.Update(ch)
	}

	for i := range frames {
		base := i * p.channels
		for ch := range p.channels {
			data[base+ch] = int(p.buf.Channels[ch][i] >> p.shift)
		}
	}

	return frames
}

// processFile streams inputPath through the effect into outputPath.
func processFile(inputPath, outputPath string, s settings, logger *slog.Logger) (st *runStats, err error) {
	in, err := openWAVInput(inputPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = in.Close() }()

	logger.Info("input format",
		"path", inputPath,
		"rate", in.rate,
		"channels", in.channels,
		"bits", in.bitDepth)

	if in.channels > subharmonic.MaxChannels {
		logger.Warn("channels beyond the first two pass through unchanged", "channels", in.channels)
	}

	proc, err := newProcessor(s, in.rate, in.channels, in.bitDepth, logger)
	if err != nil {
		return nil, err
	}

	out, err := createWAVOutput(outputPath, in.rate, in.bitDepth, in.channels)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()

	blockFrames := max(1, s.blockFrames)
	ib := &audio.IntBuffer{
		Data:           make([]int, blockFrames*in.channels),
		Format:         in.format,
		SourceBitDepth: in.bitDepth,
	}

	st = &runStats{rate: in.rate, channels: in.channels, bitDepth: in.bitDepth}

	for {
		n, readErr := in.decoder.PCMBuffer(ib)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", readErr)
		}

		frames := n / in.channels
		if frames == 0 {
			break
		}

		ib.Data = ib.Data[:frames*in.channels]

		if s.report {
			st.before = appendFirstChannel(st.before, ib.Data, in.channels, proc.shift)
		}

		proc.processInterleaved(ib.Data)

		if s.report {
			st.after = appendFirstChannel(st.after, ib.Data, in.channels, proc.shift)
		}

		if err := out.Write(ib); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}

		st.frames += int64(frames)
		ib.Data = ib.Data[:cap(ib.Data)]
	}

	st.input = proc.inMeter.Result()
	st.output = proc.outMeter.Result()

	if st.output.Clipped > 0 {
		logger.Warn("output clipped", "samples", st.output.Clipped)
	}

	logger.Debug("processing done", "frames", st.frames, "state", proc.effect.State())

	return st, nil
}

// appendFirstChannel appends up to reportFFTSize first-channel samples.
func appendFirstChannel(dst []int32, data []int, channels int, shift uint) []int32 {
	for i := 0; i < len(data) && len(dst) < reportFFTSize; i += channels {
		dst = append(dst, int32(data[i])<<shift)
	}
	return dst
}

func printReport(w io.Writer, st *runStats) {
	cfg := subband.Config{SampleRate: float64(st.rate), FFTSize: reportFFTSize}

	before, err := subband.Analyze(st.before, cfg)
	if err != nil {
		fmt.Fprintf(w, "  report: %v\n", err)
		return
	}

	// Measure the processed signal at the same fundamental.
	cfg.FundamentalHz = before.FundamentalHz

	after, err := subband.Analyze(st.after, cfg)
	if err != nil {
		fmt.Fprintf(w, "  report: %v\n", err)
		return
	}

	fmt.Fprintf(w, "Half-frequency analysis (channel 0, %d samples)\n", len(st.before))
	fmt.Fprintf(w, "  fundamental %.1f Hz, subharmonic %.1f Hz\n", before.FundamentalHz, before.SubharmonicHz)
	fmt.Fprintf(w, "  before: sub/fund %7.2f dB\n", before.RatioDB)
	fmt.Fprintf(w, "  after:  sub/fund %7.2f dB\n", after.RatioDB)
	fmt.Fprintf(w, "  fundamental band change %+.2f dB\n", powerChangeDB(before.FundamentalPower, after.FundamentalPower))
}

func powerChangeDB(before, after float64) float64 {
	switch {
	case before > 0 && after > 0:
		return 10 * math.Log10(after/before)
	case after > 0:
		return math.Inf(1)
	case before > 0:
		return math.Inf(-1)
	default:
		return 0
	}
}

package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-subharmonic/dsp/effects/subharmonic"
	"github.com/cwbudde/algo-subharmonic/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// writeTestWAV writes interleaved samples and returns the file path.
func writeTestWAV(t *testing.T, rate, bitDepth, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "in.wav")
	out, err := createWAVOutput(path, rate, bitDepth, channels)
	require.NoError(t, err)

	err = out.Write(&audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: bitDepth,
	})
	require.NoError(t, err)
	require.NoError(t, out.Close())

	return path
}

// readTestWAV returns all interleaved samples of path.
func readTestWAV(t *testing.T, path string) (*wavInput, []int) {
	t.Helper()

	in, err := openWAVInput(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = in.Close() })

	var all []int
	buf := &audio.IntBuffer{Data: make([]int, 512*in.channels), Format: in.format}
	for {
		n, err := in.decoder.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			require.NoError(t, err)
		}
		if n == 0 {
			break
		}
		all = append(all, buf.Data[:n]...)
	}

	return in, all
}

func sine16(n int) []int {
	src := testutil.DeterministicSine(220, 44100, 0.5, n)
	out := make([]int, n)
	for i, v := range src {
		out[i] = int(v >> 16)
	}
	return out
}

func TestResolveLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		got, err := resolveLogLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := resolveLogLevel("loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestAlignShift(t *testing.T) {
	for depth, want := range map[int]uint{16: 16, 24: 8, 32: 0} {
		got, err := alignShift(depth)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%d-bit", depth)
	}

	for _, depth := range []int{0, 8, 12, 64} {
		_, err := alignShift(depth)
		require.ErrorIs(t, err, errUnsupportedBitDepth, "%d-bit", depth)
	}
}

func TestOpenWAVInput_FileNotFound(t *testing.T) {
	_, err := openWAVInput("/nonexistent/file.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
}

func TestOpenWAVInput_InvalidWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file"), 0o644))

	_, err := openWAVInput(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WAV file")
}

func TestCreateWAVOutput_InvalidDirectory(t *testing.T) {
	_, err := createWAVOutput("/nonexistent/dir/out.wav", 44100, 16, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestWAVRoundTrip(t *testing.T) {
	data := []int{0, -1, 32767, -32768, 1234, -4321, 7, 8}
	path := writeTestWAV(t, 48000, 16, 2, data)

	in, got := readTestWAV(t, path)
	assert.Equal(t, 48000, in.rate)
	assert.Equal(t, 2, in.channels)
	assert.Equal(t, 16, in.bitDepth)
	assert.Equal(t, data, got)
}

func TestProcessorMatchesEffect(t *testing.T) {
	const rate = 44100

	s := settings{crossoverHz: 120, levelDB: 6, pregain: true}
	proc, err := newProcessor(s, rate, 1, 16, discardLogger())
	require.NoError(t, err)

	ref := subharmonic.New(nil,
		subharmonic.WithSampleRate(rate),
		subharmonic.WithCrossover(120),
		subharmonic.WithLevel(6),
		subharmonic.WithPregain(true),
	)
	ref.SetEnabled(true)

	data := sine16(2048)
	want := make([]int, len(data))
	for i, v := range data {
		want[i] = int(ref.ProcessSample(0, int32(v)<<16) >> 16)
	}

	assert.Equal(t, len(data), proc.processInterleaved(data))
	assert.Equal(t, want, data)
	assert.Equal(t, subharmonic.StateActive, proc.effect.State())
}

func TestProcessorBlockSizeIndependent(t *testing.T) {
	s := settings{crossoverHz: 100, levelDB: 3}

	whole := sine16(1000)
	split := append([]int(nil), whole...)

	a, err := newProcessor(s, 44100, 1, 16, discardLogger())
	require.NoError(t, err)
	a.processInterleaved(whole)

	b, err := newProcessor(s, 44100, 1, 16, discardLogger())
	require.NoError(t, err)
	for start := 0; start < len(split); start += 37 {
		b.processInterleaved(split[start:min(start+37, len(split))])
	}

	assert.Equal(t, whole, split)
}

func TestProcessorPassesExtraChannels(t *testing.T) {
	proc, err := newProcessor(settings{crossoverHz: 100}, 44100, 3, 24, discardLogger())
	require.NoError(t, err)

	const frames = 64
	data := make([]int, frames*3)
	for i := range frames {
		v := 1 << 20
		if i%2 == 1 {
			v = -v
		}
		data[i*3], data[i*3+1], data[i*3+2] = v, v, v
	}
	orig := append([]int(nil), data...)

	proc.processInterleaved(data)

	changed := false
	for i := range frames {
		assert.Equal(t, orig[i*3+2], data[i*3+2], "third channel frame %d", i)
		if data[i*3] != orig[i*3] {
			changed = true
		}
		assert.Equal(t, data[i*3], data[i*3+1], "stereo channels frame %d", i)
	}
	assert.True(t, changed, "first channel should be processed")
}

func TestProcessorRejectsBadInput(t *testing.T) {
	_, err := newProcessor(settings{}, 44100, 1, 8, discardLogger())
	require.ErrorIs(t, err, errUnsupportedBitDepth)

	_, err = newProcessor(settings{}, 0, 1, 16, discardLogger())
	require.Error(t, err)
}

func TestProcessFile(t *testing.T) {
	const rate = 44100

	data := sine16(5000)
	inPath := writeTestWAV(t, rate, 16, 1, data)
	outPath := filepath.Join(t.TempDir(), "out.wav")

	s := settings{crossoverHz: 150, levelDB: 0, blockFrames: 256, report: true}
	st, err := processFile(inPath, outPath, s, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), st.frames)
	assert.Len(t, st.before, len(data))
	assert.Len(t, st.after, len(data))
	assert.Equal(t, len(data), st.input.Length)
	assert.Equal(t, len(data), st.output.Length)
	assert.Zero(t, st.output.Clipped)

	ref, err := newProcessor(s, rate, 1, 16, discardLogger())
	require.NoError(t, err)
	want := append([]int(nil), data...)
	ref.processInterleaved(want)

	in, got := readTestWAV(t, outPath)
	assert.Equal(t, rate, in.rate)
	assert.Equal(t, want, got)

	var report bytes.Buffer
	printReport(&report, st)
	assert.Contains(t, report.String(), "Half-frequency analysis")
}

func TestRunUsage(t *testing.T) {
	err := run([]string{"only-one.wav"})
	require.ErrorIs(t, err, errUsage)

	err = run([]string{"-log-level", "loud", "a.wav", "b.wav"})
	require.Error(t, err)
}

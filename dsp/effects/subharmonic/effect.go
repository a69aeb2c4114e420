package subharmonic

import (
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-subharmonic/dsp/buffer"
	"github.com/cwbudde/algo-subharmonic/dsp/fixed"
	"github.com/cwbudde/algo-subharmonic/dsp/pipeline"
)

// Effect is one subharmonic synthesizer instance.
//
// Parameters, coefficients and the cached sample rate are atomics: setters
// may run on a control goroutine while the audio goroutine processes.
// Process loads the coefficients once per buffer, so a change lands on a
// buffer boundary. Coefficient writers are serialised by coeffMu so the last
// writer always derives from the latest parameters and rate; readers never
// lock. Channel memory belongs to the audio goroutine; lifecycle resets must
// happen between buffers.
type Effect struct {
	id   pipeline.ID
	host pipeline.Host

	coeffMu sync.Mutex

	crossoverHz atomic.Int64
	levelDB     atomic.Int64
	pregain     atomic.Bool
	enabled     atomic.Bool
	sampleRate  atomic.Int64

	alpha atomic.Int32
	gain  atomic.Int32

	state atomic.Int32

	channels [MaxChannels]ChannelState
}

var _ pipeline.Stage = (*Effect)(nil)

// New creates an effect. host may be nil for standalone use; SetEnabled then
// initialises or closes the effect directly instead of going through a
// process table, and Parameters.Enabled initialises it immediately.
//
// With a host, the host owns the enable flag: Parameters.Enabled is ignored,
// EventInit marks the effect enabled and EventClose disables it, so enabling
// through SetEnabled or directly through the host gives the same state.
func New(host pipeline.Host, opts ...Option) *Effect {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	e := &Effect{id: cfg.id, host: host}
	e.crossoverHz.Store(int64(fixed.Clamp(cfg.params.CrossoverHz, 0, MaxCrossoverHz)))
	e.levelDB.Store(int64(cfg.params.LevelDB))
	e.pregain.Store(cfg.params.Pregain)
	e.enabled.Store(host == nil && cfg.params.Enabled)
	e.sampleRate.Store(int64(cfg.sampleRate))
	e.recompute()

	if host == nil && cfg.params.Enabled {
		e.Configure(nil, pipeline.EventInit, 0)
	}

	return e
}

// ID returns the process-table ID of the effect.
func (e *Effect) ID() pipeline.ID { return e.id }

// Parameters returns a snapshot of the current configuration.
func (e *Effect) Parameters() Parameters {
	return Parameters{
		CrossoverHz: int(e.crossoverHz.Load()),
		LevelDB:     int(e.levelDB.Load()),
		Pregain:     e.pregain.Load(),
		Enabled:     e.enabled.Load(),
	}
}

// Coefficients returns the coefficients the next buffer will use.
func (e *Effect) Coefficients() Coefficients {
	return Coefficients{Alpha: e.alpha.Load(), Gain: e.gain.Load()}
}

// SampleRate returns the cached sample rate in Hz.
func (e *Effect) SampleRate() int { return int(e.sampleRate.Load()) }

// State returns the lifecycle state.
func (e *Effect) State() State { return State(e.state.Load()) }

// ChannelState returns a copy of the filter memory of channel ch.
func (e *Effect) ChannelState(ch int) ChannelState {
	if ch < 0 || ch >= MaxChannels {
		return ChannelState{}
	}

	return e.channels[ch]
}

// SetEnabled turns the effect on or off.
//
// Turning on enables the stage in the host (or re-initialises it when it was
// already enabled), then activates it and declares in-place processing.
// Turning off deactivates the stage and disables it if it was enabled.
func (e *Effect) SetEnabled(on bool) {
	e.enabled.Store(on)

	if e.host == nil {
		if on {
			e.Configure(nil, pipeline.EventInit, 1)
		} else {
			e.Configure(nil, pipeline.EventClose, 0)
		}
		return
	}

	wasEnabled := e.host.ProcEnabled(e.id)

	if on {
		if !wasEnabled {
			e.host.EnableProc(e.id, true)
		} else {
			e.host.Configure(e.id, pipeline.EventInit, 1)
		}

		e.host.ActivateProc(e.id, true)
		e.host.SetProcInPlace(e.id, true)

		return
	}

	e.host.ActivateProc(e.id, false)

	if wasEnabled {
		e.host.EnableProc(e.id, false)
	}
}

// SetCrossoverFrequency sets the cutoff of both low-pass stages and
// recomputes the coefficient for the cached sample rate.
func (e *Effect) SetCrossoverFrequency(hz int) {
	hz = fixed.Clamp(hz, 0, MaxCrossoverHz)

	e.coeffMu.Lock()
	defer e.coeffMu.Unlock()

	e.crossoverHz.Store(int64(hz))
	e.alpha.Store(ComputeAlpha(hz, int(e.sampleRate.Load())))
}

// SetLevel sets the subharmonic level, clamped to [MinLevelDB, MaxLevelDB].
func (e *Effect) SetLevel(db int) {
	db = clampLevel(db)

	e.coeffMu.Lock()
	defer e.coeffMu.Unlock()

	e.levelDB.Store(int64(db))
	e.gain.Store(LookupGain(db))
}

// SetPregainEnabled toggles the -6 dB attenuation of the dry signal.
func (e *Effect) SetPregainEnabled(on bool) {
	e.pregain.Store(on)
}

// SetSampleRate changes the cached sample rate without a host. Non-positive
// rates are ignored. Filter memory is kept.
func (e *Effect) SetSampleRate(hz int) {
	if hz <= 0 {
		return
	}

	e.coeffMu.Lock()
	defer e.coeffMu.Unlock()

	e.sampleRate.Store(int64(hz))
	e.recomputeLocked()
}

// Process applies the effect to buf in place. It is a no-op while the effect
// is disabled or not initialised. Channels past MaxChannels are untouched.
func (e *Effect) Process(buf *buffer.Buffer) {
	if buf == nil || !e.ready() {
		return
	}

	alpha := e.alpha.Load()
	gain := e.gain.Load()
	pregain := e.pregain.Load()

	channels := min(buf.NumChannels(), MaxChannels)
	frames := buf.Frames()

	for i := range frames {
		for ch := range channels {
			s := &buf.Channels[ch][i]
			*s = e.channels[ch].Process(*s, alpha, gain, pregain)
		}
	}
}

// ProcessSample runs a single sample of channel ch. Samples of channels past
// MaxChannels, or arriving while the effect cannot process, are returned
// unchanged.
func (e *Effect) ProcessSample(ch int, x int32) int32 {
	if ch < 0 || ch >= MaxChannels || !e.ready() {
		return x
	}

	return e.channels[ch].Process(x, e.alpha.Load(), e.gain.Load(), e.pregain.Load())
}

func (e *Effect) ready() bool {
	if !e.enabled.Load() {
		return false
	}

	st := State(e.state.Load())
	if st == StateFlushed {
		e.state.CompareAndSwap(int32(StateFlushed), int32(StateActive))
	}

	return st.ready()
}

package subharmonic

import (
	"fmt"

	"github.com/cwbudde/algo-subharmonic/dsp/pipeline"
)

// State is the lifecycle state of an Effect.
type State int32

const (
	// StateUninitialized is the state before the first EventInit.
	StateUninitialized State = iota
	// StateActive processes buffers.
	StateActive
	// StateFlushed processes buffers; the next buffer returns to StateActive.
	StateFlushed
	// StateClosed ignores buffers until the next EventInit.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateFlushed:
		return "flushed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ready reports whether buffers may be processed in s.
func (s State) ready() bool {
	return s == StateActive || s == StateFlushed
}

// Configure handles a lifecycle event from the host. h may be nil, in which
// case the cached sample rate is kept. value is ignored.
func (e *Effect) Configure(h pipeline.Host, ev pipeline.Event, _ int64) pipeline.Status {
	switch ev {
	case pipeline.EventInit:
		e.resetChannels()
		e.retune(h)
		e.enabled.Store(true)
		e.state.Store(int32(StateActive))

	case pipeline.EventClose:
		e.resetChannels()
		e.enabled.Store(false)
		e.state.Store(int32(StateClosed))

	case pipeline.EventFlush:
		// Coefficients and parameters are untouched.
		e.resetChannels()
		e.state.CompareAndSwap(int32(StateActive), int32(StateFlushed))

	case pipeline.EventSetOutFrequency:
		// Filter memory stays valid across a coefficient change.
		e.retune(h)

	case pipeline.EventNewFormat:
		return pipeline.StatusFormatOK
	}

	return pipeline.StatusOK
}

func (e *Effect) resetChannels() {
	for ch := range e.channels {
		e.channels[ch].Reset()
	}
}

// retune captures the host rate, if any, and recomputes the coefficients.
func (e *Effect) retune(h pipeline.Host) {
	e.coeffMu.Lock()
	defer e.coeffMu.Unlock()

	if h != nil {
		if hz := h.OutputFrequency(); hz > 0 {
			e.sampleRate.Store(int64(hz))
		}
	}

	e.recomputeLocked()
}

func (e *Effect) recompute() {
	e.coeffMu.Lock()
	defer e.coeffMu.Unlock()

	e.recomputeLocked()
}

// recomputeLocked derives all coefficients from the stored parameters.
// coeffMu must be held.
func (e *Effect) recomputeLocked() {
	e.alpha.Store(ComputeAlpha(int(e.crossoverHz.Load()), int(e.sampleRate.Load())))
	// The level is clamped by SetLevel too; the stored value may still come
	// from construction options.
	e.gain.Store(LookupGain(clampLevel(int(e.levelDB.Load()))))
}

package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cwbudde/algo-subharmonic/dsp/buffer"
)

var (
	// ErrDuplicateStage is returned when an ID is registered twice.
	ErrDuplicateStage = errors.New("duplicate stage")
	// ErrInvalidSampleRate is returned for non-positive output frequencies.
	ErrInvalidSampleRate = errors.New("invalid sample rate")
)

type entry struct {
	id      ID
	stage   Stage
	enabled bool
	active  bool
	inPlace bool
}

// link is an immutable snapshot of one chain member.
type link struct {
	id      ID
	stage   Stage
	inPlace bool
}

// Pipeline is a process table plus the per-buffer chain built from it.
//
// Table mutations are serialised by an internal lock. Stage callbacks run
// without the lock held, so a stage may query the host from Configure.
// Control calls (enable, activate, flush, rate and format changes) are
// expected from one control context at a time and only between buffers.
type Pipeline struct {
	mu      sync.RWMutex
	entries []*entry
	byID    map[ID]*entry
	chain   []link

	outputFrequency int
	format          buffer.Format

	logger  *slog.Logger
	scratch *buffer.Pool
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Pipeline{
		byID:            make(map[ID]*entry),
		outputFrequency: cfg.outputFrequency,
		logger:          cfg.logger,
		scratch:         buffer.NewPool(),
	}
}

// Register adds a stage to the process table. New stages start disabled
// and inactive.
func (p *Pipeline) Register(id ID, stage Stage) error {
	if id == "" {
		return errors.New("empty stage id")
	}

	if stage == nil {
		return errors.New("nil stage")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byID[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateStage, id)
	}

	e := &entry{id: id, stage: stage}
	p.entries = append(p.entries, e)
	p.byID[id] = e

	return nil
}

// MustRegister is like Register but panics on error.
func (p *Pipeline) MustRegister(id ID, stage Stage) {
	err := p.Register(id, stage)
	if err != nil {
		panic("pipeline: " + err.Error())
	}
}

// Lookup returns the stage registered under id, or nil.
func (p *Pipeline) Lookup(id ID) Stage {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if e := p.byID[id]; e != nil {
		return e.stage
	}

	return nil
}

// OutputFrequency returns the current output sample rate in Hz.
func (p *Pipeline) OutputFrequency() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.outputFrequency
}

// Format returns the current stream format.
func (p *Pipeline) Format() buffer.Format {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.format
}

// ProcEnabled reports whether the stage is enabled.
func (p *Pipeline) ProcEnabled(id ID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	e := p.byID[id]

	return e != nil && e.enabled
}

// ProcActive reports whether the stage is part of the processing chain.
func (p *Pipeline) ProcActive(id ID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	e := p.byID[id]

	return e != nil && e.active
}

// ProcInPlace reports whether the stage processes the host buffer directly.
func (p *Pipeline) ProcInPlace(id ID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	e := p.byID[id]

	return e != nil && e.inPlace
}

// EnableProc enables or disables a stage. Enabling sends EventInit; disabling
// deactivates the stage and sends EventClose. Repeating the current state is
// a no-op.
func (p *Pipeline) EnableProc(id ID, on bool) {
	p.mu.Lock()

	e := p.byID[id]
	if e == nil {
		p.mu.Unlock()
		p.logger.Warn("enable of unknown stage", "stage", id)
		return
	}

	if e.enabled == on {
		p.mu.Unlock()
		return
	}

	stage := e.stage

	if !on {
		e.enabled = false
		e.active = false
		p.rebuildChainLocked()
	}

	p.mu.Unlock()

	if on {
		p.dispatch(id, stage, EventInit, 0)

		p.mu.Lock()
		e.enabled = true
		p.rebuildChainLocked()
		p.mu.Unlock()
	} else {
		p.dispatch(id, stage, EventClose, 0)
	}

	p.logger.Debug("stage enable changed", "stage", id, "enabled", on)
}

// ActivateProc inserts or removes a stage from the processing chain.
// Only enabled stages can be activated.
func (p *Pipeline) ActivateProc(id ID, on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e := p.byID[id]
	if e == nil {
		p.logger.Warn("activate of unknown stage", "stage", id)
		return
	}

	if on && !e.enabled {
		p.logger.Warn("activate of disabled stage ignored", "stage", id)
		return
	}

	e.active = on
	p.rebuildChainLocked()
	p.logger.Debug("stage activation changed", "stage", id, "active", on)
}

// SetProcInPlace marks whether a stage may write into the host buffer.
func (p *Pipeline) SetProcInPlace(id ID, on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e := p.byID[id]
	if e == nil {
		p.logger.Warn("in-place flag for unknown stage", "stage", id)
		return
	}

	e.inPlace = on
	p.rebuildChainLocked()
}

// Configure delivers ev to a single stage regardless of its flags.
func (p *Pipeline) Configure(id ID, ev Event, value int64) Status {
	p.mu.RLock()
	e := p.byID[id]
	p.mu.RUnlock()

	if e == nil {
		p.logger.Warn("configure of unknown stage", "stage", id, "event", ev.String())
		return StatusOK
	}

	return p.dispatch(id, e.stage, ev, value)
}

// SetOutputFrequency records a new output rate and notifies enabled stages.
func (p *Pipeline) SetOutputFrequency(hz int) error {
	if hz <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, hz)
	}

	p.mu.Lock()
	p.outputFrequency = hz
	p.mu.Unlock()

	p.broadcast(EventSetOutFrequency, int64(hz))

	return nil
}

// Flush notifies enabled stages of a stream discontinuity.
func (p *Pipeline) Flush() {
	p.broadcast(EventFlush, 0)
}

// SetFormat records a new stream format and notifies enabled stages.
// Stages answering StatusFormatDeactivated are removed from the chain.
func (p *Pipeline) SetFormat(f buffer.Format) {
	p.mu.Lock()
	p.format = f
	p.mu.Unlock()

	for id, st := range p.broadcast(EventNewFormat, 0) {
		if st == StatusFormatDeactivated {
			p.ActivateProc(id, false)
		}
	}
}

// Process runs every enabled, active stage over buf in registration order.
func (p *Pipeline) Process(buf *buffer.Buffer) {
	if buf == nil {
		return
	}

	p.mu.RLock()
	chain := p.chain
	p.mu.RUnlock()

	for _, l := range chain {
		if l.inPlace {
			l.stage.Process(buf)
			continue
		}

		work := p.scratch.Get(0, 0)
		work.CopyFrom(buf)
		l.stage.Process(work)

		for ch := range min(len(buf.Channels), len(work.Channels)) {
			copy(buf.Channels[ch], work.Channels[ch])
		}

		p.scratch.Put(work)
	}
}

func (p *Pipeline) broadcast(ev Event, value int64) map[ID]Status {
	p.mu.RLock()

	targets := make([]link, 0, len(p.entries))
	for _, e := range p.entries {
		if e.enabled {
			targets = append(targets, link{id: e.id, stage: e.stage})
		}
	}

	p.mu.RUnlock()

	statuses := make(map[ID]Status, len(targets))
	for _, t := range targets {
		statuses[t.id] = p.dispatch(t.id, t.stage, ev, value)
	}

	return statuses
}

func (p *Pipeline) dispatch(id ID, stage Stage, ev Event, value int64) Status {
	st := stage.Configure(p, ev, value)
	p.logger.Debug("stage event", "stage", id, "event", ev.String(), "status", st.String())

	return st
}

// rebuildChainLocked replaces the chain snapshot. The previous slice is never
// mutated, so Process may keep iterating over it.
func (p *Pipeline) rebuildChainLocked() {
	chain := make([]link, 0, len(p.entries))
	for _, e := range p.entries {
		if e.enabled && e.active {
			chain = append(chain, link{id: e.id, stage: e.stage, inPlace: e.inPlace})
		}
	}

	p.chain = chain
}

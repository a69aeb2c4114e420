package pipeline

import "github.com/cwbudde/algo-subharmonic/dsp/buffer"

// ID names a stage in the process table.
type ID string

// Stage is one processing step hosted by a Pipeline.
type Stage interface {
	// Configure reacts to a lifecycle event. value is opaque to the host.
	Configure(h Host, ev Event, value int64) Status
	// Process transforms buf in place. It must not block or allocate.
	Process(buf *buffer.Buffer)
}

// Host is the view of the pipeline that stages may call back into.
type Host interface {
	OutputFrequency() int
	ProcEnabled(id ID) bool
	EnableProc(id ID, on bool)
	ActivateProc(id ID, on bool)
	SetProcInPlace(id ID, on bool)
	Configure(id ID, ev Event, value int64) Status
}

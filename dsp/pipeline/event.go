package pipeline

import "fmt"

// Event is a stream lifecycle notification delivered to a stage.
type Event int

const (
	// EventInit prepares a stage for processing. Sent when a stage is enabled.
	EventInit Event = iota
	// EventClose tears a stage down. Sent when a stage is disabled.
	EventClose
	// EventFlush signals a discontinuity such as a seek.
	EventFlush
	// EventSetOutFrequency signals that OutputFrequency changed.
	EventSetOutFrequency
	// EventNewFormat signals a channel-count or encoding change.
	EventNewFormat
)

func (e Event) String() string {
	switch e {
	case EventInit:
		return "init"
	case EventClose:
		return "close"
	case EventFlush:
		return "flush"
	case EventSetOutFrequency:
		return "set-out-frequency"
	case EventNewFormat:
		return "new-format"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Status is a stage's answer to an Event.
type Status int

const (
	// StatusOK acknowledges the event.
	StatusOK Status = iota
	// StatusFormatOK accepts a new format.
	StatusFormatOK
	// StatusFormatDeactivated rejects a new format; the host deactivates the stage.
	StatusFormatDeactivated
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFormatOK:
		return "format-ok"
	case StatusFormatDeactivated:
		return "format-deactivated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

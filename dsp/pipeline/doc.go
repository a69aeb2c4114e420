// Package pipeline hosts fixed-point processing stages for one audio stream.
//
// A Pipeline keeps a process table keyed by stage ID. Every entry carries
// three independent flags: enabled (the stage has been initialised and may
// run), active (the stage is inserted into the per-buffer chain), and
// in-place (the stage may write directly into the host buffer). Stream
// lifecycle changes reach stages as Events through Stage.Configure.
package pipeline

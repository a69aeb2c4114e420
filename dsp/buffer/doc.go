// Package buffer provides the planar 32-bit sample buffers that the host
// pipeline hands to its processing stages, plus a pool for reusing them.
//
// Each channel is a separate []int32. Count is the number of valid frames;
// stages must not touch samples past it.
package buffer

// Package level provides a streaming level meter for Q31-aligned int32
// audio: peak, RMS and DC in dBFS plus a count of samples at the rails.
package level

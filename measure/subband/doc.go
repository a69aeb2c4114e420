// Package subband measures how much energy a signal carries at half of its
// fundamental frequency relative to the fundamental itself.
//
// Input is full-scale int32 audio as processed by the subharmonic effect.
// The signal is Hann-windowed and transformed once; power is summed over a
// few bins around each target frequency so that window leakage is captured.
package subband

// Package subharmonic implements a fixed-point subharmonic synthesizer.
//
// The effect halves the frequency of the bass band with a sample-and-hold
// toggle and mixes the result back into the dry signal. Per channel and per
// sample it runs four stages:
//
//  1. crossover: a one-pole low-pass that band-limits the input,
//  2. sample-and-hold: the held value is refreshed on every second sample,
//  3. anti-alias: a second one-pole low-pass with the same coefficient,
//  4. mixer: dry signal (optionally -6 dB) plus the gain-scaled subharmonic,
//     saturated to the int32 range.
//
// All arithmetic is Q16 with 64-bit accumulators. Up to MaxChannels channels
// are processed; any further channels pass through untouched.
//
// The synthesized component is new energy, so loud bass material can clip at
// high levels. Saturation is the intended behaviour; enabling pregain trades
// 6 dB of dry level for headroom.
package subharmonic

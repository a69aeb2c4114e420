// Package fixed provides Q16 fixed-point primitives for 32-bit integer audio.
//
// Multiplications widen to int64 before shifting so that the product of a
// Q16 coefficient and a full-scale sample never overflows. Shifts are
// arithmetic, which truncates toward negative infinity.
package fixed

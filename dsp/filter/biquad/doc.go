// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. [Peaking] designs a
// peaking-EQ section from precomputed trigonometric terms, which lets callers
// that already track cos(w0) and alpha per sample build coefficients without
// repeating transcendental calls.
//
// Pole/zero and frequency-response analysis helpers support filter
// verification; they are not intended for real-time paths.
package biquad

package biquad

import (
	"fmt"
	"math"
)

// Peaking designs a peaking-EQ section from precomputed trigonometric terms:
// cosW0 = cos(w0), alpha = sin(w0)/(2*Q), and the linear resonance gain
// (RBJ cookbook sqrt-gain convention). gain must be > 0; the returned
// coefficients are normalized so a0 = 1.
//
// Callers that sweep the center frequency per sample can compute cosW0 and
// alpha once and share them across channels; only this cheap algebra remains
// per filter instance.
func Peaking(cosW0, alpha, gain float64) Coefficients {
	invA0 := 1 / (1 + alpha/gain)

	return Coefficients{
		B0: (1 + alpha*gain) * invA0,
		B1: -2 * cosW0 * invA0,
		B2: (1 - alpha*gain) * invA0,
		A1: -2 * cosW0 * invA0,
		A2: (1 - alpha/gain) * invA0,
	}
}

// PeakingAt designs a peaking-EQ section centered at centerHz.
// centerHz must lie in (0, sampleRate/2); q and gain must be > 0.
func PeakingAt(centerHz, sampleRate, q, gain float64) (Coefficients, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Coefficients{}, fmt.Errorf("biquad sample rate must be > 0 and finite: %f", sampleRate)
	}

	if centerHz <= 0 || centerHz >= sampleRate/2 {
		return Coefficients{}, fmt.Errorf("biquad center frequency must be in (0, %f): %f", sampleRate/2, centerHz)
	}

	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return Coefficients{}, fmt.Errorf("biquad Q must be > 0 and finite: %f", q)
	}

	if gain <= 0 || math.IsNaN(gain) || math.IsInf(gain, 0) {
		return Coefficients{}, fmt.Errorf("biquad gain must be > 0 and finite: %f", gain)
	}

	w0 := 2 * math.Pi * centerHz / sampleRate

	return Peaking(math.Cos(w0), math.Sin(w0)/(2*q), gain), nil
}

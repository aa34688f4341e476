// Package spectrum computes magnitude spectra for filter verification.
// It is measurement tooling, not a real-time path: functions allocate.
package spectrum

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Analyze returns the single-sided magnitude spectrum of block, computed
// with an FFT of the next power-of-two length. The result holds fftSize/2+1
// bins; bin k corresponds to frequency k*sampleRate/fftSize (see
// [BinFrequency]).
func Analyze(block []float64) ([]float64, error) {
	if len(block) == 0 {
		return nil, fmt.Errorf("spectrum: input must not be empty")
	}

	fftSize := nextPowerOf2(len(block))

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range block {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mags := make([]float64, bins)
	vecmath.Magnitude(mags, re, im)

	return mags, nil
}

// PeakBin returns the index of the largest magnitude, ignoring the DC bin.
func PeakBin(mags []float64) int {
	if len(mags) < 2 {
		return 0
	}

	peak := 1
	for i := 2; i < len(mags); i++ {
		if mags[i] > mags[peak] {
			peak = i
		}
	}

	return peak
}

// BinFrequency converts a bin index of an n-point FFT to Hz.
func BinFrequency(bin, n int, sampleRate float64) float64 {
	if n <= 0 {
		return 0
	}

	return float64(bin) * sampleRate / float64(n)
}

// FFTSize returns the FFT length [Analyze] uses for a block of the given
// length.
func FFTSize(blockLen int) int {
	return nextPowerOf2(blockLen)
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size *= 2
	}

	return size
}

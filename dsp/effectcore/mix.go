package effectcore

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Gains below this threshold contribute nothing audible and are skipped.
const gainSilenceThreshold = 1e-5

// MixSamples mixes data additively into each output bus, cross-fading the
// bus gain linearly from currentGains[o] to targetGains[o] over counter
// samples and holding at the target once reached. currentGains is advanced
// in place to the gain actually reached, so repeated calls converge exactly
// and then stay put.
//
// counter <= 0 snaps gains to their targets without a fade. Existing bus
// content is always preserved; multiple effects summing into the same bus
// never clobber each other. scratch is per-call working storage for the
// steady-state block path and must hold at least len(data) samples; a nil
// or short scratch falls back to a scalar loop. No allocation either way.
func MixSamples(data []float64, outs [][]float64, currentGains, targetGains []float64, counter int, scratch []float64) {
	n := len(data)
	buses := len(outs)

	if buses > len(currentGains) {
		buses = len(currentGains)
	}

	if buses > len(targetGains) {
		buses = len(targetGains)
	}

	for o := 0; o < buses; o++ {
		out := outs[o][:n]
		current := currentGains[o]
		target := targetGains[o]

		i := 0

		if current != target {
			if counter <= 0 {
				current = target
			} else {
				step := (target - current) / float64(counter)

				ramp := counter
				if ramp > n {
					ramp = n
				}

				for ; i < ramp; i++ {
					current += step
					out[i] += data[i] * current
				}

				if ramp == counter {
					current = target
				}
			}

			currentGains[o] = current
		}

		if i < n && math.Abs(current) > gainSilenceThreshold {
			accumulateScaled(out[i:], data[i:], current, scratch)
		}
	}
}

// accumulateScaled adds src*gain into out without disturbing existing out
// content.
func accumulateScaled(out, src []float64, gain float64, scratch []float64) {
	if len(scratch) >= len(src) {
		tmp := scratch[:len(src)]
		vecmath.ScaleBlock(tmp, src, gain)
		vecmath.AddBlockInPlace(out, tmp)
		return
	}

	for i := range src {
		out[i] += src[i] * gain
	}
}

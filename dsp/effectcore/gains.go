package effectcore

// AmbiIdentityRow returns a gain row of length n routing channel i to itself
// at unit weight. Indices outside [0, n) yield an all-zero row.
func AmbiIdentityRow(i, n int) []float64 {
	row := make([]float64, n)
	if i >= 0 && i < n {
		row[i] = 1
	}

	return row
}

// ComputePanGains fills dst with the per-output-channel gains for one wet
// channel: coeffs scaled by gain, truncated to the target's channel count.
// Entries past the target's channels are zeroed. dst is typically a
// pre-sized target-gain vector; no allocation occurs.
func ComputePanGains(target Target, coeffs []float64, gain float64, dst []float64) {
	n := target.Channels
	if n > len(dst) {
		n = len(dst)
	}

	if n > len(coeffs) {
		n = len(coeffs)
	}

	for o := 0; o < n; o++ {
		dst[o] = coeffs[o] * gain
	}

	for o := n; o < len(dst); o++ {
		dst[o] = 0
	}
}

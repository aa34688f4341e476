package autowah

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-autowah/dsp/core"
	"github.com/cwbudde/algo-autowah/dsp/effectcore"
	"github.com/cwbudde/algo-autowah/dsp/filter/biquad"
	"github.com/cwbudde/algo-vecmath"
)

func newTestEffect(t *testing.T, sampleRate float64, maxBlock, channels int) (*AutoWah, *effectcore.Context) {
	t.Helper()

	device := &effectcore.Device{
		SampleRate:   sampleRate,
		MaxBlockSize: maxBlock,
		Channels:     channels,
	}

	w := New()
	if err := w.DeviceUpdate(device); err != nil {
		t.Fatalf("DeviceUpdate() error = %v", err)
	}

	return w, effectcore.NewContext(device, nil)
}

func makeBuses(channels, n int) [][]float64 {
	out := make([][]float64, channels)
	for i := range out {
		out[i] = make([]float64, n)
	}

	return out
}

func configure(t *testing.T, w *AutoWah, ctx *effectcore.Context, p *Params, wet int, gain float64, out [][]float64) {
	t.Helper()

	slot, err := effectcore.NewSlot(wet, gain)
	if err != nil {
		t.Fatalf("NewSlot() error = %v", err)
	}

	w.Update(ctx, slot, p, effectcore.Target{Buffer: out, Channels: len(out)})
}

func TestDeviceUpdateRejectsBadGeometry(t *testing.T) {
	w := New()

	if err := w.DeviceUpdate(nil); err == nil {
		t.Error("expected error for nil device")
	}

	if err := w.DeviceUpdate(&effectcore.Device{SampleRate: 44100, Channels: 2}); err == nil {
		t.Error("expected error for zero block size")
	}

	if err := w.DeviceUpdate(&effectcore.Device{
		SampleRate:   44100,
		MaxBlockSize: 256,
		Channels:     effectcore.MaxOutputChannels + 1,
	}); err == nil {
		t.Error("expected error for oversized channel count")
	}
}

func TestDeviceUpdateSafeDefaults(t *testing.T) {
	w, _ := newTestEffect(t, 44100, 256, 2)

	if w.attackRate != 1 || w.releaseRate != 1 {
		t.Errorf("decay rates = %v, %v, want 1, 1", w.attackRate, w.releaseRate)
	}

	if w.resonanceGain != 10 || w.peakGain != 4.5 {
		t.Errorf("gains = %v, %v, want 10, 4.5", w.resonanceGain, w.peakGain)
	}

	if w.freqMinNorm != 4.5e-4 || w.bandwidthNorm != 0.05 {
		t.Errorf("freq norms = %v, %v, want 4.5e-4, 0.05", w.freqMinNorm, w.bandwidthNorm)
	}

	if w.envDelay != 0 {
		t.Errorf("envelope = %v, want 0", w.envDelay)
	}

	if len(w.env) != 256 || len(w.bufferOut) != 256 {
		t.Errorf("scratch sizes = %d, %d, want 256", len(w.env), len(w.bufferOut))
	}

	if len(w.chans) != effectcore.MaxAmbiChannels {
		t.Errorf("channel states = %d, want %d", len(w.chans), effectcore.MaxAmbiChannels)
	}
}

func TestDeviceUpdateClearsProcessingState(t *testing.T) {
	w, ctx := newTestEffect(t, 44100, 128, 1)
	out := makeBuses(1, 128)
	configure(t, w, ctx, DefaultParams(), 1, 1, out)

	in := [][]float64{make([]float64, 128)}
	for i := range in[0] {
		in[0][i] = 0.9
	}

	w.Process(128, in, 1, out)

	if w.envDelay == 0 {
		t.Fatal("expected non-zero envelope after loud input")
	}

	if err := w.DeviceUpdate(ctx.Device); err != nil {
		t.Fatalf("DeviceUpdate() error = %v", err)
	}

	if w.envDelay != 0 {
		t.Errorf("envelope after reinit = %v, want 0", w.envDelay)
	}

	for c := range w.chans {
		if w.chans[c].z1 != 0 || w.chans[c].z2 != 0 {
			t.Fatalf("channel %d filter memory = %v, %v, want zeros", c, w.chans[c].z1, w.chans[c].z2)
		}

		for o, g := range w.chans[c].currentGains {
			if g != 0 {
				t.Fatalf("channel %d current gain[%d] = %v, want 0", c, o, g)
			}
		}
	}
}

func TestUpdateDerivesRuntimeCoefficients(t *testing.T) {
	w, ctx := newTestEffect(t, 44100, 256, 2)

	p := DefaultParams()
	p.AttackTime = 0.0625
	configure(t, w, ctx, p, 1, 1, makeBuses(2, 256))

	// exp(-1/(0.0625*44100)) per the envelope-follower derivation.
	if !core.NearlyEqual(w.attackRate, 0.999637, 1e-6) {
		t.Errorf("attack rate = %v, want ~0.999637", w.attackRate)
	}

	wantResGain := math.Sqrt(math.Log10(p.Resonance) * 10 / 3)
	if w.resonanceGain != wantResGain {
		t.Errorf("resonance gain = %v, want %v", w.resonanceGain, wantResGain)
	}

	wantPeak := 1 - math.Log10(p.PeakGain/MaxPeakGain)
	if w.peakGain != wantPeak {
		t.Errorf("peak gain factor = %v, want %v", w.peakGain, wantPeak)
	}

	if w.freqMinNorm != minFreqHz/44100 {
		t.Errorf("min freq norm = %v, want %v", w.freqMinNorm, minFreqHz/44100)
	}

	if w.bandwidthNorm != (maxFreqHz-minFreqHz)/44100 {
		t.Errorf("bandwidth norm = %v, want %v", w.bandwidthNorm, (maxFreqHz-minFreqHz)/44100)
	}
}

func TestUpdateClampsReleaseTime(t *testing.T) {
	w, ctx := newTestEffect(t, 44100, 256, 1)

	p := DefaultParams()
	p.ReleaseTime = MinReleaseTime // valid to store, clamped when deriving the rate
	configure(t, w, ctx, p, 1, 1, makeBuses(1, 256))

	want := math.Exp(-1 / (0.001 * 44100))
	if w.releaseRate != want {
		t.Errorf("release rate = %v, want %v (clamped to 1 ms)", w.releaseRate, want)
	}
}

func TestUpdateNeutralResonanceDerivation(t *testing.T) {
	w, ctx := newTestEffect(t, 44100, 256, 1)

	// Resonance 1.0 is below the settable range, but the derivation itself
	// must map it to a neutral (zero) resonance gain.
	p := DefaultParams()
	p.Resonance = 1.0
	configure(t, w, ctx, p, 1, 1, makeBuses(1, 256))

	if w.resonanceGain != 0 {
		t.Errorf("resonance gain = %v, want 0", w.resonanceGain)
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	w, ctx := newTestEffect(t, 48000, 256, 2)

	p := DefaultParams()
	p.AttackTime = 0.2
	p.Resonance = 500

	out := makeBuses(2, 256)
	configure(t, w, ctx, p, 2, 0.75, out)

	type snapshot struct {
		attackRate, releaseRate, resonanceGain, peakGain, freqMinNorm, bandwidthNorm float64
		targets                                                                     [][]float64
	}

	capture := func() snapshot {
		s := snapshot{
			attackRate:    w.attackRate,
			releaseRate:   w.releaseRate,
			resonanceGain: w.resonanceGain,
			peakGain:      w.peakGain,
			freqMinNorm:   w.freqMinNorm,
			bandwidthNorm: w.bandwidthNorm,
		}
		for c := range w.chans {
			gains := make([]float64, len(w.chans[c].targetGains))
			copy(gains, w.chans[c].targetGains)
			s.targets = append(s.targets, gains)
		}

		return s
	}

	first := capture()
	configure(t, w, ctx, p, 2, 0.75, out)
	second := capture()

	if first.attackRate != second.attackRate || first.releaseRate != second.releaseRate ||
		first.resonanceGain != second.resonanceGain || first.peakGain != second.peakGain ||
		first.freqMinNorm != second.freqMinNorm || first.bandwidthNorm != second.bandwidthNorm {
		t.Error("runtime coefficients differ between identical updates")
	}

	for c := range first.targets {
		for o := range first.targets[c] {
			if first.targets[c][o] != second.targets[c][o] {
				t.Fatalf("target gain [%d][%d] differs: %v vs %v",
					c, o, first.targets[c][o], second.targets[c][o])
			}
		}
	}
}

func TestSilenceKeepsEnvelopeAtRest(t *testing.T) {
	w, ctx := newTestEffect(t, 44100, 256, 1)
	out := makeBuses(1, 256)
	configure(t, w, ctx, DefaultParams(), 1, 1, out)

	in := [][]float64{make([]float64, 256)}
	w.Process(256, in, 1, out)

	if w.envDelay != 0 {
		t.Fatalf("envelope after silence = %v, want 0", w.envDelay)
	}

	// At rest the filter sits at the minimum center frequency.
	w0 := w.freqMinNorm * (2 * math.Pi)
	wantCos := math.Cos(w0)
	wantAlpha := math.Sin(w0) / (2 * qFactor)

	for i := 0; i < 256; i++ {
		if w.env[i].cosW0 != wantCos || w.env[i].alpha != wantAlpha {
			t.Fatalf("sample %d shape = (%v, %v), want (%v, %v)",
				i, w.env[i].cosW0, w.env[i].alpha, wantCos, wantAlpha)
		}
	}
}

func TestEnvelopeStepConvergence(t *testing.T) {
	const (
		sampleRate = 44100.0
		block      = 1024
		amplitude  = 0.1
	)

	w, ctx := newTestEffect(t, sampleRate, block, 1)
	out := makeBuses(1, block)

	p := DefaultParams()
	p.AttackTime = 0.0625
	p.ReleaseTime = 0.25
	configure(t, w, ctx, p, 1, 1, out)

	in := [][]float64{make([]float64, block)}
	for i := range in[0] {
		in[0][i] = amplitude
	}

	w.Process(block, in, 1, out)

	// Rising step from rest: env_n = T*(1 - attackRate^n).
	target := w.peakGain * amplitude
	wantRise := target * (1 - math.Pow(w.attackRate, block))

	if !core.NearlyEqual(w.envDelay, wantRise, 1e-9) {
		t.Errorf("envelope after rising step = %v, want %v", w.envDelay, wantRise)
	}

	// Falling step to silence: env_m = env_0 * releaseRate^m.
	envBefore := w.envDelay
	silence := [][]float64{make([]float64, block)}
	w.Process(block, silence, 1, out)

	wantFall := envBefore * math.Pow(w.releaseRate, block)
	if !core.NearlyEqual(w.envDelay, wantFall, 1e-9) {
		t.Errorf("envelope after falling step = %v, want %v", w.envDelay, wantFall)
	}
}

func TestEnvelopePersistsAcrossBlocks(t *testing.T) {
	const block = 128

	wOne, ctxOne := newTestEffect(t, 44100, 2*block, 1)
	wTwo, ctxTwo := newTestEffect(t, 44100, 2*block, 1)

	p := DefaultParams()
	configure(t, wOne, ctxOne, p, 1, 1, makeBuses(1, 2*block))
	configure(t, wTwo, ctxTwo, p, 1, 1, makeBuses(1, 2*block))

	in := make([]float64, 2*block)
	for i := range in {
		in[i] = 0.5 * math.Sin(float64(i)/7)
	}

	wOne.Process(2*block, [][]float64{in}, 1, makeBuses(1, 2*block))

	wTwo.Process(block, [][]float64{in[:block]}, 1, makeBuses(1, block))
	wTwo.Process(block, [][]float64{in[block:]}, 1, makeBuses(1, block))

	if wOne.envDelay != wTwo.envDelay {
		t.Errorf("split-block envelope = %v, full-block = %v", wTwo.envDelay, wOne.envDelay)
	}
}

func TestCenterFrequencyClamped(t *testing.T) {
	const block = 256

	w, ctx := newTestEffect(t, 44100, block, 1)
	out := makeBuses(1, block)

	// Minimum peak-gain parameter maximizes the envelope boost, driving the
	// sweep far past the ceiling.
	p := DefaultParams()
	p.AttackTime = MinAttackTime
	p.PeakGain = MinPeakGain
	configure(t, w, ctx, p, 1, 1, out)

	in := [][]float64{make([]float64, block)}
	for i := range in[0] {
		in[0][i] = 5
	}

	w.Process(block, in, 1, out)

	clampedW0 := float64(maxFreqNorm) * (2 * math.Pi)
	clampedCos := math.Cos(clampedW0)
	clampedAlpha := math.Sin(clampedW0) / (2 * qFactor)

	// w0 <= 0.46*2pi < pi, and cos is decreasing there, so the clamp shows
	// up as a floor on cosW0.
	for i := 0; i < block; i++ {
		if w.env[i].cosW0 < clampedCos {
			t.Fatalf("sample %d: cosW0 = %v below clamp floor %v", i, w.env[i].cosW0, clampedCos)
		}
	}

	if w.env[block-1].cosW0 != clampedCos || w.env[block-1].alpha != clampedAlpha {
		t.Errorf("saturated shape = (%v, %v), want clamped (%v, %v)",
			w.env[block-1].cosW0, w.env[block-1].alpha, clampedCos, clampedAlpha)
	}
}

func TestProcessMatchesBiquadReference(t *testing.T) {
	const block = 512

	w, ctx := newTestEffect(t, 48000, block, 1)
	out := makeBuses(1, block)

	p := DefaultParams()
	p.Resonance = 100
	configure(t, w, ctx, p, 1, 1, out)

	// Steady unity gain so the bus carries the raw wet signal.
	w.chans[0].currentGains[0] = 1
	w.chans[0].targetGains[0] = 1

	in := make([]float64, block)
	for i := range in {
		in[i] = 0.7 * math.Sin(2*math.Pi*float64(i)*220/48000)
	}

	w.Process(block, [][]float64{in}, 1, out)

	// Reference path: the same envelope drives a biquad Section whose
	// peaking coefficients are redesigned every sample.
	env := 0.0
	sec := biquad.NewSection(biquad.Coefficients{})
	for i, x := range in {
		sample := w.peakGain * math.Abs(x)
		rate := w.releaseRate
		if sample > env {
			rate = w.attackRate
		}
		env = core.Lerp(sample, env, rate)

		w0 := math.Min(w.bandwidthNorm*env+w.freqMinNorm, maxFreqNorm) * (2 * math.Pi)
		sec.Coefficients = biquad.Peaking(math.Cos(w0), math.Sin(w0)/(2*qFactor), w.resonanceGain)

		want := sec.ProcessSample(x)
		if !core.NearlyEqual(out[0][i], want, 1e-9) {
			t.Fatalf("sample %d: Process = %v, biquad reference = %v", i, out[0][i], want)
		}
	}
}

func TestProcessIsMonoTriggered(t *testing.T) {
	const block = 128

	w, ctx := newTestEffect(t, 44100, block, 2)
	out := makeBuses(2, block)
	configure(t, w, ctx, DefaultParams(), 2, 1, out)

	// Channel 0 silent, channel 1 loud: the modulation source is channel 0
	// only, so the envelope must stay at rest.
	in := [][]float64{make([]float64, block), make([]float64, block)}
	for i := range in[1] {
		in[1][i] = 0.9
	}

	w.Process(block, in, 2, out)

	if w.envDelay != 0 {
		t.Errorf("envelope = %v, want 0 when channel 0 is silent", w.envDelay)
	}
}

func TestProcessStableAcrossParameterGrid(t *testing.T) {
	const block = 256

	for _, resonance := range []float64{MinResonance, 10, MaxResonance} {
		for _, peakGain := range []float64{MinPeakGain, DefaultPeakGain, MaxPeakGain} {
			w, ctx := newTestEffect(t, 44100, block, 1)
			out := makeBuses(1, block)

			p := DefaultParams()
			p.Resonance = resonance
			p.PeakGain = peakGain
			configure(t, w, ctx, p, 1, 1, out)

			in := make([]float64, block)
			for i := range in {
				in[i] = 0.9 * math.Sin(float64(i)*0.7301)
			}

			for blockIdx := 0; blockIdx < 8; blockIdx++ {
				w.Process(block, [][]float64{in}, 1, out)
			}

			peak := vecmath.MaxAbs(out[0])
			if math.IsNaN(peak) || math.IsInf(peak, 0) || peak > 1e6 {
				t.Fatalf("resonance=%v peakGain=%v: output peak = %v, filter ran away",
					resonance, peakGain, peak)
			}

			if math.IsNaN(w.chans[0].z1) || math.IsNaN(w.chans[0].z2) {
				t.Fatalf("resonance=%v peakGain=%v: filter memory became NaN", resonance, peakGain)
			}

			// Spot-check that every generated filter shape keeps its
			// poles inside the unit circle.
			for i := 0; i < block; i += 32 {
				c := biquad.Peaking(w.env[i].cosW0, w.env[i].alpha, w.resonanceGain)
				if !c.Stable() {
					t.Fatalf("resonance=%v peakGain=%v sample %d: unstable poles %v",
						resonance, peakGain, i, c.Poles())
				}
			}
		}
	}
}

func TestGainRampConvergesThenHolds(t *testing.T) {
	const block = 256

	w, ctx := newTestEffect(t, 44100, block, 2)
	out := makeBuses(2, block)
	configure(t, w, ctx, DefaultParams(), 1, 0.8, out)

	silence := [][]float64{make([]float64, block)}
	w.Process(block, silence, 1, out)

	for o, g := range w.chans[0].currentGains {
		if g != w.chans[0].targetGains[o] {
			t.Fatalf("gain[%d] after one block = %v, want target %v", o, g, w.chans[0].targetGains[o])
		}
	}

	w.Process(block, silence, 1, out)

	for o, g := range w.chans[0].currentGains {
		if g != w.chans[0].targetGains[o] {
			t.Fatalf("gain[%d] moved after reaching target: %v", o, g)
		}
	}
}

func TestProcessMixesAdditively(t *testing.T) {
	const block = 64

	w, ctx := newTestEffect(t, 44100, block, 1)
	out := makeBuses(1, block)
	configure(t, w, ctx, DefaultParams(), 1, 1, out)

	for i := range out[0] {
		out[0][i] = 2.5
	}

	silence := [][]float64{make([]float64, block)}
	w.Process(block, silence, 1, out)

	for i, v := range out[0] {
		if v != 2.5 {
			t.Fatalf("out[%d] = %v, want prior bus content preserved", i, v)
		}
	}
}

func TestProcessSilentInputPreservesBusAtSettledGain(t *testing.T) {
	const block = 128

	w, ctx := newTestEffect(t, 44100, block, 1)
	out := makeBuses(1, block)
	configure(t, w, ctx, DefaultParams(), 1, 0.8, out)

	// Settle the gain ramp at 0.8.
	silence := [][]float64{make([]float64, block)}
	w.Process(block, silence, 1, out)

	for i := range out[0] {
		out[0][i] = 1
	}

	w.Process(block, silence, 1, out)

	for i, v := range out[0] {
		if v != 1 {
			t.Fatalf("out[%d] = %v, want 1 (silent input must not erode bus content)", i, v)
		}
	}
}

func TestProcessAddsScaledSignalToPriorContent(t *testing.T) {
	const (
		block = 128
		prior = 2.0
	)

	in := [][]float64{make([]float64, block)}
	for i := range in[0] {
		in[0][i] = 0.3
	}

	// Reference run at a settled gain of 0.5 into an empty bus.
	ref, refCtx := newTestEffect(t, 44100, block, 1)
	refOut := makeBuses(1, block)
	configure(t, ref, refCtx, DefaultParams(), 1, 0.5, refOut)
	ref.Process(block, in, 1, refOut)
	core.Zero(refOut[0])
	ref.Process(block, in, 1, refOut)

	// Same run into a pre-filled bus, envelope state aligned with the
	// reference by a matching warm-up block.
	w, ctx := newTestEffect(t, 44100, block, 1)
	out := makeBuses(1, block)
	configure(t, w, ctx, DefaultParams(), 1, 0.5, out)
	w.Process(block, in, 1, out)

	for i := range out[0] {
		out[0][i] = prior
	}

	w.Process(block, in, 1, out)

	for i := range out[0] {
		want := prior + refOut[0][i]
		if !core.NearlyEqual(out[0][i], want, 1e-12) {
			t.Fatalf("out[%d] = %v, want %v (prior + signal*gain)", i, out[0][i], want)
		}
	}
}

func TestProcessZeroAlloc(t *testing.T) {
	const block = 256

	w, ctx := newTestEffect(t, 44100, block, 2)
	out := makeBuses(2, block)
	configure(t, w, ctx, DefaultParams(), 1, 1, out)

	in := [][]float64{make([]float64, block)}
	for i := range in[0] {
		in[0][i] = 0.4
	}

	allocs := testing.AllocsPerRun(16, func() {
		w.Process(block, in, 1, out)
	})

	if allocs != 0 {
		t.Errorf("Process allocated %v times per call, want 0", allocs)
	}
}

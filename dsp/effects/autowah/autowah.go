package autowah

import (
	"fmt"
	"math"

	"github.com/GeoffreyPlitt/debuggo"
	"github.com/cwbudde/algo-autowah/dsp/core"
	"github.com/cwbudde/algo-autowah/dsp/effectcore"
)

var debug = debuggo.Debug("effects:autowah")

const (
	minFreqHz = 20.0
	maxFreqHz = 2500.0
	qFactor   = 5.0

	// Ceiling for the normalized center frequency, safely below Nyquist.
	maxFreqNorm = 0.46
)

// envCoeffs holds the per-sample filter shape shared by all channels.
type envCoeffs struct {
	cosW0 float64
	alpha float64
}

type channelState struct {
	// Filter memory, persistent across blocks.
	z1, z2 float64

	currentGains []float64
	targetGains  []float64
}

// AutoWah is the auto-wah effect state. The zero value requires a
// DeviceUpdate before any Update or Process call.
type AutoWah struct {
	// Runtime coefficients, derived wholesale on every Update.
	attackRate    float64
	releaseRate   float64
	resonanceGain float64
	peakGain      float64
	freqMinNorm   float64
	bandwidthNorm float64

	// Envelope follower state, persistent across blocks.
	envDelay float64

	// Per-block scratch, sized to the device's max block length.
	env        []envCoeffs
	bufferOut  []float64
	mixScratch []float64

	chans []channelState
}

var _ effectcore.State = (*AutoWah)(nil)

// New returns an uninitialized AutoWah; call DeviceUpdate before use.
// Most callers go through the [Factory] instead.
func New() *AutoWah {
	return &AutoWah{}
}

// DeviceUpdate re-sizes all internal storage for the device geometry,
// resets runtime coefficients to safe defaults, and clears envelope and
// filter state.
func (w *AutoWah) DeviceUpdate(device *effectcore.Device) error {
	if err := device.Validate(); err != nil {
		return fmt.Errorf("autowah: %w", err)
	}

	debug("device update: rate=%.0f maxBlock=%d channels=%d",
		device.SampleRate, device.MaxBlockSize, device.Channels)

	if cap(w.env) < device.MaxBlockSize {
		w.env = make([]envCoeffs, device.MaxBlockSize)
	} else {
		w.env = w.env[:device.MaxBlockSize]
	}

	w.bufferOut = core.EnsureLen(w.bufferOut, device.MaxBlockSize)
	core.Zero(w.bufferOut)

	w.mixScratch = core.EnsureLen(w.mixScratch, device.MaxBlockSize)
	core.Zero(w.mixScratch)

	if cap(w.chans) < effectcore.MaxAmbiChannels {
		w.chans = make([]channelState, effectcore.MaxAmbiChannels)
	} else {
		w.chans = w.chans[:effectcore.MaxAmbiChannels]
	}

	w.attackRate = 1
	w.releaseRate = 1
	w.resonanceGain = 10
	w.peakGain = 4.5
	w.freqMinNorm = 4.5e-4
	w.bandwidthNorm = 0.05
	w.envDelay = 0

	for i := range w.env {
		w.env[i] = envCoeffs{}
	}

	for c := range w.chans {
		ch := &w.chans[c]
		ch.z1 = 0
		ch.z2 = 0
		ch.currentGains = core.EnsureLen(ch.currentGains, device.Channels)
		ch.targetGains = core.EnsureLen(ch.targetGains, device.Channels)
		core.Zero(ch.currentGains)
		core.Zero(ch.targetGains)
	}

	return nil
}

// Update translates the validated parameters and the context's sample rate
// into runtime coefficients and recomputes each wet channel's target gains
// from the slot routing. No audio is processed.
func (w *AutoWah) Update(ctx *effectcore.Context, slot *effectcore.Slot, props effectcore.Props, target effectcore.Target) {
	p, ok := props.(*Params)
	if !ok {
		ctx.ReportError(fmt.Errorf("%w: autowah props have type %T", effectcore.ErrInvalidEnum, props))
		return
	}

	device := ctx.Device
	releaseTime := core.Clamp(p.ReleaseTime, 0.001, 1.0)

	w.attackRate = math.Exp(-1 / (p.AttackTime * device.SampleRate))
	w.releaseRate = math.Exp(-1 / (releaseTime * device.SampleRate))
	// 0-20 dB resonance peak gain.
	w.resonanceGain = math.Sqrt(math.Log10(p.Resonance) * 10 / 3)
	w.peakGain = 1 - math.Log10(p.PeakGain/MaxPeakGain)
	w.freqMinNorm = minFreqHz / device.SampleRate
	w.bandwidthNorm = (maxFreqHz - minFreqHz) / device.SampleRate

	wet := slot.WetChannels
	if wet > len(w.chans) {
		wet = len(w.chans)
	}

	for i := 0; i < wet; i++ {
		effectcore.ComputePanGains(target, slot.Coeffs(i), slot.Gain, w.chans[i].targetGains)
	}
}

// Process filters samplesToDo frames of samplesIn and mixes the result
// additively into samplesOut. The envelope is driven by input channel 0
// only; every input channel shares the resulting per-sample filter shape.
// Allocation-free.
func (w *AutoWah) Process(samplesToDo int, samplesIn [][]float64, numInput int, samplesOut [][]float64) {
	attackRate := w.attackRate
	releaseRate := w.releaseRate
	resGain := w.resonanceGain
	peakGain := w.peakGain
	freqMin := w.freqMinNorm
	bandwidth := w.bandwidthNorm

	envDelay := w.envDelay
	for i := 0; i < samplesToDo; i++ {
		// Envelope follower described in the book: Audio Effects, Theory,
		// Implementation and Application.
		sample := peakGain * math.Abs(samplesIn[0][i])

		rate := releaseRate
		if sample > envDelay {
			rate = attackRate
		}

		envDelay = core.Lerp(sample, envDelay, rate)

		// Cos and alpha components for this sample's filter.
		w0 := math.Min(bandwidth*envDelay+freqMin, maxFreqNorm) * (2 * math.Pi)
		w.env[i].cosW0 = math.Cos(w0)
		w.env[i].alpha = math.Sin(w0) / (2 * qFactor)
	}
	w.envDelay = envDelay

	for c := 0; c < numInput; c++ {
		// This effectively inlines biquad.Peaking plus Section processing.
		// The alpha and cosine components were already computed with the
		// envelope. Because the filter changes for each sample, the
		// coefficients are transient and don't need to be held.
		z1 := w.chans[c].z1
		z2 := w.chans[c].z2
		input := samplesIn[c]

		for i := 0; i < samplesToDo; i++ {
			alpha := w.env[i].alpha
			cosW0 := w.env[i].cosW0

			b0 := 1 + alpha*resGain
			b1 := -2 * cosW0
			b2 := 1 - alpha*resGain
			a0 := 1 + alpha/resGain
			a1 := -2 * cosW0
			a2 := 1 - alpha/resGain

			x := input[i]
			y := x*(b0/a0) + z1
			z1 = x*(b1/a0) - y*(a1/a0) + z2
			z2 = x*(b2/a0) - y*(a2/a0)
			w.bufferOut[i] = y
		}

		w.chans[c].z1 = core.FlushDenormals(z1)
		w.chans[c].z2 = core.FlushDenormals(z2)

		effectcore.MixSamples(w.bufferOut[:samplesToDo], samplesOut,
			w.chans[c].currentGains, w.chans[c].targetGains, samplesToDo,
			w.mixScratch)
	}
}

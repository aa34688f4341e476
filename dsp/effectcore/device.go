package effectcore

import (
	"fmt"
	"math"
)

// Geometry ceilings for pre-sized effect storage.
const (
	// MaxOutputChannels bounds the per-channel gain vectors.
	MaxOutputChannels = 16

	// MaxAmbiChannels bounds the virtual (wet) input channels an effect
	// processes, matching third-order ambisonics.
	MaxAmbiChannels = 16
)

// Device describes the audio device geometry an effect sizes its storage to.
// It is supplied by the device/context layer; effects never query it
// independently.
type Device struct {
	// SampleRate in Hz.
	SampleRate float64

	// MaxBlockSize is the largest frame count a Process call may carry.
	MaxBlockSize int

	// Channels is the output bus channel count.
	Channels int
}

// Validate reports whether the geometry fits the fixed ceilings. Effects call
// this from DeviceUpdate; a non-nil error is an initialization failure and
// the effect must not process audio until a later DeviceUpdate succeeds.
func (d *Device) Validate() error {
	if d == nil {
		return fmt.Errorf("effectcore: nil device")
	}

	if d.SampleRate <= 0 || math.IsNaN(d.SampleRate) || math.IsInf(d.SampleRate, 0) {
		return fmt.Errorf("effectcore: device sample rate must be > 0 and finite: %f", d.SampleRate)
	}

	if d.MaxBlockSize <= 0 {
		return fmt.Errorf("effectcore: device max block size must be > 0: %d", d.MaxBlockSize)
	}

	if d.Channels < 1 || d.Channels > MaxOutputChannels {
		return fmt.Errorf("effectcore: device channel count must be in [1, %d]: %d", MaxOutputChannels, d.Channels)
	}

	return nil
}

package effectcore

import "fmt"

// Slot is the effect-slot view an effect sees at Update time: how many wet
// channels feed it, the slot gain, and one spatialization gain row per wet
// channel. Rows come from the caller's panning layer; this package consumes
// them and never derives them.
type Slot struct {
	// WetChannels is the number of virtual input channels feeding the
	// effect, at most MaxAmbiChannels.
	WetChannels int

	// Gain scales every target gain derived from this slot.
	Gain float64

	// GainCoeffs holds one row per wet channel; row entries are
	// per-output-channel contribution weights.
	GainCoeffs [][]float64
}

// NewSlot creates a slot with identity routing: wet channel i feeds output
// channel i at unit weight. This mirrors a first-order pass-through chain and
// is the routing most effects start from.
func NewSlot(wetChannels int, gain float64) (*Slot, error) {
	if wetChannels < 1 || wetChannels > MaxAmbiChannels {
		return nil, fmt.Errorf("effectcore: slot wet channels must be in [1, %d]: %d", MaxAmbiChannels, wetChannels)
	}

	coeffs := make([][]float64, wetChannels)
	for i := range coeffs {
		coeffs[i] = AmbiIdentityRow(i, MaxOutputChannels)
	}

	return &Slot{
		WetChannels: wetChannels,
		Gain:        gain,
		GainCoeffs:  coeffs,
	}, nil
}

// Coeffs returns the gain row for wet channel i, or an identity row if the
// slot carries none.
func (s *Slot) Coeffs(i int) []float64 {
	if i < len(s.GainCoeffs) && s.GainCoeffs[i] != nil {
		return s.GainCoeffs[i]
	}

	return AmbiIdentityRow(i, MaxOutputChannels)
}

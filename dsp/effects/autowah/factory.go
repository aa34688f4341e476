package autowah

import "github.com/cwbudde/algo-autowah/dsp/effectcore"

// EffectType is the registry identifier for the auto-wah effect.
const EffectType = "autowah"

// Factory creates auto-wah instances and their default parameters.
type Factory struct{}

var _ effectcore.Factory = Factory{}

// Create returns a fresh, uninitialized effect state.
func (Factory) Create() effectcore.State { return New() }

// DefaultProps returns the documented parameter defaults.
func (Factory) DefaultProps() effectcore.Props { return DefaultParams() }

// Register adds the auto-wah factory to r under [EffectType].
func Register(r *effectcore.Registry) error {
	return r.Register(EffectType, Factory{})
}

package autowah

import (
	"fmt"

	"github.com/cwbudde/algo-autowah/dsp/effectcore"
)

// Parameter identifiers for the auto-wah effect.
const (
	AttackTime effectcore.Param = iota + 1
	ReleaseTime
	Resonance
	PeakGain
)

// Documented parameter ranges and defaults.
const (
	MinAttackTime     = 1.0e-4
	MaxAttackTime     = 1.0
	DefaultAttackTime = 0.06

	MinReleaseTime     = 1.0e-4
	MaxReleaseTime     = 1.0
	DefaultReleaseTime = 0.06

	MinResonance     = 2.0
	MaxResonance     = 1000.0
	DefaultResonance = 1000.0

	MinPeakGain     = 3.0e-5
	MaxPeakGain     = 31621.0
	DefaultPeakGain = 11.22
)

// Params is the validated parameter store for one auto-wah instance.
// Fields are read directly by Update; mutation goes through the enumerated
// setters, which reject out-of-range values without touching stored state.
type Params struct {
	AttackTime  float64
	ReleaseTime float64
	Resonance   float64
	PeakGain    float64
}

// DefaultParams returns a Params with every parameter at its default.
func DefaultParams() *Params {
	return &Params{
		AttackTime:  DefaultAttackTime,
		ReleaseTime: DefaultReleaseTime,
		Resonance:   DefaultResonance,
		PeakGain:    DefaultPeakGain,
	}
}

// SetParamf validates and stores one float parameter.
func (p *Params) SetParamf(ctx *effectcore.Context, param effectcore.Param, value float64) error {
	switch param {
	case AttackTime:
		if value < MinAttackTime || value > MaxAttackTime {
			return ctx.ReportError(fmt.Errorf("%w: autowah attack time out of range: %v", effectcore.ErrInvalidValue, value))
		}

		p.AttackTime = value

	case ReleaseTime:
		if value < MinReleaseTime || value > MaxReleaseTime {
			return ctx.ReportError(fmt.Errorf("%w: autowah release time out of range: %v", effectcore.ErrInvalidValue, value))
		}

		p.ReleaseTime = value

	case Resonance:
		if value < MinResonance || value > MaxResonance {
			return ctx.ReportError(fmt.Errorf("%w: autowah resonance out of range: %v", effectcore.ErrInvalidValue, value))
		}

		p.Resonance = value

	case PeakGain:
		if value < MinPeakGain || value > MaxPeakGain {
			return ctx.ReportError(fmt.Errorf("%w: autowah peak gain out of range: %v", effectcore.ErrInvalidValue, value))
		}

		p.PeakGain = value

	default:
		return ctx.ReportError(fmt.Errorf("%w: invalid autowah float property %d", effectcore.ErrInvalidEnum, param))
	}

	return nil
}

// SetParamfv stores values[0] for the given parameter.
func (p *Params) SetParamfv(ctx *effectcore.Context, param effectcore.Param, values []float64) error {
	if len(values) == 0 {
		return ctx.ReportError(fmt.Errorf("%w: empty autowah float vector", effectcore.ErrInvalidValue))
	}

	return p.SetParamf(ctx, param, values[0])
}

// SetParami always fails: the auto-wah has no integer parameters.
func (p *Params) SetParami(ctx *effectcore.Context, param effectcore.Param, _ int) error {
	return ctx.ReportError(fmt.Errorf("%w: invalid autowah integer property %d", effectcore.ErrInvalidEnum, param))
}

// SetParamiv always fails: the auto-wah has no integer parameters.
func (p *Params) SetParamiv(ctx *effectcore.Context, param effectcore.Param, _ []int) error {
	return ctx.ReportError(fmt.Errorf("%w: invalid autowah integer vector property %d", effectcore.ErrInvalidEnum, param))
}

// GetParamf returns one float parameter.
func (p *Params) GetParamf(ctx *effectcore.Context, param effectcore.Param) (float64, error) {
	switch param {
	case AttackTime:
		return p.AttackTime, nil
	case ReleaseTime:
		return p.ReleaseTime, nil
	case Resonance:
		return p.Resonance, nil
	case PeakGain:
		return p.PeakGain, nil
	default:
		return 0, ctx.ReportError(fmt.Errorf("%w: invalid autowah float property %d", effectcore.ErrInvalidEnum, param))
	}
}

// GetParamfv stores the parameter into values[0].
func (p *Params) GetParamfv(ctx *effectcore.Context, param effectcore.Param, values []float64) error {
	if len(values) == 0 {
		return ctx.ReportError(fmt.Errorf("%w: empty autowah float vector", effectcore.ErrInvalidValue))
	}

	v, err := p.GetParamf(ctx, param)
	if err != nil {
		return err
	}

	values[0] = v

	return nil
}

// GetParami always fails: the auto-wah has no integer parameters.
func (p *Params) GetParami(ctx *effectcore.Context, param effectcore.Param) (int, error) {
	return 0, ctx.ReportError(fmt.Errorf("%w: invalid autowah integer property %d", effectcore.ErrInvalidEnum, param))
}

// GetParamiv always fails: the auto-wah has no integer parameters.
func (p *Params) GetParamiv(ctx *effectcore.Context, param effectcore.Param, _ []int) error {
	return ctx.ReportError(fmt.Errorf("%w: invalid autowah integer vector property %d", effectcore.ErrInvalidEnum, param))
}

package effectcore

// Param is an effect-scoped parameter identifier. Each effect defines its own
// enumeration; identifiers are meaningless across effect types.
type Param int

// Props is the validated parameter store of one effect instance. Setters
// reject out-of-range values and unknown identifiers by reporting
// [ErrInvalidValue] or [ErrInvalidEnum] through the context, leaving stored
// state untouched. Getters for valid identifiers always succeed.
//
// Effects with no integer parameters reject every integer accessor with
// [ErrInvalidEnum].
type Props interface {
	SetParamf(ctx *Context, param Param, value float64) error
	SetParamfv(ctx *Context, param Param, values []float64) error
	SetParami(ctx *Context, param Param, value int) error
	SetParamiv(ctx *Context, param Param, values []int) error

	GetParamf(ctx *Context, param Param) (float64, error)
	GetParamfv(ctx *Context, param Param, values []float64) error
	GetParami(ctx *Context, param Param) (int, error)
	GetParamiv(ctx *Context, param Param, values []int) error
}

// Target describes the destination output buses for one effect: one buffer
// per output channel. It is rebound on every Update and not owned by the
// effect.
type Target struct {
	Buffer   [][]float64
	Channels int
}

// State is the per-effect lifecycle contract.
//
// The owning framework calls DeviceUpdate once at creation and again on any
// sample rate or channel layout change, Update whenever parameters or routing
// change, and Process once per audio block. DeviceUpdate and Update run on a
// control path; Process runs on the real-time render path and is
// allocation-free. The framework guarantees the calls never overlap for one
// instance.
type State interface {
	// DeviceUpdate re-sizes and zeroes all internal storage for the device
	// geometry and resets runtime coefficients to safe defaults. A non-nil
	// error means the geometry cannot be represented; the instance must not
	// process audio until a later DeviceUpdate succeeds.
	DeviceUpdate(device *Device) error

	// Update derives runtime coefficients from props and the context's
	// device, and recomputes per-channel target gains from the slot's
	// routing. It processes no audio.
	Update(ctx *Context, slot *Slot, props Props, target Target)

	// Process filters samplesToDo frames from samplesIn (numInput >= 1
	// channels) and mixes the result additively into samplesOut.
	// samplesToDo must not exceed the device's MaxBlockSize.
	Process(samplesToDo int, samplesIn [][]float64, numInput int, samplesOut [][]float64)
}

// Factory creates effect instances and their default parameter stores. One
// factory per effect type is registered in a [Registry].
type Factory interface {
	Create() State
	DefaultProps() Props
}

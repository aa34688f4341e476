// Package effectcore defines the pluggable effect lifecycle contract and the
// shared infrastructure effects build on: device geometry, the control
// context with its error-reporting channel, effect slots and routing targets,
// the gain-ramped bus mixer, and a type-erased effect factory registry.
//
// An effect implements [State] with exactly three operations, invoked in
// strict order by the owning framework: DeviceUpdate once per device change,
// Update on parameter or routing changes, Process once per audio block.
// Process runs on the real-time render path and must not allocate or block;
// DeviceUpdate and Update run on a control path and must never overlap a
// Process call on the same instance. The package provides no locking.
package effectcore

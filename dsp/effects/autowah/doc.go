// Package autowah implements an auto-wah effect behind the effectcore
// lifecycle contract.
//
// An envelope follower tracks the amplitude of the first input channel and
// sweeps the center frequency of a resonant peaking filter between 20 Hz and
// 2.5 kHz. The filter shape is recomputed every sample from shared
// trigonometric terms, so the wah follows the playing dynamics with no
// manual control. Multiple input channels share the modulation signal but
// are filtered independently and mixed into the output buses with gain
// ramping.
package autowah

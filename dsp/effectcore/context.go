package effectcore

import (
	"github.com/cwbudde/algo-autowah/logging"
)

// Context carries the control-path environment for Update and parameter
// calls: the current device and the diagnostic/error channels. It is never
// touched by Process.
type Context struct {
	Device *Device
	Logger *logging.Logger

	lastErr error
}

// NewContext creates a Context for the given device. logger may be nil to
// silence diagnostics.
func NewContext(device *Device, logger *logging.Logger) *Context {
	return &Context{Device: device, Logger: logger}
}

// ReportError records err as the context's pending error and emits it at
// error level. The first pending error wins until collected; err is returned
// unchanged so call sites can report and propagate in one step.
func (c *Context) ReportError(err error) error {
	if c == nil || err == nil {
		return err
	}

	if c.lastErr == nil {
		c.lastErr = err
	}

	if c.Logger != nil {
		c.Logger.Errorf("%v", err)
	}

	return err
}

// LastError returns the pending error and clears it, or nil.
func (c *Context) LastError() error {
	err := c.lastErr
	c.lastErr = nil

	return err
}

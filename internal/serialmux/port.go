// Package serialmux provides the serial transport for the scanning rig: port
// options, a real-port opener with a post-connect settle delay, and a
// line-oriented monitor feeding the scan pipeline.
package serialmux

import (
	"io"
	"time"
)

// SerialPorter is the minimal interface the scanner needs from a serial port.
// The abstraction enables unit testing without rig hardware.
type SerialPorter interface {
	io.ReadWriter
	io.Closer
}

// TimeoutSerialPorter extends SerialPorter with a read timeout, for ports
// that support one.
type TimeoutSerialPorter interface {
	SerialPorter
	// SetReadTimeout sets the read timeout for the serial port.
	SetReadTimeout(timeout time.Duration) error
}

// SetReadTimeout applies a read timeout if the port supports one. Ports
// without timeout support are left as-is; the idle-timeout policy in the
// accumulator still bounds a silent stream.
func SetReadTimeout(port SerialPorter, timeout time.Duration) error {
	if tp, ok := port.(TimeoutSerialPorter); ok {
		return tp.SetReadTimeout(timeout)
	}
	return nil
}

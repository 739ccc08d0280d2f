package serialmux

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Open opens the real serial port at path and waits out the settle delay
// before returning. Opening the port resets the rig's microcontroller, so
// reads before the settle window closes would race the firmware boot.
func Open(path string, opts PortOptions, settle time.Duration) (SerialPorter, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", path, err)
	}

	if settle > 0 {
		time.Sleep(settle)
	}
	return port, nil
}

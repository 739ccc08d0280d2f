package serialmux

import (
	"bufio"
	"context"

	"github.com/banshee-data/scan3d/internal/monitoring"
)

// Lines reads newline-delimited text from the port and delivers each line on
// the returned channel. The channel closes when the port reaches EOF, the
// read fails, or ctx is cancelled. The blocking Scan runs in its own
// goroutine so the consumer can select over lines, timers, and cancellation.
func Lines(ctx context.Context, port SerialPorter) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)
		scan := bufio.NewScanner(port)
		for scan.Scan() {
			select {
			case out <- scan.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scan.Err(); err != nil && ctx.Err() == nil {
			monitoring.Logf("Warning: serial read ended with error: %v", err)
		}
	}()

	return out
}

package scan

import (
	"context"
	"strings"
	"time"

	"github.com/banshee-data/scan3d/internal/monitoring"
)

// State tracks the accumulator through one scan session.
type State int

const (
	// StateAwaitingFirstData is the session start state, before any line has
	// parsed successfully.
	StateAwaitingFirstData State = iota
	// StateStreaming is entered on the first successfully parsed line.
	StateStreaming
	// StateFinalizing is entered on a termination trigger: stream exhaustion,
	// idle timeout, or cancellation.
	StateFinalizing
	// StateDone is terminal; the cloud is read-only.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateAwaitingFirstData:
		return "awaiting-first-data"
	case StateStreaming:
		return "streaming"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Renderer receives incremental and final views of the running point cloud.
// Rendering is visual feedback only: renderer errors are logged and never
// affect accumulation or session state.
type Renderer interface {
	// RenderIncremental redraws the live view of the running cloud.
	RenderIncremental(cloud *PointCloud) error
	// RenderFinal persists the finished cloud and returns the artifact path.
	RenderFinal(cloud *PointCloud) (string, error)
}

// Options configure one scan session.
type Options struct {
	Calibration CalibrationParameters
	Arm         ArmGeometry

	// MinDistance and MaxDistance bound valid calibrated ranges in inches.
	// Readings at or below Min, or above Max, are discarded as noise or echo
	// dropouts. MaxDistance defaults to 30.
	MinDistance float64
	MaxDistance float64

	// IdleTimeout ends a live session after this long without a successfully
	// parsed line. The rig never signals end of transmission explicitly, so
	// silence is the proxy for completion. Zero disables the idle check
	// (replay mode, where exhaustion terminates instead).
	IdleTimeout time.Duration

	// RenderEvery triggers an incremental render after every Nth appended
	// point. Defaults to 10.
	RenderEvery int

	// EchoLines logs every raw incoming line, matching the live serial
	// monitor behaviour. Off for replay.
	EchoLines bool

	Renderer  Renderer
	SessionID string
}

// Accumulator drives the measurement pipeline for one session: parse,
// calibrate, transform, filter, append. It owns the point cloud and the
// session state machine.
type Accumulator struct {
	opts     Options
	cloud    *PointCloud
	state    State
	attempts int
}

// NewAccumulator builds an accumulator with option defaults applied.
func NewAccumulator(opts Options) *Accumulator {
	if opts.MaxDistance == 0 {
		opts.MaxDistance = 30
	}
	if opts.RenderEvery <= 0 {
		opts.RenderEvery = 10
	}
	return &Accumulator{
		opts:  opts,
		cloud: NewPointCloud(),
		state: StateAwaitingFirstData,
	}
}

// State returns the current session state.
func (a *Accumulator) State() State {
	return a.state
}

// Cloud returns the session's point cloud.
func (a *Accumulator) Cloud() *PointCloud {
	return a.cloud
}

// Attempts returns how many parsed measurements entered the transform
// pipeline, including those the range filter later discarded.
func (a *Accumulator) Attempts() int {
	return a.attempts
}

// processLine runs one raw line through the pipeline. A parse failure warns
// and drops the line; an out-of-range calibrated distance drops it silently.
// It reports whether the line parsed successfully.
func (a *Accumulator) processLine(line string) bool {
	if line == "" {
		return false
	}

	m, err := ParseLine(line)
	if err != nil {
		monitoring.Logf("Warning: could not parse line %q: %v", line, err)
		return false
	}

	if a.state == StateAwaitingFirstData {
		a.state = StateStreaming
	}
	a.attempts++

	distance := a.opts.Calibration.Distance(m.Duration)
	if distance <= a.opts.MinDistance || distance > a.opts.MaxDistance {
		return true
	}

	pt := a.opts.Arm.PointFrom(m.PanDeg, m.TiltDeg, distance)
	a.cloud.Add(pt)
	monitoring.Logf("Object position: x=%.2f, y=%.2f, z=%.2f", pt.X, pt.Y, pt.Z)

	if a.opts.Renderer != nil && a.cloud.Len()%a.opts.RenderEvery == 0 {
		if err := a.opts.Renderer.RenderIncremental(a.cloud); err != nil {
			monitoring.Logf("Warning: incremental render failed: %v", err)
		}
	}
	return true
}

// Run consumes lines until the channel closes (replay exhaustion), the idle
// timeout fires (live mode), or ctx is cancelled (user interrupt). Every exit
// path finalizes the session: the final render runs once and the cloud
// becomes read-only. Cancellation is a normal termination, not an error.
func (a *Accumulator) Run(ctx context.Context, lines <-chan string) error {
	var idle *time.Timer
	var idleC <-chan time.Time
	if a.opts.IdleTimeout > 0 {
		idle = time.NewTimer(a.opts.IdleTimeout)
		defer idle.Stop()
		idleC = idle.C
	}

	defer a.finalize()

	for {
		select {
		case <-ctx.Done():
			monitoring.Logf("Scan stopped: %v", ctx.Err())
			return nil

		case <-idleC:
			monitoring.Logf("No data received for %s. Assuming scan is complete.", a.opts.IdleTimeout)
			return nil

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			if a.opts.EchoLines && line != "" {
				monitoring.Logf("%s", line)
			}
			if a.processLine(line) && idle != nil {
				if !idle.Stop() {
					select {
					case <-idle.C:
					default:
					}
				}
				idle.Reset(a.opts.IdleTimeout)
			}
		}
	}
}

// finalize runs the terminal render exactly once and advances the state
// machine to done. Render or save failures are reported but do not fail the
// session.
func (a *Accumulator) finalize() {
	if a.state == StateDone {
		return
	}
	a.state = StateFinalizing

	if a.opts.Renderer != nil && a.cloud.Len() > 0 {
		monitoring.Logf("Generating final plot...")
		if path, err := a.opts.Renderer.RenderFinal(a.cloud); err != nil {
			monitoring.Logf("Error: could not save the plot: %v", err)
		} else {
			monitoring.Logf("Successfully saved plot to %s", path)
		}
	}

	a.state = StateDone
}

// Command scan3d ingests pan/tilt range measurements from the scanning rig,
// either live over serial or replayed from a CSV file, and renders the
// accumulated point cloud to a PNG at session end.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/banshee-data/scan3d/internal/config"
	"github.com/banshee-data/scan3d/internal/monitoring"
	"github.com/banshee-data/scan3d/internal/render"
	"github.com/banshee-data/scan3d/internal/scan"
	"github.com/banshee-data/scan3d/internal/serialmux"
)

var (
	csvFile      = flag.String("csv-file", "", "Path to CSV file containing pan,tilt,duration lines (use instead of live serial)")
	csvFileShort = flag.String("c", "", "Shorthand for -csv-file")
	portName     = flag.String("port", "", "Serial port to read from (overrides config)")
	baudRate     = flag.Int("baud", 0, "Serial bit rate; must match the rig firmware (overrides config)")
	configPath   = flag.String("config", "", "Optional JSON config file with partial overrides")
	outDir       = flag.String("out-dir", "", "Directory for rendered plots (overrides config)")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	if *portName != "" {
		cfg.Port = portName
	}
	if *baudRate != 0 {
		cfg.BaudRate = baudRate
	}
	if *outDir != "" {
		cfg.OutDir = outDir
	}

	replayFile := *csvFile
	if replayFile == "" {
		replayFile = *csvFileShort
	}

	session := uuid.NewString()
	renderer := render.NewCloudRenderer(cfg.GetOutDir(), session)

	opts := scan.Options{
		Calibration: scan.CalibrationParameters{
			Slope:     cfg.GetCalibrationSlope(),
			Intercept: cfg.GetCalibrationIntercept(),
		},
		Arm: scan.ArmGeometry{
			R1: cfg.GetArmR1Inches(),
			R2: cfg.GetArmR2Inches(),
		},
		MinDistance: cfg.GetMinDistanceInches(),
		MaxDistance: cfg.GetMaxDistanceInches(),
		RenderEvery: cfg.GetRenderEvery(),
		Renderer:    renderer,
		SessionID:   session,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if replayFile != "" {
		runReplay(ctx, opts, replayFile)
		return
	}
	runLive(ctx, opts, cfg)
}

// runReplay feeds buffered file lines through the pipeline. Exhaustion
// finalizes immediately; there is no idle wait.
func runReplay(ctx context.Context, opts scan.Options, path string) {
	lines, err := scan.LoadReplay(path)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	monitoring.Logf("Reading data from CSV: %s (session %s)", path, opts.SessionID)

	ch := make(chan string)
	go func() {
		defer close(ch)
		for _, line := range lines {
			select {
			case ch <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	acc := scan.NewAccumulator(opts)
	if err := acc.Run(ctx, ch); err != nil {
		log.Fatalf("Error: replay failed: %v", err)
	}
	monitoring.Logf("Replay complete: %d points from %d measurements", acc.Cloud().Len(), acc.Attempts())
}

// runLive streams from the serial port until the rig goes quiet or the user
// interrupts. Both paths still finalize and save the plot.
func runLive(ctx context.Context, opts scan.Options, cfg *config.Config) {
	port, err := serialmux.Open(cfg.GetPort(), serialmux.PortOptions{BaudRate: cfg.GetBaudRate()}, cfg.GetSettleDelay())
	if err != nil {
		log.Fatalf("Error: could not open serial port %s: %v", cfg.GetPort(), err)
	}
	defer func() {
		if err := port.Close(); err != nil {
			monitoring.Logf("Warning: closing serial port: %v", err)
			return
		}
		monitoring.Logf("Serial port closed.")
	}()

	if err := serialmux.SetReadTimeout(port, cfg.GetReadTimeout()); err != nil {
		monitoring.Logf("Warning: could not set read timeout: %v", err)
	}
	monitoring.Logf("Connected to scanner on %s (session %s)", cfg.GetPort(), opts.SessionID)

	opts.IdleTimeout = cfg.GetIdleTimeout()
	opts.EchoLines = true

	acc := scan.NewAccumulator(opts)
	if err := acc.Run(ctx, serialmux.Lines(ctx, port)); err != nil {
		monitoring.Logf("Warning: scan ended with error: %v", err)
		os.Exit(1)
	}
	monitoring.Logf("Scan complete: %d points from %d measurements", acc.Cloud().Len(), acc.Attempts())
}

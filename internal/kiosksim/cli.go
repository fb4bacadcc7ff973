package kiosksim

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/binsight/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "kiosk_sim_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the kiosk simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`BinSight Kiosk Simulator
========================

Drives a running kiosk service through registration and full session
flows, then verifies its statistics and stored records.

Usage:
  go run cmd/kiosk-sim/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -users int
        Number of users to register (default 5)
  -sessions int
        Number of full sessions to run (default 10)
  -timeout duration
        HTTP request timeout (default 10s)
  -poll duration
        Session polling interval (default 100ms)
  -log string
        Log file for simulation output (default: kiosk_sim_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/kiosk-sim/main.go

  # Longer run against a remote kiosk
  go run cmd/kiosk-sim/main.go -url http://kiosk:8080 -users 20 -sessions 100

Tip: point the simulator at a service started with short timings, e.g.
BINSIGHT_RECORDING_TICKS=5 BINSIGHT_TICK_INTERVAL_MS=20, so sessions
finish quickly.
`)
}

package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/binsight/internal/kiosksim"
)

// Default configuration constants.
const (
	defaultNumUsers     = 5
	defaultNumSessions  = 10
	defaultTimeout      = 10 * time.Second
	defaultPollInterval = 100 * time.Millisecond
	defaultRunTimeout   = 30 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:8080", "Base URL of the service")
		numUsers     = flag.Int("users", defaultNumUsers, "Number of users to register")
		numSessions  = flag.Int("sessions", defaultNumSessions, "Number of full sessions to run")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		pollInterval = flag.Duration("poll", defaultPollInterval, "Session polling interval")
		logFile      = flag.String("log", "", "Log file for simulation output (default: kiosk_sim_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		kiosksim.ShowHelp()
		return
	}

	if err := kiosksim.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &kiosksim.Config{
		BaseURL:      *baseURL,
		NumUsers:     *numUsers,
		NumSessions:  *numSessions,
		Timeout:      *timeout,
		PollInterval: *pollInterval,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	if err := kiosksim.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}

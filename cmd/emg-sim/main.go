// ABOUTME: Entry point for the simulated EMG sensor
// ABOUTME: Parses CLI flags and serves synthetic EMG1 frames
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emgkit/flexbeeper/internal/sim"
	"github.com/emgkit/flexbeeper/internal/version"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := sim.DefaultConfig()
	var logFile string
	var noMDNS bool

	flagSet := pflag.NewFlagSet("emg-sim", pflag.ContinueOnError)
	flagSet.IntVar(&cfg.Port, "port", cfg.Port, "WebSocket server port")
	flagSet.StringVar(&cfg.Name, "name", "", "Sensor name advertised over mDNS (default: hostname-emg-sim)")
	flagSet.StringVar(&cfg.Path, "path", cfg.Path, "WebSocket path")
	flagSet.IntVar(&cfg.FrameSamples, "frame-samples", cfg.FrameSamples, "Samples per frame")
	flagSet.IntVar(&cfg.Generator.SampleRate, "rate", cfg.Generator.SampleRate, "Sample rate in Hz")
	flagSet.Int16Var(&cfg.Scale, "scale", cfg.Scale, "Raw counts per physical unit")
	flagSet.IntVar(&cfg.DropEvery, "drop-every", 0, "Skip every Nth frame (0 disables)")
	flagSet.IntVar(&cfg.SplitBytes, "split", 0, "Send fixed-size messages that straddle frames (0 disables)")
	flagSet.DurationVar(&cfg.Generator.Period, "period", cfg.Generator.Period, "Time between contractions")
	flagSet.DurationVar(&cfg.Generator.Burst, "burst", cfg.Generator.Burst, "Contraction length")
	flagSet.Float64Var(&cfg.Generator.Peak, "peak", cfg.Generator.Peak, "Contraction peak above baseline")
	flagSet.Int64Var(&cfg.Generator.Seed, "seed", time.Now().UnixNano(), "Noise seed")
	flagSet.BoolVar(&noMDNS, "no-mdns", false, "Disable mDNS advertisement")
	flagSet.StringVar(&logFile, "log-file", "emg-sim.log", "Log file path")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	cfg.EnableMDNS = !noMDNS

	f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}
	defer f.Close()
	log.SetOutput(io.MultiWriter(os.Stdout, f))

	if cfg.Name == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		cfg.Name = fmt.Sprintf("%s-emg-sim", hostname)
	}

	srv, err := sim.New(cfg)
	if err != nil {
		return err
	}

	log.Printf("Starting %s sensor simulator: %s on port %d", version.String(), cfg.Name, cfg.Port)
	log.Printf("Press Ctrl-C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down", sig)
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Printf("Simulator stopped")
	return nil
}

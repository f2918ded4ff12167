// ABOUTME: Entry point for the flexbeeper EMG viewer
// ABOUTME: Parses CLI flags and wires the sensor pipeline, beeper and TUI
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/emgkit/flexbeeper/internal/app"
	"github.com/emgkit/flexbeeper/internal/config"
	"github.com/emgkit/flexbeeper/internal/discovery"
	"github.com/emgkit/flexbeeper/internal/ui"
	"github.com/emgkit/flexbeeper/internal/version"
	"github.com/emgkit/flexbeeper/pkg/audio/output"
	"github.com/emgkit/flexbeeper/pkg/ring"
	"github.com/emgkit/flexbeeper/pkg/waveform"
	"github.com/spf13/pflag"
)

// discoveryTimeout bounds the wait for an mDNS sensor
const discoveryTimeout = 10 * time.Second

type options struct {
	configPath string
	discover   bool
	noAudio    bool
	noTUI      bool
	showVer    bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if opts.showVer {
		fmt.Println(version.String())
		return nil
	}

	useTUI := !opts.noTUI

	// Set up logging
	f, err := os.OpenFile(cfg.Logging.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s", version.String())

	endpoint := cfg.Endpoint
	if opts.discover {
		endpoint, err = discoverSensor()
		if err != nil {
			return err
		}
	}

	buf, err := ring.New(cfg.Ring.Capacity)
	if err != nil {
		return err
	}

	var beeper output.Beeper
	if opts.noAudio || !cfg.Beep.Enabled {
		beeper = output.NewSilent()
	} else {
		beeper = output.NewOto(cfg.Beep.Gain)
	}
	defer func() {
		if err := beeper.Close(); err != nil {
			log.Printf("Error closing audio: %v", err)
		}
	}()

	var tuiProg *tea.Program
	var controls *ui.Controls
	var reporter app.Reporter

	if useTUI {
		controls = ui.NewControls()
		tuiProg = ui.Run(controls, ui.Options{
			Endpoint:   endpoint,
			Trigger:    cfg.TriggerConfig(),
			WaveHeight: cfg.Display.Height,
		})
		reporter = app.ReporterFunc(func(s app.State) {
			tuiProg.Send(ui.StatusMsg{State: s})
		})
	} else {
		reporter = newLogReporter()
	}

	pipeline, err := app.New(app.Config{
		Trigger: cfg.TriggerConfig(),
		Tone: app.ToneConfig{
			Enabled:     cfg.Beep.Enabled,
			FrequencyHz: cfg.Beep.FrequencyHz,
			Duration:    cfg.BeepDuration(),
		},
	}, buf, beeper, reporter)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	pipeline.Start()
	defer pipeline.Stop()

	pipeline.Connect(endpoint)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if !useTUI {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down", sig)
		return nil
	}

	canvas := waveform.NewCanvas(80, cfg.Display.Height)
	renderer := waveform.NewRenderer(buf, canvas, waveform.Options{})
	style := ui.WaveStyle(cfg.Display.LineWidth)
	loop := waveform.NewLoop(renderer, cfg.Display.RefreshHz, waveform.SinkFunc(func(p waveform.Paint) {
		tuiProg.Send(ui.WaveformMsg{View: canvas.Render(style), Paint: p})
	}))
	loop.Start()
	defer loop.Stop()

	go handleControls(controls, pipeline, renderer)

	tuiDone := make(chan error, 1)
	go func() {
		_, err := tuiProg.Run()
		tuiDone <- err
	}()

	select {
	case <-controls.Quit:
		log.Printf("Received quit signal from TUI")
	case sig := <-sigChan:
		log.Printf("Received %v signal, shutting down", sig)
		tuiProg.Quit()
	case err := <-tuiDone:
		if err != nil {
			return fmt.Errorf("tui: %w", err)
		}
	}

	log.Printf("Viewer stopped")
	return nil
}

// parseFlags builds the configuration from defaults, an optional YAML
// file and explicitly set flags, in that order
func parseFlags(args []string) (*config.Config, options, error) {
	var opts options
	defaults := config.Default()

	var (
		endpoint  string
		hi, lo    float64
		gapMs     int
		capacity  int
		height    int
		refreshHz int
		logFile   string
	)

	flagSet := pflag.NewFlagSet("flexbeeper", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flagSet.StringVarP(&endpoint, "endpoint", "e", defaults.Endpoint, "Sensor websocket endpoint")
	flagSet.BoolVar(&opts.discover, "discover", false, "Find the sensor over mDNS instead of using --endpoint")
	flagSet.Float64Var(&hi, "threshold-hi", defaults.Trigger.ThresholdHi, "Upper trigger threshold")
	flagSet.Float64Var(&lo, "threshold-lo", defaults.Trigger.ThresholdLo, "Lower re-arm threshold")
	flagSet.IntVar(&gapMs, "min-gap-ms", defaults.Trigger.MinGapMs, "Minimum time between triggers in milliseconds")
	flagSet.IntVar(&capacity, "capacity", defaults.Ring.Capacity, "Samples of history kept for display")
	flagSet.IntVar(&height, "height", defaults.Display.Height, "Waveform height in rows")
	flagSet.IntVar(&refreshHz, "refresh-hz", defaults.Display.RefreshHz, "Waveform repaint rate")
	flagSet.StringVar(&logFile, "log-file", defaults.Logging.File, "Log file path")
	flagSet.BoolVar(&opts.noAudio, "no-audio", false, "Disable the trigger beep")
	flagSet.BoolVar(&opts.noTUI, "no-tui", false, "Disable TUI, use streaming logs instead")
	flagSet.BoolVar(&opts.showVer, "version", false, "Print version and exit")

	if err := flagSet.Parse(args); err != nil {
		return nil, opts, err
	}

	cfg := defaults
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, opts, fmt.Errorf("config %s: %w", opts.configPath, err)
		}
		cfg = loaded
	}

	if flagSet.Changed("endpoint") {
		cfg.Endpoint = endpoint
	}
	if flagSet.Changed("threshold-hi") {
		cfg.Trigger.ThresholdHi = hi
	}
	if flagSet.Changed("threshold-lo") {
		cfg.Trigger.ThresholdLo = lo
	}
	if flagSet.Changed("min-gap-ms") {
		cfg.Trigger.MinGapMs = gapMs
	}
	if flagSet.Changed("capacity") {
		cfg.Ring.Capacity = capacity
	}
	if flagSet.Changed("height") {
		cfg.Display.Height = height
	}
	if flagSet.Changed("refresh-hz") {
		cfg.Display.RefreshHz = refreshHz
	}
	if flagSet.Changed("log-file") {
		cfg.Logging.File = logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, opts, err
	}

	return cfg, opts, nil
}

// discoverSensor waits for the first sensor advertised over mDNS
func discoverSensor() (string, error) {
	log.Printf("Starting sensor discovery...")
	disc := discovery.NewManager(discovery.Config{ServiceName: version.Product})
	defer disc.Stop()

	if err := disc.Browse(); err != nil {
		return "", fmt.Errorf("discovery: %w", err)
	}

	select {
	case sensor := <-disc.Sensors():
		log.Printf("Discovered sensor %s at %s", sensor.Name, sensor.Endpoint())
		return sensor.Endpoint(), nil
	case <-time.After(discoveryTimeout):
		return "", fmt.Errorf("no sensor found after %v", discoveryTimeout)
	}
}

// handleControls forwards TUI actions to the pipeline and renderer
func handleControls(controls *ui.Controls, pipeline *app.Pipeline, renderer *waveform.Renderer) {
	for {
		select {
		case endpoint := <-controls.Connect:
			log.Printf("Connect requested: %s", endpoint)
			pipeline.Connect(endpoint)
		case cfg := <-controls.Trigger:
			if err := pipeline.SetTrigger(cfg); err != nil {
				log.Printf("Rejected trigger change: %v", err)
			}
		case <-controls.Reset:
			pipeline.ResetCount()
		case size := <-controls.Resize:
			renderer.SetSize(size.Cols, size.Rows)
		}
	}
}

// newLogReporter logs status changes, reps and drops in headless mode
func newLogReporter() app.Reporter {
	var last app.State

	return app.ReporterFunc(func(s app.State) {
		if s.Status != last.Status {
			if s.Err != "" {
				log.Printf("Status: %s (%s)", s.Status, s.Err)
			} else {
				log.Printf("Status: %s %s", s.Status, s.Endpoint)
			}
		}
		if s.Reps > last.Reps {
			log.Printf("Rep %d", s.Reps)
		}
		if s.MissedFrames > last.MissedFrames {
			log.Printf("Missed %d frame(s), %d total", s.MissedFrames-last.MissedFrames, s.MissedFrames)
		}
		last = s
	})
}

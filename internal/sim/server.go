// ABOUTME: Simulated EMG sensor serving EMG1 frames over WebSocket
// ABOUTME: Optionally drops frames and splits writes to exercise resync
package sim

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/emgkit/flexbeeper/internal/discovery"
	"github.com/emgkit/flexbeeper/pkg/emg"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Config holds simulator configuration
type Config struct {
	Port         int
	Name         string
	Path         string
	EnableMDNS   bool
	FrameSamples int   // samples per frame
	Scale        int16 // raw counts per physical unit
	DropEvery    int   // skip every Nth sequence number; 0 disables
	SplitBytes   int   // fixed websocket message size; 0 sends one frame per message
	Generator    GeneratorConfig

	// NewSource builds the signal for each stream. Nil uses Generator.
	NewSource func() Source
}

// Source produces samples in physical units at a fixed rate
type Source interface {
	Read(samples []float64)
	SampleRate() int
}

// DefaultConfig returns a 1 kHz sensor sending 20 ms frames
func DefaultConfig() Config {
	return Config{
		Port:         8081,
		Name:         "emg-sim",
		Path:         "/",
		EnableMDNS:   true,
		FrameSamples: 20,
		Scale:        1000,
		Generator:    DefaultGeneratorConfig(),
	}
}

// Server is a simulated sensor
type Server struct {
	config   Config
	upgrader websocket.Upgrader

	httpServer  *http.Server
	mux         *http.ServeMux
	mdnsManager *discovery.Manager

	ctx    context.Context
	cancel context.CancelFunc

	sessions   int
	sessionsMu sync.Mutex
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

// New creates a simulator
func New(config Config) (*Server, error) {
	if config.FrameSamples <= 0 || config.FrameSamples > emg.MaxSamplesPerFrame {
		return nil, fmt.Errorf("frame samples %d out of range", config.FrameSamples)
	}
	if config.NewSource == nil {
		if err := checkRate(config.Generator.SampleRate); err != nil {
			return nil, err
		}
		gen := config.Generator
		config.NewSource = func() Source { return NewGenerator(gen) }
	}
	if config.DropEvery < 0 || config.SplitBytes < 0 {
		return nil, fmt.Errorf("drop and split settings must not be negative")
	}
	if config.Path == "" {
		config.Path = "/"
	}
	if config.Scale == 0 {
		config.Scale = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			// Local sensor emulation only
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}
	s.mux.HandleFunc(config.Path, s.handleWebSocket)

	return s, nil
}

// Handler returns the HTTP handler serving the sensor stream
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start advertises the sensor and serves until Stop is called
func (s *Server) Start() error {
	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
			Path:        s.config.Path,
		})

		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Sensor simulator listening on %s%s", addr, s.config.Path)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop closes every stream and shuts the listener down
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		log.Printf("Stopping simulator")
		s.cancel()

		if s.mdnsManager != nil {
			s.mdnsManager.Stop()
		}

		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := s.httpServer.Shutdown(ctx); err != nil {
				log.Printf("Error shutting down HTTP server: %v", err)
			}
		}

		s.wg.Wait()
	})
}

// Sessions returns the number of streams served so far
func (s *Server) Sessions() int {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	return s.sessions
}

// handleWebSocket upgrades the request and streams until either side quits
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	s.sessionsMu.Lock()
	s.sessions++
	s.sessionsMu.Unlock()

	s.wg.Add(1)
	defer s.wg.Done()

	id := uuid.New().String()
	log.Printf("Viewer connected: %s (session %s)", r.RemoteAddr, id)

	err = s.stream(conn)
	if err != nil {
		log.Printf("Stream %s ended: %v", id, err)
	} else {
		log.Printf("Stream %s ended", id)
	}
}

// stream sends frames at the generator's real-time rate
func (s *Server) stream(conn *websocket.Conn) error {
	defer conn.Close()

	// Drain reads so close frames from the viewer are noticed
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	src := s.config.NewSource()
	rate := src.SampleRate()
	if err := checkRate(rate); err != nil {
		return err
	}
	interval := time.Duration(s.config.FrameSamples) * time.Second / time.Duration(rate)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	values := make([]float64, s.config.FrameSamples)
	var seq uint32
	var pending []byte

	for {
		select {
		case <-s.ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "simulator stopping")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			return nil
		case <-gone:
			return nil
		case <-ticker.C:
		}

		src.Read(values)
		seq++
		if s.config.DropEvery > 0 && seq%uint32(s.config.DropEvery) == 0 {
			continue
		}

		frame := emg.Encode(emg.FrameHeader{
			SampleRateHz: uint16(rate),
			Scale:        s.config.Scale,
			Sequence:     seq,
		}, emg.Quantize(values, s.config.Scale))

		if s.config.SplitBytes == 0 {
			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return err
			}
			continue
		}

		pending = append(pending, frame...)
		for len(pending) >= s.config.SplitBytes {
			if err := conn.WriteMessage(websocket.BinaryMessage, pending[:s.config.SplitBytes]); err != nil {
				return err
			}
			pending = pending[s.config.SplitBytes:]
		}
	}
}

// checkRate rejects rates the u16 header field cannot carry
func checkRate(rate int) error {
	if rate <= 0 || rate > 65535 {
		return fmt.Errorf("sample rate %d out of range", rate)
	}
	return nil
}

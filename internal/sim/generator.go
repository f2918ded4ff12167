// ABOUTME: Synthetic EMG envelope generator
// ABOUTME: Baseline noise with periodic muscle contraction bursts
package sim

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// GeneratorConfig shapes the synthetic signal
type GeneratorConfig struct {
	SampleRate int
	Period     time.Duration // time between contraction onsets
	Burst      time.Duration // contraction length
	Peak       float64       // envelope peak above baseline
	Baseline   float64
	Noise      float64 // uniform noise amplitude
	Seed       int64
}

// DefaultGeneratorConfig flexes every 1.5s for 600ms
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		SampleRate: 1000,
		Period:     1500 * time.Millisecond,
		Burst:      600 * time.Millisecond,
		Peak:       4.0,
		Baseline:   0.6,
		Noise:      0.25,
		Seed:       1,
	}
}

// Generator produces a rectified EMG-like envelope
type Generator struct {
	mu          sync.Mutex
	config      GeneratorConfig
	sampleIndex uint64
	rng         *rand.Rand
}

// NewGenerator creates a generator
func NewGenerator(config GeneratorConfig) *Generator {
	if config.SampleRate <= 0 {
		config.SampleRate = 1000
	}
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// SampleRate returns samples per second
func (g *Generator) SampleRate() int {
	return g.config.SampleRate
}

// Read fills samples with the next values
func (g *Generator) Read(samples []float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rate := float64(g.config.SampleRate)
	period := g.config.Period.Seconds()
	burst := g.config.Burst.Seconds()

	for i := range samples {
		t := float64(g.sampleIndex+uint64(i)) / rate

		env := 0.0
		if period > 0 && burst > 0 {
			phase := math.Mod(t, period)
			if phase < burst {
				s := math.Sin(math.Pi * phase / burst)
				env = s * s
			}
		}

		noise := g.config.Noise * (2*g.rng.Float64() - 1)
		v := g.config.Baseline + g.config.Peak*env + noise
		if v < 0 {
			v = -v
		}
		samples[i] = v
	}

	g.sampleIndex += uint64(len(samples))
}

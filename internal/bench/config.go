// Package bench orchestrates the matrix-multiply benchmark: per strategy it
// repeats a Setup → Dispatch → Drain → Readback → Report cycle, resetting
// the matrices before every trial so no trial observes carry-over state.
package bench

import "fmt"

// Benchmark defaults. The simulated device pays a goroutine per work item,
// so the default order is kept moderate.
const (
	DefaultOrder  = 256
	DefaultTrials = 3

	// The tiled dispatch defaults to order/16 work items per group, the
	// geometry the kernel was written against.
	tiledLocalDivisor = 16
)

// Config carries every process-wide benchmark constant explicitly so
// multiple configurations can coexist in one process.
type Config struct {
	// Order is the matrix dimension N; all three matrices are N×N.
	Order int `yaml:"order" json:"order"`
	// Trials is how many timed runs each strategy performs.
	Trials int `yaml:"trials" json:"trials"`
	// DeviceIndex selects the device for the kernel strategies.
	DeviceIndex int `yaml:"device" json:"device"`
	// LocalSize overrides the tiled kernel's work group size. Zero selects
	// the default geometry.
	LocalSize int `yaml:"local" json:"local,omitempty"`
}

// WithDefaults fills unset fields with the benchmark defaults.
func (c Config) WithDefaults() Config {
	if c.Order == 0 {
		c.Order = DefaultOrder
	}
	if c.Trials == 0 {
		c.Trials = DefaultTrials
	}
	return c
}

// Validate rejects configurations no strategy can run.
func (c Config) Validate() error {
	if c.Order <= 0 {
		return fmt.Errorf("matrix order %d: must be positive", c.Order)
	}
	if c.Trials <= 0 {
		return fmt.Errorf("trial count %d: must be positive", c.Trials)
	}
	if c.LocalSize < 0 {
		return fmt.Errorf("local size %d: must not be negative", c.LocalSize)
	}
	if c.DeviceIndex < 0 {
		return fmt.Errorf("device index %d: must not be negative", c.DeviceIndex)
	}
	return nil
}

// TiledLocalSize returns the tiled strategy's work group size clamped to
// [1, Order] and to the device's group size limit.
func (c Config) TiledLocalSize(maxGroupSize int) int {
	ls := c.LocalSize
	if ls == 0 {
		ls = c.Order / tiledLocalDivisor
	}
	if ls < 1 {
		ls = 1
	}
	if ls > c.Order {
		ls = c.Order
	}
	if maxGroupSize > 0 && ls > maxGroupSize {
		ls = maxGroupSize
	}
	return ls
}

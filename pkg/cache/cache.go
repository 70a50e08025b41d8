// Package cache provides waveform result caching for the simulation pipeline.
//
// Transient analyses of identical circuits with identical parameters are
// deterministic, so their recordings can be reused across runs. Cache keys are
// derived from the exported netlist deck and the analysis parameters, which
// means any change to the circuit or to the analysis invalidates the entry.
//
// # Implementations
//
//   - FileCache: entries stored as files under a directory (CLI usage)
//   - NullCache: caching disabled, every lookup misses
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.WaveformKey(deckHash, cache.WaveformKeyOpts{Step: 1e-10, End: 5e-8})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// TTLWaveform bounds how long cached recordings are kept. Recordings are
// cheap to recompute relative to their size on disk.
const TTLWaveform = 7 * 24 * time.Hour

// Cache is the storage interface for simulation artifacts.
// Implementations must treat missing and expired entries as misses, not errors.
type Cache interface {
	// Get retrieves a value. The second return value reports a cache hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// WaveformKeyOpts captures the analysis parameters that affect a recording.
type WaveformKeyOpts struct {
	Step        float64 // timestep in seconds
	End         float64 // stop time in seconds
	Temperature float64 // ambient temperature in Celsius
	NominalTemp float64 // nominal temperature in Celsius
	Method      string  // integration method ("euler", "trapezoidal")
}

// Keyer generates cache keys for the different cacheable stages.
type Keyer interface {
	// WaveformKey generates a key for a transient recording.
	// deckHash is the hash of the exported netlist deck.
	WaveformKey(deckHash string, opts WaveformKeyOpts) string
}

// DefaultKeyer is the standard key generation strategy.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// WaveformKey generates a key for a transient recording.
func (k *DefaultKeyer) WaveformKey(deckHash string, opts WaveformKeyOpts) string {
	return hashKey("waveform", deckHash, opts.Step, opts.End, opts.Temperature, opts.NominalTemp, opts.Method)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)

package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/voltlab/voltra/pkg/cache"
	"github.com/voltlab/voltra/pkg/circuit"
	"github.com/voltlab/voltra/pkg/engine"
	"github.com/voltlab/voltra/pkg/errors"
	"github.com/voltlab/voltra/pkg/observability"
	"github.com/voltlab/voltra/pkg/render/waveplot"
	"github.com/voltlab/voltra/pkg/waveform"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → simulate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.New(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	ckt, err := r.Load(opts)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load")
	}
	result.Circuit = ckt
	result.Deck = ckt.Deck()
	result.DeckHash = cache.Hash([]byte(result.Deck))
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded circuit",
		"title", ckt.Title,
		"elements", len(ckt.Elements()),
		"nodes", len(ckt.Nodes()))

	// Stage 2: Simulate
	simStart := time.Now()
	rec, waveHit, err := r.SimulateWithCacheInfo(ctx, ckt, opts)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "simulate")
	}
	result.Recording = rec
	result.Stats.SimulateTime = time.Since(simStart)
	result.Stats.Points = rec.Len()
	result.CacheInfo.WaveformHit = waveHit

	r.Logger.Info("simulated transient",
		"points", rec.Len(),
		"signals", len(rec.Names()),
		"cached", waveHit,
		"duration", result.Stats.SimulateTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, rec, ckt, opts)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "render")
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load builds the circuit from a built-in design or a TOML netlist file.
func (r *Runner) Load(opts Options) (*circuit.Circuit, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.Netlist != "" {
		return circuit.LoadFile(opts.Netlist)
	}
	return circuit.Builtin(opts.Circuit)
}

// SimulateWithCacheInfo runs the transient analysis with caching and returns
// cache hit info. Recordings are keyed by the netlist deck and the analysis
// parameters, so any circuit or parameter change invalidates the entry.
func (r *Runner) SimulateWithCacheInfo(ctx context.Context, ckt *circuit.Circuit, opts Options) (*waveform.Recording, bool, error) {
	if err := opts.ValidateForSimulate(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	deckHash := cache.Hash([]byte(ckt.Deck()))
	cacheKey := r.Keyer.WaveformKey(deckHash, opts.WaveformKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			rec, err := waveform.Decode(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "waveform")
				return rec, true, nil // Cache hit
			}
			// Corrupt entry; fall through to recompute
		}
	}
	observability.Cache().OnCacheMiss(ctx, "waveform")

	sim, err := engine.New(ckt, opts.EngineOptions())
	if err != nil {
		return nil, false, err
	}
	rec, err := sim.Transient(ctx, opts.TranSpec())
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := rec.Encode(); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLWaveform); err == nil {
			observability.Cache().OnCacheSet(ctx, "waveform", len(data))
		}
	}

	return rec, false, nil // Cache miss
}

// Simulate is a convenience wrapper that discards the cache hit info.
func (r *Runner) Simulate(ctx context.Context, ckt *circuit.Circuit, opts Options) (*waveform.Recording, error) {
	rec, _, err := r.SimulateWithCacheInfo(ctx, ckt, opts)
	return rec, err
}

// Render generates artifacts for every requested format.
func (r *Runner) Render(ctx context.Context, rec *waveform.Recording, ckt *circuit.Circuit, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	title := opts.Title
	if title == "" && ckt != nil {
		title = ckt.Title
	}
	plotOpts := waveplot.Options{Title: title, Signals: opts.Signals}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		observability.Render().OnRenderStart(ctx, format)
		start := time.Now()

		data, err := renderFormat(rec, plotOpts, format)
		observability.Render().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(rec *waveform.Recording, plotOpts waveplot.Options, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatPNG:
		if err := waveplot.WritePNG(&buf, rec, plotOpts); err != nil {
			return nil, err
		}
	case FormatSVG:
		if err := waveplot.WriteSVG(&buf, rec, plotOpts); err != nil {
			return nil, err
		}
	case FormatCSV:
		if err := rec.WriteCSV(&buf); err != nil {
			return nil, err
		}
	case FormatJSON:
		data, err := rec.Encode()
		if err != nil {
			return nil, err
		}
		return data, nil
	default:
		return nil, ValidateFormat(format)
	}
	return buf.Bytes(), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

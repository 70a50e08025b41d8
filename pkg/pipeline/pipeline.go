// Package pipeline provides the core simulation pipeline for Voltra.
//
// This package implements the complete load → simulate → render pipeline
// shared by every CLI entry point. Centralizing this logic keeps behavior
// consistent and avoids duplicating the caching rules.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Build the circuit from a built-in design or a TOML netlist
//  2. Simulate: Run the transient analysis, reusing cached recordings
//  3. Render: Generate output in various formats (PNG, SVG, CSV, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Circuit: "inverter",
//	    Formats: []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/voltlab/voltra/pkg/cache"
	"github.com/voltlab/voltra/pkg/circuit"
	"github.com/voltlab/voltra/pkg/engine"
	"github.com/voltlab/voltra/pkg/errors"
	"github.com/voltlab/voltra/pkg/waveform"
)

// Default analysis parameters shared by every entry point.
const (
	// DefaultStep is the transient timestep in seconds.
	DefaultStep = 0.1e-9

	// DefaultEnd is the transient stop time in seconds.
	DefaultEnd = 50e-9

	// DefaultTemperature is the ambient temperature in Celsius.
	DefaultTemperature = 25.0

	// DefaultNominalTemperature is the model extraction temperature in Celsius.
	DefaultNominalTemperature = 25.0

	// DefaultMethod is the integration method.
	DefaultMethod = string(engine.BackwardEuler)
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatCSV:  true,
	FormatJSON: true,
}

// ValidMethods is the set of supported integration methods.
var ValidMethods = map[string]bool{
	string(engine.BackwardEuler): true,
	string(engine.Trapezoidal):   true,
}

// Options contains all configuration for the simulation pipeline.
type Options struct {
	// Load options
	Circuit string `json:"circuit,omitempty"` // built-in circuit name
	Netlist string `json:"netlist,omitempty"` // TOML netlist path

	// Analysis options
	Step        float64 `json:"step,omitempty"`
	End         float64 `json:"end,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	NominalTemp float64 `json:"nominal_temp,omitempty"`
	Method      string  `json:"method,omitempty"`
	UseIC       bool    `json:"use_ic,omitempty"`
	Refresh     bool    `json:"refresh,omitempty"` // bypass the waveform cache

	// Render options
	Formats []string `json:"formats,omitempty"`
	Signals []string `json:"signals,omitempty"` // traces to plot; empty means all
	Title   string   `json:"title,omitempty"`   // plot title; empty means circuit title

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID uuid.UUID

	// Circuit is the loaded design.
	Circuit *circuit.Circuit

	// Deck is the exported netlist and DeckHash its content hash.
	Deck     string
	DeckHash string

	// Recording holds the simulated node voltages.
	Recording *waveform.Recording

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Points       int
	LoadTime     time.Duration
	SimulateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	WaveformHit bool // Whether the recording came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, csv, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMethod checks that an integration method is valid.
func ValidateMethod(method string) error {
	if !ValidMethods[method] {
		return errors.New(errors.ErrCodeInvalidAnalysis, "invalid method: %q (must be one of: euler, trapezoidal)", method)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForSimulate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for circuit loading.
func (o *Options) ValidateForLoad() error {
	if o.Circuit == "" && o.Netlist == "" {
		return errors.New(errors.ErrCodeInvalidNetlist, "circuit or netlist is required")
	}
	if o.Circuit != "" && o.Netlist != "" {
		return errors.New(errors.ErrCodeInvalidNetlist, "circuit and netlist are mutually exclusive")
	}
	o.applyLoggerDefault()
	return nil
}

// ValidateForSimulate validates and sets defaults for the analysis stage.
func (o *Options) ValidateForSimulate() error {
	if o.Step == 0 {
		o.Step = DefaultStep
	}
	if o.End == 0 {
		o.End = DefaultEnd
	}
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	if o.NominalTemp == 0 {
		o.NominalTemp = DefaultNominalTemperature
	}
	if o.Method == "" {
		o.Method = DefaultMethod
	}
	o.applyLoggerDefault()
	return ValidateMethod(o.Method)
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	o.applyLoggerDefault()
	return ValidateFormats(o.Formats)
}

// EngineOptions maps the pipeline configuration onto the simulator.
func (o *Options) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.Temperature = o.Temperature
	opts.NominalTemperature = o.NominalTemp
	opts.Method = engine.Method(o.Method)
	return opts
}

// TranSpec maps the pipeline configuration onto the transient analysis.
func (o *Options) TranSpec() engine.TranSpec {
	return engine.TranSpec{Step: o.Step, End: o.End, UseIC: o.UseIC}
}

// WaveformKeyOpts returns cache key options for the simulation stage.
func (o *Options) WaveformKeyOpts() cache.WaveformKeyOpts {
	return cache.WaveformKeyOpts{
		Step:        o.Step,
		End:         o.End,
		Temperature: o.Temperature,
		NominalTemp: o.NominalTemp,
		Method:      o.Method,
	}
}

func (o *Options) applyLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

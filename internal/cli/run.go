package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voltlab/voltra/pkg/circuit"
	"github.com/voltlab/voltra/pkg/pipeline"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	netlist    string // TOML netlist path (positional arg)
	circuitStr string // built-in circuit name
	stepStr    string // timestep with SPICE suffix, e.g. "0.1n"
	endStr     string // stop time with SPICE suffix, e.g. "50n"
	temp       float64
	method     string
	useIC      bool
	formatsStr string
	signalsStr string
	title      string
	output     string
	noCache    bool
	refresh    bool
	preview    bool
}

// runCommand creates the run command, the main simulation entry point.
func (c *CLI) runCommand() *cobra.Command {
	opts := runOpts{
		temp:    pipeline.DefaultTemperature,
		method:  pipeline.DefaultMethod,
		preview: true,
	}

	cmd := &cobra.Command{
		Use:   "run [netlist.toml]",
		Short: "Simulate a circuit and render its waveforms",
		Long: `Simulate a circuit and render its waveforms.

The run command loads a circuit from a TOML netlist file (or a built-in
design via --circuit), runs a fixed-step transient analysis, and writes
the waveforms in the requested formats.

Recordings are cached locally, keyed by the netlist and the analysis
parameters, so repeated runs are fast.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.netlist = args[0]
			}
			return c.runSimulation(withLogger(cmd.Context(), c.Logger), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.circuitStr, "circuit", "c", "", "built-in circuit: inverter, rc")
	cmd.Flags().StringVar(&opts.stepStr, "step", "0.1n", "transient timestep in seconds")
	cmd.Flags().StringVar(&opts.endStr, "end", "50n", "transient stop time in seconds")
	cmd.Flags().Float64Var(&opts.temp, "temp", opts.temp, "ambient temperature in Celsius")
	cmd.Flags().StringVar(&opts.method, "method", opts.method, "integration method: euler (default), trapezoidal")
	cmd.Flags().BoolVar(&opts.useIC, "use-ic", false, "start from declared initial conditions, skipping the operating point")
	cmd.Flags().StringVarP(&opts.formatsStr, "format", "f", "", "output format(s): png (default), svg, csv, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.signalsStr, "signals", "s", "", "signals to plot (comma-separated, default all)")
	cmd.Flags().StringVar(&opts.title, "title", "", "plot title (default circuit title)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached recording exists")
	cmd.Flags().BoolVar(&opts.preview, "preview", opts.preview, "print a terminal waveform preview")

	return cmd
}

// runSimulation executes the full pipeline and writes the artifacts.
func (c *CLI) runSimulation(ctx context.Context, opts *runOpts) error {
	logger := loggerFromContext(ctx)

	popts, err := opts.pipelineOptions()
	if err != nil {
		return err
	}
	popts.Logger = logger

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		printError("Simulation failed")
		return err
	}
	prog.done(fmt.Sprintf("Simulated %d points", result.Stats.Points))

	printSuccess("%s", result.Circuit.Title)
	printStats(result.Stats.Points, len(result.Recording.Names()), result.CacheInfo.WaveformHit)

	if opts.preview {
		printWaveformPreview(result.Recording, 48)
	}

	return writeArtifacts(result.Artifacts, popts.Formats, opts.outputBase(), opts.output)
}

// pipelineOptions converts CLI flags into pipeline options.
func (o *runOpts) pipelineOptions() (pipeline.Options, error) {
	step, err := circuit.ParseValue(o.stepStr)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("invalid --step: %w", err)
	}
	end, err := circuit.ParseValue(o.endStr)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("invalid --end: %w", err)
	}

	circuitName := o.circuitStr
	if o.netlist == "" && circuitName == "" {
		circuitName = "inverter"
	}

	return pipeline.Options{
		Circuit:     circuitName,
		Netlist:     o.netlist,
		Step:        step,
		End:         end,
		Temperature: o.temp,
		Method:      o.method,
		UseIC:       o.useIC,
		Refresh:     o.refresh,
		Formats:     parseFormats(o.formatsStr),
		Signals:     parseSignals(o.signalsStr),
		Title:       o.title,
	}, nil
}

// outputBase derives the default artifact base name from the input source.
func (o *runOpts) outputBase() string {
	if o.netlist != "" {
		return strings.TrimSuffix(filepath.Base(o.netlist), filepath.Ext(o.netlist))
	}
	if o.circuitStr != "" {
		return o.circuitStr
	}
	return "inverter"
}

// writeArtifacts writes each rendered format to disk. With a single format,
// output names the file directly; otherwise output (or base) is used as the
// path prefix and the format becomes the extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, base, output string) error {
	single := len(formats) == 1

	for _, format := range formats {
		path := artifactPath(format, base, output, single)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

func artifactPath(format, base, output string, single bool) string {
	if output == "" {
		return base + "." + format
	}
	if single {
		return output
	}
	// Strip a known format extension so png/svg pairs share a base.
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		output = strings.TrimSuffix(output, ext)
	}
	return output + "." + format
}
